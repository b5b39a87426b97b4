package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"

	"catalog/cli/internal/api"
	cerrors "catalog/cli/internal/errors"
	"catalog/cli/internal/router"
	"catalog/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func products(n int) []api.Product {
	out := make([]api.Product, n)
	for i := range out {
		out[i] = api.Product{ID: i + 1, Title: fmt.Sprintf("Item %d", i+1), Price: float64(i) + 0.5, Category: "misc"}
	}
	return out
}

func TestPaginate(t *testing.T) {
	items := products(23)
	tests := []struct {
		name      string
		page      int
		perPage   int
		wantPage  int
		wantPer   int
		wantPages int
		wantFirst int
		wantLen   int
	}{
		{name: "first page", page: 0, perPage: 10, wantPage: 0, wantPer: 10, wantPages: 3, wantFirst: 1, wantLen: 10},
		{name: "last partial page", page: 2, perPage: 10, wantPage: 2, wantPer: 10, wantPages: 3, wantFirst: 21, wantLen: 3},
		{name: "beyond last clamps", page: 9, perPage: 10, wantPage: 2, wantPer: 10, wantPages: 3, wantFirst: 21, wantLen: 3},
		{name: "negative clamps", page: -1, perPage: 5, wantPage: 0, wantPer: 5, wantPages: 5, wantFirst: 1, wantLen: 5},
		{name: "invalid per page", page: 0, perPage: 7, wantPage: 0, wantPer: 10, wantPages: 3, wantFirst: 1, wantLen: 10},
		{name: "large per page", page: 0, perPage: 25, wantPage: 0, wantPer: 25, wantPages: 1, wantFirst: 1, wantLen: 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.page, tt.perPage)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPer, p.PerPage)
			assert.Equal(t, tt.wantPages, p.Pages)
			assert.Equal(t, 23, p.Total)
			require.Len(t, p.Items, tt.wantLen)
			assert.Equal(t, tt.wantFirst, p.Items[0].ID)
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate(nil, 3, 10)
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, 1, p.Pages)
	assert.Empty(t, p.Items)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$109.95", FormatPrice(109.95))
	assert.Equal(t, "$7.00", FormatPrice(7))
}

func TestRenderList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderList(&buf, Paginate(products(12), 1, 10)))
	out := buf.String()
	assert.Contains(t, out, "Item 11")
	assert.Contains(t, out, "$10.50")
	assert.NotContains(t, out, "Item 1 ")
	assert.Contains(t, out, "page 2 of 2")
	assert.Contains(t, out, "11-12 of 12")

	buf.Reset()
	require.NoError(t, RenderList(&buf, Paginate(nil, 0, 10)))
	assert.Contains(t, buf.String(), "No products available.")
}

func TestRenderDetail(t *testing.T) {
	var buf bytes.Buffer
	prod := &api.Product{ID: 1, Title: "Backpack", Price: 109.95, Category: "men's clothing", Rating: &api.Rating{Rate: 3.9, Count: 120}}
	require.NoError(t, RenderDetail(&buf, prod))
	out := buf.String()
	assert.Contains(t, out, "Product #1")
	assert.Contains(t, out, "Backpack")
	assert.Contains(t, out, "$109.95")
	assert.Contains(t, out, "3.9 (120 reviews)")

	buf.Reset()
	require.NoError(t, RenderDetail(&buf, &api.Product{ID: 2, Title: "Plain"}))
	assert.NotContains(t, buf.String(), "Rating")
}

type stubSource struct {
	items  []api.Product
	err    error
	before func()
}

func (s *stubSource) ListProducts(context.Context) ([]api.Product, error) {
	if s.before != nil {
		s.before()
	}
	return s.items, s.err
}

func (s *stubSource) GetProduct(_ context.Context, id string) (*api.Product, error) {
	if s.before != nil {
		s.before()
	}
	for i := range s.items {
		if fmt.Sprint(s.items[i].ID) == id {
			return &s.items[i], nil
		}
	}
	return nil, cerrors.New(cerrors.NotFound, "product not found")
}

func signedInNav() *router.Navigator {
	s := session.Session{Token: "tok-abc", Authenticated: true}
	return router.NewNavigator(router.NewTable(), func() session.Session { return s }, nil)
}

func TestLoaderCurrentTicket(t *testing.T) {
	nav := signedInNav()
	l := NewLoader(&stubSource{items: products(3)}, nav)

	ticket, d := nav.Navigate(router.PathProducts)
	require.True(t, d.Allow)
	items, err := l.LoadList(context.Background(), ticket)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	ticket, _ = nav.Navigate(router.ProductPath("999"))
	_, err = l.LoadDetail(context.Background(), ticket, "999")
	assert.True(t, cerrors.Is(err, cerrors.NotFound))
}

func TestLoaderDropsStaleResults(t *testing.T) {
	nav := signedInNav()
	src := &stubSource{items: products(3)}
	l := NewLoader(src, nav)

	first, _ := nav.Navigate(router.ProductPath("1"))
	src.before = func() { nav.Navigate(router.ProductPath("2")) }

	prod, err := l.LoadDetail(context.Background(), first, "1")
	assert.ErrorIs(t, err, ErrStale)
	assert.Nil(t, prod)

	_, err = l.LoadList(context.Background(), first)
	assert.ErrorIs(t, err, ErrStale)
}

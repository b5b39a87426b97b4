package mockapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog/cli/internal/api"
	"catalog/cli/internal/auth"
	cerrors "catalog/cli/internal/errors"
	"catalog/cli/internal/router"
	"catalog/cli/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := NewServer(Options{})
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestFixtureLoads(t *testing.T) {
	srv, err := NewServer(Options{})
	require.NoError(t, err)
	require.Len(t, srv.products, 20)
	assert.Equal(t, 109.95, srv.products[0].Price)
	require.NotNil(t, srv.products[0].Rating)
}

func TestLoginEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "valid", body: `{"username":"admin123","password":"123admin"}`, status: http.StatusCreated},
		{name: "second user", body: `{"username":"mor_2314","password":"83r5^_"}`, status: http.StatusCreated},
		{name: "wrong password", body: `{"username":"admin123","password":"nope"}`, status: http.StatusUnauthorized},
		{name: "unknown user", body: `{"username":"ghost","password":"x"}`, status: http.StatusUnauthorized},
		{name: "missing fields", body: `{}`, status: http.StatusBadRequest},
		{name: "malformed", body: `{"username":`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/auth/login", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("Content-Type"))
			if tt.status == http.StatusCreated {
				var out api.LoginResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
				assert.True(t, strings.HasPrefix(out.Token, "tok-"), out.Token)
			}
		})
	}
}

func TestProductsRequireBearer(t *testing.T) {
	srv, ts := newTestServer(t)
	token := srv.Issue("admin123")

	get := func(path, bearer string) int {
		req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
		require.NoError(t, err)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, get("/products", ""))
	assert.Equal(t, http.StatusUnauthorized, get("/products/1", "tok-bogus"))
	assert.Equal(t, http.StatusOK, get("/products", token))
	assert.Equal(t, http.StatusOK, get("/products/1", token))
	assert.Equal(t, http.StatusNotFound, get("/products/999", token))
	assert.Equal(t, http.StatusNotFound, get("/products/abc", token))

	srv.Revoke(token)
	assert.Equal(t, http.StatusUnauthorized, get("/products", token))
}

// app wires the client-side components against the mock server the same way
// the CLI does.
type app struct {
	store  *session.Store
	nav    *router.Navigator
	client *api.Client
	ctrl   *auth.Controller
}

func newApp(baseURL string) *app {
	a := &app{}
	a.store = session.NewStore(nil, nil)
	a.nav = router.NewNavigator(router.NewTable(), a.store.Current, nil)
	a.client = api.New(baseURL,
		api.WithTokenSource(a.store),
		api.WithUnauthorizedHandler(func() { a.ctrl.Expire() }),
	)
	a.ctrl = auth.NewController(a.client, a.store, a.nav, nil)
	return a
}

func TestScenarioValidLogin(t *testing.T) {
	_, ts := newTestServer(t)
	a := newApp(ts.URL)

	out := a.ctrl.Login(context.Background(), auth.Credentials{Username: "admin123", Password: "123admin"})
	require.True(t, out.OK(), out.Message())
	assert.Equal(t, auth.StateAuthenticated, a.ctrl.State())
	assert.Equal(t, router.PathProducts, a.nav.Location())

	_, d := a.nav.Navigate(router.PathProducts)
	assert.True(t, d.Allow)
	items, err := a.client.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 20)
}

func TestScenarioInvalidLogin(t *testing.T) {
	_, ts := newTestServer(t)
	a := newApp(ts.URL)

	out := a.ctrl.Login(context.Background(), auth.Credentials{Username: "admin123", Password: "wrong"})
	require.False(t, out.OK())
	assert.Equal(t, "Invalid credentials", a.ctrl.Err())
	assert.False(t, a.store.Current().Authenticated)

	_, d := a.nav.Navigate(router.PathProducts)
	assert.False(t, d.Allow)
	assert.Equal(t, router.PathLogin, a.nav.Location())
}

func TestScenarioMissingProductKeepsSession(t *testing.T) {
	_, ts := newTestServer(t)
	a := newApp(ts.URL)
	require.True(t, a.ctrl.Login(context.Background(), auth.Credentials{Username: "admin123", Password: "123admin"}).OK())

	_, err := a.client.GetProduct(context.Background(), "999")
	assert.True(t, cerrors.Is(err, cerrors.NotFound), "got %v", err)
	assert.True(t, a.store.Current().Authenticated)
	_, pending := a.nav.PendingRedirect()
	assert.False(t, pending)
}

func TestScenarioRevokedTokenExpiresSessionOnce(t *testing.T) {
	srv, ts := newTestServer(t)
	a := newApp(ts.URL)
	out := a.ctrl.Login(context.Background(), auth.Credentials{Username: "admin123", Password: "123admin"})
	require.True(t, out.OK())

	srv.Revoke(out.Token)
	_, err := a.client.ListProducts(context.Background())
	assert.True(t, cerrors.Is(err, cerrors.AuthorizationExpired), "got %v", err)
	_, err = a.client.GetProduct(context.Background(), "1")
	assert.Error(t, err)

	assert.False(t, a.store.Current().Authenticated)
	assert.Equal(t, auth.StateIdle, a.ctrl.State())
	redirect, ok := a.nav.TakeRedirect()
	assert.True(t, ok)
	assert.Equal(t, router.PathLogin, redirect)

	_, d := a.nav.Navigate(router.PathProducts)
	assert.False(t, d.Allow)
}

func TestScenarioFailedReloginEndsSession(t *testing.T) {
	_, ts := newTestServer(t)
	a := newApp(ts.URL)
	require.True(t, a.ctrl.Login(context.Background(), auth.Credentials{Username: "admin123", Password: "123admin"}).OK())

	out := a.ctrl.Login(context.Background(), auth.Credentials{Username: "admin123", Password: "wrong"})

	require.False(t, out.OK())
	assert.Equal(t, auth.StateErrored, a.ctrl.State())
	assert.Equal(t, "Invalid credentials", a.ctrl.Err())
	assert.False(t, a.store.Current().Authenticated, "the 401 clears the previous session")
	redirect, ok := a.nav.TakeRedirect()
	assert.True(t, ok)
	assert.Equal(t, router.PathLogin, redirect)

	_, d := a.nav.Navigate(router.PathProducts)
	assert.False(t, d.Allow)
}

package catalog

import (
	"context"
	"errors"

	"catalog/cli/internal/api"
	"catalog/cli/internal/router"
)

// ErrStale is returned when a result arrives after its navigation was superseded.
var ErrStale = errors.New("navigation superseded")

// Source fetches catalog data.
type Source interface {
	ListProducts(ctx context.Context) ([]api.Product, error)
	GetProduct(ctx context.Context, id string) (*api.Product, error)
}

// Tracker reports whether a navigation ticket is still current.
type Tracker interface {
	IsCurrent(t router.Ticket) bool
}

// Loader fetches the data a view needs and drops results for stale tickets.
type Loader struct {
	src Source
	nav Tracker
}

// NewLoader creates a Loader.
func NewLoader(src Source, nav Tracker) *Loader {
	return &Loader{src: src, nav: nav}
}

// LoadList fetches all products for the list view opened by t.
func (l *Loader) LoadList(ctx context.Context, t router.Ticket) ([]api.Product, error) {
	items, err := l.src.ListProducts(ctx)
	if !l.nav.IsCurrent(t) {
		return nil, ErrStale
	}
	return items, err
}

// LoadDetail fetches product id for the detail view opened by t.
func (l *Loader) LoadDetail(ctx context.Context, t router.Ticket, id string) (*api.Product, error) {
	prod, err := l.src.GetProduct(ctx, id)
	if !l.nav.IsCurrent(t) {
		return nil, ErrStale
	}
	return prod, err
}

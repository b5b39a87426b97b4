package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Route names.
const (
	RouteLogin    = "login"
	RouteProducts = "products"
	RouteProduct  = "product"
	RouteRedirect = "redirect"
)

// Route is a resolved navigation target.
type Route struct {
	Name       string
	Pattern    string
	Path       string
	Params     map[string]string
	Protected  bool
	RedirectTo string
}

type routeMeta struct {
	name      string
	protected bool
}

// Table matches paths against the navigation surface. Unmatched paths and "/"
// resolve to a redirect to /login.
type Table struct {
	mux   *chi.Mux
	metas map[string]routeMeta
}

// NewTable builds the route table.
func NewTable() *Table {
	t := &Table{mux: chi.NewRouter(), metas: map[string]routeMeta{}}
	t.add("/login", RouteLogin, false)
	t.add("/products", RouteProducts, true)
	t.add("/products/{id}", RouteProduct, true)
	return t
}

func (t *Table) add(pattern, name string, protected bool) {
	// Handlers are never served; the mux is only used for matching.
	t.mux.Get(pattern, func(http.ResponseWriter, *http.Request) {})
	t.metas[pattern] = routeMeta{name: name, protected: protected}
}

// Resolve matches path. The query string is ignored and a trailing slash trimmed.
func (t *Table) Resolve(path string) Route {
	path = Normalize(path)
	if path == PathRoot {
		return Route{Name: RouteRedirect, Path: path, RedirectTo: PathLogin}
	}

	rctx := chi.NewRouteContext()
	if !t.mux.Match(rctx, http.MethodGet, path) {
		return Route{Name: RouteRedirect, Path: path, RedirectTo: PathLogin}
	}
	pattern := rctx.RoutePattern()
	meta, ok := t.metas[pattern]
	if !ok {
		return Route{Name: RouteRedirect, Path: path, RedirectTo: PathLogin}
	}

	params := map[string]string{}
	for i, k := range rctx.URLParams.Keys {
		params[k] = rctx.URLParams.Values[i]
	}
	return Route{
		Name:      meta.name,
		Pattern:   pattern,
		Path:      path,
		Params:    params,
		Protected: meta.protected,
	}
}

// Normalize drops the query and fragment, adds a leading slash and trims a
// trailing one.
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathRoot
		}
	}
	return path
}

// Package router maps the catalog's navigation surface (/login, /products,
// /products/:id) onto views and decides, per navigation, whether the current
// session may enter a protected view.
package router

import "catalog/cli/internal/session"

// Navigation paths.
const (
	PathRoot     = "/"
	PathLogin    = "/login"
	PathProducts = "/products"
)

// ProductPath returns the detail path for a product id.
func ProductPath(id string) string { return PathProducts + "/" + id }

// Decision is the outcome of a guard evaluation.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Guard allows protected views only when the session carries a token.
// It is a pure function of s.
func Guard(s session.Session) Decision {
	if s.Authenticated && s.Token != "" {
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: PathLogin}
}

package router

import (
	"log/slog"
	"sync"

	"catalog/cli/internal/logging"
	"catalog/cli/internal/session"
)

// maxRedirects bounds redirect chains while resolving a navigation.
const maxRedirects = 4

// Ticket identifies one navigation. Results produced for a ticket that is no
// longer current must be discarded.
type Ticket struct {
	Generation uint64
	Route      Route
}

// Navigator tracks the current location, the navigation generation and any
// redirect requested outside of a navigation (for example after a 401).
type Navigator struct {
	mu       sync.Mutex
	table    *Table
	session  func() session.Session
	logger   *slog.Logger
	gen      uint64
	location string
	pending  string
}

// NewNavigator creates a Navigator that reads the session through current.
func NewNavigator(table *Table, current func() session.Session, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Navigator{table: table, session: current, logger: logger, location: PathRoot}
}

// Navigate resolves path, follows redirects and evaluates the guard when a
// protected route is entered. It always starts a new generation and clears any
// pending redirect. The returned Decision reports whether the originally
// requested route was allowed.
func (n *Navigator) Navigate(path string) (Ticket, Decision) {
	decision := Decision{Allow: true}
	route := n.table.Resolve(path)

	for i := 0; i < maxRedirects; i++ {
		if route.RedirectTo != "" {
			n.logger.Debug("navigation redirect", "from", route.Path, "to", route.RedirectTo)
			route = n.table.Resolve(route.RedirectTo)
			continue
		}
		if route.Protected {
			if d := Guard(n.session()); !d.Allow {
				n.logger.Debug("guard denied", "path", route.Path, "redirect", d.RedirectTo)
				if decision.Allow {
					decision = d
				}
				route = Route{Name: RouteRedirect, Path: route.Path, RedirectTo: d.RedirectTo}
				continue
			}
		}
		break
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	n.location = route.Path
	n.pending = ""
	return Ticket{Generation: n.gen, Route: route}, decision
}

// Redirect records a redirect to be honoured by the caller. Repeated calls
// leave a single pending redirect.
func (n *Navigator) Redirect(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = Normalize(path)
}

// PendingRedirect reports the pending redirect without consuming it.
func (n *Navigator) PendingRedirect() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending, n.pending != ""
}

// TakeRedirect consumes the pending redirect.
func (n *Navigator) TakeRedirect() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := n.pending
	n.pending = ""
	return p, p != ""
}

// IsCurrent reports whether t is still the latest navigation.
func (n *Navigator) IsCurrent(t Ticket) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return t.Generation == n.gen
}

// Location returns the path of the latest navigation.
func (n *Navigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth provides the authentication controller for the catalog CLI.
// It orchestrates the API client and the session store through a small state
// machine (idle, pending, authenticated, errored), tracks the last error for
// display, and signals navigation after login and logout.
//
// Login never fails past its boundary: every failure is captured in the
// controller's errored state and in the returned LoginOutcome.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	cerrors "catalog/cli/internal/errors"
	"catalog/cli/internal/logging"
	"catalog/cli/internal/router"
	"catalog/cli/internal/session"
)

// State is a position in the login lifecycle.
type State int

const (
	StateIdle State = iota
	StatePending
	StateAuthenticated
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateAuthenticated:
		return "authenticated"
	case StateErrored:
		return "errored"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// User-facing login messages.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgMissingCredentials = "Username and password are required"
	MsgTransport          = "Login failed: could not reach the catalog service"
	MsgGeneric            = "Login failed. Check your credentials."
)

// ErrLoginInFlight is returned when Login is called while another attempt is pending.
var ErrLoginInFlight = errors.New("a login attempt is already in progress")

// Credentials are submitted once per login attempt and never persisted.
type Credentials struct {
	Username string
	Password string
}

// String masks the password so credentials never leak through %v.
func (c Credentials) String() string {
	return fmt.Sprintf("{Username:%s Password:***}", c.Username)
}

// LoginOutcome is either a token or an error.
type LoginOutcome struct {
	Token string
	Err   error
}

// OK reports whether the login succeeded.
func (o LoginOutcome) OK() bool { return o.Err == nil && o.Token != "" }

// Message returns the user-facing failure message, or "" on success.
func (o LoginOutcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return cerrors.MessageOf(o.Err)
}

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Navigator receives navigation signals from the controller.
type Navigator interface {
	Navigate(path string) (router.Ticket, router.Decision)
	Redirect(path string)
}

// Controller is the single entry point for login and logout.
type Controller struct {
	client Authenticator
	store  *session.Store
	nav    Navigator
	logger *slog.Logger

	mu    sync.Mutex
	state State
	err   string
}

// NewController creates a Controller. A persisted non-empty token puts it
// straight into the authenticated state; the token is not validated until a
// later request is rejected.
func NewController(client Authenticator, store *session.Store, nav Navigator, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.Discard()
	}
	c := &Controller{client: client, store: store, nav: nav, logger: logger, state: StateIdle}
	if store.Load().Authenticated {
		c.state = StateAuthenticated
	}
	return c
}

// Login exchanges creds for a token. On success the token is stored before
// navigation to the products view is signalled.
func (c *Controller) Login(ctx context.Context, creds Credentials) LoginOutcome {
	c.mu.Lock()
	if c.state == StatePending {
		c.mu.Unlock()
		c.logger.Debug("login ignored, another attempt is pending")
		return LoginOutcome{Err: ErrLoginInFlight}
	}
	c.state = StatePending
	c.err = ""
	c.mu.Unlock()

	username := strings.TrimSpace(creds.Username)
	if username == "" || creds.Password == "" {
		return c.fail(cerrors.New(cerrors.InvalidInput, MsgMissingCredentials))
	}

	c.logger.Debug("login attempt", "username", username)
	token, err := c.client.Login(ctx, username, creds.Password)
	if err != nil {
		return c.fail(classify(err))
	}

	c.store.Set(token, username)
	c.mu.Lock()
	c.state = StateAuthenticated
	c.mu.Unlock()
	c.logger.Debug("login succeeded", "username", username, "token", logging.MaskToken(token))

	if c.nav != nil {
		c.nav.Navigate(router.PathProducts)
	}
	return LoginOutcome{Token: token}
}

// Logout clears the session from memory and storage and signals navigation
// to the login view. It is safe to call in any state.
func (c *Controller) Logout() {
	c.store.Clear()
	c.mu.Lock()
	c.state = StateIdle
	c.err = ""
	c.mu.Unlock()
	if c.nav != nil {
		c.nav.Navigate(router.PathLogin)
	}
}

// Expire handles an authorization failure reported by the API client.
// The session is cleared once; every call leaves a redirect to /login pending.
func (c *Controller) Expire() {
	if c.store.Clear() {
		c.logger.Debug("session expired, token cleared")
		c.mu.Lock()
		if c.state == StateAuthenticated {
			c.state = StateIdle
		}
		c.mu.Unlock()
	}
	if c.nav != nil {
		c.nav.Redirect(router.PathLogin)
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the message of the last failed login, or "".
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Loading reports whether a login is in flight.
func (c *Controller) Loading() bool {
	return c.State() == StatePending
}

// Session returns the current session snapshot.
func (c *Controller) Session() session.Session {
	return c.store.Current()
}

func (c *Controller) fail(err error) LoginOutcome {
	msg := cerrors.MessageOf(err)
	c.mu.Lock()
	c.state = StateErrored
	c.err = msg
	c.mu.Unlock()
	c.logger.Debug("login failed", "error", logging.Mask(err.Error()))
	return LoginOutcome{Err: err}
}

// classify maps API failures to the messages shown on the login form.
func classify(err error) error {
	switch cerrors.KindOf(err) {
	case cerrors.InvalidCredentials:
		return cerrors.Wrap(cerrors.InvalidCredentials, MsgInvalidCredentials, err)
	case cerrors.Transport:
		return cerrors.Wrap(cerrors.Transport, MsgTransport, err)
	}
	msg := strings.TrimSpace(cerrors.MessageOf(err))
	if msg == "" {
		msg = MsgGeneric
	}
	return cerrors.Wrap(cerrors.KindOf(err), msg, err)
}

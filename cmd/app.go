// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"catalog/cli/internal/api"
	"catalog/cli/internal/auth"
	"catalog/cli/internal/catalog"
	"catalog/cli/internal/config"
	"catalog/cli/internal/keychain"
	"catalog/cli/internal/logging"
	"catalog/cli/internal/router"
	"catalog/cli/internal/session"

	"github.com/spf13/cobra"
)

// errReported marks a failure that was already shown to the user. Execute
// exits non-zero without printing it again.
var errReported = errors.New("failure already reported")

// app holds the process-scoped components shared by commands.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	store  *session.Store
	nav    *router.Navigator
	client *api.Client
	ctrl   *auth.Controller
	loader *catalog.Loader
	out    io.Writer
}

// newApp wires the components. Any 401 seen by the client expires the session
// through the controller, which leaves a redirect to /login on the navigator.
func newApp(cfg config.Config, logger *slog.Logger, backend session.Backend, out io.Writer) *app {
	a := &app{cfg: cfg, logger: logger, out: out}
	a.store = session.NewStore(backend, logger)
	a.nav = router.NewNavigator(router.NewTable(), a.store.Current, logger)
	a.client = api.New(cfg.APIURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithTokenSource(a.store),
		api.WithUnauthorizedHandler(func() { a.ctrl.Expire() }),
		api.WithLogger(logger),
	)
	a.ctrl = auth.NewController(a.client, a.store, a.nav, logger)
	a.loader = catalog.NewLoader(a.client, a.nav)
	if a.store.MemoryOnly() {
		logger.Debug("token storage unavailable, session will not outlive this process")
	}
	return a
}

// buildApp loads configuration, applies the global flags and opens the token
// storage. When no keyring backend is usable an in-memory one is used.
func buildApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	level := cfg.LogLevel
	if flagVerbose || cfg.Verbose() {
		level = "debug"
	}
	logger := logging.NewLogger(cmd.ErrOrStderr(), level)

	var backend session.Backend
	km, err := keychain.Open(keychain.DefaultConfig())
	if err != nil {
		logger.Warn("keyring unavailable, continuing without persistence", "error", err)
		backend = keychain.NewMemory()
	} else {
		backend = km
	}
	return newApp(cfg, logger, backend, cmd.OutOrStdout()), nil
}

type appKey struct{}

func withApp(ctx context.Context, a *app) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

// appFrom returns the app attached by the root command.
func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"catalog/cli/internal/logging"
	"catalog/cli/internal/mockapi"

	"github.com/spf13/cobra"
)

var mockAddr string

var mockAPICmd = &cobra.Command{
	Use:   "mock-api",
	Short: "Serve a local catalog service for offline use and testing",
	Long: `The mock-api command serves the catalog endpoints locally:

  POST /auth/login       users admin123/123admin and mor_2314/83r5^_
  GET  /products         requires a bearer token
  GET  /products/{id}    requires a bearer token

Point the CLI at it with --api-url or 'catalog config set api-url'.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if flagVerbose {
			level = "debug"
		}
		logger := logging.NewLogger(cmd.ErrOrStderr(), level)
		return serveMockAPI(cmd.Context(), mockAddr, logger, func(addr string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Mock catalog service listening on http://%s\n", addr)
		})
	},
}

func init() {
	rootCmd.AddCommand(mockAPICmd)
	mockAPICmd.Flags().StringVar(&mockAddr, "addr", "127.0.0.1:8080", "Listen address")
}

// serveMockAPI serves until ctx is done, then shuts down gracefully.
func serveMockAPI(ctx context.Context, addr string, logger *slog.Logger, ready func(addr string)) error {
	srv, err := mockapi.NewServer(mockapi.Options{Logger: logger})
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	server := &http.Server{
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(ln)
	}()
	if ready != nil {
		ready(ln.Addr().String())
	}

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down mock catalog service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"

	"catalog/cli/internal/router"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Open a view by path: /login, /products or /products/<id>",
	Long: `The open command resolves a path the way the catalog's navigation does and
shows the matching view. Protected views redirect to /login without a session;
"/" and unknown paths redirect to /login as well.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOpen(cmd.Context(), appFrom(cmd), args[0], listPage, listPerPage)
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().IntVar(&listPage, "page", 1, "Page number for /products, starting at 1")
	openCmd.Flags().IntVar(&listPerPage, "per-page", 0, "Products per page for /products")
}

func runOpen(ctx context.Context, a *app, path string, page, perPage int) error {
	ticket, d := a.nav.Navigate(path)
	if requested := router.Normalize(path); ticket.Route.Path != requested {
		fmt.Fprintf(a.out, "→ %s redirected to %s\n", requested, ticket.Route.Path)
	}
	if !d.Allow {
		printNotLoggedIn(a.out)
		return errReported
	}

	switch ticket.Route.Name {
	case router.RouteProducts:
		return showList(ctx, a, ticket, page, perPage)
	case router.RouteProduct:
		return showDetail(ctx, a, ticket, ticket.Route.Params["id"])
	}

	if s := a.ctrl.Session(); s.Authenticated {
		fmt.Fprintf(a.out, "Logged in as %s. Open /products to browse.\n", s.User.DisplayName())
	} else {
		printNotLoggedIn(a.out)
	}
	return nil
}

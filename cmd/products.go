// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog/cli/internal/api"
	"catalog/cli/internal/catalog"
	cerrors "catalog/cli/internal/errors"
	"catalog/cli/internal/router"

	"github.com/spf13/cobra"
)

var (
	listPage    int
	listPerPage int
)

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product"},
	Short:   "Browse the product catalog (requires login)",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products, one page at a time",
	Long: fmt.Sprintf(`The list command fetches the whole catalog and shows one page of it.
Supported page sizes are %s.`, perPageChoices()),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		ticket, d := a.nav.Navigate(router.PathProducts)
		if !d.Allow {
			printNotLoggedIn(a.out)
			return errReported
		}
		return showList(cmd.Context(), a, ticket, listPage, listPerPage)
	},
}

var productsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the details of one product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		ticket, d := a.nav.Navigate(router.ProductPath(args[0]))
		if !d.Allow {
			printNotLoggedIn(a.out)
			return errReported
		}
		if ticket.Route.Name != router.RouteProduct {
			return report(a, cerrors.New(cerrors.InvalidInput, fmt.Sprintf("%q is not a product id", args[0])))
		}
		return showDetail(cmd.Context(), a, ticket, ticket.Route.Params["id"])
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd, productsShowCmd)
	productsListCmd.Flags().IntVar(&listPage, "page", 1, "Page number, starting at 1")
	productsListCmd.Flags().IntVar(&listPerPage, "per-page", 0, "Products per page ("+perPageChoices()+"; default from config)")
}

// showList loads and renders the list view opened by ticket. page is 1-based.
func showList(ctx context.Context, a *app, ticket router.Ticket, page, perPage int) error {
	var items []api.Product
	var err error
	spin("Loading products", func() {
		items, err = a.loader.LoadList(ctx, ticket)
	})
	if err != nil {
		return loadFailure(a, err)
	}
	if perPage == 0 {
		perPage = a.cfg.PerPage
	}
	return catalog.RenderList(a.out, catalog.Paginate(items, page-1, perPage))
}

// showDetail loads and renders the detail view opened by ticket.
func showDetail(ctx context.Context, a *app, ticket router.Ticket, id string) error {
	var prod *api.Product
	var err error
	spin("Loading product", func() {
		prod, err = a.loader.LoadDetail(ctx, ticket, id)
	})
	if err != nil {
		return loadFailure(a, err)
	}
	return catalog.RenderDetail(a.out, prod)
}

// loadFailure handles a failed view load. A rejected token has already
// cleared the session; the pending redirect is followed and a notice shown
// instead of an error.
func loadFailure(a *app, err error) error {
	if errors.Is(err, catalog.ErrStale) {
		a.logger.Debug("dropping result of superseded navigation")
		return nil
	}
	if to, ok := a.nav.TakeRedirect(); ok {
		a.nav.Navigate(to)
		printSessionExpired(a.out)
		return errReported
	}
	return report(a, err)
}

func perPageChoices() string {
	s := make([]string, len(catalog.RowsPerPageOptions))
	for i, n := range catalog.RowsPerPageOptions {
		s[i] = fmt.Sprint(n)
	}
	return strings.Join(s, ", ")
}

// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the catalog CLI.
// It implements subcommands for signing in, browsing products, and managing
// configuration using the Cobra CLI framework. Commands share one process-scoped
// app that holds the session, the API client and the navigator.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// annotationStandalone marks commands that run without the session and API client.
const annotationStandalone = "standalone"

var (
	showVersion bool
	flagAPIURL  string
	flagVerbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the product catalog from your terminal",
	Long: `catalog signs in to the product catalog service with a username and password,
keeps the issued token in the OS keychain, and lets you browse the product list
and product details. Protected views require a valid session; when the service
rejects the token you are sent back to the login view.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Annotations:   map[string]string{annotationStandalone: "true"},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[annotationStandalone] == "true" {
			return nil
		}
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		cmd.SetContext(withApp(cmd.Context(), a))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "catalog %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Catalog service base URL (overrides config and CATALOG_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose debug output")
}

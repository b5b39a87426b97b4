// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command for clearing authentication state.
// It removes the token from memory and from the OS keychain. It succeeds even
// when nobody is logged in.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved token",
	Long: `The logout command clears the session and removes the bearer token from the
OS keychain. The catalog service has no logout endpoint, so nothing is sent over
the network.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		a.ctrl.Logout()
		fmt.Fprintln(a.out, "✅ Logged out. The saved token has been removed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

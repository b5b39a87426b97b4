package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command for displaying current authentication state.
// The user record is derived locally; the token is not validated against the service.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show current authenticated account",
	Long: `The whoami command displays the account of the current session.

The catalog service has no profile endpoint, so after a restart the account is
shown as a generic authenticated user until the next login.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		s := a.ctrl.Session()
		if !s.Authenticated {
			printNotLoggedIn(a.out)
			return nil
		}
		fmt.Fprintf(a.out, "👤 Current user: %s\n", s.User.DisplayName())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"

	"catalog/cli/internal/auth"
	cerrors "catalog/cli/internal/errors"
	"catalog/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

// loginCmd represents the login command.
// It exchanges a username and password for a bearer token and stores the token
// in the OS keychain so later commands can reach protected views.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in with your catalog username and password",
	Long: `The login command signs in to the catalog service. Missing values are prompted
for; the password is read without echo. On success the issued token is stored in
the OS keychain (or kept for this process only when no keychain is available)
and the product list becomes accessible.

The password is never stored.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		p := terminal.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		return runLogin(cmd.Context(), appFrom(cmd), p, loginUsername, loginPassword)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
}

func runLogin(ctx context.Context, a *app, p *terminal.Prompter, username, password string) error {
	const userPrompt, passPrompt = "Username: ", "Password: "
	var err error
	var typed []int
	if username == "" {
		if username, err = p.Line(userPrompt); err != nil {
			return fmt.Errorf("read username: %w", err)
		}
		typed = append(typed, len(userPrompt)+len(username))
	}
	if password == "" {
		if password, err = p.Password(passPrompt); err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		typed = append(typed, len(passPrompt))
	}
	// Remove the answered prompts, last line first.
	if p.Interactive() {
		for i := len(typed) - 1; i >= 0; i-- {
			terminal.ClearPreviousLines(a.out, typed[i])
		}
	}

	var out auth.LoginOutcome
	spin("Signing in", func() {
		out = a.ctrl.Login(ctx, auth.Credentials{Username: username, Password: password})
	})
	// A rejected login also reports 401 to the unauthorized hook; the user is
	// already on the login view.
	a.nav.TakeRedirect()

	if !out.OK() {
		if cerrors.Is(out.Err, cerrors.Transport) {
			return report(a, out.Err)
		}
		fmt.Fprintln(a.out, pterm.Red("❌ "+out.Message()))
		return errReported
	}

	fmt.Fprintln(a.out, getRandomLoginGreeting(a.ctrl.Session().User.DisplayName()))
	if a.store.MemoryOnly() {
		reason := "No keychain is available"
		if err := a.store.StorageErr(); err != nil {
			reason = cerrors.MessageOf(err)
		}
		fmt.Fprintln(a.out, pterm.Gray("   "+reason+"; the token lasts for this command only."))
	}
	return nil
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s! Ready to browse?",
		"💫 Successfully authenticated as %s",
		"🔓 Access granted! Welcome %s!",
	}
	return fmt.Sprintf(greetings[rand.IntN(len(greetings))], identifier)
}

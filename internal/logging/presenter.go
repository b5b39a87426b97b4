// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	cerrors "catalog/cli/internal/errors"
	"catalog/cli/internal/httperrors"

	"github.com/pterm/pterm"
)

// FormatFailure renders a classified failure in a user-friendly way. host names
// the catalog service in transport failures; "" uses a generic name.
// Authorization failures are not rendered as errors; callers show a redirect
// notice instead, so the returned text only points at the login command.
func FormatFailure(err error, host string) string {
	if err == nil {
		return ""
	}
	var b strings.Builder

	switch cerrors.KindOf(err) {
	case cerrors.InvalidCredentials:
		b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Invalid credentials"))
		b.WriteString("\n")
		b.WriteString("Check your username and password and try again.\n")

	case cerrors.Transport:
		b.WriteString(httperrors.Describe(err, host, "contacting the catalog service"))

	case cerrors.NotFound:
		b.WriteString(pterm.NewStyle(pterm.FgYellow, pterm.Bold).Sprint("Product not found."))
		b.WriteString("\n")

	case cerrors.AuthorizationExpired:
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("Session expired. Run 'catalog login'."))
		b.WriteString("\n")
		return b.String()

	case cerrors.InvalidInput:
		b.WriteString(pterm.NewStyle(pterm.FgRed).Sprint(cerrors.MessageOf(err)))
		b.WriteString("\n")
		return b.String()

	default:
		b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Something went wrong"))
		b.WriteString("\n")
	}

	if msg := strings.TrimSpace(technicalDetail(err)); msg != "" {
		b.WriteString("\n")
		b.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(msg)))
		b.WriteString("\n")
	}
	return b.String()
}

// PresentFailure writes FormatFailure(err, host) to w.
func PresentFailure(w io.Writer, err error, host string) {
	if err == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, FormatFailure(err, host))
}

// technicalDetail returns the cause below the first classified error, whose
// message is already shown in the headline.
func technicalDetail(err error) string {
	var e *cerrors.E
	if stderrors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return err.Error()
}

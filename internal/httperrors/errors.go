// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns network failures into user-friendly explanations.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Cause is the detected category of a network failure.
type Cause int

const (
	CauseUnknown Cause = iota
	CauseTimeout
	CauseDNS
	CauseRefused
	CauseTLS
	CauseServer
)

// Classify detects the most specific cause of err.
func Classify(err error) Cause {
	switch {
	case err == nil:
		return CauseUnknown
	case isTimeoutError(err):
		return CauseTimeout
	case isDNSError(err):
		return CauseDNS
	case isConnectionRefusedError(err):
		return CauseRefused
	case isSSLError(err):
		return CauseTLS
	case isServerError(err.Error()):
		return CauseServer
	}
	return CauseUnknown
}

// Describe returns a headline and troubleshooting text for a failed request
// to host while doing action (for example "logging in").
func Describe(err error, host, action string) string {
	if host == "" {
		host = "the catalog service"
	}
	var b strings.Builder
	headline := pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint

	switch Classify(err) {
	case CauseTimeout:
		fmt.Fprintf(&b, "%s\n\n", headline("Connection timeout while "+action))
		b.WriteString("The server took too long to respond. This could mean:\n")
		b.WriteString("  • Slow internet connection\n")
		b.WriteString("  • Server is under heavy load\n")
		b.WriteString("  • Network firewall is blocking the connection\n\n")
		b.WriteString("Please try again in a few moments, or raise the timeout with 'catalog config set timeout <seconds>'.\n")

	case CauseDNS:
		fmt.Fprintf(&b, "%s\n\n", headline("Cannot resolve server address while "+action))
		fmt.Fprintf(&b, "Unable to look up %s. Please check:\n", host)
		b.WriteString("  • Your internet connection is working\n")
		b.WriteString("  • DNS settings are correct\n")
		b.WriteString("  • The configured api-url (see 'catalog config show')\n")

	case CauseRefused:
		fmt.Fprintf(&b, "%s\n\n", headline("Connection refused while "+action))
		fmt.Fprintf(&b, "%s is not accepting connections. This could mean:\n", host)
		b.WriteString("  • The service is temporarily down\n")
		b.WriteString("  • Firewall is blocking the connection\n")
		b.WriteString("  • Wrong server address or port\n\n")
		b.WriteString("For local testing, start one with 'catalog mock-api'.\n")

	case CauseTLS:
		fmt.Fprintf(&b, "%s\n\n", headline("Secure connection failed while "+action))
		b.WriteString("Cannot establish a secure HTTPS connection. This could mean:\n")
		b.WriteString("  • SSL/TLS certificate issue\n")
		b.WriteString("  • Network proxy interfering with HTTPS\n")
		b.WriteString("  • System clock is incorrect\n")

	case CauseServer:
		fmt.Fprintf(&b, "%s\n\n", headline("Server error while "+action))
		fmt.Fprintf(&b, "%s encountered an internal error.\n", host)
		b.WriteString("This is not a problem with your setup. Please try again in a few minutes.\n")

	default:
		fmt.Fprintf(&b, "%s\n\n", headline("Cannot reach "+host+" while "+action))
		b.WriteString("Please check:\n")
		b.WriteString("  • Your internet connection\n")
		fmt.Fprintf(&b, "  • Whether %s is accessible from your network\n", host)
		b.WriteString("  • Firewall settings that might block HTTPS requests\n")
	}
	return b.String()
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "timed out") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "ssl") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// isServerError checks if the error indicates a server-side problem (5xx errors).
func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	return strings.Contains(lower, "500") ||
		strings.Contains(lower, "502") ||
		strings.Contains(lower, "503") ||
		strings.Contains(lower, "504") ||
		strings.Contains(lower, "internal server error") ||
		strings.Contains(lower, "bad gateway") ||
		strings.Contains(lower, "service unavailable") ||
		strings.Contains(lower, "gateway timeout")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}

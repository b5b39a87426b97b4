// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pterm/pterm"
)

// NewLogger returns a slog.Logger that renders through pterm's logger.
// level is one of debug, info, warn or error; anything else means warn.
func NewLogger(w io.Writer, level string) *slog.Logger {
	pl := pterm.DefaultLogger.WithLevel(ParseLevel(level)).WithWriter(w)
	return slog.New(pterm.NewSlogHandler(pl))
}

// ParseLevel maps a config log level to pterm's.
func ParseLevel(level string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return pterm.LogLevelDebug
	case "info":
		return pterm.LogLevelInfo
	case "error":
		return pterm.LogLevelError
	}
	return pterm.LogLevelWarn
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

package logging

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]pterm.LogLevel{
		"debug":  pterm.LogLevelDebug,
		"INFO":   pterm.LogLevelInfo,
		"warn":   pterm.LogLevelWarn,
		"error":  pterm.LogLevelError,
		"":       pterm.LogLevelWarn,
		"chatty": pterm.LogLevelWarn,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	logger.Debug("hidden detail")
	if buf.Len() != 0 {
		t.Errorf("debug record written at warn level: %q", buf.String())
	}

	logger = NewLogger(&buf, "debug")
	logger.Debug("visible detail")
	if !bytes.Contains(buf.Bytes(), []byte("visible detail")) {
		t.Errorf("debug record missing at debug level: %q", buf.String())
	}
}

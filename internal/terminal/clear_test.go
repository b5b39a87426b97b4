package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrompterLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		err   bool
	}{
		{name: "newline", input: "admin123\n", want: "admin123"},
		{name: "crlf", input: "admin123\r\n", want: "admin123"},
		{name: "no trailing newline", input: "admin123", want: "admin123"},
		{name: "empty input", input: "", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := NewPrompter(strings.NewReader(tt.input), &out).Line("Username: ")
			if tt.err {
				if err == nil {
					t.Fatalf("Line() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Line() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
			if out.String() != "Username: " {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestPrompterPipedPassword(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("admin123\n123admin\n"), &out)

	user, err := p.Line("Username: ")
	if err != nil {
		t.Fatalf("Line() error = %v", err)
	}
	pass, err := p.Password("Password: ")
	if err != nil {
		t.Fatalf("Password() error = %v", err)
	}
	if user != "admin123" || pass != "123admin" {
		t.Errorf("got (%q, %q), want (admin123, 123admin)", user, pass)
	}
	if p.Interactive() {
		t.Errorf("Interactive() = true for piped input, want false")
	}
}

func TestClearPreviousLines(t *testing.T) {
	width := Width()
	tests := []struct {
		name   string
		length int
		want   string
	}{
		{name: "one line", length: 10, want: "\r\x1b[2K\x1b[1A\r\x1b[2K"},
		{name: "empty", length: 0, want: "\r\x1b[2K\x1b[1A\r\x1b[2K"},
		{name: "wrapped", length: width + 1, want: "\r\x1b[2K\x1b[1A\r\x1b[2K\x1b[1A\r\x1b[2K"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ClearPreviousLines(&buf, tt.length)
			if buf.String() != tt.want {
				t.Errorf("ClearPreviousLines() wrote %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWidthFallback(t *testing.T) {
	if w := Width(); w <= 0 {
		t.Errorf("Width() = %d, want positive", w)
	}
}

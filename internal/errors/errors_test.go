// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := stderrors.New("dial tcp: connection refused")
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: base, want: ""},
		{name: "direct", err: New(NotFound, "product not found"), want: NotFound},
		{name: "wrapped by fmt", err: fmt.Errorf("get product: %w", Wrap(Transport, "request failed", base)), want: Transport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnwrapReachesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(Storage, "keyring unavailable", cause)
	if !stderrors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
	if !Is(err, Storage) {
		t.Errorf("Is(err, Storage) = false, want true")
	}
	if Is(err, Transport) {
		t.Errorf("Is(err, Transport) = true, want false")
	}
}

func TestMessageOf(t *testing.T) {
	if got := MessageOf(New(InvalidCredentials, "Invalid credentials")); got != "Invalid credentials" {
		t.Errorf("MessageOf() = %q, want %q", got, "Invalid credentials")
	}
	if got := MessageOf(stderrors.New("raw")); got != "raw" {
		t.Errorf("MessageOf() = %q, want %q", got, "raw")
	}
	if got := MessageOf(nil); got != "" {
		t.Errorf("MessageOf(nil) = %q, want empty", got)
	}
}

// Package xdg provides helpers to resolve XDG Base Directory paths for catalog.
// It implements the XDG Base Directory specification for determining appropriate
// locations for configuration files and state data (such as the file-backed
// keyring used when no OS credential store is available).
//
// The package handles fallback to traditional locations when XDG environment
// variables are not set and ensures private permissions on every directory it creates.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under every XDG base directory.
const AppName = "catalog"

// ConfigDir returns the XDG config directory for catalog.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/catalog when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for catalog.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.local/state/catalog when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(env, homeRel string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}

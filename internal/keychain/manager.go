// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides thread-safe durable storage for the catalog bearer token.
// This module manages all interactions with the OS keychain/credential store,
// providing a small key/value interface that the session store persists through.
//
// The package supports macOS Keychain, Windows Credential Manager and the Linux
// Secret Service, with an encrypted file keyring under the XDG state directory
// as the last resort. An in-memory implementation backs tests.
package keychain

import (
	"errors"
	"os"
	"runtime"
	"sync"

	"catalog/cli/internal/xdg"

	"github.com/99designs/keyring"
)

// Manager provides thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for native keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// errNotFound is returned by native backends for a missing key.
var errNotFound = errors.New("key not found")

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "catalog"

// KeyToken is the single entry holding the current bearer token.
const KeyToken = "token"

// EnvFilePassword supplies the passphrase of the file keyring fallback.
const EnvFilePassword = "CATALOG_KEYRING_PASSWORD"

// defaultFilePassword is used for the file keyring when no passphrase is configured.
// The file keyring is only reached when no OS credential store is available.
const defaultFilePassword = "catalog-cli"

// Config controls backend selection.
type Config struct {
	// FileDir overrides the directory of the file keyring fallback.
	FileDir string
	// Native enables the macOS security command backend. Defaults to true on darwin.
	Native bool
}

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig() Config {
	return Config{Native: runtime.GOOS == "darwin"}
}

// Open creates a Manager backed by the best available credential store.
func Open(cfg Config) (*Manager, error) {
	if cfg.Native {
		if backend, err := newSecurityBackend(); err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing(cfg)
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewMemory returns a Manager that keeps everything in process memory.
func NewMemory() *Manager {
	return &Manager{ring: keyring.NewArrayKeyring(nil)}
}

// openRing opens the OS keyring using the platform's preferred backends.
func openRing(cfg Config) (keyring.Keyring, error) {
	var allowed []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowed = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowed = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowed = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
	}

	fileDir := cfg.FileDir
	if fileDir == "" {
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		fileDir = dir
	}
	password := os.Getenv(EnvFilePassword)
	if password == "" {
		password = defaultFilePassword
	}

	kc := keyring.Config{
		ServiceName:      ServiceName,
		AllowedBackends:  allowed,
		PassPrefix:       ServiceName,
		FileDir:          fileDir,
		FilePasswordFunc: keyring.FixedStringPrompt(password),
	}
	if runtime.GOOS == "windows" {
		kc.WinCredPrefix = ServiceName
	}

	ring, err := keyring.Open(kc)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}
	return ring, nil
}

// Get returns the stored value for key. A missing key yields ("", nil).
// This method is thread-safe.
func (m *Manager) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		v, err := m.backend.Get(key)
		if errors.Is(err, errNotFound) {
			return "", nil
		}
		return v, err
	}

	it, err := m.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

// Set stores value under key, replacing any previous value.
// This method is thread-safe.
func (m *Manager) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(key, value)
	}
	return m.ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: ServiceName + " " + key})
}

// Delete removes key. Deleting a missing key is not an error.
// This method is thread-safe.
func (m *Manager) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Delete(key)
	}
	err := m.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

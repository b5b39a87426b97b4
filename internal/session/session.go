// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session holds the process's authentication state: the bearer token,
// the derived authenticated flag, and a display record for the signed-in user.
//
// The Store is the single source of truth for "is there a usable token right now".
// It persists only the token, through a Backend such as the OS keychain, and keeps
// working in memory when that backend is unavailable.
package session

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	cerrors "catalog/cli/internal/errors"
	"catalog/cli/internal/logging"
)

// Key is the storage key that holds the bearer token.
const Key = "token"

// User is the display record of the signed-in user. It is derived locally;
// the catalog service does not expose user details.
type User struct {
	ID       int
	Username string
	Email    string
}

// DisplayName returns the best human-readable identifier for the user.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Email != "" {
		return fmt.Sprintf("%s <%s>", u.Username, u.Email)
	}
	return u.Username
}

// Session is a snapshot of the authentication state.
// Authenticated is always equal to Token != "".
type Session struct {
	Token         string
	Authenticated bool
	User          *User
}

// Backend is durable key/value storage. A missing key reads as ("", nil).
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Store owns the current Session and its persisted token.
type Store struct {
	mu         sync.RWMutex
	backend    Backend
	logger     *slog.Logger
	current    Session
	memoryOnly bool
	storageErr error
}

// NewStore creates a Store. A nil backend yields a memory-only store.
func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{backend: backend, logger: logger, memoryOnly: backend == nil}
}

// Load reads the persisted token and replaces the in-memory session with it.
// A read failure is logged and leaves the store memory-only and unauthenticated.
func (s *Store) Load() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.memoryOnly {
		return s.current
	}

	token, err := s.backend.Get(Key)
	if err != nil {
		s.storageErr = cerrors.Wrap(cerrors.Storage, "could not read the saved token", err)
		s.logger.Warn("token storage unavailable, continuing without persistence", "error", s.storageErr)
		s.memoryOnly = true
		s.current = Session{}
		return s.current
	}

	token = strings.TrimSpace(token)
	if token == "" {
		s.current = Session{}
	} else {
		s.current = restored(token)
		s.logger.Debug("session restored from storage", "token", logging.MaskToken(token))
	}
	return s.current
}

// Set stores token for username. If persisting fails the store falls back to
// memory-only for the rest of the process and the session is still updated.
// An empty token is equivalent to Clear.
func (s *Store) Set(token, username string) {
	token = strings.TrimSpace(token)
	if token == "" {
		s.Clear()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.memoryOnly {
		if err := s.backend.Set(Key, token); err != nil {
			s.storageErr = cerrors.Wrap(cerrors.Storage, "could not save the token", err)
			s.logger.Warn("could not persist token, session will last for this process only", "error", s.storageErr)
			s.memoryOnly = true
		}
	}
	s.current = Session{Token: token, Authenticated: true, User: userFor(username)}
	s.logger.Debug("session set", "user", username, "token", logging.MaskToken(token))
}

// Clear removes the token from storage and memory. It reports whether a
// previously authenticated session was cleared, so repeated calls clear once.
func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.memoryOnly {
		if err := s.backend.Delete(Key); err != nil {
			s.storageErr = cerrors.Wrap(cerrors.Storage, "could not remove the saved token", err)
			s.logger.Warn("could not remove persisted token", "error", s.storageErr)
		}
	}
	was := s.current.Authenticated
	s.current = Session{}
	if was {
		s.logger.Debug("session cleared")
	}
	return was
}

// Current returns a snapshot of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the current bearer token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// MemoryOnly reports whether persistence has been disabled for this process.
func (s *Store) MemoryOnly() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memoryOnly
}

// StorageErr returns the most recent storage failure, or nil.
func (s *Store) StorageErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storageErr
}

func userFor(username string) *User {
	username = strings.TrimSpace(username)
	if username == "" {
		return &User{ID: 1, Username: "authenticated_user", Email: "user@example.com"}
	}
	return &User{ID: 1, Username: username, Email: username + "@example.com"}
}

func restored(token string) Session {
	return Session{Token: token, Authenticated: true, User: userFor("")}
}

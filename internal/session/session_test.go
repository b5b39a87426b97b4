package session

import (
	"errors"
	"testing"

	cerrors "catalog/cli/internal/errors"
	"catalog/cli/internal/keychain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingBackend simulates unavailable storage.
type failingBackend struct {
	getErr, setErr, delErr error
	sets                   int
}

func (f *failingBackend) Get(string) (string, error) { return "", f.getErr }
func (f *failingBackend) Set(string, string) error {
	f.sets++
	return f.setErr
}
func (f *failingBackend) Delete(string) error { return f.delErr }

func TestLoadEmptyStorageIsUnauthenticated(t *testing.T) {
	s := NewStore(keychain.NewMemory(), nil)
	got := s.Load()
	assert.False(t, got.Authenticated)
	assert.Empty(t, got.Token)
	assert.Nil(t, got.User)
}

func TestSetPersistsAndReloads(t *testing.T) {
	kc := keychain.NewMemory()
	s := NewStore(kc, nil)
	s.Load()

	s.Set("tok-abc", "admin123")
	cur := s.Current()
	assert.True(t, cur.Authenticated)
	assert.Equal(t, "tok-abc", cur.Token)
	require.NotNil(t, cur.User)
	assert.Equal(t, "admin123", cur.User.Username)
	assert.Equal(t, "admin123@example.com", cur.User.Email)

	persisted, err := kc.Get(Key)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", persisted)

	// A new process reading the same storage sees the same authenticated state.
	reloaded := NewStore(kc, nil).Load()
	assert.True(t, reloaded.Authenticated)
	assert.Equal(t, "tok-abc", reloaded.Token)
	require.NotNil(t, reloaded.User)
	assert.Equal(t, "authenticated_user", reloaded.User.Username)
}

func TestWhitespaceTokenIsNotAuthenticated(t *testing.T) {
	kc := keychain.NewMemory()
	require.NoError(t, kc.Set(Key, "   "))
	got := NewStore(kc, nil).Load()
	assert.False(t, got.Authenticated)
}

func TestClearRemovesEverywhereAndReportsOnce(t *testing.T) {
	kc := keychain.NewMemory()
	s := NewStore(kc, nil)
	s.Set("tok-abc", "admin123")

	assert.True(t, s.Clear(), "first clear reports a change")
	assert.False(t, s.Clear(), "second clear is a no-op")
	assert.False(t, s.Current().Authenticated)

	persisted, err := kc.Get(Key)
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestClearWhenNeverAuthenticated(t *testing.T) {
	s := NewStore(keychain.NewMemory(), nil)
	s.Load()
	assert.False(t, s.Clear())
}

func TestSetFallsBackToMemoryWhenStorageFails(t *testing.T) {
	fb := &failingBackend{setErr: errors.New("keyring locked")}
	s := NewStore(fb, nil)
	s.Load()

	s.Set("tok-abc", "admin123")
	assert.True(t, s.MemoryOnly())
	assert.True(t, s.Current().Authenticated)
	assert.Equal(t, "tok-abc", s.Token())

	// Later writes do not hit the broken backend again.
	s.Set("tok-def", "admin123")
	assert.Equal(t, 1, fb.sets)
	assert.Equal(t, "tok-def", s.Token())
}

func TestLoadFailureIsMemoryOnly(t *testing.T) {
	fb := &failingBackend{getErr: errors.New("no dbus")}
	s := NewStore(fb, nil)
	got := s.Load()
	assert.False(t, got.Authenticated)
	assert.True(t, s.MemoryOnly())
}

func TestClearIgnoresDeleteFailure(t *testing.T) {
	fb := &failingBackend{delErr: errors.New("denied")}
	s := NewStore(fb, nil)
	s.Set("tok-abc", "u")
	assert.True(t, s.Clear())
	assert.False(t, s.Current().Authenticated)
}

func TestSetEmptyTokenClears(t *testing.T) {
	s := NewStore(keychain.NewMemory(), nil)
	s.Set("tok-abc", "u")
	s.Set("", "u")
	assert.False(t, s.Current().Authenticated)
}

func TestNilBackendIsMemoryOnly(t *testing.T) {
	s := NewStore(nil, nil)
	assert.True(t, s.MemoryOnly())
	s.Set("tok-abc", "u")
	assert.True(t, s.Load().Authenticated)
}

func TestDisplayName(t *testing.T) {
	var nilUser *User
	assert.Equal(t, "", nilUser.DisplayName())
	assert.Equal(t, "bob <bob@example.com>", (&User{Username: "bob", Email: "bob@example.com"}).DisplayName())
	assert.Equal(t, "bob", (&User{Username: "bob"}).DisplayName())
}

func TestStorageFailuresAreClassified(t *testing.T) {
	tests := []struct {
		name string
		fb   *failingBackend
		run  func(s *Store)
	}{
		{name: "read", fb: &failingBackend{getErr: errors.New("no dbus")}, run: func(s *Store) { s.Load() }},
		{name: "write", fb: &failingBackend{setErr: errors.New("keyring locked")}, run: func(s *Store) { s.Set("tok-abc", "u") }},
		{name: "delete", fb: &failingBackend{delErr: errors.New("denied")}, run: func(s *Store) { s.Clear() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(tt.fb, nil)
			require.NoError(t, s.StorageErr())
			tt.run(s)
			err := s.StorageErr()
			require.Error(t, err)
			assert.True(t, cerrors.Is(err, cerrors.Storage), "got %v", err)
			cause := errors.Unwrap(err)
			assert.NotNil(t, cause)
		})
	}
}

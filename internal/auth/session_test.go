package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func TestSessionPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	tok := signed(t, time.Now().Add(time.Hour))

	s, err := NewSession(NewFileStore(path))
	require.NoError(t, err)
	require.False(t, s.Authenticated())
	require.NoError(t, s.Set(tok))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := NewSession(NewFileStore(path))
	require.NoError(t, err)
	got, ok := again.Token()
	require.True(t, ok)
	assert.Equal(t, tok, got)
	assert.Equal(t, "admin-1", again.Subject())
}

func TestSessionInvalidate(t *testing.T) {
	store := NewMemoryStore()
	s, err := NewSession(store)
	require.NoError(t, err)
	require.NoError(t, s.Set("opaque-token"))

	require.NoError(t, s.Invalidate())
	_, ok := s.Token()
	assert.False(t, ok)
	_, stored, _ := store.Get(TokenKey)
	assert.False(t, stored)
}

func TestSessionExpiredToken(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	require.NoError(t, store.Put(TokenKey, signed(t, now.Add(-time.Minute))))

	s, err := NewSession(store, WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	_, ok := s.Token()
	assert.False(t, ok)
}

func TestSessionOpaqueTokenNeverExpires(t *testing.T) {
	s, err := NewSession(NewMemoryStore())
	require.NoError(t, err)
	require.NoError(t, s.Set("not-a-jwt"))
	tok, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "not-a-jwt", tok)
	assert.Empty(t, s.Subject())
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := NewSession(NewFileStore(path))
	require.Error(t, err)
}

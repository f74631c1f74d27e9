package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitpet/internal/app/user"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()

	for name, kv := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set(ctx, "k", "v1"))
			require.NoError(t, kv.Set(ctx, "k", "v2"))

			v, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v2", v)

			require.NoError(t, kv.Remove(ctx, "k"))
			require.NoError(t, kv.Remove(ctx, "k"))

			_, err = kv.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, KeyAccessToken, "abc"))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	v, err := second.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	fs, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = fs.Get(context.Background(), KeyUser)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFileStore_WriteReplacesCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	fs, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, fs.Remove(ctx, KeyAccessToken))
	require.NoError(t, fs.Set(ctx, KeyAccessToken, "fresh"))

	v, err := fs.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)

	s := NewSession(fs)
	require.NoError(t, s.Clear(ctx))
	tok, err := s.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	s := NewSession(NewMemoryStore())

	tok, err := s.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	_, ok, err := s.Identity(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveTokens(ctx, "access", "refresh"))
	require.NoError(t, s.SaveIdentity(ctx, user.Identity{ID: 3, Email: "a@b.c", Name: "Ann", Role: "USER"}))

	tok, _ = s.AccessToken(ctx)
	assert.Equal(t, "access", tok)
	rt, _ := s.RefreshToken(ctx)
	assert.Equal(t, "refresh", rt)

	id, ok, err := s.Identity(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ann", id.Name)

	require.NoError(t, s.Clear(ctx))
	tok, _ = s.AccessToken(ctx)
	assert.Empty(t, tok)
	_, ok, _ = s.Identity(ctx)
	assert.False(t, ok)
}

func TestSession_UndecodableIdentityIsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	require.NoError(t, kv.Set(ctx, KeyUser, "garbage"))

	_, ok, err := NewSession(kv).Identity(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

package client

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileTokenStore_RoundTripAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session", "tokens.json")
	s := NewFileTokenStore(path)
	ctx := context.Background()

	empty, err := s.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, empty)

	want := &Tokens{IdentityID: "u1", SessionID: "s-u1", AccessToken: "access-u1", RefreshToken: "refresh-u1"}
	require.NoError(t, s.Save(ctx, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := NewFileTokenStore(path).Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFileTokenStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileTokenStore(path).Load(context.Background())
	require.Error(t, err)
}

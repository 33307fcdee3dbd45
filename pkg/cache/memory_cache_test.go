package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(&Config{DefaultTTL: time.Minute}, nil)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCache_GetMissingKey(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryCache_JSONRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, c.SetJSON(ctx, "k", payload{Name: "a", Count: 2}, 0))

	var got payload
	require.NoError(t, c.GetJSON(ctx, "k", &got))
	require.Equal(t, payload{Name: "a", Count: 2}, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	ok, err := c.Exists(ctx, "short")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCache_IncrementKeepsWindow(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := c.Increment(ctx, "counter", 1, time.Minute)
		require.NoError(t, err)
		require.Equal(t, i, n)
	}
}

func TestMemoryCache_LockIsExclusive(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	ok, err := c.Lock(ctx, "draft:1", "a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.Lock(ctx, "draft:1", "b", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Unlock(ctx, "draft:1", "a"))

	ok, err = c.Lock(ctx, "draft:1", "b", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryCache_UnlockOnlyByOwner(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	ok, err := c.Lock(ctx, "submit:k", "a", 20*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	ok, err = c.Lock(ctx, "submit:k", "b", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.ErrorIs(t, c.Unlock(ctx, "submit:k", "a"), ErrLockHeld)
	ok, err = c.Lock(ctx, "submit:k", "c", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Unlock(ctx, "submit:k", "b"))
	require.NoError(t, c.Unlock(ctx, "submit:k", "b"))
}

func TestHashKey_OrderIndependent(t *testing.T) {
	a := HashKey("categories", map[string]string{"parent": "x", "lang": "ko"})
	b := HashKey("categories", map[string]string{"lang": "ko", "parent": "x"})
	require.Equal(t, a, b)
	require.NotEqual(t, a, HashKey("categories", map[string]string{"parent": "y", "lang": "ko"}))
}

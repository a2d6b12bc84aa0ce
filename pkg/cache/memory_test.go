package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
	N    int    `json:"n"`
}

func newTestCache(t *testing.T, now *time.Time, opts ...MemoryOption) *MemoryCache {
	t.Helper()
	opts = append(opts, WithMemoryClock(func() time.Time { return *now }), WithMemoryCleanup(time.Hour))
	mc := NewMemoryCache(opts...)
	t.Cleanup(func() { _ = mc.Close() })
	return mc
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mc := newTestCache(t, &now)

	require.NoError(t, mc.Set(ctx, "k", payload{Name: "stETH", N: 3}, time.Minute))

	var got payload
	require.NoError(t, mc.Get(ctx, "k", &got))
	assert.Equal(t, payload{Name: "stETH", N: 3}, got)

	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mc := newTestCache(t, &now)

	require.NoError(t, mc.Set(ctx, "k", 1, time.Minute))
	now = now.Add(61 * time.Second)

	var got int
	assert.ErrorIs(t, mc.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestMemoryCacheExpireExtends(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mc := newTestCache(t, &now)

	require.NoError(t, mc.Set(ctx, "k", 1, time.Minute))
	now = now.Add(50 * time.Second)
	ok, err := mc.Expire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(50 * time.Second)
	var got int
	require.NoError(t, mc.Get(ctx, "k", &got))
	assert.Equal(t, 1, got)

	ok, err = mc.Expire(ctx, "missing", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mc := newTestCache(t, &now, WithMemoryMaxSize(2))

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "b", 2, 0))
	now = now.Add(time.Second)

	var v int
	require.NoError(t, mc.Get(ctx, "a", &v)) // touch a, b becomes oldest
	now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "a", &v))
	require.NoError(t, mc.Get(ctx, "c", &v))
	assert.Equal(t, 2, mc.Len())
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mc := newTestCache(t, &now)

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	require.NoError(t, mc.Set(ctx, "b", 2, 0))
	require.NoError(t, mc.Delete(ctx, "a", "b"))

	ok, err := mc.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "session:abc", GenerateKey("session", "abc"))
	assert.Len(t, HashKey("http://x"), 32)
}

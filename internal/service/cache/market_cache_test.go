package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MaturityPlanner/internal/domain/models"
	pcache "MaturityPlanner/pkg/cache"
	"MaturityPlanner/pkg/util"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type countingSource struct {
	mu    sync.Mutex
	calls int
	err   error
	clock util.Clock
}

func (s *countingSource) FetchMarkets(context.Context) (*models.MarketSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.MarketSnapshot{
		Markets: []models.MarketRecord{{
			Name:    "stETH",
			Address: "0xa",
			Expiry:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			TVL:     decimal.NewFromInt(int64(s.calls)),
		}},
		FetchedAt: s.clock.Now(),
	}, nil
}

func (s *countingSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCachingMarketSourceServesFreshSnapshot(t *testing.T) {
	clock := newClock()
	src := &countingSource{clock: clock}
	c := NewCachingMarketSource(src, 5*time.Minute, WithClock(clock))

	first, err := c.FetchMarkets(context.Background())
	require.NoError(t, err)
	clock.Advance(4*time.Minute + 59*time.Second)
	second, err := c.FetchMarkets(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, src.Calls())
	assert.Same(t, first, second)
}

func TestCachingMarketSourceRefetchesWhenStale(t *testing.T) {
	clock := newClock()
	src := &countingSource{clock: clock}
	c := NewCachingMarketSource(src, 5*time.Minute, WithClock(clock))

	_, err := c.FetchMarkets(context.Background())
	require.NoError(t, err)
	clock.Advance(5 * time.Minute)
	snap, err := c.FetchMarkets(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, src.Calls())
	assert.True(t, snap.Markets[0].TVL.Equal(decimal.NewFromInt(2)))
}

func TestCachingMarketSourceDoesNotCacheFailures(t *testing.T) {
	clock := newClock()
	src := &countingSource{clock: clock, err: &models.FetchError{URL: "x", Err: errors.New("boom")}}
	c := NewCachingMarketSource(src, time.Minute, WithClock(clock))

	_, err := c.FetchMarkets(context.Background())
	assert.ErrorIs(t, err, models.ErrDataFetch)

	src.mu.Lock()
	src.err = nil
	src.mu.Unlock()

	snap, err := c.FetchMarkets(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Markets, 1)
	assert.Equal(t, 2, src.Calls())
}

func TestCachingMarketSourceInvalidate(t *testing.T) {
	clock := newClock()
	src := &countingSource{clock: clock}
	c := NewCachingMarketSource(src, time.Minute, WithClock(clock))

	_, _ = c.FetchMarkets(context.Background())
	c.Invalidate()
	_, _ = c.FetchMarkets(context.Background())
	assert.Equal(t, 2, src.Calls())
}

func TestCachingMarketSourceSharedLayer(t *testing.T) {
	clock := newClock()
	shared := pcache.NewMemoryCache(pcache.WithMemoryClock(clock.Now), pcache.WithMemoryCleanup(time.Hour))
	defer shared.Close()

	src := &countingSource{clock: clock}
	a := NewCachingMarketSource(src, 5*time.Minute, WithClock(clock), WithShared(shared))
	b := NewCachingMarketSource(src, 5*time.Minute, WithClock(clock), WithShared(shared))

	_, err := a.FetchMarkets(context.Background())
	require.NoError(t, err)
	clock.Advance(time.Minute)

	snap, err := b.FetchMarkets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.Calls(), "second instance reads the shared snapshot")
	assert.Equal(t, "stETH", snap.Markets[0].Name)

	clock.Advance(4 * time.Minute)
	_, err = b.FetchMarkets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.Calls(), "shared snapshot expires with the fetch time")
}

func TestTTLCacheExpiry(t *testing.T) {
	clock := newClock()
	c := NewTTLCache(clock)
	c.Set("k", 1, time.Second)
	c.Set("forever", 2, 0)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	clock.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	_, ok = c.Get("forever")
	assert.True(t, ok)
}

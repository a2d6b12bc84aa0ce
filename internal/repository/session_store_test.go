package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MaturityPlanner/internal/domain/models"
	"MaturityPlanner/pkg/cache"
	"MaturityPlanner/pkg/util"
)

func newStore(t *testing.T, now *time.Time) *SessionStore {
	t.Helper()
	clock := func() time.Time { return *now }
	mc := cache.NewMemoryCache(cache.WithMemoryClock(clock), cache.WithMemoryCleanup(time.Hour))
	t.Cleanup(func() { _ = mc.Close() })
	return NewSessionStore(mc, time.Hour, util.ClockFunc(clock))
}

func TestSessionStoreCreateGet(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := newStore(t, &now)
	ctx := context.Background()

	created, err := s.Create(ctx)
	require.NoError(t, err)
	_, err = uuid.Parse(created.ID)
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.NotNil(t, got.Pools)
	assert.NotNil(t, got.Drafts)
	assert.True(t, got.CreatedAt.Equal(now))
}

func TestSessionStoreUnknown(t *testing.T) {
	now := time.Now()
	s := newStore(t, &now)

	_, err := s.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), uuid.NewString()), models.ErrSessionNotFound)
	_, err = s.Update(context.Background(), "nope", func(*models.Session) error { return nil })
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestSessionStoreUpdatePersistsOnSuccess(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := newStore(t, &now)
	ctx := context.Background()
	sess, err := s.Create(ctx)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	updated, err := s.Update(ctx, sess.ID, func(cur *models.Session) error {
		cur.Pools = append(cur.Pools, models.MarketRecord{
			Name:    "X",
			Address: "simulated_0",
			Expiry:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			TVL:     decimal.NewFromInt(10_000_000),
			Tier:    models.Tier3,
		})
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, updated.Pools, 1)
	assert.True(t, updated.UpdatedAt.Equal(now))

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, got.Pools, 1)
	assert.True(t, got.Pools[0].TVL.Equal(decimal.NewFromInt(10_000_000)))
	assert.Equal(t, models.Tier3, got.Pools[0].Tier)
}

func TestSessionStoreReadsEitherDecimalEncoding(t *testing.T) {
	prev := decimal.MarshalJSONWithoutQuotes
	t.Cleanup(func() { decimal.MarshalJSONWithoutQuotes = prev })

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := newStore(t, &now)
	ctx := context.Background()
	sess, err := s.Create(ctx)
	require.NoError(t, err)

	decimal.MarshalJSONWithoutQuotes = false
	_, err = s.Update(ctx, sess.ID, func(cur *models.Session) error {
		cur.Pools = append(cur.Pools, models.MarketRecord{Name: "X", TVL: decimal.RequireFromString("12.5"), Tier: models.Tier4})
		return nil
	})
	require.NoError(t, err)

	decimal.MarshalJSONWithoutQuotes = true
	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, got.Pools, 1)
	assert.True(t, got.Pools[0].TVL.Equal(decimal.RequireFromString("12.5")))
}

func TestSessionStoreUpdateDiscardsOnError(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := newStore(t, &now)
	ctx := context.Background()
	sess, err := s.Create(ctx)
	require.NoError(t, err)

	boom := errors.New("rejected")
	_, err = s.Update(ctx, sess.ID, func(cur *models.Session) error {
		cur.Pools = append(cur.Pools, models.MarketRecord{Name: "half-applied"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Pools)
}

func TestSessionStoreIdleExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := newStore(t, &now)
	ctx := context.Background()
	sess, err := s.Create(ctx)
	require.NoError(t, err)

	now = now.Add(50 * time.Minute)
	_, err = s.Get(ctx, sess.ID)
	require.NoError(t, err, "reads extend the idle window")

	now = now.Add(50 * time.Minute)
	_, err = s.Get(ctx, sess.ID)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = s.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestSessionStoreDelete(t *testing.T) {
	now := time.Now()
	s := newStore(t, &now)
	ctx := context.Background()
	sess, err := s.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, sess.ID))
	_, err = s.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestSessionStoreConcurrentUpdates(t *testing.T) {
	now := time.Now()
	s := newStore(t, &now)
	ctx := context.Background()
	sess, err := s.Create(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, sess.ID, func(cur *models.Session) error {
				cur.Pools = append(cur.Pools, models.MarketRecord{Name: "p"})
				return nil
			})
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.Pools, 20)
}

package cache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"MaturityPlanner/internal/domain/models"
	drepo "MaturityPlanner/internal/domain/repository"
	pcache "MaturityPlanner/pkg/cache"
	"MaturityPlanner/pkg/logger"
	"MaturityPlanner/pkg/util"
)

const (
	// DefaultMarketTTL is how long a successful market fetch is served from cache.
	DefaultMarketTTL = 5 * time.Minute

	snapshotKeyPrefix = "markets"

	layerLocal  = "local"
	layerShared = "shared"
)

// CachingMarketSource wraps a MarketSource with a TTL cache. Successful snapshots are
// kept locally and, when configured, in a shared cache so several instances reuse one
// upstream fetch. Failures are never cached.
type CachingMarketSource struct {
	next    drepo.MarketSource
	local   *TTLCache
	shared  pcache.Service
	key     string
	ttl     time.Duration
	clock   util.Clock
	log     *logger.Logger
	metrics drepo.Metrics
	group   singleflight.Group
}

type Option func(*CachingMarketSource)

// WithShared adds a second cache layer, typically Redis.
func WithShared(s pcache.Service) Option {
	return func(c *CachingMarketSource) { c.shared = s }
}

// WithSourceKey scopes the shared entry to one upstream URL.
func WithSourceKey(url string) Option {
	return func(c *CachingMarketSource) { c.key = pcache.GenerateKey(snapshotKeyPrefix, pcache.HashKey(url)) }
}

func WithClock(clock util.Clock) Option {
	return func(c *CachingMarketSource) { c.clock = clock }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *CachingMarketSource) { c.log = l }
}

func WithMetrics(m drepo.Metrics) Option {
	return func(c *CachingMarketSource) { c.metrics = m }
}

func NewCachingMarketSource(next drepo.MarketSource, ttl time.Duration, opts ...Option) *CachingMarketSource {
	if ttl <= 0 {
		ttl = DefaultMarketTTL
	}
	c := &CachingMarketSource{
		next:  next,
		key:   pcache.GenerateKey(snapshotKeyPrefix, "active"),
		ttl:   ttl,
		clock: util.SystemClock{},
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.local = NewTTLCache(c.clock)
	return c
}

// FetchMarkets serves the cached snapshot while it is fresh and fetches otherwise.
// Concurrent misses share one upstream call.
func (c *CachingMarketSource) FetchMarkets(ctx context.Context) (*models.MarketSnapshot, error) {
	if v, ok := c.local.Get(c.key); ok {
		c.record(layerLocal, "hit")
		return v.(*models.MarketSnapshot), nil
	}
	c.record(layerLocal, "miss")

	v, err, _ := c.group.Do(c.key, func() (interface{}, error) {
		if snap, ok := c.fromShared(ctx); ok {
			return snap, nil
		}
		snap, err := c.next.FetchMarkets(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.MarketSnapshot), nil
}

// Invalidate drops the local snapshot so the next call fetches again.
func (c *CachingMarketSource) Invalidate() {
	c.local.Delete(c.key)
}

func (c *CachingMarketSource) fromShared(ctx context.Context) (*models.MarketSnapshot, bool) {
	if c.shared == nil {
		return nil, false
	}
	var snap models.MarketSnapshot
	if err := c.shared.Get(ctx, c.key, &snap); err != nil {
		if !errors.Is(err, pcache.ErrCacheMiss) {
			c.log.Warn("market cache: shared read failed", logger.Error(err))
			c.record(layerShared, "error")
			return nil, false
		}
		c.record(layerShared, "miss")
		return nil, false
	}
	remaining := c.ttl - c.clock.Now().Sub(snap.FetchedAt)
	if remaining <= 0 {
		c.record(layerShared, "stale")
		return nil, false
	}
	c.record(layerShared, "hit")
	c.local.Set(c.key, &snap, remaining)
	return &snap, true
}

func (c *CachingMarketSource) store(ctx context.Context, snap *models.MarketSnapshot) {
	c.local.Set(c.key, snap, c.ttl)
	if c.shared == nil {
		return
	}
	if err := c.shared.Set(ctx, c.key, snap, c.ttl); err != nil {
		c.log.Warn("market cache: shared write failed", logger.Error(err))
		c.record(layerShared, "error")
	}
}

func (c *CachingMarketSource) record(layer, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordCache(layer, outcome)
	}
}

var _ drepo.MarketSource = (*CachingMarketSource)(nil)

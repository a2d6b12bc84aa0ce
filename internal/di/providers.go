package di

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"MaturityPlanner/internal/domain/repository"
	"MaturityPlanner/internal/handler/api"
	internalrepo "MaturityPlanner/internal/repository"
	icache "MaturityPlanner/internal/service/cache"
	apimetrics "MaturityPlanner/internal/service/metrics"
	"MaturityPlanner/internal/service/pendle"
	"MaturityPlanner/internal/service/ratelimit"
	"MaturityPlanner/internal/usecase"
	"MaturityPlanner/pkg/cache"
	"MaturityPlanner/pkg/config"
	xhttp "MaturityPlanner/pkg/http"
	"MaturityPlanner/pkg/logger"
	"MaturityPlanner/pkg/metrics"
	"MaturityPlanner/pkg/server"
	"MaturityPlanner/pkg/util"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideClock returns the wall clock.
func ProvideClock() util.Clock {
	return util.SystemClock{}
}

// ProvideRegistry creates the Prometheus registry served on the metrics path.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideAPIMetrics creates per-endpoint planner metrics.
func ProvideAPIMetrics(reg *prometheus.Registry) *apimetrics.APIMetrics {
	return apimetrics.NewAPIMetrics(reg)
}

// ProvideRedisCache connects to Redis when a session backend or the shared market
// cache needs it, and returns nil otherwise.
func ProvideRedisCache(cfg *config.Config, l *logger.Logger) (*cache.RedisCache, func(), error) {
	if !cfg.UsesRedis() {
		return nil, func() {}, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPool(cfg.Redis.PoolSize, 2, 30*time.Second),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis: %w", err)
	}
	l.Info("redis: connected", logger.String("host", cfg.Redis.Host), logger.Int("port", cfg.Redis.Port))
	cleanup := func() {
		if err := rc.Close(); err != nil {
			l.Warn("redis close error", logger.Error(err))
		}
	}
	return rc, cleanup, nil
}

// ProvideSessionRepository stores sessions in process memory or Redis.
func ProvideSessionRepository(cfg *config.Config, rc *cache.RedisCache, clock util.Clock) (repository.SessionRepository, func(), error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		if rc == nil {
			return nil, nil, fmt.Errorf("session backend redis: no redis connection")
		}
		return internalrepo.NewSessionStore(rc, cfg.Session.IdleTTL, clock), func() {}, nil
	default:
		mc := cache.NewMemoryCache(
			cache.WithMemoryMaxSize(10_000),
			cache.WithMemoryClock(clock.Now),
		)
		return internalrepo.NewSessionStore(mc, cfg.Session.IdleTTL, clock), func() { _ = mc.Close() }, nil
	}
}

// ProvideHTTPClient creates the outbound HTTP client for the market source.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.MarketSource.Timeout))
}

// ProvideMarketSource creates the Pendle client behind the snapshot cache.
func ProvideMarketSource(
	cfg *config.Config,
	client *xhttp.Client,
	rc *cache.RedisCache,
	clock util.Clock,
	l *logger.Logger,
	m repository.Metrics,
) repository.MarketSource {
	src := pendle.New(cfg.MarketSource.URL, client, clock, l, m)
	opts := []icache.Option{
		icache.WithClock(clock),
		icache.WithLogger(l),
		icache.WithMetrics(m),
		icache.WithSourceKey(cfg.MarketSource.URL),
	}
	if cfg.MarketSource.SharedCache && rc != nil {
		opts = append(opts, icache.WithShared(rc))
	}
	return icache.NewCachingMarketSource(src, cfg.MarketSource.CacheTTL, opts...)
}

// ProvideRateLimiter limits mutations per session.
func ProvideRateLimiter(cfg *config.Config, clock util.Clock) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec, clock)
}

// ProvideSimulation creates the simulation sandbox use case.
func ProvideSimulation(
	sessions repository.SessionRepository,
	clock util.Clock,
	m repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.SimulationUseCase {
	return usecase.NewSimulationUseCase(sessions, clock, m, l, cfg.Session.MaxPools)
}

// ProvidePlanner creates the dashboard use case.
func ProvidePlanner(
	markets repository.MarketSource,
	sessions repository.SessionRepository,
	sim *usecase.SimulationUseCase,
	clock util.Clock,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.PlannerUseCase {
	return usecase.NewPlannerUseCase(markets, sessions, sim, clock, m, l)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(
	l *logger.Logger,
	planner *usecase.PlannerUseCase,
	sim *usecase.SimulationUseCase,
	rl *ratelimit.Limiter,
	am *apimetrics.APIMetrics,
) xhttp.Handler {
	return api.NewPlannerEchoHandler(l, planner, sim, rl, am)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *logger.Logger, reg *prometheus.Registry) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithLogger(l),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, cfg.Metrics.SlowThreshold, reg))
	}
	return xhttp.NewServer(h, opts...)
}

// ProvideApp creates the application.
func ProvideApp(cfg *config.Config, srv *xhttp.Server, l *logger.Logger) *server.App {
	return server.New(cfg, srv, l)
}

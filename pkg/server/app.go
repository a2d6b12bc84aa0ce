package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"MaturityPlanner/pkg/config"
	xhttp "MaturityPlanner/pkg/http"
	applogger "MaturityPlanner/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	httpServer *xhttp.Server
	log        *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, httpServer *xhttp.Server, log *applogger.Logger) *App {
	return &App{cfg: cfg, httpServer: httpServer, log: log}
}

// Run starts the HTTP server and blocks until ctx is cancelled, an interrupt
// arrives, or the server fails.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := a.httpServer.Start()
	a.log.Info("maturity planner started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("session_backend", a.cfg.Session.Backend),
		applogger.Bool("shared_market_cache", a.cfg.MarketSource.SharedCache),
		applogger.Duration("market_cache_ttl", a.cfg.MarketSource.CacheTTL),
	)

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.log.Info("shutting down...")
	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.log.Info("shutdown complete")
	return nil
}

//go:build wireinject
// +build wireinject

package di

import (
	"MaturityPlanner/pkg/config"
	"MaturityPlanner/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideClock,
		ProvideRegistry,
		ProvideMetrics,
		ProvideAPIMetrics,

		// Infrastructure clients
		ProvideRedisCache,
		ProvideHTTPClient,

		// Repositories and sources
		ProvideSessionRepository,
		ProvideMarketSource,

		// Use cases
		ProvideSimulation,
		ProvidePlanner,

		// HTTP
		ProvideRateLimiter,
		ProvideHTTPHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}

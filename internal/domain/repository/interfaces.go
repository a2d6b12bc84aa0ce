package repository

import (
	"context"

	"MaturityPlanner/internal/domain/models"
)

// MarketSource fetches the current list of active markets.
type MarketSource interface {
	FetchMarkets(ctx context.Context) (*models.MarketSnapshot, error)
}

// SessionRepository stores sessions. Update runs fn on a private copy and persists it
// only when fn returns nil, so a rejected operation leaves the session unchanged.
type SessionRepository interface {
	Create(ctx context.Context) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

type Metrics interface {
	RecordFetch(result string)
	RecordCache(layer, outcome string)
	RecordSimulation(op, result string)
	RecordDataWarning(kind string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

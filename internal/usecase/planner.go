package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"MaturityPlanner/internal/domain/models"
	domrepo "MaturityPlanner/internal/domain/repository"
	"MaturityPlanner/internal/services/maturity"
	"MaturityPlanner/pkg/logger"
	"MaturityPlanner/pkg/util"
)

// PlannerUseCase renders the maturity dashboard. Every read recomputes the view from
// the current market snapshot and the session state; nothing derived is stored.
type PlannerUseCase struct {
	markets  domrepo.MarketSource
	sessions domrepo.SessionRepository
	sim      *SimulationUseCase
	clock    util.Clock
	metrics  domrepo.Metrics
	log      *logger.Logger
}

func NewPlannerUseCase(
	markets domrepo.MarketSource,
	sessions domrepo.SessionRepository,
	sim *SimulationUseCase,
	clock util.Clock,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *PlannerUseCase {
	if clock == nil {
		clock = util.SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PlannerUseCase{markets: markets, sessions: sessions, sim: sim, clock: clock, metrics: metrics, log: log}
}

// Markets returns the live market snapshot. An empty listing is reported like a
// failed fetch since nothing can be planned against it.
func (uc *PlannerUseCase) Markets(ctx context.Context) (*models.MarketSnapshot, error) {
	start := time.Now()
	snap, err := uc.markets.FetchMarkets(ctx)
	if uc.metrics != nil {
		uc.metrics.RecordLatency("markets", time.Since(start).Seconds())
	}
	if err != nil {
		uc.recordError("data_fetch")
		return nil, err
	}
	if len(snap.Markets) == 0 {
		uc.recordError("empty_markets")
		uc.log.Warn("planner: market source returned no markets")
		return nil, fmt.Errorf("%w: no active markets", models.ErrDataFetch)
	}
	return snap, nil
}

// View computes the dashboard for one session.
func (uc *PlannerUseCase) View(ctx context.Context, sessionID string) (*models.View, error) {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap, err := uc.Markets(ctx)
	if err != nil {
		return nil, err
	}
	return BuildView(snap, sess, uc.clock.Now().UTC()), nil
}

// DateDetail lists every pool, live or simulated, maturing on date.
func (uc *PlannerUseCase) DateDetail(ctx context.Context, sessionID, date string) (*models.DateDetail, error) {
	if _, ok := util.ParseDate(date); !ok {
		return nil, models.NewValidationError("date", "date must be YYYY-MM-DD")
	}
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap, err := uc.Markets(ctx)
	if err != nil {
		return nil, err
	}
	detail := maturity.PoolsOn(maturity.Merge(snap.Markets, sess.Pools), date)
	return &detail, nil
}

// BeginRelaunch starts a relaunch draft for a pool that is currently expiring soon.
func (uc *PlannerUseCase) BeginRelaunch(ctx context.Context, sessionID, address string) (models.RelaunchDraft, error) {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return models.RelaunchDraft{}, err
	}
	snap, err := uc.Markets(ctx)
	if err != nil {
		return models.RelaunchDraft{}, err
	}

	merged := maturity.Merge(snap.Markets, sess.Pools)
	for _, p := range maturity.ExpiringSoon(merged, uc.clock.Now().UTC()) {
		if p.Address == address {
			return uc.sim.BeginRelaunch(ctx, sessionID, p.MarketRecord)
		}
	}
	for _, r := range merged {
		if r.Address == address {
			return models.RelaunchDraft{}, fmt.Errorf("%w: %s", models.ErrNotExpiring, address)
		}
	}
	return models.RelaunchDraft{}, fmt.Errorf("%w: %s", models.ErrPoolNotFound, address)
}

// BuildView assembles the dashboard from a market snapshot and a session.
func BuildView(snap *models.MarketSnapshot, sess *models.Session, now time.Time) *models.View {
	merged := maturity.Merge(snap.Markets, sess.Pools)
	buckets := maturity.Aggregate(merged)

	expiring := maturity.ExpiringSoon(merged, now)
	for i := range expiring {
		_, expiring[i].Drafted = sess.Drafts[expiring[i].Address]
	}

	drafts := make([]models.RelaunchDraft, 0, len(sess.Drafts))
	for _, d := range sess.Drafts {
		drafts = append(drafts, d)
	}
	sort.Slice(drafts, func(i, j int) bool {
		a, b := drafts[i].Original, drafts[j].Original
		if !a.Expiry.Equal(b.Expiry) {
			return a.Expiry.Before(b.Expiry)
		}
		return a.Address < b.Address
	})

	return &models.View{
		SessionID:        sess.ID,
		Buckets:          buckets,
		Expiring:         expiring,
		Simulated:        append([]models.MarketRecord{}, sess.Pools...),
		Drafts:           drafts,
		Summary:          maturity.Summarize(merged, buckets, len(expiring)),
		Tiers:            maturity.Tiers(),
		Warnings:         snap.Warnings,
		MarketsFetchedAt: snap.FetchedAt,
		GeneratedAt:      now,
	}
}

func (uc *PlannerUseCase) recordError(kind string) {
	if uc.metrics != nil {
		uc.metrics.RecordError(kind)
	}
}

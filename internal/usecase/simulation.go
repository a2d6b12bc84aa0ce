package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"MaturityPlanner/internal/domain/models"
	domrepo "MaturityPlanner/internal/domain/repository"
	"MaturityPlanner/pkg/logger"
	"MaturityPlanner/pkg/util"
)

const (
	// DefaultLaunchHorizon is the maturity offered for new and relaunched pools.
	DefaultLaunchHorizon = 180 * 24 * time.Hour

	DefaultNewPoolTier      = models.Tier3
	DefaultNewPoolMillions  = 10
	DefaultRelaunchPoolTier = models.Tier2

	simulatedAddressPrefix = "simulated_"
	relaunchAddressSuffix  = "_relaunch"
	relaunchNameSuffix     = " (Relaunched)"
)

var million = decimal.NewFromInt(1_000_000)

// NewPool describes a hypothetical pool launch.
type NewPool struct {
	Name        string
	Expiry      time.Time
	Tier        models.Tier
	TVLMillions decimal.Decimal
}

// AddNewPool appends a simulated pool. Invalid input leaves the session untouched.
func AddNewPool(s *models.Session, p NewPool) (models.MarketRecord, error) {
	name := strings.TrimSpace(p.Name)
	if util.IsBlank(name) {
		return models.MarketRecord{}, models.NewValidationError("name", "pool name is required")
	}
	if !p.Tier.Valid() {
		return models.MarketRecord{}, models.NewValidationError("tier", "tier must be between 1 and 4")
	}
	if p.TVLMillions.IsNegative() {
		return models.MarketRecord{}, models.NewValidationError("tvl_millions", "tvl must not be negative")
	}
	if p.Expiry.IsZero() {
		return models.MarketRecord{}, models.NewValidationError("expiry_date", "expiry date is required")
	}

	rec := models.MarketRecord{
		Name:    name,
		Address: fmt.Sprintf("%s%d", simulatedAddressPrefix, len(s.Pools)),
		ChainID: models.ChainSimulated,
		Expiry:  util.DateOf(p.Expiry),
		TVL:     p.TVLMillions.Mul(million),
		Tier:    p.Tier,
	}
	s.Pools = append(s.Pools, rec)
	return rec, nil
}

// BeginRelaunchDraft records the intent to relaunch original. An existing draft for
// the same address is kept as is.
func BeginRelaunchDraft(s *models.Session, original models.MarketRecord, at time.Time) models.RelaunchDraft {
	if d, ok := s.Drafts[original.Address]; ok {
		return d
	}
	d := models.RelaunchDraft{Original: original, SelectedAt: at}
	s.Drafts[original.Address] = d
	return d
}

// CommitRelaunch turns the draft for address into a simulated pool that inherits the
// original TVL and chain, then drops the draft.
func CommitRelaunch(s *models.Session, address string, expiry time.Time, tier models.Tier) (models.MarketRecord, error) {
	d, ok := s.Drafts[address]
	if !ok {
		return models.MarketRecord{}, models.ErrDraftNotFound
	}
	if !tier.Valid() {
		return models.MarketRecord{}, models.NewValidationError("tier", "tier must be between 1 and 4")
	}
	if expiry.IsZero() {
		return models.MarketRecord{}, models.NewValidationError("expiry_date", "expiry date is required")
	}

	rec := models.MarketRecord{
		Name:       d.Original.Name + relaunchNameSuffix,
		Address:    d.Original.Address + relaunchAddressSuffix,
		ChainID:    d.Original.ChainID,
		Expiry:     util.DateOf(expiry),
		TVL:        d.Original.TVL,
		Tier:       tier,
		IsRelaunch: true,
	}
	s.Pools = append(s.Pools, rec)
	delete(s.Drafts, address)
	return rec, nil
}

// DiscardRelaunchDraft abandons a pending relaunch.
func DiscardRelaunchDraft(s *models.Session, address string) error {
	if _, ok := s.Drafts[address]; !ok {
		return models.ErrDraftNotFound
	}
	delete(s.Drafts, address)
	return nil
}

// RemovePool deletes the pool at index, preserving the order of the rest.
func RemovePool(s *models.Session, index int) (models.MarketRecord, error) {
	if index < 0 || index >= len(s.Pools) {
		return models.MarketRecord{}, fmt.Errorf("%w: pool %d of %d", models.ErrOutOfRange, index, len(s.Pools))
	}
	removed := s.Pools[index]
	s.Pools = append(s.Pools[:index], s.Pools[index+1:]...)
	return removed, nil
}

// SimulationUseCase applies sandbox operations to stored sessions.
type SimulationUseCase struct {
	sessions domrepo.SessionRepository
	clock    util.Clock
	metrics  domrepo.Metrics
	log      *logger.Logger
	maxPools int
}

func NewSimulationUseCase(sessions domrepo.SessionRepository, clock util.Clock, metrics domrepo.Metrics, log *logger.Logger, maxPools int) *SimulationUseCase {
	if clock == nil {
		clock = util.SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SimulationUseCase{sessions: sessions, clock: clock, metrics: metrics, log: log, maxPools: maxPools}
}

type AddPoolParams struct {
	SessionID   string
	Name        string
	ExpiryDate  string
	Tier        int
	TVLMillions float64
}

type CommitRelaunchParams struct {
	SessionID  string
	Address    string
	ExpiryDate string
	Tier       int
}

func (uc *SimulationUseCase) CreateSession(ctx context.Context) (*models.Session, error) {
	s, err := uc.sessions.Create(ctx)
	uc.record("create_session", err)
	return s, err
}

func (uc *SimulationUseCase) Session(ctx context.Context, id string) (*models.Session, error) {
	return uc.sessions.Get(ctx, id)
}

func (uc *SimulationUseCase) EndSession(ctx context.Context, id string) error {
	err := uc.sessions.Delete(ctx, id)
	uc.record("end_session", err)
	return err
}

// AddPool adds a simulated pool. A blank expiry date means DefaultLaunchHorizon from today.
func (uc *SimulationUseCase) AddPool(ctx context.Context, p AddPoolParams) (models.MarketRecord, error) {
	expiry, err := uc.launchDate(p.ExpiryDate)
	if err != nil {
		uc.record("add_pool", err)
		return models.MarketRecord{}, err
	}
	var added models.MarketRecord
	_, err = uc.sessions.Update(ctx, p.SessionID, func(s *models.Session) error {
		if uc.maxPools > 0 && len(s.Pools) >= uc.maxPools {
			return models.NewValidationError("pools", fmt.Sprintf("a session holds at most %d simulated pools", uc.maxPools))
		}
		var err error
		added, err = AddNewPool(s, NewPool{
			Name:        p.Name,
			Expiry:      expiry,
			Tier:        models.Tier(p.Tier),
			TVLMillions: decimal.NewFromFloat(p.TVLMillions),
		})
		return err
	})
	uc.record("add_pool", err)
	if err != nil {
		return models.MarketRecord{}, err
	}
	uc.log.Info("simulated pool added",
		logger.String("session_id", p.SessionID),
		logger.String("address", added.Address),
		logger.String("date", added.ExpiryDate()))
	return added, nil
}

func (uc *SimulationUseCase) RemovePool(ctx context.Context, sessionID string, index int) (models.MarketRecord, error) {
	var removed models.MarketRecord
	_, err := uc.sessions.Update(ctx, sessionID, func(s *models.Session) error {
		var err error
		removed, err = RemovePool(s, index)
		return err
	})
	uc.record("remove_pool", err)
	return removed, err
}

// BeginRelaunch stores a draft for a pool the caller has already resolved.
func (uc *SimulationUseCase) BeginRelaunch(ctx context.Context, sessionID string, original models.MarketRecord) (models.RelaunchDraft, error) {
	var draft models.RelaunchDraft
	now := uc.clock.Now().UTC()
	_, err := uc.sessions.Update(ctx, sessionID, func(s *models.Session) error {
		draft = BeginRelaunchDraft(s, original, now)
		return nil
	})
	uc.record("begin_relaunch", err)
	return draft, err
}

// CommitRelaunch converts a draft into a relaunched pool. A blank expiry date means
// DefaultLaunchHorizon from today.
func (uc *SimulationUseCase) CommitRelaunch(ctx context.Context, p CommitRelaunchParams) (models.MarketRecord, error) {
	expiry, err := uc.launchDate(p.ExpiryDate)
	if err != nil {
		uc.record("commit_relaunch", err)
		return models.MarketRecord{}, err
	}
	var rec models.MarketRecord
	_, err = uc.sessions.Update(ctx, p.SessionID, func(s *models.Session) error {
		var err error
		rec, err = CommitRelaunch(s, p.Address, expiry, models.Tier(p.Tier))
		return err
	})
	uc.record("commit_relaunch", err)
	if err != nil {
		return models.MarketRecord{}, err
	}
	uc.log.Info("relaunch committed",
		logger.String("session_id", p.SessionID),
		logger.String("address", rec.Address),
		logger.String("date", rec.ExpiryDate()))
	return rec, nil
}

func (uc *SimulationUseCase) DiscardRelaunch(ctx context.Context, sessionID, address string) error {
	_, err := uc.sessions.Update(ctx, sessionID, func(s *models.Session) error {
		return DiscardRelaunchDraft(s, address)
	})
	uc.record("discard_relaunch", err)
	return err
}

func (uc *SimulationUseCase) launchDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return util.DateOf(uc.clock.Now().Add(DefaultLaunchHorizon)), nil
	}
	t, ok := util.ParseDate(s)
	if !ok {
		return time.Time{}, models.NewValidationError("expiry_date", "expiry date must be YYYY-MM-DD")
	}
	return t, nil
}

func (uc *SimulationUseCase) record(op string, err error) {
	if uc.metrics == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrOutOfRange), errors.Is(err, models.ErrDraftNotFound):
		result = "rejected"
	case errors.Is(err, models.ErrSessionNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	uc.metrics.RecordSimulation(op, result)
}

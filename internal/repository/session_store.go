package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"MaturityPlanner/internal/domain/models"
	drepo "MaturityPlanner/internal/domain/repository"
	"MaturityPlanner/pkg/cache"
	"MaturityPlanner/pkg/util"
)

const (
	sessionKeyPrefix = "session"

	// DefaultIdleTTL expires sessions nobody has touched for a day.
	DefaultIdleTTL = 24 * time.Hour
)

// SessionStore implements SessionRepository on top of a cache.Service, so sessions live
// in process memory or in Redis depending on the configured backend.
type SessionStore struct {
	store   cache.Service
	idleTTL time.Duration
	clock   util.Clock

	// mu serializes read-modify-write cycles.
	mu sync.Mutex
}

// NewSessionStore creates a session repository.
func NewSessionStore(store cache.Service, idleTTL time.Duration, clock util.Clock) *SessionStore {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &SessionStore{store: store, idleTTL: idleTTL, clock: clock}
}

func (s *SessionStore) Create(ctx context.Context) (*models.Session, error) {
	sess := models.NewSession(uuid.NewString(), s.clock.Now().UTC())
	if err := s.store.Set(ctx, sessionKey(sess.ID), sess, s.idleTTL); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Get loads a session and extends its idle expiry.
func (s *SessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Expire(ctx, sessionKey(id), s.idleTTL); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}
	return sess, nil
}

// Update applies fn to a copy of the session and saves the copy only if fn succeeds.
func (s *SessionStore) Update(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next := cur.Clone()
	if err := fn(next); err != nil {
		return cur, err
	}
	next.UpdatedAt = s.clock.Now().UTC()
	if err := s.store.Set(ctx, sessionKey(id), next, s.idleTTL); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return next, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.store.Exists(ctx, sessionKey(id))
	if err != nil {
		return fmt.Errorf("lookup session: %w", err)
	}
	if !ok {
		return models.ErrSessionNotFound
	}
	if err := s.store.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) load(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	if err := s.store.Get(ctx, sessionKey(id), &sess); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, models.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.Pools == nil {
		sess.Pools = []models.MarketRecord{}
	}
	if sess.Drafts == nil {
		sess.Drafts = map[string]models.RelaunchDraft{}
	}
	return &sess, nil
}

func sessionKey(id string) string {
	return cache.GenerateKey(sessionKeyPrefix, id)
}

var _ drepo.SessionRepository = (*SessionStore)(nil)

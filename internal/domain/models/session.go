package models

import "time"

// RelaunchDraft is a pending relaunch selection: a snapshot of the expiring pool
// taken when the operator chose to configure its relaunch.
type RelaunchDraft struct {
	Original   MarketRecord `json:"original"`
	SelectedAt time.Time    `json:"selected_at"`
}

// Session owns the simulated pools and relaunch drafts of one user session.
type Session struct {
	ID        string                   `json:"id"`
	Pools     []MarketRecord           `json:"pools"`
	Drafts    map[string]RelaunchDraft `json:"drafts"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// NewSession returns an empty session.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Pools:     []MarketRecord{},
		Drafts:    map[string]RelaunchDraft{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so readers never observe later mutations.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Pools = append([]MarketRecord{}, s.Pools...)
	out.Drafts = make(map[string]RelaunchDraft, len(s.Drafts))
	for k, v := range s.Drafts {
		out.Drafts[k] = v
	}
	return &out
}

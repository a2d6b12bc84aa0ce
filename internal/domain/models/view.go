package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BucketPool is one constituent of a date bucket.
type BucketPool struct {
	Name    string          `json:"name"`
	Address string          `json:"address"`
	Tier    Tier            `json:"tier"`
	TVL     decimal.Decimal `json:"tvl"`
}

// DateBucket aggregates every pool maturing on one date.
// TierTVL[i] holds the subtotal for tier i+1.
type DateBucket struct {
	Date     string             `json:"date"`
	TotalTVL decimal.Decimal    `json:"total_tvl"`
	TierTVL  [4]decimal.Decimal `json:"tier_tvl"`
	Pools    []BucketPool       `json:"pools"`
}

// TierTotal returns the subtotal for tier t, zero for unknown tiers.
func (b DateBucket) TierTotal(t Tier) decimal.Decimal {
	if !t.Valid() {
		return decimal.Zero
	}
	return b.TierTVL[t.Index()]
}

// ExpiringPool is a relaunch opportunity.
type ExpiringPool struct {
	MarketRecord
	DaysLeft int  `json:"days_left"`
	Drafted  bool `json:"drafted"`
}

// PoolDetail is one row of the per-date detail table.
type PoolDetail struct {
	Name    string          `json:"name"`
	Address string          `json:"address"`
	Tier    Tier            `json:"tier"`
	TVL     decimal.Decimal `json:"tvl"`
	ChainID string          `json:"chain_id"`
	Kind    PoolKind        `json:"kind"`
}

// DateDetail lists the pools maturing on one date.
type DateDetail struct {
	Date      string          `json:"date"`
	TotalTVL  decimal.Decimal `json:"total_tvl"`
	PoolCount int             `json:"pool_count"`
	Pools     []PoolDetail    `json:"pools"`
}

// TierInfo describes one chart series.
type TierInfo struct {
	Tier   Tier            `json:"tier"`
	Label  string          `json:"label"`
	Color  string          `json:"color"`
	MinTVL decimal.Decimal `json:"min_tvl"`
}

// Summary carries the headline metrics of the dashboard.
type Summary struct {
	TotalMarkets  int             `json:"total_markets"`
	MaturityDates int             `json:"maturity_dates"`
	ExpiringSoon  int             `json:"expiring_soon"`
	TotalTVL      decimal.Decimal `json:"total_tvl"`
}

// View is the full dashboard for one session, recomputed on every read.
type View struct {
	SessionID        string          `json:"session_id"`
	Buckets          []DateBucket    `json:"buckets"`
	Expiring         []ExpiringPool  `json:"expiring"`
	Simulated        []MarketRecord  `json:"simulated"`
	Drafts           []RelaunchDraft `json:"drafts"`
	Summary          Summary         `json:"summary"`
	Tiers            []TierInfo      `json:"tiers"`
	Warnings         []string        `json:"warnings,omitempty"`
	MarketsFetchedAt time.Time       `json:"markets_fetched_at"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

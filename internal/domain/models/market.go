package models

import (
	"time"

	"github.com/shopspring/decimal"

	"MaturityPlanner/pkg/util"
)

// ChainSimulated marks pools created in the simulation sandbox rather than on a chain.
const ChainSimulated = "Simulated"

// PoolKind distinguishes live markets from simulated entries in detail listings.
type PoolKind string

const (
	PoolKindActive   PoolKind = "Active"
	PoolKindNew      PoolKind = "New"
	PoolKindRelaunch PoolKind = "Relaunch"
)

// MarketRecord is one pool: a live market from the data source or a simulated entry.
// For live markets Tier is derived from TVL; simulated pools carry an operator-chosen tier.
type MarketRecord struct {
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	ChainID    string          `json:"chain_id"`
	Expiry     time.Time       `json:"expiry"`
	TVL        decimal.Decimal `json:"tvl"`
	Tier       Tier            `json:"tier"`
	IsRelaunch bool            `json:"is_relaunch"`
}

// ExpiryDate is the UTC calendar date used for grouping, formatted YYYY-MM-DD.
func (r MarketRecord) ExpiryDate() string {
	return util.FormatDate(r.Expiry)
}

// Kind classifies the record for display.
func (r MarketRecord) Kind() PoolKind {
	switch {
	case r.IsRelaunch:
		return PoolKindRelaunch
	case r.ChainID == ChainSimulated:
		return PoolKindNew
	default:
		return PoolKindActive
	}
}

// MarketSnapshot is one fetch of the market data source.
type MarketSnapshot struct {
	Markets   []MarketRecord `json:"markets"`
	Warnings  []string       `json:"warnings,omitempty"`
	FetchedAt time.Time      `json:"fetched_at"`
}

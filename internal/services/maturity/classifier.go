package maturity

import (
	"github.com/shopspring/decimal"

	"MaturityPlanner/internal/domain/models"
)

// Inclusive lower bounds of the TVL tiers, in USD.
var (
	Tier1Threshold = decimal.NewFromInt(500_000_000)
	Tier2Threshold = decimal.NewFromInt(100_000_000)
	Tier3Threshold = decimal.NewFromInt(10_000_000)
)

// Classify maps a non-negative TVL to its tier, checking the highest band first.
func Classify(tvl decimal.Decimal) models.Tier {
	switch {
	case tvl.GreaterThanOrEqual(Tier1Threshold):
		return models.Tier1
	case tvl.GreaterThanOrEqual(Tier2Threshold):
		return models.Tier2
	case tvl.GreaterThanOrEqual(Tier3Threshold):
		return models.Tier3
	default:
		return models.Tier4
	}
}

// NormalizeTVL clamps negative values to zero.
func NormalizeTVL(tvl decimal.Decimal) decimal.Decimal {
	if tvl.IsNegative() {
		return decimal.Zero
	}
	return tvl
}

// MinTVL is the inclusive lower bound of tier t.
func MinTVL(t models.Tier) decimal.Decimal {
	switch t {
	case models.Tier1:
		return Tier1Threshold
	case models.Tier2:
		return Tier2Threshold
	case models.Tier3:
		return Tier3Threshold
	default:
		return decimal.Zero
	}
}

// Tiers returns the chart legend in stacking order.
func Tiers() []models.TierInfo {
	out := make([]models.TierInfo, 0, len(models.AllTiers))
	for _, t := range models.AllTiers {
		out = append(out, models.TierInfo{
			Tier:   t,
			Label:  t.Label(),
			Color:  t.Color(),
			MinTVL: MinTVL(t),
		})
	}
	return out
}

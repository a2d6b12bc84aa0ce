package maturity

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"MaturityPlanner/internal/domain/models"
)

const (
	// ExpiringWindow is how far ahead relaunch opportunities are listed.
	ExpiringWindow = 21 * 24 * time.Hour
)

// ExpiringMinTVL is the strict lower TVL bound for a relaunch opportunity.
var ExpiringMinTVL = decimal.NewFromInt(1_000_000)

// ExpiringSoon selects pools with TVL above ExpiringMinTVL that expire after now and
// no later than now+ExpiringWindow, ascending by expiry.
func ExpiringSoon(records []models.MarketRecord, now time.Time) []models.ExpiringPool {
	horizon := now.Add(ExpiringWindow)
	out := make([]models.ExpiringPool, 0)
	for _, r := range records {
		if !r.TVL.GreaterThan(ExpiringMinTVL) {
			continue
		}
		if !r.Expiry.After(now) || r.Expiry.After(horizon) {
			continue
		}
		out = append(out, models.ExpiringPool{MarketRecord: r, DaysLeft: DaysLeft(now, r.Expiry)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Expiry.Equal(out[j].Expiry) {
			return out[i].Expiry.Before(out[j].Expiry)
		}
		return out[i].Address < out[j].Address
	})
	return out
}

// DaysLeft is the number of whole days from now until expiry, floored.
func DaysLeft(now, expiry time.Time) int {
	d := expiry.Sub(now)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

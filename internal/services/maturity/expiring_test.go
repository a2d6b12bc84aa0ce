package maturity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MaturityPlanner/internal/domain/models"
)

func TestExpiringSoonScenario(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []models.MarketRecord{
		{Name: "P", Address: "0xp", Expiry: now.Add(10 * 24 * time.Hour), TVL: decimal.NewFromInt(2_000_000)},
		{Name: "Q", Address: "0xq", Expiry: now.Add(30 * 24 * time.Hour), TVL: decimal.NewFromInt(2_000_000)},
		{Name: "R", Address: "0xr", Expiry: now.Add(5 * 24 * time.Hour), TVL: decimal.NewFromInt(500_000)},
	}

	got := ExpiringSoon(records, now)
	require.Len(t, got, 1)
	assert.Equal(t, "P", got[0].Name)
	assert.Equal(t, 10, got[0].DaysLeft)
}

func TestExpiringSoonBounds(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	tvl := decimal.NewFromInt(5_000_000)
	records := []models.MarketRecord{
		{Name: "past", Address: "1", Expiry: now.Add(-time.Hour), TVL: tvl},
		{Name: "now", Address: "2", Expiry: now, TVL: tvl},
		{Name: "edge", Address: "3", Expiry: now.Add(ExpiringWindow), TVL: tvl},
		{Name: "beyond", Address: "4", Expiry: now.Add(ExpiringWindow + time.Second), TVL: tvl},
		{Name: "soon", Address: "5", Expiry: now.Add(36 * time.Hour), TVL: tvl},
		{Name: "exactly1m", Address: "6", Expiry: now.Add(48 * time.Hour), TVL: ExpiringMinTVL},
	}

	got := ExpiringSoon(records, now)
	require.Len(t, got, 2)
	assert.Equal(t, "soon", got[0].Name)
	assert.Equal(t, 1, got[0].DaysLeft)
	assert.Equal(t, "edge", got[1].Name)
	assert.Equal(t, 21, got[1].DaysLeft)
}

func TestExpiringSoonEmpty(t *testing.T) {
	got := ExpiringSoon(nil, time.Now())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysLeft(now, now.Add(23*time.Hour)))
	assert.Equal(t, 2, DaysLeft(now, now.Add(71*time.Hour)))
	assert.Equal(t, -1, DaysLeft(now, now.Add(-time.Hour)))
}

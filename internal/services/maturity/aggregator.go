package maturity

import (
	"sort"

	"github.com/shopspring/decimal"

	"MaturityPlanner/internal/domain/models"
)

// Merge returns live markets followed by simulated pools in a new slice.
func Merge(markets, simulated []models.MarketRecord) []models.MarketRecord {
	out := make([]models.MarketRecord, 0, len(markets)+len(simulated))
	out = append(out, markets...)
	out = append(out, simulated...)
	return out
}

// ComputeView merges simulated pools into the live markets and aggregates the result.
func ComputeView(markets, simulated []models.MarketRecord) []models.DateBucket {
	return Aggregate(Merge(markets, simulated))
}

// Aggregate groups records by expiry date. Buckets are ascending by date and the
// pools inside a bucket descending by TVL. Records with an invalid tier count toward
// the date total only.
func Aggregate(records []models.MarketRecord) []models.DateBucket {
	byDate := make(map[string]*models.DateBucket)
	for _, r := range records {
		date := r.ExpiryDate()
		b, ok := byDate[date]
		if !ok {
			b = &models.DateBucket{Date: date, TotalTVL: decimal.Zero}
			for i := range b.TierTVL {
				b.TierTVL[i] = decimal.Zero
			}
			byDate[date] = b
		}
		b.TotalTVL = b.TotalTVL.Add(r.TVL)
		if r.Tier.Valid() {
			b.TierTVL[r.Tier.Index()] = b.TierTVL[r.Tier.Index()].Add(r.TVL)
		}
		b.Pools = append(b.Pools, models.BucketPool{Name: r.Name, Address: r.Address, Tier: r.Tier, TVL: r.TVL})
	}

	out := make([]models.DateBucket, 0, len(byDate))
	for _, b := range byDate {
		sort.SliceStable(b.Pools, func(i, j int) bool {
			x, y := b.Pools[i], b.Pools[j]
			return lessPool(poolKey{x.TVL, x.Name, x.Address, x.Tier}, poolKey{y.TVL, y.Name, y.Address, y.Tier})
		})
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// PoolsOn returns the detail table for one date, descending by TVL.
func PoolsOn(records []models.MarketRecord, date string) models.DateDetail {
	detail := models.DateDetail{Date: date, TotalTVL: decimal.Zero, Pools: []models.PoolDetail{}}
	for _, r := range records {
		if r.ExpiryDate() != date {
			continue
		}
		detail.TotalTVL = detail.TotalTVL.Add(r.TVL)
		detail.Pools = append(detail.Pools, models.PoolDetail{
			Name:    r.Name,
			Address: r.Address,
			Tier:    r.Tier,
			TVL:     r.TVL,
			ChainID: r.ChainID,
			Kind:    r.Kind(),
		})
	}
	sort.SliceStable(detail.Pools, func(i, j int) bool {
		a, b := detail.Pools[i], detail.Pools[j]
		return lessPool(poolKey{a.TVL, a.Name, a.Address, a.Tier}, poolKey{b.TVL, b.Name, b.Address, b.Tier})
	})
	detail.PoolCount = len(detail.Pools)
	return detail
}

// Summarize computes the headline metrics. Relaunched pools replace an existing
// market and are not counted as additional markets.
func Summarize(records []models.MarketRecord, buckets []models.DateBucket, expiring int) models.Summary {
	s := models.Summary{
		MaturityDates: len(buckets),
		ExpiringSoon:  expiring,
		TotalTVL:      decimal.Zero,
	}
	for _, r := range records {
		if !r.IsRelaunch {
			s.TotalMarkets++
		}
		s.TotalTVL = s.TotalTVL.Add(r.TVL)
	}
	return s
}

type poolKey struct {
	tvl     decimal.Decimal
	name    string
	address string
	tier    models.Tier
}

// lessPool orders by TVL descending, then name, address and tier ascending.
func lessPool(a, b poolKey) bool {
	if c := a.tvl.Cmp(b.tvl); c != 0 {
		return c > 0
	}
	if a.name != b.name {
		return a.name < b.name
	}
	if a.address != b.address {
		return a.address < b.address
	}
	return a.tier < b.tier
}

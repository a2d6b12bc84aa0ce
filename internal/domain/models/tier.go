package models

import "fmt"

// Tier is the ordinal TVL band of a pool: 1 is the largest band, 4 the smallest.
type Tier int

const (
	Tier1 Tier = iota + 1
	Tier2
	Tier3
	Tier4
)

// AllTiers lists tiers in display (stacking) order.
var AllTiers = []Tier{Tier1, Tier2, Tier3, Tier4}

// Valid reports whether t is one of the four known tiers.
func (t Tier) Valid() bool {
	return t >= Tier1 && t <= Tier4
}

// Index maps a valid tier to its 0-based slot in per-tier arrays.
func (t Tier) Index() int { return int(t) - 1 }

func (t Tier) String() string { return fmt.Sprintf("Tier %d", int(t)) }

// Label is the legend text used by the stacked chart.
func (t Tier) Label() string {
	switch t {
	case Tier1:
		return "Tier 1 (>$500M)"
	case Tier2:
		return "Tier 2 ($100M-$500M)"
	case Tier3:
		return "Tier 3 ($10M-$100M)"
	case Tier4:
		return "Tier 4 (<$10M)"
	default:
		return t.String()
	}
}

// Color is the chart colour for the tier.
func (t Tier) Color() string {
	switch t {
	case Tier1:
		return "#8b5cf6"
	case Tier2:
		return "#06b6d4"
	case Tier3:
		return "#10b981"
	case Tier4:
		return "#f59e0b"
	default:
		return "#6b7280"
	}
}

package domain

import (
	"fmt"
	"math"
	"slices"
)

// DistributionTolerance is how far tier shares may drift from 1.0 in total.
const DistributionTolerance = 1e-6

// Distribution maps each tier to its share of a day's words.
type Distribution map[Tier]float64

// Validate checks that every tier is known and the shares sum to 1.
func (d Distribution) Validate() error {
	var sum float64
	for tier, share := range d {
		if !tier.IsValid() {
			return fmt.Errorf("unknown tier %q", tier)
		}
		if share < 0 || math.IsNaN(share) {
			return fmt.Errorf("share for %s must be >= 0 (got %v)", tier, share)
		}
		sum += share
	}
	if math.Abs(sum-1) > DistributionTolerance {
		return fmt.Errorf("shares must sum to 1.0 (got %v)", sum)
	}
	return nil
}

// Counts splits total across the tiers by largest remainder, so the counts
// always add up to total. Ties go to the easier tier.
func (d Distribution) Counts(total int) map[Tier]int {
	type part struct {
		tier Tier
		frac float64
	}

	counts := make(map[Tier]int, len(d))
	parts := make([]part, 0, len(d))
	assigned := 0
	for _, tier := range Tiers {
		share, ok := d[tier]
		if !ok {
			continue
		}
		exact := share * float64(total)
		whole := int(math.Floor(exact + 1e-9))
		counts[tier] = whole
		assigned += whole
		parts = append(parts, part{tier: tier, frac: exact - float64(whole)})
	}

	slices.SortStableFunc(parts, func(a, b part) int {
		switch {
		case a.frac > b.frac:
			return -1
		case a.frac < b.frac:
			return 1
		}
		return 0
	})
	for i := 0; assigned < total && len(parts) > 0; i = (i + 1) % len(parts) {
		counts[parts[i].tier]++
		assigned++
	}
	return counts
}

package catalog

import (
	"sort"

	"github.com/marketplace/storefront/domain/shared"
	"github.com/marketplace/storefront/domain/shared/valueobject"
)

// WholesaleTier represents a quantity range with a fixed unit price.
// MaxQuantity is an exclusive upper bound; zero means the tier is unbounded.
type WholesaleTier struct {
	MinQuantity int64
	MaxQuantity int64
	UnitPrice   valueobject.Money
}

// Contains returns true if the quantity falls within [MinQuantity, MaxQuantity)
func (t WholesaleTier) Contains(quantity int64) bool {
	if quantity < t.MinQuantity {
		return false
	}
	return t.MaxQuantity == 0 || quantity < t.MaxQuantity
}

// IsUnbounded returns true if the tier has no upper quantity limit
func (t WholesaleTier) IsUnbounded() bool {
	return t.MaxQuantity == 0
}

// normalizeTiers sorts tiers by MinQuantity ascending and rejects malformed
// tables: non-positive minimums, inverted bounds, duplicate minimums and
// overlapping ranges. Gaps between tiers are tolerated; quantities that fall
// into a gap resolve through the base-price fallback instead.
func normalizeTiers(tiers []WholesaleTier) ([]WholesaleTier, error) {
	if len(tiers) == 0 {
		return nil, nil
	}

	sorted := make([]WholesaleTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity < sorted[j].MinQuantity
	})

	for i, tier := range sorted {
		if tier.MinQuantity < 1 {
			return nil, shared.ErrInvalidTierTable
		}
		if tier.MaxQuantity != 0 && tier.MaxQuantity <= tier.MinQuantity {
			return nil, shared.ErrInvalidTierTable
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if prev.MinQuantity == tier.MinQuantity {
			return nil, shared.ErrInvalidTierTable
		}
		// An unbounded tier swallows every higher tier; a bounded tier whose
		// ceiling reaches past the next floor double-prices the overlap.
		if prev.MaxQuantity == 0 || prev.MaxQuantity > tier.MinQuantity {
			return nil, shared.ErrInvalidTierTable
		}
	}

	return sorted, nil
}

// TiersAreMonotonic reports whether unit prices never increase as tier
// minimums grow. Catalogs are expected to honor this but it is a data-quality
// property, not a hard invariant.
func TiersAreMonotonic(tiers []WholesaleTier) bool {
	for i := 1; i < len(tiers); i++ {
		greater, err := tiers[i].UnitPrice.GreaterThan(tiers[i-1].UnitPrice)
		if err != nil || greater {
			return false
		}
	}
	return true
}

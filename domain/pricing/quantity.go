package pricing

import (
	"github.com/marketplace/storefront/domain/catalog"
	"github.com/marketplace/storefront/domain/shared"
)

// MinimumOrderQuantity returns the smallest quantity the buyer may order in
// one line
func MinimumOrderQuantity(p *catalog.Product, segment catalog.BuyerSegment) int64 {
	if wholesalePricing(p, segment) {
		return p.WholesaleMinimumQuantity
	}
	return p.RetailMinimumQuantity
}

// Step returns the quantity delta one increment or decrement moves by.
// Buyers step in minimum-order-quantity multiples, not by single units.
func Step(p *catalog.Product, segment catalog.BuyerSegment) int64 {
	return MinimumOrderQuantity(p, segment)
}

// Purchasable returns true when the product can be bought at all in the
// given segment: it must be available and the minimum order quantity must
// fit within the available stock
func Purchasable(p *catalog.Product, segment catalog.BuyerSegment) bool {
	return p.IsPurchasable() && MinimumOrderQuantity(p, segment) <= p.AvailableStock
}

// Clamp bounds a requested quantity to the valid range for the product and
// segment: at least the minimum order quantity, at most the available stock.
// When the minimum itself exceeds stock the product cannot be bought and
// Clamp fails with OUT_OF_STOCK rather than admitting an under-minimum order.
func Clamp(requested int64, p *catalog.Product, segment catalog.BuyerSegment) (int64, error) {
	if !Purchasable(p, segment) {
		return 0, shared.ErrOutOfStock
	}
	min := MinimumOrderQuantity(p, segment)
	if requested < min {
		return min, nil
	}
	if requested > p.AvailableStock {
		return p.AvailableStock, nil
	}
	return requested, nil
}

// CanIncrement reports whether an increment action should be enabled at the
// current quantity
func CanIncrement(current int64, p *catalog.Product, segment catalog.BuyerSegment) bool {
	return current < p.AvailableStock
}

// CanDecrement reports whether a decrement action should be enabled at the
// current quantity
func CanDecrement(current int64, p *catalog.Product, segment catalog.BuyerSegment) bool {
	return current > MinimumOrderQuantity(p, segment)
}

// ValidateLine re-checks a quantity against the product's current state.
// Used at assembly time, when a cart built earlier may no longer satisfy
// stock or minimum-quantity constraints.
func ValidateLine(p *catalog.Product, segment catalog.BuyerSegment, quantity int64) error {
	if !p.IsPurchasable() {
		return shared.ErrProductUnavailable
	}
	if quantity < MinimumOrderQuantity(p, segment) {
		return shared.ErrBelowMinimumQuantity
	}
	if quantity > p.AvailableStock {
		return shared.ErrExceedsStock
	}
	return nil
}

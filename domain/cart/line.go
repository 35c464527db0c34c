package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/storefront/domain/catalog"
	"github.com/marketplace/storefront/domain/pricing"
	"github.com/marketplace/storefront/domain/shared/valueobject"
)

// Line is one product entry in a cart. The pricing-relevant product fields
// are snapshotted when the line is created, so a catalog change mid-session
// never silently moves an existing line's price; the unit price itself is
// recomputed from that snapshot whenever the quantity or the buyer segment
// changes, because the applicable wholesale tier may change with it.
type Line struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	Snapshot    catalog.Product
	Quantity    int64
	UnitPrice   valueobject.Money
	AppliedRule string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Total returns quantity times the resolved unit price
func (l *Line) Total() valueobject.Money {
	return l.UnitPrice.MultiplyByInt(l.Quantity)
}

// Savings returns how much the line saves against the snapshotted retail
// price, clamped to zero. A line never shows negative savings.
func (l *Line) Savings() valueobject.Money {
	saved, err := l.Snapshot.RetailUnitPrice.MultiplyByInt(l.Quantity).Subtract(l.Total())
	if err != nil || saved.IsNegative() {
		return valueobject.Zero(l.UnitPrice.Currency())
	}
	return saved
}

// reprice recomputes the unit price from the snapshot at the current
// quantity for the given segment
func (l *Line) reprice(segment catalog.BuyerSegment) error {
	quote, err := pricing.QuoteLine(&l.Snapshot, segment, l.Quantity)
	if err != nil {
		return err
	}
	l.UnitPrice = quote.UnitPrice
	l.AppliedRule = quote.AppliedRule
	l.UpdatedAt = time.Now()
	return nil
}

// snapshotProduct deep-copies the pricing-relevant product state so later
// catalog mutations cannot reach into an existing line
func snapshotProduct(p *catalog.Product) catalog.Product {
	cp := *p
	if p.SaleUnitPrice != nil {
		sale := *p.SaleUnitPrice
		cp.SaleUnitPrice = &sale
	}
	if p.BaseWholesaleUnitPrice != nil {
		base := *p.BaseWholesaleUnitPrice
		cp.BaseWholesaleUnitPrice = &base
	}
	if len(p.Tiers) > 0 {
		cp.Tiers = make([]catalog.WholesaleTier, len(p.Tiers))
		copy(cp.Tiers, p.Tiers)
	}
	return cp
}

// Package pricing holds the pure pricing and quantity rules of the
// storefront. Every call site that shows a price (product card, cart,
// checkout, order confirmation) goes through these functions so the numbers
// agree everywhere.
package pricing

import (
	"github.com/marketplace/storefront/domain/catalog"
	"github.com/marketplace/storefront/domain/shared"
	"github.com/marketplace/storefront/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Rule names reported in quotes and order lines
const (
	RuleWholesaleTier = "wholesale_tier"
	RuleWholesaleBase = "wholesale_base"
	RuleSale          = "sale"
	RuleRetail        = "retail"
)

// priceRule is one row of the unit-price decision table. Rows are evaluated
// in order; the first row that applies and resolves a price wins.
type priceRule struct {
	name    string
	applies func(p *catalog.Product, segment catalog.BuyerSegment) bool
	resolve func(p *catalog.Product, quantity int64) (valueobject.Money, bool)
}

func wholesalePricing(p *catalog.Product, segment catalog.BuyerSegment) bool {
	return segment.IsWholesale() && p.WholesaleEnabled
}

// unitPriceRules encodes the fallback chain: wholesale tier, then base
// wholesale price, then sale price (retail-style buyers only), then retail.
var unitPriceRules = []priceRule{
	{
		name:    RuleWholesaleTier,
		applies: wholesalePricing,
		resolve: func(p *catalog.Product, quantity int64) (valueobject.Money, bool) {
			// Tiers are sorted by MinQuantity ascending and never overlap, so
			// scanning from the top finds the highest qualifying tier first.
			for i := len(p.Tiers) - 1; i >= 0; i-- {
				if p.Tiers[i].Contains(quantity) {
					return p.Tiers[i].UnitPrice, true
				}
			}
			return valueobject.Money{}, false
		},
	},
	{
		name:    RuleWholesaleBase,
		applies: wholesalePricing,
		resolve: func(p *catalog.Product, quantity int64) (valueobject.Money, bool) {
			if p.BaseWholesaleUnitPrice == nil {
				return valueobject.Money{}, false
			}
			return *p.BaseWholesaleUnitPrice, true
		},
	},
	{
		name: RuleSale,
		applies: func(p *catalog.Product, segment catalog.BuyerSegment) bool {
			return !wholesalePricing(p, segment)
		},
		resolve: func(p *catalog.Product, quantity int64) (valueobject.Money, bool) {
			if !p.HasValidSalePrice() {
				return valueobject.Money{}, false
			}
			return *p.SaleUnitPrice, true
		},
	},
	{
		name: RuleRetail,
		applies: func(p *catalog.Product, segment catalog.BuyerSegment) bool {
			return true
		},
		resolve: func(p *catalog.Product, quantity int64) (valueobject.Money, bool) {
			return p.RetailUnitPrice, true
		},
	},
}

// UnitPrice computes the price one unit costs for the given buyer segment at
// the given quantity. It is a pure function of its inputs.
func UnitPrice(p *catalog.Product, segment catalog.BuyerSegment, quantity int64) (valueobject.Money, error) {
	price, _, err := resolveUnitPrice(p, segment, quantity)
	return price, err
}

// Quote contains the full pricing result for one prospective line
type Quote struct {
	UnitPrice       valueobject.Money
	LineTotal       valueobject.Money
	DiscountAmount  valueobject.Money // vs. the retail unit price, clamped to >= 0
	DiscountPercent decimal.Decimal
	AppliedRule     string
}

// QuoteLine computes the unit price plus the derived line figures shown next
// to it
func QuoteLine(p *catalog.Product, segment catalog.BuyerSegment, quantity int64) (Quote, error) {
	price, rule, err := resolveUnitPrice(p, segment, quantity)
	if err != nil {
		return Quote{}, err
	}

	lineTotal := price.MultiplyByInt(quantity)
	retailTotal := p.RetailUnitPrice.MultiplyByInt(quantity)
	discount, err := retailTotal.Subtract(lineTotal)
	if err != nil {
		return Quote{}, shared.ErrCurrencyMismatch
	}
	if discount.IsNegative() {
		discount = valueobject.Zero(discount.Currency())
	}

	var percent decimal.Decimal
	if !retailTotal.IsZero() {
		percent = discount.Amount().Div(retailTotal.Amount()).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return Quote{
		UnitPrice:       price,
		LineTotal:       lineTotal,
		DiscountAmount:  discount,
		DiscountPercent: percent,
		AppliedRule:     rule,
	}, nil
}

// DiscountPercent returns the badge percentage for a product on sale,
// truncated toward zero. The second return value is false when the product
// has no valid sale price; there is no zero-percent badge.
func DiscountPercent(p *catalog.Product) (int64, bool) {
	if !p.HasValidSalePrice() {
		return 0, false
	}
	retail := p.RetailUnitPrice.Amount()
	sale := p.SaleUnitPrice.Amount()
	percent := retail.Sub(sale).Div(retail).Mul(decimal.NewFromInt(100))
	return percent.IntPart(), true
}

func resolveUnitPrice(p *catalog.Product, segment catalog.BuyerSegment, quantity int64) (valueobject.Money, string, error) {
	if quantity <= 0 {
		return valueobject.Money{}, "", shared.ErrInvalidQuantity
	}
	for _, rule := range unitPriceRules {
		if !rule.applies(p, segment) {
			continue
		}
		if price, ok := rule.resolve(p, quantity); ok {
			return price, rule.name, nil
		}
	}
	// Unreachable: the retail row applies to every product and segment.
	return p.RetailUnitPrice, RuleRetail, nil
}

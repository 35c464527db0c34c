package catalog

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/marketplace/storefront/domain/shared"
	"github.com/marketplace/storefront/domain/shared/valueobject"
)

// AvailabilityStatus represents the coarse stock state shown to buyers
type AvailabilityStatus string

const (
	AvailabilityInStock    AvailabilityStatus = "IN_STOCK"
	AvailabilityLowStock   AvailabilityStatus = "LOW_STOCK"
	AvailabilityOutOfStock AvailabilityStatus = "OUT_OF_STOCK"
)

// MOQDefaults holds fallback minimum order quantities applied when the
// catalog omits them
type MOQDefaults struct {
	Retail    int64
	Wholesale int64
}

// DefaultMOQs are the standard fallbacks for catalogs that leave the
// minimums unset
var DefaultMOQs = MOQDefaults{Retail: 1, Wholesale: 5}

// TierInput is the raw wholesale tier shape supplied by the catalog service
type TierInput struct {
	MinQuantity int64   `validate:"gte=1"`
	MaxQuantity int64   `validate:"gte=0"`
	UnitPrice   float64 `validate:"gt=0"`
}

// ProductInput is the raw product shape supplied by the catalog service
type ProductInput struct {
	ID                       uuid.UUID `validate:"required"`
	SKU                      string    `validate:"required,max=50"`
	Name                     string    `validate:"required,max=200"`
	Currency                 valueobject.Currency
	RetailUnitPrice          float64  `validate:"gt=0"`
	SaleUnitPrice            *float64 `validate:"omitempty,gt=0"`
	RetailMinimumQuantity    int64    `validate:"gte=0"`
	WholesaleEnabled         bool
	WholesaleMinimumQuantity int64    `validate:"gte=0"`
	BaseWholesaleUnitPrice   *float64 `validate:"omitempty,gt=0"`
	Tiers                    []TierInput
	AvailableStock           int64 `validate:"gte=0"`
	Available                bool
}

// Product is the immutable read model the engine prices and sells from.
// It is constructed once from catalog data and never mutated; stock and
// price changes arrive as a fresh Product.
type Product struct {
	ID                       uuid.UUID
	SKU                      string
	Name                     string
	RetailUnitPrice          valueobject.Money
	SaleUnitPrice            *valueobject.Money
	RetailMinimumQuantity    int64
	WholesaleEnabled         bool
	WholesaleMinimumQuantity int64
	BaseWholesaleUnitPrice   *valueobject.Money
	Tiers                    []WholesaleTier
	AvailableStock           int64
	Available                bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewProduct builds a validated Product from catalog input using the
// standard minimum-order-quantity fallbacks
func NewProduct(in ProductInput) (*Product, error) {
	return NewProductWithDefaults(in, DefaultMOQs)
}

// NewProductWithDefaults builds a validated Product from catalog input.
// Zero minimum order quantities are replaced with the supplied defaults.
func NewProductWithDefaults(in ProductInput, defaults MOQDefaults) (*Product, error) {
	if err := validate.Struct(in); err != nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", err.Error())
	}

	currency := in.Currency
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	retail, err := valueobject.NewMoneyFromFloat(in.RetailUnitPrice, currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", err.Error())
	}

	p := &Product{
		ID:                       in.ID,
		SKU:                      in.SKU,
		Name:                     in.Name,
		RetailUnitPrice:          retail,
		RetailMinimumQuantity:    in.RetailMinimumQuantity,
		WholesaleEnabled:         in.WholesaleEnabled,
		WholesaleMinimumQuantity: in.WholesaleMinimumQuantity,
		AvailableStock:           in.AvailableStock,
		Available:                in.Available,
	}
	if p.RetailMinimumQuantity == 0 {
		p.RetailMinimumQuantity = defaults.Retail
	}
	if p.WholesaleMinimumQuantity == 0 {
		p.WholesaleMinimumQuantity = defaults.Wholesale
	}

	if in.SaleUnitPrice != nil {
		sale, err := valueobject.NewMoneyFromFloat(*in.SaleUnitPrice, currency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", err.Error())
		}
		below, err := sale.LessThan(retail)
		if err != nil {
			return nil, shared.ErrCurrencyMismatch
		}
		if !below {
			return nil, shared.NewDomainError("INVALID_SALE_PRICE", "Sale price must be strictly below the retail price")
		}
		p.SaleUnitPrice = &sale
	}

	if in.BaseWholesaleUnitPrice != nil {
		base, err := valueobject.NewMoneyFromFloat(*in.BaseWholesaleUnitPrice, currency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", err.Error())
		}
		p.BaseWholesaleUnitPrice = &base
	}

	tiers := make([]WholesaleTier, 0, len(in.Tiers))
	for _, t := range in.Tiers {
		price, err := valueobject.NewMoneyFromFloat(t.UnitPrice, currency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", err.Error())
		}
		tiers = append(tiers, WholesaleTier{
			MinQuantity: t.MinQuantity,
			MaxQuantity: t.MaxQuantity,
			UnitPrice:   price,
		})
	}
	normalized, err := normalizeTiers(tiers)
	if err != nil {
		return nil, err
	}
	p.Tiers = normalized

	return p, nil
}

// IsPurchasable returns true if the product can be added to a cart at all
func (p *Product) IsPurchasable() bool {
	return p.Available && p.AvailableStock > 0
}

// Availability derives the coarse stock status using the given low-stock
// threshold
func (p *Product) Availability(lowStockThreshold int64) AvailabilityStatus {
	switch {
	case !p.IsPurchasable():
		return AvailabilityOutOfStock
	case p.AvailableStock >= lowStockThreshold:
		return AvailabilityInStock
	default:
		return AvailabilityLowStock
	}
}

// Currency returns the currency all of the product's prices are quoted in
func (p *Product) Currency() valueobject.Currency {
	return p.RetailUnitPrice.Currency()
}

// HasValidSalePrice returns true when a sale price exists and undercuts the
// retail price
func (p *Product) HasValidSalePrice() bool {
	if p.SaleUnitPrice == nil {
		return false
	}
	below, err := p.SaleUnitPrice.LessThan(p.RetailUnitPrice)
	return err == nil && below
}

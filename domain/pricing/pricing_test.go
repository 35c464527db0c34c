package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/storefront/domain/catalog"
	"github.com/marketplace/storefront/domain/shared"
	"github.com/marketplace/storefront/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(f float64) valueobject.Money { return valueobject.NewMoneyUSDFromFloat(f) }

func usdPtr(f float64) *valueobject.Money {
	m := usd(f)
	return &m
}

// retailProduct is a plain product: retail 100, MOQ 1, stock 50.
func retailProduct() *catalog.Product {
	return &catalog.Product{
		ID:                       uuid.New(),
		SKU:                      "SKU-R",
		Name:                     "Retail Widget",
		RetailUnitPrice:          usd(100),
		RetailMinimumQuantity:    1,
		WholesaleMinimumQuantity: 5,
		AvailableStock:           50,
		Available:                true,
	}
}

// tieredProduct adds wholesale tiers [5,20)@80 and [20,∞)@70 on top of the
// retail product.
func tieredProduct() *catalog.Product {
	p := retailProduct()
	p.SKU = "SKU-W"
	p.WholesaleEnabled = true
	p.Tiers = []catalog.WholesaleTier{
		{MinQuantity: 5, MaxQuantity: 20, UnitPrice: usd(80)},
		{MinQuantity: 20, MaxQuantity: 0, UnitPrice: usd(70)},
	}
	return p
}

func TestUnitPriceRetail(t *testing.T) {
	p := retailProduct()

	t.Run("retail segment pays retail price", func(t *testing.T) {
		price, err := UnitPrice(p, catalog.SegmentRetail, 3)
		require.NoError(t, err)
		assert.True(t, price.Equals(usd(100)))
	})

	t.Run("guest prices identically to retail", func(t *testing.T) {
		for qty := int64(1); qty <= 10; qty++ {
			retail, err := UnitPrice(p, catalog.SegmentRetail, qty)
			require.NoError(t, err)
			guest, err := UnitPrice(p, catalog.SegmentGuest, qty)
			require.NoError(t, err)
			assert.True(t, retail.Equals(guest))
		}
	})

	t.Run("sale price wins when below retail", func(t *testing.T) {
		p := retailProduct()
		p.SaleUnitPrice = usdPtr(85)
		price, err := UnitPrice(p, catalog.SegmentRetail, 1)
		require.NoError(t, err)
		assert.True(t, price.Equals(usd(85)))
	})

	t.Run("sale price at retail level is ignored", func(t *testing.T) {
		p := retailProduct()
		p.SaleUnitPrice = usdPtr(100)
		price, err := UnitPrice(p, catalog.SegmentRetail, 1)
		require.NoError(t, err)
		assert.True(t, price.Equals(usd(100)))
	})

	t.Run("non-positive quantity fails", func(t *testing.T) {
		_, err := UnitPrice(p, catalog.SegmentRetail, 0)
		assert.Equal(t, shared.ErrInvalidQuantity, err)
		_, err = UnitPrice(p, catalog.SegmentRetail, -3)
		assert.Equal(t, shared.ErrInvalidQuantity, err)
	})
}

func TestUnitPriceWholesale(t *testing.T) {
	t.Run("highest qualifying tier wins", func(t *testing.T) {
		p := tieredProduct()

		cases := []struct {
			quantity int64
			expect   float64
		}{
			{5, 80},
			{19, 80},
			{20, 70},
			{25, 70},
			{1000, 70},
		}
		for _, tc := range cases {
			price, err := UnitPrice(p, catalog.SegmentWholesale, tc.quantity)
			require.NoError(t, err)
			assert.True(t, price.Equals(usd(tc.expect)), "quantity %d", tc.quantity)
		}
	})

	t.Run("below every tier falls back to base wholesale price", func(t *testing.T) {
		p := tieredProduct()
		p.BaseWholesaleUnitPrice = usdPtr(90)
		price, err := UnitPrice(p, catalog.SegmentWholesale, 2)
		require.NoError(t, err)
		assert.True(t, price.Equals(usd(90)))
	})

	t.Run("no tier and no base falls back to retail", func(t *testing.T) {
		p := tieredProduct()
		p.Tiers = nil
		price, err := UnitPrice(p, catalog.SegmentWholesale, 2)
		require.NoError(t, err)
		assert.True(t, price.Equals(usd(100)))
	})

	t.Run("wholesale fallback skips the sale price", func(t *testing.T) {
		p := tieredProduct()
		p.Tiers = nil
		p.SaleUnitPrice = usdPtr(85)
		price, err := UnitPrice(p, catalog.SegmentWholesale, 2)
		require.NoError(t, err)
		assert.True(t, price.Equals(usd(100)))
	})

	t.Run("wholesale disabled prices like retail for every quantity", func(t *testing.T) {
		p := retailProduct()
		for qty := int64(1); qty <= 30; qty++ {
			wholesale, err := UnitPrice(p, catalog.SegmentWholesale, qty)
			require.NoError(t, err)
			retail, err := UnitPrice(p, catalog.SegmentRetail, qty)
			require.NoError(t, err)
			assert.True(t, wholesale.Equals(retail))
		}
	})

	t.Run("unit price never increases with quantity", func(t *testing.T) {
		p := tieredProduct()
		p.BaseWholesaleUnitPrice = usdPtr(90)
		prev, err := UnitPrice(p, catalog.SegmentWholesale, 1)
		require.NoError(t, err)
		for qty := int64(2); qty <= 50; qty++ {
			price, err := UnitPrice(p, catalog.SegmentWholesale, qty)
			require.NoError(t, err)
			lte, err := price.LessThanOrEqual(prev)
			require.NoError(t, err)
			assert.True(t, lte, "quantity %d", qty)
			prev = price
		}
	})

	t.Run("gap between tiers resolves through the base price", func(t *testing.T) {
		p := retailProduct()
		p.WholesaleEnabled = true
		p.BaseWholesaleUnitPrice = usdPtr(90)
		p.Tiers = []catalog.WholesaleTier{
			{MinQuantity: 5, MaxQuantity: 10, UnitPrice: usd(80)},
			{MinQuantity: 20, MaxQuantity: 0, UnitPrice: usd(70)},
		}
		price, err := UnitPrice(p, catalog.SegmentWholesale, 15)
		require.NoError(t, err)
		assert.True(t, price.Equals(usd(90)))
	})
}

func TestQuoteLine(t *testing.T) {
	t.Run("wholesale tier quote includes discount vs retail", func(t *testing.T) {
		quote, err := QuoteLine(tieredProduct(), catalog.SegmentWholesale, 25)
		require.NoError(t, err)
		assert.True(t, quote.UnitPrice.Equals(usd(70)))
		assert.True(t, quote.LineTotal.Equals(usd(1750)))
		assert.True(t, quote.DiscountAmount.Equals(usd(750)))
		assert.True(t, quote.DiscountPercent.Equal(decimal.NewFromInt(30)))
		assert.Equal(t, RuleWholesaleTier, quote.AppliedRule)
	})

	t.Run("retail quote carries no discount", func(t *testing.T) {
		quote, err := QuoteLine(retailProduct(), catalog.SegmentRetail, 3)
		require.NoError(t, err)
		assert.True(t, quote.LineTotal.Equals(usd(300)))
		assert.True(t, quote.DiscountAmount.IsZero())
		assert.Equal(t, RuleRetail, quote.AppliedRule)
	})

	t.Run("discount never goes negative", func(t *testing.T) {
		p := retailProduct()
		p.WholesaleEnabled = true
		// Catalog data-quality failure: base wholesale above retail.
		p.BaseWholesaleUnitPrice = usdPtr(120)
		quote, err := QuoteLine(p, catalog.SegmentWholesale, 10)
		require.NoError(t, err)
		assert.True(t, quote.UnitPrice.Equals(usd(120)))
		assert.True(t, quote.DiscountAmount.IsZero())
	})
}

func TestDiscountPercent(t *testing.T) {
	t.Run("undefined without a sale price", func(t *testing.T) {
		_, ok := DiscountPercent(retailProduct())
		assert.False(t, ok)
	})

	t.Run("truncates toward zero", func(t *testing.T) {
		p := retailProduct()
		p.RetailUnitPrice = usd(3)
		p.SaleUnitPrice = usdPtr(1)
		percent, ok := DiscountPercent(p)
		require.True(t, ok)
		assert.Equal(t, int64(66), percent)
	})

	t.Run("exact percentages stay exact", func(t *testing.T) {
		p := retailProduct()
		p.SaleUnitPrice = usdPtr(80)
		percent, ok := DiscountPercent(p)
		require.True(t, ok)
		assert.Equal(t, int64(20), percent)
	})
}

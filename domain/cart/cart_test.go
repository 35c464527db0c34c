package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/storefront/domain/catalog"
	"github.com/marketplace/storefront/domain/shared"
	"github.com/marketplace/storefront/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(f float64) valueobject.Money { return valueobject.NewMoneyUSDFromFloat(f) }

func usdPtr(f float64) *valueobject.Money {
	m := usd(f)
	return &m
}

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

func newCart(t *testing.T, segment catalog.BuyerSegment) *Cart {
	t.Helper()
	c, err := NewCart(segment)
	require.NoError(t, err)
	return c
}

func TestNewCart(t *testing.T) {
	c := newCart(t, catalog.SegmentRetail)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, catalog.SegmentRetail, c.Segment())
	assert.True(t, c.Subtotal().IsZero())

	_, err := NewCart(catalog.BuyerSegment("VIP"))
	assert.Error(t, err)
}

func TestAdd(t *testing.T) {
	t.Run("retail add prices at retail", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		p := retailProduct()

		lineID, err := c.Add(p, 3)
		require.NoError(t, err)

		line, ok := c.LineForProduct(p.ID)
		require.True(t, ok)
		assert.Equal(t, lineID, line.ID)
		assert.Equal(t, int64(3), line.Quantity)
		assert.True(t, line.UnitPrice.Equals(usd(100)))
		assert.True(t, c.Subtotal().Equals(usd(300)))
	})

	t.Run("wholesale add lands in the right tier", func(t *testing.T) {
		c := newCart(t, catalog.SegmentWholesale)

		_, err := c.Add(tieredProduct(), 25)
		require.NoError(t, err)

		assert.True(t, c.Subtotal().Equals(usd(1750)))
	})

	t.Run("wholesale segment with wholesale disabled falls back to retail", func(t *testing.T) {
		c := newCart(t, catalog.SegmentWholesale)

		_, err := c.Add(retailProduct(), 2)
		require.NoError(t, err)

		assert.True(t, c.Subtotal().Equals(usd(200)))
	})

	t.Run("request below minimum is raised to the minimum", func(t *testing.T) {
		c := newCart(t, catalog.SegmentWholesale)
		p := tieredProduct()

		_, err := c.Add(p, 2)
		require.NoError(t, err)

		line, _ := c.LineForProduct(p.ID)
		assert.Equal(t, int64(5), line.Quantity)
		assert.True(t, line.UnitPrice.Equals(usd(80)))
	})

	t.Run("minimum above stock fails hard", func(t *testing.T) {
		c := newCart(t, catalog.SegmentWholesale)
		p := tieredProduct()
		p.AvailableStock = 3 // wholesale MOQ 5

		_, err := c.Add(p, 5)
		assert.Equal(t, shared.ErrOutOfStock, err)
		assert.True(t, c.IsEmpty())
	})

	t.Run("unavailable product fails hard", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		p := retailProduct()
		p.Available = false

		_, err := c.Add(p, 1)
		assert.Equal(t, shared.ErrOutOfStock, err)
	})

	t.Run("non-positive request fails", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		_, err := c.Add(retailProduct(), 0)
		assert.Equal(t, shared.ErrInvalidQuantity, err)
		assert.True(t, c.IsEmpty())
	})

	t.Run("same product merges quantities and crosses tiers", func(t *testing.T) {
		c := newCart(t, catalog.SegmentWholesale)
		p := tieredProduct()

		first, err := c.Add(p, 5)
		require.NoError(t, err)
		line, _ := c.LineForProduct(p.ID)
		assert.True(t, line.UnitPrice.Equals(usd(80)))

		second, err := c.Add(p, 15)
		require.NoError(t, err)
		assert.Equal(t, first, second, "line id is stable across merges")

		line, _ = c.LineForProduct(p.ID)
		assert.Equal(t, int64(20), line.Quantity)
		assert.True(t, line.UnitPrice.Equals(usd(70)), "merged quantity crosses into the 20+ tier")
	})

	t.Run("merge saturates at stock", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		p := retailProduct()

		_, err := c.Add(p, 40)
		require.NoError(t, err)
		_, err = c.Add(p, 40)
		require.NoError(t, err)

		line, _ := c.LineForProduct(p.ID)
		assert.Equal(t, int64(50), line.Quantity)
	})

	t.Run("rejects a second currency", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		_, err := c.Add(retailProduct(), 1)
		require.NoError(t, err)

		eur := retailProduct()
		eur.RetailUnitPrice, _ = valueobject.NewMoneyFromFloat(90, valueobject.EUR)
		_, err = c.Add(eur, 1)
		assert.Equal(t, shared.ErrCurrencyMismatch, err)
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		first, second := retailProduct(), retailProduct()

		_, err := c.Add(first, 1)
		require.NoError(t, err)
		_, err = c.Add(second, 1)
		require.NoError(t, err)

		lines := c.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, first.ID, lines[0].ProductID)
		assert.Equal(t, second.ID, lines[1].ProductID)
	})
}

func TestSnapshotIsolation(t *testing.T) {
	c := newCart(t, catalog.SegmentWholesale)
	p := tieredProduct()

	_, err := c.Add(p, 25)
	require.NoError(t, err)

	// A catalog price change mid-session must not move the existing line.
	p.Tiers[1].UnitPrice = usd(95)
	p.RetailUnitPrice = usd(200)

	require.NoError(t, c.ChangeSegment(catalog.SegmentWholesale))
	line, _ := c.LineForProduct(p.ID)
	assert.True(t, line.UnitPrice.Equals(usd(70)))
	assert.True(t, c.Subtotal().Equals(usd(1750)))
}

func TestUpdateQuantity(t *testing.T) {
	t.Run("sets and reprices", func(t *testing.T) {
		c := newCart(t, catalog.SegmentWholesale)
		p := tieredProduct()
		lineID, err := c.Add(p, 5)
		require.NoError(t, err)

		require.NoError(t, c.UpdateQuantity(lineID, 25))
		line, _ := c.LineForProduct(p.ID)
		assert.Equal(t, int64(25), line.Quantity)
		assert.True(t, line.UnitPrice.Equals(usd(70)))
	})

	t.Run("clamps to stock", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		p := retailProduct()
		lineID, err := c.Add(p, 1)
		require.NoError(t, err)

		require.NoError(t, c.UpdateQuantity(lineID, 500))
		line, _ := c.LineForProduct(p.ID)
		assert.Equal(t, int64(50), line.Quantity)
	})

	t.Run("unknown line fails", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		err := c.UpdateQuantity(uuid.New(), 3)
		assert.Equal(t, shared.ErrLineNotFound, err)
	})

	t.Run("non-positive quantity fails without touching the line", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		p := retailProduct()
		lineID, err := c.Add(p, 3)
		require.NoError(t, err)

		assert.Equal(t, shared.ErrInvalidQuantity, c.UpdateQuantity(lineID, 0))
		line, _ := c.LineForProduct(p.ID)
		assert.Equal(t, int64(3), line.Quantity)
	})
}

func TestIncrementDecrement(t *testing.T) {
	t.Run("moves in minimum-order-quantity steps", func(t *testing.T) {
		c := newCart(t, catalog.SegmentWholesale)
		p := tieredProduct()
		lineID, err := c.Add(p, 5)
		require.NoError(t, err)

		require.NoError(t, c.Increment(lineID))
		line, _ := c.LineForProduct(p.ID)
		assert.Equal(t, int64(10), line.Quantity)

		require.NoError(t, c.Decrement(lineID))
		line, _ = c.LineForProduct(p.ID)
		assert.Equal(t, int64(5), line.Quantity)
	})

	t.Run("increment saturates at stock", func(t *testing.T) {
		c := newCart(t, catalog.SegmentWholesale)
		p := tieredProduct()
		p.AvailableStock = 12
		lineID, err := c.Add(p, 10)
		require.NoError(t, err)

		require.NoError(t, c.Increment(lineID))
		line, _ := c.LineForProduct(p.ID)
		assert.Equal(t, int64(12), line.Quantity)

		// At the ceiling a further increment is a silent no-op.
		require.NoError(t, c.Increment(lineID))
		line, _ = c.LineForProduct(p.ID)
		assert.Equal(t, int64(12), line.Quantity)
	})

	t.Run("decrement below minimum is a no-op, not a removal", func(t *testing.T) {
		c := newCart(t, catalog.SegmentWholesale)
		p := tieredProduct()
		lineID, err := c.Add(p, 5)
		require.NoError(t, err)

		require.NoError(t, c.Decrement(lineID))
		line, ok := c.LineForProduct(p.ID)
		require.True(t, ok, "line must survive a refused decrement")
		assert.Equal(t, int64(5), line.Quantity)
	})

	t.Run("unknown line fails", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		assert.Equal(t, shared.ErrLineNotFound, c.Increment(uuid.New()))
		assert.Equal(t, shared.ErrLineNotFound, c.Decrement(uuid.New()))
	})
}

func TestRemoveAndClear(t *testing.T) {
	c := newCart(t, catalog.SegmentRetail)
	p := retailProduct()
	lineID, err := c.Add(p, 2)
	require.NoError(t, err)
	_, err = c.Add(retailProduct(), 1)
	require.NoError(t, err)

	require.NoError(t, c.Remove(lineID))
	_, ok := c.LineForProduct(p.ID)
	assert.False(t, ok)
	assert.Len(t, c.Lines(), 1)

	assert.Equal(t, shared.ErrLineNotFound, c.Remove(lineID))

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.ItemCount())
	assert.True(t, c.Subtotal().IsZero())
}

func TestChangeSegment(t *testing.T) {
	t.Run("reprices lines without touching quantities", func(t *testing.T) {
		c := newCart(t, catalog.SegmentGuest)
		p := tieredProduct()
		_, err := c.Add(p, 25)
		require.NoError(t, err)
		assert.True(t, c.Subtotal().Equals(usd(2500)), "guest pays retail")

		require.NoError(t, c.ChangeSegment(catalog.SegmentWholesale))
		line, _ := c.LineForProduct(p.ID)
		assert.Equal(t, int64(25), line.Quantity)
		assert.True(t, c.Subtotal().Equals(usd(1750)))

		require.NoError(t, c.ChangeSegment(catalog.SegmentGuest))
		assert.True(t, c.Subtotal().Equals(usd(2500)))
	})

	t.Run("is idempotent", func(t *testing.T) {
		c := newCart(t, catalog.SegmentGuest)
		_, err := c.Add(tieredProduct(), 25)
		require.NoError(t, err)

		require.NoError(t, c.ChangeSegment(catalog.SegmentWholesale))
		first := c.Subtotal()
		require.NoError(t, c.ChangeSegment(catalog.SegmentWholesale))
		assert.True(t, first.Equals(c.Subtotal()))
	})

	t.Run("rejects unknown segments", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		assert.Error(t, c.ChangeSegment(catalog.BuyerSegment("VIP")))
	})
}

func TestTotals(t *testing.T) {
	t.Run("wholesale savings against retail", func(t *testing.T) {
		c := newCart(t, catalog.SegmentWholesale)
		_, err := c.Add(tieredProduct(), 25)
		require.NoError(t, err)

		assert.True(t, c.TotalSavings().Equals(usd(750)), "(100-70)*25")
	})

	t.Run("savings clamp to zero per line", func(t *testing.T) {
		c := newCart(t, catalog.SegmentWholesale)
		good := tieredProduct()
		_, err := c.Add(good, 25)
		require.NoError(t, err)

		// Catalog data-quality failure: wholesale base above retail.
		bad := retailProduct()
		bad.WholesaleEnabled = true
		bad.BaseWholesaleUnitPrice = usdPtr(120)
		_, err = c.Add(bad, 5)
		require.NoError(t, err)

		assert.True(t, c.TotalSavings().Equals(usd(750)), "negative line savings must not offset positive ones")
		assert.False(t, c.TotalSavings().IsNegative())
	})

	t.Run("grand total adds externally supplied tax and shipping", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		_, err := c.Add(retailProduct(), 3)
		require.NoError(t, err)

		totals, err := c.Totals(usd(24), usd(10))
		require.NoError(t, err)
		assert.True(t, totals.Subtotal.Equals(usd(300)))
		assert.True(t, totals.GrandTotal.Equals(usd(334)))
		assert.Equal(t, int64(3), totals.ItemCount)
		assert.Equal(t, 1, totals.LineCount)
	})

	t.Run("rejects tax in a foreign currency", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		_, err := c.Add(retailProduct(), 1)
		require.NoError(t, err)

		eur, _ := valueobject.NewMoneyFromFloat(5, valueobject.EUR)
		_, err = c.GrandTotal(eur, usd(0))
		assert.Equal(t, shared.ErrCurrencyMismatch, err)
	})

	t.Run("item count sums units across lines", func(t *testing.T) {
		c := newCart(t, catalog.SegmentRetail)
		_, err := c.Add(retailProduct(), 3)
		require.NoError(t, err)
		_, err = c.Add(retailProduct(), 4)
		require.NoError(t, err)
		assert.Equal(t, int64(7), c.ItemCount())
	})
}

func TestDomainEvents(t *testing.T) {
	c := newCart(t, catalog.SegmentWholesale)
	p := tieredProduct()

	lineID, err := c.Add(p, 5)
	require.NoError(t, err)
	require.NoError(t, c.Increment(lineID))
	require.NoError(t, c.Remove(lineID))
	c.Clear() // empty cart, no event

	events := c.GetDomainEvents()
	require.Len(t, events, 3)
	assert.Equal(t, EventTypeLineAdded, events[0].EventType())
	assert.Equal(t, EventTypeLineQuantityChanged, events[1].EventType())
	assert.Equal(t, EventTypeLineRemoved, events[2].EventType())
	for _, ev := range events {
		assert.Equal(t, c.ID, ev.AggregateID())
	}

	c.ClearDomainEvents()
	assert.Empty(t, c.GetDomainEvents())
}

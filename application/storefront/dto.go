package storefront

import (
	"github.com/google/uuid"
	"github.com/marketplace/storefront/domain/cart"
	"github.com/marketplace/storefront/domain/catalog"
	"github.com/marketplace/storefront/domain/checkout"
	"github.com/marketplace/storefront/domain/pricing"
	"github.com/marketplace/storefront/domain/shared/valueobject"
)

// LineView is the cart line shape handed to rendering collaborators
type LineView struct {
	LineID       uuid.UUID         `json:"line_id"`
	ProductID    uuid.UUID         `json:"product_id"`
	SKU          string            `json:"sku"`
	Name         string            `json:"name"`
	Quantity     int64             `json:"quantity"`
	UnitPrice    valueobject.Money `json:"unit_price"`
	LineTotal    valueobject.Money `json:"line_total"`
	Savings      valueobject.Money `json:"savings"`
	AppliedRule  string            `json:"applied_rule"`
	CanIncrement bool              `json:"can_increment"`
	CanDecrement bool              `json:"can_decrement"`
}

// TotalsView summarizes the cart's derived figures
type TotalsView struct {
	Subtotal   valueobject.Money `json:"subtotal"`
	Savings    valueobject.Money `json:"savings"`
	Tax        valueobject.Money `json:"tax"`
	Shipping   valueobject.Money `json:"shipping"`
	GrandTotal valueobject.Money `json:"grand_total"`
	ItemCount  int64             `json:"item_count"`
}

// CartView is the full cart as shown on the cart screen
type CartView struct {
	Segment catalog.BuyerSegment `json:"segment"`
	Lines   []LineView           `json:"lines"`
	Totals  TotalsView           `json:"totals"`
}

// ToLineView maps a cart line to its view shape, including the UI action
// predicates for the quantity stepper
func ToLineView(line cart.Line, segment catalog.BuyerSegment) LineView {
	return LineView{
		LineID:       line.ID,
		ProductID:    line.ProductID,
		SKU:          line.Snapshot.SKU,
		Name:         line.Snapshot.Name,
		Quantity:     line.Quantity,
		UnitPrice:    line.UnitPrice,
		LineTotal:    line.Total(),
		Savings:      line.Savings(),
		AppliedRule:  line.AppliedRule,
		CanIncrement: pricing.CanIncrement(line.Quantity, &line.Snapshot, segment),
		CanDecrement: pricing.CanDecrement(line.Quantity, &line.Snapshot, segment),
	}
}

// OrderLineView is one frozen order line as shown on the confirmation
// screen
type OrderLineView struct {
	LineID      uuid.UUID         `json:"line_id"`
	ProductID   uuid.UUID         `json:"product_id"`
	SKU         string            `json:"sku"`
	Name        string            `json:"name"`
	Quantity    int64             `json:"quantity"`
	UnitPrice   valueobject.Money `json:"unit_price"`
	LineTotal   valueobject.Money `json:"line_total"`
	AppliedRule string            `json:"applied_rule"`
}

// OrderView is the assembled order as shown on the confirmation screen
type OrderView struct {
	OrderID       uuid.UUID            `json:"order_id"`
	Segment       catalog.BuyerSegment `json:"segment"`
	PaymentMethod string               `json:"payment_method"`
	Lines         []OrderLineView      `json:"lines"`
	Totals        TotalsView           `json:"totals"`
}

// ToCartView maps a cart plus externally supplied tax and shipping to the
// view shape
func ToCartView(c *cart.Cart, tax, shipping valueobject.Money) (CartView, error) {
	totals, err := c.Totals(tax, shipping)
	if err != nil {
		return CartView{}, err
	}

	segment := c.Segment()
	lines := c.Lines()
	views := make([]LineView, len(lines))
	for i, line := range lines {
		views[i] = ToLineView(line, segment)
	}

	return CartView{
		Segment: segment,
		Lines:   views,
		Totals: TotalsView{
			Subtotal:   totals.Subtotal,
			Savings:    totals.Savings,
			Tax:        totals.Tax,
			Shipping:   totals.Shipping,
			GrandTotal: totals.GrandTotal,
			ItemCount:  totals.ItemCount,
		},
	}, nil
}

// ToOrderView maps an assembled order request to its confirmation-screen
// shape
func ToOrderView(order *checkout.OrderRequest) OrderView {
	lines := make([]OrderLineView, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = OrderLineView{
			LineID:      line.LineID,
			ProductID:   line.ProductID,
			SKU:         line.SKU,
			Name:        line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
			AppliedRule: line.AppliedRule,
		}
	}
	return OrderView{
		OrderID:       order.ID,
		Segment:       order.Segment,
		PaymentMethod: order.PaymentMethod.String(),
		Lines:         lines,
		Totals: TotalsView{
			Subtotal:   order.Subtotal,
			Savings:    order.Savings,
			Tax:        order.Tax,
			Shipping:   order.Shipping,
			GrandTotal: order.GrandTotal,
			ItemCount:  order.ItemCount,
		},
	}
}

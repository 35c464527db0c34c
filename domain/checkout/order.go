package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/storefront/domain/catalog"
	"github.com/marketplace/storefront/domain/shared/valueobject"
)

// PaymentMethod represents how the buyer intends to pay
type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "CARD"
	PaymentBankTransfer   PaymentMethod = "BANK_TRANSFER"
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentInvoice        PaymentMethod = "INVOICE"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCard, PaymentBankTransfer, PaymentCashOnDelivery, PaymentInvoice:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// BuyerInfo identifies who is placing the order
type BuyerInfo struct {
	Name  string `validate:"required,max=200"`
	Email string `validate:"required,email"`
}

// OrderLine is one immutable line of a submitted order. The unit price is
// frozen at assembly time and never re-derived afterwards.
type OrderLine struct {
	LineID      uuid.UUID         `json:"line_id"`
	ProductID   uuid.UUID         `json:"product_id"`
	SKU         string            `json:"sku"`
	Name        string            `json:"name"`
	Quantity    int64             `json:"quantity"`
	UnitPrice   valueobject.Money `json:"unit_price"`
	LineTotal   valueobject.Money `json:"line_total"`
	AppliedRule string            `json:"applied_rule"`
}

// OrderRequest is the immutable submission payload produced at checkout.
// It is handed directly to the caller as a return value; nothing holds a
// "last placed order" on the side.
type OrderRequest struct {
	ID              uuid.UUID            `json:"id"`
	Buyer           BuyerInfo            `json:"buyer"`
	Segment         catalog.BuyerSegment `json:"segment"`
	PaymentMethod   PaymentMethod        `json:"payment_method"`
	ShippingAddress Address              `json:"shipping_address"`
	Lines           []OrderLine          `json:"lines"`
	Subtotal        valueobject.Money    `json:"subtotal"`
	Savings         valueobject.Money    `json:"savings"`
	Tax             valueobject.Money    `json:"tax"`
	Shipping        valueobject.Money    `json:"shipping"`
	GrandTotal      valueobject.Money    `json:"grand_total"`
	ItemCount       int64                `json:"item_count"`
	AssembledAt     time.Time            `json:"assembled_at"`
}

package cart

import (
	"github.com/google/uuid"
	"github.com/marketplace/storefront/domain/catalog"
	"github.com/marketplace/storefront/domain/shared"
	"github.com/marketplace/storefront/domain/shared/valueobject"
)

// Event types for cart domain events
const (
	EventTypeLineAdded           = "cart.line_added"
	EventTypeLineQuantityChanged = "cart.line_quantity_changed"
	EventTypeLineRemoved         = "cart.line_removed"
	EventTypeCartCleared         = "cart.cleared"
	EventTypeCartRepriced        = "cart.repriced"
)

const aggregateType = "Cart"

// LineAddedEvent is raised when a new line enters the cart
type LineAddedEvent struct {
	shared.BaseDomainEvent
	LineID    uuid.UUID         `json:"line_id"`
	ProductID uuid.UUID         `json:"product_id"`
	Quantity  int64             `json:"quantity"`
	UnitPrice valueobject.Money `json:"unit_price"`
}

// NewLineAddedEvent creates a LineAddedEvent
func NewLineAddedEvent(c *Cart, line *Line) *LineAddedEvent {
	return &LineAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLineAdded, c.ID, aggregateType),
		LineID:          line.ID,
		ProductID:       line.ProductID,
		Quantity:        line.Quantity,
		UnitPrice:       line.UnitPrice,
	}
}

// LineQuantityChangedEvent is raised when an existing line's quantity moves
type LineQuantityChangedEvent struct {
	shared.BaseDomainEvent
	LineID        uuid.UUID         `json:"line_id"`
	ProductID     uuid.UUID         `json:"product_id"`
	PriorQuantity int64             `json:"prior_quantity"`
	Quantity      int64             `json:"quantity"`
	UnitPrice     valueobject.Money `json:"unit_price"`
}

// NewLineQuantityChangedEvent creates a LineQuantityChangedEvent
func NewLineQuantityChangedEvent(c *Cart, line *Line, priorQuantity int64) *LineQuantityChangedEvent {
	return &LineQuantityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLineQuantityChanged, c.ID, aggregateType),
		LineID:          line.ID,
		ProductID:       line.ProductID,
		PriorQuantity:   priorQuantity,
		Quantity:        line.Quantity,
		UnitPrice:       line.UnitPrice,
	}
}

// LineRemovedEvent is raised when a line leaves the cart
type LineRemovedEvent struct {
	shared.BaseDomainEvent
	LineID    uuid.UUID `json:"line_id"`
	ProductID uuid.UUID `json:"product_id"`
}

// NewLineRemovedEvent creates a LineRemovedEvent
func NewLineRemovedEvent(c *Cart, line *Line) *LineRemovedEvent {
	return &LineRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLineRemoved, c.ID, aggregateType),
		LineID:          line.ID,
		ProductID:       line.ProductID,
	}
}

// CartClearedEvent is raised when the cart is emptied
type CartClearedEvent struct {
	shared.BaseDomainEvent
}

// NewCartClearedEvent creates a CartClearedEvent
func NewCartClearedEvent(c *Cart) *CartClearedEvent {
	return &CartClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartCleared, c.ID, aggregateType),
	}
}

// CartRepricedEvent is raised when the cart is repriced for a buyer segment
type CartRepricedEvent struct {
	shared.BaseDomainEvent
	Segment catalog.BuyerSegment `json:"segment"`
}

// NewCartRepricedEvent creates a CartRepricedEvent
func NewCartRepricedEvent(c *Cart, segment catalog.BuyerSegment) *CartRepricedEvent {
	return &CartRepricedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartRepriced, c.ID, aggregateType),
		Segment:         segment,
	}
}

// Package cart owns the mutable cart aggregate: line lifecycle, quantity
// invariant enforcement and derived totals. A cart belongs to exactly one
// buyer session; an internal mutex serializes mutations so hosts with more
// than one goroutine per session stay correct, and every read of derived
// totals is computed from a consistent snapshot.
package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/storefront/domain/catalog"
	"github.com/marketplace/storefront/domain/pricing"
	"github.com/marketplace/storefront/domain/shared"
	"github.com/marketplace/storefront/domain/shared/valueobject"
)

// Cart is the aggregate root for one buyer session's cart.
// Lines keep their insertion order.
type Cart struct {
	shared.BaseAggregateRoot

	mu       sync.Mutex
	segment  catalog.BuyerSegment
	currency valueobject.Currency
	lines    []*Line
}

// Totals is a consistent snapshot of the cart's derived figures
type Totals struct {
	Subtotal   valueobject.Money
	Savings    valueobject.Money
	Tax        valueobject.Money
	Shipping   valueobject.Money
	GrandTotal valueobject.Money
	ItemCount  int64
	LineCount  int
}

// NewCart creates an empty cart for the given buyer segment
func NewCart(segment catalog.BuyerSegment) (*Cart, error) {
	if !segment.IsValid() {
		return nil, shared.NewDomainError("INVALID_SEGMENT", "Unknown buyer segment")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		segment:           segment,
		currency:          valueobject.DefaultCurrency,
	}, nil
}

// Segment returns the buyer segment the cart currently prices against
func (c *Cart) Segment() catalog.BuyerSegment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.segment
}

// Add puts a product into the cart. A product already present merges: the
// requested quantity is added to the existing line and the unit price is
// recomputed at the new quantity, since the applicable tier may change.
// A new line starts at the clamped requested quantity, never below the
// minimum order quantity.
func (c *Cart) Add(p *catalog.Product, requested int64) (uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if requested <= 0 {
		return uuid.Nil, shared.ErrInvalidQuantity
	}
	if !pricing.Purchasable(p, c.segment) {
		return uuid.Nil, shared.ErrOutOfStock
	}
	if len(c.lines) > 0 && p.Currency() != c.currency {
		return uuid.Nil, shared.ErrCurrencyMismatch
	}

	if existing := c.findByProduct(p.ID); existing != nil {
		quantity, err := pricing.Clamp(existing.Quantity+requested, p, c.segment)
		if err != nil {
			return uuid.Nil, err
		}
		// Stock is not a pricing field; keep the snapshot's copy current so
		// later quantity clamps work against the freshest count seen.
		existing.Snapshot.AvailableStock = p.AvailableStock
		existing.Snapshot.Available = p.Available
		prior := existing.Quantity
		existing.Quantity = quantity
		if err := existing.reprice(c.segment); err != nil {
			existing.Quantity = prior
			return uuid.Nil, err
		}
		c.touch()
		c.AddDomainEvent(NewLineQuantityChangedEvent(c, existing, prior))
		return existing.ID, nil
	}

	quantity, err := pricing.Clamp(requested, p, c.segment)
	if err != nil {
		return uuid.Nil, err
	}
	quote, err := pricing.QuoteLine(p, c.segment, quantity)
	if err != nil {
		return uuid.Nil, err
	}

	now := time.Now()
	line := &Line{
		ID:          uuid.New(),
		ProductID:   p.ID,
		Snapshot:    snapshotProduct(p),
		Quantity:    quantity,
		UnitPrice:   quote.UnitPrice,
		AppliedRule: quote.AppliedRule,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	c.lines = append(c.lines, line)
	c.currency = p.Currency()
	c.touch()
	c.AddDomainEvent(NewLineAddedEvent(c, line))
	return line.ID, nil
}

// UpdateQuantity sets a line to the requested quantity, clamped to the
// valid range, and reprices it
func (c *Cart) UpdateQuantity(lineID uuid.UUID, requested int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if requested <= 0 {
		return shared.ErrInvalidQuantity
	}
	line := c.findByID(lineID)
	if line == nil {
		return shared.ErrLineNotFound
	}

	quantity, err := pricing.Clamp(requested, &line.Snapshot, c.segment)
	if err != nil {
		return err
	}
	return c.setQuantity(line, quantity)
}

// Increment moves a line up by one step (one minimum-order-quantity
// multiple), saturating at the available stock. At the ceiling it is a
// silent no-op.
func (c *Cart) Increment(lineID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	line := c.findByID(lineID)
	if line == nil {
		return shared.ErrLineNotFound
	}
	if !pricing.CanIncrement(line.Quantity, &line.Snapshot, c.segment) {
		return nil
	}

	quantity := line.Quantity + pricing.Step(&line.Snapshot, c.segment)
	if quantity > line.Snapshot.AvailableStock {
		quantity = line.Snapshot.AvailableStock
	}
	return c.setQuantity(line, quantity)
}

// Decrement moves a line down by one step. A decrement that would land
// below the minimum order quantity is a silent no-op; the line stays at its
// prior quantity. Removing a line is always an explicit Remove.
func (c *Cart) Decrement(lineID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	line := c.findByID(lineID)
	if line == nil {
		return shared.ErrLineNotFound
	}

	quantity := line.Quantity - pricing.Step(&line.Snapshot, c.segment)
	if quantity < pricing.MinimumOrderQuantity(&line.Snapshot, c.segment) {
		return nil
	}
	return c.setQuantity(line, quantity)
}

// Remove deletes a line from the cart
func (c *Cart) Remove(lineID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, line := range c.lines {
		if line.ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.touch()
			c.AddDomainEvent(NewLineRemovedEvent(c, line))
			return nil
		}
	}
	return shared.ErrLineNotFound
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return
	}
	c.lines = nil
	c.touch()
	c.AddDomainEvent(NewCartClearedEvent(c))
}

// ChangeSegment reprices every line against the new buyer segment, e.g.
// after a guest signs in to a wholesale account. Quantities are untouched,
// which keeps the operation idempotent; lines that no longer satisfy the
// new segment's minimums are caught by assembly-time re-validation.
func (c *Cart) ChangeSegment(segment catalog.BuyerSegment) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !segment.IsValid() {
		return shared.NewDomainError("INVALID_SEGMENT", "Unknown buyer segment")
	}

	// Quote everything first so a failure leaves the cart untouched.
	quotes := make([]pricing.Quote, len(c.lines))
	for i, line := range c.lines {
		quote, err := pricing.QuoteLine(&line.Snapshot, segment, line.Quantity)
		if err != nil {
			return err
		}
		quotes[i] = quote
	}

	changed := c.segment != segment
	for i, line := range c.lines {
		if line.UnitPrice.Equals(quotes[i].UnitPrice) && line.AppliedRule == quotes[i].AppliedRule {
			continue
		}
		line.UnitPrice = quotes[i].UnitPrice
		line.AppliedRule = quotes[i].AppliedRule
		line.UpdatedAt = time.Now()
		changed = true
	}
	c.segment = segment
	if changed {
		c.touch()
		c.AddDomainEvent(NewCartRepricedEvent(c, segment))
	}
	return nil
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	for i, line := range c.lines {
		out[i] = *line
	}
	return out
}

// LineForProduct returns the line holding the given product, if present
func (c *Cart) LineForProduct(productID uuid.UUID) (Line, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if line := c.findByProduct(productID); line != nil {
		return *line, true
	}
	return Line{}, false
}

// IsEmpty returns true when the cart holds no lines
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// ItemCount returns the total number of units across all lines
func (c *Cart) ItemCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemCount()
}

// Subtotal returns the sum of line totals
func (c *Cart) Subtotal() valueobject.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotal()
}

// TotalSavings returns the summed per-line savings against retail, each
// clamped to zero. Mostly meaningful for wholesale buyers but defined for
// every segment.
func (c *Cart) TotalSavings() valueobject.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalSavings()
}

// GrandTotal returns subtotal plus externally supplied tax and shipping
func (c *Cart) GrandTotal(tax, shipping valueobject.Money) (valueobject.Money, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grandTotal(tax, shipping)
}

// Totals computes every derived figure under one lock acquisition, so no
// mutation can be observed partially applied across the fields
func (c *Cart) Totals(tax, shipping valueobject.Money) (Totals, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	grand, err := c.grandTotal(tax, shipping)
	if err != nil {
		return Totals{}, err
	}
	return Totals{
		Subtotal:   c.subtotal(),
		Savings:    c.totalSavings(),
		Tax:        tax,
		Shipping:   shipping,
		GrandTotal: grand,
		ItemCount:  c.itemCount(),
		LineCount:  len(c.lines),
	}, nil
}

func (c *Cart) setQuantity(line *Line, quantity int64) error {
	if quantity == line.Quantity {
		return nil
	}
	prior := line.Quantity
	line.Quantity = quantity
	if err := line.reprice(c.segment); err != nil {
		line.Quantity = prior
		return err
	}
	c.touch()
	c.AddDomainEvent(NewLineQuantityChangedEvent(c, line, prior))
	return nil
}

func (c *Cart) findByID(lineID uuid.UUID) *Line {
	for _, line := range c.lines {
		if line.ID == lineID {
			return line
		}
	}
	return nil
}

func (c *Cart) findByProduct(productID uuid.UUID) *Line {
	for _, line := range c.lines {
		if line.ProductID == productID {
			return line
		}
	}
	return nil
}

func (c *Cart) subtotal() valueobject.Money {
	total := valueobject.Zero(c.currency)
	for _, line := range c.lines {
		total = total.MustAdd(line.Total())
	}
	return total
}

func (c *Cart) totalSavings() valueobject.Money {
	total := valueobject.Zero(c.currency)
	for _, line := range c.lines {
		total = total.MustAdd(line.Savings())
	}
	return total
}

func (c *Cart) grandTotal(tax, shipping valueobject.Money) (valueobject.Money, error) {
	total, err := c.subtotal().Add(tax)
	if err != nil {
		return valueobject.Money{}, shared.ErrCurrencyMismatch
	}
	total, err = total.Add(shipping)
	if err != nil {
		return valueobject.Money{}, shared.ErrCurrencyMismatch
	}
	return total, nil
}

func (c *Cart) itemCount() int64 {
	var count int64
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

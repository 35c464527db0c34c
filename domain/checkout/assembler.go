// Package checkout converts a validated cart into an immutable order
// submission payload, re-validating every line against current catalog
// state immediately before submission.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/marketplace/storefront/domain/cart"
	"github.com/marketplace/storefront/domain/catalog"
	"github.com/marketplace/storefront/domain/pricing"
	"github.com/marketplace/storefront/domain/shared"
	"github.com/marketplace/storefront/domain/shared/valueobject"
)

// LineFailure records why one cart line failed assembly-time re-validation
type LineFailure struct {
	LineID    uuid.UUID
	ProductID uuid.UUID
	Reason    *shared.DomainError
}

// AssemblyError aggregates every line that failed re-validation. The whole
// assembly fails; the caller must resolve all failures before retrying.
type AssemblyError struct {
	Failures []LineFailure
}

// Error implements the error interface
func (e *AssemblyError) Error() string {
	reasons := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		reasons[i] = fmt.Sprintf("line %s: %s", f.LineID, f.Reason.Code)
	}
	return "cart failed re-validation: " + strings.Join(reasons, "; ")
}

// Assembler builds order requests from carts. Re-validation reads current
// product state through the catalog repository: a cart built minutes
// earlier may no longer satisfy stock or minimum constraints.
type Assembler struct {
	products catalog.ProductRepository
	validate *validator.Validate
}

// NewAssembler creates an Assembler that re-validates lines against the
// given catalog repository
func NewAssembler(products catalog.ProductRepository) *Assembler {
	return &Assembler{
		products: products,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Assemble re-validates the cart and freezes it into an OrderRequest.
// Tax and shipping are supplied by external collaborators; the resulting
// grand total always equals the cart's grand total at this moment.
func (a *Assembler) Assemble(
	ctx context.Context,
	c *cart.Cart,
	buyer BuyerInfo,
	payment PaymentMethod,
	address *Address,
	tax, shipping valueobject.Money,
) (*OrderRequest, error) {
	if c.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}
	if address == nil {
		return nil, shared.ErrMissingAddress
	}
	segment := c.Segment()
	if segment.RequiresAccountForCheckout() {
		return nil, shared.ErrGuestCheckout
	}
	if !payment.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if err := a.validate.Struct(buyer); err != nil {
		return nil, shared.NewDomainError("INVALID_BUYER", err.Error())
	}

	lines := c.Lines()
	var failures []LineFailure
	orderLines := make([]OrderLine, 0, len(lines))
	for _, line := range lines {
		current, err := a.products.FindByID(ctx, line.ProductID)
		if err != nil {
			failures = append(failures, LineFailure{
				LineID:    line.ID,
				ProductID: line.ProductID,
				Reason:    shared.ErrProductUnavailable,
			})
			continue
		}
		if err := pricing.ValidateLine(current, segment, line.Quantity); err != nil {
			reason, ok := err.(*shared.DomainError)
			if !ok {
				reason = shared.NewDomainError("VALIDATION_FAILED", err.Error())
			}
			failures = append(failures, LineFailure{
				LineID:    line.ID,
				ProductID: line.ProductID,
				Reason:    reason,
			})
			continue
		}
		orderLines = append(orderLines, OrderLine{
			LineID:      line.ID,
			ProductID:   line.ProductID,
			SKU:         line.Snapshot.SKU,
			Name:        line.Snapshot.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.Total(),
			AppliedRule: line.AppliedRule,
		})
	}
	if len(failures) > 0 {
		return nil, &AssemblyError{Failures: failures}
	}

	totals, err := c.Totals(tax, shipping)
	if err != nil {
		return nil, err
	}

	return &OrderRequest{
		ID:              uuid.New(),
		Buyer:           buyer,
		Segment:         segment,
		PaymentMethod:   payment,
		ShippingAddress: *address,
		Lines:           orderLines,
		Subtotal:        totals.Subtotal,
		Savings:         totals.Savings,
		Tax:             totals.Tax,
		Shipping:        totals.Shipping,
		GrandTotal:      totals.GrandTotal,
		ItemCount:       totals.ItemCount,
		AssembledAt:     time.Now(),
	}, nil
}

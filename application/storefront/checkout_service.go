package storefront

import (
	"context"

	"github.com/marketplace/storefront/domain/catalog"
	"github.com/marketplace/storefront/domain/checkout"
	"github.com/marketplace/storefront/domain/shared/valueobject"
	"github.com/marketplace/storefront/telemetry"
	"go.uber.org/zap"
)

// CheckoutService turns a session's cart into an order submission payload
type CheckoutService struct {
	carts     *CartService
	assembler *checkout.Assembler
	logger    *zap.Logger
	metrics   *telemetry.StorefrontMetrics
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(carts *CartService, products catalog.ProductRepository, logger *zap.Logger, metrics *telemetry.StorefrontMetrics) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics, _ = telemetry.NewStorefrontMetrics(nil)
	}
	return &CheckoutService{
		carts:     carts,
		assembler: checkout.NewAssembler(products),
		logger:    logger,
		metrics:   metrics,
	}
}

// PlaceOrder assembles the session's cart into an OrderRequest and clears
// the cart on success. The request is returned directly to the caller, who
// hands it to the order-submission collaborator and the confirmation
// screen.
func (s *CheckoutService) PlaceOrder(
	ctx context.Context,
	sessionID string,
	buyer checkout.BuyerInfo,
	payment checkout.PaymentMethod,
	address *checkout.Address,
	tax, shipping valueobject.Money,
) (*checkout.OrderRequest, error) {
	c, err := s.carts.Cart(sessionID)
	if err != nil {
		return nil, err
	}

	order, err := s.assembler.Assemble(ctx, c, buyer, payment, address, tax, shipping)
	if err != nil {
		s.logger.Warn("order assembly failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, err
	}

	c.Clear()
	s.carts.drainEvents(c)

	s.logger.Info("order assembled",
		zap.String("session_id", sessionID),
		zap.String("order_id", order.ID.String()),
		zap.Int("lines", len(order.Lines)),
		zap.Int64("item_count", order.ItemCount),
		zap.String("grand_total", order.GrandTotal.String()))
	s.metrics.RecordOrderAssembled(ctx,
		order.Segment.String(),
		order.GrandTotal.Float64(),
		string(order.GrandTotal.Currency()))

	return order, nil
}

// Package storefront is the application layer over the pricing, cart and
// checkout domains: per-session cart management, view mapping, logging and
// metrics.
package storefront

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/marketplace/storefront/domain/cart"
	"github.com/marketplace/storefront/domain/catalog"
	"github.com/marketplace/storefront/domain/shared"
	"github.com/marketplace/storefront/domain/shared/valueobject"
	"github.com/marketplace/storefront/telemetry"
	"go.uber.org/zap"
)

// ErrCartNotFound is returned when a session has no cart yet
var ErrCartNotFound = shared.NewDomainError("CART_NOT_FOUND", "No cart exists for this session")

// CartService manages one cart per buyer session and mediates every cart
// mutation. Mutations on one cart are serialized by the cart itself; the
// service only synchronizes the session registry.
type CartService struct {
	products  catalog.ProductRepository
	logger    *zap.Logger
	metrics   *telemetry.StorefrontMetrics
	publisher shared.EventPublisher

	mu    sync.RWMutex
	carts map[string]*cart.Cart
}

// NewCartService creates a new CartService
func NewCartService(products catalog.ProductRepository, logger *zap.Logger, metrics *telemetry.StorefrontMetrics) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics, _ = telemetry.NewStorefrontMetrics(nil)
	}
	return &CartService{
		products: products,
		logger:   logger,
		metrics:  metrics,
		carts:    make(map[string]*cart.Cart),
	}
}

// SetEventPublisher sets the publisher that receives cart domain events
func (s *CartService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// EnsureCart returns the session's cart, creating an empty one for the
// given segment if none exists yet
func (s *CartService) EnsureCart(sessionID string, segment catalog.BuyerSegment) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[sessionID]; ok {
		return c, nil
	}
	c, err := cart.NewCart(segment)
	if err != nil {
		return nil, err
	}
	s.carts[sessionID] = c
	return c, nil
}

// Cart returns the session's cart or ErrCartNotFound
func (s *CartService) Cart(sessionID string) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return c, nil
}

// DropCart removes the session's cart entirely, e.g. when a session ends
func (s *CartService) DropCart(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// AddToCart resolves the product's current catalog state and adds the
// requested quantity to the session's cart
func (s *CartService) AddToCart(ctx context.Context, sessionID string, segment catalog.BuyerSegment, productID uuid.UUID, quantity int64) (uuid.UUID, error) {
	c, err := s.EnsureCart(sessionID, segment)
	if err != nil {
		return uuid.Nil, err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		s.logger.Warn("product lookup failed",
			zap.String("session_id", sessionID),
			zap.String("product_id", productID.String()),
			zap.Error(err))
		return uuid.Nil, shared.ErrProductUnavailable
	}

	lineID, err := c.Add(product, quantity)
	if err != nil {
		s.reject(ctx, "add", err, sessionID)
		return uuid.Nil, err
	}

	s.logger.Info("line added to cart",
		zap.String("session_id", sessionID),
		zap.String("line_id", lineID.String()),
		zap.String("product_id", productID.String()),
		zap.Int64("requested_quantity", quantity))
	s.metrics.RecordCartMutation(ctx, "add", c.Segment().String())
	s.drainEvents(c)
	return lineID, nil
}

// UpdateQuantity sets a line's quantity on the session's cart
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, lineID uuid.UUID, quantity int64) error {
	return s.mutate(ctx, sessionID, "update_quantity", func(c *cart.Cart) error {
		return c.UpdateQuantity(lineID, quantity)
	})
}

// Increment moves a line up by one step
func (s *CartService) Increment(ctx context.Context, sessionID string, lineID uuid.UUID) error {
	return s.mutate(ctx, sessionID, "increment", func(c *cart.Cart) error {
		return c.Increment(lineID)
	})
}

// Decrement moves a line down by one step
func (s *CartService) Decrement(ctx context.Context, sessionID string, lineID uuid.UUID) error {
	return s.mutate(ctx, sessionID, "decrement", func(c *cart.Cart) error {
		return c.Decrement(lineID)
	})
}

// RemoveLine deletes a line from the session's cart
func (s *CartService) RemoveLine(ctx context.Context, sessionID string, lineID uuid.UUID) error {
	return s.mutate(ctx, sessionID, "remove", func(c *cart.Cart) error {
		return c.Remove(lineID)
	})
}

// ClearCart empties the session's cart
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	return s.mutate(ctx, sessionID, "clear", func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// ChangeSegment reprices the session's cart for a new buyer segment, e.g.
// after sign-in
func (s *CartService) ChangeSegment(ctx context.Context, sessionID string, segment catalog.BuyerSegment) error {
	return s.mutate(ctx, sessionID, "change_segment", func(c *cart.Cart) error {
		return c.ChangeSegment(segment)
	})
}

// View returns the session's cart in its rendering shape. Tax and shipping
// come from external collaborators.
func (s *CartService) View(ctx context.Context, sessionID string, tax, shipping valueobject.Money) (CartView, error) {
	c, err := s.Cart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	return ToCartView(c, tax, shipping)
}

func (s *CartService) mutate(ctx context.Context, sessionID, operation string, fn func(c *cart.Cart) error) error {
	c, err := s.Cart(sessionID)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		s.reject(ctx, operation, err, sessionID)
		return err
	}
	s.metrics.RecordCartMutation(ctx, operation, c.Segment().String())
	s.drainEvents(c)
	return nil
}

func (s *CartService) reject(ctx context.Context, operation string, err error, sessionID string) {
	reason := "error"
	if derr, ok := err.(*shared.DomainError); ok {
		reason = derr.Code
	}
	s.logger.Warn("cart mutation rejected",
		zap.String("session_id", sessionID),
		zap.String("operation", operation),
		zap.String("reason", reason))
	s.metrics.RecordCartRejection(ctx, operation, reason)
}

func (s *CartService) drainEvents(c *cart.Cart) {
	if s.publisher == nil {
		c.ClearDomainEvents()
		return
	}
	events := c.GetDomainEvents()
	c.ClearDomainEvents()
	if len(events) > 0 {
		s.publisher.Publish(events...)
	}
}

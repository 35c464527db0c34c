package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository supplies current product state from the external
// catalog service. Implementations live outside the engine; the engine only
// reads through this port.
type ProductRepository interface {
	// FindByID returns the product's current catalog state
	FindByID(ctx context.Context, productID uuid.UUID) (*Product, error)
}

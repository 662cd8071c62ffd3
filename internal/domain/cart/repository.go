package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID loads a cart with its items and their product summaries
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)
	Create(ctx context.Context, cart *Cart) error
	// Delete removes a cart and its items
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// FindItems lists the lines of a cart
	FindItems(ctx context.Context, cartID uuid.UUID) ([]CartItem, error)
	// FindItem loads a line that belongs to the cart
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*CartItem, error)
	// MergeItem inserts the line or adds its quantity to the existing line for
	// the same product in one statement, and returns the stored line.
	MergeItem(ctx context.Context, item *CartItem) (*CartItem, error)
	// UpdateItem persists a quantity change
	UpdateItem(ctx context.Context, item *CartItem) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
}

package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Order filter keys
const (
	FilterCustomerID    = "customer_id"
	FilterPaymentStatus = "payment_status"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindAll lists orders with their items, newest first unless the filter says otherwise
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Create stores the order and all its items
	Create(ctx context.Context, order *Order) error
	// UpdatePaymentStatus persists a status change guarded by the version
	UpdatePaymentStatus(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountByCustomer counts orders placed by a customer
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}

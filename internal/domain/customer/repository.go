package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Customer filter keys
const (
	FilterMembership = "membership"
	FilterNamePrefix = "name__istartswith"
)

// CustomerRepository defines the interface for customer persistence.
// Reads load the address and fill OrdersCount.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Customer, error)
	// FindByEmail matches the email case-insensitively
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save creates or updates the customer, address included.
	// A taken email or user link is ErrAlreadyExists.
	Save(ctx context.Context, customer *Customer) error
	// Delete removes the customer and its address
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
}

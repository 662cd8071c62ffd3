package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByUsername finds a user by lower-cased username
	FindByUsername(ctx context.Context, username string) (*User, error)
	// Save creates or updates a user; a taken username or email is ErrAlreadyExists
	Save(ctx context.Context, user *User) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

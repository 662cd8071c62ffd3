package catalog

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Review is a customer opinion attached to a product
type Review struct {
	shared.BaseEntity
	ProductID   uuid.UUID
	Name        string
	Description string
	Date        time.Time
}

// NewReview creates a review for a product
func NewReview(productID uuid.UUID, name, description string) (*Review, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Review must reference a product")
	}
	if err := validateReview(name, description); err != nil {
		return nil, err
	}
	base := shared.NewBaseEntity()
	return &Review{
		BaseEntity:  base,
		ProductID:   productID,
		Name:        name,
		Description: description,
		Date:        base.CreatedAt.Truncate(24 * time.Hour),
	}, nil
}

// Update edits the review text
func (r *Review) Update(name, description string) error {
	if err := validateReview(name, description); err != nil {
		return err
	}
	r.Name = name
	r.Description = description
	r.UpdatedAt = shared.Now()
	return nil
}

func validateReview(name, description string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Reviewer name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Reviewer name cannot exceed 255 characters")
	}
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Review description cannot be empty")
	}
	return nil
}

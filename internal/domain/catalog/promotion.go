package catalog

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// Promotion is a time-boxed percentage discount that products can join
type Promotion struct {
	shared.BaseAggregateRoot
	Description string
	Discount    float64
	StartDate   time.Time
	EndDate     time.Time
}

// NewPromotion creates a new promotion
func NewPromotion(description string, discount float64, start, end time.Time) (*Promotion, error) {
	if err := validatePromotion(description, discount, start, end); err != nil {
		return nil, err
	}
	return &Promotion{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Description:       description,
		Discount:          discount,
		StartDate:         start,
		EndDate:           end,
	}, nil
}

// Update replaces the promotion terms
func (p *Promotion) Update(description string, discount float64, start, end time.Time) error {
	if err := validatePromotion(description, discount, start, end); err != nil {
		return err
	}
	p.Description = description
	p.Discount = discount
	p.StartDate = start
	p.EndDate = end
	p.Touch()
	return nil
}

// IsActive reports whether now falls inside the promotion window
func (p *Promotion) IsActive(now time.Time) bool {
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}

func validatePromotion(description string, discount float64, start, end time.Time) error {
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Promotion description cannot be empty")
	}
	if len(description) > 255 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Promotion description cannot exceed 255 characters")
	}
	if discount <= 0 || discount > 100 {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be greater than 0 and at most 100")
	}
	if !end.After(start) {
		return shared.NewDomainError("INVALID_PERIOD", "Promotion end date must be after its start date")
	}
	return nil
}

package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// PromotionService manages promotions
type PromotionService struct {
	promotions catalog.PromotionRepository
}

// NewPromotionService creates a new PromotionService
func NewPromotionService(promotions catalog.PromotionRepository) *PromotionService {
	return &PromotionService{promotions: promotions}
}

// List returns a page of promotions, newest start date first
func (s *PromotionService) List(ctx context.Context, page, pageSize int) (*shared.Paginated[PromotionResponse], error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	filter := shared.PageFilter(page, pageSize)
	promotions, err := s.promotions.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.promotions.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := shared.Now()
	items := make([]PromotionResponse, len(promotions))
	for i := range promotions {
		items[i] = ToPromotionResponse(&promotions[i], now)
	}
	result := shared.NewPaginated(items, total, filter.Page(), pageSize)
	return &result, nil
}

// GetByID returns one promotion
func (s *PromotionService) GetByID(ctx context.Context, id uuid.UUID) (*PromotionResponse, error) {
	promotion, err := s.promotions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToPromotionResponse(promotion, shared.Now())
	return &out, nil
}

// Create creates a promotion
func (s *PromotionService) Create(ctx context.Context, req PromotionRequest) (*PromotionResponse, error) {
	promotion, err := catalog.NewPromotion(req.Description, req.Discount, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.promotions.Save(ctx, promotion); err != nil {
		return nil, err
	}
	out := ToPromotionResponse(promotion, shared.Now())
	return &out, nil
}

// Update replaces a promotion's fields
func (s *PromotionService) Update(ctx context.Context, id uuid.UUID, req PromotionRequest) (*PromotionResponse, error) {
	promotion, err := s.promotions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := promotion.Update(req.Description, req.Discount, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := s.promotions.Save(ctx, promotion); err != nil {
		return nil, err
	}
	out := ToPromotionResponse(promotion, shared.Now())
	return &out, nil
}

// Delete removes a promotion; product links go with it
func (s *PromotionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.promotions.Delete(ctx, id)
}

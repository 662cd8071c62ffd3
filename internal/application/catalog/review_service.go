package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// ReviewService manages the reviews nested under a product
type ReviewService struct {
	reviews  catalog.ReviewRepository
	products catalog.ProductRepository
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviews catalog.ReviewRepository, products catalog.ProductRepository) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

// List returns a page of one product's reviews
func (s *ReviewService) List(ctx context.Context, productID uuid.UUID, page, pageSize int) (*shared.Paginated[ReviewResponse], error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	filter := shared.PageFilter(page, pageSize)
	reviews, err := s.reviews.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.reviews.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		items[i] = ToReviewResponse(&reviews[i])
	}
	result := shared.NewPaginated(items, total, filter.Page(), pageSize)
	return &result, nil
}

// GetByID returns a review of the product
func (s *ReviewService) GetByID(ctx context.Context, productID, id uuid.UUID) (*ReviewResponse, error) {
	review, err := s.reviews.FindByID(ctx, productID, id)
	if err != nil {
		return nil, err
	}
	out := ToReviewResponse(review)
	return &out, nil
}

// Create adds a review to an existing product
func (s *ReviewService) Create(ctx context.Context, productID uuid.UUID, req ReviewRequest) (*ReviewResponse, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	review, err := catalog.NewReview(productID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	out := ToReviewResponse(review)
	return &out, nil
}

// Update edits a review of the product
func (s *ReviewService) Update(ctx context.Context, productID, id uuid.UUID, req ReviewRequest) (*ReviewResponse, error) {
	review, err := s.reviews.FindByID(ctx, productID, id)
	if err != nil {
		return nil, err
	}
	if err := review.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	out := ToReviewResponse(review)
	return &out, nil
}

// Delete removes a review of the product
func (s *ReviewService) Delete(ctx context.Context, productID, id uuid.UUID) error {
	return s.reviews.Delete(ctx, productID, id)
}

func (s *ReviewService) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	exists, err := s.products.ExistsByID(ctx, productID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}
	return nil
}

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID finds a review scoped to its product
func (r *GormReviewRepository) FindByID(ctx context.Context, productID, id uuid.UUID) (*catalog.Review, error) {
	var model models.ReviewModel
	if err := conn(ctx, r.db).Where("product_id = ? AND id = ?", productID, id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProduct lists the reviews of a product, newest first
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]catalog.Review, error) {
	query := conn(ctx, r.db).Where("product_id = ?", productID).Order("created_at DESC").Order("id ASC")

	var rows []models.ReviewModel
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	reviews := make([]catalog.Review, len(rows))
	for i := range rows {
		reviews[i] = *rows[i].ToDomain()
	}
	return reviews, nil
}

// CountByProduct counts the reviews of a product
func (r *GormReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.ReviewModel{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, review *catalog.Review) error {
	return conn(ctx, r.db).Save(models.ReviewModelFromDomain(review)).Error
}

// Delete removes a review of the given product
func (r *GormReviewRepository) Delete(ctx context.Context, productID, id uuid.UUID) error {
	result := conn(ctx, r.db).Where("product_id = ? AND id = ?", productID, id).Delete(&models.ReviewModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormReviewRepository implements ReviewRepository
var _ catalog.ReviewRepository = (*GormReviewRepository)(nil)

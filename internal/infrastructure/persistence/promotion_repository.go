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

// GormPromotionRepository implements PromotionRepository using GORM
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// FindByID finds a promotion by its ID
func (r *GormPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Promotion, error) {
	var model models.PromotionModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the promotions with the given IDs; unknown ids are skipped
func (r *GormPromotionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Promotion, error) {
	if len(ids) == 0 {
		return []catalog.Promotion{}, nil
	}
	var rows []models.PromotionModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPromotions(rows), nil
}

// FindAll finds all promotions
func (r *GormPromotionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Promotion, error) {
	query := r.applyFilter(conn(ctx, r.db).Model(&models.PromotionModel{}), filter)
	query = orderBy(query, filter, PromotionSortFields, "start_date", "DESC", "id")

	var rows []models.PromotionModel
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPromotions(rows), nil
}

// Count counts promotions matching the filter
func (r *GormPromotionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(conn(ctx, r.db).Model(&models.PromotionModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a promotion
func (r *GormPromotionRepository) Save(ctx context.Context, promotion *catalog.Promotion) error {
	return conn(ctx, r.db).Save(models.PromotionModelFromDomain(promotion)).Error
}

// Delete removes a promotion and its product links
func (r *GormPromotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("promotion_id = ?", id).Delete(&models.ProductPromotionModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.PromotionModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormPromotionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(description) LIKE ? ESCAPE '\\'", containsPattern(filter.Search))
	}
	return query
}

func toPromotions(rows []models.PromotionModel) []catalog.Promotion {
	promotions := make([]catalog.Promotion, len(rows))
	for i := range rows {
		promotions[i] = *rows[i].ToDomain()
	}
	return promotions
}

// Ensure GormPromotionRepository implements PromotionRepository
var _ catalog.PromotionRepository = (*GormPromotionRepository)(nil)

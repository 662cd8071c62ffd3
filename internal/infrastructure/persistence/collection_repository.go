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

const collectionSelect = "collections.*, (SELECT COUNT(*) FROM products WHERE products.collection_id = collections.id) AS products_count"

// GormCollectionRepository implements CollectionRepository using GORM
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewGormCollectionRepository creates a new GormCollectionRepository
func NewGormCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// FindByID finds a collection by its ID, products_count included
func (r *GormCollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Collection, error) {
	var model models.CollectionModel
	err := conn(ctx, r.db).Model(&models.CollectionModel{}).
		Select(collectionSelect).
		Where("collections.id = ?", id).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all collections matching the filter
func (r *GormCollectionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Collection, error) {
	query := r.applyFilter(conn(ctx, r.db).Model(&models.CollectionModel{}).Select(collectionSelect), filter)
	query = orderBy(query, filter, CollectionSortFields, "collections.title", "ASC", "collections.id")

	var rows []models.CollectionModel
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	collections := make([]catalog.Collection, len(rows))
	for i := range rows {
		collections[i] = *rows[i].ToDomain()
	}
	return collections, nil
}

// Count counts collections matching the filter
func (r *GormCollectionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(conn(ctx, r.db).Model(&models.CollectionModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a collection
func (r *GormCollectionRepository) Save(ctx context.Context, collection *catalog.Collection) error {
	return conn(ctx, r.db).Save(models.CollectionModelFromDomain(collection)).Error
}

// Delete removes a collection. Collections that still hold products are protected.
func (r *GormCollectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		var products int64
		if err := tx.Model(&models.ProductModel{}).Where("collection_id = ?", id).Count(&products).Error; err != nil {
			return err
		}
		if products > 0 {
			return shared.NewProtectedError("Collection cannot be deleted because it has an association with products")
		}
		result := tx.Delete(&models.CollectionModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsByID checks whether a collection exists
func (r *GormCollectionRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.CollectionModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormCollectionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(collections.title) LIKE ? ESCAPE '\\'", containsPattern(filter.Search))
	}
	if title, ok := filterString(filter, catalog.FilterTitleIExact); ok {
		query = query.Where("LOWER(collections.title) = LOWER(?)", title)
	}
	return query
}

// Ensure GormCollectionRepository implements CollectionRepository
var _ catalog.CollectionRepository = (*GormCollectionRepository)(nil)

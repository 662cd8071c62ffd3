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

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	products, err := r.withPromotions(ctx, []models.ProductModel{model})
	if err != nil {
		return nil, err
	}
	return &products[0], nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withPromotions(ctx, rows)
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	query := r.applyFilter(conn(ctx, r.db).Model(&models.ProductModel{}), filter)
	query = orderBy(query, filter, ProductSortFields, "products.title", "ASC", "products.id")

	var rows []models.ProductModel
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withPromotions(ctx, rows)
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(conn(ctx, r.db).Model(&models.ProductModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a product and replaces its promotion links
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Save(models.ProductModelFromDomain(product)).Error; err != nil {
			if IsDuplicate(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductPromotionModel{}).Error; err != nil {
			return err
		}
		if len(product.PromotionIDs) == 0 {
			return nil
		}
		links := make([]models.ProductPromotionModel, 0, len(product.PromotionIDs))
		for _, pid := range product.PromotionIDs {
			links = append(links, models.ProductPromotionModel{ProductID: product.ID, PromotionID: pid})
		}
		return tx.Create(&links).Error
	})
}

// Delete removes a product together with the rows that cascade from it
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		var orderItems int64
		if err := tx.Model(&models.OrderItemModel{}).Where("product_id = ?", id).Count(&orderItems).Error; err != nil {
			return err
		}
		if orderItems > 0 {
			return shared.NewProtectedError("Product cannot be deleted because it has an association with order")
		}

		cascades := []struct {
			model any
			where string
			args  []any
		}{
			{&models.CartItemModel{}, "product_id = ?", []any{id}},
			{&models.ReviewModel{}, "product_id = ?", []any{id}},
			{&models.ProductPromotionModel{}, "product_id = ?", []any{id}},
			{&models.TaggedItemModel{}, "content_type = ? AND object_id = ?", []any{catalog.ContentTypeProduct, id}},
			{&models.ProductImageModel{}, "product_id = ?", []any{id}},
		}
		for _, c := range cascades {
			if err := tx.Where(c.where, c.args...).Delete(c.model).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.CollectionModel{}).
			Where("featured_product_id = ?", id).
			Update("featured_product_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.ProductModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsByID checks whether a product exists
func (r *GormProductRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.ProductModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CountOrderItems counts order lines that reference the product
func (r *GormProductRepository) CountOrderItems(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.OrderItemModel{}).Where("product_id = ?", id).Count(&count).Error
	return count, err
}

// applyFilter applies search and field filters to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where("LOWER(products.title) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(products.description, '')) LIKE ? ESCAPE '\\'", pattern, pattern)
	}
	if id, ok := filterUUID(filter, catalog.FilterCollectionID); ok {
		query = query.Where("products.collection_id = ?", id)
	}
	if price, ok := filterDecimal(filter, catalog.FilterPriceGT); ok {
		query = query.Where("products.unit_price > ?", price)
	}
	if price, ok := filterDecimal(filter, catalog.FilterPriceLTE); ok {
		query = query.Where("products.unit_price <= ?", price)
	}
	if prefix, ok := filterString(filter, catalog.FilterTitlePrefix); ok {
		query = query.Where("LOWER(products.title) LIKE ? ESCAPE '\\'", prefixPattern(prefix))
	}
	return query
}

// withPromotions converts rows to domain products and attaches promotion ids
func (r *GormProductRepository) withPromotions(ctx context.Context, rows []models.ProductModel) ([]catalog.Product, error) {
	products := make([]catalog.Product, len(rows))
	if len(rows) == 0 {
		return products, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}

	var links []models.ProductPromotionModel
	if err := conn(ctx, r.db).Where("product_id IN ?", ids).Order("promotion_id").Find(&links).Error; err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID][]uuid.UUID, len(rows))
	for _, l := range links {
		byProduct[l.ProductID] = append(byProduct[l.ProductID], l.PromotionID)
	}

	for i := range rows {
		p := rows[i].ToDomain()
		if pids, ok := byProduct[p.ID]; ok {
			p.PromotionIDs = pids
		}
		products[i] = *p
	}
	return products, nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)

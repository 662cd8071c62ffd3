package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const cartItemSelect = "cart_items.*, products.title AS product_title, products.unit_price AS product_unit_price"

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByID loads a cart with its items
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	var model models.CartModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	items, err := r.FindItems(ctx, id)
	if err != nil {
		return nil, err
	}
	c := model.ToDomain()
	c.Items = items
	return c, nil
}

// Create stores a new empty cart
func (r *GormCartRepository) Create(ctx context.Context, c *cart.Cart) error {
	return conn(ctx, r.db).Create(models.CartModelFromDomain(c)).Error
}

// Delete removes a cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CartModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsByID checks whether a cart exists
func (r *GormCartRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.CartModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// FindItems lists the lines of a cart with their product summaries
func (r *GormCartRepository) FindItems(ctx context.Context, cartID uuid.UUID) ([]cart.CartItem, error) {
	var rows []models.CartItemRow
	err := r.itemQuery(ctx).
		Where("cart_items.cart_id = ?", cartID).
		Order("cart_items.created_at ASC").
		Order("cart_items.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	items := make([]cart.CartItem, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

// FindItem loads a line that belongs to the cart
func (r *GormCartRepository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*cart.CartItem, error) {
	return r.findItemWhere(ctx, "cart_items.cart_id = ? AND cart_items.id = ?", cartID, itemID)
}

// MergeItem upserts the line keyed by (cart_id, product_id), adding quantities on conflict
func (r *GormCartRepository) MergeItem(ctx context.Context, item *cart.CartItem) (*cart.CartItem, error) {
	model := models.CartItemModelFromDomain(item)
	err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
			"updated_at": gorm.Expr("EXCLUDED.updated_at"),
		}),
	}).Create(model).Error
	if err != nil {
		return nil, err
	}
	return r.findItemWhere(ctx, "cart_items.cart_id = ? AND cart_items.product_id = ?", item.CartID, item.ProductID)
}

// UpdateItem persists the quantity of a line
func (r *GormCartRepository) UpdateItem(ctx context.Context, item *cart.CartItem) error {
	result := conn(ctx, r.db).Model(&models.CartItemModel{}).
		Where("cart_id = ? AND id = ?", item.CartID, item.ID).
		Updates(map[string]any{"quantity": item.Quantity, "updated_at": item.UpdatedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteItem removes a line of the cart
func (r *GormCartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	result := conn(ctx, r.db).Where("cart_id = ? AND id = ?", cartID, itemID).Delete(&models.CartItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormCartRepository) itemQuery(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Model(&models.CartItemModel{}).
		Select(cartItemSelect).
		Joins("JOIN products ON products.id = cart_items.product_id")
}

func (r *GormCartRepository) findItemWhere(ctx context.Context, where string, args ...any) (*cart.CartItem, error) {
	var rows []models.CartItemRow
	if err := r.itemQuery(ctx).Where(where, args...).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	item := rows[0].ToDomain()
	return &item, nil
}

// Ensure GormCartRepository implements CartRepository
var _ cart.CartRepository = (*GormCartRepository)(nil)

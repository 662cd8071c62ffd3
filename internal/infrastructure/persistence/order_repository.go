package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID loads an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	orders, err := r.withItems(ctx, []models.OrderModel{model})
	if err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// FindAll lists orders matching the filter, newest first by default
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	query := r.applyFilter(conn(ctx, r.db).Model(&models.OrderModel{}), filter)
	query = orderBy(query, filter, OrderSortFields, "orders.placed_at", "DESC", "orders.id")

	var rows []models.OrderModel
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, rows)
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(conn(ctx, r.db).Model(&models.OrderModel{}), filter).Count(&count).Error
	return count, err
}

// Create stores the order and its items
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(models.OrderModelFromDomain(o)).Error; err != nil {
			return err
		}
		if len(o.Items) == 0 {
			return nil
		}
		items := make([]*models.OrderItemModel, len(o.Items))
		for i := range o.Items {
			items[i] = models.OrderItemModelFromDomain(&o.Items[i])
		}
		return tx.Create(&items).Error
	})
}

// UpdatePaymentStatus persists a status change. The stored version must be the
// one the order was loaded with, else ErrConcurrencyConflict.
func (r *GormOrderRepository) UpdatePaymentStatus(ctx context.Context, o *order.Order) error {
	db := conn(ctx, r.db)
	result := db.Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", o.ID, o.Version-1).
		Updates(map[string]any{
			"payment_status": o.PaymentStatus,
			"version":        o.Version,
			"updated_at":     o.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := db.Model(&models.OrderModel{}).Where("id = ?", o.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// Delete removes an order. Orders that still have items are protected.
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		var items int64
		if err := tx.Model(&models.OrderItemModel{}).Where("order_id = ?", id).Count(&items).Error; err != nil {
			return err
		}
		if items > 0 {
			return shared.NewProtectedError("Order cannot be deleted because it has order items")
		}
		result := tx.Delete(&models.OrderModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountByCustomer counts orders placed by a customer
func (r *GormOrderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.OrderModel{}).Where("customer_id = ?", customerID).Count(&count).Error
	return count, err
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if id, ok := filterUUID(filter, order.FilterCustomerID); ok {
		query = query.Where("orders.customer_id = ?", id)
	}
	switch status := filter.Filters[order.FilterPaymentStatus].(type) {
	case order.PaymentStatus:
		if status != "" {
			query = query.Where("orders.payment_status = ?", status)
		}
	case string:
		if status != "" {
			query = query.Where("orders.payment_status = ?", status)
		}
	}
	return query
}

// withItems loads the items of the given orders in one query
func (r *GormOrderRepository) withItems(ctx context.Context, rows []models.OrderModel) ([]order.Order, error) {
	orders := make([]order.Order, len(rows))
	if len(rows) == 0 {
		return orders, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var items []models.OrderItemModel
	if err := conn(ctx, r.db).Where("order_id IN ?", ids).Order("created_at ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[uuid.UUID][]models.OrderItemModel, len(rows))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range rows {
		orders[i] = *rows[i].ToDomain(byOrder[rows[i].ID])
	}
	return orders, nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ order.OrderRepository = (*GormOrderRepository)(nil)

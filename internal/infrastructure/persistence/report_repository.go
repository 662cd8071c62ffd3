package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/report"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository with aggregate SQL
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// ProductPriceSummary aggregates unit prices across all products
func (r *GormReportRepository) ProductPriceSummary(ctx context.Context) (*report.ProductPriceSummary, error) {
	var row struct {
		Count    int64
		MinPrice decimal.NullDecimal
		MaxPrice decimal.NullDecimal
		AvgPrice decimal.NullDecimal
		SumPrice decimal.NullDecimal
	}
	err := conn(ctx, r.db).Model(&models.ProductModel{}).
		Select("COUNT(*) AS count, MIN(unit_price) AS min_price, MAX(unit_price) AS max_price, " +
			"AVG(unit_price) AS avg_price, SUM(unit_price) AS sum_price").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &report.ProductPriceSummary{
		Count:    row.Count,
		MinPrice: orZero(row.MinPrice),
		MaxPrice: orZero(row.MaxPrice),
		AvgPrice: orZero(row.AvgPrice).Round(2),
		SumPrice: orZero(row.SumPrice),
	}, nil
}

// OrderItemSummary aggregates ordered quantities
func (r *GormReportRepository) OrderItemSummary(ctx context.Context) (*report.OrderItemSummary, error) {
	var row struct {
		Count       int64
		MinQuantity int64
		MaxQuantity int64
		SumQuantity int64
		AvgQuantity decimal.NullDecimal
	}
	err := conn(ctx, r.db).Model(&models.OrderItemModel{}).
		Select("COUNT(*) AS count, COALESCE(MIN(quantity), 0) AS min_quantity, COALESCE(MAX(quantity), 0) AS max_quantity, " +
			"COALESCE(SUM(quantity), 0) AS sum_quantity, AVG(quantity) AS avg_quantity").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &report.OrderItemSummary{
		Count:       row.Count,
		MinQuantity: row.MinQuantity,
		MaxQuantity: row.MaxQuantity,
		SumQuantity: row.SumQuantity,
		AvgQuantity: orZero(row.AvgQuantity).Round(2),
	}, nil
}

// Revenue sums quantity times unit price per order, optionally for one customer
func (r *GormReportRepository) Revenue(ctx context.Context, customerID *uuid.UUID) (*report.Revenue, error) {
	scoped := func() *gorm.DB {
		query := conn(ctx, r.db).Model(&models.OrderItemModel{})
		if customerID != nil {
			query = query.Joins("JOIN orders ON orders.id = order_items.order_id").
				Where("orders.customer_id = ?", *customerID)
		}
		return query
	}

	var totals struct {
		TotalRevenue   decimal.NullDecimal
		AvgItemRevenue decimal.NullDecimal
	}
	err := scoped().
		Select("SUM(order_items.quantity * order_items.unit_price) AS total_revenue, " +
			"AVG(order_items.quantity * order_items.unit_price) AS avg_item_revenue").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var rows []struct {
		OrderID uuid.UUID
		Revenue decimal.Decimal
	}
	err = scoped().
		Select("order_items.order_id AS order_id, SUM(order_items.quantity * order_items.unit_price) AS revenue").
		Group("order_items.order_id").
		Order("revenue DESC").
		Order("order_items.order_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := &report.Revenue{
		TotalRevenue:   orZero(totals.TotalRevenue).Round(2),
		AvgItemRevenue: orZero(totals.AvgItemRevenue).Round(2),
		Orders:         make([]report.OrderRevenue, 0, len(rows)),
	}
	for _, row := range rows {
		result.Orders = append(result.Orders, report.OrderRevenue{OrderID: row.OrderID, Revenue: row.Revenue.Round(2)})
	}
	return result, nil
}

// TopCustomers ranks customers by the number of orders they placed
func (r *GormReportRepository) TopCustomers(ctx context.Context, limit int) ([]report.CustomerOrders, error) {
	var rows []struct {
		ID          uuid.UUID
		FirstName   string
		LastName    string
		Email       string
		OrdersCount int64
	}
	err := conn(ctx, r.db).Model(&models.CustomerModel{}).
		Select("customers.id, customers.first_name, customers.last_name, customers.email, COUNT(orders.id) AS orders_count").
		Joins("LEFT JOIN orders ON orders.customer_id = customers.id").
		Group("customers.id, customers.first_name, customers.last_name, customers.email").
		Order("orders_count DESC").
		Order("customers.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]report.CustomerOrders, len(rows))
	for i, row := range rows {
		result[i] = report.CustomerOrders{
			CustomerID:  row.ID,
			FullName:    strings.TrimSpace(row.FirstName + " " + row.LastName),
			Email:       row.Email,
			OrdersCount: row.OrdersCount,
		}
	}
	return result, nil
}

// DiscountedProducts lists products priced with the report discount
func (r *GormReportRepository) DiscountedProducts(ctx context.Context, collectionID *uuid.UUID) ([]report.DiscountedProduct, error) {
	query := conn(ctx, r.db).Model(&models.ProductModel{}).Order("title ASC").Order("id ASC")
	if collectionID != nil {
		query = query.Where("collection_id = ?", *collectionID)
	}
	var rows []models.ProductModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]report.DiscountedProduct, len(rows))
	for i, row := range rows {
		result[i] = report.DiscountedProduct{
			ProductID:       row.ID,
			Title:           row.Title,
			UnitPrice:       row.UnitPrice,
			DiscountedPrice: report.Discount(row.UnitPrice),
		}
	}
	return result, nil
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

// Ensure GormReportRepository implements report.Repository
var _ report.Repository = (*GormReportRepository)(nil)

package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountRate is the fixed markdown applied by the discounted products report
var DiscountRate = decimal.NewFromFloat(0.8)

// ProductPriceSummary aggregates unit prices across the catalog
type ProductPriceSummary struct {
	Count    int64           `json:"count"`
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`
	AvgPrice decimal.Decimal `json:"avg_price"`
	SumPrice decimal.Decimal `json:"sum_price"`
}

// OrderItemSummary aggregates ordered quantities
type OrderItemSummary struct {
	Count       int64           `json:"count"`
	MinQuantity int64           `json:"min_quantity"`
	MaxQuantity int64           `json:"max_quantity"`
	SumQuantity int64           `json:"sum_quantity"`
	AvgQuantity decimal.Decimal `json:"avg_quantity"`
}

// OrderRevenue is the revenue of a single order
type OrderRevenue struct {
	OrderID uuid.UUID       `json:"order_id"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Revenue totals quantity times unit price over order items
type Revenue struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	AvgItemRevenue decimal.Decimal `json:"avg_item_revenue"`
	Orders         []OrderRevenue  `json:"orders"`
}

// CustomerOrders ranks a customer by order count
type CustomerOrders struct {
	CustomerID  uuid.UUID `json:"customer_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	OrdersCount int64     `json:"orders_count"`
}

// DiscountedProduct is a product priced with DiscountRate
type DiscountedProduct struct {
	ProductID       uuid.UUID       `json:"product_id"`
	Title           string          `json:"title"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
}

// Discount applies DiscountRate to a price
func Discount(price decimal.Decimal) decimal.Decimal {
	return price.Mul(DiscountRate).Round(2)
}

// Repository runs the aggregate queries
type Repository interface {
	ProductPriceSummary(ctx context.Context) (*ProductPriceSummary, error)
	OrderItemSummary(ctx context.Context) (*OrderItemSummary, error)
	// Revenue optionally restricts to one customer's orders
	Revenue(ctx context.Context, customerID *uuid.UUID) (*Revenue, error)
	TopCustomers(ctx context.Context, limit int) ([]CustomerOrders, error)
	DiscountedProducts(ctx context.Context, collectionID *uuid.UUID) ([]DiscountedProduct, error)
}

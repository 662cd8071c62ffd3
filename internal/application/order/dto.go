package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// LineRequest is one line of a staff-created order
type LineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=32767"`
}

// CreateOrderRequest places an order. Customers send only cart_id; staff may
// instead name the customer and the lines directly.
type CreateOrderRequest struct {
	CartID     *uuid.UUID    `json:"cart_id"`
	CustomerID *uuid.UUID    `json:"customer_id"`
	Items      []LineRequest `json:"items" binding:"omitempty,dive"`
}

// IsCheckout reports whether the request converts a cart
func (r CreateOrderRequest) IsCheckout() bool {
	return r.CartID != nil
}

// PaymentStatusRequest changes the payment status of an order
type PaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=P C F"`
}

// ListQuery holds the order list query string
type ListQuery struct {
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	CustomerID    *uuid.UUID `form:"-"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=P C F"`
	OrderBy       string     `form:"order_by" binding:"omitempty,oneof=placed_at payment_status"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ItemResponse is one order line
type ItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                 uuid.UUID       `json:"id"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	PlacedAt           time.Time       `json:"placed_at"`
	PaymentStatus      string          `json:"payment_status"`
	PaymentStatusLabel string          `json:"payment_status_label"`
	Items              []ItemResponse  `json:"items"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	Version            int             `json:"version"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]ItemResponse, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items[i] = ItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice(),
		}
	}
	return OrderResponse{
		ID:                 o.ID,
		CustomerID:         o.CustomerID,
		PlacedAt:           o.PlacedAt,
		PaymentStatus:      string(o.PaymentStatus),
		PaymentStatusLabel: o.PaymentStatus.Label(),
		Items:              items,
		TotalPrice:         o.TotalPrice(),
		Version:            o.Version,
	}
}

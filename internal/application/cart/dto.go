package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// AddItemRequest adds a product to a cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=32767"`
}

// UpdateItemRequest changes the quantity of a line. Nothing else is editable.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=32767"`
}

// ProductSummary is the product shown inside a cart line
type ProductSummary struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ItemResponse is one cart line
type ItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Product    ProductSummary  `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CartResponse is a cart with its lines and total
type CartResponse struct {
	ID         uuid.UUID       `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []ItemResponse  `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// ToItemResponse converts a domain cart line
func ToItemResponse(item *cart.CartItem) ItemResponse {
	return ItemResponse{
		ID: item.ID,
		Product: ProductSummary{
			ID:        item.Product.ID,
			Title:     item.Product.Title,
			UnitPrice: item.Product.UnitPrice,
		},
		Quantity:   item.Quantity,
		TotalPrice: item.TotalPrice(),
	}
}

// ToCartResponse converts a domain cart
func ToCartResponse(c *cart.Cart) CartResponse {
	items := make([]ItemResponse, len(c.Items))
	for i := range c.Items {
		items[i] = ToItemResponse(&c.Items[i])
	}
	return CartResponse{
		ID:         c.ID,
		CreatedAt:  c.CreatedAt,
		Items:      items,
		TotalPrice: c.TotalPrice(),
	}
}

package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// CartModel is the persistence model for the Cart domain entity.
type CartModel struct {
	BaseModel
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// ToDomain converts the persistence model to a domain Cart without items.
func (m *CartModel) ToDomain() *cart.Cart {
	return &cart.Cart{BaseEntity: m.BaseModel.ToDomain(), Items: []cart.CartItem{}}
}

// CartModelFromDomain creates a new persistence model from a domain Cart.
func CartModelFromDomain(c *cart.Cart) *CartModel {
	m := &CartModel{}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// CartItemModel is the persistence model for a cart line.
// (cart_id, product_id) is unique so adds can upsert.
type CartItemModel struct {
	BaseModel
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:2;index"`
	Quantity  int       `gorm:"type:smallint;not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// CartItemModelFromDomain creates a new persistence model from a domain CartItem.
func CartItemModelFromDomain(i *cart.CartItem) *CartItemModel {
	m := &CartItemModel{CartID: i.CartID, ProductID: i.ProductID, Quantity: i.Quantity}
	m.FromDomainBaseEntity(i.BaseEntity)
	return m
}

// CartItemRow is a cart line joined with its product summary
type CartItemRow struct {
	CartItemModel
	ProductTitle     string
	ProductUnitPrice decimal.Decimal
}

// ToDomain converts the joined row to a domain CartItem.
func (r *CartItemRow) ToDomain() cart.CartItem {
	return cart.CartItem{
		BaseEntity: r.BaseModel.ToDomain(),
		CartID:     r.CartID,
		ProductID:  r.ProductID,
		Quantity:   r.Quantity,
		Product: cart.ProductSummary{
			ID:        r.ProductID,
			Title:     r.ProductTitle,
			UnitPrice: r.ProductUnitPrice,
		},
	}
}

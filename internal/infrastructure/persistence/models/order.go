package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	AggregateModel
	PlacedAt      time.Time           `gorm:"not null;index"`
	PaymentStatus order.PaymentStatus `gorm:"type:varchar(1);not null;default:'P';index"`
	CustomerID    uuid.UUID           `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain(items []OrderItemModel) *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.ToDomainAggregate(),
		PlacedAt:          m.PlacedAt,
		PaymentStatus:     m.PaymentStatus,
		CustomerID:        m.CustomerID,
		Items:             make([]order.OrderItem, 0, len(items)),
	}
	for i := range items {
		o.Items = append(o.Items, items[i].ToDomain())
	}
	return o
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{
		PlacedAt:      o.PlacedAt,
		PaymentStatus: o.PaymentStatus,
		CustomerID:    o.CustomerID,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	return m
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"type:smallint;not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(6,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() order.OrderItem {
	return order.OrderItem{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderID:    m.OrderID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
	}
}

// OrderItemModelFromDomain creates a new persistence model from a domain OrderItem.
func OrderItemModelFromDomain(i *order.OrderItem) *OrderItemModel {
	m := &OrderItemModel{
		OrderID:   i.OrderID,
		ProductID: i.ProductID,
		Quantity:  i.Quantity,
		UnitPrice: i.UnitPrice,
	}
	m.FromDomainBaseEntity(i.BaseEntity)
	return m
}

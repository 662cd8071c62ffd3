package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeProduct    = "Product"
	AggregateTypeCollection = "Collection"
)

// Event type constants
const (
	EventTypeProductCreated      = "ProductCreated"
	EventTypeProductUpdated      = "ProductUpdated"
	EventTypeProductPriceChanged = "ProductPriceChanged"
	EventTypeProductDeleted      = "ProductDeleted"
	EventTypeCollectionCreated   = "CollectionCreated"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	Title        string          `json:"title"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CollectionID uuid.UUID       `json:"collection_id"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Title:           product.Title,
		UnitPrice:       product.UnitPrice,
		CollectionID:    product.CollectionID,
	}
}

// ProductUpdatedEvent is published when a product is updated
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Title:           product.Title,
	}
}

// ProductPriceChangedEvent is published when the unit price changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product, oldPrice decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		OldPrice:        oldPrice,
		NewPrice:        product.UnitPrice,
	}
}

// ProductDeletedEvent is published after a product is removed
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(productID uuid.UUID) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, productID),
		ProductID:       productID,
	}
}

// CollectionCreatedEvent is published when a new collection is created
type CollectionCreatedEvent struct {
	shared.BaseDomainEvent
	CollectionID uuid.UUID `json:"collection_id"`
	Title        string    `json:"title"`
}

// NewCollectionCreatedEvent creates a new CollectionCreatedEvent
func NewCollectionCreatedEvent(c *Collection) *CollectionCreatedEvent {
	return &CollectionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCollectionCreated, AggregateTypeCollection, c.ID),
		CollectionID:    c.ID,
		Title:           c.Title,
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CollectionModel is the persistence model for the Collection domain entity.
type CollectionModel struct {
	AggregateModel
	Title             string     `gorm:"type:varchar(255);not null;index"`
	FeaturedProductID *uuid.UUID `gorm:"type:uuid;index"`
	// ProductsCount is filled by queries that join products; never stored
	ProductsCount int64 `gorm:"->;-:migration"`
}

// TableName returns the table name for GORM
func (CollectionModel) TableName() string {
	return "collections"
}

// ToDomain converts the persistence model to a domain Collection entity.
func (m *CollectionModel) ToDomain() *catalog.Collection {
	return &catalog.Collection{
		BaseAggregateRoot: m.ToDomainAggregate(),
		Title:             m.Title,
		FeaturedProductID: m.FeaturedProductID,
		ProductsCount:     m.ProductsCount,
	}
}

// FromDomain populates the persistence model from a domain Collection entity.
func (m *CollectionModel) FromDomain(c *catalog.Collection) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Title = c.Title
	m.FeaturedProductID = c.FeaturedProductID
}

// CollectionModelFromDomain creates a new persistence model from a domain Collection entity.
func CollectionModelFromDomain(c *catalog.Collection) *CollectionModel {
	m := &CollectionModel{}
	m.FromDomain(c)
	return m
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	Title        string          `gorm:"type:varchar(255);not null;index"`
	Slug         string          `gorm:"type:varchar(255);not null;index"`
	Description  *string         `gorm:"type:text"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	Inventory    int             `gorm:"not null;default:0"`
	LastUpdate   time.Time       `gorm:"not null;index"`
	CollectionID uuid.UUID       `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
// Promotion ids live in a join table and are attached by the repository.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregate(),
		Title:             m.Title,
		Slug:              m.Slug,
		Description:       m.Description,
		UnitPrice:         m.UnitPrice,
		Inventory:         m.Inventory,
		LastUpdate:        m.LastUpdate,
		CollectionID:      m.CollectionID,
		PromotionIDs:      []uuid.UUID{},
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Title = p.Title
	m.Slug = p.Slug
	m.Description = p.Description
	m.UnitPrice = p.UnitPrice
	m.Inventory = p.Inventory
	m.LastUpdate = p.LastUpdate
	m.CollectionID = p.CollectionID
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// PromotionModel is the persistence model for the Promotion domain entity.
type PromotionModel struct {
	AggregateModel
	Description string    `gorm:"type:varchar(255);not null"`
	Discount    float64   `gorm:"not null"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PromotionModel) TableName() string {
	return "promotions"
}

// ToDomain converts the persistence model to a domain Promotion entity.
func (m *PromotionModel) ToDomain() *catalog.Promotion {
	return &catalog.Promotion{
		BaseAggregateRoot: m.ToDomainAggregate(),
		Description:       m.Description,
		Discount:          m.Discount,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
	}
}

// PromotionModelFromDomain creates a new persistence model from a domain Promotion entity.
func PromotionModelFromDomain(p *catalog.Promotion) *PromotionModel {
	m := &PromotionModel{
		Description: p.Description,
		Discount:    p.Discount,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// ProductPromotionModel is the product/promotion join row
type ProductPromotionModel struct {
	ProductID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	PromotionID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (ProductPromotionModel) TableName() string {
	return "product_promotions"
}

// ReviewModel is the persistence model for the Review domain entity.
type ReviewModel struct {
	BaseModel
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text;not null"`
	Date        time.Time `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts the persistence model to a domain Review entity.
func (m *ReviewModel) ToDomain() *catalog.Review {
	return &catalog.Review{
		BaseEntity:  m.BaseModel.ToDomain(),
		ProductID:   m.ProductID,
		Name:        m.Name,
		Description: m.Description,
		Date:        m.Date,
	}
}

// ReviewModelFromDomain creates a new persistence model from a domain Review entity.
func ReviewModelFromDomain(r *catalog.Review) *ReviewModel {
	m := &ReviewModel{
		ProductID:   r.ProductID,
		Name:        r.Name,
		Description: r.Description,
		Date:        r.Date,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// TagModel is the persistence model for the Tag domain entity.
type TagModel struct {
	BaseModel
	Label string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (TagModel) TableName() string {
	return "tags"
}

// ToDomain converts the persistence model to a domain Tag entity.
func (m *TagModel) ToDomain() *catalog.Tag {
	return &catalog.Tag{BaseEntity: m.BaseModel.ToDomain(), Label: m.Label}
}

// TagModelFromDomain creates a new persistence model from a domain Tag entity.
func TagModelFromDomain(t *catalog.Tag) *TagModel {
	m := &TagModel{Label: t.Label}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

// TaggedItemModel is the generic tag link row
type TaggedItemModel struct {
	BaseModel
	TagID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tagged_items_link,priority:1"`
	ContentType string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_tagged_items_link,priority:2;index:idx_tagged_items_object,priority:1"`
	ObjectID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tagged_items_link,priority:3;index:idx_tagged_items_object,priority:2"`
}

// TableName returns the table name for GORM
func (TaggedItemModel) TableName() string {
	return "tagged_items"
}

// TaggedItemModelFromDomain creates a new persistence model from a domain TaggedItem.
func TaggedItemModelFromDomain(t *catalog.TaggedItem) *TaggedItemModel {
	m := &TaggedItemModel{TagID: t.TagID, ContentType: t.ContentType, ObjectID: t.ObjectID}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

// ProductImageModel stores metadata of an uploaded product image
type ProductImageModel struct {
	BaseModel
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	StorageKey  string    `gorm:"type:varchar(500);not null;uniqueIndex"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	Size        int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductImageModel) TableName() string {
	return "product_images"
}

// ToDomain converts the persistence model to a domain ProductImage.
func (m *ProductImageModel) ToDomain() *catalog.ProductImage {
	return &catalog.ProductImage{
		BaseEntity:  m.BaseModel.ToDomain(),
		ProductID:   m.ProductID,
		StorageKey:  m.StorageKey,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		Size:        m.Size,
	}
}

// ProductImageModelFromDomain creates a new persistence model from a domain ProductImage.
func ProductImageModelFromDomain(i *catalog.ProductImage) *ProductImageModel {
	m := &ProductImageModel{
		ProductID:   i.ProductID,
		StorageKey:  i.StorageKey,
		FileName:    i.FileName,
		ContentType: i.ContentType,
		Size:        i.Size,
	}
	m.FromDomainBaseEntity(i.BaseEntity)
	return m
}

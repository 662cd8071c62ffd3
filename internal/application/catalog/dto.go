package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Title        string          `json:"title" binding:"required,min=1,max=255"`
	Slug         string          `json:"slug" binding:"omitempty,max=255"`
	Description  *string         `json:"description"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	Inventory    int             `json:"inventory" binding:"min=0"`
	CollectionID uuid.UUID       `json:"collection_id" binding:"required"`
	PromotionIDs []uuid.UUID     `json:"promotion_ids"`
}

// UpdateProductRequest is a full replacement of the writable fields
type UpdateProductRequest = CreateProductRequest

// PatchProductRequest changes only the fields that are present
type PatchProductRequest struct {
	Title        *string          `json:"title" binding:"omitempty,min=1,max=255"`
	Slug         *string          `json:"slug" binding:"omitempty,max=255"`
	Description  *string          `json:"description"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	Inventory    *int             `json:"inventory" binding:"omitempty,min=0"`
	CollectionID *uuid.UUID       `json:"collection_id"`
}

// SetPromotionsRequest replaces the promotions of a product
type SetPromotionsRequest struct {
	PromotionIDs []uuid.UUID `json:"promotion_ids"`
}

// ProductListQuery holds the product list query string. Paging is limit/offset.
type ProductListQuery struct {
	Limit        int    `form:"page_limit" binding:"omitempty,min=1,max=100"`
	Offset       int    `form:"page_offset" binding:"omitempty,min=0"`
	CollectionID string `form:"collection_id"`
	PriceGT      string `form:"unit_price__gt"`
	PriceLTE     string `form:"unit_price__lte"`
	Search       string `form:"search"`
	OrderBy      string `form:"order_by" binding:"omitempty,oneof=unit_price last_update title"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	Description  *string         `json:"description"`
	Inventory    int             `json:"inventory"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Price        decimal.Decimal `json:"price"`
	PriceWithTax decimal.Decimal `json:"price_with_tax"`
	Collection   uuid.UUID       `json:"collection"`
	Promotions   []uuid.UUID     `json:"promotions"`
	LastUpdate   time.Time       `json:"last_update"`
	CreatedAt    time.Time       `json:"created_at"`
	Version      int             `json:"version"`
}

// ProductList is a limit/offset page of products
type ProductList struct {
	Items  []ProductResponse `json:"items"`
	Total  int64             `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	promotions := p.PromotionIDs
	if promotions == nil {
		promotions = []uuid.UUID{}
	}
	return ProductResponse{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Description:  p.Description,
		Inventory:    p.Inventory,
		UnitPrice:    p.UnitPrice,
		Price:        p.UnitPrice,
		PriceWithTax: p.PriceWithTax(),
		Collection:   p.CollectionID,
		Promotions:   promotions,
		LastUpdate:   p.LastUpdate,
		CreatedAt:    p.CreatedAt,
		Version:      p.Version,
	}
}

// CollectionRequest creates or updates a collection
type CollectionRequest struct {
	Title             string     `json:"title" binding:"required,min=1,max=255"`
	FeaturedProductID *uuid.UUID `json:"featured_product_id"`
}

// CollectionListQuery holds the collection list query string
type CollectionListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Title    string `form:"title"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=title products_count created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// CollectionResponse represents a collection in API responses
type CollectionResponse struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	FeaturedProductID *uuid.UUID `json:"featured_product_id"`
	ProductsCount     int64      `json:"products_count"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ToCollectionResponse converts a domain collection to a response
func ToCollectionResponse(c *catalog.Collection) CollectionResponse {
	return CollectionResponse{
		ID:                c.ID,
		Title:             c.Title,
		FeaturedProductID: c.FeaturedProductID,
		ProductsCount:     c.ProductsCount,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// PromotionRequest creates or updates a promotion
type PromotionRequest struct {
	Description string    `json:"description" binding:"required,max=255"`
	Discount    float64   `json:"discount" binding:"required,gt=0,lte=100"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

// PromotionResponse represents a promotion in API responses
type PromotionResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Discount    float64   `json:"discount"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `json:"is_active"`
}

// ToPromotionResponse converts a domain promotion, evaluating activity at now
func ToPromotionResponse(p *catalog.Promotion, now time.Time) PromotionResponse {
	return PromotionResponse{
		ID:          p.ID,
		Description: p.Description,
		Discount:    p.Discount,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		IsActive:    p.IsActive(now),
	}
}

// ReviewRequest creates or updates a review
type ReviewRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"required"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// ToReviewResponse converts a domain review
func ToReviewResponse(r *catalog.Review) ReviewResponse {
	return ReviewResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		Name:        r.Name,
		Description: r.Description,
		Date:        r.Date,
	}
}

// TagRequest creates a tag
type TagRequest struct {
	Label string `json:"label" binding:"required,max=255"`
}

// AttachTagRequest links a tag to a product
type AttachTagRequest struct {
	TagID uuid.UUID `json:"tag_id" binding:"required"`
}

// TagResponse represents a tag
type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

// ToTagResponses converts domain tags
func ToTagResponses(tags []catalog.Tag) []TagResponse {
	out := make([]TagResponse, len(tags))
	for i := range tags {
		out[i] = TagResponse{ID: tags[i].ID, Label: tags[i].Label}
	}
	return out
}

// ImageResponse represents an uploaded product image
type ImageResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

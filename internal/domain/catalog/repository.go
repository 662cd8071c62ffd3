package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Product filter keys understood by ProductRepository
const (
	FilterCollectionID = "collection_id"
	FilterPriceGT      = "unit_price__gt"
	FilterPriceLTE     = "unit_price__lte"
	FilterTitlePrefix  = "title__istartswith"
	FilterTitleIExact  = "title__iexact"
	FilterLabelPrefix  = "label__istartswith"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID, promotions included
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter, ignoring pagination
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a product and its promotion links
	Save(ctx context.Context, product *Product) error

	// Delete removes a product. Cart items, reviews, promotion and tag links
	// go with it and collections featuring it lose their featured product.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByID checks whether a product exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// CountOrderItems counts order lines that reference the product
	CountOrderItems(ctx context.Context, id uuid.UUID) (int64, error)
}

// CollectionRepository defines the interface for collection persistence.
// Reads fill Collection.ProductsCount.
type CollectionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Collection, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Collection, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, collection *Collection) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// PromotionRepository defines the interface for promotion persistence
type PromotionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Promotion, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Promotion, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Promotion, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, promotion *Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// FindByID finds a review that belongs to the given product
	FindByID(ctx context.Context, productID, id uuid.UUID) (*Review, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	Save(ctx context.Context, review *Review) error
	Delete(ctx context.Context, productID, id uuid.UUID) error
}

// TagRepository defines the interface for tags and their generic links
type TagRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Tag, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, tag *Tag) error
	// Delete removes the tag and every link to it
	Delete(ctx context.Context, id uuid.UUID) error

	// FindForObject lists the tags attached to an object
	FindForObject(ctx context.Context, contentType string, objectID uuid.UUID) ([]Tag, error)
	// FindForObjects lists tags for many objects, keyed by object id
	FindForObjects(ctx context.Context, contentType string, objectIDs []uuid.UUID) (map[uuid.UUID][]Tag, error)
	// Attach links a tag to an object; a duplicate link is ErrAlreadyExists
	Attach(ctx context.Context, item *TaggedItem) error
	// Detach removes a link; a missing link is ErrNotFound
	Detach(ctx context.Context, tagID uuid.UUID, contentType string, objectID uuid.UUID) error
}

// ProductImageRepository defines the interface for product image metadata
type ProductImageRepository interface {
	FindByID(ctx context.Context, productID, id uuid.UUID) (*ProductImage, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductImage, error)
	Save(ctx context.Context, image *ProductImage) error
	Delete(ctx context.Context, productID, id uuid.UUID) error
}

package catalog

import (
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Collection groups products for browsing
type Collection struct {
	shared.BaseAggregateRoot
	Title             string
	FeaturedProductID *uuid.UUID
	// ProductsCount is a read-side annotation filled by queries that count products
	ProductsCount int64
}

// NewCollection creates a new collection
func NewCollection(title string, featuredProductID *uuid.UUID) (*Collection, error) {
	if err := validateCollectionTitle(title); err != nil {
		return nil, err
	}

	collection := &Collection{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		FeaturedProductID: featuredProductID,
	}
	collection.AddDomainEvent(NewCollectionCreatedEvent(collection))

	return collection, nil
}

// Update changes the title and featured product
func (c *Collection) Update(title string, featuredProductID *uuid.UUID) error {
	if err := validateCollectionTitle(title); err != nil {
		return err
	}
	c.Title = title
	c.FeaturedProductID = featuredProductID
	c.Touch()
	return nil
}

// ClearFeaturedProduct unsets the featured product
func (c *Collection) ClearFeaturedProduct() {
	c.FeaturedProductID = nil
	c.Touch()
}

// CanDelete reports whether the collection no longer holds products
func (c *Collection) CanDelete() error {
	if c.ProductsCount > 0 {
		return shared.NewProtectedError("Collection cannot be deleted because it has an association with products")
	}
	return nil
}

func validateCollectionTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Collection title cannot be empty")
	}
	if utf8.RuneCountInString(title) > 255 {
		return shared.NewDomainError("INVALID_TITLE", "Collection title cannot exceed 255 characters")
	}
	return nil
}

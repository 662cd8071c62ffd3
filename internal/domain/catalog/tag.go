package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ContentTypeProduct is the content type recorded when a product is tagged
const ContentTypeProduct = "product"

// Tag is a free-form label that can be attached to any object
type Tag struct {
	shared.BaseEntity
	Label string
}

// NewTag creates a new tag
func NewTag(label string) (*Tag, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, shared.NewDomainError("INVALID_LABEL", "Tag label cannot be empty")
	}
	if utf8.RuneCountInString(label) > 255 {
		return nil, shared.NewDomainError("INVALID_LABEL", "Tag label cannot exceed 255 characters")
	}
	return &Tag{BaseEntity: shared.NewBaseEntity(), Label: label}, nil
}

// TaggedItem links a tag to an object identified by content type and id
type TaggedItem struct {
	shared.BaseEntity
	TagID       uuid.UUID
	ContentType string
	ObjectID    uuid.UUID
}

// NewTaggedItem creates a tag link
func NewTaggedItem(tagID uuid.UUID, contentType string, objectID uuid.UUID) (*TaggedItem, error) {
	if tagID == uuid.Nil || objectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TAGGED_ITEM", "Tag and object are required")
	}
	if contentType == "" {
		return nil, shared.NewDomainError("INVALID_TAGGED_ITEM", "Content type is required")
	}
	return &TaggedItem{
		BaseEntity:  shared.NewBaseEntity(),
		TagID:       tagID,
		ContentType: contentType,
		ObjectID:    objectID,
	}, nil
}

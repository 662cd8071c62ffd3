package polls

import (
	"strings"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/shared"
)

// Category groups questions by subject
type Category struct {
	shared.BaseEntity
	Name string
}

// NewCategory creates a new category
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return &Category{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// PollTag is a short label for questions
type PollTag struct {
	shared.BaseEntity
	Name string
}

// NewPollTag creates a new poll tag
func NewPollTag(name string) (*PollTag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tag name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 50 {
		return nil, shared.NewDomainError("INVALID_NAME", "Tag name cannot exceed 50 characters")
	}
	return &PollTag{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

package shared

import (
	"context"
)

// Filter represents query filter options.
// Offset and Limit drive pagination; a zero Limit means unbounded.
type Filter struct {
	Offset   int
	Limit    int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Limit:   20,
		Filters: make(map[string]interface{}),
	}
}

// PageFilter builds a filter for a 1-based page number
func PageFilter(page, pageSize int) Filter {
	if page < 1 {
		page = 1
	}
	return Filter{
		Offset:  (page - 1) * pageSize,
		Limit:   pageSize,
		Filters: make(map[string]interface{}),
	}
}

// With sets a filter key and returns the filter for chaining
func (f Filter) With(key string, value interface{}) Filter {
	if f.Filters == nil {
		f.Filters = make(map[string]interface{})
	}
	f.Filters[key] = value
	return f
}

// Page returns the 1-based page the offset falls into
func (f Filter) Page() int {
	if f.Limit <= 0 {
		return 1
	}
	return f.Offset/f.Limit + 1
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// UnitOfWork runs fn inside a single transaction. Repositories called with
// the ctx passed to fn join that transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Package polls implements the polls sub-app: categories, tags, questions,
// voting and comments.
package polls

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/polls"
	"github.com/storefront/backend/internal/domain/shared"
)

const defaultPageSize = 20

// TaxonomyService manages categories and poll tags
type TaxonomyService struct {
	categories polls.CategoryRepository
	tags       polls.PollTagRepository
}

// NewTaxonomyService creates a new TaxonomyService
func NewTaxonomyService(categories polls.CategoryRepository, tags polls.PollTagRepository) *TaxonomyService {
	return &TaxonomyService{categories: categories, tags: tags}
}

// ListCategories returns a page of categories
func (s *TaxonomyService) ListCategories(ctx context.Context, search string, page, pageSize int) (*shared.Paginated[NamedResponse], error) {
	filter := nameFilter(search, page, pageSize)
	rows, err := s.categories.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.categories.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]NamedResponse, len(rows))
	for i := range rows {
		items[i] = NamedResponse{ID: rows[i].ID, Name: rows[i].Name, CreatedAt: rows[i].CreatedAt}
	}
	result := shared.NewPaginated(items, total, filter.Page(), filter.Limit)
	return &result, nil
}

// GetCategory returns one category
func (s *TaxonomyService) GetCategory(ctx context.Context, id uuid.UUID) (*NamedResponse, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &NamedResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}, nil
}

// CreateCategory creates a category
func (s *TaxonomyService) CreateCategory(ctx context.Context, req NameRequest) (*NamedResponse, error) {
	c, err := polls.NewCategory(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return &NamedResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}, nil
}

// DeleteCategory removes a category and its questions
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categories.Delete(ctx, id)
}

// ListTags returns a page of poll tags
func (s *TaxonomyService) ListTags(ctx context.Context, search string, page, pageSize int) (*shared.Paginated[NamedResponse], error) {
	filter := nameFilter(search, page, pageSize)
	rows, err := s.tags.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tags.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]NamedResponse, len(rows))
	for i := range rows {
		items[i] = NamedResponse{ID: rows[i].ID, Name: rows[i].Name, CreatedAt: rows[i].CreatedAt}
	}
	result := shared.NewPaginated(items, total, filter.Page(), filter.Limit)
	return &result, nil
}

// GetTag returns one poll tag
func (s *TaxonomyService) GetTag(ctx context.Context, id uuid.UUID) (*NamedResponse, error) {
	t, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &NamedResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}, nil
}

// CreateTag creates a poll tag
func (s *TaxonomyService) CreateTag(ctx context.Context, req NameRequest) (*NamedResponse, error) {
	t, err := polls.NewPollTag(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.tags.Create(ctx, t); err != nil {
		return nil, err
	}
	return &NamedResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}, nil
}

// DeleteTag removes a poll tag and its questions
func (s *TaxonomyService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return s.tags.Delete(ctx, id)
}

func nameFilter(search string, page, pageSize int) shared.Filter {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	filter := shared.PageFilter(page, pageSize)
	filter.Search = search
	return filter
}

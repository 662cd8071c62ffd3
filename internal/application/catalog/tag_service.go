package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// TagService manages tags and their links to products
type TagService struct {
	tags     catalog.TagRepository
	products catalog.ProductRepository
}

// NewTagService creates a new TagService
func NewTagService(tags catalog.TagRepository, products catalog.ProductRepository) *TagService {
	return &TagService{tags: tags, products: products}
}

// List returns a page of tags. search matches the start of the label.
func (s *TagService) List(ctx context.Context, search string, page, pageSize int) (*shared.Paginated[TagResponse], error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	filter := shared.PageFilter(page, pageSize)
	if search != "" {
		filter = filter.With(catalog.FilterLabelPrefix, search)
	}
	tags, err := s.tags.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tags.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToTagResponses(tags), total, filter.Page(), pageSize)
	return &result, nil
}

// Create creates a tag; a taken label is ErrAlreadyExists
func (s *TagService) Create(ctx context.Context, req TagRequest) (*TagResponse, error) {
	tag, err := catalog.NewTag(req.Label)
	if err != nil {
		return nil, err
	}
	if err := s.tags.Save(ctx, tag); err != nil {
		return nil, err
	}
	return &TagResponse{ID: tag.ID, Label: tag.Label}, nil
}

// Delete removes a tag and all its links
func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tags.Delete(ctx, id)
}

// ProductTags lists the tags attached to a product
func (s *TagService) ProductTags(ctx context.Context, productID uuid.UUID) ([]TagResponse, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	tags, err := s.tags.FindForObject(ctx, catalog.ContentTypeProduct, productID)
	if err != nil {
		return nil, err
	}
	return ToTagResponses(tags), nil
}

// Attach links a tag to a product. Attaching the same tag twice is ErrAlreadyExists.
func (s *TagService) Attach(ctx context.Context, productID uuid.UUID, req AttachTagRequest) (*TagResponse, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	tag, err := s.tags.FindByID(ctx, req.TagID)
	if err != nil {
		if isNotFound(err) {
			return nil, shared.NewDomainError("INVALID_TAG", "Tag not found")
		}
		return nil, err
	}
	item, err := catalog.NewTaggedItem(tag.ID, catalog.ContentTypeProduct, productID)
	if err != nil {
		return nil, err
	}
	if err := s.tags.Attach(ctx, item); err != nil {
		return nil, err
	}
	return &TagResponse{ID: tag.ID, Label: tag.Label}, nil
}

// Detach removes a tag from a product
func (s *TagService) Detach(ctx context.Context, productID, tagID uuid.UUID) error {
	return s.tags.Detach(ctx, tagID, catalog.ContentTypeProduct, productID)
}

func (s *TagService) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	exists, err := s.products.ExistsByID(ctx, productID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}
	return nil
}

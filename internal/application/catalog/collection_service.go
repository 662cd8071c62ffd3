package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const defaultPageSize = 20

// CollectionService handles collection operations
type CollectionService struct {
	uow         shared.UnitOfWork
	collections catalog.CollectionRepository
	products    catalog.ProductRepository
	recorder    shared.EventRecorder
	logger      *zap.Logger
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(
	uow shared.UnitOfWork,
	collections catalog.CollectionRepository,
	products catalog.ProductRepository,
	recorder shared.EventRecorder,
	logger *zap.Logger,
) *CollectionService {
	return &CollectionService{
		uow:         uow,
		collections: collections,
		products:    products,
		recorder:    recorder,
		logger:      logger,
	}
}

// List returns a page of collections with their product counts
func (s *CollectionService) List(ctx context.Context, q CollectionListQuery) (*shared.Paginated[CollectionResponse], error) {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	filter := shared.PageFilter(q.Page, pageSize)
	filter.Search = q.Search
	filter.OrderBy = q.OrderBy
	filter.OrderDir = q.OrderDir
	if q.Title != "" {
		filter = filter.With(catalog.FilterTitleIExact, q.Title)
	}

	collections, err := s.collections.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.collections.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CollectionResponse, len(collections))
	for i := range collections {
		items[i] = ToCollectionResponse(&collections[i])
	}
	page := shared.NewPaginated(items, total, filter.Page(), pageSize)
	return &page, nil
}

// GetByID returns one collection
func (s *CollectionService) GetByID(ctx context.Context, id uuid.UUID) (*CollectionResponse, error) {
	collection, err := s.collections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToCollectionResponse(collection)
	return &out, nil
}

// Create creates a collection
func (s *CollectionService) Create(ctx context.Context, req CollectionRequest) (resp *CollectionResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.collection.create")
	defer func() { telemetry.EndSpan(span, err) }()

	if err := s.ensureFeatured(ctx, req.FeaturedProductID); err != nil {
		return nil, err
	}
	collection, err := catalog.NewCollection(req.Title, req.FeaturedProductID)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.collections.Save(ctx, collection); err != nil {
			return err
		}
		return recordEvents(ctx, s.recorder, collection)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Collection created", zap.String("collection_id", collection.ID.String()))

	out := ToCollectionResponse(collection)
	return &out, nil
}

// Update changes a collection's title and featured product
func (s *CollectionService) Update(ctx context.Context, id uuid.UUID, req CollectionRequest) (*CollectionResponse, error) {
	collection, err := s.collections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureFeatured(ctx, req.FeaturedProductID); err != nil {
		return nil, err
	}
	if err := collection.Update(req.Title, req.FeaturedProductID); err != nil {
		return nil, err
	}
	if err := s.collections.Save(ctx, collection); err != nil {
		return nil, err
	}
	out := ToCollectionResponse(collection)
	return &out, nil
}

// Delete removes a collection that holds no products
func (s *CollectionService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.collection.delete", attribute.String("collection.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	return s.uow.Do(ctx, func(ctx context.Context) error {
		collection, err := s.collections.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := collection.CanDelete(); err != nil {
			return err
		}
		return s.collections.Delete(ctx, id)
	})
}

func (s *CollectionService) ensureFeatured(ctx context.Context, productID *uuid.UUID) error {
	if productID == nil {
		return nil
	}
	exists, err := s.products.ExistsByID(ctx, *productID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("INVALID_FEATURED_PRODUCT", "Featured product not found")
	}
	return nil
}

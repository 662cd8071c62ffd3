package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	defaultProductLimit = 20
	productCachePrefix  = "catalog:product:"
)

// ProductService handles product-related business operations
type ProductService struct {
	uow         shared.UnitOfWork
	products    catalog.ProductRepository
	collections catalog.CollectionRepository
	promotions  catalog.PromotionRepository
	recorder    shared.EventRecorder
	images      catalog.ProductImageRepository
	storage     ObjectStorage
	cache       cache.Cache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// ProductServiceOption configures a ProductService
type ProductServiceOption func(*ProductService)

// WithProductCache enables read-through caching of product details
func WithProductCache(c cache.Cache, ttl time.Duration) ProductServiceOption {
	return func(s *ProductService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithProductImages removes stored image objects when a product is deleted
func WithProductImages(images catalog.ProductImageRepository, storage ObjectStorage) ProductServiceOption {
	return func(s *ProductService) {
		s.images = images
		s.storage = storage
	}
}

// WithProductLogger sets the logger
func WithProductLogger(logger *zap.Logger) ProductServiceOption {
	return func(s *ProductService) {
		s.logger = logger
	}
}

// NewProductService creates a new ProductService
func NewProductService(
	uow shared.UnitOfWork,
	products catalog.ProductRepository,
	collections catalog.CollectionRepository,
	promotions catalog.PromotionRepository,
	recorder shared.EventRecorder,
	opts ...ProductServiceOption,
) *ProductService {
	s := &ProductService{
		uow:         uow,
		products:    products,
		collections: collections,
		promotions:  promotions,
		recorder:    recorder,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a limit/offset page of products
func (s *ProductService) List(ctx context.Context, q ProductListQuery) (*ProductList, error) {
	filter, err := q.toFilter()
	if err != nil {
		return nil, err
	}
	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	return &ProductList{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// GetByID returns a product, served from the cache when enabled
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	resp, err := cache.Remember(ctx, s.cache, productCachePrefix+id.String(), s.cacheTTL,
		func(ctx context.Context) (ProductResponse, error) {
			product, err := s.products.FindByID(ctx, id)
			if err != nil {
				return ProductResponse{}, err
			}
			return ToProductResponse(product), nil
		})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (resp *ProductResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.product.create")
	defer func() { telemetry.EndSpan(span, err) }()

	if err := s.ensureCollection(ctx, req.CollectionID); err != nil {
		return nil, err
	}
	if err := s.ensurePromotions(ctx, req.PromotionIDs); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.input())
	if err != nil {
		return nil, err
	}
	if req.PromotionIDs != nil {
		product.SetPromotions(req.PromotionIDs)
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("product.id", product.ID.String()))
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("title", product.Title))

	out := ToProductResponse(product)
	return &out, nil
}

// Update replaces every writable field of a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (resp *ProductResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.product.update", attribute.String("product.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCollection(ctx, req.CollectionID); err != nil {
		return nil, err
	}
	if err := s.ensurePromotions(ctx, req.PromotionIDs); err != nil {
		return nil, err
	}
	if err := product.Update(req.input()); err != nil {
		return nil, err
	}
	if req.PromotionIDs != nil {
		product.SetPromotions(req.PromotionIDs)
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	out := ToProductResponse(product)
	return &out, nil
}

// Patch updates only the fields present in req
func (s *ProductService) Patch(ctx context.Context, id uuid.UUID, req PatchProductRequest) (resp *ProductResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.product.patch", attribute.String("product.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in := catalog.ProductInput{
		Title:        product.Title,
		Slug:         product.Slug,
		Description:  product.Description,
		UnitPrice:    product.UnitPrice,
		Inventory:    product.Inventory,
		CollectionID: product.CollectionID,
	}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Slug != nil {
		in.Slug = *req.Slug
	}
	if req.Description != nil {
		in.Description = req.Description
	}
	if req.UnitPrice != nil {
		in.UnitPrice = *req.UnitPrice
	}
	if req.Inventory != nil {
		in.Inventory = *req.Inventory
	}
	if req.CollectionID != nil && *req.CollectionID != product.CollectionID {
		if err := s.ensureCollection(ctx, *req.CollectionID); err != nil {
			return nil, err
		}
		in.CollectionID = *req.CollectionID
	}

	if err := product.Update(in); err != nil {
		return nil, err
	}
	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	out := ToProductResponse(product)
	return &out, nil
}

// ChangePrice sets only the unit price. It backs the editable price column
// of the back-office product list.
func (s *ProductService) ChangePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.ChangePrice(price); err != nil {
		return nil, err
	}
	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	out := ToProductResponse(product)
	return &out, nil
}

// SetPromotions replaces the promotion set of a product
func (s *ProductService) SetPromotions(ctx context.Context, id uuid.UUID, req SetPromotionsRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePromotions(ctx, req.PromotionIDs); err != nil {
		return nil, err
	}
	product.SetPromotions(req.PromotionIDs)
	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	out := ToProductResponse(product)
	return &out, nil
}

// Delete removes a product that no order item references
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.product.delete", attribute.String("product.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	var images []catalog.ProductImage
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if _, err := s.products.FindByID(ctx, id); err != nil {
			return err
		}
		count, err := s.products.CountOrderItems(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.NewProtectedError("Product cannot be deleted because it has an association with order")
		}
		if s.images != nil {
			if images, err = s.images.FindByProduct(ctx, id); err != nil {
				return err
			}
		}
		if err := s.products.Delete(ctx, id); err != nil {
			return err
		}
		return s.recorder.Record(ctx, catalog.NewProductDeletedEvent(id))
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.deleteStoredImages(ctx, images)
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// deleteStoredImages runs after commit; the rows are already gone
func (s *ProductService) deleteStoredImages(ctx context.Context, images []catalog.ProductImage) {
	if s.storage == nil {
		return
	}
	for _, image := range images {
		if err := s.storage.Delete(ctx, image.StorageKey); err != nil {
			s.logger.Warn("Failed to delete stored image", zap.String("key", image.StorageKey), zap.Error(err))
		}
	}
}

func (s *ProductService) save(ctx context.Context, product *catalog.Product) error {
	return s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.products.Save(ctx, product); err != nil {
			return err
		}
		return recordEvents(ctx, s.recorder, product)
	})
}

func (s *ProductService) ensureCollection(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return shared.NewDomainError("INVALID_COLLECTION", "Product must belong to a collection")
	}
	exists, err := s.collections.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("INVALID_COLLECTION", "Collection not found")
	}
	return nil
}

func (s *ProductService) ensurePromotions(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.promotions.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]struct{}, len(found))
	for i := range found {
		known[found[i].ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return shared.NewDomainError("INVALID_PROMOTION", "Promotion not found: "+id.String())
		}
	}
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productCachePrefix+id.String()); err != nil {
		s.logger.Warn("Failed to evict cached product", zap.String("product_id", id.String()), zap.Error(err))
	}
}

func (r CreateProductRequest) input() catalog.ProductInput {
	return catalog.ProductInput{
		Title:        r.Title,
		Slug:         r.Slug,
		Description:  r.Description,
		UnitPrice:    r.UnitPrice,
		Inventory:    r.Inventory,
		CollectionID: r.CollectionID,
	}
}

func (q ProductListQuery) toFilter() (shared.Filter, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultProductLimit
	}
	filter := shared.Filter{
		Limit:    limit,
		Offset:   q.Offset,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
		Filters:  map[string]interface{}{},
	}
	if q.CollectionID != "" {
		id, err := uuid.Parse(q.CollectionID)
		if err != nil {
			return filter, shared.NewValidationError("collection_id must be a valid UUID")
		}
		filter = filter.With(catalog.FilterCollectionID, id)
	}
	for key, raw := range map[string]string{catalog.FilterPriceGT: q.PriceGT, catalog.FilterPriceLTE: q.PriceLTE} {
		if raw == "" {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, shared.NewValidationError(key + " must be a number")
		}
		filter = filter.With(key, price)
	}
	return filter, nil
}

// isNotFound reports whether err is the domain not-found error
func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

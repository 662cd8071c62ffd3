package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ImageUpload describes one uploaded file
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageService stores product images in object storage and keeps their metadata
type ImageService struct {
	images        catalog.ProductImageRepository
	products      catalog.ProductRepository
	storage       ObjectStorage
	maxUploadSize int64
	logger        *zap.Logger
}

// NewImageService creates a new ImageService
func NewImageService(
	images catalog.ProductImageRepository,
	products catalog.ProductRepository,
	storage ObjectStorage,
	maxUploadSize int64,
	logger *zap.Logger,
) *ImageService {
	return &ImageService{
		images:        images,
		products:      products,
		storage:       storage,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// Upload stores the file and records its metadata. The object is removed
// again when the metadata cannot be saved.
func (s *ImageService) Upload(ctx context.Context, productID uuid.UUID, upload ImageUpload) (resp *ImageResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.image.upload",
		attribute.String("product.id", productID.String()),
		attribute.Int64("image.size", upload.Size),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	exists, err := s.products.ExistsByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	image, err := catalog.NewProductImage(productID, upload.FileName, upload.ContentType, upload.Size, s.maxUploadSize)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Put(ctx, image.StorageKey, upload.Body, image.Size, image.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	if err := s.images.Save(ctx, image); err != nil {
		if delErr := s.storage.Delete(ctx, image.StorageKey); delErr != nil {
			s.logger.Warn("Failed to remove orphaned image", zap.String("key", image.StorageKey), zap.Error(delErr))
		}
		return nil, err
	}
	s.logger.Info("Product image uploaded",
		zap.String("product_id", productID.String()),
		zap.String("key", image.StorageKey))

	return s.toResponse(ctx, image)
}

// List returns a product's images with fetchable URLs
func (s *ImageService) List(ctx context.Context, productID uuid.UUID) ([]ImageResponse, error) {
	images, err := s.images.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]ImageResponse, 0, len(images))
	for i := range images {
		resp, err := s.toResponse(ctx, &images[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// Delete removes the image metadata and then the stored object
func (s *ImageService) Delete(ctx context.Context, productID, imageID uuid.UUID) error {
	image, err := s.images.FindByID(ctx, productID, imageID)
	if err != nil {
		return err
	}
	if err := s.images.Delete(ctx, productID, imageID); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, image.StorageKey); err != nil {
		s.logger.Warn("Failed to delete stored image", zap.String("key", image.StorageKey), zap.Error(err))
	}
	return nil
}

func (s *ImageService) toResponse(ctx context.Context, image *catalog.ProductImage) (*ImageResponse, error) {
	url, err := s.storage.URL(ctx, image.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image url: %w", err)
	}
	return &ImageResponse{
		ID:          image.ID,
		ProductID:   image.ProductID,
		FileName:    image.FileName,
		ContentType: image.ContentType,
		Size:        image.Size,
		URL:         url,
		CreatedAt:   image.CreatedAt,
	}, nil
}

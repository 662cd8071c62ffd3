package storage

import (
	"context"
	"fmt"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New returns the object storage selected by cfg.Driver. The S3 bucket is
// created on first start.
func New(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (catalogapp.ObjectStorage, error) {
	switch cfg.Driver {
	case config.StorageMemory, "":
		logger.Warn("Using in-memory object storage; uploaded images are lost on restart")
		return NewMemoryObjectStorage(cfg.PublicBaseURL), nil
	case config.StorageS3:
		s, err := NewS3ObjectStorage(ctx, cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Using S3 object storage", zap.String("bucket", s.Bucket()))
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

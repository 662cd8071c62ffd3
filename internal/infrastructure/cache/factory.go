package cache

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// KeyPrefix namespaces every key this service writes to Redis
const KeyPrefix = "storefront:"

// FactoryOption configures New
type FactoryOption func(*factory)

type factory struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger used to report the chosen backend
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache. Fallback is allowed by default.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *factory) {
		f.allowInMemoryFallback = allow
	}
}

// New returns a Redis cache when cfg.Enabled, else an in-memory cache
func New(ctx context.Context, cfg config.RedisConfig, opts ...FactoryOption) (Cache, error) {
	f := &factory{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(f)
	}

	if !cfg.Enabled {
		f.logger.Info("Redis disabled, using in-memory cache")
		return NewMemoryCache(), nil
	}

	c, err := NewRedisCache(ctx, RedisOptions{
		Addr:      cfg.Addr(),
		Password:  cfg.Password,
		DB:        cfg.DB,
		KeyPrefix: KeyPrefix,
	})
	if err == nil {
		f.logger.Info("Using Redis cache", zap.String("addr", cfg.Addr()))
		return c, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory cache. Cached state is not shared between instances.",
		zap.Error(err))
	return NewMemoryCache(), nil
}

// Package report serves the read-only aggregate reports with a result cache
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/report"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

const (
	// KeyPrefix namespaces every cached report
	KeyPrefix = "report:"

	keyProductSummary   = KeyPrefix + "products:summary"
	keyOrderItemSummary = KeyPrefix + "order-items:summary"
	keyRevenueAll       = KeyPrefix + "revenue:all"
	keyDiscountedAll    = KeyPrefix + "products:discounted:all"

	defaultTopCustomers = 10
	maxTopCustomers     = 100
)

// RevenueQuery filters the revenue report
type RevenueQuery struct {
	CustomerID *uuid.UUID `form:"-"`
}

// TopCustomersQuery bounds the customer ranking
type TopCustomersQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// DiscountedQuery filters the discounted product listing
type DiscountedQuery struct {
	CollectionID *uuid.UUID `form:"-"`
}

// Service computes reports, caching results for ttl
type Service struct {
	repo   report.Repository
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewService creates a report service. A nil cache disables caching.
func NewService(repo report.Repository, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{repo: repo, cache: c, ttl: ttl, logger: logger}
}

// ProductSummary returns price statistics over all products
func (s *Service) ProductSummary(ctx context.Context) (*report.ProductPriceSummary, error) {
	return cache.Remember(ctx, s.cache, keyProductSummary, s.ttl, s.repo.ProductPriceSummary)
}

// OrderItemSummary returns quantity statistics over all order lines
func (s *Service) OrderItemSummary(ctx context.Context) (*report.OrderItemSummary, error) {
	return cache.Remember(ctx, s.cache, keyOrderItemSummary, s.ttl, s.repo.OrderItemSummary)
}

// Revenue returns per-order revenue, optionally for one customer
func (s *Service) Revenue(ctx context.Context, q RevenueQuery) (*report.Revenue, error) {
	key := keyRevenueAll
	if q.CustomerID != nil {
		key = KeyPrefix + "revenue:" + q.CustomerID.String()
	}
	return cache.Remember(ctx, s.cache, key, s.ttl, func(ctx context.Context) (*report.Revenue, error) {
		return s.repo.Revenue(ctx, q.CustomerID)
	})
}

// TopCustomers ranks customers by order count
func (s *Service) TopCustomers(ctx context.Context, q TopCustomersQuery) ([]report.CustomerOrders, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultTopCustomers
	}
	if limit > maxTopCustomers {
		limit = maxTopCustomers
	}
	key := topCustomersKey(limit)
	return cache.Remember(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]report.CustomerOrders, error) {
		rows, err := s.repo.TopCustomers(ctx, limit)
		if rows == nil && err == nil {
			rows = []report.CustomerOrders{}
		}
		return rows, err
	})
}

// DiscountedProducts lists products with the promotional price applied
func (s *Service) DiscountedProducts(ctx context.Context, q DiscountedQuery) ([]report.DiscountedProduct, error) {
	key := keyDiscountedAll
	if q.CollectionID != nil {
		key = KeyPrefix + "products:discounted:" + q.CollectionID.String()
	}
	return cache.Remember(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]report.DiscountedProduct, error) {
		rows, err := s.repo.DiscountedProducts(ctx, q.CollectionID)
		if rows == nil && err == nil {
			rows = []report.DiscountedProduct{}
		}
		return rows, err
	})
}

func topCustomersKey(limit int) string {
	return fmt.Sprintf("%scustomers:top:%d", KeyPrefix, limit)
}

// WarmTasks recompute the unfiltered reports into the cache
func (s *Service) WarmTasks() []scheduler.Task {
	return []scheduler.Task{
		warmTask(s, "report.products.summary", keyProductSummary, s.repo.ProductPriceSummary),
		warmTask(s, "report.order_items.summary", keyOrderItemSummary, s.repo.OrderItemSummary),
		warmTask(s, "report.revenue", keyRevenueAll, func(ctx context.Context) (*report.Revenue, error) {
			return s.repo.Revenue(ctx, nil)
		}),
		warmTask(s, "report.customers.top", topCustomersKey(defaultTopCustomers), func(ctx context.Context) ([]report.CustomerOrders, error) {
			rows, err := s.repo.TopCustomers(ctx, defaultTopCustomers)
			if rows == nil && err == nil {
				rows = []report.CustomerOrders{}
			}
			return rows, err
		}),
		warmTask(s, "report.products.discounted", keyDiscountedAll, func(ctx context.Context) ([]report.DiscountedProduct, error) {
			rows, err := s.repo.DiscountedProducts(ctx, nil)
			if rows == nil && err == nil {
				rows = []report.DiscountedProduct{}
			}
			return rows, err
		}),
	}
}

func warmTask[T any](s *Service, name, key string, load func(context.Context) (T, error)) scheduler.Task {
	return scheduler.Task{Name: name, Run: func(ctx context.Context) error {
		if s.cache == nil {
			return nil
		}
		v, err := load(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return cache.SetJSON(ctx, s.cache, key, v, s.ttl)
	}}
}

// Invalidate drops every cached report
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeletePrefix(ctx, KeyPrefix)
}

// InvalidationHandler clears cached reports when orders change
type InvalidationHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewInvalidationHandler creates the handler
func NewInvalidationHandler(service *Service, logger *zap.Logger) *InvalidationHandler {
	return &InvalidationHandler{service: service, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *InvalidationHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced, order.EventTypeOrderPaymentStatusChanged}
}

// Handle implements shared.EventHandler
func (h *InvalidationHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	if err := h.service.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate reports: %w", err)
	}
	h.logger.Debug("Report cache invalidated",
		zap.String("event_type", ev.EventType()),
		zap.String("aggregate_id", ev.AggregateID().String()))
	return nil
}

package event

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// DefaultIdempotencyTTL bounds how long a delivered event id is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotentHandler runs the wrapped handler at most once per event id.
// Outbox retries redeliver an event to every handler; handlers that already
// succeeded skip it.
type IdempotentHandler struct {
	name    string
	handler shared.EventHandler
	store   cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewIdempotentHandler wraps handler. name scopes the dedup keys so two
// handlers of the same event do not shadow each other.
func NewIdempotentHandler(name string, handler shared.EventHandler, store cache.Cache, logger *zap.Logger) *IdempotentHandler {
	return &IdempotentHandler{
		name:    name,
		handler: handler,
		store:   store,
		ttl:     DefaultIdempotencyTTL,
		logger:  logger,
	}
}

// EventTypes delegates to the wrapped handler
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle claims the event id, runs the handler, and releases the claim on failure
func (h *IdempotentHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	key := "events:done:" + h.name + ":" + ev.EventID().String()

	fresh, err := h.store.SetNX(ctx, key, []byte("1"), h.ttl)
	if err != nil {
		// a duplicate is better than a dropped event
		h.logger.Warn("Idempotency check failed, handling anyway",
			zap.String("handler", h.name), zap.String("event_id", ev.EventID().String()), zap.Error(err))
	} else if !fresh {
		h.logger.Debug("Skipping duplicate event",
			zap.String("handler", h.name), zap.String("event_id", ev.EventID().String()))
		return nil
	}

	if err := h.handler.Handle(ctx, ev); err != nil {
		if derr := h.store.Delete(ctx, key); derr != nil {
			h.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(derr))
		}
		return err
	}
	return nil
}

// Ensure IdempotentHandler implements EventHandler
var _ shared.EventHandler = (*IdempotentHandler)(nil)

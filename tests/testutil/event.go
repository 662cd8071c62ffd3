package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

// RecordingHandler is a shared.EventHandler that keeps what it receives
type RecordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewRecordingHandler subscribes to eventTypes, or to everything when none
// are given
func NewRecordingHandler(eventTypes ...string) *RecordingHandler {
	return &RecordingHandler{eventTypes: eventTypes}
}

func (h *RecordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *RecordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Handled returns a copy of the received events
func (h *RecordingHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.handled))
	copy(out, h.handled)
	return out
}

// SetError makes Handle fail with err
func (h *RecordingHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// TestEvent is a minimal domain event
type TestEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

// NewTestEvent creates a TestEvent on a fresh aggregate
func NewTestEvent(eventType string) *TestEvent {
	return &TestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", NewTestUUID(eventType)),
		Data:            "test-data",
	}
}

// WaitForEvents waits until h has received at least n events
func WaitForEvents(t *testing.T, h *RecordingHandler, n int, timeout time.Duration) bool {
	t.Helper()
	return assert.Eventually(t, func() bool { return len(h.Handled()) >= n }, timeout, 10*time.Millisecond)
}

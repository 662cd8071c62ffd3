package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New()),
		Data:            "payload",
	}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	h.handled = append(h.handled, ev)
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_PublishRoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	orders := newTestHandler("OrderPlaced")
	products := newTestHandler("ProductUpdated")
	bus.Subscribe(orders)
	bus.Subscribe(products)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced"), newTestEvent("OrderPlaced")))
	assert.Equal(t, 2, orders.count())
	assert.Equal(t, 0, products.count())
}

func TestInMemoryEventBus_Wildcard(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	all := newTestHandler()
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A"), newTestEvent("B")))
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("A")
	bus.Subscribe(h, "B")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A"), newTestEvent("B")))
	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("A")
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A")))
	assert.Equal(t, 0, h.count())
}

func TestInMemoryEventBus_FailuresAreJoined(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	boom := errors.New("boom")
	failing := newTestHandler("A")
	failing.err = boom
	panicking := newTestHandler("A")
	panicking.panicWith = "kaboom"
	healthy := newTestHandler("A")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("A"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Equal(t, 1, healthy.count(), "later handlers still run")
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()
	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.Running())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}

func TestEventSerializer_RoundTrip(t *testing.T) {
	s := NewEventSerializer()
	s.Register("Tested", &testEvent{})
	assert.True(t, s.IsRegistered("Tested"))
	assert.False(t, s.IsRegistered("Other"))

	ev := newTestEvent("Tested")
	data, err := s.Serialize(ev)
	require.NoError(t, err)

	decoded, err := s.Deserialize("Tested", data)
	require.NoError(t, err)
	got, ok := decoded.(*testEvent)
	require.True(t, ok)
	assert.Equal(t, ev.EventID(), got.EventID())
	assert.Equal(t, ev.AggregateID(), got.AggregateID())
	assert.Equal(t, "payload", got.Data)

	_, err = s.Deserialize("Other", data)
	assert.ErrorContains(t, err, "unknown event type")
}

package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Purchase", 1)}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicMsg   string
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("routes by event type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		placed := &testHandler{eventTypes: []string{"PurchasePlaced"}}
		cancelled := &testHandler{eventTypes: []string{"PurchaseCancelled"}}
		all := &testHandler{}
		bus.Subscribe(placed)
		bus.Subscribe(cancelled)
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(ctx, newTestEvent("PurchasePlaced"), newTestEvent("PurchasePlaced")))

		assert.Equal(t, 2, placed.count())
		assert.Equal(t, 0, cancelled.count())
		assert.Equal(t, 2, all.count())
	})

	t.Run("explicit types override the handler's own", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &testHandler{eventTypes: []string{"PurchasePlaced"}}
		bus.Subscribe(h, "PurchaseCompleted")

		require.NoError(t, bus.Publish(ctx, newTestEvent("PurchasePlaced"), newTestEvent("PurchaseCompleted")))

		assert.Equal(t, 1, h.count())
	})

	t.Run("handler error is logged and swallowed", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		bus := NewInMemoryEventBus(zap.New(core))
		failing := &testHandler{eventTypes: []string{"X"}, err: errors.New("db down")}
		next := &testHandler{eventTypes: []string{"X"}}
		bus.Subscribe(failing)
		bus.Subscribe(next)

		err := bus.Publish(ctx, newTestEvent("X"))

		assert.NoError(t, err)
		assert.Equal(t, 1, next.count(), "later handlers still run")
		assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
	})

	t.Run("handler panic is recovered", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		bus := NewInMemoryEventBus(zap.New(core))
		bus.Subscribe(&testHandler{eventTypes: []string{"X"}, panicMsg: "boom"})

		assert.NotPanics(t, func() { _ = bus.Publish(ctx, newTestEvent("X")) })
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("unsubscribe", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &testHandler{eventTypes: []string{"X"}}
		bus.Subscribe(h)
		bus.Unsubscribe(h)

		require.NoError(t, bus.Publish(ctx, newTestEvent("X")))
		assert.Equal(t, 0, h.count())
	})
}

func TestInMemoryEventBus_Lifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.IsRunning())
	require.NoError(t, bus.Stop(context.Background()))
	assert.False(t, bus.IsRunning())
}

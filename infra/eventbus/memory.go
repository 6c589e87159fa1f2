package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/fundledger/pkg/domain/events"
	"github.com/amirasaad/fundledger/pkg/eventbus"
)

// MemoryEventBus dispatches events synchronously to in-process handlers and
// keeps a copy of everything published for tests.
type MemoryEventBus struct {
	handlers  map[events.EventType][]eventbus.HandlerFunc
	mu        sync.RWMutex
	logger    *slog.Logger
	published []events.Event
}

// NewWithMemory creates an in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers: make(map[events.EventType][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

// Register adds a handler for the event type.
func (b *MemoryEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit records the event and runs its handlers. Handler failures are logged,
// never returned: the write that produced the event has already committed.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	b.published = append(b.published, event)
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[events.EventType(event.Type())]...)
	b.mu.Unlock()

	dispatch(ctx, b.logger, event, handlers)
	return nil
}

// Published returns a snapshot of the emitted events.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]events.Event(nil), b.published...)
}

// ClearPublished forgets the recorded events.
func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = nil
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)

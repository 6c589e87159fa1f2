package eventbus

import (
	"context"

	"github.com/amirasaad/fundledger/pkg/domain/events"
)

// HandlerFunc processes one event. Returned errors are logged by the bus.
type HandlerFunc func(ctx context.Context, event events.Event) error

// Bus publishes ledger events and dispatches them to registered handlers.
type Bus interface {
	Emit(ctx context.Context, event events.Event) error
	Register(eventType events.EventType, handler HandlerFunc)
}

package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amirasaad/fundledger/pkg/domain/events"
	"github.com/amirasaad/fundledger/pkg/eventbus"
)

// envelope is the wire format shared by every broker-backed driver.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func encode(event events.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	env, err := json.Marshal(envelope{Type: event.Type(), Payload: data})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return env, nil
}

// decode turns raw envelope bytes back into a typed event using events.Registry.
func decode(raw []byte) (events.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	constructor, ok := events.Registry[events.EventType(env.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
	evt := constructor()
	if err := json.Unmarshal(env.Payload, evt); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", env.Type, err)
	}
	return evt, nil
}

// dispatch runs every handler, recovering panics. It reports false when any
// handler failed.
func dispatch(
	ctx context.Context,
	logger *slog.Logger,
	evt events.Event,
	handlers []eventbus.HandlerFunc,
) bool {
	ok := true
	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered in event handler", "type", evt.Type(), "panic", r)
					ok = false
				}
			}()
			if err := h(ctx, evt); err != nil {
				logger.Error("event handler failed", "type", evt.Type(), "error", err)
				ok = false
			}
		}()
	}
	return ok
}

// nameFor builds a broker resource name such as "fundledger:events:voucher:closed".
func nameFor(prefix, sep string, eventType events.EventType) string {
	parts := strings.Split(strings.ToLower(eventType.String()), ".")
	return prefix + sep + strings.Join(parts, sep)
}

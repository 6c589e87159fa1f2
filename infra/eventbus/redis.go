package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/domain/events"
	"github.com/amirasaad/fundledger/pkg/eventbus"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisEventBus publishes each event type to its own Redis stream and
// consumes through a consumer group. Messages whose handlers fail are copied
// to a per-type dead letter stream.
type RedisEventBus struct {
	client *redis.Client
	prefix string
	group  string
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithRedis connects to Redis and returns a stream-backed bus.
func NewWithRedis(cfg *config.Redis, logger *slog.Logger) (*RedisEventBus, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("redis event bus: url is required")
	}
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client: client,
		prefix: cfg.Stream,
		group:  cfg.Group,
		logger: logger.With("bus", "redis"),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (b *RedisEventBus) streamFor(eventType events.EventType) string {
	return nameFor(b.prefix, ":", eventType)
}

func (b *RedisEventBus) dlqFor(eventType events.EventType) string {
	return nameFor(b.prefix+":dlq", ":", eventType)
}

// Emit appends the event envelope to the type's stream.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	env, err := encode(event)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}
	stream := b.streamFor(events.EventType(event.Type()))
	if err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"event": string(env)},
	}).Err(); err != nil {
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	b.logger.Debug("event emitted", "type", event.Type(), "stream", stream)
	return nil
}

// Register starts a consumer for the event type's stream.
func (b *RedisEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	stream := b.streamFor(eventType)
	if err := b.client.XGroupCreateMkStream(b.ctx, stream, b.group, "0").Err(); err != nil &&
		!strings.HasPrefix(err.Error(), "BUSYGROUP") {
		b.logger.Error("failed to create consumer group", "stream", stream, "error", err)
	}
	consumer := "consumer-" + uuid.NewString()
	b.logger.Info("registering handler", "type", eventType, "stream", stream, "consumer", consumer)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consume(eventType, stream, consumer, handler)
	}()
}

func (b *RedisEventBus) consume(eventType events.EventType, stream, consumer string, handler eventbus.HandlerFunc) {
	for {
		if b.ctx.Err() != nil {
			return
		}
		res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
			Group:    b.group,
			Consumer: consumer,
			Streams:  []string{stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if b.ctx.Err() != nil {
				return
			}
			if !errors.Is(err, redis.Nil) {
				b.logger.Error("error reading from stream", "stream", stream, "error", err)
				time.Sleep(time.Second)
			}
			continue
		}
		for _, s := range res {
			for _, msg := range s.Messages {
				b.handle(eventType, stream, msg, handler)
			}
		}
	}
}

func (b *RedisEventBus) handle(eventType events.EventType, stream string, msg redis.XMessage, handler eventbus.HandlerFunc) {
	defer func() {
		if err := b.client.XAck(b.ctx, stream, b.group, msg.ID).Err(); err != nil {
			b.logger.Error("failed to acknowledge message", "id", msg.ID, "error", err)
		}
	}()

	raw, ok := msg.Values["event"].(string)
	if !ok {
		b.pushToDLQ(eventType, msg.Values)
		return
	}
	evt, err := decode([]byte(raw))
	if err != nil {
		b.logger.Error("failed to decode event", "id", msg.ID, "error", err)
		b.pushToDLQ(eventType, msg.Values)
		return
	}
	if !dispatch(b.ctx, b.logger, evt, []eventbus.HandlerFunc{handler}) {
		b.pushToDLQ(eventType, msg.Values)
	}
}

func (b *RedisEventBus) pushToDLQ(eventType events.EventType, values map[string]any) {
	dlq := b.dlqFor(eventType)
	if err := b.client.XAdd(b.ctx, &redis.XAddArgs{Stream: dlq, Values: values}).Err(); err != nil {
		b.logger.Error("failed to push to DLQ", "stream", dlq, "error", err)
		return
	}
	b.logger.Warn("event pushed to DLQ", "stream", dlq)
}

// Close stops the consumers and the client.
func (b *RedisEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.client.Close()
}

var _ eventbus.Bus = (*RedisEventBus)(nil)

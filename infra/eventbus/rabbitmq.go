package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/domain/events"
	"github.com/amirasaad/fundledger/pkg/eventbus"
	"github.com/rabbitmq/amqp091-go"
)

// RabbitMQEventBus publishes envelopes to a topic exchange with the event
// type as routing key. Each registered type gets a durable queue named
// "<queue>.<type>"; failed deliveries are rejected without requeue.
type RabbitMQEventBus struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
	logger   *slog.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithRabbitMQ dials the broker and declares the exchange.
func NewWithRabbitMQ(cfg *config.RabbitMQ, logger *slog.Logger) (*RabbitMQEventBus, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("rabbitmq event bus: url is required")
	}
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq event bus: dial: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq event bus: open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq event bus: declare exchange: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RabbitMQEventBus{
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
		queue:    cfg.Queue,
		logger:   logger.With("bus", "rabbitmq"),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Emit publishes a persistent message routed by event type.
func (b *RabbitMQEventBus) Emit(ctx context.Context, event events.Event) error {
	body, err := encode(event)
	if err != nil {
		return fmt.Errorf("rabbitmq event bus: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.channel.PublishWithContext(ctx, b.exchange, event.Type(), false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Type:         event.Type(),
		Body:         body,
	}); err != nil {
		return fmt.Errorf("rabbitmq event bus: publish: %w", err)
	}
	return nil
}

// Register declares and binds the type's queue and starts consuming it.
func (b *RabbitMQEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	queue := nameFor(b.queue, ".", eventType)

	b.mu.Lock()
	deliveries, err := b.bind(queue, eventType)
	b.mu.Unlock()
	if err != nil {
		b.logger.Error("failed to register handler", "type", eventType, "queue", queue, "error", err)
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-b.ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				b.handle(d, handler)
			}
		}
	}()
}

func (b *RabbitMQEventBus) bind(queue string, eventType events.EventType) (<-chan amqp091.Delivery, error) {
	if _, err := b.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := b.channel.QueueBind(queue, eventType.String(), b.exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}
	return b.channel.Consume(queue, "", false, false, false, false, nil)
}

func (b *RabbitMQEventBus) handle(d amqp091.Delivery, handler eventbus.HandlerFunc) {
	evt, err := decode(d.Body)
	if err != nil {
		b.logger.Error("failed to decode event", "routing_key", d.RoutingKey, "error", err)
		_ = d.Reject(false)
		return
	}
	if !dispatch(b.ctx, b.logger, evt, []eventbus.HandlerFunc{handler}) {
		_ = d.Reject(false)
		return
	}
	if err := d.Ack(false); err != nil {
		b.logger.Error("failed to ack delivery", "type", evt.Type(), "error", err)
	}
}

// Close stops the consumers and the connection.
func (b *RabbitMQEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	if err := b.channel.Close(); err != nil {
		b.logger.Warn("failed to close channel", "error", err)
	}
	return b.conn.Close()
}

var _ eventbus.Bus = (*RabbitMQEventBus)(nil)

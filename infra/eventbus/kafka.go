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
	"github.com/segmentio/kafka-go"
)

// KafkaEventBus writes each event type to its own topic and runs one reader
// per registered type. Failed messages are republished to "<prefix>.dlq.<type>".
type KafkaEventBus struct {
	brokers []string
	groupID string
	prefix  string
	writer  *kafka.Writer
	dialer  *kafka.Dialer
	logger  *slog.Logger

	handlersMtx sync.RWMutex
	handlers    map[events.EventType][]eventbus.HandlerFunc
	readersMtx  sync.Mutex
	readers     map[events.EventType]*kafka.Reader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithKafka dials the first broker and returns a Kafka-backed bus.
func NewWithKafka(cfg *config.Kafka, logger *slog.Logger) (*KafkaEventBus, error) {
	if cfg == nil {
		return nil, fmt.Errorf("kafka event bus: config is required")
	}
	brokers := parseBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	dialer := &kafka.Dialer{Timeout: 5 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	conn, err := dialer.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		cancel()
		return nil, fmt.Errorf("kafka event bus: connection failed: %w", err)
	}
	_ = conn.Close()

	return &KafkaEventBus{
		brokers: brokers,
		groupID: cfg.GroupID,
		prefix:  cfg.TopicPrefix,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireOne,
			Balancer:               &kafka.Hash{},
		},
		dialer:   dialer,
		logger:   logger.With("bus", "kafka"),
		handlers: make(map[events.EventType][]eventbus.HandlerFunc),
		readers:  make(map[events.EventType]*kafka.Reader),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func (b *KafkaEventBus) topicFor(eventType events.EventType) string {
	return nameFor(b.prefix, ".", eventType)
}

func (b *KafkaEventBus) dlqTopicFor(eventType events.EventType) string {
	return nameFor(b.prefix+".dlq", ".", eventType)
}

// Emit writes the event envelope keyed by event type.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	env, err := encode(event)
	if err != nil {
		return fmt.Errorf("kafka event bus: %w", err)
	}
	msg := kafka.Message{
		Topic: b.topicFor(events.EventType(event.Type())),
		Key:   []byte(event.Type()),
		Value: env,
		Time:  time.Now(),
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	return nil
}

// Register adds the handler and starts a reader for the type if none runs yet.
func (b *KafkaEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.handlersMtx.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.handlersMtx.Unlock()

	b.readersMtx.Lock()
	defer b.readersMtx.Unlock()
	if _, ok := b.readers[eventType]; ok {
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     b.brokers,
		GroupID:     b.groupID,
		Topic:       b.topicFor(eventType),
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
		Dialer:      b.dialer,
	})
	b.readers[eventType] = reader

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consume(eventType, reader)
	}()
}

func (b *KafkaEventBus) consume(eventType events.EventType, reader *kafka.Reader) {
	for {
		msg, err := reader.FetchMessage(b.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || b.ctx.Err() != nil {
				return
			}
			b.logger.Error("kafka consume error", "type", eventType, "error", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if !b.process(msg) {
			if err := b.publishToDLQ(eventType, msg.Value); err != nil {
				b.logger.Error("kafka dlq publish failed; will retry", "type", eventType, "error", err)
				continue
			}
		}
		if err := reader.CommitMessages(b.ctx, msg); err != nil {
			b.logger.Error("kafka commit error", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		}
	}
}

func (b *KafkaEventBus) process(msg kafka.Message) bool {
	evt, err := decode(msg.Value)
	if err != nil {
		b.logger.Error("failed to decode event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		return false
	}
	b.handlersMtx.RLock()
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[events.EventType(evt.Type())]...)
	b.handlersMtx.RUnlock()
	return dispatch(b.ctx, b.logger, evt, handlers)
}

func (b *KafkaEventBus) publishToDLQ(eventType events.EventType, raw []byte) error {
	topic := b.dlqTopicFor(eventType)
	if err := b.writer.WriteMessages(b.ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(eventType.String()),
		Value: raw,
		Time:  time.Now(),
	}); err != nil {
		return err
	}
	b.logger.Warn("message sent to DLQ", "type", eventType, "topic", topic)
	return nil
}

// Close stops the readers and flushes the writer.
func (b *KafkaEventBus) Close() error {
	b.cancel()
	b.readersMtx.Lock()
	for _, r := range b.readers {
		_ = r.Close()
	}
	b.readersMtx.Unlock()
	b.wg.Wait()
	return b.writer.Close()
}

func parseBrokers(brokers string) []string {
	var out []string
	for _, p := range strings.Split(brokers, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)

// Command bus_smoketest emits a Fund.Created event through the configured
// broker (EVENT_BUS_DRIVER) and waits for a subscriber to receive it.
//
//	EVENT_BUS_DRIVER=kafka go run ./scripts/bus_smoketest
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	infraeventbus "github.com/amirasaad/fundledger/infra/eventbus"
	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/domain/events"
	"github.com/amirasaad/fundledger/pkg/eventbus"
	"github.com/google/uuid"
)

func connect(cfg *config.EventBus, logger *slog.Logger) (eventbus.Bus, error) {
	switch cfg.Driver {
	case "redis":
		return infraeventbus.NewWithRedis(cfg.Redis, logger)
	case "kafka":
		return infraeventbus.NewWithKafka(cfg.Kafka, logger)
	case "rabbitmq":
		return infraeventbus.NewWithRabbitMQ(cfg.RabbitMQ, logger)
	case "", "memory":
		return infraeventbus.NewWithMemory(logger), nil
	}
	return nil, fmt.Errorf("unsupported event bus driver %q", cfg.Driver)
}

// RunSmokeTest round-trips one event through the broker.
func RunSmokeTest(ctx context.Context, cfg *config.EventBus, logger *slog.Logger) error {
	bus, err := connect(cfg, logger)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}
	if c, ok := bus.(interface{ Close() error }); ok {
		defer func() { _ = c.Close() }()
	}

	sent := events.NewFundCreated("smoketest", uuid.New(), "SMOKE")
	received := make(chan *events.FundCreated, 1)
	bus.Register(events.EventTypeFundCreated, func(ctx context.Context, e events.Event) error {
		if fc, ok := e.(*events.FundCreated); ok && fc.FundID == sent.FundID {
			received <- fc
		}
		return nil
	})

	if err := bus.Emit(ctx, sent); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	logger.Info("produced", "type", sent.Type(), "fundID", sent.FundID)

	select {
	case got := <-received:
		logger.Info("consumed", "type", got.Type(), "code", got.Code)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("no event received: %w", ctx.Err())
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg, err := config.Load()
	if err != nil {
		logger.Error("config failed", "error", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := RunSmokeTest(ctx, cfg.EventBus, logger); err != nil {
		logger.Error("event bus smoke test failed", "driver", cfg.EventBus.Driver, "error", err)
		os.Exit(1)
	}
	logger.Info("event bus smoke test passed", "driver", cfg.EventBus.Driver)
}

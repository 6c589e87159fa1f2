// Package initializer turns an App config into the infrastructure the
// services run on: logger, database, unit of work, event bus and export sink.
package initializer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/amirasaad/fundledger/infra"
	infraeventbus "github.com/amirasaad/fundledger/infra/eventbus"
	"github.com/amirasaad/fundledger/infra/export"
	infrarepo "github.com/amirasaad/fundledger/infra/repository"
	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/eventbus"
	"github.com/amirasaad/fundledger/pkg/report"
)

// InitializeDependencies connects everything the services need. The returned
// cleanup closes broker connections and storage clients.
func InitializeDependencies(ctx context.Context, cfg *config.App) (
	deps *config.Deps,
	cleanup func(),
	err error,
) {
	logger := SetupLogger(cfg.Log)
	var closers []io.Closer
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i].Close(); cerr != nil {
				logger.Warn("Failed to close dependency", "error", cerr)
			}
		}
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, nil, err
	}
	if err = infra.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		return nil, nil, err
	}

	bus, err := initEventBus(cfg.EventBus, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}
	if c, ok := bus.(io.Closer); ok {
		closers = append(closers, c)
	}

	sink, err := initExporter(ctx, cfg.Export, logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to initialize exporter: %w", err)
	}
	if c, ok := sink.(io.Closer); ok {
		closers = append(closers, c)
	}

	deps = &config.Deps{
		Uow:      infrarepo.NewUoW(db),
		EventBus: bus,
		Exporter: sink,
		Logger:   logger,
		Config:   cfg,
	}
	return deps, cleanup, nil
}

// initEventBus picks the driver named in cfg. Missing connection settings
// for an explicit driver are an error; a broker that cannot be reached falls
// back to the in-memory bus so the API stays up.
func initEventBus(cfg *config.EventBus, logger *slog.Logger) (eventbus.Bus, error) {
	if cfg == nil || cfg.Driver == "" || cfg.Driver == "memory" {
		return infraeventbus.NewWithMemory(logger), nil
	}

	var (
		bus eventbus.Bus
		err error
	)
	switch cfg.Driver {
	case "redis":
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return nil, fmt.Errorf("event bus driver redis requires EVENT_BUS_REDIS_URL")
		}
		bus, err = infraeventbus.NewWithRedis(cfg.Redis, logger)
	case "kafka":
		if cfg.Kafka == nil || cfg.Kafka.Brokers == "" {
			return nil, fmt.Errorf("event bus driver kafka requires EVENT_BUS_KAFKA_BROKERS")
		}
		bus, err = infraeventbus.NewWithKafka(cfg.Kafka, logger)
	case "rabbitmq":
		if cfg.RabbitMQ == nil || cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("event bus driver rabbitmq requires EVENT_BUS_RABBITMQ_URL")
		}
		bus, err = infraeventbus.NewWithRabbitMQ(cfg.RabbitMQ, logger)
	default:
		return nil, fmt.Errorf("unsupported event bus driver %q", cfg.Driver)
	}
	if err != nil {
		logger.Warn("Event bus unreachable, falling back to memory", "driver", cfg.Driver, "error", err)
		return infraeventbus.NewWithMemory(logger), nil
	}
	logger.Info("Event bus ready", "driver", cfg.Driver)
	return bus, nil
}

func initExporter(ctx context.Context, cfg *config.Export, logger *slog.Logger) (report.Sink, error) {
	if cfg == nil {
		cfg = &config.Export{Dir: "./exports"}
	}
	if cfg.GCSBucket != "" {
		logger.Info("Exporting reports to GCS", "bucket", cfg.GCSBucket, "prefix", cfg.GCSPrefix)
		return export.NewGCSSink(ctx, cfg.GCSBucket, cfg.GCSPrefix)
	}
	logger.Info("Exporting reports to local directory", "dir", cfg.Dir)
	return export.NewLocalSink(cfg.Dir)
}

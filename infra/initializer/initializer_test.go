package initializer

import (
	"bytes"
	"context"
	"testing"

	infraeventbus "github.com/amirasaad/fundledger/infra/eventbus"
	"github.com/amirasaad/fundledger/infra/export"
	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitEventBus(t *testing.T) {
	logger := testutils.DiscardLogger()

	tests := []struct {
		name    string
		cfg     *config.EventBus
		wantErr bool
	}{
		{"nil config defaults to memory", nil, false},
		{"explicit memory", &config.EventBus{Driver: "memory"}, false},
		{"redis without url", &config.EventBus{Driver: "redis", Redis: &config.Redis{}}, true},
		{"kafka without brokers", &config.EventBus{Driver: "kafka"}, true},
		{"rabbitmq without url", &config.EventBus{Driver: "rabbitmq", RabbitMQ: &config.RabbitMQ{}}, true},
		{"unknown driver", &config.EventBus{Driver: "nats"}, true},
		{"unreachable redis falls back", &config.EventBus{Driver: "redis", Redis: &config.Redis{URL: "redis://127.0.0.1:1/0"}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bus, err := initEventBus(tc.cfg, logger)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &infraeventbus.MemoryEventBus{}, bus)
		})
	}
}

func TestInitExporterDefaultsToLocal(t *testing.T) {
	sink, err := initExporter(context.Background(), &config.Export{Dir: t.TempDir()}, testutils.DiscardLogger())
	require.NoError(t, err)
	assert.IsType(t, &export.LocalSink{}, sink)
}

func TestInitializeDependenciesWithSQLite(t *testing.T) {
	cfg := testutils.TestConfig()
	cfg.DB.Url = "sqlite://file:init_test?mode=memory&cache=shared"
	cfg.Export.Dir = t.TempDir()

	deps, cleanup, err := InitializeDependencies(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, deps.Uow)
	assert.NotNil(t, deps.Logger)
	assert.IsType(t, &infraeventbus.MemoryEventBus{}, deps.EventBus)
	assert.Same(t, cfg, deps.Config)
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Log{Format: "json", Prefix: "[test]"})
	logger.Info("fund created", "code", "MAIN")
	assert.Contains(t, buf.String(), `"code":"MAIN"`)
	assert.Contains(t, buf.String(), "fund created")
}

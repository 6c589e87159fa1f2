package config

import (
	"log/slog"

	"github.com/amirasaad/fundledger/pkg/eventbus"
	"github.com/amirasaad/fundledger/pkg/report"
	"github.com/amirasaad/fundledger/pkg/repository"
)

// Deps holds the infrastructure the services are built from.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.Bus
	Exporter report.Sink
	Logger   *slog.Logger
	Config   *App
}

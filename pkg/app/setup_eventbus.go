// Package app builds the service layer and registers the event subscribers
// that react to committed ledger writes.
package app

import (
	"github.com/amirasaad/fundledger/pkg/service/audit"
)

// setupEventBus registers the subscribers with the configured bus.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	if bus == nil {
		return
	}
	audit.NewSubscriber(a.Deps.Logger).Register(bus)
}

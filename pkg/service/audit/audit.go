// Package audit subscribes to the ledger events and writes one structured
// log line per event.
package audit

import (
	"context"
	"log/slog"

	"github.com/amirasaad/fundledger/pkg/domain/events"
	"github.com/amirasaad/fundledger/pkg/eventbus"
)

// Subscriber logs every ledger event it receives.
type Subscriber struct {
	logger *slog.Logger
}

func NewSubscriber(logger *slog.Logger) *Subscriber {
	return &Subscriber{logger: logger.With("component", "audit")}
}

// Register subscribes to every known event type.
func (s *Subscriber) Register(bus eventbus.Bus) {
	for _, et := range events.All() {
		bus.Register(et, s.Handle)
	}
}

// Handle writes the audit line.
func (s *Subscriber) Handle(ctx context.Context, e events.Event) error {
	attrs := []any{"type", e.Type()}
	switch evt := e.(type) {
	case *events.FundCreated:
		attrs = append(attrs, "userID", evt.UserID, "fundID", evt.FundID, "code", evt.Code)
	case *events.TransactionPosted:
		attrs = append(attrs, "userID", evt.UserID, "transactionID", evt.TransactionID,
			"fundID", evt.FundID, "kind", evt.Kind, "amount", evt.Amount.String())
	case *events.FundsTransferred:
		attrs = append(attrs, "userID", evt.UserID, "from", evt.FromFundID, "to", evt.ToFundID, "amount", evt.Amount.String())
	case *events.VoucherCreated:
		attrs = append(attrs, voucherAttrs(evt.VoucherEvent)...)
	case *events.VoucherClosed:
		attrs = append(attrs, voucherAttrs(evt.VoucherEvent)...)
		attrs = append(attrs, "refund", evt.RefundAmount.String(), "deleted", evt.Deleted)
	case *events.VoucherReopened:
		attrs = append(attrs, voucherAttrs(evt.VoucherEvent)...)
	}
	s.logger.InfoContext(ctx, "ledger event", attrs...)
	return nil
}

func voucherAttrs(v events.VoucherEvent) []any {
	return []any{
		"userID", v.UserID,
		"scope", v.Scope,
		"voucherID", v.VoucherID,
		"number", v.VoucherNumber,
		"fundID", v.FundID,
		"amount", v.Amount.String(),
	}
}

package transaction

import (
	"context"

	"github.com/amirasaad/fundledger/pkg/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository is the append-only fund transaction ledger.
type Repository interface {
	// Create inserts one immutable transaction row.
	Create(ctx context.Context, tx *ledger.Transaction) error

	// List returns the transactions matching filter, newest first.
	List(ctx context.Context, filter ledger.Filter) ([]*ledger.Transaction, error)

	// SumWhere returns the sum of amounts matching filter, zero when nothing matches.
	SumWhere(ctx context.Context, filter ledger.Filter) (decimal.Decimal, error)

	// SumByFund groups SumWhere by fund id.
	SumByFund(ctx context.Context, filter ledger.Filter) (map[uuid.UUID]decimal.Decimal, error)
}

package fund

import (
	"context"

	"github.com/amirasaad/fundledger/pkg/domain/ledger"
	"github.com/google/uuid"
)

// Repository stores funds. Balances are not stored; see transaction.Repository.
type Repository interface {
	Create(ctx context.Context, f *ledger.Fund) error
	Get(ctx context.Context, id uuid.UUID) (*ledger.Fund, error)
	List(ctx context.Context) ([]*ledger.Fund, error)
}

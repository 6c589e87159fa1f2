package voucher

import (
	"context"

	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository stores the vouchers and details of one scope. Project and studio
// vouchers live in separate tables.
type Repository interface {
	Scope() voucher.Scope

	Create(ctx context.Context, v *voucher.Voucher) error
	Get(ctx context.Context, id uint) (*voucher.Voucher, error)
	ExistsNumber(ctx context.Context, number string) (bool, error)

	// Update persists the mutable state: consumed amount, flags and audit fields.
	Update(ctx context.Context, v *voucher.Voucher) error

	// Touch stamps updatedById and updatedAt on the voucher row.
	Touch(ctx context.Context, id uint, updatedByID string) error

	// ListByOwner lists the vouchers of one project or studio.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, includeDeleted bool) ([]*voucher.Voucher, error)

	CreateDetail(ctx context.Context, d *voucher.Detail) error
	DeleteDetail(ctx context.Context, voucherID, detailID uint) error
	ListDetails(ctx context.Context, voucherIDs ...uint) ([]*voucher.Detail, error)
	SumDetails(ctx context.Context, voucherID uint) (decimal.Decimal, error)
}

// ProjectRepository is the project-scoped Repository.
type ProjectRepository interface {
	Repository
}

// StudioRepository is the studio-scoped Repository.
type StudioRepository interface {
	Repository
}

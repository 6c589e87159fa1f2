package repository

import (
	"context"
	"reflect"

	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	"github.com/amirasaad/fundledger/pkg/repository/category"
	"github.com/amirasaad/fundledger/pkg/repository/fund"
	"github.com/amirasaad/fundledger/pkg/repository/project"
	"github.com/amirasaad/fundledger/pkg/repository/studio"
	"github.com/amirasaad/fundledger/pkg/repository/transaction"
	voucherrepo "github.com/amirasaad/fundledger/pkg/repository/voucher"
)

// UnitOfWork defines the contract for transactional work and type-safe
// repository access. Every repository obtained inside Do shares the same
// database transaction, so a returned error rolls back every write.
//
//	repoAny, err := uow.GetRepository(reflect.TypeOf((*fund.Repository)(nil)).Elem())
//	repo := repoAny.(fund.Repository)
type UnitOfWork interface {
	// Do executes fn within a transaction boundary.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction or session.
	GetRepository(repoType reflect.Type) (any, error)

	FundRepository() (fund.Repository, error)
	TransactionRepository() (transaction.Repository, error)
	VoucherRepository(scope voucher.Scope) (voucherrepo.Repository, error)
	ProjectRepository() (project.Repository, error)
	StudioRepository() (studio.Repository, error)
	CategoryRepository() (category.Repository, error)
}

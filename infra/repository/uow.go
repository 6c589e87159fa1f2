package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	"github.com/amirasaad/fundledger/pkg/repository"
	"github.com/amirasaad/fundledger/pkg/repository/category"
	"github.com/amirasaad/fundledger/pkg/repository/fund"
	"github.com/amirasaad/fundledger/pkg/repository/project"
	"github.com/amirasaad/fundledger/pkg/repository/studio"
	"github.com/amirasaad/fundledger/pkg/repository/transaction"
	voucherrepo "github.com/amirasaad/fundledger/pkg/repository/voucher"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Repositories handed out inside Do share the transaction.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			typeOf[fund.Repository]():               func(db *gorm.DB) any { return NewFundRepository(db) },
			typeOf[transaction.Repository]():        func(db *gorm.DB) any { return NewTransactionRepository(db) },
			typeOf[voucherrepo.ProjectRepository](): func(db *gorm.DB) any { return NewProjectVoucherRepository(db) },
			typeOf[voucherrepo.StudioRepository]():  func(db *gorm.DB) any { return NewStudioVoucherRepository(db) },
			typeOf[project.Repository]():            func(db *gorm.DB) any { return NewProjectRepository(db) },
			typeOf[studio.Repository]():             func(db *gorm.DB) any { return NewStudioRepository(db) },
			typeOf[category.Repository]():           func(db *gorm.DB) any { return NewCategoryRepository(db) },
		},
	}
}

// Do runs fn in a database transaction. A non-nil error from fn, or a panic,
// rolls back every write made through the UoW passed to fn.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	})
}

// GetRepository returns the repository registered for repoType, bound to the
// transaction when called inside Do and to the plain session otherwise.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func get[T any](u *UoW) (T, error) {
	var zero T
	repoAny, err := u.GetRepository(typeOf[T]())
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("repository for %v has unexpected type %T", typeOf[T](), repoAny)
	}
	return repo, nil
}

func (u *UoW) FundRepository() (fund.Repository, error) {
	return get[fund.Repository](u)
}

func (u *UoW) TransactionRepository() (transaction.Repository, error) {
	return get[transaction.Repository](u)
}

// VoucherRepository returns the repository for the scope's tables.
func (u *UoW) VoucherRepository(scope voucher.Scope) (voucherrepo.Repository, error) {
	switch scope {
	case voucher.ScopeProject:
		return get[voucherrepo.ProjectRepository](u)
	case voucher.ScopeStudio:
		return get[voucherrepo.StudioRepository](u)
	}
	return nil, fmt.Errorf("unsupported voucher scope: %q", scope)
}

func (u *UoW) ProjectRepository() (project.Repository, error) {
	return get[project.Repository](u)
}

func (u *UoW) StudioRepository() (studio.Repository, error) {
	return get[studio.Repository](u)
}

func (u *UoW) CategoryRepository() (category.Repository, error) {
	return get[category.Repository](u)
}

var _ repository.UnitOfWork = (*UoW)(nil)

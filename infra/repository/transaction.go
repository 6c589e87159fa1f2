package repository

import (
	"context"

	"github.com/amirasaad/fundledger/infra/repository/model"
	"github.com/amirasaad/fundledger/pkg/domain/ledger"
	"github.com/amirasaad/fundledger/pkg/repository/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates the append-only ledger repository over db.
func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	row := model.TransactionFromDomain(tx)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&row).Error
	})
}

func (r *transactionRepository) List(ctx context.Context, filter ledger.Filter) ([]*ledger.Transaction, error) {
	var rows []model.FundTransaction
	q := applyFilter(r.db.WithContext(ctx).Model(&model.FundTransaction{}), filter)
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*ledger.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

func (r *transactionRepository) SumWhere(ctx context.Context, filter ledger.Filter) (decimal.Decimal, error) {
	var total decimal.Decimal
	q := applyFilter(r.db.WithContext(ctx).Model(&model.FundTransaction{}), filter)
	if err := q.Select("COALESCE(SUM(amount), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, MapGormErrorToDomain(err)
	}
	return total.Round(2), nil
}

type fundTotal struct {
	FundID uuid.UUID
	Total  decimal.Decimal
}

func (r *transactionRepository) SumByFund(ctx context.Context, filter ledger.Filter) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []fundTotal
	q := applyFilter(r.db.WithContext(ctx).Model(&model.FundTransaction{}), filter)
	if err := q.Select("fund_id, COALESCE(SUM(amount), 0) AS total").Group("fund_id").Scan(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.FundID] = row.Total.Round(2)
	}
	return out, nil
}

func applyFilter(q *gorm.DB, f ledger.Filter) *gorm.DB {
	if f.FundID != nil {
		q = q.Where("fund_id = ?", *f.FundID)
	}
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if f.StudioID != nil {
		q = q.Where("studio_id = ?", *f.StudioID)
	}
	if len(f.Kinds) > 0 {
		kinds := make([]string, 0, len(f.Kinds))
		for _, k := range f.Kinds {
			kinds = append(kinds, string(k))
		}
		q = q.Where("type IN ?", kinds)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	return q
}

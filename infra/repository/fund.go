package repository

import (
	"context"

	"github.com/amirasaad/fundledger/infra/repository/model"
	"github.com/amirasaad/fundledger/pkg/domain/ledger"
	"github.com/amirasaad/fundledger/pkg/repository/fund"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fundRepository struct {
	db *gorm.DB
}

// NewFundRepository creates a fund repository over db.
func NewFundRepository(db *gorm.DB) fund.Repository {
	return &fundRepository{db: db}
}

func (r *fundRepository) Create(ctx context.Context, f *ledger.Fund) error {
	row := model.FundFromDomain(f)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&row).Error
	})
}

func (r *fundRepository) Get(ctx context.Context, id uuid.UUID) (*ledger.Fund, error) {
	var row model.Fund
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "fund", id)
	}
	return row.ToDomain(), nil
}

func (r *fundRepository) List(ctx context.Context) ([]*ledger.Fund, error) {
	var rows []model.Fund
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*ledger.Fund, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

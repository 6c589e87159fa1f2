package repository

import (
	"context"
	"errors"
	"time"

	"github.com/amirasaad/fundledger/infra/repository/model"
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	voucherrepo "github.com/amirasaad/fundledger/pkg/repository/voucher"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type voucherRecord[T any] interface {
	*T
	ToDomain() *voucher.Voucher
	FromDomain(v *voucher.Voucher)
	OwnerColumn() string
	VoucherID() uint
}

type detailRecord[T any] interface {
	*T
	ToDomain() *voucher.Detail
	FromDomain(d *voucher.Detail)
	DetailID() uint
}

// voucherRepository serves both voucher scopes; V and D pick the tables.
type voucherRepository[V, D any, PV voucherRecord[V], PD detailRecord[D]] struct {
	db    *gorm.DB
	scope voucher.Scope
}

// NewProjectVoucherRepository stores vouchers in project_vouchers.
func NewProjectVoucherRepository(db *gorm.DB) voucherrepo.ProjectRepository {
	return &voucherRepository[model.ProjectVoucher, model.ProjectVoucherDetail, *model.ProjectVoucher, *model.ProjectVoucherDetail]{
		db:    db,
		scope: voucher.ScopeProject,
	}
}

// NewStudioVoucherRepository stores vouchers in studio_vouchers.
func NewStudioVoucherRepository(db *gorm.DB) voucherrepo.StudioRepository {
	return &voucherRepository[model.StudioVoucher, model.StudioVoucherDetail, *model.StudioVoucher, *model.StudioVoucherDetail]{
		db:    db,
		scope: voucher.ScopeStudio,
	}
}

func (r *voucherRepository[V, D, PV, PD]) Scope() voucher.Scope {
	return r.scope
}

func (r *voucherRepository[V, D, PV, PD]) Create(ctx context.Context, v *voucher.Voucher) error {
	var row V
	PV(&row).FromDomain(v)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &voucher.DuplicateNumberError{Scope: r.scope, Number: v.VoucherNumber}
		}
		return MapGormErrorToDomain(err)
	}
	v.ID = PV(&row).VoucherID()
	return nil
}

func (r *voucherRepository[V, D, PV, PD]) Get(ctx context.Context, id uint) (*voucher.Voucher, error) {
	var row V
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "voucher", id)
	}
	return PV(&row).ToDomain(), nil
}

func (r *voucherRepository[V, D, PV, PD]) ExistsNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(new(V)).
		Where("voucher_number = ?", voucher.NormalizeNumber(number)).
		Count(&count).Error
	if err != nil {
		return false, MapGormErrorToDomain(err)
	}
	return count > 0, nil
}

func (r *voucherRepository[V, D, PV, PD]) Update(ctx context.Context, v *voucher.Voucher) error {
	updates := map[string]any{
		"consumed_amount": v.ConsumedAmount,
		"is_closed":       v.IsClosed,
		"is_deleted":      v.IsDeleted,
		"updated_by_id":   v.UpdatedByID,
		"updated_at":      v.UpdatedAt,
	}
	if r.scope == voucher.ScopeProject {
		updates["cost_plus"] = v.CostPlus
	}
	res := r.db.WithContext(ctx).Model(new(V)).Where("id = ?", v.ID).Updates(updates)
	return affected(res, "voucher", v.ID)
}

func (r *voucherRepository[V, D, PV, PD]) Touch(ctx context.Context, id uint, updatedByID string) error {
	res := r.db.WithContext(ctx).Model(new(V)).Where("id = ?", id).Updates(map[string]any{
		"updated_by_id": updatedByID,
		"updated_at":    time.Now().UTC(),
	})
	return affected(res, "voucher", id)
}

func (r *voucherRepository[V, D, PV, PD]) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	includeDeleted bool,
) ([]*voucher.Voucher, error) {
	var rows []V
	q := r.db.WithContext(ctx).Where(PV(new(V)).OwnerColumn()+" = ?", ownerID)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if err := q.Order("transaction_date, id").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*voucher.Voucher, 0, len(rows))
	for i := range rows {
		out = append(out, PV(&rows[i]).ToDomain())
	}
	return out, nil
}

func (r *voucherRepository[V, D, PV, PD]) CreateDetail(ctx context.Context, d *voucher.Detail) error {
	var row D
	PD(&row).FromDomain(d)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	d.ID = PD(&row).DetailID()
	return nil
}

func (r *voucherRepository[V, D, PV, PD]) DeleteDetail(ctx context.Context, voucherID, detailID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND voucher_id = ?", detailID, voucherID).
		Delete(new(D))
	return affected(res, "detail", detailID)
}

func (r *voucherRepository[V, D, PV, PD]) ListDetails(ctx context.Context, voucherIDs ...uint) ([]*voucher.Detail, error) {
	if len(voucherIDs) == 0 {
		return nil, nil
	}
	var rows []D
	if err := r.db.WithContext(ctx).Where("voucher_id IN ?", voucherIDs).Order("id").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*voucher.Detail, 0, len(rows))
	for i := range rows {
		out = append(out, PD(&rows[i]).ToDomain())
	}
	return out, nil
}

func (r *voucherRepository[V, D, PV, PD]) SumDetails(ctx context.Context, voucherID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(new(D)).
		Select("COALESCE(SUM(amount), 0)").
		Where("voucher_id = ?", voucherID).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, MapGormErrorToDomain(err)
	}
	return total.Round(2), nil
}

var _ voucherrepo.Repository = (*voucherRepository[model.ProjectVoucher, model.ProjectVoucherDetail, *model.ProjectVoucher, *model.ProjectVoucherDetail])(nil)

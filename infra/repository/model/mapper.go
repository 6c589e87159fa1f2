package model

import (
	"github.com/amirasaad/fundledger/pkg/domain/category"
	"github.com/amirasaad/fundledger/pkg/domain/ledger"
	"github.com/amirasaad/fundledger/pkg/domain/project"
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
)

func FundFromDomain(f *ledger.Fund) Fund {
	return Fund{
		ID:          f.ID,
		Name:        f.Name,
		Code:        f.Code,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
	}
}

func (m *Fund) ToDomain() *ledger.Fund {
	return &ledger.Fund{
		ID:          m.ID,
		Name:        m.Name,
		Code:        m.Code,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

func TransactionFromDomain(t *ledger.Transaction) FundTransaction {
	return FundTransaction{
		ID:          t.ID,
		Amount:      t.Amount,
		Description: t.Description,
		FundID:      t.FundID,
		ProjectID:   t.ProjectID,
		StudioID:    t.StudioID,
		Type:        string(t.Type),
		CreatedAt:   t.CreatedAt,
		CreatedByID: t.CreatedByID,
		Comments:    t.Comments,
	}
}

func (m *FundTransaction) ToDomain() *ledger.Transaction {
	return &ledger.Transaction{
		ID:          m.ID,
		Amount:      m.Amount,
		Description: m.Description,
		FundID:      m.FundID,
		ProjectID:   m.ProjectID,
		StudioID:    m.StudioID,
		Type:        ledger.Kind(m.Type),
		CreatedAt:   m.CreatedAt,
		CreatedByID: m.CreatedByID,
		Comments:    m.Comments,
	}
}

func SiteFromDomain(s project.Site) Site {
	return Site{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		Description:   s.Description,
		Location:      s.Location,
		EstimatedCost: s.EstimatedCost,
		CreatedAt:     s.CreatedAt,
	}
}

func (m *Site) ToDomain() project.Site {
	return project.Site{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		Description:   m.Description,
		Location:      m.Location,
		EstimatedCost: m.EstimatedCost,
		CreatedAt:     m.CreatedAt,
	}
}

func AddOnFromDomain(a *project.AddOn) ProjectAddOn {
	return ProjectAddOn{
		ID:          a.ID,
		ProjectID:   a.ProjectID,
		Description: a.Description,
		Amount:      a.Amount,
		Quantity:    a.Quantity,
		Total:       a.Total,
		CostPlus:    a.CostPlus,
		UpdatedByID: a.UpdatedByID,
	}
}

func (m *ProjectAddOn) ToDomain() *project.AddOn {
	return &project.AddOn{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		Description: m.Description,
		Amount:      m.Amount,
		Quantity:    m.Quantity,
		Total:       m.Total,
		CostPlus:    m.CostPlus,
		UpdatedByID: m.UpdatedByID,
	}
}

func SettingFromDomain(s *project.Setting) ProjectSetting {
	return ProjectSetting{
		ID:              s.ID,
		ProjectID:       s.ProjectID,
		Description:     s.Description,
		PercentageAddOn: s.PercentageAddOn,
		StartDate:       voucher.DateOnly(s.StartDate),
		EndDate:         dateOnlyPtr(s.EndDate),
		IsContingency:   s.IsContingency,
	}
}

func (m *ProjectSetting) ToDomain() *project.Setting {
	return &project.Setting{
		ID:              m.ID,
		ProjectID:       m.ProjectID,
		Description:     m.Description,
		PercentageAddOn: m.PercentageAddOn,
		StartDate:       voucher.DateOnly(m.StartDate),
		EndDate:         dateOnlyPtr(m.EndDate),
		IsContingency:   m.IsContingency,
	}
}

func CategoryFromDomain(c *category.Category) DetailCategory {
	return DetailCategory{ID: c.ID, Description: c.Description, ParentID: c.ParentID}
}

func (m *DetailCategory) ToDomain() category.Category {
	return category.Category{ID: m.ID, Description: m.Description, ParentID: m.ParentID}
}

func voucherColumns(v *voucher.Voucher) VoucherColumns {
	return VoucherColumns{
		ID:              v.ID,
		VoucherNumber:   v.VoucherNumber,
		Description:     v.Description,
		DisbursedAmount: v.DisbursedAmount,
		ConsumedAmount:  v.ConsumedAmount,
		FundID:          v.FundID,
		TransactionDate: voucher.DateOnly(v.TransactionDate),
		IsClosed:        v.IsClosed,
		IsDeleted:       v.IsDeleted,
		UpdatedByID:     v.UpdatedByID,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func (c *VoucherColumns) toDomain(scope voucher.Scope) *voucher.Voucher {
	return &voucher.Voucher{
		ID:              c.ID,
		Scope:           scope,
		VoucherNumber:   c.VoucherNumber,
		Description:     c.Description,
		DisbursedAmount: c.DisbursedAmount,
		ConsumedAmount:  c.ConsumedAmount,
		FundID:          c.FundID,
		TransactionDate: voucher.DateOnly(c.TransactionDate),
		IsClosed:        c.IsClosed,
		IsDeleted:       c.IsDeleted,
		UpdatedByID:     c.UpdatedByID,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (m *ProjectVoucher) ToDomain() *voucher.Voucher {
	v := m.toDomain(voucher.ScopeProject)
	v.OwnerID = m.ProjectID
	v.CostPlus = m.CostPlus
	return v
}

func (m *ProjectVoucher) FromDomain(v *voucher.Voucher) {
	m.VoucherColumns = voucherColumns(v)
	m.ProjectID = v.OwnerID
	m.CostPlus = v.CostPlus
}

// OwnerColumn names the foreign key to the owning project.
func (ProjectVoucher) OwnerColumn() string {
	return "project_id"
}

func (m *StudioVoucher) ToDomain() *voucher.Voucher {
	v := m.toDomain(voucher.ScopeStudio)
	v.OwnerID = m.StudioID
	return v
}

func (m *StudioVoucher) FromDomain(v *voucher.Voucher) {
	m.VoucherColumns = voucherColumns(v)
	m.StudioID = v.OwnerID
}

func (StudioVoucher) OwnerColumn() string {
	return "studio_id"
}

func detailColumns(d *voucher.Detail) DetailColumns {
	return DetailColumns{
		ID:               d.ID,
		VoucherID:        d.VoucherID,
		Description:      d.Description,
		Amount:           d.Amount,
		Quantity:         d.Quantity,
		DetailCategoryID: d.DetailCategoryID,
		SupplierName:     d.SupplierName,
		ReferenceNumber:  d.ReferenceNumber,
	}
}

func (c *DetailColumns) ToDomain() *voucher.Detail {
	return &voucher.Detail{
		ID:               c.ID,
		VoucherID:        c.VoucherID,
		Description:      c.Description,
		Amount:           c.Amount,
		Quantity:         c.Quantity,
		DetailCategoryID: c.DetailCategoryID,
		SupplierName:     c.SupplierName,
		ReferenceNumber:  c.ReferenceNumber,
	}
}

func (c *DetailColumns) FromDomain(d *voucher.Detail) {
	*c = detailColumns(d)
}

func (c *DetailColumns) DetailID() uint {
	return c.ID
}

func (c *VoucherColumns) VoucherID() uint {
	return c.ID
}

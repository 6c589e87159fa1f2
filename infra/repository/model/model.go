// Package model holds the gorm table mappings of the ledger store.
package model

import (
	"time"

	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fund represents a fund record in the database.
type Fund struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:255;not null"`
	Code        string    `gorm:"size:32;not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
}

func (Fund) TableName() string {
	return "funds"
}

// FundTransaction is one immutable ledger row. Rows are never updated.
type FundTransaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Description string          `gorm:"type:text"`
	FundID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProjectID   *uuid.UUID      `gorm:"type:uuid;index"`
	StudioID    *uuid.UUID      `gorm:"type:uuid;index"`
	Type        string          `gorm:"size:16;not null;index"`
	CreatedAt   time.Time       `gorm:"index"`
	CreatedByID string          `gorm:"size:64"`
	Comments    string          `gorm:"type:text"`
}

func (FundTransaction) TableName() string {
	return "fund_transactions"
}

// Site is the column set shared by projects and studios.
type Site struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Code          string           `gorm:"size:32;not null;uniqueIndex"`
	Name          string           `gorm:"size:255;not null"`
	Description   string           `gorm:"type:text"`
	Location      string           `gorm:"size:255"`
	EstimatedCost *decimal.Decimal `gorm:"type:decimal(14,2)"`
	CreatedAt     time.Time
}

type Project struct {
	Site
}

func (Project) TableName() string {
	return "projects"
}

type Studio struct {
	Site
}

func (Studio) TableName() string {
	return "studios"
}

type ProjectAddOn struct {
	ID          uint            `gorm:"primaryKey"`
	ProjectID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:text;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CostPlus    bool            `gorm:"not null;default:false"`
	UpdatedByID string          `gorm:"size:64"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProjectAddOn) TableName() string {
	return "project_add_ons"
}

type ProjectSetting struct {
	ID              uint            `gorm:"primaryKey"`
	ProjectID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description     string          `gorm:"type:text;not null"`
	PercentageAddOn decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	StartDate       time.Time       `gorm:"type:date;not null"`
	EndDate         *time.Time      `gorm:"type:date"`
	IsContingency   bool            `gorm:"not null;default:false"`
}

func (ProjectSetting) TableName() string {
	return "project_settings"
}

type DetailCategory struct {
	ID          uint   `gorm:"primaryKey"`
	Description string `gorm:"size:255;not null"`
	ParentID    *uint  `gorm:"index"`
}

func (DetailCategory) TableName() string {
	return "detail_categories"
}

// VoucherColumns is the column set shared by project and studio vouchers.
type VoucherColumns struct {
	ID              uint            `gorm:"primaryKey"`
	VoucherNumber   string          `gorm:"size:64;not null;uniqueIndex"`
	Description     string          `gorm:"type:text"`
	DisbursedAmount decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ConsumedAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FundID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TransactionDate time.Time       `gorm:"type:date;not null"`
	IsClosed        bool            `gorm:"not null;default:false"`
	IsDeleted       bool            `gorm:"not null;default:false"`
	UpdatedByID     string          `gorm:"size:64"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ProjectVoucher struct {
	VoucherColumns
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"`
	CostPlus  bool      `gorm:"not null;default:false"`
}

func (ProjectVoucher) TableName() string {
	return "project_vouchers"
}

type StudioVoucher struct {
	VoucherColumns
	StudioID uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (StudioVoucher) TableName() string {
	return "studio_vouchers"
}

// DetailColumns is the column set shared by project and studio voucher details.
type DetailColumns struct {
	ID               uint             `gorm:"primaryKey"`
	VoucherID        uint             `gorm:"not null;index"`
	Description      string           `gorm:"type:text;not null"`
	Amount           decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	Quantity         *decimal.Decimal `gorm:"type:decimal(14,2)"`
	DetailCategoryID uint             `gorm:"not null;index"`
	SupplierName     string           `gorm:"size:255"`
	ReferenceNumber  string           `gorm:"size:128"`
	CreatedAt        time.Time
}

type ProjectVoucherDetail struct {
	DetailColumns
}

func (ProjectVoucherDetail) TableName() string {
	return "project_voucher_details"
}

type StudioVoucherDetail struct {
	DetailColumns
}

func (StudioVoucherDetail) TableName() string {
	return "studio_voucher_details"
}

// All lists every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Fund{},
		&Project{},
		&Studio{},
		&FundTransaction{},
		&DetailCategory{},
		&ProjectAddOn{},
		&ProjectSetting{},
		&ProjectVoucher{},
		&StudioVoucher{},
		&ProjectVoucherDetail{},
		&StudioVoucherDetail{},
	}
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := voucher.DateOnly(*t)
	return &d
}

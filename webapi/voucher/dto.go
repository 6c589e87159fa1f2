package voucher

import "github.com/shopspring/decimal"

// CreateVoucherRequest is the body of POST /projects/:id/vouchers and
// POST /studios/:id/vouchers.
type CreateVoucherRequest struct {
	FundID          string          `json:"fundId" validate:"required,uuid"`
	VoucherNumber   string          `json:"voucherNumber" validate:"required,max=50"`
	Description     string          `json:"description" validate:"max=500"`
	DisbursedAmount decimal.Decimal `json:"disbursedAmount" swaggertype:"string" example:"70000.00"`
	TransactionDate string          `json:"transactionDate" validate:"required,datetime=2006-01-02"`
	CostPlus        bool            `json:"costPlus"`
}

// DetailRequest is the body of POST /vouchers/:scope/:voucherId/details.
type DetailRequest struct {
	Description      string           `json:"description" validate:"required,max=500"`
	Amount           decimal.Decimal  `json:"amount" swaggertype:"string" example:"35000.00"`
	Quantity         *decimal.Decimal `json:"quantity" swaggertype:"string"`
	DetailCategoryID uint             `json:"detailCategoryId" validate:"required"`
	SupplierName     string           `json:"supplierName" validate:"max=200"`
	ReferenceNumber  string           `json:"referenceNumber" validate:"max=100"`
}

// CloseRequest is the optional body of POST /vouchers/:scope/:voucherId/close.
type CloseRequest struct {
	RefundFundID string `json:"refundFundId" validate:"omitempty,uuid"`
}

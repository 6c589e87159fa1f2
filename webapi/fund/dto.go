package fund

import "github.com/shopspring/decimal"

// CreateFundRequest is the body of POST /funds.
type CreateFundRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Code        string `json:"code" validate:"required,max=20"`
	Description string `json:"description" validate:"max=500"`
}

// PostTransactionRequest is the body of POST /funds/:id/transactions.
type PostTransactionRequest struct {
	Type        string          `json:"type" validate:"required,oneof=collection refund disbursement transfer"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"1500.00"`
	Description string          `json:"description" validate:"max=500"`
	ProjectID   string          `json:"projectId" validate:"omitempty,uuid"`
	StudioID    string          `json:"studioId" validate:"omitempty,uuid"`
	Comments    string          `json:"comments" validate:"max=500"`
}

// TransferRequest is the body of POST /funds/:id/transfer.
type TransferRequest struct {
	ToFundID    string          `json:"toFundId" validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"250.00"`
	Description string          `json:"description" validate:"max=500"`
}

// BalanceResponse carries a derived fund balance.
type BalanceResponse struct {
	FundID  string          `json:"fundId"`
	Balance decimal.Decimal `json:"balance" swaggertype:"string"`
	From    string          `json:"from,omitempty"`
	To      string          `json:"to,omitempty"`
}

package project

import "github.com/shopspring/decimal"

// SiteRequest is the body of POST /projects and POST /studios.
type SiteRequest struct {
	Code          string           `json:"code" validate:"required,max=20"`
	Name          string           `json:"name" validate:"required,max=200"`
	Description   string           `json:"description" validate:"max=1000"`
	Location      string           `json:"location" validate:"max=200"`
	EstimatedCost *decimal.Decimal `json:"estimatedCost" swaggertype:"string"`
}

// AddOnRequest is the body of POST /projects/:id/addons.
type AddOnRequest struct {
	Description string          `json:"description" validate:"required,max=500"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"500.00"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string" example:"2"`
	CostPlus    bool            `json:"costPlus"`
}

// SettingRequest is the body of POST /projects/:id/settings.
type SettingRequest struct {
	Description     string          `json:"description" validate:"required,max=500"`
	PercentageAddOn decimal.Decimal `json:"percentageAddOn" swaggertype:"string" example:"10"`
	StartDate       string          `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate         string          `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	IsContingency   bool            `json:"isContingency"`
}

// ExportResponse reports where an uploaded export was stored.
type ExportResponse struct {
	Location string `json:"location"`
}

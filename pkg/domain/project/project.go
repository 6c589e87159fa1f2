package project

import (
	"strings"
	"time"

	"github.com/amirasaad/fundledger/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Site carries the fields shared by projects and studios.
type Site struct {
	ID            uuid.UUID        `json:"id"`
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Location      string           `json:"location"`
	EstimatedCost *decimal.Decimal `json:"estimatedCost"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// Project is a cost centre with vouchers, add-on expenses and cost-plus settings.
type Project struct {
	Site
}

// Studio is a cost centre with vouchers only.
type Studio struct {
	Site
}

// NewSite validates and builds the shared fields; the code is uppercased.
func NewSite(code, name, description, location string, estimatedCost *decimal.Decimal) (Site, error) {
	v := &domain.ValidationError{}
	domain.ValidateRequiredString(v, "code", code)
	domain.ValidateRequiredString(v, "name", name)
	if estimatedCost != nil && estimatedCost.IsNegative() {
		v.Add("estimatedCost", "Estimated cost must not be negative.")
	}
	if err := v.OrNil(); err != nil {
		return Site{}, err
	}
	return Site{
		ID:            uuid.New(),
		Code:          strings.ToUpper(strings.TrimSpace(code)),
		Name:          strings.TrimSpace(name),
		Description:   description,
		Location:      location,
		EstimatedCost: estimatedCost,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// AddOn is an expense line item recorded directly against a project.
// CostPlus marks the add-on as part of the cost-plus base.
type AddOn struct {
	ID          uint            `json:"id"`
	ProjectID   uuid.UUID       `json:"projectId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Quantity    decimal.Decimal `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	CostPlus    bool            `json:"costPlus"`
	UpdatedByID string          `json:"updatedById"`
}

// NewAddOn validates the input and computes Total = Amount × Quantity.
func NewAddOn(projectID uuid.UUID, description string, amount, quantity decimal.Decimal, costPlus bool, updatedBy string) (*AddOn, error) {
	v := &domain.ValidationError{}
	domain.ValidateRequiredString(v, "description", description)
	if amount.IsZero() {
		v.Add("amount", "Amount must not be zero.")
	}
	if !quantity.IsPositive() {
		v.Add("quantity", "Quantity must be greater than zero.")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return &AddOn{
		ProjectID:   projectID,
		Description: description,
		Amount:      amount,
		Quantity:    quantity,
		Total:       amount.Mul(quantity),
		CostPlus:    costPlus,
		UpdatedByID: updatedBy,
	}, nil
}

// Setting is a percentage overhead rule applied to the cost-plus base over a
// date window. A nil EndDate means the rule is not windowed.
type Setting struct {
	ID              uint            `json:"id"`
	ProjectID       uuid.UUID       `json:"projectId"`
	Description     string          `json:"description"`
	PercentageAddOn decimal.Decimal `json:"percentageAddOn"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         *time.Time      `json:"endDate"`
	IsContingency   bool            `json:"isContingency"`
}

// NewSetting validates the percentage range and the window bounds.
func NewSetting(
	projectID uuid.UUID,
	description string,
	percentage decimal.Decimal,
	start time.Time,
	end *time.Time,
	isContingency bool,
) (*Setting, error) {
	v := &domain.ValidationError{}
	domain.ValidateRequiredString(v, "description", description)
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		v.Add("percentageAddOn", "Percentage must be between 0 and 100.")
	}
	if start.IsZero() {
		v.Add("startDate", "This field is required.")
	}
	if end != nil && !start.IsZero() && end.Before(start) {
		v.Add("endDate", "End date must not be before start date.")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return &Setting{
		ProjectID:       projectID,
		Description:     description,
		PercentageAddOn: percentage,
		StartDate:       start,
		EndDate:         end,
		IsContingency:   isContingency,
	}, nil
}

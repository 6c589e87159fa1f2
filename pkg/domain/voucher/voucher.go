// Package voucher models disbursement vouchers issued to projects and studios
// and the itemized details recorded against them.
//
// Lifecycle: Open -> Closed [-> Deleted]. Studio vouchers may also go
// Closed -> Open again.
package voucher

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/fundledger/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scope says whether a voucher belongs to a project or a studio.
type Scope string

const (
	ScopeProject Scope = "project"
	ScopeStudio  Scope = "studio"
)

// ParseScope accepts both singular and plural route spellings.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "project", "projects":
		return ScopeProject, nil
	case "studio", "studios":
		return ScopeStudio, nil
	}
	return "", domain.NewValidationError("scope", fmt.Sprintf("Unknown voucher scope %q.", s))
}

// Voucher is money disbursed from a fund to a project or studio.
type Voucher struct {
	ID              uint            `json:"id"`
	Scope           Scope           `json:"scope"`
	VoucherNumber   string          `json:"voucherNumber"`
	Description     string          `json:"description"`
	DisbursedAmount decimal.Decimal `json:"disbursedAmount"`
	ConsumedAmount  decimal.Decimal `json:"consumedAmount"`
	FundID          uuid.UUID       `json:"fundId"`
	OwnerID         uuid.UUID       `json:"ownerId"`         // project or studio id, per Scope
	TransactionDate time.Time       `json:"transactionDate"`
	IsClosed        bool            `json:"isClosed"`
	IsDeleted       bool            `json:"isDeleted"`
	CostPlus        bool            `json:"costPlus"`
	UpdatedByID     string          `json:"updatedById"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Detail is one itemized expense recorded against a voucher.
type Detail struct {
	ID               uint             `json:"id"`
	VoucherID        uint             `json:"voucherId"`
	Description      string           `json:"description"`
	Amount           decimal.Decimal  `json:"amount"`
	Quantity         *decimal.Decimal `json:"quantity"`
	DetailCategoryID uint             `json:"detailCategoryId"`
	SupplierName     string           `json:"supplierName"`
	ReferenceNumber  string           `json:"referenceNumber"`
}

// NormalizeNumber trims and uppercases a voucher number.
func NormalizeNumber(n string) string {
	return strings.ToUpper(strings.TrimSpace(n))
}

// New validates the input and returns an open voucher whose consumed amount
// starts equal to the disbursed amount.
func New(
	scope Scope,
	ownerID, fundID uuid.UUID,
	number, description string,
	disbursed decimal.Decimal,
	transactionDate time.Time,
	costPlus bool,
	updatedBy string,
) (*Voucher, error) {
	v := &domain.ValidationError{}
	if scope != ScopeProject && scope != ScopeStudio {
		v.Add("scope", "Unknown voucher scope.")
	}
	domain.ValidateRequiredString(v, "voucherNumber", number)
	if !disbursed.IsPositive() {
		v.Add("disbursedAmount", "Disbursed amount must be greater than zero.")
	}
	if fundID == uuid.Nil {
		v.Add("fundId", "This field is required.")
	}
	if ownerID == uuid.Nil {
		v.Add(string(scope)+"Id", "This field is required.")
	}
	if transactionDate.IsZero() {
		v.Add("transactionDate", "This field is required.")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if scope == ScopeStudio {
		costPlus = false
	}
	now := time.Now().UTC()
	return &Voucher{
		Scope:           scope,
		VoucherNumber:   NormalizeNumber(number),
		Description:     description,
		DisbursedAmount: disbursed,
		ConsumedAmount:  disbursed,
		FundID:          fundID,
		OwnerID:         ownerID,
		TransactionDate: DateOnly(transactionDate),
		CostPlus:        costPlus,
		UpdatedByID:     updatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsOpen reports whether details may still be recorded.
func (v *Voucher) IsOpen() bool {
	return !v.IsClosed && !v.IsDeleted
}

// AlreadyClosedError reports a voucher that is not in the state an operation expects.
type AlreadyClosedError struct {
	VoucherID uint
	Closed    bool
	Deleted   bool
}

func (e *AlreadyClosedError) Error() string {
	switch {
	case e.Deleted:
		return fmt.Sprintf("voucher %d is deleted", e.VoucherID)
	case e.Closed:
		return fmt.Sprintf("voucher %d is already closed", e.VoucherID)
	default:
		return fmt.Sprintf("voucher %d is not closed", e.VoucherID)
	}
}

func (e *AlreadyClosedError) Is(target error) bool {
	return target == domain.ErrAlreadyClosed
}

// StateError builds the error for a voucher found in the wrong state.
func (v *Voucher) StateError() error {
	return &AlreadyClosedError{VoucherID: v.ID, Closed: v.IsClosed, Deleted: v.IsDeleted}
}

// DuplicateNumberError reports a voucher number already used within a scope.
type DuplicateNumberError struct {
	Scope  Scope
	Number string
}

func (e *DuplicateNumberError) Error() string {
	return fmt.Sprintf("%s voucher number %s already exists", e.Scope, e.Number)
}

func (e *DuplicateNumberError) Is(target error) bool {
	return target == domain.ErrDuplicateVoucherNumber
}

// CheckDetail rejects a detail that would push the itemized total above the
// disbursed amount. itemized is the sum of the details already recorded.
func (v *Voucher) CheckDetail(d *Detail, itemized decimal.Decimal) error {
	if !v.IsOpen() {
		return v.StateError()
	}
	ve := &domain.ValidationError{}
	domain.ValidateRequiredString(ve, "description", d.Description)
	if !d.Amount.IsPositive() {
		ve.Add("amount", "Amount must be greater than zero.")
	} else if itemized.Add(d.Amount).GreaterThan(v.DisbursedAmount) {
		available := v.DisbursedAmount.Sub(itemized)
		ve.Add("amount", fmt.Sprintf("Amount exceeds the available %s on this voucher.", available.StringFixed(2)))
	}
	if d.DetailCategoryID == 0 {
		ve.Add("detailCategoryId", "This field is required.")
	}
	if d.Quantity != nil && d.Quantity.IsNegative() {
		ve.Add("quantity", "Quantity must not be negative.")
	}
	return ve.OrNil()
}

// Closing is the outcome of reconciling a voucher against its details.
type Closing struct {
	ConsumedAmount decimal.Decimal
	RefundAmount   decimal.Decimal
	IsDeleted      bool
}

// NeedsRefund reports whether a refund transaction must be posted.
func (c Closing) NeedsRefund() bool {
	return !c.RefundAmount.IsZero()
}

// Reconcile computes the close outcome from the detail amounts. The voucher
// is retired (IsDeleted) when the whole disbursement comes back.
func (v *Voucher) Reconcile(details []*Detail) (Closing, error) {
	if !v.IsOpen() {
		return Closing{}, v.StateError()
	}
	consumed := SumDetails(details)
	if consumed.GreaterThan(v.DisbursedAmount) {
		return Closing{}, domain.NewValidationError(
			"amount",
			fmt.Sprintf("Itemized total %s exceeds disbursed amount %s.",
				consumed.StringFixed(2), v.DisbursedAmount.StringFixed(2)),
		)
	}
	refund := v.DisbursedAmount.Sub(consumed)
	return Closing{
		ConsumedAmount: consumed,
		RefundAmount:   refund,
		IsDeleted:      refund.Equal(v.DisbursedAmount),
	}, nil
}

// Apply records the close outcome on the voucher.
func (v *Voucher) Apply(c Closing, updatedBy string) {
	v.ConsumedAmount = c.ConsumedAmount
	v.IsClosed = true
	v.IsDeleted = c.IsDeleted
	v.UpdatedByID = updatedBy
	v.UpdatedAt = time.Now().UTC()
}

// SumDetails folds detail amounts.
func SumDetails(details []*Detail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.Amount)
	}
	return total
}

// Package ledger holds the fund and fund transaction entities.
//
// Invariants:
//   - A fund's balance is never stored; it is the sum of its transactions' amounts.
//   - Transactions are immutable once posted.
//   - Collections are positive and disbursements negative; refunds and
//     transfer legs may carry either sign.
package ledger

import (
	"strings"
	"time"

	"github.com/amirasaad/fundledger/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind is the type of a fund transaction.
type Kind string

const (
	KindCollection   Kind = "collection"
	KindRefund       Kind = "refund"
	KindDisbursement Kind = "disbursement"
	KindTransfer     Kind = "transfer"
)

// ParseKind normalises a submitted kind and reports whether it is known.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindCollection, KindRefund, KindDisbursement, KindTransfer:
		return k, true
	}
	return k, false
}

// Fund is a pool of money that collections flow into and vouchers draw from.
type Fund struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FundWithBalance pairs a fund with its derived balance.
type FundWithBalance struct {
	Fund
	Balance decimal.Decimal `json:"balance"`
}

// Transaction is a single signed movement of money into or out of a fund.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	FundID      uuid.UUID       `json:"fundId"`
	ProjectID   *uuid.UUID      `json:"projectId"`
	StudioID    *uuid.UUID      `json:"studioId"`
	Type        Kind            `json:"type"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedByID string          `json:"createdById"`
	Comments    string          `json:"comments"`
}

// NewFund validates and builds a fund. The code is uppercased.
func NewFund(name, code, description string) (*Fund, error) {
	v := &domain.ValidationError{}
	domain.ValidateRequiredString(v, "name", name)
	domain.ValidateRequiredString(v, "code", code)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return &Fund{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Code:        strings.ToUpper(strings.TrimSpace(code)),
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Posting is the input of a single ledger write.
type Posting struct {
	Kind        Kind
	Amount      decimal.Decimal
	Description string
	FundID      uuid.UUID
	ProjectID   *uuid.UUID
	StudioID    *uuid.UUID
	Comments    string
	CreatedByID string
	Timestamp   time.Time
}

// Validate enforces the sign convention for the posting's kind.
func (p Posting) Validate() error {
	v := &domain.ValidationError{}
	if _, ok := ParseKind(string(p.Kind)); !ok {
		v.Add("type", "Unknown transaction type.")
	}
	switch {
	case p.Amount.IsZero():
		v.Add("amount", "Amount must not be zero.")
	case p.Kind == KindCollection && p.Amount.IsNegative():
		v.Add("amount", "Collections must be positive.")
	case p.Kind == KindDisbursement && p.Amount.IsPositive():
		v.Add("amount", "Disbursements must be negative.")
	}
	if p.FundID == uuid.Nil {
		v.Add("fundId", "This field is required.")
	}
	if p.ProjectID != nil && p.StudioID != nil {
		v.Add("target", "A transaction belongs to a project or a studio, not both.")
	}
	return v.OrNil()
}

// Transaction materialises the posting as a new transaction row.
func (p Posting) Transaction() *Transaction {
	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &Transaction{
		ID:          uuid.New(),
		Amount:      p.Amount,
		Description: p.Description,
		FundID:      p.FundID,
		ProjectID:   p.ProjectID,
		StudioID:    p.StudioID,
		Type:        p.Kind,
		CreatedAt:   ts,
		CreatedByID: p.CreatedByID,
		Comments:    p.Comments,
	}
}

// Filter selects transactions for listing and aggregation. Zero values match everything.
type Filter struct {
	FundID    *uuid.UUID
	ProjectID *uuid.UUID
	StudioID  *uuid.UUID
	Kinds     []Kind
	From      *time.Time
	To        *time.Time
}

// Sum folds transaction amounts.
func Sum(txs []*Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.Amount)
	}
	return total
}

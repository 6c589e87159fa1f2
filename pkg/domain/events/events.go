// Package events defines the notifications emitted after ledger writes commit.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType identifies an event on the bus.
type EventType string

const (
	EventTypeFundCreated       EventType = "Fund.Created"
	EventTypeTransactionPosted EventType = "Transaction.Posted"
	EventTypeFundsTransferred  EventType = "Funds.Transferred"
	EventTypeVoucherCreated    EventType = "Voucher.Created"
	EventTypeVoucherClosed     EventType = "Voucher.Closed"
	EventTypeVoucherReopened   EventType = "Voucher.Reopened"
)

func (et EventType) String() string {
	return string(et)
}

// Event is anything that can travel on the bus.
type Event interface {
	Type() string
}

// Meta is embedded in every event.
type Meta struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}

func newMeta(userID string) Meta {
	return Meta{ID: uuid.New(), UserID: userID, OccurredAt: time.Now().UTC()}
}

type FundCreated struct {
	Meta
	FundID uuid.UUID `json:"fundId"`
	Code   string    `json:"code"`
}

func (e *FundCreated) Type() string { return EventTypeFundCreated.String() }

// NewFundCreated builds a FundCreated event.
func NewFundCreated(userID string, fundID uuid.UUID, code string) *FundCreated {
	return &FundCreated{Meta: newMeta(userID), FundID: fundID, Code: code}
}

type TransactionPosted struct {
	Meta
	TransactionID uuid.UUID       `json:"transactionId"`
	FundID        uuid.UUID       `json:"fundId"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
}

func (e *TransactionPosted) Type() string { return EventTypeTransactionPosted.String() }

func NewTransactionPosted(userID string, txID, fundID uuid.UUID, kind string, amount decimal.Decimal) *TransactionPosted {
	return &TransactionPosted{Meta: newMeta(userID), TransactionID: txID, FundID: fundID, Kind: kind, Amount: amount}
}

type FundsTransferred struct {
	Meta
	FromFundID uuid.UUID       `json:"fromFundId"`
	ToFundID   uuid.UUID       `json:"toFundId"`
	Amount     decimal.Decimal `json:"amount"`
}

func (e *FundsTransferred) Type() string { return EventTypeFundsTransferred.String() }

func NewFundsTransferred(userID string, from, to uuid.UUID, amount decimal.Decimal) *FundsTransferred {
	return &FundsTransferred{Meta: newMeta(userID), FromFundID: from, ToFundID: to, Amount: amount}
}

// VoucherEvent carries the voucher identity shared by the voucher lifecycle events.
type VoucherEvent struct {
	Meta
	Scope         string          `json:"scope"`
	VoucherID     uint            `json:"voucherId"`
	VoucherNumber string          `json:"voucherNumber"`
	FundID        uuid.UUID       `json:"fundId"`
	Amount        decimal.Decimal `json:"amount"`
}

type VoucherCreated struct {
	VoucherEvent
}

func (e *VoucherCreated) Type() string { return EventTypeVoucherCreated.String() }

type VoucherClosed struct {
	VoucherEvent
	RefundAmount decimal.Decimal `json:"refundAmount"`
	Deleted      bool            `json:"deleted"`
}

func (e *VoucherClosed) Type() string { return EventTypeVoucherClosed.String() }

type VoucherReopened struct {
	VoucherEvent
}

func (e *VoucherReopened) Type() string { return EventTypeVoucherReopened.String() }

// NewVoucherEvent fills the shared voucher fields.
func NewVoucherEvent(userID, scope string, id uint, number string, fundID uuid.UUID, amount decimal.Decimal) VoucherEvent {
	return VoucherEvent{
		Meta:          newMeta(userID),
		Scope:         scope,
		VoucherID:     id,
		VoucherNumber: number,
		FundID:        fundID,
		Amount:        amount,
	}
}

// Registry maps event types to empty instances for decoding off a broker.
var Registry = map[EventType]func() Event{
	EventTypeFundCreated:       func() Event { return &FundCreated{} },
	EventTypeTransactionPosted: func() Event { return &TransactionPosted{} },
	EventTypeFundsTransferred:  func() Event { return &FundsTransferred{} },
	EventTypeVoucherCreated:    func() Event { return &VoucherCreated{} },
	EventTypeVoucherClosed:     func() Event { return &VoucherClosed{} },
	EventTypeVoucherReopened:   func() Event { return &VoucherReopened{} },
}

// All lists every event type in a stable order.
func All() []EventType {
	return []EventType{
		EventTypeFundCreated,
		EventTypeTransactionPosted,
		EventTypeFundsTransferred,
		EventTypeVoucherCreated,
		EventTypeVoucherClosed,
		EventTypeVoucherReopened,
	}
}

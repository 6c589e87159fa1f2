package eventbus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/amirasaad/fundledger/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryEventBus_DispatchesByType(t *testing.T) {
	bus := NewWithMemory(discard())

	var created, closed int
	bus.Register(events.EventTypeFundCreated, func(ctx context.Context, e events.Event) error {
		created++
		_, ok := e.(*events.FundCreated)
		assert.True(t, ok)
		return nil
	})
	bus.Register(events.EventTypeVoucherClosed, func(ctx context.Context, e events.Event) error {
		closed++
		return nil
	})

	ctx := context.Background()
	require.NoError(t, bus.Emit(ctx, events.NewFundCreated("u1", uuid.New(), "GEN")))
	require.NoError(t, bus.Emit(ctx, events.NewFundCreated("u1", uuid.New(), "OPS")))

	assert.Equal(t, 2, created)
	assert.Equal(t, 0, closed)
	assert.Len(t, bus.Published(), 2)

	bus.ClearPublished()
	assert.Empty(t, bus.Published())
}

func TestMemoryEventBus_HandlerFailureDoesNotFailEmit(t *testing.T) {
	bus := NewWithMemory(discard())
	var second bool
	bus.Register(events.EventTypeTransactionPosted, func(ctx context.Context, e events.Event) error {
		return errors.New("boom")
	})
	bus.Register(events.EventTypeTransactionPosted, func(ctx context.Context, e events.Event) error {
		panic("handler panic")
	})
	bus.Register(events.EventTypeTransactionPosted, func(ctx context.Context, e events.Event) error {
		second = true
		return nil
	})

	evt := events.NewTransactionPosted("u1", uuid.New(), uuid.New(), "collection", decimal.NewFromInt(10))
	require.NoError(t, bus.Emit(context.Background(), evt))
	assert.True(t, second, "later handlers still run")
}

func TestEnvelopeRoundTrip(t *testing.T) {
	fundID := uuid.New()
	in := &events.VoucherClosed{
		VoucherEvent: events.NewVoucherEvent("u1", "studio", 3, "SV-3", fundID, decimal.NewFromInt(100000)),
		RefundAmount: decimal.NewFromInt(100000),
		Deleted:      true,
	}
	raw, err := encode(in)
	require.NoError(t, err)

	out, err := decode(raw)
	require.NoError(t, err)
	closed, ok := out.(*events.VoucherClosed)
	require.True(t, ok)
	assert.Equal(t, uint(3), closed.VoucherID)
	assert.Equal(t, fundID, closed.FundID)
	assert.True(t, closed.Deleted)
	assert.True(t, closed.RefundAmount.Equal(decimal.NewFromInt(100000)))
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := decode([]byte(`{"type":"Nope.Happened","payload":{}}`))
	require.Error(t, err)
	_, err = decode([]byte(`not json`))
	require.Error(t, err)
}

func TestNameFor(t *testing.T) {
	assert.Equal(t, "fundledger:events:voucher:closed",
		nameFor("fundledger:events", ":", events.EventTypeVoucherClosed))
	assert.Equal(t, "fundledger.events.dlq.funds.transferred",
		nameFor("fundledger.events.dlq", ".", events.EventTypeFundsTransferred))
}

package voucher

import (
	"testing"
	"time"

	"github.com/amirasaad/fundledger/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newOpen(t *testing.T, scope Scope, amount string) *Voucher {
	t.Helper()
	v, err := New(scope, uuid.New(), uuid.New(), " pv-1 ", "", dec(amount),
		time.Date(2024, 3, 15, 17, 45, 0, 0, time.UTC), true, "u1")
	require.NoError(t, err)
	return v
}

func TestNew(t *testing.T) {
	v := newOpen(t, ScopeProject, "100")
	assert.Equal(t, "PV-1", v.VoucherNumber)
	assert.True(t, v.ConsumedAmount.Equal(v.DisbursedAmount))
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), v.TransactionDate)
	assert.True(t, v.IsOpen())

	studio := newOpen(t, ScopeStudio, "100")
	assert.False(t, studio.CostPlus, "studio vouchers never carry cost-plus")

	_, err := New(ScopeStudio, uuid.Nil, uuid.Nil, "", "", decimal.Zero, time.Time{}, false, "u1")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, f := range []string{"voucherNumber", "disbursedAmount", "fundId", "studioId", "transactionDate"} {
		assert.Contains(t, verr.Fields, f)
	}
}

func TestParseScope(t *testing.T) {
	for in, want := range map[string]Scope{"projects": ScopeProject, "Studio": ScopeStudio, " project ": ScopeProject} {
		got, err := ParseScope(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseScope("fund")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCheckDetail(t *testing.T) {
	v := newOpen(t, ScopeProject, "1000")

	require.NoError(t, v.CheckDetail(&Detail{Description: "a", Amount: dec("999.99"), DetailCategoryID: 1}, decimal.Zero))

	err := v.CheckDetail(&Detail{Description: "b", Amount: dec("0.02"), DetailCategoryID: 1}, dec("999.99"))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["amount"], "0.01")

	require.NoError(t, v.CheckDetail(&Detail{Description: "c", Amount: dec("0.01"), DetailCategoryID: 1}, dec("999.99")))

	neg := dec("-1")
	err = v.CheckDetail(&Detail{Amount: dec("-5"), Quantity: &neg}, decimal.Zero)
	require.ErrorAs(t, err, &verr)
	for _, f := range []string{"description", "amount", "detailCategoryId", "quantity"} {
		assert.Contains(t, verr.Fields, f)
	}

	v.IsClosed = true
	err = v.CheckDetail(&Detail{Description: "d", Amount: dec("1"), DetailCategoryID: 1}, decimal.Zero)
	require.ErrorIs(t, err, domain.ErrAlreadyClosed)
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name      string
		disbursed string
		details   []string
		consumed  string
		refund    string
		deleted   bool
	}{
		{"partial spend", "70000", []string{"40000", "25000"}, "65000", "5000", false},
		{"nothing spent", "100000", nil, "0", "100000", true},
		{"fully spent", "500", []string{"200", "300"}, "500", "0", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := newOpen(t, ScopeProject, tc.disbursed)
			var ds []*Detail
			for _, a := range tc.details {
				ds = append(ds, &Detail{Amount: dec(a)})
			}
			c, err := v.Reconcile(ds)
			require.NoError(t, err)
			assert.True(t, c.ConsumedAmount.Equal(dec(tc.consumed)))
			assert.True(t, c.RefundAmount.Equal(dec(tc.refund)))
			assert.Equal(t, tc.deleted, c.IsDeleted)
			assert.Equal(t, tc.refund != "0", c.NeedsRefund())

			v.Apply(c, "u2")
			assert.True(t, v.IsClosed)
			assert.Equal(t, tc.deleted, v.IsDeleted)
			assert.Equal(t, "u2", v.UpdatedByID)
		})
	}
}

func TestReconcileRejects(t *testing.T) {
	v := newOpen(t, ScopeProject, "100")
	_, err := v.Reconcile([]*Detail{{Amount: dec("100.01")}})
	require.ErrorIs(t, err, domain.ErrValidation)

	v.IsClosed = true
	_, err = v.Reconcile(nil)
	require.ErrorIs(t, err, domain.ErrAlreadyClosed)
	assert.Contains(t, err.Error(), "already closed")
}

package costing_test

import (
	"context"
	"testing"
	"time"

	infrarepo "github.com/amirasaad/fundledger/infra/repository"
	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/domain"
	"github.com/amirasaad/fundledger/pkg/domain/ledger"
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	categorysvc "github.com/amirasaad/fundledger/pkg/service/category"
	costingsvc "github.com/amirasaad/fundledger/pkg/service/costing"
	"github.com/amirasaad/fundledger/pkg/service/posting"
	projectsvc "github.com/amirasaad/fundledger/pkg/service/project"
	vouchersvc "github.com/amirasaad/fundledger/pkg/service/voucher"
	"github.com/amirasaad/fundledger/pkg/testutils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	postings   *posting.Service
	vouchers   *vouchersvc.Service
	projects   *projectsvc.Service
	categories *categorysvc.Service
	costing    *costingsvc.Service
}

func setup(t *testing.T) services {
	t.Helper()
	deps := config.Deps{
		Uow:    infrarepo.NewUoW(testutils.NewTestDB(t)),
		Logger: testutils.DiscardLogger(),
		Config: testutils.TestConfig(),
	}
	return services{
		postings:   posting.NewService(deps),
		vouchers:   vouchersvc.NewService(deps),
		projects:   projectsvc.NewService(deps),
		categories: categorysvc.NewService(deps),
		costing:    costingsvc.NewService(deps),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// seedProject builds a project with a mix of open, closed, cost-plus and
// non-cost-plus vouchers, add-ons and two overhead rules.
func seedProject(t *testing.T, s services) (projectID uuid.UUID, fundID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	fund, err := s.postings.CreateFund(ctx, "Main", "main", "", "u1")
	require.NoError(t, err)
	p, err := s.projects.CreateProject(ctx, projectsvc.SiteInput{Code: "p1", Name: "P1"})
	require.NoError(t, err)
	materials, err := s.categories.Create(ctx, "Materials", nil)
	require.NoError(t, err)
	_, err = s.categories.Create(ctx, "Labour", nil)
	require.NoError(t, err)

	_, err = s.postings.PostTransaction(ctx, ledger.Posting{
		Kind: ledger.KindCollection, Amount: dec("100000"), FundID: fund.ID, ProjectID: &p.ID, CreatedByID: "u1",
	})
	require.NoError(t, err)

	mk := func(number string, amount string, date time.Time, costPlus bool) *voucher.Voucher {
		v, err := s.vouchers.Create(ctx, vouchersvc.CreateInput{
			Scope: voucher.ScopeProject, OwnerID: p.ID, FundID: fund.ID,
			VoucherNumber: number, DisbursedAmount: dec(amount), TransactionDate: date,
			CostPlus: costPlus, UserID: "u1",
		})
		require.NoError(t, err)
		return v
	}

	closedIn := mk("PV-1", "40000", day(2024, 3, 15), true)
	require.NoError(t, s.vouchers.AddDetail(ctx, voucher.ScopeProject, closedIn.ID,
		&voucher.Detail{Description: "cement", Amount: dec("35000"), DetailCategoryID: materials.ID}, "u1"))
	_, err = s.vouchers.Close(ctx, voucher.ScopeProject, closedIn.ID, nil, "u1")
	require.NoError(t, err)

	mk("PV-2", "10000", day(2025, 1, 20), true) // open, outside 2024 window
	mk("PV-3", "5000", day(2024, 6, 1), false)  // open, not cost-plus

	_, err = s.projects.AddAddOn(ctx, p.ID, "Permit", dec("500"), dec("2"), true, "u1")
	require.NoError(t, err)
	_, err = s.projects.AddAddOn(ctx, p.ID, "Insurance", dec("300"), dec("1"), false, "u1")
	require.NoError(t, err)

	end := day(2024, 12, 31)
	_, err = s.projects.AddSetting(ctx, p.ID, projectsvc.SettingInput{
		Description: "Admin fee", PercentageAddOn: dec("10"), StartDate: day(2024, 1, 1), EndDate: &end,
	})
	require.NoError(t, err)
	_, err = s.projects.AddSetting(ctx, p.ID, projectsvc.SettingInput{
		Description: "Contingency", PercentageAddOn: dec("5"), StartDate: day(2024, 1, 1), IsContingency: true,
	})
	require.NoError(t, err)
	return p.ID, fund.ID
}

func TestProjectBreakdown(t *testing.T) {
	s := setup(t)
	projectID, _ := seedProject(t, s)

	b, err := s.costing.ProjectBreakdown(context.Background(), projectID)
	require.NoError(t, err)
	assert.Equal(t, "15000.00", b.Uncategorized.StringFixed(2))
	require.Len(t, b.Categories, 2)
	byName := map[string]string{}
	for _, c := range b.Categories {
		byName[c.Description] = c.Total.StringFixed(2)
	}
	assert.Equal(t, map[string]string{"Materials": "35000.00", "Labour": "0.00"}, byName)
}

func TestCostPlusTotals(t *testing.T) {
	s := setup(t)
	projectID, _ := seedProject(t, s)

	rows, err := s.costing.CostPlusTotals(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// base = 35000 (PV-1 consumed) + 10000 (PV-2 consumed) + 1000 (permit total)
	for _, r := range rows {
		assert.Equal(t, "46000.00", r.Base.StringFixed(2))
		switch r.Description {
		case "Admin fee":
			assert.Equal(t, "10000.00", r.ExemptTotal.StringFixed(2))
			assert.Equal(t, "3600.00", r.Total.StringFixed(2))
		case "Contingency":
			assert.True(t, r.ExemptTotal.IsZero(), "no end date means no exemption")
			assert.Equal(t, "2300.00", r.Total.StringFixed(2))
		default:
			t.Fatalf("unexpected setting %q", r.Description)
		}
	}
}

func TestAddOnTotalsSumAmountNotTotal(t *testing.T) {
	s := setup(t)
	projectID, _ := seedProject(t, s)

	total, err := s.costing.AddOnTotals(context.Background(), projectID)
	require.NoError(t, err)
	// Permit is 500 × 2; the dashboard figure counts 500.
	assert.Equal(t, "800.00", total.StringFixed(2))
}

func TestProjectFundSummaryReconciles(t *testing.T) {
	s := setup(t)
	projectID, _ := seedProject(t, s)

	sum, err := s.costing.ProjectFundSummary(context.Background(), projectID)
	require.NoError(t, err)

	assert.Equal(t, "100000.00", sum.CollectedFunds.StringFixed(2))
	// -40000 -10000 -5000 disbursements, +5000 refund
	assert.Equal(t, "-50000.00", sum.DisbursedFunds.StringFixed(2))
	assert.Equal(t, "800.00", sum.AddOnTotals.StringFixed(2))
	assert.Equal(t, "5900.00", sum.CostPlusTotals.StringFixed(2))
	assert.Equal(t, "56700.00", sum.TotalProjectCost.StringFixed(2))
	assert.Equal(t, "43300.00", sum.RemainingFunds.StringFixed(2))
	assert.True(t, sum.RemainingFunds.Add(sum.TotalProjectCost).Equal(sum.CollectedFunds))

	_, err = s.costing.ProjectFundSummary(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStudioFundSummaryCountsAllCollections(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	_, fundID := seedProject(t, s)

	st, err := s.projects.CreateStudio(ctx, projectsvc.SiteInput{Code: "s1", Name: "S1"})
	require.NoError(t, err)
	v, err := s.vouchers.Create(ctx, vouchersvc.CreateInput{
		Scope: voucher.ScopeStudio, OwnerID: st.ID, FundID: fundID,
		VoucherNumber: "SV-1", DisbursedAmount: dec("2000"), TransactionDate: day(2024, 2, 1), UserID: "u1",
	})
	require.NoError(t, err)
	_, err = s.vouchers.Close(ctx, voucher.ScopeStudio, v.ID, nil, "u1")
	require.NoError(t, err)

	sum, err := s.costing.StudioFundSummary(ctx, st.ID)
	require.NoError(t, err)
	// The project's 100000 collection is counted for the studio too.
	assert.Equal(t, "100000.00", sum.CollectedFunds.StringFixed(2))
	assert.True(t, sum.DisbursedFunds.IsZero(), "fully refunded voucher nets to zero")
	assert.True(t, sum.RemainingFunds.Add(sum.TotalStudioCost).Equal(sum.CollectedFunds))

	b, err := s.costing.StudioBreakdown(ctx, st.ID)
	require.NoError(t, err)
	assert.True(t, b.Total().IsZero(), "deleted vouchers are left out")
}

func TestProjectReport(t *testing.T) {
	s := setup(t)
	projectID, _ := seedProject(t, s)

	r, err := s.costing.ProjectReport(context.Background(), projectID)
	require.NoError(t, err)
	assert.Equal(t, "P1", r.Project.Code)
	assert.Len(t, r.Vouchers, 3)
	assert.Len(t, r.AddOns, 2)
	assert.Len(t, r.CostPlus, 2)
	assert.Equal(t, "43300.00", r.Summary.RemainingFunds.StringFixed(2))
}

package voucher_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/fundledger/infra/eventbus"
	infrarepo "github.com/amirasaad/fundledger/infra/repository"
	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/domain"
	"github.com/amirasaad/fundledger/pkg/domain/category"
	"github.com/amirasaad/fundledger/pkg/domain/events"
	"github.com/amirasaad/fundledger/pkg/domain/ledger"
	"github.com/amirasaad/fundledger/pkg/domain/project"
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	"github.com/amirasaad/fundledger/pkg/service/posting"
	vouchersvc "github.com/amirasaad/fundledger/pkg/service/voucher"
	"github.com/amirasaad/fundledger/pkg/testutils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type VoucherServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	bus      *eventbus.MemoryEventBus
	postings *posting.Service
	svc      *vouchersvc.Service
	main     *ledger.Fund
	project  *project.Project
	studio   *project.Studio
	category *category.Category
}

func TestVoucherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}

func (s *VoucherServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	db := testutils.NewTestDB(s.T())
	logger := testutils.DiscardLogger()
	s.bus = eventbus.NewWithMemory(logger)
	deps := config.Deps{
		Uow:      infrarepo.NewUoW(db),
		EventBus: s.bus,
		Logger:   logger,
		Config:   testutils.TestConfig(),
	}
	s.postings = posting.NewService(deps)
	s.svc = vouchersvc.NewService(deps)

	var err error
	s.main, err = s.postings.CreateFund(s.ctx, "Main", "main", "", "u1")
	s.Require().NoError(err)
	_, err = s.postings.PostTransaction(s.ctx, ledger.Posting{
		Kind: ledger.KindCollection, Amount: decimal.NewFromInt(100000), FundID: s.main.ID, CreatedByID: "u1",
	})
	s.Require().NoError(err)

	site, err := project.NewSite("p1", "P1", "", "", nil)
	s.Require().NoError(err)
	s.project = &project.Project{Site: site}
	s.Require().NoError(infrarepo.NewProjectRepository(db).Create(s.ctx, s.project))

	site, err = project.NewSite("s1", "S1", "", "", nil)
	s.Require().NoError(err)
	s.studio = &project.Studio{Site: site}
	s.Require().NoError(infrarepo.NewStudioRepository(db).Create(s.ctx, s.studio))

	s.category = &category.Category{Description: "Materials"}
	s.Require().NoError(infrarepo.NewCategoryRepository(db).Create(s.ctx, s.category))
	s.bus.ClearPublished()
}

func (s *VoucherServiceTestSuite) balance() string {
	b, err := s.postings.FundBalance(s.ctx, s.main.ID, nil, nil)
	s.Require().NoError(err)
	return b.StringFixed(2)
}

func (s *VoucherServiceTestSuite) create(scope voucher.Scope, number string, amount int64) *voucher.Voucher {
	owner := s.project.ID
	if scope == voucher.ScopeStudio {
		owner = s.studio.ID
	}
	v, err := s.svc.Create(s.ctx, vouchersvc.CreateInput{
		Scope:           scope,
		OwnerID:         owner,
		FundID:          s.main.ID,
		VoucherNumber:   number,
		Description:     "site works",
		DisbursedAmount: decimal.NewFromInt(amount),
		TransactionDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		CostPlus:        true,
		UserID:          "u1",
	})
	s.Require().NoError(err)
	return v
}

func (s *VoucherServiceTestSuite) detail(scope voucher.Scope, voucherID uint, amount string) error {
	return s.svc.AddDetail(s.ctx, scope, voucherID, &voucher.Detail{
		Description:      "item",
		Amount:           decimal.RequireFromString(amount),
		DetailCategoryID: s.category.ID,
		SupplierName:     "Hardware Co",
	}, "u2")
}

func (s *VoucherServiceTestSuite) TestCloseWithPartialSpendRefundsRemainder() {
	v := s.create(voucher.ScopeProject, "pv-1", 40000)
	s.Equal("60000.00", s.balance())

	s.Require().NoError(s.detail(voucher.ScopeProject, v.ID, "10000"))
	s.Require().NoError(s.detail(voucher.ScopeProject, v.ID, "15000"))
	s.Require().NoError(s.detail(voucher.ScopeProject, v.ID, "10000"))

	res, err := s.svc.Close(s.ctx, voucher.ScopeProject, v.ID, &s.main.ID, "u3")
	s.Require().NoError(err)
	s.Equal("65000.00", s.balance())
	s.True(res.Voucher.IsClosed)
	s.False(res.Voucher.IsDeleted)
	s.Equal("35000.00", res.Voucher.ConsumedAmount.StringFixed(2))
	s.Require().NotNil(res.Refund)
	s.Equal("5000.00", res.Refund.Amount.StringFixed(2))
	s.Equal(ledger.KindRefund, res.Refund.Type)
	s.Equal("Refund on voucher closure", res.Refund.Comments)
	s.Equal(&s.project.ID, res.Refund.ProjectID)

	got, err := s.svc.Get(s.ctx, voucher.ScopeProject, v.ID)
	s.Require().NoError(err)
	s.True(got.ConsumedAmount.Equal(got.Itemized), "consumed equals the detail sum")
	s.True(got.DisbursedAmount.Sub(got.ConsumedAmount).Equal(res.Refund.Amount))
	s.Equal("u3", got.UpdatedByID)
}

func (s *VoucherServiceTestSuite) TestCloseWithoutDetailsRetiresVoucher() {
	v := s.create(voucher.ScopeProject, "pv-2", 40000)

	res, err := s.svc.Close(s.ctx, voucher.ScopeProject, v.ID, nil, "u1")
	s.Require().NoError(err)
	s.True(res.Voucher.IsClosed)
	s.True(res.Voucher.IsDeleted)
	s.Equal("40000.00", res.Refund.Amount.StringFixed(2))
	s.Equal("Refund on voucher deletion", res.Refund.Comments)
	s.Equal("100000.00", s.balance())

	published := s.bus.Published()
	s.Require().Len(published, 2)
	closed, ok := published[1].(*events.VoucherClosed)
	s.Require().True(ok)
	s.True(closed.Deleted)
	s.True(closed.RefundAmount.Equal(decimal.NewFromInt(40000)))
}

func (s *VoucherServiceTestSuite) TestFullySpentVoucherPostsNoRefund() {
	v := s.create(voucher.ScopeProject, "pv-3", 500)
	s.Require().NoError(s.detail(voucher.ScopeProject, v.ID, "500"))

	res, err := s.svc.Close(s.ctx, voucher.ScopeProject, v.ID, nil, "u1")
	s.Require().NoError(err)
	s.Nil(res.Refund)
	s.False(res.Voucher.IsDeleted)

	refunds, err := s.postings.ListTransactions(s.ctx, ledger.Filter{Kinds: []ledger.Kind{ledger.KindRefund}})
	s.Require().NoError(err)
	s.Empty(refunds)
	s.Equal("99500.00", s.balance())
}

func (s *VoucherServiceTestSuite) TestClosedVoucherRejectsFurtherChanges() {
	v := s.create(voucher.ScopeProject, "pv-4", 1000)
	s.Require().NoError(s.detail(voucher.ScopeProject, v.ID, "400"))
	_, err := s.svc.Close(s.ctx, voucher.ScopeProject, v.ID, nil, "u1")
	s.Require().NoError(err)

	_, err = s.svc.Close(s.ctx, voucher.ScopeProject, v.ID, nil, "u1")
	s.ErrorIs(err, domain.ErrAlreadyClosed)
	s.ErrorIs(s.detail(voucher.ScopeProject, v.ID, "1"), domain.ErrAlreadyClosed)

	got, err := s.svc.Get(s.ctx, voucher.ScopeProject, v.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Details, 1)
	s.ErrorIs(s.svc.DeleteDetail(s.ctx, voucher.ScopeProject, v.ID, got.Details[0].ID, "u1"), domain.ErrAlreadyClosed)
}

func (s *VoucherServiceTestSuite) TestAddDetailEnforcesCap() {
	v := s.create(voucher.ScopeProject, "pv-5", 1000)
	s.Require().NoError(s.detail(voucher.ScopeProject, v.ID, "999.99"))

	err := s.detail(voucher.ScopeProject, v.ID, "0.02")
	var verr *domain.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields["amount"], "0.01")

	s.Require().NoError(s.detail(voucher.ScopeProject, v.ID, "0.01"))

	err = s.svc.AddDetail(s.ctx, voucher.ScopeProject, v.ID, &voucher.Detail{
		Description: "ghost", Amount: decimal.NewFromInt(1), DetailCategoryID: 999,
	}, "u1")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *VoucherServiceTestSuite) TestDeleteDetail() {
	v := s.create(voucher.ScopeStudio, "sv-1", 1000)
	s.Require().NoError(s.detail(voucher.ScopeStudio, v.ID, "600"))
	got, err := s.svc.Get(s.ctx, voucher.ScopeStudio, v.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.DeleteDetail(s.ctx, voucher.ScopeStudio, v.ID, got.Details[0].ID, "u9"))
	s.ErrorIs(s.svc.DeleteDetail(s.ctx, voucher.ScopeStudio, v.ID, got.Details[0].ID, "u9"), domain.ErrNotFound)

	got, err = s.svc.Get(s.ctx, voucher.ScopeStudio, v.ID)
	s.Require().NoError(err)
	s.Empty(got.Details)
	s.Equal("u9", got.UpdatedByID)
}

func (s *VoucherServiceTestSuite) TestDuplicateVoucherNumber() {
	s.create(voucher.ScopeProject, "PV-7", 100)

	_, err := s.svc.Create(s.ctx, vouchersvc.CreateInput{
		Scope: voucher.ScopeProject, OwnerID: s.project.ID, FundID: s.main.ID,
		VoucherNumber: " pv-7 ", DisbursedAmount: decimal.NewFromInt(5),
		TransactionDate: time.Now(), UserID: "u1",
	})
	s.ErrorIs(err, domain.ErrDuplicateVoucherNumber)
	s.Equal("99900.00", s.balance(), "no disbursement for the rejected voucher")

	s.create(voucher.ScopeStudio, "PV-7", 100)
}

func (s *VoucherServiceTestSuite) TestCreateRejectsUnknownOwnerAndFund() {
	_, err := s.svc.Create(s.ctx, vouchersvc.CreateInput{
		Scope: voucher.ScopeProject, OwnerID: uuid.New(), FundID: s.main.ID,
		VoucherNumber: "X-1", DisbursedAmount: decimal.NewFromInt(5), TransactionDate: time.Now(),
	})
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = s.svc.Create(s.ctx, vouchersvc.CreateInput{
		Scope: voucher.ScopeProject, OwnerID: s.project.ID, FundID: uuid.New(),
		VoucherNumber: "X-2", DisbursedAmount: decimal.NewFromInt(5), TransactionDate: time.Now(),
	})
	s.ErrorIs(err, domain.ErrNotFound)

	list, err := s.svc.List(s.ctx, voucher.ScopeProject, s.project.ID, true)
	s.Require().NoError(err)
	s.Empty(list, "failed creates leave no voucher behind")
}

func (s *VoucherServiceTestSuite) TestReopenStudioVoucherKeepsRefund() {
	v := s.create(voucher.ScopeStudio, "sv-2", 1000)
	s.Require().NoError(s.detail(voucher.ScopeStudio, v.ID, "700"))
	_, err := s.svc.Close(s.ctx, voucher.ScopeStudio, v.ID, nil, "u1")
	s.Require().NoError(err)
	s.Equal("99700.00", s.balance())

	reopened, err := s.svc.Reopen(s.ctx, voucher.ScopeStudio, v.ID, "u1")
	s.Require().NoError(err)
	s.False(reopened.IsClosed)
	s.Equal("99700.00", s.balance(), "reopen does not reverse the refund")

	_, err = s.svc.Reopen(s.ctx, voucher.ScopeStudio, v.ID, "u1")
	s.ErrorIs(err, domain.ErrAlreadyClosed)

	_, err = s.svc.Reopen(s.ctx, voucher.ScopeProject, v.ID, "u1")
	s.ErrorIs(err, domain.ErrValidation)
}

func (s *VoucherServiceTestSuite) TestToggleCostPlus() {
	v := s.create(voucher.ScopeProject, "pv-8", 100)
	s.True(v.CostPlus)

	toggled, err := s.svc.ToggleCostPlus(s.ctx, voucher.ScopeProject, v.ID, "u1")
	s.Require().NoError(err)
	s.False(toggled.CostPlus)

	got, err := s.svc.Get(s.ctx, voucher.ScopeProject, v.ID)
	s.Require().NoError(err)
	s.False(got.CostPlus)

	_, err = s.svc.ToggleCostPlus(s.ctx, voucher.ScopeStudio, v.ID, "u1")
	s.ErrorIs(err, domain.ErrValidation)
}

func (s *VoucherServiceTestSuite) TestListExcludesDeletedByDefault() {
	keep := s.create(voucher.ScopeProject, "pv-10", 100)
	gone := s.create(voucher.ScopeProject, "pv-11", 100)
	_, err := s.svc.Close(s.ctx, voucher.ScopeProject, gone.ID, nil, "u1")
	s.Require().NoError(err)

	list, err := s.svc.List(s.ctx, voucher.ScopeProject, s.project.ID, false)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(keep.ID, list[0].ID)

	all, err := s.svc.List(s.ctx, voucher.ScopeProject, s.project.ID, true)
	s.Require().NoError(err)
	s.Len(all, 2)
}

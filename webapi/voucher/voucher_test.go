package voucher_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/amirasaad/fundledger/pkg/domain/ledger"
	"github.com/amirasaad/fundledger/pkg/domain/project"
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	projectsvc "github.com/amirasaad/fundledger/pkg/service/project"
	vouchersvc "github.com/amirasaad/fundledger/pkg/service/voucher"
	"github.com/amirasaad/fundledger/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type VoucherTestSuite struct {
	suite.Suite
	ta         *testutils.TestApp
	fund       *ledger.Fund
	project    *project.Project
	studio     *project.Studio
	categoryID uint
}

func TestVoucherTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherTestSuite))
}

func (s *VoucherTestSuite) SetupTest() {
	s.ta = testutils.NewTestApp(s.T())
	ctx := context.Background()
	a := s.ta.App

	var err error
	s.fund, err = a.PostingService.CreateFund(ctx, "Building Fund", "bld", "", "clerk-1")
	s.Require().NoError(err)
	_, err = a.PostingService.PostTransaction(ctx, ledger.Posting{
		Kind:        ledger.KindCollection,
		Amount:      decimal.NewFromInt(100000),
		FundID:      s.fund.ID,
		CreatedByID: "clerk-1",
	})
	s.Require().NoError(err)

	s.project, err = a.ProjectService.CreateProject(ctx, projectsvc.SiteInput{Code: "P1", Name: "Chapel"})
	s.Require().NoError(err)
	s.studio, err = a.ProjectService.CreateStudio(ctx, projectsvc.SiteInput{Code: "S1", Name: "Recording"})
	s.Require().NoError(err)
	c, err := a.CategoryService.Create(ctx, "Materials", nil)
	s.Require().NoError(err)
	s.categoryID = c.ID
}

func (s *VoucherTestSuite) createVoucher(owner, number, amount string) *voucher.Voucher {
	resp := s.ta.Do(fiber.MethodPost, owner+"/vouchers", fmt.Sprintf(
		`{"fundId":"%s","voucherNumber":"%s","disbursedAmount":"%s","transactionDate":"2024-03-15"}`,
		s.fund.ID, number, amount))
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var v voucher.Voucher
	testutils.Decode(s.T(), resp, &v)
	return &v
}

func (s *VoucherTestSuite) addDetail(path, amount string) int {
	resp := s.ta.Do(fiber.MethodPost, path+"/details", fmt.Sprintf(
		`{"description":"Cement","amount":"%s","detailCategoryId":%d}`, amount, s.categoryID))
	defer resp.Body.Close() //nolint: errcheck
	return resp.StatusCode
}

func (s *VoucherTestSuite) balance() string {
	b, err := s.ta.App.PostingService.FundBalance(context.Background(), s.fund.ID, nil, nil)
	s.Require().NoError(err)
	return b.StringFixed(2)
}

func (s *VoucherTestSuite) TestProjectVoucherLifecycle() {
	owner := fmt.Sprintf("/projects/%s", s.project.ID)
	v := s.createVoucher(owner, "pv-1", "70000")
	s.Equal("PV-1", v.VoucherNumber)
	s.Equal("30000.00", s.balance())
	path := fmt.Sprintf("/vouchers/project/%d", v.ID)

	s.Run("duplicate number conflicts", func() {
		resp := s.ta.Do(fiber.MethodPost, owner+"/vouchers", fmt.Sprintf(
			`{"fundId":"%s","voucherNumber":"PV-1","disbursedAmount":"10","transactionDate":"2024-03-16"}`, s.fund.ID))
		s.Equal(fiber.StatusConflict, resp.StatusCode)
		pd := testutils.Problem(s.T(), resp)
		s.Contains(pd.Errors, "voucherNumber")
	})

	s.Run("details within the disbursement", func() {
		s.Equal(fiber.StatusCreated, s.addDetail(path, "35000"))
		s.Equal(fiber.StatusCreated, s.addDetail(path, "30000"))
		s.Equal(fiber.StatusBadRequest, s.addDetail(path, "10000"))
	})

	s.Run("get with itemized total", func() {
		resp := s.ta.Do(fiber.MethodGet, path, "")
		s.Require().Equal(fiber.StatusOK, resp.StatusCode)
		var out vouchersvc.WithDetails
		testutils.Decode(s.T(), resp, &out)
		s.Len(out.Details, 2)
		s.Equal("65000.00", out.Itemized.StringFixed(2))
	})

	s.Run("close refunds the remainder", func() {
		resp := s.ta.Do(fiber.MethodPost, path+"/close", "")
		s.Require().Equal(fiber.StatusOK, resp.StatusCode)
		var out vouchersvc.CloseResult
		testutils.Decode(s.T(), resp, &out)
		s.True(out.Voucher.IsClosed)
		s.False(out.Voucher.IsDeleted)
		s.Equal("65000.00", out.Voucher.ConsumedAmount.StringFixed(2))
		s.Require().NotNil(out.Refund)
		s.Equal("5000.00", out.Refund.Amount.StringFixed(2))
		s.Equal("35000.00", s.balance())
	})

	s.Run("closed voucher rejects changes", func() {
		s.Equal(fiber.StatusConflict, s.addDetail(path, "1"))
		resp := s.ta.Do(fiber.MethodPost, path+"/close", "")
		s.Equal(fiber.StatusConflict, resp.StatusCode)
		resp.Body.Close() //nolint: errcheck
	})

	s.Run("project vouchers are not reopened", func() {
		resp := s.ta.Do(fiber.MethodPost, path+"/reopen", "")
		s.Equal(fiber.StatusBadRequest, resp.StatusCode)
		pd := testutils.Problem(s.T(), resp)
		s.Contains(pd.Errors, "scope")
	})

	s.Run("cost-plus toggles", func() {
		resp := s.ta.Do(fiber.MethodPost, path+"/cost-plus", "")
		s.Require().Equal(fiber.StatusOK, resp.StatusCode)
		var out voucher.Voucher
		testutils.Decode(s.T(), resp, &out)
		s.True(out.CostPlus)
	})

	s.Run("list", func() {
		resp := s.ta.Do(fiber.MethodGet, owner+"/vouchers", "")
		var list []voucher.Voucher
		testutils.Decode(s.T(), resp, &list)
		s.Len(list, 1)
	})
}

func (s *VoucherTestSuite) TestUnspentVoucherIsDeleted() {
	other, err := s.ta.App.PostingService.CreateFund(context.Background(), "General", "gen", "", "clerk-1")
	s.Require().NoError(err)
	v := s.createVoucher(fmt.Sprintf("/projects/%s", s.project.ID), "PV-2", "2500")

	resp := s.ta.Do(fiber.MethodPost, fmt.Sprintf("/vouchers/projects/%d/close", v.ID),
		fmt.Sprintf(`{"refundFundId":"%s"}`, other.ID))
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var out vouchersvc.CloseResult
	testutils.Decode(s.T(), resp, &out)
	s.True(out.Voucher.IsDeleted)
	s.Equal(other.ID, out.Refund.FundID)
	s.Equal("97500.00", s.balance())

	resp = s.ta.Do(fiber.MethodGet, fmt.Sprintf("/projects/%s/vouchers", s.project.ID), "")
	var visible []voucher.Voucher
	testutils.Decode(s.T(), resp, &visible)
	s.Empty(visible)

	resp = s.ta.Do(fiber.MethodGet, fmt.Sprintf("/projects/%s/vouchers?includeDeleted=true", s.project.ID), "")
	var all []voucher.Voucher
	testutils.Decode(s.T(), resp, &all)
	s.Len(all, 1)
}

func (s *VoucherTestSuite) TestStudioVoucherReopen() {
	v := s.createVoucher(fmt.Sprintf("/studios/%s", s.studio.ID), "SV-1", "1000")
	path := fmt.Sprintf("/vouchers/studio/%d", v.ID)
	s.Equal(fiber.StatusCreated, s.addDetail(path, "400"))

	resp := s.ta.Do(fiber.MethodPost, path+"/close", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck

	resp = s.ta.Do(fiber.MethodPost, path+"/reopen", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var out voucher.Voucher
	testutils.Decode(s.T(), resp, &out)
	s.False(out.IsClosed)
	s.Equal("99600.00", s.balance())

	resp = s.ta.Do(fiber.MethodPost, path+"/cost-plus", "")
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck
}

func (s *VoucherTestSuite) TestBadReferences() {
	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown scope", "/vouchers/church/1", fiber.StatusBadRequest},
		{"non-numeric id", "/vouchers/project/abc", fiber.StatusBadRequest},
		{"missing voucher", "/vouchers/project/999", fiber.StatusNotFound},
		{"unknown owner", "/projects/7d1c7c7e-8a6e-4a86-9b39-1a1f3c1d2e3f/vouchers", fiber.StatusNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp := s.ta.Do(fiber.MethodGet, tt.path, "")
			s.Equal(tt.status, resp.StatusCode)
			resp.Body.Close() //nolint: errcheck
		})
	}

	s.Run("invalid body", func() {
		resp := s.ta.Do(fiber.MethodPost, fmt.Sprintf("/projects/%s/vouchers", s.project.ID),
			`{"voucherNumber":"PV-9","transactionDate":"15/03/2024"}`)
		s.Equal(fiber.StatusBadRequest, resp.StatusCode)
		pd := testutils.Problem(s.T(), resp)
		s.Contains(pd.Errors, "fundId")
		s.Contains(pd.Errors, "transactionDate")
	})
}

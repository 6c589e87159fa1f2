// Package costing reads the ledger and feeds the pure aggregation functions
// of domain/costing. Nothing here writes.
package costing

import (
	"context"
	"log/slog"

	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/domain/costing"
	"github.com/amirasaad/fundledger/pkg/domain/ledger"
	"github.com/amirasaad/fundledger/pkg/domain/project"
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	"github.com/amirasaad/fundledger/pkg/report"
	"github.com/amirasaad/fundledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	collectedKinds = []ledger.Kind{ledger.KindCollection}
	disbursedKinds = []ledger.Kind{ledger.KindDisbursement, ledger.KindRefund}
)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func NewService(deps config.Deps) *Service {
	return &Service{uow: deps.Uow, logger: deps.Logger.With("service", "costing")}
}

func (s *Service) project(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	repo, err := s.uow.ProjectRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

func (s *Service) studio(ctx context.Context, id uuid.UUID) (*project.Studio, error) {
	repo, err := s.uow.StudioRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// vouchers lists the non-deleted vouchers of an owner.
func (s *Service) vouchers(ctx context.Context, scope voucher.Scope, ownerID uuid.UUID) ([]*voucher.Voucher, error) {
	repo, err := s.uow.VoucherRepository(scope)
	if err != nil {
		return nil, err
	}
	return repo.ListByOwner(ctx, ownerID, false)
}

func (s *Service) breakdown(ctx context.Context, scope voucher.Scope, vouchers []*voucher.Voucher) (costing.Breakdown, error) {
	open, closed := costing.SplitVouchers(vouchers)
	ids := make([]uint, 0, len(closed))
	for _, v := range closed {
		ids = append(ids, v.ID)
	}
	repo, err := s.uow.VoucherRepository(scope)
	if err != nil {
		return costing.Breakdown{}, err
	}
	details, err := repo.ListDetails(ctx, ids...)
	if err != nil {
		return costing.Breakdown{}, err
	}
	categories, err := s.uow.CategoryRepository()
	if err != nil {
		return costing.Breakdown{}, err
	}
	all, err := categories.List(ctx)
	if err != nil {
		return costing.Breakdown{}, err
	}
	return costing.VoucherDisbursementBreakdown(open, details, all), nil
}

// ProjectBreakdown splits the project's disbursements into the open-voucher
// bucket and per-category totals of closed vouchers.
func (s *Service) ProjectBreakdown(ctx context.Context, projectID uuid.UUID) (costing.Breakdown, error) {
	if _, err := s.project(ctx, projectID); err != nil {
		return costing.Breakdown{}, err
	}
	vouchers, err := s.vouchers(ctx, voucher.ScopeProject, projectID)
	if err != nil {
		return costing.Breakdown{}, err
	}
	return s.breakdown(ctx, voucher.ScopeProject, vouchers)
}

// StudioBreakdown is ProjectBreakdown for a studio.
func (s *Service) StudioBreakdown(ctx context.Context, studioID uuid.UUID) (costing.Breakdown, error) {
	if _, err := s.studio(ctx, studioID); err != nil {
		return costing.Breakdown{}, err
	}
	vouchers, err := s.vouchers(ctx, voucher.ScopeStudio, studioID)
	if err != nil {
		return costing.Breakdown{}, err
	}
	return s.breakdown(ctx, voucher.ScopeStudio, vouchers)
}

// AddOnTotals sums the project's add-on amounts.
func (s *Service) AddOnTotals(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, error) {
	repo, err := s.uow.ProjectRepository()
	if err != nil {
		return decimal.Zero, err
	}
	addOns, err := repo.ListAddOns(ctx, projectID)
	if err != nil {
		return decimal.Zero, err
	}
	return costing.AddOnTotals(addOns), nil
}

// CostPlusTotals computes one overhead row per project setting.
func (s *Service) CostPlusTotals(ctx context.Context, projectID uuid.UUID) ([]costing.SettingTotal, error) {
	repo, err := s.uow.ProjectRepository()
	if err != nil {
		return nil, err
	}
	settings, err := repo.ListSettings(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return []costing.SettingTotal{}, nil
	}
	addOns, err := repo.ListAddOns(ctx, projectID)
	if err != nil {
		return nil, err
	}
	vouchers, err := s.vouchers(ctx, voucher.ScopeProject, projectID)
	if err != nil {
		return nil, err
	}
	return costing.CostPlusTotals(settings, vouchers, addOns), nil
}

func (s *Service) sum(ctx context.Context, filter ledger.Filter) (decimal.Decimal, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return decimal.Zero, err
	}
	return repo.SumWhere(ctx, filter)
}

// ProjectFundSummary computes the headline project figures. The four
// aggregations are independent reads and run concurrently.
func (s *Service) ProjectFundSummary(ctx context.Context, projectID uuid.UUID) (costing.ProjectFundSummary, error) {
	logger := s.logger.With("projectID", projectID)
	if _, err := s.project(ctx, projectID); err != nil {
		return costing.ProjectFundSummary{}, err
	}

	var collected, disbursed, addOns, costPlus decimal.Decimal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		collected, err = s.sum(gctx, ledger.Filter{ProjectID: &projectID, Kinds: collectedKinds})
		return err
	})
	g.Go(func() (err error) {
		disbursed, err = s.sum(gctx, ledger.Filter{ProjectID: &projectID, Kinds: disbursedKinds})
		return err
	})
	g.Go(func() (err error) {
		addOns, err = s.AddOnTotals(gctx, projectID)
		return err
	})
	g.Go(func() error {
		rows, err := s.CostPlusTotals(gctx, projectID)
		if err != nil {
			return err
		}
		costPlus = costing.SumSettings(rows)
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("ProjectFundSummary failed", "error", err)
		return costing.ProjectFundSummary{}, err
	}
	return costing.NewProjectFundSummary(collected, disbursed, addOns, costPlus), nil
}

// StudioFundSummary computes the studio figures.
//
// NOTE: collected funds are summed over every collection in the ledger, not
// only the studio's. This matches the long-standing dashboard figure and is
// kept until the owners decide otherwise; see DESIGN.md.
func (s *Service) StudioFundSummary(ctx context.Context, studioID uuid.UUID) (costing.StudioFundSummary, error) {
	if _, err := s.studio(ctx, studioID); err != nil {
		return costing.StudioFundSummary{}, err
	}
	var collected, disbursed decimal.Decimal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		collected, err = s.sum(gctx, ledger.Filter{Kinds: collectedKinds})
		return err
	})
	g.Go(func() (err error) {
		disbursed, err = s.sum(gctx, ledger.Filter{StudioID: &studioID, Kinds: disbursedKinds})
		return err
	})
	if err := g.Wait(); err != nil {
		return costing.StudioFundSummary{}, err
	}
	return costing.NewStudioFundSummary(collected, disbursed), nil
}

// ProjectReport gathers everything the project exports render.
func (s *Service) ProjectReport(ctx context.Context, projectID uuid.UUID) (r report.ProjectReport, err error) {
	p, err := s.project(ctx, projectID)
	if err != nil {
		return r, err
	}
	r.Project = *p
	if r.Summary, err = s.ProjectFundSummary(ctx, projectID); err != nil {
		return r, err
	}
	if r.Vouchers, err = s.vouchers(ctx, voucher.ScopeProject, projectID); err != nil {
		return r, err
	}
	if r.Breakdown, err = s.breakdown(ctx, voucher.ScopeProject, r.Vouchers); err != nil {
		return r, err
	}
	if r.CostPlus, err = s.CostPlusTotals(ctx, projectID); err != nil {
		return r, err
	}
	repo, err := s.uow.ProjectRepository()
	if err != nil {
		return r, err
	}
	r.AddOns, err = repo.ListAddOns(ctx, projectID)
	return r, err
}

// StudioReport gathers everything the studio export renders.
func (s *Service) StudioReport(ctx context.Context, studioID uuid.UUID) (r report.StudioReport, err error) {
	st, err := s.studio(ctx, studioID)
	if err != nil {
		return r, err
	}
	r.Studio = *st
	if r.Summary, err = s.StudioFundSummary(ctx, studioID); err != nil {
		return r, err
	}
	if r.Vouchers, err = s.vouchers(ctx, voucher.ScopeStudio, studioID); err != nil {
		return r, err
	}
	r.Breakdown, err = s.breakdown(ctx, voucher.ScopeStudio, r.Vouchers)
	return r, err
}

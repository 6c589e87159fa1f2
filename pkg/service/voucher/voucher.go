// Package voucher runs the voucher lifecycle for both projects and studios:
// create (with its disbursement), itemize, close (with its refund), reopen and
// the cost-plus flag. Each operation is a single commit.
package voucher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/domain"
	"github.com/amirasaad/fundledger/pkg/domain/events"
	"github.com/amirasaad/fundledger/pkg/domain/ledger"
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	"github.com/amirasaad/fundledger/pkg/eventbus"
	"github.com/amirasaad/fundledger/pkg/repository"
	"github.com/amirasaad/fundledger/pkg/service/posting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	logger *slog.Logger
	ledger *config.Ledger
}

func NewService(deps config.Deps) *Service {
	s := &Service{
		uow:    deps.Uow,
		bus:    deps.EventBus,
		logger: deps.Logger.With("service", "voucher"),
		ledger: &config.Ledger{
			RefundComment:   "Refund on voucher closure",
			DeletionComment: "Refund on voucher deletion",
		},
	}
	if deps.Config != nil && deps.Config.Ledger != nil {
		s.ledger = deps.Config.Ledger
	}
	return s
}

// CreateInput is the form data of a new voucher.
type CreateInput struct {
	Scope           voucher.Scope
	OwnerID         uuid.UUID
	FundID          uuid.UUID
	VoucherNumber   string
	Description     string
	DisbursedAmount decimal.Decimal
	TransactionDate time.Time
	CostPlus        bool
	UserID          string
}

// Create inserts the voucher and posts its -disbursedAmount disbursement
// against the fund in the same commit.
func (s *Service) Create(ctx context.Context, in CreateInput) (v *voucher.Voucher, err error) {
	logger := s.logger.With("scope", in.Scope, "owner", in.OwnerID, "number", in.VoucherNumber, "userID", in.UserID)
	v, err = voucher.New(
		in.Scope, in.OwnerID, in.FundID,
		in.VoucherNumber, in.Description,
		in.DisbursedAmount, in.TransactionDate,
		in.CostPlus, in.UserID,
	)
	if err != nil {
		logger.Warn("Create rejected", "error", err)
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.VoucherRepository(in.Scope)
		if err != nil {
			return err
		}
		if err := checkOwner(ctx, uow, in.Scope, in.OwnerID); err != nil {
			return err
		}
		exists, err := repo.ExistsNumber(ctx, v.VoucherNumber)
		if err != nil {
			return err
		}
		if exists {
			return &voucher.DuplicateNumberError{Scope: in.Scope, Number: v.VoucherNumber}
		}
		if err := repo.Create(ctx, v); err != nil {
			return err
		}
		_, err = posting.Post(ctx, uow, target(v, ledger.Posting{
			Kind:        ledger.KindDisbursement,
			Amount:      v.DisbursedAmount.Neg(),
			Description: fmt.Sprintf("Voucher %s", v.VoucherNumber),
			FundID:      v.FundID,
			Comments:    v.Description,
			CreatedByID: in.UserID,
		}))
		return err
	})
	if err != nil {
		logger.Error("Create failed", "error", err)
		return nil, err
	}
	logger.Info("Create successful", "voucherID", v.ID)
	s.emit(ctx, &events.VoucherCreated{VoucherEvent: s.voucherEvent(in.UserID, v, v.DisbursedAmount)})
	return v, nil
}

// AddDetail records an itemized expense. The voucher must be open and the
// running itemized total must stay within the disbursed amount.
func (s *Service) AddDetail(ctx context.Context, scope voucher.Scope, voucherID uint, d *voucher.Detail, userID string) error {
	logger := s.logger.With("scope", scope, "voucherID", voucherID, "userID", userID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.VoucherRepository(scope)
		if err != nil {
			return err
		}
		v, err := repo.Get(ctx, voucherID)
		if err != nil {
			return err
		}
		if !v.IsOpen() {
			return v.StateError()
		}
		if d.DetailCategoryID != 0 {
			categories, err := uow.CategoryRepository()
			if err != nil {
				return err
			}
			if _, err := categories.Get(ctx, d.DetailCategoryID); err != nil {
				return err
			}
		}
		itemized, err := repo.SumDetails(ctx, voucherID)
		if err != nil {
			return err
		}
		if err := v.CheckDetail(d, itemized); err != nil {
			return err
		}
		d.VoucherID = voucherID
		if err := repo.CreateDetail(ctx, d); err != nil {
			return err
		}
		return repo.Touch(ctx, voucherID, userID)
	})
	if err != nil {
		logger.Error("AddDetail failed", "error", err)
		return err
	}
	logger.Info("AddDetail successful", "detailID", d.ID, "amount", d.Amount.String())
	return nil
}

// DeleteDetail removes a detail from an open voucher.
func (s *Service) DeleteDetail(ctx context.Context, scope voucher.Scope, voucherID, detailID uint, userID string) error {
	logger := s.logger.With("scope", scope, "voucherID", voucherID, "detailID", detailID, "userID", userID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.VoucherRepository(scope)
		if err != nil {
			return err
		}
		v, err := repo.Get(ctx, voucherID)
		if err != nil {
			return err
		}
		if !v.IsOpen() {
			return v.StateError()
		}
		if err := repo.DeleteDetail(ctx, voucherID, detailID); err != nil {
			return err
		}
		return repo.Touch(ctx, voucherID, userID)
	})
	if err != nil {
		logger.Error("DeleteDetail failed", "error", err)
		return err
	}
	logger.Info("DeleteDetail successful")
	return nil
}

// CloseResult is the closed voucher and its refund, nil when nothing was refunded.
type CloseResult struct {
	Voucher *voucher.Voucher    `json:"voucher"`
	Refund  *ledger.Transaction `json:"refund"`
}

// Close reconciles the voucher against its details. Any unspent remainder is
// refunded to refundFundID (the voucher's own fund when nil); a voucher whose
// whole disbursement comes back is retired as deleted.
func (s *Service) Close(
	ctx context.Context,
	scope voucher.Scope,
	voucherID uint,
	refundFundID *uuid.UUID,
	userID string,
) (res *CloseResult, err error) {
	logger := s.logger.With("scope", scope, "voucherID", voucherID, "userID", userID)
	logger.Info("Close started")
	var closing voucher.Closing
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.VoucherRepository(scope)
		if err != nil {
			return err
		}
		v, err := repo.Get(ctx, voucherID)
		if err != nil {
			return err
		}
		details, err := repo.ListDetails(ctx, voucherID)
		if err != nil {
			return err
		}
		closing, err = v.Reconcile(details)
		if err != nil {
			return err
		}
		v.Apply(closing, userID)
		if err := repo.Update(ctx, v); err != nil {
			return err
		}
		res = &CloseResult{Voucher: v}
		if !closing.NeedsRefund() {
			return nil
		}

		fundID := v.FundID
		if refundFundID != nil {
			fundID = *refundFundID
		}
		comment := s.ledger.RefundComment
		if closing.IsDeleted {
			comment = s.ledger.DeletionComment
		}
		res.Refund, err = posting.Post(ctx, uow, target(v, ledger.Posting{
			Kind:        ledger.KindRefund,
			Amount:      closing.RefundAmount,
			Description: fmt.Sprintf("Refund for voucher %s", v.VoucherNumber),
			FundID:      fundID,
			Comments:    comment,
			CreatedByID: userID,
		}))
		return err
	})
	if err != nil {
		logger.Error("Close failed", "error", err)
		return nil, err
	}
	logger.Info("Close successful",
		"consumed", closing.ConsumedAmount.String(),
		"refund", closing.RefundAmount.String(),
		"deleted", closing.IsDeleted)

	evt := &events.VoucherClosed{
		VoucherEvent: s.voucherEvent(userID, res.Voucher, res.Voucher.ConsumedAmount),
		RefundAmount: closing.RefundAmount,
		Deleted:      closing.IsDeleted,
	}
	if res.Refund != nil {
		evt.FundID = res.Refund.FundID
	}
	s.emit(ctx, evt)
	return res, nil
}

// Reopen flips a closed studio voucher back to open. The refund posted on
// close is left in place.
func (s *Service) Reopen(ctx context.Context, scope voucher.Scope, voucherID uint, userID string) (v *voucher.Voucher, err error) {
	if scope != voucher.ScopeStudio {
		return nil, domain.NewValidationError("scope", "Only studio vouchers can be reopened.")
	}
	logger := s.logger.With("scope", scope, "voucherID", voucherID, "userID", userID)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.VoucherRepository(scope)
		if err != nil {
			return err
		}
		v, err = repo.Get(ctx, voucherID)
		if err != nil {
			return err
		}
		if !v.IsClosed || v.IsDeleted {
			return v.StateError()
		}
		v.IsClosed = false
		v.UpdatedByID = userID
		v.UpdatedAt = time.Now().UTC()
		return repo.Update(ctx, v)
	})
	if err != nil {
		logger.Error("Reopen failed", "error", err)
		return nil, err
	}
	logger.Info("Reopen successful")
	s.emit(ctx, &events.VoucherReopened{VoucherEvent: s.voucherEvent(userID, v, v.ConsumedAmount)})
	return v, nil
}

// ToggleCostPlus flips whether a project voucher counts toward the cost-plus base.
func (s *Service) ToggleCostPlus(ctx context.Context, scope voucher.Scope, voucherID uint, userID string) (v *voucher.Voucher, err error) {
	if scope != voucher.ScopeProject {
		return nil, domain.NewValidationError("scope", "Only project vouchers carry a cost-plus flag.")
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.VoucherRepository(scope)
		if err != nil {
			return err
		}
		v, err = repo.Get(ctx, voucherID)
		if err != nil {
			return err
		}
		v.CostPlus = !v.CostPlus
		v.UpdatedByID = userID
		v.UpdatedAt = time.Now().UTC()
		return repo.Update(ctx, v)
	})
	if err != nil {
		s.logger.Error("ToggleCostPlus failed", "voucherID", voucherID, "error", err)
		return nil, err
	}
	s.logger.Info("ToggleCostPlus successful", "voucherID", voucherID, "costPlus", v.CostPlus)
	return v, nil
}

// WithDetails is a voucher with its itemized expenses.
type WithDetails struct {
	*voucher.Voucher
	Details  []*voucher.Detail `json:"details"`
	Itemized decimal.Decimal   `json:"itemized"`
}

// Get loads a voucher and its details.
func (s *Service) Get(ctx context.Context, scope voucher.Scope, voucherID uint) (*WithDetails, error) {
	repo, err := s.uow.VoucherRepository(scope)
	if err != nil {
		return nil, err
	}
	v, err := repo.Get(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	details, err := repo.ListDetails(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	return &WithDetails{Voucher: v, Details: details, Itemized: voucher.SumDetails(details)}, nil
}

// List returns the vouchers of one project or studio.
func (s *Service) List(ctx context.Context, scope voucher.Scope, ownerID uuid.UUID, includeDeleted bool) ([]*voucher.Voucher, error) {
	if err := checkOwner(ctx, s.uow, scope, ownerID); err != nil {
		return nil, err
	}
	repo, err := s.uow.VoucherRepository(scope)
	if err != nil {
		return nil, err
	}
	return repo.ListByOwner(ctx, ownerID, includeDeleted)
}

// Details lists the details of several vouchers at once.
func (s *Service) Details(ctx context.Context, scope voucher.Scope, voucherIDs ...uint) ([]*voucher.Detail, error) {
	repo, err := s.uow.VoucherRepository(scope)
	if err != nil {
		return nil, err
	}
	return repo.ListDetails(ctx, voucherIDs...)
}

func checkOwner(ctx context.Context, uow repository.UnitOfWork, scope voucher.Scope, ownerID uuid.UUID) error {
	switch scope {
	case voucher.ScopeProject:
		repo, err := uow.ProjectRepository()
		if err != nil {
			return err
		}
		_, err = repo.Get(ctx, ownerID)
		return err
	case voucher.ScopeStudio:
		repo, err := uow.StudioRepository()
		if err != nil {
			return err
		}
		_, err = repo.Get(ctx, ownerID)
		return err
	}
	return domain.NewValidationError("scope", "Unknown voucher scope.")
}

// target points a posting at the voucher's owner.
func target(v *voucher.Voucher, p ledger.Posting) ledger.Posting {
	owner := v.OwnerID
	if v.Scope == voucher.ScopeProject {
		p.ProjectID = &owner
	} else {
		p.StudioID = &owner
	}
	return p
}

func (s *Service) voucherEvent(userID string, v *voucher.Voucher, amount decimal.Decimal) events.VoucherEvent {
	return events.NewVoucherEvent(userID, string(v.Scope), v.ID, v.VoucherNumber, v.FundID, amount)
}

func (s *Service) emit(ctx context.Context, evt events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, evt); err != nil {
		s.logger.Error("failed to emit event", "type", evt.Type(), "error", err)
	}
}

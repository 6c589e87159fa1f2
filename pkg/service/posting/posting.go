// Package posting writes fund transactions. Every write is one atomic commit;
// balances are derived on read and never stored.
package posting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/domain"
	"github.com/amirasaad/fundledger/pkg/domain/events"
	"github.com/amirasaad/fundledger/pkg/domain/ledger"
	"github.com/amirasaad/fundledger/pkg/eventbus"
	"github.com/amirasaad/fundledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service posts transactions and reads fund balances.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	logger *slog.Logger
	ledger *config.Ledger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	s := &Service{
		uow:    deps.Uow,
		bus:    deps.EventBus,
		logger: deps.Logger.With("service", "posting"),
		ledger: &config.Ledger{TransferComment: "Fund transfer"},
	}
	if deps.Config != nil && deps.Config.Ledger != nil {
		s.ledger = deps.Config.Ledger
	}
	return s
}

// Post validates p and writes exactly one transaction through uow. It is the
// building block shared with the voucher lifecycle, which calls it inside its
// own commit.
func Post(ctx context.Context, uow repository.UnitOfWork, p ledger.Posting) (*ledger.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	funds, err := uow.FundRepository()
	if err != nil {
		return nil, err
	}
	if _, err := funds.Get(ctx, p.FundID); err != nil {
		return nil, err
	}
	if err := checkTarget(ctx, uow, p); err != nil {
		return nil, err
	}
	txs, err := uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	tx := p.Transaction()
	if err := txs.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func checkTarget(ctx context.Context, uow repository.UnitOfWork, p ledger.Posting) error {
	switch {
	case p.ProjectID != nil:
		repo, err := uow.ProjectRepository()
		if err != nil {
			return err
		}
		_, err = repo.Get(ctx, *p.ProjectID)
		return err
	case p.StudioID != nil:
		repo, err := uow.StudioRepository()
		if err != nil {
			return err
		}
		_, err = repo.Get(ctx, *p.StudioID)
		return err
	}
	return nil
}

// CreateFund validates and stores a new fund. A taken code is reported as a
// field error on code.
func (s *Service) CreateFund(ctx context.Context, name, code, description, userID string) (f *ledger.Fund, err error) {
	logger := s.logger.With("code", code, "userID", userID)
	f, err = ledger.NewFund(name, code, description)
	if err != nil {
		logger.Warn("CreateFund rejected", "error", err)
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.FundRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, f)
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, domain.NewValidationError("code", fmt.Sprintf("Fund code %s is already in use.", f.Code))
	}
	if err != nil {
		logger.Error("CreateFund failed", "error", err)
		return nil, err
	}
	logger.Info("CreateFund successful", "fundID", f.ID)
	s.emit(ctx, events.NewFundCreated(userID, f.ID, f.Code))
	return f, nil
}

// PostTransaction writes one transaction in its own commit.
func (s *Service) PostTransaction(ctx context.Context, p ledger.Posting) (tx *ledger.Transaction, err error) {
	logger := s.logger.With("fundID", p.FundID, "kind", p.Kind, "amount", p.Amount.String())
	logger.Info("PostTransaction started")
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		tx, err = Post(ctx, uow, p)
		return err
	})
	if err != nil {
		logger.Error("PostTransaction failed", "error", err)
		return nil, err
	}
	logger.Info("PostTransaction successful", "transactionID", tx.ID)
	s.emit(ctx, events.NewTransactionPosted(p.CreatedByID, tx.ID, tx.FundID, string(tx.Type), tx.Amount))
	return tx, nil
}

// Transfer is the pair of legs written by TransferFunds.
type Transfer struct {
	Out *ledger.Transaction `json:"out"`
	In  *ledger.Transaction `json:"in"`
}

// TransferFunds moves amount from one fund to another as two transfer legs
// that commit together: -amount on from, +amount on to.
func (s *Service) TransferFunds(
	ctx context.Context,
	amount decimal.Decimal,
	from, to uuid.UUID,
	description, userID string,
) (t *Transfer, err error) {
	logger := s.logger.With("from", from, "to", to, "amount", amount.String(), "userID", userID)
	v := &domain.ValidationError{}
	if !amount.IsPositive() {
		v.Add("amount", "Amount must be greater than zero.")
	}
	if from == to {
		v.Add("toFundId", "Cannot transfer to the same fund.")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if description == "" {
		description = s.ledger.TransferComment
	}

	now := time.Now().UTC()
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		funds, err := uow.FundRepository()
		if err != nil {
			return err
		}
		src, err := funds.Get(ctx, from)
		if err != nil {
			return err
		}
		dst, err := funds.Get(ctx, to)
		if err != nil {
			return err
		}
		out, err := Post(ctx, uow, ledger.Posting{
			Kind:        ledger.KindTransfer,
			Amount:      amount.Neg(),
			Description: description,
			FundID:      src.ID,
			Comments:    "Transfer to " + dst.Code,
			CreatedByID: userID,
			Timestamp:   now,
		})
		if err != nil {
			return err
		}
		in, err := Post(ctx, uow, ledger.Posting{
			Kind:        ledger.KindTransfer,
			Amount:      amount,
			Description: description,
			FundID:      dst.ID,
			Comments:    "Transfer from " + src.Code,
			CreatedByID: userID,
			Timestamp:   now,
		})
		if err != nil {
			return err
		}
		t = &Transfer{Out: out, In: in}
		return nil
	})
	if err != nil {
		logger.Error("TransferFunds failed", "error", err)
		return nil, err
	}
	logger.Info("TransferFunds successful")
	s.emit(ctx, events.NewFundsTransferred(userID, from, to, amount))
	return t, nil
}

// FundBalance sums the fund's transactions, optionally within [from, to].
func (s *Service) FundBalance(ctx context.Context, fundID uuid.UUID, from, to *time.Time) (decimal.Decimal, error) {
	funds, err := s.uow.FundRepository()
	if err != nil {
		return decimal.Zero, err
	}
	if _, err := funds.Get(ctx, fundID); err != nil {
		return decimal.Zero, err
	}
	txs, err := s.uow.TransactionRepository()
	if err != nil {
		return decimal.Zero, err
	}
	return txs.SumWhere(ctx, ledger.Filter{FundID: &fundID, From: from, To: to})
}

// ListFunds returns every fund with its derived balance.
func (s *Service) ListFunds(ctx context.Context) ([]*ledger.FundWithBalance, error) {
	funds, err := s.uow.FundRepository()
	if err != nil {
		return nil, err
	}
	list, err := funds.List(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	balances, err := txs.SumByFund(ctx, ledger.Filter{})
	if err != nil {
		return nil, err
	}
	out := make([]*ledger.FundWithBalance, 0, len(list))
	for _, f := range list {
		out = append(out, &ledger.FundWithBalance{Fund: *f, Balance: balances[f.ID]})
	}
	return out, nil
}

// ListTransactions returns matching transactions, newest first. A fund filter
// must name an existing fund.
func (s *Service) ListTransactions(ctx context.Context, filter ledger.Filter) ([]*ledger.Transaction, error) {
	if filter.FundID != nil {
		funds, err := s.uow.FundRepository()
		if err != nil {
			return nil, err
		}
		if _, err := funds.Get(ctx, *filter.FundID); err != nil {
			return nil, err
		}
	}
	txs, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return txs.List(ctx, filter)
}

func (s *Service) emit(ctx context.Context, evt events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, evt); err != nil {
		s.logger.Error("failed to emit event", "type", evt.Type(), "error", err)
	}
}

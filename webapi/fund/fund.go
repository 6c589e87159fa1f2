package fund

import (
	"github.com/amirasaad/fundledger/pkg/domain/ledger"
	"github.com/amirasaad/fundledger/pkg/middleware"
	"github.com/amirasaad/fundledger/pkg/service/posting"
	"github.com/amirasaad/fundledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the fund endpoints.
//
//   - POST /funds                   : create a fund
//   - GET  /funds                   : list funds with balances
//   - GET  /funds/:id/balance       : derived balance, optionally windowed
//   - GET  /funds/:id/transactions  : transaction history
//   - POST /funds/:id/transactions  : post a collection, refund or disbursement
//   - POST /funds/:id/transfer      : move money to another fund
func Routes(app *fiber.App, svc *posting.Service, protected fiber.Handler) {
	app.Post("/funds", protected, CreateFund(svc))
	app.Get("/funds", protected, ListFunds(svc))
	app.Get("/funds/:id/balance", protected, GetBalance(svc))
	app.Get("/funds/:id/transactions", protected, ListTransactions(svc))
	app.Post("/funds/:id/transactions", protected, PostTransaction(svc))
	app.Post("/funds/:id/transfer", protected, Transfer(svc))
}

// CreateFund returns a handler creating a fund.
// @Summary Create a fund
// @Tags funds
// @Accept json
// @Produce json
// @Param request body CreateFundRequest true "Fund"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Router /funds [post]
// @Security Bearer
func CreateFund(svc *posting.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[CreateFundRequest](c)
		if input == nil {
			return err
		}
		f, err := svc.CreateFund(c.UserContext(), input.Name, input.Code, input.Description, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create fund", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Fund created", f)
	}
}

// ListFunds returns a handler listing funds with their balances.
// @Summary List funds
// @Tags funds
// @Produce json
// @Success 200 {object} common.Response
// @Router /funds [get]
// @Security Bearer
func ListFunds(svc *posting.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		funds, err := svc.ListFunds(c.UserContext())
		if err != nil {
			log.Errorf("Failed to list funds: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to list funds", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Funds fetched", funds)
	}
}

// GetBalance returns a handler computing a fund balance.
// @Summary Fund balance
// @Description Sum of the fund's transactions, optionally limited to [from, to].
// @Tags funds
// @Produce json
// @Param id path string true "Fund ID"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /funds/{id}/balance [get]
// @Security Bearer
func GetBalance(svc *posting.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fundID, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid fund ID", err)
		}
		from, err := common.OptionalDate("from", c.Query("from"), false)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid date", err)
		}
		to, err := common.OptionalDate("to", c.Query("to"), true)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid date", err)
		}
		balance, err := svc.FundBalance(c.UserContext(), fundID, from, to)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to compute balance", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance fetched", BalanceResponse{
			FundID:  fundID.String(),
			Balance: balance,
			From:    c.Query("from"),
			To:      c.Query("to"),
		})
	}
}

// ListTransactions returns a handler listing a fund's transactions.
// @Summary Fund transactions
// @Tags funds
// @Produce json
// @Param id path string true "Fund ID"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Param type query string false "collection, refund, disbursement or transfer"
// @Success 200 {object} common.Response
// @Router /funds/{id}/transactions [get]
// @Security Bearer
func ListTransactions(svc *posting.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fundID, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid fund ID", err)
		}
		filter := ledger.Filter{FundID: &fundID}
		if filter.From, err = common.OptionalDate("from", c.Query("from"), false); err != nil {
			return common.ProblemDetailsJSON(c, "Invalid date", err)
		}
		if filter.To, err = common.OptionalDate("to", c.Query("to"), true); err != nil {
			return common.ProblemDetailsJSON(c, "Invalid date", err)
		}
		if t := c.Query("type"); t != "" {
			kind, ok := ledger.ParseKind(t)
			if !ok {
				return common.ProblemDetailsJSON(c, "Invalid type", nil, "Unknown transaction type.", fiber.StatusBadRequest)
			}
			filter.Kinds = []ledger.Kind{kind}
		}
		txs, err := svc.ListTransactions(c.UserContext(), filter)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", txs)
	}
}

// PostTransaction returns a handler posting a single transaction.
// @Summary Post a transaction
// @Description Collections must be positive and disbursements negative.
// @Tags funds
// @Accept json
// @Produce json
// @Param id path string true "Fund ID"
// @Param request body PostTransactionRequest true "Transaction"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /funds/{id}/transactions [post]
// @Security Bearer
func PostTransaction(svc *posting.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		fundID, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid fund ID", err)
		}
		input, err := common.BindAndValidate[PostTransactionRequest](c)
		if input == nil {
			return err
		}
		projectID, _ := common.OptionalUUID("projectId", input.ProjectID)
		studioID, _ := common.OptionalUUID("studioId", input.StudioID)
		kind, _ := ledger.ParseKind(input.Type)

		tx, err := svc.PostTransaction(c.UserContext(), ledger.Posting{
			Kind:        kind,
			Amount:      input.Amount,
			Description: input.Description,
			FundID:      fundID,
			ProjectID:   projectID,
			StudioID:    studioID,
			Comments:    input.Comments,
			CreatedByID: userID,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to post transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction posted", tx)
	}
}

// Transfer returns a handler moving money between funds.
// @Summary Transfer between funds
// @Tags funds
// @Accept json
// @Produce json
// @Param id path string true "Source fund ID"
// @Param request body TransferRequest true "Transfer"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /funds/{id}/transfer [post]
// @Security Bearer
func Transfer(svc *posting.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		fromID, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid fund ID", err)
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		toID, _ := common.OptionalUUID("toFundId", input.ToFundID)
		t, err := svc.TransferFunds(c.UserContext(), input.Amount, fromID, *toID, input.Description, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to transfer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer completed", t)
	}
}

// Package voucher serves the voucher lifecycle: issue, itemize, close and,
// for studios, reopen.
package voucher

import (
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	"github.com/amirasaad/fundledger/pkg/middleware"
	vouchersvc "github.com/amirasaad/fundledger/pkg/service/voucher"
	"github.com/amirasaad/fundledger/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the voucher endpoints.
//
// Vouchers are created and listed under their owner; everything else
// addresses them as /vouchers/:scope/:voucherId where scope is project or
// studio (plural spellings accepted).
func Routes(app *fiber.App, svc *vouchersvc.Service, protected fiber.Handler) {
	app.Post("/projects/:id/vouchers", protected, CreateVoucher(svc, voucher.ScopeProject))
	app.Get("/projects/:id/vouchers", protected, ListVouchers(svc, voucher.ScopeProject))
	app.Post("/studios/:id/vouchers", protected, CreateVoucher(svc, voucher.ScopeStudio))
	app.Get("/studios/:id/vouchers", protected, ListVouchers(svc, voucher.ScopeStudio))

	app.Get("/vouchers/:scope/:voucherId", protected, GetVoucher(svc))
	app.Post("/vouchers/:scope/:voucherId/details", protected, AddDetail(svc))
	app.Delete("/vouchers/:scope/:voucherId/details/:detailId", protected, DeleteDetail(svc))
	app.Post("/vouchers/:scope/:voucherId/close", protected, CloseVoucher(svc))
	app.Post("/vouchers/:scope/:voucherId/reopen", protected, ReopenVoucher(svc))
	app.Post("/vouchers/:scope/:voucherId/cost-plus", protected, ToggleCostPlus(svc))
}

func voucherRef(c *fiber.Ctx) (voucher.Scope, uint, error) {
	scope, err := voucher.ParseScope(c.Params("scope"))
	if err != nil {
		return "", 0, err
	}
	id, err := common.UintParam(c, "voucherId")
	if err != nil {
		return "", 0, err
	}
	return scope, id, nil
}

// CreateVoucher returns a handler issuing a voucher to a project or studio.
// The disbursement transaction is posted in the same commit.
// @Summary Issue a voucher
// @Tags vouchers
// @Accept json
// @Produce json
// @Param id path string true "Project or studio ID"
// @Param request body CreateVoucherRequest true "Voucher"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails "Duplicate voucher number"
// @Router /projects/{id}/vouchers [post]
// @Router /studios/{id}/vouchers [post]
// @Security Bearer
func CreateVoucher(svc *vouchersvc.Service, scope voucher.Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		ownerID, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid owner ID", err)
		}
		input, err := common.BindAndValidate[CreateVoucherRequest](c)
		if input == nil {
			return err
		}
		fundID, _ := common.OptionalUUID("fundId", input.FundID)
		date, _ := common.OptionalDate("transactionDate", input.TransactionDate, false)

		v, err := svc.Create(c.UserContext(), vouchersvc.CreateInput{
			Scope:           scope,
			OwnerID:         ownerID,
			FundID:          *fundID,
			VoucherNumber:   input.VoucherNumber,
			Description:     input.Description,
			DisbursedAmount: input.DisbursedAmount,
			TransactionDate: *date,
			CostPlus:        input.CostPlus,
			UserID:          userID,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create voucher", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Voucher created", v)
	}
}

// ListVouchers returns a handler listing an owner's vouchers.
// @Summary List vouchers
// @Tags vouchers
// @Produce json
// @Param id path string true "Project or studio ID"
// @Param includeDeleted query bool false "Include retired vouchers"
// @Success 200 {object} common.Response
// @Router /projects/{id}/vouchers [get]
// @Router /studios/{id}/vouchers [get]
// @Security Bearer
func ListVouchers(svc *vouchersvc.Service, scope voucher.Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid owner ID", err)
		}
		list, err := svc.List(c.UserContext(), scope, ownerID, c.QueryBool("includeDeleted"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list vouchers", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Vouchers fetched", list)
	}
}

// GetVoucher returns a handler fetching a voucher with its details.
// @Summary Get a voucher
// @Tags vouchers
// @Produce json
// @Param scope path string true "project or studio"
// @Param voucherId path int true "Voucher ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /vouchers/{scope}/{voucherId} [get]
// @Security Bearer
func GetVoucher(svc *vouchersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, id, err := voucherRef(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid voucher reference", err)
		}
		v, err := svc.Get(c.UserContext(), scope, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Voucher not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Voucher fetched", v)
	}
}

// AddDetail returns a handler itemizing an expense on an open voucher.
// @Summary Add a voucher detail
// @Description The itemized total may not exceed the disbursed amount.
// @Tags vouchers
// @Accept json
// @Produce json
// @Param scope path string true "project or studio"
// @Param voucherId path int true "Voucher ID"
// @Param request body DetailRequest true "Detail"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails "Voucher closed"
// @Router /vouchers/{scope}/{voucherId}/details [post]
// @Security Bearer
func AddDetail(svc *vouchersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		scope, id, err := voucherRef(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid voucher reference", err)
		}
		input, err := common.BindAndValidate[DetailRequest](c)
		if input == nil {
			return err
		}
		d := &voucher.Detail{
			VoucherID:        id,
			Description:      input.Description,
			Amount:           input.Amount,
			Quantity:         input.Quantity,
			DetailCategoryID: input.DetailCategoryID,
			SupplierName:     input.SupplierName,
			ReferenceNumber:  input.ReferenceNumber,
		}
		if err := svc.AddDetail(c.UserContext(), scope, id, d, userID); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to add detail", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Detail added", d)
	}
}

// DeleteDetail returns a handler removing a detail from an open voucher.
// @Summary Delete a voucher detail
// @Tags vouchers
// @Param scope path string true "project or studio"
// @Param voucherId path int true "Voucher ID"
// @Param detailId path int true "Detail ID"
// @Success 204
// @Router /vouchers/{scope}/{voucherId}/details/{detailId} [delete]
// @Security Bearer
func DeleteDetail(svc *vouchersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		scope, id, err := voucherRef(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid voucher reference", err)
		}
		detailID, err := common.UintParam(c, "detailId")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid detail ID", err)
		}
		if err := svc.DeleteDetail(c.UserContext(), scope, id, detailID, userID); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete detail", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CloseVoucher returns a handler closing a voucher and refunding the unspent remainder.
// @Summary Close a voucher
// @Description Refunds disbursed minus itemized to refundFundId, or to the voucher's fund when omitted.
// @Tags vouchers
// @Accept json
// @Produce json
// @Param scope path string true "project or studio"
// @Param voucherId path int true "Voucher ID"
// @Param request body CloseRequest false "Refund target"
// @Success 200 {object} common.Response
// @Failure 409 {object} common.ProblemDetails "Voucher already closed"
// @Router /vouchers/{scope}/{voucherId}/close [post]
// @Security Bearer
func CloseVoucher(svc *vouchersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		scope, id, err := voucherRef(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid voucher reference", err)
		}
		input := &CloseRequest{}
		if len(c.Body()) > 0 {
			if input, err = common.BindAndValidate[CloseRequest](c); input == nil {
				return err
			}
		}
		refundFundID, _ := common.OptionalUUID("refundFundId", input.RefundFundID)

		res, err := svc.Close(c.UserContext(), scope, id, refundFundID, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to close voucher", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Voucher closed", res)
	}
}

// ReopenVoucher returns a handler reopening a closed studio voucher.
// @Summary Reopen a studio voucher
// @Description The refund posted on close is kept.
// @Tags vouchers
// @Produce json
// @Param scope path string true "studio"
// @Param voucherId path int true "Voucher ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails "Project vouchers cannot be reopened"
// @Router /vouchers/{scope}/{voucherId}/reopen [post]
// @Security Bearer
func ReopenVoucher(svc *vouchersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		scope, id, err := voucherRef(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid voucher reference", err)
		}
		v, err := svc.Reopen(c.UserContext(), scope, id, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to reopen voucher", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Voucher reopened", v)
	}
}

// ToggleCostPlus returns a handler flipping a project voucher's cost-plus flag.
// @Summary Toggle cost-plus
// @Tags vouchers
// @Produce json
// @Param scope path string true "project"
// @Param voucherId path int true "Voucher ID"
// @Success 200 {object} common.Response
// @Router /vouchers/{scope}/{voucherId}/cost-plus [post]
// @Security Bearer
func ToggleCostPlus(svc *vouchersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		scope, id, err := voucherRef(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid voucher reference", err)
		}
		v, err := svc.ToggleCostPlus(c.UserContext(), scope, id, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to toggle cost-plus", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Cost-plus updated", v)
	}
}

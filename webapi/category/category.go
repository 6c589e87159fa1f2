// Package category serves the expense category tree.
package category

import (
	"strconv"

	"github.com/amirasaad/fundledger/pkg/domain"
	categorysvc "github.com/amirasaad/fundledger/pkg/service/category"
	"github.com/amirasaad/fundledger/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// CreateCategoryRequest is the body of POST /categories.
type CreateCategoryRequest struct {
	Description string `json:"description" validate:"required,max=200"`
	ParentID    *uint  `json:"parentId"`
}

// Routes registers the category endpoints.
func Routes(app *fiber.App, svc *categorysvc.Service, protected fiber.Handler) {
	app.Post("/categories", protected, CreateCategory(svc))
	app.Get("/categories", protected, ListCategories(svc))
	app.Get("/categories/tree", protected, CategoryTree(svc))
}

// CreateCategory returns a handler adding a category.
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body CreateCategoryRequest true "Category"
// @Success 201 {object} common.Response
// @Failure 404 {object} common.ProblemDetails "Parent not found"
// @Router /categories [post]
// @Security Bearer
func CreateCategory(svc *categorysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateCategoryRequest](c)
		if input == nil {
			return err
		}
		cat, err := svc.Create(c.UserContext(), input.Description, input.ParentID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create category", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Category created", cat)
	}
}

// ListCategories returns a handler listing categories flat.
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} common.Response
// @Router /categories [get]
// @Security Bearer
func ListCategories(svc *categorysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.List(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list categories", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Categories fetched", list)
	}
}

// CategoryTree returns a handler building the nested category tree.
// @Summary Category tree
// @Tags categories
// @Produce json
// @Param parentId query int false "Subtree root"
// @Success 200 {object} common.Response
// @Router /categories/tree [get]
// @Security Bearer
func CategoryTree(svc *categorysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var parentID *uint
		if raw := c.Query("parentId"); raw != "" {
			n, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Invalid parent ID",
					domain.NewValidationError("parentId", "Must be a positive integer."))
			}
			id := uint(n)
			parentID = &id
		}
		tree, err := svc.Tree(c.UserContext(), parentID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to build category tree", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Category tree built", tree)
	}
}

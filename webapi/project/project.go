// Package project serves project and studio master data, their dashboard
// figures and report exports.
package project

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/fundledger/pkg/middleware"
	"github.com/amirasaad/fundledger/pkg/report"
	costingsvc "github.com/amirasaad/fundledger/pkg/service/costing"
	projectsvc "github.com/amirasaad/fundledger/pkg/service/project"
	"github.com/amirasaad/fundledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the project and studio endpoints.
func Routes(
	app *fiber.App,
	projects *projectsvc.Service,
	costing *costingsvc.Service,
	sink report.Sink,
	protected fiber.Handler,
) {
	app.Post("/projects", protected, CreateProject(projects))
	app.Get("/projects", protected, ListProjects(projects))
	app.Get("/projects/:id", protected, GetProject(projects))
	app.Post("/projects/:id/addons", protected, AddAddOn(projects))
	app.Delete("/projects/:id/addons/:addonId", protected, DeleteAddOn(projects))
	app.Post("/projects/:id/settings", protected, AddSetting(projects))
	app.Delete("/projects/:id/settings/:settingId", protected, DeleteSetting(projects))
	app.Get("/projects/:id/summary", protected, ProjectSummary(costing))
	app.Get("/projects/:id/breakdown", protected, ProjectBreakdown(costing))
	app.Get("/projects/:id/cost-plus", protected, CostPlus(costing))
	app.Get("/projects/:id/export.csv", protected, ExportProjectCSV(costing, sink))
	app.Get("/projects/:id/report.pdf", protected, ExportProjectPDF(costing, sink))

	app.Post("/studios", protected, CreateStudio(projects))
	app.Get("/studios", protected, ListStudios(projects))
	app.Get("/studios/:id", protected, GetStudio(projects))
	app.Get("/studios/:id/summary", protected, StudioSummary(costing))
	app.Get("/studios/:id/breakdown", protected, StudioBreakdown(costing))
	app.Get("/studios/:id/export.csv", protected, ExportStudioCSV(costing, sink))
}

func siteInput(r *SiteRequest) projectsvc.SiteInput {
	return projectsvc.SiteInput{
		Code:          r.Code,
		Name:          r.Name,
		Description:   r.Description,
		Location:      r.Location,
		EstimatedCost: r.EstimatedCost,
	}
}

// CreateProject returns a handler creating a project.
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Param request body SiteRequest true "Project"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /projects [post]
// @Security Bearer
func CreateProject(svc *projectsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[SiteRequest](c)
		if input == nil {
			return err
		}
		p, err := svc.CreateProject(c.UserContext(), siteInput(input))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create project", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Project created", p)
	}
}

// ListProjects returns a handler listing projects.
// @Summary List projects
// @Tags projects
// @Produce json
// @Success 200 {object} common.Response
// @Router /projects [get]
// @Security Bearer
func ListProjects(svc *projectsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.ListProjects(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list projects", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Projects fetched", list)
	}
}

// GetProject returns a handler fetching one project.
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /projects/{id} [get]
// @Security Bearer
func GetProject(svc *projectsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid project ID", err)
		}
		p, err := svc.GetProject(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Project not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Project fetched", p)
	}
}

// AddAddOn returns a handler recording a project add-on expense.
// @Summary Add a project add-on
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body AddOnRequest true "Add-on"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /projects/{id}/addons [post]
// @Security Bearer
func AddAddOn(svc *projectsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		projectID, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid project ID", err)
		}
		input, err := common.BindAndValidate[AddOnRequest](c)
		if input == nil {
			return err
		}
		a, err := svc.AddAddOn(c.UserContext(), projectID, input.Description, input.Amount, input.Quantity, input.CostPlus, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to add add-on", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Add-on created", a)
	}
}

// DeleteAddOn returns a handler removing a project add-on.
// @Summary Delete a project add-on
// @Tags projects
// @Param id path string true "Project ID"
// @Param addonId path int true "Add-on ID"
// @Success 204
// @Failure 404 {object} common.ProblemDetails
// @Router /projects/{id}/addons/{addonId} [delete]
// @Security Bearer
func DeleteAddOn(svc *projectsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid project ID", err)
		}
		id, err := common.UintParam(c, "addonId")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid add-on ID", err)
		}
		if err := svc.DeleteAddOn(c.UserContext(), projectID, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete add-on", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AddSetting returns a handler recording a cost-plus rule.
// @Summary Add a cost-plus setting
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body SettingRequest true "Setting"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /projects/{id}/settings [post]
// @Security Bearer
func AddSetting(svc *projectsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid project ID", err)
		}
		input, err := common.BindAndValidate[SettingRequest](c)
		if input == nil {
			return err
		}
		start, _ := common.OptionalDate("startDate", input.StartDate, false)
		end, _ := common.OptionalDate("endDate", input.EndDate, false)
		st, err := svc.AddSetting(c.UserContext(), projectID, projectsvc.SettingInput{
			Description:     input.Description,
			PercentageAddOn: input.PercentageAddOn,
			StartDate:       *start,
			EndDate:         end,
			IsContingency:   input.IsContingency,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to add setting", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Setting created", st)
	}
}

// DeleteSetting returns a handler removing a cost-plus rule.
// @Summary Delete a cost-plus setting
// @Tags projects
// @Param id path string true "Project ID"
// @Param settingId path int true "Setting ID"
// @Success 204
// @Router /projects/{id}/settings/{settingId} [delete]
// @Security Bearer
func DeleteSetting(svc *projectsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid project ID", err)
		}
		id, err := common.UintParam(c, "settingId")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid setting ID", err)
		}
		if err := svc.DeleteSetting(c.UserContext(), projectID, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete setting", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ProjectSummary returns a handler computing the project dashboard figures.
// @Summary Project fund summary
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /projects/{id}/summary [get]
// @Security Bearer
func ProjectSummary(svc *costingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid project ID", err)
		}
		sum, err := svc.ProjectFundSummary(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to compute summary", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Summary computed", sum)
	}
}

// ProjectBreakdown returns a handler computing the disbursement breakdown.
// @Summary Project disbursement breakdown
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} common.Response
// @Router /projects/{id}/breakdown [get]
// @Security Bearer
func ProjectBreakdown(svc *costingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid project ID", err)
		}
		b, err := svc.ProjectBreakdown(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to compute breakdown", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Breakdown computed", b)
	}
}

// CostPlus returns a handler computing the cost-plus rows.
// @Summary Project cost-plus totals
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} common.Response
// @Router /projects/{id}/cost-plus [get]
// @Security Bearer
func CostPlus(svc *costingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid project ID", err)
		}
		rows, err := svc.CostPlusTotals(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to compute cost-plus totals", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Cost-plus computed", rows)
	}
}

// ExportProjectCSV returns a handler rendering the project export.
// @Summary Project CSV export
// @Description Downloads the CSV, or stores it in the export sink with upload=true.
// @Tags projects
// @Produce text/csv
// @Param id path string true "Project ID"
// @Param upload query bool false "Store in the export sink"
// @Success 200 {string} string
// @Router /projects/{id}/export.csv [get]
// @Security Bearer
func ExportProjectCSV(svc *costingsvc.Service, sink report.Sink) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid project ID", err)
		}
		r, err := svc.ProjectReport(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to build report", err)
		}
		name := fileName("project", r.Project.Code, "csv")
		return sendExport(c, sink, name, report.ContentTypeCSV, report.ProjectCSV(r))
	}
}

// ExportProjectPDF returns a handler rendering the project PDF report.
// @Summary Project PDF report
// @Tags projects
// @Produce application/pdf
// @Param id path string true "Project ID"
// @Param upload query bool false "Store in the export sink"
// @Success 200 {string} string
// @Router /projects/{id}/report.pdf [get]
// @Security Bearer
func ExportProjectPDF(svc *costingsvc.Service, sink report.Sink) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid project ID", err)
		}
		r, err := svc.ProjectReport(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to build report", err)
		}
		data, err := report.ProjectPDF(r, time.Now().UTC())
		if err != nil {
			log.Errorf("Failed to render project PDF: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to render report", err)
		}
		return sendExport(c, sink, fileName("project", r.Project.Code, "pdf"), report.ContentTypePDF, data)
	}
}

// CreateStudio returns a handler creating a studio.
// @Summary Create a studio
// @Tags studios
// @Accept json
// @Produce json
// @Param request body SiteRequest true "Studio"
// @Success 201 {object} common.Response
// @Router /studios [post]
// @Security Bearer
func CreateStudio(svc *projectsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[SiteRequest](c)
		if input == nil {
			return err
		}
		st, err := svc.CreateStudio(c.UserContext(), siteInput(input))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create studio", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Studio created", st)
	}
}

// ListStudios returns a handler listing studios.
// @Summary List studios
// @Tags studios
// @Produce json
// @Success 200 {object} common.Response
// @Router /studios [get]
// @Security Bearer
func ListStudios(svc *projectsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.ListStudios(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list studios", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Studios fetched", list)
	}
}

// GetStudio returns a handler fetching one studio.
// @Summary Get a studio
// @Tags studios
// @Produce json
// @Param id path string true "Studio ID"
// @Success 200 {object} common.Response
// @Router /studios/{id} [get]
// @Security Bearer
func GetStudio(svc *projectsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid studio ID", err)
		}
		st, err := svc.GetStudio(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Studio not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Studio fetched", st)
	}
}

// StudioSummary returns a handler computing the studio dashboard figures.
// @Summary Studio fund summary
// @Tags studios
// @Produce json
// @Param id path string true "Studio ID"
// @Success 200 {object} common.Response
// @Router /studios/{id}/summary [get]
// @Security Bearer
func StudioSummary(svc *costingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid studio ID", err)
		}
		sum, err := svc.StudioFundSummary(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to compute summary", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Summary computed", sum)
	}
}

// StudioBreakdown returns a handler computing the studio disbursement breakdown.
// @Summary Studio disbursement breakdown
// @Tags studios
// @Produce json
// @Param id path string true "Studio ID"
// @Success 200 {object} common.Response
// @Router /studios/{id}/breakdown [get]
// @Security Bearer
func StudioBreakdown(svc *costingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid studio ID", err)
		}
		b, err := svc.StudioBreakdown(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to compute breakdown", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Breakdown computed", b)
	}
}

// ExportStudioCSV returns a handler rendering the studio export.
// @Summary Studio CSV export
// @Tags studios
// @Produce text/csv
// @Param id path string true "Studio ID"
// @Param upload query bool false "Store in the export sink"
// @Success 200 {string} string
// @Router /studios/{id}/export.csv [get]
// @Security Bearer
func ExportStudioCSV(svc *costingsvc.Service, sink report.Sink) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.UUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid studio ID", err)
		}
		r, err := svc.StudioReport(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to build report", err)
		}
		return sendExport(c, sink, fileName("studio", r.Studio.Code, "csv"), report.ContentTypeCSV, report.StudioCSV(r))
	}
}

func fileName(kind, code, ext string) string {
	return fmt.Sprintf("%s-%s-%s.%s", kind, strings.ToLower(code), time.Now().UTC().Format("20060102"), ext)
}

// sendExport streams the file, or stores it in the sink when upload=true.
func sendExport(c *fiber.Ctx, sink report.Sink, name, contentType string, data []byte) error {
	if !c.QueryBool("upload") {
		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
		return c.Send(data)
	}
	if sink == nil {
		return common.ProblemDetailsJSON(c, "Export unavailable", errors.New("no export sink configured"), fiber.StatusServiceUnavailable)
	}
	location, err := sink.Put(c.UserContext(), name, contentType, data)
	if err != nil {
		log.Errorf("Failed to store export %s: %v", name, err)
		return common.ProblemDetailsJSON(c, "Failed to store export", err)
	}
	return common.SuccessResponseJSON(c, fiber.StatusCreated, "Export stored", ExportResponse{Location: location})
}

// Package webapi provides the HTTP API of the fund ledger. It is organized
// into sub-packages per resource:
//   - fund: funds, postings and transfers
//   - project: projects, studios, dashboards and exports
//   - voucher: voucher lifecycle
//   - category: expense categories
package webapi

import (
	"errors"
	"strings"

	"github.com/amirasaad/fundledger/pkg/app"
	"github.com/amirasaad/fundledger/pkg/middleware"
	categoryweb "github.com/amirasaad/fundledger/webapi/category"
	"github.com/amirasaad/fundledger/webapi/common"
	fundweb "github.com/amirasaad/fundledger/webapi/fund"
	projectweb "github.com/amirasaad/fundledger/webapi/project"
	voucherweb "github.com/amirasaad/fundledger/webapi/voucher"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	_ "github.com/amirasaad/fundledger/docs"
)

// SetupApp builds the fiber app with middleware and every route.
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))

	// Behind a proxy the first X-Forwarded-For hop identifies the client.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				first, _, _ := strings.Cut(forwardedFor, ",")
				return strings.TrimSpace(first)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	if cfg.Env != "test" {
		fiberApp.Use(logger.New())
	}

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Fund ledger API is running")
	})

	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	fundweb.Routes(fiberApp, a.PostingService, protected)
	projectweb.Routes(fiberApp, a.ProjectService, a.CostingService, a.Deps.Exporter, protected)
	voucherweb.Routes(fiberApp, a.VoucherService, protected)
	categoryweb.Routes(fiberApp, a.CategoryService, protected)
	return fiberApp
}

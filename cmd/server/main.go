package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/amirasaad/fundledger/infra/initializer"
	"github.com/amirasaad/fundledger/pkg/app"
	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/webapi"
	log "github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

// @title Fund Ledger API
// @version 1.0.0
// @description Fund accounting for projects and studios: collections, vouchers, refunds and cost-plus reporting.
// @contact.name API Support
// @license.name MIT
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := initializer.InitializeDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer cleanup()

	fiberApp := webapi.SetupApp(app.New(deps))
	return serve(ctx, fiberApp, cfg, deps.Logger)
}

func serve(ctx context.Context, fiberApp *fiber.App, cfg *config.App, logger *slog.Logger) error {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- fiberApp.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down server")
		return fiberApp.Shutdown()
	}
}

package app

import (
	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/service/category"
	"github.com/amirasaad/fundledger/pkg/service/costing"
	"github.com/amirasaad/fundledger/pkg/service/posting"
	"github.com/amirasaad/fundledger/pkg/service/project"
	"github.com/amirasaad/fundledger/pkg/service/voucher"
)

// App bundles the services built over one set of dependencies.
type App struct {
	Deps            *config.Deps
	Config          *config.App
	PostingService  *posting.Service
	VoucherService  *voucher.Service
	ProjectService  *project.Service
	CategoryService *category.Service
	CostingService  *costing.Service
}

func New(deps *config.Deps) *App {
	app := &App{
		Deps:   deps,
		Config: deps.Config,
	}
	app.setupEventBus()

	app.PostingService = posting.NewService(*deps)
	app.VoucherService = voucher.NewService(*deps)
	app.ProjectService = project.NewService(*deps)
	app.CategoryService = category.NewService(*deps)
	app.CostingService = costing.NewService(*deps)
	return app
}

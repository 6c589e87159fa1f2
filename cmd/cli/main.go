package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/amirasaad/fundledger/infra/initializer"
	"github.com/amirasaad/fundledger/pkg/app"
	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/domain/category"
	"github.com/amirasaad/fundledger/pkg/report"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const usage = `Usage: fundledger-cli <command> [arguments]
Commands:
  funds                        list funds with balances
  balance <fundId>             derived fund balance
  summary <projectId>          project dashboard figures
  studio-summary <studioId>    studio dashboard figures
  export <projectId> [--upload] project CSV to stdout or the export sink
  tree                         expense category tree
  migrate                      apply database migrations`

var (
	heading = color.New(color.FgCyan, color.Bold)
	label   = color.New(color.FgHiBlack)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return
	}
	cfg, err := config.Load(".env")
	if err != nil {
		bad.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	ctx := context.Background()
	deps, cleanup, err := initializer.InitializeDependencies(ctx, cfg)
	if err != nil {
		bad.Fprintln(os.Stderr, "Failed to initialize:", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := run(ctx, app.New(deps), os.Args[1:], os.Stdout); err != nil {
		bad.Fprintln(os.Stderr, err)
		cleanup()
		os.Exit(1)
	}
}

var errUsage = errors.New(usage)

func run(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "funds":
		return listFunds(ctx, a, out)
	case "balance":
		id, err := idArg(rest, "balance <fundId>")
		if err != nil {
			return err
		}
		balance, err := a.PostingService.FundBalance(ctx, id, nil, nil)
		if err != nil {
			return err
		}
		label.Fprintf(out, "Fund %s ", id)
		money(balance).Fprintln(out, balance.StringFixed(2))
		return nil
	case "summary":
		id, err := idArg(rest, "summary <projectId>")
		if err != nil {
			return err
		}
		s, err := a.CostingService.ProjectFundSummary(ctx, id)
		if err != nil {
			return err
		}
		heading.Fprintln(out, "Project summary")
		rows(out, []row{
			{"Collected funds", s.CollectedFunds},
			{"Disbursed funds", s.DisbursedFunds},
			{"Add-on totals", s.AddOnTotals},
			{"Cost-plus totals", s.CostPlusTotals},
			{"Total project cost", s.TotalProjectCost},
			{"Remaining funds", s.RemainingFunds},
		})
		return nil
	case "studio-summary":
		id, err := idArg(rest, "studio-summary <studioId>")
		if err != nil {
			return err
		}
		s, err := a.CostingService.StudioFundSummary(ctx, id)
		if err != nil {
			return err
		}
		heading.Fprintln(out, "Studio summary")
		rows(out, []row{
			{"Collected funds", s.CollectedFunds},
			{"Disbursed funds", s.DisbursedFunds},
			{"Total studio cost", s.TotalStudioCost},
			{"Remaining funds", s.RemainingFunds},
		})
		return nil
	case "export":
		return export(ctx, a, rest, out)
	case "tree":
		nodes, err := a.CategoryService.Tree(ctx, nil)
		if err != nil {
			return err
		}
		printTree(out, nodes, 0)
		return nil
	case "migrate":
		// InitializeDependencies has already applied the migrations.
		good.Fprintln(out, "Migrations applied")
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func idArg(args []string, form string) (uuid.UUID, error) {
	if len(args) < 1 {
		return uuid.Nil, fmt.Errorf("usage: %s", form)
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	return id, nil
}

func money(d decimal.Decimal) *color.Color {
	if d.IsNegative() {
		return bad
	}
	return good
}

type row struct {
	name  string
	value decimal.Decimal
}

func rows(out io.Writer, items []row) {
	for _, r := range items {
		label.Fprintf(out, "  %-20s", r.name)
		money(r.value).Fprintf(out, "%15s\n", r.value.StringFixed(2))
	}
}

func listFunds(ctx context.Context, a *app.App, out io.Writer) error {
	funds, err := a.PostingService.ListFunds(ctx)
	if err != nil {
		return err
	}
	heading.Fprintln(out, "Funds")
	for _, f := range funds {
		label.Fprintf(out, "  %-10s %-30s", f.Code, f.Name)
		money(f.Balance).Fprintf(out, "%15s\n", f.Balance.StringFixed(2))
	}
	return nil
}

func export(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	upload := false
	var positional []string
	for _, arg := range args {
		if arg == "--upload" {
			upload = true
			continue
		}
		positional = append(positional, arg)
	}
	id, err := idArg(positional, "export <projectId> [--upload]")
	if err != nil {
		return err
	}
	r, err := a.CostingService.ProjectReport(ctx, id)
	if err != nil {
		return err
	}
	data := report.ProjectCSV(r)
	if !upload {
		_, err = out.Write(data)
		return err
	}
	if a.Deps.Exporter == nil {
		return errors.New("no export sink configured")
	}
	name := fmt.Sprintf("project-%s-%s.csv", strings.ToLower(r.Project.Code), time.Now().UTC().Format("20060102"))
	location, err := a.Deps.Exporter.Put(ctx, name, report.ContentTypeCSV, data)
	if err != nil {
		return err
	}
	good.Fprintln(out, "Export stored at", location)
	return nil
}

func printTree(out io.Writer, nodes []*category.Node, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(out, "%s- %s", strings.Repeat("  ", depth), n.Description)
		label.Fprintf(out, " (#%d)\n", n.ID)
		printTree(out, n.Children, depth+1)
	}
}

// Package costing holds the pure arithmetic behind project and studio
// dashboards: disbursement breakdowns, add-on totals, cost-plus overhead and
// the headline fund summaries. Nothing here touches storage.
package costing

import (
	"time"

	"github.com/amirasaad/fundledger/pkg/domain/category"
	"github.com/amirasaad/fundledger/pkg/domain/project"
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CategoryTotal is the detail amount recorded under one category.
type CategoryTotal struct {
	CategoryID  uint            `json:"categoryId"`
	Description string          `json:"description"`
	Total       decimal.Decimal `json:"total"`
}

// Breakdown splits disbursements into the uncategorized open-voucher bucket
// and per-category detail totals of closed vouchers.
type Breakdown struct {
	Uncategorized decimal.Decimal `json:"uncategorized"`
	Categories    []CategoryTotal `json:"categories"`
}

// Total is the sum of every bucket.
func (b Breakdown) Total() decimal.Decimal {
	total := b.Uncategorized
	for _, c := range b.Categories {
		total = total.Add(c.Total)
	}
	return total
}

// SplitVouchers partitions vouchers into open and closed.
func SplitVouchers(vouchers []*voucher.Voucher) (open, closed []*voucher.Voucher) {
	for _, v := range vouchers {
		if v.IsClosed {
			closed = append(closed, v)
		} else {
			open = append(open, v)
		}
	}
	return open, closed
}

// VoucherDisbursementBreakdown sums open vouchers by disbursed amount into one
// uncategorized bucket and groups the given closed-voucher details by
// category. Every category gets a bucket, including those with no details.
func VoucherDisbursementBreakdown(
	open []*voucher.Voucher,
	closedDetails []*voucher.Detail,
	categories []category.Category,
) Breakdown {
	uncategorized := decimal.Zero
	for _, v := range open {
		uncategorized = uncategorized.Add(v.DisbursedAmount)
	}

	byCategory := make(map[uint]decimal.Decimal, len(categories))
	for _, d := range closedDetails {
		byCategory[d.DetailCategoryID] = byCategory[d.DetailCategoryID].Add(d.Amount)
	}

	totals := make([]CategoryTotal, 0, len(categories))
	for _, c := range categories {
		totals = append(totals, CategoryTotal{
			CategoryID:  c.ID,
			Description: c.Description,
			Total:       byCategory[c.ID],
		})
	}
	return Breakdown{Uncategorized: uncategorized, Categories: totals}
}

// AddOnTotals sums add-on Amount values.
//
// NOTE: this deliberately sums Amount rather than Total (Amount × Quantity);
// dashboards have always reported it this way. See DESIGN.md before changing.
func AddOnTotals(addOns []*project.AddOn) decimal.Decimal {
	total := decimal.Zero
	for _, a := range addOns {
		total = total.Add(a.Amount)
	}
	return total
}

// SettingTotal is a cost-plus setting with its computed overhead.
type SettingTotal struct {
	project.Setting
	Base        decimal.Decimal `json:"base"`
	ExemptTotal decimal.Decimal `json:"exemptTotal"`
	Total       decimal.Decimal `json:"total"`
}

// CostPlusTotals computes one row per setting:
//
//	base   = Σ consumed(cost-plus vouchers) + Σ total(cost-plus add-ons)
//	exempt = Σ consumed(cost-plus vouchers dated outside [start, end]), 0 without end date
//	total  = (base − exempt) × percentage / 100
func CostPlusTotals(
	settings []*project.Setting,
	vouchers []*voucher.Voucher,
	addOns []*project.AddOn,
) []SettingTotal {
	var costPlus []*voucher.Voucher
	for _, v := range vouchers {
		if v.CostPlus {
			costPlus = append(costPlus, v)
		}
	}

	base := decimal.Zero
	for _, v := range costPlus {
		base = base.Add(v.ConsumedAmount)
	}
	for _, a := range addOns {
		if a.CostPlus {
			base = base.Add(a.Total)
		}
	}

	rows := make([]SettingTotal, 0, len(settings))
	for _, s := range settings {
		exempt := decimal.Zero
		if s.EndDate != nil {
			for _, v := range costPlus {
				if outsideWindow(v.TransactionDate, s.StartDate, *s.EndDate) {
					exempt = exempt.Add(v.ConsumedAmount)
				}
			}
		}
		rows = append(rows, SettingTotal{
			Setting:     *s,
			Base:        base,
			ExemptTotal: exempt,
			Total:       base.Sub(exempt).Mul(s.PercentageAddOn).Div(hundred),
		})
	}
	return rows
}

func outsideWindow(d, start, end time.Time) bool {
	d = voucher.DateOnly(d)
	return d.Before(voucher.DateOnly(start)) || d.After(voucher.DateOnly(end))
}

// SumSettings adds up the computed setting totals.
func SumSettings(rows []SettingTotal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Total)
	}
	return total
}

// ProjectFundSummary is the headline dashboard figure set for a project.
type ProjectFundSummary struct {
	CollectedFunds   decimal.Decimal `json:"collectedFunds"`
	DisbursedFunds   decimal.Decimal `json:"disbursedFunds"`
	AddOnTotals      decimal.Decimal `json:"addOnTotals"`
	CostPlusTotals   decimal.Decimal `json:"costPlusTotals"`
	TotalProjectCost decimal.Decimal `json:"totalProjectCost"`
	RemainingFunds   decimal.Decimal `json:"remainingFunds"`
}

// NewProjectFundSummary derives the totals so that
// RemainingFunds + TotalProjectCost == CollectedFunds.
func NewProjectFundSummary(collected, disbursed, addOns, costPlus decimal.Decimal) ProjectFundSummary {
	cost := costPlus.Add(addOns).Add(disbursed.Neg())
	return ProjectFundSummary{
		CollectedFunds:   collected,
		DisbursedFunds:   disbursed,
		AddOnTotals:      addOns,
		CostPlusTotals:   costPlus,
		TotalProjectCost: cost,
		RemainingFunds:   collected.Sub(cost),
	}
}

// StudioFundSummary is the dashboard figure set for a studio.
type StudioFundSummary struct {
	CollectedFunds  decimal.Decimal `json:"collectedFunds"`
	DisbursedFunds  decimal.Decimal `json:"disbursedFunds"`
	TotalStudioCost decimal.Decimal `json:"totalStudioCost"`
	RemainingFunds  decimal.Decimal `json:"remainingFunds"`
}

// NewStudioFundSummary derives the studio totals. Studios have no add-on or
// cost-plus layer.
func NewStudioFundSummary(collected, disbursed decimal.Decimal) StudioFundSummary {
	cost := disbursed.Neg()
	return StudioFundSummary{
		CollectedFunds:  collected,
		DisbursedFunds:  disbursed,
		TotalStudioCost: cost,
		RemainingFunds:  collected.Sub(cost),
	}
}

package report

import (
	"strings"

	"github.com/amirasaad/fundledger/pkg/domain/costing"
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// quote wraps a field in double quotes, doubling any embedded quote.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func record(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quote(f)
	}
	return strings.Join(quoted, ",")
}

// section joins records with "\n".
type section []string

func (s *section) add(fields ...string) {
	*s = append(*s, record(fields...))
}

// join separates sections with a blank line.
func join(sections ...section) []byte {
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = strings.Join(s, "\n")
	}
	return []byte(strings.Join(parts, "\n\n"))
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func breakdownSection(b costing.Breakdown) section {
	s := section{}
	s.add("Category", "Total")
	s.add("Uncategorized (open vouchers)", money(b.Uncategorized))
	for _, c := range b.Categories {
		s.add(c.Description, money(c.Total))
	}
	s.add("Total", money(b.Total()))
	return s
}

func voucherSection(vouchers []*voucher.Voucher, withCostPlus bool) section {
	s := section{}
	header := []string{"Voucher Number", "Description", "Date", "Disbursed", "Consumed", "Status"}
	if withCostPlus {
		header = append(header, "Cost Plus")
	}
	s.add(header...)
	for _, v := range vouchers {
		status := "Open"
		switch {
		case v.IsDeleted:
			status = "Deleted"
		case v.IsClosed:
			status = "Closed"
		}
		row := []string{
			v.VoucherNumber,
			v.Description,
			v.TransactionDate.Format(dateLayout),
			money(v.DisbursedAmount),
			money(v.ConsumedAmount),
			status,
		}
		if withCostPlus {
			row = append(row, yesNo(v.CostPlus))
		}
		s.add(row...)
	}
	return s
}

// ProjectCSV renders the project export: summary, breakdown, add-ons,
// cost-plus settings and vouchers.
func ProjectCSV(r ProjectReport) []byte {
	summary := section{}
	summary.add("Project", r.Project.Code, r.Project.Name)
	summary.add("Collected Funds", money(r.Summary.CollectedFunds))
	summary.add("Disbursed Funds", money(r.Summary.DisbursedFunds))
	summary.add("Add-On Totals", money(r.Summary.AddOnTotals))
	summary.add("Cost Plus Totals", money(r.Summary.CostPlusTotals))
	summary.add("Total Project Cost", money(r.Summary.TotalProjectCost))
	summary.add("Remaining Funds", money(r.Summary.RemainingFunds))

	addOns := section{}
	addOns.add("Description", "Amount", "Quantity", "Total", "Cost Plus")
	for _, a := range r.AddOns {
		addOns.add(a.Description, money(a.Amount), a.Quantity.String(), money(a.Total), yesNo(a.CostPlus))
	}

	settings := section{}
	settings.add("Description", "Percentage", "Start", "End", "Contingency", "Base", "Exempt", "Total")
	for _, st := range r.CostPlus {
		end := ""
		if st.EndDate != nil {
			end = st.EndDate.Format(dateLayout)
		}
		settings.add(
			st.Description,
			st.PercentageAddOn.String(),
			st.StartDate.Format(dateLayout),
			end,
			yesNo(st.IsContingency),
			money(st.Base),
			money(st.ExemptTotal),
			money(st.Total),
		)
	}

	return join(summary, breakdownSection(r.Breakdown), addOns, settings, voucherSection(r.Vouchers, true))
}

// StudioCSV renders the studio export: summary, breakdown and vouchers.
func StudioCSV(r StudioReport) []byte {
	summary := section{}
	summary.add("Studio", r.Studio.Code, r.Studio.Name)
	summary.add("Collected Funds", money(r.Summary.CollectedFunds))
	summary.add("Disbursed Funds", money(r.Summary.DisbursedFunds))
	summary.add("Total Studio Cost", money(r.Summary.TotalStudioCost))
	summary.add("Remaining Funds", money(r.Summary.RemainingFunds))

	return join(summary, breakdownSection(r.Breakdown), voucherSection(r.Vouchers, false))
}

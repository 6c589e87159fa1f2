package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	pdfFont       = "Arial"
	pdfLineHeight = 7.0
	labelWidth    = 70.0
	valueWidth    = 45.0
)

// ProjectPDF renders a one-document project summary: headline figures,
// disbursement breakdown and cost-plus rows.
func ProjectPDF(r ProjectReport, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s project summary", r.Project.Code), false)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Generated %s - page %d", generatedAt.Format("2006-01-02 15:04"), pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s - %s", r.Project.Code, r.Project.Name), "", 1, "L", false, 0, "")
	if r.Project.Location != "" {
		pdf.SetFont(pdfFont, "", 10)
		pdf.CellFormat(0, 6, r.Project.Location, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	heading(pdf, "Fund summary")
	row(pdf, "Collected funds", r.Summary.CollectedFunds, false)
	row(pdf, "Disbursed funds", r.Summary.DisbursedFunds, false)
	row(pdf, "Add-on totals", r.Summary.AddOnTotals, false)
	row(pdf, "Cost plus totals", r.Summary.CostPlusTotals, false)
	row(pdf, "Total project cost", r.Summary.TotalProjectCost, true)
	row(pdf, "Remaining funds", r.Summary.RemainingFunds, true)
	pdf.Ln(4)

	heading(pdf, "Disbursement breakdown")
	row(pdf, "Uncategorized (open vouchers)", r.Breakdown.Uncategorized, false)
	for _, c := range r.Breakdown.Categories {
		row(pdf, c.Description, c.Total, false)
	}
	row(pdf, "Total", r.Breakdown.Total(), true)

	if len(r.CostPlus) > 0 {
		pdf.Ln(4)
		heading(pdf, "Cost plus")
		for _, st := range r.CostPlus {
			row(pdf, fmt.Sprintf("%s (%s%%)", st.Description, st.PercentageAddOn.String()), st.Total, false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render project pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func heading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(pdfFont, "B", 12)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(labelWidth+valueWidth, pdfLineHeight+1, title, "", 1, "L", true, 0, "")
}

func row(pdf *gofpdf.Fpdf, label string, value decimal.Decimal, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont(pdfFont, style, 10)
	pdf.CellFormat(labelWidth, pdfLineHeight, label, "B", 0, "L", false, 0, "")
	pdf.CellFormat(valueWidth, pdfLineHeight, value.StringFixed(2), "B", 1, "R", false, 0, "")
}

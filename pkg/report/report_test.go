package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/amirasaad/fundledger/pkg/domain/costing"
	"github.com/amirasaad/fundledger/pkg/domain/project"
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func sampleProject() ProjectReport {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	return ProjectReport{
		Project: project.Project{Site: project.Site{Code: "P-01", Name: `North "Annex"`}},
		Summary: costing.NewProjectFundSummary(d("100000"), d("-40000"), d("1500"), d("2000")),
		Breakdown: costing.Breakdown{
			Uncategorized: d("10000"),
			Categories:    []costing.CategoryTotal{{CategoryID: 1, Description: "Materials", Total: d("25000")}},
		},
		AddOns: []*project.AddOn{{Description: "Permit", Amount: d("1500"), Quantity: d("1"), Total: d("1500")}},
		CostPlus: []costing.SettingTotal{{
			Setting: project.Setting{Description: "Overhead", PercentageAddOn: d("5"), StartDate: date, EndDate: &end},
			Base:    d("40000"),
			Total:   d("2000"),
		}},
		Vouchers: []*voucher.Voucher{{
			VoucherNumber:   "PV-1",
			Description:     "Lumber, nails",
			TransactionDate: date,
			DisbursedAmount: d("40000"),
			ConsumedAmount:  d("35000"),
			IsClosed:        true,
			CostPlus:        true,
		}},
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"plain"`, quote("plain"))
	assert.Equal(t, `"say ""hi"""`, quote(`say "hi"`))
	assert.Equal(t, `""`, quote(""))
}

func TestProjectCSV_Layout(t *testing.T) {
	out := string(ProjectCSV(sampleProject()))

	sections := strings.Split(out, "\n\n")
	require.Len(t, sections, 5)

	summary := strings.Split(sections[0], "\n")
	assert.Equal(t, `"Project","P-01","North ""Annex"""`, summary[0])
	assert.Contains(t, summary, `"Total Project Cost","43500.00"`)
	assert.Contains(t, summary, `"Remaining Funds","56500.00"`)

	assert.Contains(t, sections[1], `"Uncategorized (open vouchers)","10000.00"`)
	assert.Contains(t, sections[1], `"Total","35000.00"`)
	assert.Contains(t, sections[2], `"Permit","1500.00","1","1500.00","No"`)
	assert.Contains(t, sections[3], `"Overhead","5","2024-03-15","2024-12-31","No","40000.00","0.00","2000.00"`)
	assert.Contains(t, sections[4], `"PV-1","Lumber, nails","2024-03-15","40000.00","35000.00","Closed","Yes"`)

	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		assert.True(t, strings.HasPrefix(line, `"`) && strings.HasSuffix(line, `"`), line)
	}
}

func TestStudioCSV_Layout(t *testing.T) {
	r := StudioReport{
		Studio:  project.Studio{Site: project.Site{Code: "S-01", Name: "Loft"}},
		Summary: costing.NewStudioFundSummary(d("5000"), d("-1200")),
		Vouchers: []*voucher.Voucher{{
			VoucherNumber:   "SV-1",
			DisbursedAmount: d("100000"),
			ConsumedAmount:  d("0"),
			IsClosed:        true,
			IsDeleted:       true,
		}},
	}
	out := string(StudioCSV(r))
	sections := strings.Split(out, "\n\n")
	require.Len(t, sections, 3)
	assert.Contains(t, sections[0], `"Remaining Funds","3800.00"`)
	assert.Contains(t, sections[2], `"Deleted"`)
	assert.NotContains(t, sections[2], "Cost Plus")
}

func TestProjectPDF(t *testing.T) {
	out, err := ProjectPDF(sampleProject(), time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

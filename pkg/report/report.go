// Package report renders aggregation results as CSV and PDF documents.
package report

import (
	"context"

	"github.com/amirasaad/fundledger/pkg/domain/costing"
	"github.com/amirasaad/fundledger/pkg/domain/project"
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
)

// Sink stores a rendered report and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (location string, err error)
}

// ProjectReport is everything a project export needs.
type ProjectReport struct {
	Project   project.Project
	Summary   costing.ProjectFundSummary
	Breakdown costing.Breakdown
	AddOns    []*project.AddOn
	CostPlus  []costing.SettingTotal
	Vouchers  []*voucher.Voucher
}

// StudioReport is everything a studio export needs.
type StudioReport struct {
	Studio    project.Studio
	Summary   costing.StudioFundSummary
	Breakdown costing.Breakdown
	Vouchers  []*voucher.Voucher
}

const (
	ContentTypeCSV = "text/csv"
	ContentTypePDF = "application/pdf"
)

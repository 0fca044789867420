package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"manifest-reconciliation/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Report sheet names.
const (
	SheetSummary = "Summary"
	SheetValid   = "Valid"
	SheetMissing = "Missing"
	SheetSurplus = "Surplus"
)

// ExcelReportRenderer writes a reconciliation report as an xlsx workbook.
type ExcelReportRenderer struct {
	loc *time.Location
	now func() time.Time
}

// NewExcelReportRenderer stamps reports with the date in loc.
func NewExcelReportRenderer(loc *time.Location, now func() time.Time) *ExcelReportRenderer {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &ExcelReportRenderer{loc: loc, now: now}
}

// Render produces a single workbook with one sheet per bucket.
func (r *ExcelReportRenderer) Render(ctx context.Context, report *domain.ReconciliationReport) ([]domain.ReportFile, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	date := r.now().In(r.loc)
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("could not create summary sheet: %w", err)
	}
	s := report.Summary
	summary := [][]interface{}{
		{"Kind", string(s.Kind)},
		{"Branch", s.BranchID},
		{"Date", date.Format("2006-01-02 15:04")},
		{"Scanned", s.ScannedCount},
		{"Valid", s.ValidCount},
		{"Missing", s.MissingCount},
		{"Surplus", s.SurplusCount},
		{"Pending validation", s.OfflineCount},
		{"Engaged manifests", s.EngagedManifests},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return nil, err
	}

	shipments := make(map[string]domain.ValidatedPackage, len(report.Shipments))
	for _, p := range report.Shipments {
		shipments[p.TrackingNumber] = p
	}

	valid := [][]interface{}{{"Tracking number", "Consolidated", "Recipient", "City", "Zip", "Priority", "Commit date", "Charge", "High value"}}
	for _, e := range report.Result.Valid {
		p := shipments[e.TrackingNumber]
		commit := ""
		if p.CommitDateTime != nil {
			commit = p.CommitDateTime.In(r.loc).Format("2006-01-02 15:04")
		}
		valid = append(valid, []interface{}{
			e.TrackingNumber, e.ConsNumber, p.RecipientName, p.RecipientCity, p.RecipientZip,
			string(p.Priority), commit, yesNo(p.IsCharge), yesNo(p.IsHighValue),
		})
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{SheetValid, valid},
		{SheetMissing, entryRows(report.Result.Missing)},
		{SheetSurplus, entryRows(report.Result.Surplus)},
	}
	for _, sh := range sheets {
		if _, err := f.NewSheet(sh.name); err != nil {
			return nil, fmt.Errorf("could not create sheet %s: %w", sh.name, err)
		}
		if err := writeRows(f, sh.name, sh.rows); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not write workbook: %w", err)
	}
	return []domain.ReportFile{{
		Name:        fmt.Sprintf("%s-%s-%s.xlsx", s.Kind, s.BranchID, date.Format("20060102-1504")),
		ContentType: xlsxContentType,
		Content:     buf.Bytes(),
	}}, nil
}

func entryRows(entries []domain.TrackingEntry) [][]interface{} {
	rows := [][]interface{}{{"Tracking number", "Consolidated", "Reason", "Override"}}
	for _, e := range entries {
		rows = append(rows, []interface{}{e.TrackingNumber, e.ConsNumber, e.Reason, string(e.Override)})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("could not write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package gateway

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"manifest-reconciliation/internal/domain"
)

func TestExcelReportRenderer_Render(t *testing.T) {
	now := time.Date(2024, 5, 10, 16, 30, 0, 0, time.UTC)
	commit := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)

	report := &domain.ReconciliationReport{
		Summary: domain.Summary{
			Kind: domain.KindUnloading, BranchID: "BR01",
			ScannedCount: 3, ValidCount: 1, MissingCount: 1, SurplusCount: 1, EngagedManifests: 1,
		},
		Result: domain.ReconciliationResult{
			Valid:   []domain.TrackingEntry{{TrackingNumber: "111111111111", ConsNumber: "G-1"}},
			Missing: []domain.TrackingEntry{{TrackingNumber: "333333333333", ConsNumber: "G-1", Override: domain.OverrideNotTracking}},
			Surplus: []domain.TrackingEntry{{TrackingNumber: "BAD", Reason: domain.ReasonMalformed}},
		},
		Shipments: []domain.ValidatedPackage{{
			TrackingNumber: "111111111111", IsValid: true, RecipientName: "Ana", RecipientCity: "Hermosillo",
			RecipientZip: "83000", Priority: domain.PriorityHigh, CommitDateTime: &commit, IsCharge: true,
		}},
	}

	files, err := NewExcelReportRenderer(time.UTC, func() time.Time { return now }).Render(context.Background(), report)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "unloading-BR01-20240510-1630.xlsx", files[0].Name)
	assert.Equal(t, xlsxContentType, files[0].ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(files[0].Content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetValid, SheetMissing, SheetSurplus}, f.GetSheetList())

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Branch", "BR01"}, summary[1])
	assert.Equal(t, []string{"Scanned", "3"}, summary[3])

	valid, err := f.GetRows(SheetValid)
	require.NoError(t, err)
	require.Len(t, valid, 2)
	assert.Equal(t, []string{"111111111111", "G-1", "Ana", "Hermosillo", "83000", "alta", "2024-05-10 20:00", "yes", "no"}, valid[1])

	missing, err := f.GetRows(SheetMissing)
	require.NoError(t, err)
	require.Len(t, missing, 2)
	assert.Equal(t, "333333333333", missing[1][0])
	assert.Equal(t, "NOT_TRACKING", missing[1][3])

	surplus, err := f.GetRows(SheetSurplus)
	require.NoError(t, err)
	require.Len(t, surplus, 2)
	assert.Equal(t, "BAD", surplus[1][0])
	assert.Equal(t, "malformed", surplus[1][2])
}

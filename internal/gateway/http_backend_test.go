package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifest-reconciliation/internal/domain"
	"manifest-reconciliation/internal/errorutil"
	"manifest-reconciliation/internal/logger"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *HTTPBackend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPBackend(srv.URL+"/", "secret", time.Second, 200*time.Millisecond, logger.NewNop())
}

func TestHTTPBackend_ValidateTrackingNumbers(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/inventories/validate-tracking-numbers", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "trace-1", r.Header.Get(requestIDHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req domain.ValidationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, domain.ValidationRequest{TrackingNumbers: []string{"111111111111"}, SubsidiaryID: "BR01"}, req)

		_, _ = io.WriteString(w, `{
			"validatedShipments": [{"trackingNumber": "111111111111", "isValid": true, "priority": "alta", "commitDateTime": "2024-05-10T20:00:00Z"}],
			"consolidateds": {"airConsolidated": [], "groundConsolidated": [{"consNumber": "G-1", "type": "Terrestre", "numberOfPackages": 2, "added": [{"trackingNumber": "111111111111"}], "notFound": [{"trackingNumber": "333333333333"}]}], "f2Consolidated": []}
		}`)
	})

	ctx := logger.WithTraceID(context.Background(), "trace-1")
	resp, err := backend.ValidateTrackingNumbers(ctx, domain.KindInventory, domain.ValidationRequest{
		TrackingNumbers: []string{"111111111111"},
		SubsidiaryID:    "BR01",
	})
	require.NoError(t, err)
	require.Len(t, resp.ValidatedShipments, 1)
	assert.True(t, resp.ValidatedShipments[0].IsValid)
	assert.Equal(t, domain.PriorityHigh, resp.ValidatedShipments[0].Priority)
	require.NotNil(t, resp.ValidatedShipments[0].CommitDateTime)
	require.NotNil(t, resp.Consolidateds)
	require.Len(t, resp.Consolidateds.Ground, 1)
	assert.Equal(t, "G-1", resp.Consolidateds.Ground[0].Reference())
	assert.Equal(t, "333333333333", resp.Consolidateds.Ground[0].NotFound[0].TrackingNumber)
}

func TestHTTPBackend_Errors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantMessage   string
		wantRetryable bool
	}{
		{name: "validation error message", status: http.StatusBadRequest, body: `{"message": "subsidiaryId is required"}`, wantMessage: "subsidiaryId is required"},
		{name: "message list", status: http.StatusUnprocessableEntity, body: `{"message": ["a", "b"]}`, wantMessage: "a; b"},
		{name: "server error", status: http.StatusBadGateway, body: `upstream down`, wantMessage: "Bad Gateway", wantRetryable: true},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error": "slow down"}`, wantMessage: "slow down", wantRetryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := backend.ConsolidatedToStart(context.Background(), domain.KindUnloading, "BR01")
			require.Error(t, err)

			var e *errorutil.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.status, e.Code)
			assert.Equal(t, tt.wantMessage, e.Message)
			assert.Equal(t, tt.wantRetryable, errorutil.IsRetryable(err))
		})
	}
}

func TestHTTPBackend_ConsolidatedToStart(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/unloadings/consolidated-to-start/BR 01", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(requestIDHeader))
		_, _ = io.WriteString(w, `{"f2Consolidated": [{"id": "f2-1", "type": "F2", "added": [], "notFound": []}]}`)
	})

	set, err := backend.ConsolidatedToStart(context.Background(), domain.KindUnloading, "BR 01")
	require.NoError(t, err)
	require.Len(t, set.F2, 1)
	assert.Equal(t, "f2-1", set.F2[0].Reference())
}

func TestHTTPBackend_SubmitAndUpload(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/unloadings":
			var req domain.SubmitRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "TRUCK-1", req.VehicleID)
			assert.Equal(t, []string{"111111111111"}, req.Shipments)
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id": "M-1"}`)
		case "/unloadings/upload":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "M-1", r.FormValue("id"))
			files := r.MultipartForm.File["files"]
			require.Len(t, files, 1)
			assert.Equal(t, "report.xlsx", files[0].Filename)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	resp, err := backend.Submit(ctx, domain.KindUnloading, domain.SubmitRequest{
		VehicleID: "TRUCK-1",
		Shipments: []string{"111111111111"},
	})
	require.NoError(t, err)
	assert.Equal(t, "M-1", resp.ID)

	err = backend.UploadReport(ctx, domain.KindUnloading, "M-1", []domain.ReportFile{
		{Name: "report.xlsx", ContentType: xlsxContentType, Content: []byte("xlsx")},
	})
	assert.NoError(t, err)
}

func TestHTTPBackend_Online(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	assert.True(t, backend.Online(context.Background()))

	down := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.False(t, down.Online(context.Background()))

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	unreachable := NewHTTPBackend(srv.URL, "", time.Second, 200*time.Millisecond, logger.NewNop())
	assert.False(t, unreachable.Online(context.Background()))

	_, err := unreachable.ConsolidatedToStart(context.Background(), domain.KindUnloading, "BR01")
	assert.True(t, errorutil.IsRetryable(err))
}

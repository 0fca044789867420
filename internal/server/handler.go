package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"manifest-reconciliation/internal/domain"
	"manifest-reconciliation/internal/errorutil"
	"manifest-reconciliation/internal/server/ginx"
	"manifest-reconciliation/internal/usecase"
)

const sessionKey = "session"

// ScanRequest carries either a whole text blob, which replaces the scanned
// input, or discrete scan events, which are appended.
type ScanRequest struct {
	Text   string   `json:"text" binding:"required_without=Events"`
	Events []string `json:"events" binding:"required_without=Text"`
}

// ScanResponse is the outcome of ingesting scans.
type ScanResponse struct {
	Candidates []string                     `json:"candidates"`
	Malformed  []domain.TrackingEntry       `json:"malformed"`
	Report     *domain.ReconciliationReport `json:"report"`
}

type OverrideRequest struct {
	Reason domain.OverrideReason `json:"reason" binding:"required,oneof=NOT_SCANNED NOT_TRACKING NOT_IN_CHARGE"`
}

type StepRequest struct {
	Step int `json:"step" binding:"min=0"`
}

type VehicleRequest struct {
	VehicleID string `json:"vehicleId" binding:"required"`
}

type SubmitRequest struct {
	VehicleID string `json:"vehicleId"`
}

// Handler exposes workflows over HTTP.
type Handler struct {
	registry *Registry
}

// NewHandler creates a handler backed by registry.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// LoadSession resolves :kind and :branch into a loaded workflow.
func (h *Handler) LoadSession(c *gin.Context) {
	kind, err := domain.ParseWorkflowKind(c.Param("kind"))
	if err != nil {
		ginx.NotFound(c, err.Error())
		c.Abort()
		return
	}
	s, err := h.registry.Get(c.Request.Context(), kind, c.Param("branch"))
	if err != nil {
		writeError(c, err)
		c.Abort()
		return
	}
	c.Set(sessionKey, s)
	c.Next()
}

func session(c *gin.Context) *Session {
	return c.MustGet(sessionKey).(*Session)
}

// Report returns the current reconciliation.
// GET /api/v1/workflows/:kind/:branch
func (h *Handler) Report(c *gin.Context) {
	ginx.Success(c, session(c).Workflow.Report())
}

// Reset discards the workflow state.
// DELETE /api/v1/workflows/:kind/:branch
func (h *Handler) Reset(c *gin.Context) {
	w := session(c).Workflow
	if err := w.Reset(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	ginx.Success(c, w.Report())
}

// Scan ingests scans and schedules a debounced validation.
// POST /api/v1/workflows/:kind/:branch/scans
func (h *Handler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	w := session(c).Workflow
	var (
		in  usecase.Ingestion
		err error
	)
	if req.Text != "" {
		in, err = w.Scan(c.Request.Context(), req.Text)
	} else {
		in, err = w.AddScans(c.Request.Context(), req.Events...)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	w.ScheduleValidation(c.Request.Context())

	ginx.Success(c, ScanResponse{
		Candidates: in.Candidates,
		Malformed:  in.Malformed,
		Report:     w.Report(),
	})
}

// Validate validates the scanned input immediately.
// POST /api/v1/workflows/:kind/:branch/validate
func (h *Handler) Validate(c *gin.Context) {
	report, err := session(c).Workflow.Validate(c.Request.Context(), true)
	if err != nil {
		writeError(c, err)
		return
	}
	ginx.Success(c, report)
}

// SetOverride assigns an override reason.
// PUT /api/v1/workflows/:kind/:branch/overrides/:tracking
func (h *Handler) SetOverride(c *gin.Context) {
	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}
	w := session(c).Workflow
	if err := w.SetOverride(c.Request.Context(), c.Param("tracking"), req.Reason); err != nil {
		writeError(c, err)
		return
	}
	ginx.Success(c, w.Report())
}

// ClearOverride removes an override reason.
// DELETE /api/v1/workflows/:kind/:branch/overrides/:tracking
func (h *Handler) ClearOverride(c *gin.Context) {
	w := session(c).Workflow
	if err := w.ClearOverride(c.Request.Context(), c.Param("tracking")); err != nil {
		writeError(c, err)
		return
	}
	ginx.Success(c, w.Report())
}

// RemoveShipment forgets a tracking number.
// DELETE /api/v1/workflows/:kind/:branch/shipments/:tracking
func (h *Handler) RemoveShipment(c *gin.Context) {
	w := session(c).Workflow
	if err := w.RemoveShipment(c.Request.Context(), c.Param("tracking")); err != nil {
		writeError(c, err)
		return
	}
	ginx.Success(c, w.Report())
}

// SetStep records the wizard step.
// PUT /api/v1/workflows/:kind/:branch/step
func (h *Handler) SetStep(c *gin.Context) {
	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}
	w := session(c).Workflow
	if err := w.SetStep(c.Request.Context(), req.Step); err != nil {
		writeError(c, err)
		return
	}
	ginx.Success(c, gin.H{"currentStep": req.Step})
}

// SetVehicle records the vehicle being unloaded; Submit falls back to it.
// PUT /api/v1/workflows/:kind/:branch/vehicle
func (h *Handler) SetVehicle(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}
	w := session(c).Workflow
	if err := w.SetVehicle(c.Request.Context(), req.VehicleID); err != nil {
		writeError(c, err)
		return
	}
	ginx.Success(c, gin.H{"vehicleId": req.VehicleID})
}

// NextExpiring pops the next package due today.
// GET /api/v1/workflows/:kind/:branch/expirations/next
func (h *Handler) NextExpiring(c *gin.Context) {
	pkg, ok := session(c).Workflow.NextExpiring()
	if !ok {
		ginx.NotFound(c, "no package expires today")
		return
	}
	ginx.Success(c, pkg)
}

// RefreshManifests refetches the consolidated manifests.
// POST /api/v1/workflows/:kind/:branch/manifests/refresh
func (h *Handler) RefreshManifests(c *gin.Context) {
	w := session(c).Workflow
	if err := w.RefreshManifests(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	ginx.Success(c, w.Report())
}

// Submit saves the reconciled manifest.
// POST /api/v1/workflows/:kind/:branch/submit
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			ginx.BadRequestWithValidation(c, err)
			return
		}
	}
	resp, err := session(c).Workflow.Submit(c.Request.Context(), req.VehicleID)
	if err != nil {
		writeError(c, err)
		return
	}
	ginx.Success(c, resp)
}

// Notifications drains pending user-facing messages.
// GET /api/v1/workflows/:kind/:branch/notifications
func (h *Handler) Notifications(c *gin.Context) {
	ginx.Success(c, session(c).Notifications.Drain())
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNoValidNumbers),
		errors.Is(err, domain.ErrInvalidOverrideReason),
		errors.Is(err, domain.ErrMissingVehicle):
		ginx.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrValidationInProgress),
		errors.Is(err, domain.ErrUnchangedCandidates),
		errors.Is(err, domain.ErrStaleResponse),
		errors.Is(err, domain.ErrPendingOfflineValidation),
		errors.Is(err, domain.ErrNothingToSubmit):
		ginx.Conflict(c, err.Error())
	default:
		var backendErr *errorutil.Error
		if errors.As(err, &backendErr) {
			ginx.Error(c, http.StatusBadGateway, err.Error())
			return
		}
		ginx.InternalError(c, err.Error())
	}
}

package domain

import "fmt"

// WorkflowKind selects which backend resource a workflow reconciles against.
type WorkflowKind string

const (
	KindUnloading WorkflowKind = "unloading"
	KindInventory WorkflowKind = "inventory"
)

// ParseWorkflowKind accepts the kind names used on the command line and in URLs.
func ParseWorkflowKind(s string) (WorkflowKind, error) {
	switch WorkflowKind(s) {
	case KindUnloading, KindInventory:
		return WorkflowKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWorkflowKind, s)
}

// Resource is the backend path prefix of the kind.
func (k WorkflowKind) Resource() string {
	if k == KindInventory {
		return "inventories"
	}
	return "unloadings"
}

// Persisted state keys, one per workflow field.
const (
	FieldScannedPackages    = "scannedPackages"
	FieldShipments          = "shipments"
	FieldMalformed          = "malformed"
	FieldMissingTrackings   = "missingTrackings"
	FieldUnscannedTrackings = "unscannedTrackings"
	FieldSelectedReasons    = "selectedReasons"
	FieldCurrentStep        = "currentStep"
	FieldVehicleID          = "vehicleId"
)

// PersistedFields lists every key written by a state store.
var PersistedFields = []string{
	FieldScannedPackages,
	FieldShipments,
	FieldMalformed,
	FieldMissingTrackings,
	FieldUnscannedTrackings,
	FieldSelectedReasons,
	FieldCurrentStep,
	FieldVehicleID,
}

// WorkflowState is the persisted payload of one reconciliation workflow.
// Missing and unscanned trackings are derived, they are stored so a reload
// renders without waiting for the next recompute.
type WorkflowState struct {
	ScannedPackages    []string                  `json:"scannedPackages"`
	Shipments          []ValidatedPackage        `json:"shipments"`
	Malformed          []TrackingEntry           `json:"malformed"`
	MissingTrackings   []TrackingEntry           `json:"missingTrackings"`
	UnscannedTrackings []TrackingEntry           `json:"unscannedTrackings"`
	SelectedReasons    map[string]OverrideReason `json:"selectedReasons"`
	CurrentStep        int                       `json:"currentStep"`
	VehicleID          string                    `json:"vehicleId"`
}

// NewWorkflowState returns an empty state with initialized collections.
func NewWorkflowState() *WorkflowState {
	return &WorkflowState{
		ScannedPackages:    []string{},
		Shipments:          []ValidatedPackage{},
		Malformed:          []TrackingEntry{},
		MissingTrackings:   []TrackingEntry{},
		UnscannedTrackings: []TrackingEntry{},
		SelectedReasons:    map[string]OverrideReason{},
	}
}

// Clone returns a deep copy safe to hand out of a lock.
func (s *WorkflowState) Clone() *WorkflowState {
	c := &WorkflowState{
		ScannedPackages:    append([]string{}, s.ScannedPackages...),
		Shipments:          append([]ValidatedPackage{}, s.Shipments...),
		Malformed:          append([]TrackingEntry{}, s.Malformed...),
		MissingTrackings:   append([]TrackingEntry{}, s.MissingTrackings...),
		UnscannedTrackings: append([]TrackingEntry{}, s.UnscannedTrackings...),
		SelectedReasons:    make(map[string]OverrideReason, len(s.SelectedReasons)),
		CurrentStep:        s.CurrentStep,
		VehicleID:          s.VehicleID,
	}
	for k, v := range s.SelectedReasons {
		c.SelectedReasons[k] = v
	}
	return c
}

// NotificationLevel is the severity of a user-visible message.
type NotificationLevel string

const (
	NotifyInfo    NotificationLevel = "info"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)

// Notification is a transient user-facing message.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

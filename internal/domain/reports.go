package domain

// OverrideReason is the operator's explanation for a tracking number that
// does not reconcile on its own.
type OverrideReason string

const (
	// OverrideNotScanned forces the tracking number into the surplus list.
	OverrideNotScanned OverrideReason = "NOT_SCANNED"
	// OverrideNotTracking forces the tracking number into the missing list.
	OverrideNotTracking OverrideReason = "NOT_TRACKING"
	// OverrideNotInCharge removes the tracking number from both lists.
	OverrideNotInCharge OverrideReason = "NOT_IN_CHARGE"
)

// Valid reports whether r is one of the known reasons.
func (r OverrideReason) Valid() bool {
	switch r {
	case OverrideNotScanned, OverrideNotTracking, OverrideNotInCharge:
		return true
	}
	return false
}

// TrackingEntry is a tracking number placed in one of the reconciliation buckets.
type TrackingEntry struct {
	TrackingNumber string         `json:"trackingNumber"`
	Reason         string         `json:"reason,omitempty"`
	ConsNumber     string         `json:"consNumber,omitempty"`
	Override       OverrideReason `json:"override,omitempty"`
}

// ReconciliationResult is the partition of every known tracking number.
type ReconciliationResult struct {
	Valid            []TrackingEntry `json:"valid"`
	Missing          []TrackingEntry `json:"missing"`
	Surplus          []TrackingEntry `json:"surplus"`
	EngagedManifests []string        `json:"engaged_manifests"`
}

// Summary provides high-level statistics of the reconciliation.
type Summary struct {
	Kind             WorkflowKind `json:"kind"`
	BranchID         string       `json:"branch_id"`
	ScannedCount     int          `json:"scanned_count"`
	ValidCount       int          `json:"valid_count"`
	MissingCount     int          `json:"missing_count"`
	SurplusCount     int          `json:"surplus_count"`
	OfflineCount     int          `json:"offline_count"`
	EngagedManifests int          `json:"engaged_manifests"`
	// ValidationState is the state of the latest validation request:
	// idle, pending, success or failure.
	ValidationState string `json:"validation_state,omitempty"`
	// ExpiringAlerts counts packages due today not yet shown to the operator.
	ExpiringAlerts int `json:"expiring_alerts"`
}

// ReconciliationReport is the top-level structure for the JSON output.
type ReconciliationReport struct {
	Summary   Summary                   `json:"reconciliation_summary"`
	Result    ReconciliationResult      `json:"result"`
	Shipments []ValidatedPackage        `json:"shipments"`
	Overrides map[string]OverrideReason `json:"overrides"`
}

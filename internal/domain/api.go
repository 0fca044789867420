package domain

import "time"

// ValidationRequest is the body of POST /{resource}/validate-tracking-numbers.
type ValidationRequest struct {
	TrackingNumbers []string `json:"trackingNumbers"`
	SubsidiaryID    string   `json:"subsidiaryId"`
}

// ValidationResponse is the backend answer to a ValidationRequest.
type ValidationResponse struct {
	ValidatedShipments []ValidatedPackage `json:"validatedShipments"`
	Consolidateds      *ManifestSet       `json:"consolidateds,omitempty"`
}

// SubmitRequest is the body of POST /{resource}, the final reconciled manifest.
type SubmitRequest struct {
	VehicleID          string          `json:"vehicleId"`
	SubsidiaryID       string          `json:"subsidiaryId"`
	Shipments          []string        `json:"shipments"`
	MissingTrackings   []TrackingEntry `json:"missingTrackings"`
	UnscannedTrackings []TrackingEntry `json:"unScannedTrackings"`
	Date               time.Time       `json:"date"`
}

// SubmitResponse identifies the stored manifest.
type SubmitResponse struct {
	ID string `json:"id"`
}

// ReportFile is one generated document attached to a submitted manifest.
type ReportFile struct {
	Name        string
	ContentType string
	Content     []byte
}

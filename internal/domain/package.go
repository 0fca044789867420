package domain

import "time"

// Priority is the delivery priority assigned by the backend.
type Priority string

const (
	PriorityHigh   Priority = "alta"
	PriorityMedium Priority = "media"
	PriorityLow    Priority = "baja"
)

const (
	// ReasonMalformed marks scanned input that is not a 12-digit tracking number.
	ReasonMalformed = "malformed"
	// ReasonPendingValidation marks entries accepted provisionally while offline.
	ReasonPendingValidation = "pending validation"
	// ReasonNotInManifest marks valid packages that belong to no engaged manifest.
	ReasonNotInManifest = "not in manifest"
)

// Payment describes an amount to be collected on delivery.
type Payment struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// ValidatedPackage is the backend verdict for one tracking number.
type ValidatedPackage struct {
	TrackingNumber   string     `json:"trackingNumber"`
	IsValid          bool       `json:"isValid"`
	Reason           string     `json:"reason,omitempty"`
	RecipientName    string     `json:"recipientName,omitempty"`
	RecipientAddress string     `json:"recipientAddress,omitempty"`
	RecipientPhone   string     `json:"recipientPhone,omitempty"`
	RecipientCity    string     `json:"recipientCity,omitempty"`
	RecipientZip     string     `json:"recipientZip,omitempty"`
	CommitDateTime   *time.Time `json:"commitDateTime,omitempty"`
	Priority         Priority   `json:"priority,omitempty"`
	IsCharge         bool       `json:"isCharge"`
	IsHighValue      bool       `json:"isHighValue"`
	Payment          *Payment   `json:"payment,omitempty"`
	ConsNumber       string     `json:"consNumber,omitempty"`

	// IsOffline is set when the backend could not be reached and the entry
	// waits for re-validation.
	IsOffline bool `json:"isOffline"`
}

// PendingPackage builds the provisional entry stored while offline.
func PendingPackage(trackingNumber string) ValidatedPackage {
	return ValidatedPackage{
		TrackingNumber: trackingNumber,
		IsValid:        false,
		Reason:         ReasonPendingValidation,
		IsOffline:      true,
	}
}

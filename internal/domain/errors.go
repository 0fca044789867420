package domain

import "errors"

var (
	ErrNoValidNumbers           = errors.New("no valid numbers entered")
	ErrValidationInProgress     = errors.New("validation already in progress")
	ErrUnchangedCandidates      = errors.New("candidate list unchanged since last validation")
	ErrStaleResponse            = errors.New("validation response superseded by a newer request")
	ErrInvalidOverrideReason    = errors.New("invalid override reason")
	ErrPendingOfflineValidation = errors.New("packages pending offline validation")
	ErrNothingToSubmit          = errors.New("no validated packages to submit")
	ErrUnknownWorkflowKind      = errors.New("unknown workflow kind")
	ErrMissingVehicle           = errors.New("vehicle is required")
)

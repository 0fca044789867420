package usecase

import (
	"context"

	"manifest-reconciliation/internal/domain"
)

// ValidationGateway is the backend API the workflow talks to.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_interface.go -source=interface.go
type ValidationGateway interface {
	ValidateTrackingNumbers(ctx context.Context, kind domain.WorkflowKind, req domain.ValidationRequest) (*domain.ValidationResponse, error)
	ConsolidatedToStart(ctx context.Context, kind domain.WorkflowKind, branchID string) (*domain.ManifestSet, error)
	Submit(ctx context.Context, kind domain.WorkflowKind, req domain.SubmitRequest) (*domain.SubmitResponse, error)
	UploadReport(ctx context.Context, kind domain.WorkflowKind, manifestID string, files []domain.ReportFile) error
}

// StateStore persists workflow state, one key per field under a namespace.
type StateStore interface {
	Load(ctx context.Context, namespace string) (*domain.WorkflowState, error)
	Save(ctx context.Context, namespace string, state *domain.WorkflowState) error
	Clear(ctx context.Context, namespace string) error
}

// ConnectivityChecker tells whether the backend is currently reachable.
type ConnectivityChecker interface {
	Online(ctx context.Context) bool
}

// ReportRenderer turns a reconciliation report into uploadable documents.
type ReportRenderer interface {
	Render(ctx context.Context, report *domain.ReconciliationReport) ([]domain.ReportFile, error)
}

// Notifier surfaces transient messages to the operator.
type Notifier interface {
	Notify(ctx context.Context, level domain.NotificationLevel, message string)
}

package server

import (
	"context"
	"fmt"
	"sync"

	"manifest-reconciliation/internal/domain"
	"manifest-reconciliation/internal/logger"
	"manifest-reconciliation/internal/usecase"
)

// WorkflowFactory builds a workflow reporting to notifier.
type WorkflowFactory func(kind domain.WorkflowKind, branchID string, notifier usecase.Notifier) *usecase.Workflow

// Session is a loaded workflow together with its pending notifications.
type Session struct {
	Workflow      *usecase.Workflow
	Notifications *logger.BufferedNotifier
}

// Registry keeps one loaded workflow per kind and branch.
type Registry struct {
	factory WorkflowFactory
	log     logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry(factory WorkflowFactory, log logger.Logger) *Registry {
	return &Registry{
		factory:  factory,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session of kind and branch, loading persisted state the
// first time it is requested.
func (r *Registry) Get(ctx context.Context, kind domain.WorkflowKind, branchID string) (*Session, error) {
	key := usecase.Namespace(kind, branchID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[key]; ok {
		return s, nil
	}

	notes := logger.NewBufferedNotifier(r.log, 0)
	w := r.factory(kind, branchID, notes)
	if err := w.Load(ctx); err != nil {
		w.Close()
		return nil, fmt.Errorf("could not load workflow %s: %w", key, err)
	}
	s := &Session{Workflow: w, Notifications: notes}
	r.sessions[key] = s
	return s, nil
}

func (r *Registry) snapshot() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// ResubmitOffline re-validates provisional entries of every loaded workflow.
func (r *Registry) ResubmitOffline(ctx context.Context) {
	for _, s := range r.snapshot() {
		w := s.Workflow
		if err := w.ResubmitOffline(ctx); err != nil {
			r.log.Warnf(logger.WithWorkflow(ctx, string(w.Kind()), w.BranchID()), "[Registry] resubmit offline: %v", err)
		}
	}
}

// Close stops every workflow.
func (r *Registry) Close() {
	for _, s := range r.snapshot() {
		s.Workflow.Close()
	}
}

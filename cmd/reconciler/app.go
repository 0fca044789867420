package main

import (
	"context"
	"fmt"
	"time"

	"manifest-reconciliation/internal/config"
	"manifest-reconciliation/internal/domain"
	"manifest-reconciliation/internal/gateway"
	"manifest-reconciliation/internal/logger"
	"manifest-reconciliation/internal/usecase"
)

// stateStore is a usecase.StateStore that owns a connection.
type stateStore interface {
	usecase.StateStore
	Close() error
}

// app holds the adapters shared by every workflow of the process.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	loc      *time.Location
	backend  *gateway.HTTPBackend
	store    stateStore
	renderer *gateway.ExcelReportRenderer
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	loc, err := time.LoadLocation(cfg.Workflow.Timezone)
	if err != nil {
		return nil, fmt.Errorf("could not load timezone: %w", err)
	}

	var store stateStore
	switch cfg.Store.Driver {
	case "redis":
		r := cfg.Store.Redis
		store, err = gateway.NewRedisStateStore(ctx, r.Addr, r.Password, r.DB, r.KeyPrefix, r.TTL)
	default:
		store, err = gateway.OpenBadgerStateStore(cfg.Store.Badger.Path, cfg.Store.Badger.InMemory)
	}
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		log:      log,
		loc:      loc,
		backend:  gateway.NewHTTPBackend(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.Timeout, cfg.Connectivity.ProbeTimeout, log),
		store:    store,
		renderer: gateway.NewExcelReportRenderer(loc, time.Now),
	}, nil
}

// newWorkflow builds a workflow wired to the shared adapters.
func (a *app) newWorkflow(kind domain.WorkflowKind, branchID string, notifier usecase.Notifier) *usecase.Workflow {
	return usecase.NewWorkflow(usecase.WorkflowOptions{
		Kind:     kind,
		BranchID: branchID,
		Debounce: a.cfg.Workflow.Debounce,
		Reconcile: usecase.ReconcileOptions{
			EngagementThreshold:  a.cfg.Workflow.EngagementThreshold,
			ReportUnscannedAdded: a.cfg.Workflow.ReportUnscannedAdded,
		},
		Location: a.loc,
	}, usecase.WorkflowDeps{
		Gateway:      a.backend,
		Store:        a.store,
		Connectivity: a.backend,
		Renderer:     a.renderer,
		Notifier:     notifier,
		Logger:       a.log,
	})
}

func (a *app) Close() error {
	return a.store.Close()
}

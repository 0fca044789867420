package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"manifest-reconciliation/internal/domain"
	"manifest-reconciliation/internal/errorutil"
	"manifest-reconciliation/internal/logger"
)

// WorkflowOptions configures one reconciliation workflow.
type WorkflowOptions struct {
	Kind      domain.WorkflowKind
	BranchID  string
	Debounce  time.Duration
	Reconcile ReconcileOptions
	// Location is the timezone used to decide whether a package expires today.
	Location *time.Location
}

// WorkflowDeps are the collaborators of a workflow. Renderer and Notifier
// are optional.
type WorkflowDeps struct {
	Gateway      ValidationGateway
	Store        StateStore
	Connectivity ConnectivityChecker
	Renderer     ReportRenderer
	Notifier     Notifier
	Logger       logger.Logger
	Clock        func() time.Time
}

// Workflow is the single state container behind every entry point. Every
// mutation recomputes the reconciliation and persists the whole state.
type Workflow struct {
	kind      domain.WorkflowKind
	branchID  string
	namespace string

	gateway  ValidationGateway
	store    StateStore
	renderer ReportRenderer
	notifier Notifier
	log      logger.Logger
	clock    func() time.Time

	bridge      *ValidationBridge
	reconciler  *Reconciler
	manifests   *ManifestCache
	expirations *ExpirationWatch
	debouncer   *Debouncer

	mu     sync.Mutex
	state  *domain.WorkflowState
	result domain.ReconciliationResult
}

// Namespace is the state store namespace of a workflow.
func Namespace(kind domain.WorkflowKind, branchID string) string {
	return string(kind) + ":" + branchID
}

// NewWorkflow creates a workflow with empty state. Call Load to restore
// persisted state.
func NewWorkflow(opts WorkflowOptions, deps WorkflowDeps) *Workflow {
	if opts.Kind == "" {
		opts.Kind = domain.KindUnloading
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}

	w := &Workflow{
		kind:        opts.Kind,
		branchID:    opts.BranchID,
		namespace:   Namespace(opts.Kind, opts.BranchID),
		gateway:     deps.Gateway,
		store:       deps.Store,
		renderer:    deps.Renderer,
		notifier:    deps.Notifier,
		log:         deps.Logger,
		clock:       deps.Clock,
		bridge:      NewValidationBridge(deps.Gateway, deps.Connectivity, opts.Kind, deps.Logger),
		reconciler:  NewReconciler(opts.Reconcile),
		manifests:   NewManifestCache(deps.Gateway, opts.Kind),
		expirations: NewExpirationWatch(opts.Location, deps.Clock),
		debouncer:   NewDebouncer(opts.Debounce),
		state:       domain.NewWorkflowState(),
	}
	w.recomputeLocked()
	return w
}

// Kind returns the workflow kind.
func (w *Workflow) Kind() domain.WorkflowKind { return w.kind }

// BranchID returns the branch the workflow reconciles.
func (w *Workflow) BranchID() string { return w.branchID }

func (w *Workflow) context(ctx context.Context) context.Context {
	return logger.WithWorkflow(ctx, string(w.kind), w.branchID)
}

// Load restores persisted state and the branch manifests. When manifests
// cannot be fetched the persisted missing and surplus lists are kept as they
// were saved.
func (w *Workflow) Load(ctx context.Context) error {
	ctx = w.context(ctx)

	state, err := w.store.Load(ctx, w.namespace)
	if err != nil {
		return fmt.Errorf("could not load workflow state: %w", err)
	}
	if state == nil {
		state = domain.NewWorkflowState()
	}

	_, manifestErr := w.manifests.Get(ctx, w.branchID)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = state
	if manifestErr != nil {
		w.log.Warnf(ctx, "[Workflow] manifests unavailable, using persisted classification: %v", manifestErr)
		w.result = resultFromState(state)
		return nil
	}
	w.recomputeLocked()
	return nil
}

// Scan replaces the scanned input with the lines of raw, the way a text
// area is re-parsed on every change.
func (w *Workflow) Scan(ctx context.Context, raw string) (Ingestion, error) {
	in, err := Ingest(raw)
	if err != nil {
		return in, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return in, w.commitLocked(w.context(ctx), func(s *domain.WorkflowState) {
		s.ScannedPackages = ParseScans(raw)
		s.Malformed = in.Malformed
	})
}

// AddScans appends discrete scan events to the scanned input.
func (w *Workflow) AddScans(ctx context.Context, events ...string) (Ingestion, error) {
	lines := ParseScanEvents(events)
	if len(lines) == 0 {
		return Ingestion{}, domain.ErrNoValidNumbers
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	var in Ingestion
	err := w.commitLocked(w.context(ctx), func(s *domain.WorkflowState) {
		s.ScannedPackages = ParseScanEvents(append(s.ScannedPackages, lines...))
		in = Classify(s.ScannedPackages)
		s.Malformed = in.Malformed
	})
	if err != nil {
		return Ingestion{}, err
	}
	return in, nil
}

// ScheduleValidation validates the current candidates once the input has
// been quiet for the debounce delay. Failures are reported via the notifier.
func (w *Workflow) ScheduleValidation(ctx context.Context) {
	ctx = context.WithoutCancel(w.context(ctx))
	w.debouncer.Trigger(func() {
		if _, err := w.Validate(ctx, false); err != nil {
			w.log.Debugf(ctx, "[Workflow] debounced validation: %v", err)
		}
	})
}

// Validate submits the current candidates and merges the verdicts.
// force bypasses the in-flight guard and the unchanged-input check.
func (w *Workflow) Validate(ctx context.Context, force bool) (*domain.ReconciliationReport, error) {
	ctx = w.context(ctx)

	w.mu.Lock()
	candidates := Classify(w.state.ScannedPackages).Candidates
	w.mu.Unlock()

	if len(candidates) == 0 {
		return nil, domain.ErrNoValidNumbers
	}
	return w.validate(ctx, candidates, force)
}

// ResubmitOffline re-validates every provisionally accepted package. It is
// called when connectivity returns.
func (w *Workflow) ResubmitOffline(ctx context.Context) error {
	ctx = w.context(ctx)

	w.mu.Lock()
	var offline []string
	for _, pkg := range w.state.Shipments {
		if pkg.IsOffline {
			offline = append(offline, pkg.TrackingNumber)
		}
	}
	w.mu.Unlock()

	if len(offline) == 0 {
		return nil
	}
	w.log.Infof(ctx, "[Workflow] re-validating %d offline packages", len(offline))
	_, err := w.validate(ctx, offline, true)
	return err
}

func (w *Workflow) validate(ctx context.Context, candidates []string, force bool) (*domain.ReconciliationReport, error) {
	outcome, err := w.bridge.Validate(ctx, candidates, w.branchID, ValidateOptions{Force: force})
	if err != nil {
		if !isGuardError(err) {
			w.notifier.Notify(ctx, domain.NotifyError, validationFailureMessage(err))
		}
		return nil, err
	}

	fresh := !outcome.Offline && !outcome.Manifests.IsEmpty()
	if outcome.Offline {
		w.notifier.Notify(ctx, domain.NotifyWarning, fmt.Sprintf("Offline: %d packages pending validation", len(outcome.Packages)))
	} else if !fresh {
		if _, err := w.manifests.Get(ctx, w.branchID); err != nil {
			w.notifier.Notify(ctx, domain.NotifyWarning, "Consolidated manifests unavailable, missing packages cannot be computed")
			w.log.Warnf(ctx, "[Workflow] %v", err)
		}
	}

	w.mu.Lock()
	if !w.bridge.IsLatest(outcome.Seq) {
		w.mu.Unlock()
		return nil, domain.ErrStaleResponse
	}
	if fresh {
		w.manifests.Put(w.branchID, outcome.Manifests)
	}
	err = w.commitLocked(ctx, func(s *domain.WorkflowState) {
		mergePackages(s, outcome.Packages)
	})
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}
	flagged := w.expirations.Observe(outcome.Packages)
	report := w.reportLocked()
	w.mu.Unlock()

	if len(flagged) > 0 {
		w.notifier.Notify(ctx, domain.NotifyWarning, fmt.Sprintf("%d packages expire today", len(flagged)))
	}
	return report, nil
}

// mergePackages upserts packages keyed by tracking number. A provisional
// offline entry never replaces an authoritative one.
func mergePackages(state *domain.WorkflowState, pkgs []domain.ValidatedPackage) {
	index := make(map[string]int, len(state.Shipments))
	for i, pkg := range state.Shipments {
		index[pkg.TrackingNumber] = i
	}
	for _, pkg := range pkgs {
		i, ok := index[pkg.TrackingNumber]
		if !ok {
			index[pkg.TrackingNumber] = len(state.Shipments)
			state.Shipments = append(state.Shipments, pkg)
			continue
		}
		if pkg.IsOffline && !state.Shipments[i].IsOffline {
			continue
		}
		state.Shipments[i] = pkg
	}
}

// SetOverride assigns an operator reason to a tracking number, replacing any
// previous one.
func (w *Workflow) SetOverride(ctx context.Context, trackingNumber string, reason domain.OverrideReason) error {
	if !reason.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidOverrideReason, reason)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.commitLocked(w.context(ctx), func(s *domain.WorkflowState) {
		s.SelectedReasons[trackingNumber] = reason
	})
}

// ClearOverride lets the derived classification apply again.
func (w *Workflow) ClearOverride(ctx context.Context, trackingNumber string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.commitLocked(w.context(ctx), func(s *domain.WorkflowState) {
		delete(s.SelectedReasons, trackingNumber)
	})
}

// RemoveShipment forgets everything known about a tracking number.
func (w *Workflow) RemoveShipment(ctx context.Context, trackingNumber string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.commitLocked(w.context(ctx), func(s *domain.WorkflowState) {
		shipments := s.Shipments[:0]
		for _, pkg := range s.Shipments {
			if pkg.TrackingNumber != trackingNumber {
				shipments = append(shipments, pkg)
			}
		}
		s.Shipments = shipments

		scanned := s.ScannedPackages[:0]
		for _, line := range s.ScannedPackages {
			if line != trackingNumber {
				scanned = append(scanned, line)
			}
		}
		s.ScannedPackages = scanned

		malformed := s.Malformed[:0]
		for _, m := range s.Malformed {
			if m.TrackingNumber != trackingNumber {
				malformed = append(malformed, m)
			}
		}
		s.Malformed = malformed

		delete(s.SelectedReasons, trackingNumber)
	})
}

// SetStep records the wizard step the operator is on.
func (w *Workflow) SetStep(ctx context.Context, step int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.commitLocked(w.context(ctx), func(s *domain.WorkflowState) {
		s.CurrentStep = step
	})
}

// SetVehicle records the vehicle being unloaded.
func (w *Workflow) SetVehicle(ctx context.Context, vehicleID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.commitLocked(w.context(ctx), func(s *domain.WorkflowState) {
		s.VehicleID = vehicleID
	})
}

// RefreshManifests refetches the branch manifests and recomputes.
func (w *Workflow) RefreshManifests(ctx context.Context) error {
	ctx = w.context(ctx)
	if _, err := w.manifests.Refresh(ctx, w.branchID); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.commitLocked(ctx, nil)
}

// Report returns the current reconciliation report.
func (w *Workflow) Report() *domain.ReconciliationReport {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reportLocked()
}

// State returns a copy of the current state.
func (w *Workflow) State() *domain.WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Clone()
}

// NextExpiring pops the next package that expires today.
func (w *Workflow) NextExpiring() (domain.ValidatedPackage, bool) {
	return w.expirations.Next()
}

// Submit saves the reconciled manifest and uploads its report. On a failed
// save the state is kept so the operator can retry without scanning again.
// A failed upload after a successful save is only reported.
func (w *Workflow) Submit(ctx context.Context, vehicleID string) (*domain.SubmitResponse, error) {
	ctx = w.context(ctx)

	w.mu.Lock()
	if vehicleID == "" {
		vehicleID = w.state.VehicleID
	}
	if vehicleID == "" {
		w.mu.Unlock()
		return nil, domain.ErrMissingVehicle
	}
	for _, pkg := range w.state.Shipments {
		if pkg.IsOffline {
			w.mu.Unlock()
			return nil, domain.ErrPendingOfflineValidation
		}
	}
	if len(w.result.Valid) == 0 {
		w.mu.Unlock()
		return nil, domain.ErrNothingToSubmit
	}

	req := domain.SubmitRequest{
		VehicleID:          vehicleID,
		SubsidiaryID:       w.branchID,
		Shipments:          make([]string, 0, len(w.result.Valid)),
		MissingTrackings:   append([]domain.TrackingEntry{}, w.result.Missing...),
		UnscannedTrackings: append([]domain.TrackingEntry{}, w.result.Surplus...),
		Date:               w.clock(),
	}
	for _, v := range w.result.Valid {
		req.Shipments = append(req.Shipments, v.TrackingNumber)
	}
	report := w.reportLocked()
	w.mu.Unlock()

	resp, err := w.gateway.Submit(ctx, w.kind, req)
	if err != nil {
		w.notifier.Notify(ctx, domain.NotifyError, fmt.Sprintf("Could not save the %s: %v", w.kind, err))
		return nil, fmt.Errorf("could not submit %s: %w", w.kind, err)
	}
	w.log.Infof(ctx, "[Workflow] saved %s %s with %d packages", w.kind, resp.ID, len(req.Shipments))

	w.uploadReport(ctx, resp.ID, report)

	if err := w.Reset(ctx); err != nil {
		return resp, err
	}
	w.notifier.Notify(ctx, domain.NotifyInfo, fmt.Sprintf("%s %s saved", w.kind, resp.ID))
	return resp, nil
}

func (w *Workflow) uploadReport(ctx context.Context, manifestID string, report *domain.ReconciliationReport) {
	if w.renderer == nil {
		return
	}
	files, err := w.renderer.Render(ctx, report)
	if err != nil {
		w.notifier.Notify(ctx, domain.NotifyWarning, fmt.Sprintf("Could not generate the report: %v", err))
		return
	}
	if err := w.gateway.UploadReport(ctx, w.kind, manifestID, files); err != nil {
		w.notifier.Notify(ctx, domain.NotifyWarning, fmt.Sprintf("Could not upload the report: %v", err))
	}
}

// Reset clears persisted and in-memory state.
func (w *Workflow) Reset(ctx context.Context) error {
	ctx = w.context(ctx)
	if err := w.store.Clear(ctx, w.namespace); err != nil {
		return fmt.Errorf("could not clear workflow state: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = domain.NewWorkflowState()
	w.bridge.Reset()
	w.expirations.Drop()
	w.recomputeLocked()
	return nil
}

// Close stops the pending debounced validation.
func (w *Workflow) Close() {
	w.debouncer.Stop()
}

func (w *Workflow) recomputeLocked() {
	w.result = w.reconcile(w.state)
}

// reconcile classifies state and stores the derived lists in it.
func (w *Workflow) reconcile(state *domain.WorkflowState) domain.ReconciliationResult {
	result := w.reconciler.Reconcile(
		state.Shipments,
		w.manifests.Peek(w.branchID),
		state.Malformed,
		state.SelectedReasons,
	)
	state.MissingTrackings = result.Missing
	state.UnscannedTrackings = result.Surplus
	return result
}

// commitLocked applies mutate to a copy of the state, recomputes and
// persists it. The copy becomes the current state only once it is saved.
// The store is written under the lock so saves land in mutation order.
func (w *Workflow) commitLocked(ctx context.Context, mutate func(*domain.WorkflowState)) error {
	next := w.state.Clone()
	if mutate != nil {
		mutate(next)
	}
	result := w.reconcile(next)
	if err := w.store.Save(ctx, w.namespace, next); err != nil {
		w.log.Errorf(ctx, "[Workflow] persist state: %v", err)
		return fmt.Errorf("could not save workflow state: %w", err)
	}
	w.state, w.result = next, result
	return nil
}

func (w *Workflow) reportLocked() *domain.ReconciliationReport {
	report := BuildReport(w.kind, w.branchID, w.state, w.result)
	report.Summary.ValidationState = w.bridge.State().String()
	report.Summary.ExpiringAlerts = w.expirations.Pending()
	return report
}

// resultFromState rebuilds a result from persisted derived lists.
func resultFromState(state *domain.WorkflowState) domain.ReconciliationResult {
	result := domain.ReconciliationResult{
		Valid:            make([]domain.TrackingEntry, 0),
		Missing:          append([]domain.TrackingEntry{}, state.MissingTrackings...),
		Surplus:          append([]domain.TrackingEntry{}, state.UnscannedTrackings...),
		EngagedManifests: make([]string, 0),
	}
	taken := make(map[string]bool)
	for _, e := range result.Missing {
		taken[e.TrackingNumber] = true
	}
	for _, e := range result.Surplus {
		taken[e.TrackingNumber] = true
	}
	for _, pkg := range state.Shipments {
		if pkg.IsValid && !taken[pkg.TrackingNumber] {
			result.Valid = append(result.Valid, domain.TrackingEntry{
				TrackingNumber: pkg.TrackingNumber,
				ConsNumber:     pkg.ConsNumber,
			})
		}
	}
	return result
}

func validationFailureMessage(err error) string {
	if errorutil.IsRetryable(err) {
		return fmt.Sprintf("Could not validate tracking numbers, try again in a moment: %v", err)
	}
	return fmt.Sprintf("Could not validate tracking numbers: %v", err)
}

func isGuardError(err error) bool {
	return errors.Is(err, domain.ErrValidationInProgress) ||
		errors.Is(err, domain.ErrUnchangedCandidates) ||
		errors.Is(err, domain.ErrStaleResponse) ||
		errors.Is(err, domain.ErrNoValidNumbers)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, domain.NotificationLevel, string) {}

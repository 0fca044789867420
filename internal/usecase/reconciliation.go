package usecase

import (
	"sort"

	"manifest-reconciliation/internal/domain"
)

// ReconcileOptions tunes the reconciliation engine.
type ReconcileOptions struct {
	// EngagementThreshold is the number of scanned-valid members a manifest
	// entry needs before its notFound list is reported as missing. Values
	// below 1 are treated as 1.
	EngagementThreshold int
	// ReportUnscannedAdded also reports never-scanned members of an engaged
	// entry's added list as missing.
	ReportUnscannedAdded bool
}

// Reconciler classifies tracking numbers into valid, missing and surplus.
// It is pure: identical inputs always give identical output.
type Reconciler struct {
	opts ReconcileOptions
}

// NewReconciler creates a new reconciler.
func NewReconciler(opts ReconcileOptions) *Reconciler {
	if opts.EngagementThreshold < 1 {
		opts.EngagementThreshold = 1
	}
	return &Reconciler{opts: opts}
}

// Reconcile merges validation results against the expected manifests.
// Operator overrides are applied last and take precedence over the derived
// classification.
func (r *Reconciler) Reconcile(
	shipments []domain.ValidatedPackage,
	manifests *domain.ManifestSet,
	malformed []domain.TrackingEntry,
	overrides map[string]domain.OverrideReason,
) domain.ReconciliationResult {
	result := domain.ReconciliationResult{
		Valid:            make([]domain.TrackingEntry, 0),
		Missing:          make([]domain.TrackingEntry, 0),
		Surplus:          make([]domain.TrackingEntry, 0),
		EngagedManifests: make([]string, 0),
	}

	// Step 1: everything that was scanned, and the subset that validated.
	validTrackings := make(map[string]bool)
	scanned := make(map[string]bool)
	for _, pkg := range shipments {
		scanned[pkg.TrackingNumber] = true
		if pkg.IsValid {
			validTrackings[pkg.TrackingNumber] = true
		}
	}
	for _, m := range malformed {
		scanned[m.TrackingNumber] = true
	}

	// Steps 2 and 3: a manifest entry is engaged once enough of its added
	// members were scanned and validated.
	var engaged []domain.ManifestEntry
	for _, entry := range manifests.Flatten() {
		hits := 0
		for _, t := range entry.Added {
			if validTrackings[t.TrackingNumber] {
				hits++
			}
		}
		if hits >= r.opts.EngagementThreshold {
			engaged = append(engaged, entry)
			result.EngagedManifests = append(result.EngagedManifests, entry.Reference())
		}
	}

	expected := make(map[string]string)
	for _, entry := range engaged {
		for _, t := range entry.Added {
			if _, ok := expected[t.TrackingNumber]; !ok {
				expected[t.TrackingNumber] = entry.Reference()
			}
		}
	}

	// Step 5: valid and expected, or surplus.
	placed := make(map[string]bool)
	for _, pkg := range shipments {
		if placed[pkg.TrackingNumber] {
			continue
		}
		placed[pkg.TrackingNumber] = true

		if !pkg.IsValid {
			result.Surplus = append(result.Surplus, domain.TrackingEntry{
				TrackingNumber: pkg.TrackingNumber,
				Reason:         pkg.Reason,
				ConsNumber:     pkg.ConsNumber,
			})
			continue
		}
		if ref, ok := expected[pkg.TrackingNumber]; ok {
			result.Valid = append(result.Valid, domain.TrackingEntry{
				TrackingNumber: pkg.TrackingNumber,
				ConsNumber:     ref,
			})
			continue
		}
		result.Surplus = append(result.Surplus, domain.TrackingEntry{
			TrackingNumber: pkg.TrackingNumber,
			Reason:         domain.ReasonNotInManifest,
			ConsNumber:     pkg.ConsNumber,
		})
	}
	for _, m := range malformed {
		if placed[m.TrackingNumber] {
			continue
		}
		placed[m.TrackingNumber] = true
		result.Surplus = append(result.Surplus, m)
	}

	// Step 4: gaps of engaged entries that were never scanned and not
	// excluded by the operator.
	for _, entry := range engaged {
		gaps := entry.NotFound
		if r.opts.ReportUnscannedAdded {
			gaps = append(append([]domain.Tracking{}, entry.NotFound...), entry.Added...)
		}
		for _, t := range gaps {
			tn := t.TrackingNumber
			if scanned[tn] || placed[tn] {
				continue
			}
			if reason := overrides[tn]; reason == domain.OverrideNotScanned || reason == domain.OverrideNotInCharge {
				continue
			}
			placed[tn] = true
			result.Missing = append(result.Missing, domain.TrackingEntry{
				TrackingNumber: tn,
				ConsNumber:     entry.Reference(),
			})
		}
	}

	return applyOverrides(result, overrides)
}

// applyOverrides evicts every overridden tracking number from the bucket it
// was derived into and reinserts it according to its reason.
func applyOverrides(result domain.ReconciliationResult, overrides map[string]domain.OverrideReason) domain.ReconciliationResult {
	if len(overrides) == 0 {
		return result
	}

	prior := make(map[string]domain.TrackingEntry, len(overrides))
	evict := func(entries []domain.TrackingEntry) []domain.TrackingEntry {
		kept := entries[:0]
		for _, e := range entries {
			if _, ok := overrides[e.TrackingNumber]; ok {
				prior[e.TrackingNumber] = e
				continue
			}
			kept = append(kept, e)
		}
		return kept
	}
	result.Valid = evict(result.Valid)
	result.Missing = evict(result.Missing)
	result.Surplus = evict(result.Surplus)

	keys := make([]string, 0, len(overrides))
	for tn := range overrides {
		keys = append(keys, tn)
	}
	sort.Strings(keys)

	for _, tn := range keys {
		reason := overrides[tn]
		entry, ok := prior[tn]
		if !ok {
			entry = domain.TrackingEntry{TrackingNumber: tn}
		}
		entry.Override = reason

		switch reason {
		case domain.OverrideNotTracking:
			result.Missing = append(result.Missing, entry)
		case domain.OverrideNotScanned:
			result.Surplus = append(result.Surplus, entry)
		case domain.OverrideNotInCharge:
			// excluded from this batch
		}
	}
	return result
}

// BuildReport assembles the JSON report of a workflow.
func BuildReport(kind domain.WorkflowKind, branchID string, state *domain.WorkflowState, result domain.ReconciliationResult) *domain.ReconciliationReport {
	offline := 0
	for _, pkg := range state.Shipments {
		if pkg.IsOffline {
			offline++
		}
	}
	overrides := make(map[string]domain.OverrideReason, len(state.SelectedReasons))
	for k, v := range state.SelectedReasons {
		overrides[k] = v
	}

	return &domain.ReconciliationReport{
		Summary: domain.Summary{
			Kind:             kind,
			BranchID:         branchID,
			ScannedCount:     len(state.ScannedPackages),
			ValidCount:       len(result.Valid),
			MissingCount:     len(result.Missing),
			SurplusCount:     len(result.Surplus),
			OfflineCount:     offline,
			EngagedManifests: len(result.EngagedManifests),
		},
		Result:    result,
		Shipments: append([]domain.ValidatedPackage{}, state.Shipments...),
		Overrides: overrides,
	}
}

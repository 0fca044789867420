package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/atomic"

	"manifest-reconciliation/internal/domain"
	"manifest-reconciliation/internal/logger"
)

// BridgeState is the lifecycle of the most recent validation request.
type BridgeState int32

const (
	BridgeIdle BridgeState = iota
	BridgePending
	BridgeSuccess
	BridgeFailure
)

func (s BridgeState) String() string {
	switch s {
	case BridgePending:
		return "pending"
	case BridgeSuccess:
		return "success"
	case BridgeFailure:
		return "failure"
	default:
		return "idle"
	}
}

// ValidationOutcome is a validation result that is safe to merge.
type ValidationOutcome struct {
	Seq       uint64
	Packages  []domain.ValidatedPackage
	Manifests *domain.ManifestSet
	// Offline is set when Packages are provisional entries built locally.
	Offline bool
}

// ValidateOptions controls the guards of a validation request.
type ValidateOptions struct {
	// Force skips the busy flag and the unchanged-signature check. Used by
	// the explicit validate action and by reconnect resubmission.
	Force bool
}

// ValidationBridge submits candidates to the backend. At most one debounced
// request is in flight, identical candidate lists are not resubmitted, and
// every request gets a sequence number so late replies of superseded
// requests are dropped.
type ValidationBridge struct {
	gateway      ValidationGateway
	connectivity ConnectivityChecker
	kind         domain.WorkflowKind
	log          logger.Logger

	busy  *atomic.Bool
	seq   *atomic.Uint64
	state *atomic.Int32

	mu            sync.Mutex
	lastSignature string
}

// NewValidationBridge creates a bridge for one workflow kind.
func NewValidationBridge(gateway ValidationGateway, connectivity ConnectivityChecker, kind domain.WorkflowKind, log logger.Logger) *ValidationBridge {
	return &ValidationBridge{
		gateway:      gateway,
		connectivity: connectivity,
		kind:         kind,
		log:          log,
		busy:         atomic.NewBool(false),
		seq:          atomic.NewUint64(0),
		state:        atomic.NewInt32(int32(BridgeIdle)),
	}
}

// State returns the state of the latest request.
func (b *ValidationBridge) State() BridgeState {
	return BridgeState(b.state.Load())
}

// IsLatest reports whether seq is the most recently issued request.
func (b *ValidationBridge) IsLatest(seq uint64) bool {
	return b.seq.Load() == seq
}

// Validate submits candidates for branchID.
func (b *ValidationBridge) Validate(ctx context.Context, candidates []string, branchID string, opts ValidateOptions) (*ValidationOutcome, error) {
	if len(candidates) == 0 {
		return nil, domain.ErrNoValidNumbers
	}

	sig := signature(candidates, branchID)
	if !opts.Force {
		b.mu.Lock()
		unchanged := sig == b.lastSignature
		b.mu.Unlock()
		if unchanged {
			return nil, domain.ErrUnchangedCandidates
		}
		if !b.busy.CAS(false, true) {
			return nil, domain.ErrValidationInProgress
		}
		defer b.busy.Store(false)
	}

	b.mu.Lock()
	b.lastSignature = sig
	b.mu.Unlock()

	seq := b.seq.Inc()
	b.state.Store(int32(BridgePending))
	b.log.Debugf(ctx, "[ValidationBridge] request #%d: %d candidates", seq, len(candidates))

	resp, err := b.gateway.ValidateTrackingNumbers(ctx, b.kind, domain.ValidationRequest{
		TrackingNumbers: candidates,
		SubsidiaryID:    branchID,
	})
	if !b.IsLatest(seq) {
		b.log.Infof(ctx, "[ValidationBridge] dropping reply of request #%d, latest is #%d", seq, b.seq.Load())
		return nil, domain.ErrStaleResponse
	}

	if err != nil {
		if b.connectivity != nil && !b.connectivity.Online(ctx) {
			b.log.Warnf(ctx, "[ValidationBridge] offline, accepting %d candidates provisionally: %v", len(candidates), err)
			pending := make([]domain.ValidatedPackage, 0, len(candidates))
			for _, c := range candidates {
				pending = append(pending, domain.PendingPackage(c))
			}
			b.state.Store(int32(BridgeSuccess))
			return &ValidationOutcome{Seq: seq, Packages: pending, Offline: true}, nil
		}

		b.forget(sig)
		b.state.Store(int32(BridgeFailure))
		return nil, fmt.Errorf("validate tracking numbers: %w", err)
	}

	b.state.Store(int32(BridgeSuccess))
	if resp == nil {
		resp = &domain.ValidationResponse{}
	}
	return &ValidationOutcome{
		Seq:       seq,
		Packages:  resp.ValidatedShipments,
		Manifests: resp.Consolidateds,
	}, nil
}

// Reset forgets the last signature so the next request always goes out.
func (b *ValidationBridge) Reset() {
	b.mu.Lock()
	b.lastSignature = ""
	b.mu.Unlock()
	b.state.Store(int32(BridgeIdle))
}

// forget drops sig so that resubmitting the same list retries.
func (b *ValidationBridge) forget(sig string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastSignature == sig {
		b.lastSignature = ""
	}
}

func signature(candidates []string, branchID string) string {
	return branchID + "|" + strings.Join(candidates, ",")
}

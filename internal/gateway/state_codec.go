package gateway

import (
	"encoding/json"
	"fmt"

	"manifest-reconciliation/internal/domain"
)

// encodeFields serializes each persisted field of state into its own value.
func encodeFields(state *domain.WorkflowState) (map[string][]byte, error) {
	values := map[string]interface{}{
		domain.FieldScannedPackages:    state.ScannedPackages,
		domain.FieldShipments:          state.Shipments,
		domain.FieldMalformed:          state.Malformed,
		domain.FieldMissingTrackings:   state.MissingTrackings,
		domain.FieldUnscannedTrackings: state.UnscannedTrackings,
		domain.FieldSelectedReasons:    state.SelectedReasons,
		domain.FieldCurrentStep:        state.CurrentStep,
		domain.FieldVehicleID:          state.VehicleID,
	}

	out := make(map[string][]byte, len(values))
	for field, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("could not encode %s: %w", field, err)
		}
		out[field] = raw
	}
	return out, nil
}

// decodeFields rebuilds a state from stored field values. A nil state is
// returned when no field was stored at all.
func decodeFields(values map[string][]byte) (*domain.WorkflowState, error) {
	if len(values) == 0 {
		return nil, nil
	}

	state := domain.NewWorkflowState()
	targets := map[string]interface{}{
		domain.FieldScannedPackages:    &state.ScannedPackages,
		domain.FieldShipments:          &state.Shipments,
		domain.FieldMalformed:          &state.Malformed,
		domain.FieldMissingTrackings:   &state.MissingTrackings,
		domain.FieldUnscannedTrackings: &state.UnscannedTrackings,
		domain.FieldSelectedReasons:    &state.SelectedReasons,
		domain.FieldCurrentStep:        &state.CurrentStep,
		domain.FieldVehicleID:          &state.VehicleID,
	}
	for field, raw := range values {
		target, ok := targets[field]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("could not decode %s: %w", field, err)
		}
	}

	// a stored JSON null must not leave nil collections behind
	empty := domain.NewWorkflowState()
	if state.ScannedPackages == nil {
		state.ScannedPackages = empty.ScannedPackages
	}
	if state.Shipments == nil {
		state.Shipments = empty.Shipments
	}
	if state.Malformed == nil {
		state.Malformed = empty.Malformed
	}
	if state.MissingTrackings == nil {
		state.MissingTrackings = empty.MissingTrackings
	}
	if state.UnscannedTrackings == nil {
		state.UnscannedTrackings = empty.UnscannedTrackings
	}
	if state.SelectedReasons == nil {
		state.SelectedReasons = empty.SelectedReasons
	}
	return state, nil
}

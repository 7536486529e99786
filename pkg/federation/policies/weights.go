package policies

import (
	"encoding/json"
	"fmt"

	"stratus-hq/federation/pkg/federation/subcluster"
)

// WeightedPolicyInfo is the parameter payload used by weight-driven policy
// managers. It maps sub-cluster identifiers to non-negative routing
// weights and travels as JSON inside PolicyConfiguration params.
type WeightedPolicyInfo struct {
	// Weights maps each sub-cluster to its routing weight. Weights are
	// relative; they do not need to sum to one.
	Weights map[subcluster.ID]float64 `json:"weights"`
}

// ParseWeightedPolicyInfo decodes and validates a JSON weights payload.
func ParseWeightedPolicyInfo(params []byte) (*WeightedPolicyInfo, error) {
	var info WeightedPolicyInfo
	if err := json.Unmarshal(params, &info); err != nil {
		return nil, fmt.Errorf("failed to parse weighted policy params: %w", err)
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return &info, nil
}

// Marshal encodes the weights as the opaque parameter payload.
func (w *WeightedPolicyInfo) Marshal() ([]byte, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// Validate checks that at least one sub-cluster has a positive weight and
// that no weight is negative.
func (w *WeightedPolicyInfo) Validate() error {
	if len(w.Weights) == 0 {
		return fmt.Errorf("weighted policy params contain no sub-cluster weights")
	}

	positive := false
	for sc, weight := range w.Weights {
		if weight < 0 {
			return fmt.Errorf("sub-cluster %q has negative weight %v", sc, weight)
		}
		if weight > 0 {
			positive = true
		}
	}
	if !positive {
		return fmt.Errorf("weighted policy params have no positive weight")
	}
	return nil
}

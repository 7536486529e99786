package manager

import (
	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/policies/amrmproxy"
)

// WeightedPolicyManager produces policies that split resource requests
// across sub-clusters proportionally to the WeightedPolicyInfo payload in
// the policy configuration.
type WeightedPolicyManager struct {
	baseManager
}

// NewWeightedPolicyManager creates a weighted policy manager.
func NewWeightedPolicyManager() *WeightedPolicyManager {
	return &WeightedPolicyManager{}
}

// AMRMPolicy returns the current weighted policy, reusing old when it is
// already a weighted policy. The policy itself skips re-parsing the weights
// payload when the configuration is unchanged.
func (m *WeightedPolicyManager) AMRMPolicy(ctx *policies.PolicyInitializationContext, old policies.Policy) (policies.Policy, error) {
	if ctx == nil {
		return nil, errNilContext(TypeWeighted)
	}

	policy, ok := old.(*amrmproxy.WeightedPolicy)
	if !ok || policy == nil {
		policy = amrmproxy.NewWeightedPolicy()
	}
	if err := policy.Reinitialize(ctx); err != nil {
		return nil, initError(TypeWeighted, err)
	}
	return policy, nil
}

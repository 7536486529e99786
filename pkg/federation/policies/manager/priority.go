package manager

import (
	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/policies/amrmproxy"
)

// PriorityPolicyManager produces policies that route all requests to the
// single most-preferred sub-cluster, taken from the weights payload or
// defaulting to the home sub-cluster.
type PriorityPolicyManager struct {
	baseManager
}

// NewPriorityPolicyManager creates a priority policy manager.
func NewPriorityPolicyManager() *PriorityPolicyManager {
	return &PriorityPolicyManager{}
}

// AMRMPolicy returns the current priority policy, reusing old when it is
// already a priority policy.
func (m *PriorityPolicyManager) AMRMPolicy(ctx *policies.PolicyInitializationContext, old policies.Policy) (policies.Policy, error) {
	if ctx == nil {
		return nil, errNilContext(TypePriority)
	}

	policy, ok := old.(*amrmproxy.PriorityPolicy)
	if !ok || policy == nil {
		policy = amrmproxy.NewPriorityPolicy()
	}
	if err := policy.Reinitialize(ctx); err != nil {
		return nil, initError(TypePriority, err)
	}
	return policy, nil
}

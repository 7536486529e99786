package manager

import (
	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/policies/amrmproxy"
)

// RejectPolicyManager produces policies that refuse every resource request,
// fencing a queue off from the federation.
type RejectPolicyManager struct {
	baseManager
}

// NewRejectPolicyManager creates a reject policy manager.
func NewRejectPolicyManager() *RejectPolicyManager {
	return &RejectPolicyManager{}
}

// AMRMPolicy returns the current reject policy, reusing old when it is
// already a reject policy.
func (m *RejectPolicyManager) AMRMPolicy(ctx *policies.PolicyInitializationContext, old policies.Policy) (policies.Policy, error) {
	if ctx == nil {
		return nil, errNilContext(TypeReject)
	}

	policy, ok := old.(*amrmproxy.RejectPolicy)
	if !ok || policy == nil {
		policy = amrmproxy.NewRejectPolicy()
	}
	if err := policy.Reinitialize(ctx); err != nil {
		return nil, initError(TypeReject, err)
	}
	return policy, nil
}

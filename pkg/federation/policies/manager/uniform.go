package manager

import (
	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/policies/amrmproxy"
)

// UniformPolicyManager produces broadcast policies that treat all
// sub-clusters uniformly. It needs no parameter payload, which makes it the
// built-in default manager for unconfigured deployments.
type UniformPolicyManager struct {
	baseManager
}

// NewUniformPolicyManager creates a uniform policy manager.
func NewUniformPolicyManager() *UniformPolicyManager {
	return &UniformPolicyManager{}
}

// AMRMPolicy returns the current broadcast policy, reusing old when it is
// already a broadcast policy.
func (m *UniformPolicyManager) AMRMPolicy(ctx *policies.PolicyInitializationContext, old policies.Policy) (policies.Policy, error) {
	if ctx == nil {
		return nil, errNilContext(TypeUniform)
	}

	policy, ok := old.(*amrmproxy.BroadcastPolicy)
	if !ok || policy == nil {
		policy = amrmproxy.NewBroadcastPolicy()
	}
	if err := policy.Reinitialize(ctx); err != nil {
		return nil, initError(TypeUniform, err)
	}
	return policy, nil
}

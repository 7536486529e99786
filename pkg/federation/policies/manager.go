package policies

import "stratus-hq/federation/pkg/federation/resolver"

// Policy is the live decision-making object returned to the resource-request
// proxy. The proxy owns the returned policy and should retain it across
// invocations so the previous instance can be offered back for reuse.
//
// This package never inspects a policy beyond handing it back to its
// manager; the routing surface lives in the amrmproxy package.
type Policy interface {
	// Reinitialize updates the policy from a freshly resolved context.
	// Implementations compare the incoming configuration with the one
	// they were last initialized with and only rebuild internal state
	// when it actually changed.
	Reinitialize(ctx *PolicyInitializationContext) error
}

// PolicyManager is a named, dynamically selected capability that produces
// and maintains a live routing policy for one queue.
//
// A manager's queue association is mutable and set after construction. If a
// caller retains a manager across calls, it must not invoke it concurrently
// for the same queue; managers may mutate their queue association and any
// internally cached policy state.
type PolicyManager interface {
	// Queue returns the queue this manager is associated with.
	Queue() string

	// SetQueue sets the queue association.
	SetQueue(queue string)

	// AMRMPolicy produces the current policy for the application master
	// resource-request proxy, given an initialization context and the
	// previous policy instance (nil on first use). Implementations reuse
	// old when its type and configuration still match.
	AMRMPolicy(ctx *PolicyInitializationContext, old Policy) (Policy, error)
}

// StateStoreFacade is the capability this package requires from the
// distributed configuration store. Both "no such queue" (wrapping
// ErrPolicyConfigurationNotFound) and operational store failures are
// treated identically by resolution: try the next fallback tier.
type StateStoreFacade interface {
	// PolicyConfiguration returns the stored policy configuration for a
	// queue.
	PolicyConfiguration(queue string) (*PolicyConfiguration, error)

	// SubClusterResolver returns the resolver mapping nodes and racks to
	// sub-clusters.
	SubClusterResolver() resolver.SubClusterResolver
}

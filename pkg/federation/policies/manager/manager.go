// Package manager provides the built-in policy managers selectable by name
// through the policies registry.
//
// Each manager owns one policy flavor and performs the lazy
// reinitialization contract: when handed a previous policy of its own
// flavor it reuses the instance, and the policy itself skips rebuilding
// state when the resolved configuration has not changed. Importing this
// package (directly or blank) registers all built-in manager types.
package manager

import (
	"fmt"

	"stratus-hq/federation/pkg/federation/policies"
)

// Built-in policy manager type names as stored in policy configurations.
const (
	// TypeUniform broadcasts requests uniformly to all sub-clusters.
	TypeUniform = "UniformPolicyManager"

	// TypeWeighted splits requests proportionally to configured weights.
	TypeWeighted = "WeightedPolicyManager"

	// TypePriority routes requests to the single most-preferred
	// sub-cluster.
	TypePriority = "PriorityPolicyManager"

	// TypeReject refuses all requests.
	TypeReject = "RejectPolicyManager"
)

func init() {
	policies.Register(TypeUniform, func() any { return NewUniformPolicyManager() })
	policies.Register(TypeWeighted, func() any { return NewWeightedPolicyManager() })
	policies.Register(TypePriority, func() any { return NewPriorityPolicyManager() })
	policies.Register(TypeReject, func() any { return NewRejectPolicyManager() })
}

// baseManager carries the mutable queue association shared by all built-in
// managers.
type baseManager struct {
	queue string
}

// Queue returns the queue this manager is associated with.
func (m *baseManager) Queue() string {
	return m.queue
}

// SetQueue sets the queue association.
func (m *baseManager) SetQueue(queue string) {
	m.queue = queue
}

// initError wraps a manager-side failure as a PolicyInitializationError.
func initError(managerType string, err error) error {
	return &policies.PolicyInitializationError{
		ManagerType: managerType,
		Cause:       err,
	}
}

// errNilContext is the shared cause for a missing initialization context.
func errNilContext(managerType string) error {
	return initError(managerType, fmt.Errorf("initialization context is nil"))
}

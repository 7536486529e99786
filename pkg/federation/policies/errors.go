package policies

import (
	"errors"
	"fmt"
)

// Common policy errors that can be checked with errors.Is().
var (
	// ErrPolicyInitialization is the single error kind surfaced when a
	// policy manager cannot be instantiated or cannot produce a policy.
	// The distinct underlying causes are preserved in the error chain for
	// diagnostics but callers need not distinguish them.
	ErrPolicyInitialization = errors.New("policy initialization failed")

	// ErrUnknownManagerType is the cause when a manager type name is not
	// present in the registry.
	ErrUnknownManagerType = errors.New("unknown policy manager type")

	// ErrManagerConstruction is the cause when a registered factory fails
	// to produce a usable value.
	ErrManagerConstruction = errors.New("policy manager construction failed")

	// ErrManagerContract is the cause when a constructed value does not
	// satisfy the PolicyManager capability.
	ErrManagerContract = errors.New("constructed value is not a policy manager")

	// ErrPolicyConfigurationNotFound is returned by state store facades
	// when a queue has no stored policy configuration. Resolution treats
	// it like any other store failure: fall through to the next tier.
	ErrPolicyConfigurationNotFound = errors.New("no policy configuration for queue")

	// ErrNilLocalConfiguration is returned when resolution cannot even
	// read local static configuration. Not expected in normal operation,
	// since built-in defaults exist.
	ErrNilLocalConfiguration = errors.New("local configuration is nil")
)

// PolicyInitializationError is returned when instantiating a policy manager
// or producing a policy fails. It normalizes all underlying causes into one
// error kind while preserving the original cause for diagnostics.
type PolicyInitializationError struct {
	// ManagerType is the policy manager type name involved, if known.
	ManagerType string

	// Cause is the underlying failure.
	Cause error
}

// Error implements the error interface.
func (e *PolicyInitializationError) Error() string {
	if e.ManagerType == "" {
		return fmt.Sprintf("policy initialization failed: %v", e.Cause)
	}
	return fmt.Sprintf("policy initialization failed for manager type %q: %v", e.ManagerType, e.Cause)
}

// Is implements error matching for errors.Is().
func (e *PolicyInitializationError) Is(target error) bool {
	return target == ErrPolicyInitialization
}

// Unwrap returns the wrapped cause for error chain traversal.
func (e *PolicyInitializationError) Unwrap() error {
	return e.Cause
}

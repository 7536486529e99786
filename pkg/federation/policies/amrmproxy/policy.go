// Package amrmproxy defines the live routing policy consulted by the
// application master resource-request proxy, plus the policy
// implementations backing the built-in policy managers.
//
// The implementations here are intentionally small: they carry just enough
// routing behavior for managers to produce real, exercisable policies. The
// interesting logic of the federation layer is in how a policy is resolved
// and instantiated (package policies), not in these splits.
package amrmproxy

import (
	"errors"

	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/subcluster"
)

// Common policy errors that can be checked with errors.Is().
var (
	// ErrNoSubClusters is returned when a split has no sub-cluster to
	// route to.
	ErrNoSubClusters = errors.New("no sub-clusters available for routing")

	// ErrRejected is returned by the reject policy for every request.
	ErrRejected = errors.New("resource requests rejected by policy")
)

// ResourceRequest is one resource ask from an application master.
type ResourceRequest struct {
	// Priority orders requests within an allocation round.
	Priority int

	// Location is the requested placement: a node name, a rack name, or
	// "*" for anywhere.
	Location string

	// Containers is the number of containers requested.
	Containers int
}

// AnyLocation is the wildcard placement.
const AnyLocation = "*"

// Policy is the live object the resource-request proxy consults to decide
// how an application master's requests are distributed across sub-clusters.
//
// Policies satisfy policies.Policy: Reinitialize compares the incoming
// configuration with the one the policy was last initialized with and only
// rebuilds internal state when it changed.
//
// Implementations must be safe for concurrent use by multiple proxy
// goroutines.
type Policy interface {
	policies.Policy

	// SplitResourceRequests partitions the requests across sub-clusters.
	SplitResourceRequests(requests []ResourceRequest) (map[subcluster.ID][]ResourceRequest, error)

	// HomeSubCluster returns the home sub-cluster the policy was
	// initialized for.
	HomeSubCluster() subcluster.ID
}

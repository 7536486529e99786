// Package resolver maps cluster nodes and racks to the sub-cluster that
// owns them. The resolver is consulted by locality-aware routing policies
// when deciding where a resource request should be satisfied.
package resolver

import (
	"errors"

	"stratus-hq/federation/pkg/federation/subcluster"
)

// Common resolver errors that can be checked with errors.Is().
var (
	// ErrNodeNotFound is returned when a node does not appear in the
	// machine list.
	ErrNodeNotFound = errors.New("node not mapped to any sub-cluster")

	// ErrRackNotFound is returned when a rack does not appear in the
	// machine list.
	ErrRackNotFound = errors.New("rack not mapped to any sub-cluster")
)

// SubClusterResolver resolves nodes and racks to sub-cluster identifiers.
//
// Implementations must be safe for concurrent use: policies resolve
// locality from multiple request-handling goroutines at once.
type SubClusterResolver interface {
	// SubClusterForNode returns the sub-cluster that owns the given node.
	SubClusterForNode(node string) (subcluster.ID, error)

	// SubClusterForRack returns the sub-cluster that owns the given rack.
	SubClusterForRack(rack string) (subcluster.ID, error)

	// SubClusters returns all sub-clusters present in the mapping.
	SubClusters() []subcluster.ID

	// Load (re)loads the underlying mapping.
	Load() error
}

// Package store defines the federation state store: the distributed record
// of per-queue policy configurations and sub-cluster membership. Two
// backends are provided, an in-memory store for tests and single-process
// use, and a SQLite store for durable single-instance deployments.
package store

import (
	"context"
	"errors"
	"time"

	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/subcluster"
)

// Common store errors that can be checked with errors.Is().
var (
	// ErrSubClusterNotFound is returned when a sub-cluster is not
	// registered in the store.
	ErrSubClusterNotFound = errors.New("sub-cluster not registered")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("state store is closed")
)

// StoredPolicyConfiguration is a policy configuration as persisted by a
// state store, carrying a version identifier assigned at write time.
type StoredPolicyConfiguration struct {
	// Configuration is the stored policy configuration.
	Configuration *policies.PolicyConfiguration

	// Version uniquely identifies this write of the configuration.
	Version string

	// UpdatedAt is when this version was written.
	UpdatedAt time.Time
}

// StateStore is the persistence surface for federation state.
//
// Queue lookups that find nothing return an error wrapping
// policies.ErrPolicyConfigurationNotFound so resolution can treat absence
// and outage through one code path while keeping them distinguishable.
//
// Implementations must be safe for concurrent use.
type StateStore interface {
	// PolicyConfiguration returns the stored configuration for a queue.
	PolicyConfiguration(ctx context.Context, queue string) (*StoredPolicyConfiguration, error)

	// SetPolicyConfiguration writes a queue's policy configuration,
	// assigning and returning a fresh version.
	SetPolicyConfiguration(ctx context.Context, configuration *policies.PolicyConfiguration) (*StoredPolicyConfiguration, error)

	// PolicyConfigurations lists all stored policy configurations.
	PolicyConfigurations(ctx context.Context) ([]*StoredPolicyConfiguration, error)

	// RegisterSubCluster adds or replaces a sub-cluster membership record.
	RegisterSubCluster(ctx context.Context, info subcluster.Info) error

	// Heartbeat updates a registered sub-cluster's state and heartbeat
	// timestamp.
	Heartbeat(ctx context.Context, id subcluster.ID, state subcluster.State) error

	// SubClusters lists all registered sub-clusters.
	SubClusters(ctx context.Context) ([]subcluster.Info, error)

	// DeregisterSubCluster marks a sub-cluster as deregistered.
	DeregisterSubCluster(ctx context.Context, id subcluster.ID) error

	// Close releases backend resources.
	Close() error
}

// Package federation provides test doubles for the federation policy
// layer: a scriptable state store facade and a static sub-cluster
// resolver.
package federation

import (
	"fmt"
	"sync"

	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/resolver"
	"stratus-hq/federation/pkg/federation/subcluster"
)

// MockFacade is a scriptable policies.StateStoreFacade for tests.
type MockFacade struct {
	mu sync.Mutex

	// Configs maps queues to the configurations the facade serves.
	Configs map[string]*policies.PolicyConfiguration

	// QueueErrors maps queues to errors returned for their lookups.
	QueueErrors map[string]error

	// FailAll, when non-nil, fails every lookup. Simulates a store
	// outage.
	FailAll error

	// Resolver is returned by SubClusterResolver.
	Resolver resolver.SubClusterResolver

	// Queries records every queue asked for, in order.
	Queries []string
}

// NewMockFacade creates an empty mock facade with a single-sub-cluster
// resolver.
func NewMockFacade() *MockFacade {
	return &MockFacade{
		Configs:     make(map[string]*policies.PolicyConfiguration),
		QueueErrors: make(map[string]error),
		Resolver:    NewMockResolver("home-sc"),
	}
}

// SetConfig scripts a queue's stored configuration.
func (m *MockFacade) SetConfig(queue, managerType string, params []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Configs[queue] = policies.NewPolicyConfiguration(queue, managerType, params)
}

// PolicyConfiguration implements policies.StateStoreFacade.
func (m *MockFacade) PolicyConfiguration(queue string) (*policies.PolicyConfiguration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Queries = append(m.Queries, queue)

	if m.FailAll != nil {
		return nil, m.FailAll
	}
	if err, ok := m.QueueErrors[queue]; ok {
		return nil, err
	}
	if cfg, ok := m.Configs[queue]; ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("queue %q: %w", queue, policies.ErrPolicyConfigurationNotFound)
}

// SubClusterResolver implements policies.StateStoreFacade.
func (m *MockFacade) SubClusterResolver() resolver.SubClusterResolver {
	return m.Resolver
}

// QueriedQueues returns the queues asked for so far.
func (m *MockFacade) QueriedQueues() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	queries := make([]string, len(m.Queries))
	copy(queries, m.Queries)
	return queries
}

// MockResolver is a static resolver.SubClusterResolver for tests.
type MockResolver struct {
	Nodes map[string]subcluster.ID
	Racks map[string]subcluster.ID
	All   []subcluster.ID
}

// NewMockResolver creates a resolver knowing the given sub-clusters, with
// no node or rack mappings.
func NewMockResolver(subClusters ...subcluster.ID) *MockResolver {
	return &MockResolver{
		Nodes: make(map[string]subcluster.ID),
		Racks: make(map[string]subcluster.ID),
		All:   subClusters,
	}
}

// SubClusterForNode implements resolver.SubClusterResolver.
func (r *MockResolver) SubClusterForNode(node string) (subcluster.ID, error) {
	if sc, ok := r.Nodes[node]; ok {
		return sc, nil
	}
	return "", fmt.Errorf("node %q: %w", node, resolver.ErrNodeNotFound)
}

// SubClusterForRack implements resolver.SubClusterResolver.
func (r *MockResolver) SubClusterForRack(rack string) (subcluster.ID, error) {
	if sc, ok := r.Racks[rack]; ok {
		return sc, nil
	}
	return "", fmt.Errorf("rack %q: %w", rack, resolver.ErrRackNotFound)
}

// SubClusters implements resolver.SubClusterResolver.
func (r *MockResolver) SubClusters() []subcluster.ID {
	return r.All
}

// Load implements resolver.SubClusterResolver.
func (r *MockResolver) Load() error {
	return nil
}

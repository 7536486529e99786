package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/subcluster"
)

// MemoryStore is an in-memory StateStore. It is the default backend and the
// backend of choice for tests.
type MemoryStore struct {
	mu          sync.RWMutex
	configs     map[string]*StoredPolicyConfiguration
	subClusters map[subcluster.ID]subcluster.Info
	closed      bool
}

// NewMemoryStore creates an empty in-memory state store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		configs:     make(map[string]*StoredPolicyConfiguration),
		subClusters: make(map[subcluster.ID]subcluster.Info),
	}
}

// PolicyConfiguration returns the stored configuration for a queue.
func (s *MemoryStore) PolicyConfiguration(ctx context.Context, queue string) (*StoredPolicyConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	stored, ok := s.configs[queue]
	if !ok {
		return nil, fmt.Errorf("queue %q: %w", queue, policies.ErrPolicyConfigurationNotFound)
	}
	return stored, nil
}

// SetPolicyConfiguration writes a queue's policy configuration under a
// fresh version.
func (s *MemoryStore) SetPolicyConfiguration(ctx context.Context, configuration *policies.PolicyConfiguration) (*StoredPolicyConfiguration, error) {
	if configuration == nil {
		return nil, fmt.Errorf("configuration must not be nil")
	}
	if configuration.ManagerType() == "" {
		return nil, fmt.Errorf("configuration manager type must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	stored := &StoredPolicyConfiguration{
		Configuration: configuration,
		Version:       uuid.NewString(),
		UpdatedAt:     time.Now().UTC(),
	}
	s.configs[configuration.Queue()] = stored
	return stored, nil
}

// PolicyConfigurations lists all stored configurations sorted by queue.
func (s *MemoryStore) PolicyConfigurations(ctx context.Context) ([]*StoredPolicyConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	stored := make([]*StoredPolicyConfiguration, 0, len(s.configs))
	for _, cfg := range s.configs {
		stored = append(stored, cfg)
	}
	sort.Slice(stored, func(i, j int) bool {
		return stored[i].Configuration.Queue() < stored[j].Configuration.Queue()
	})
	return stored, nil
}

// RegisterSubCluster adds or replaces a sub-cluster membership record.
func (s *MemoryStore) RegisterSubCluster(ctx context.Context, info subcluster.Info) error {
	if info.ID.IsEmpty() {
		return fmt.Errorf("sub-cluster id must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if info.LastHeartbeat.IsZero() {
		info.LastHeartbeat = time.Now().UTC()
	}
	s.subClusters[info.ID] = info
	return nil
}

// Heartbeat updates a sub-cluster's state and heartbeat timestamp.
func (s *MemoryStore) Heartbeat(ctx context.Context, id subcluster.ID, state subcluster.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	info, ok := s.subClusters[id]
	if !ok {
		return fmt.Errorf("sub-cluster %q: %w", id, ErrSubClusterNotFound)
	}
	info.State = state
	info.LastHeartbeat = time.Now().UTC()
	s.subClusters[id] = info
	return nil
}

// SubClusters lists all registered sub-clusters sorted by identifier.
func (s *MemoryStore) SubClusters(ctx context.Context) ([]subcluster.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	infos := make([]subcluster.Info, 0, len(s.subClusters))
	for _, info := range s.subClusters {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// DeregisterSubCluster marks a sub-cluster as deregistered.
func (s *MemoryStore) DeregisterSubCluster(ctx context.Context, id subcluster.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	info, ok := s.subClusters[id]
	if !ok {
		return fmt.Errorf("sub-cluster %q: %w", id, ErrSubClusterNotFound)
	}
	info.State = subcluster.StateDeregistered
	s.subClusters[id] = info
	return nil
}

// Close marks the store closed. Subsequent operations fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

package amrmproxy

import (
	"fmt"
	"sync"

	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/subcluster"
)

// BroadcastPolicy copies every resource request to every known sub-cluster.
// Membership comes from the sub-cluster resolver's machine list, captured
// at initialization time.
type BroadcastPolicy struct {
	mu          sync.RWMutex
	lastConfig  *policies.PolicyConfiguration
	subClusters []subcluster.ID
	home        subcluster.ID
}

// NewBroadcastPolicy creates an uninitialized broadcast policy.
func NewBroadcastPolicy() *BroadcastPolicy {
	return &BroadcastPolicy{}
}

// Reinitialize captures sub-cluster membership from the context. A context
// carrying the same configuration as the previous call leaves the policy
// untouched.
func (p *BroadcastPolicy) Reinitialize(ctx *policies.PolicyInitializationContext) error {
	if ctx == nil {
		return fmt.Errorf("broadcast policy requires an initialization context")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastConfig != nil && p.lastConfig.Equal(ctx.Configuration()) {
		return nil
	}

	subClusters := ctx.SubClusterResolver().SubClusters()
	if len(subClusters) == 0 {
		return fmt.Errorf("broadcast policy: %w", ErrNoSubClusters)
	}

	p.subClusters = subClusters
	p.home = ctx.HomeSubCluster()
	p.lastConfig = ctx.Configuration()
	return nil
}

// SplitResourceRequests sends a copy of every request to every sub-cluster.
func (p *BroadcastPolicy) SplitResourceRequests(requests []ResourceRequest) (map[subcluster.ID][]ResourceRequest, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.subClusters) == 0 {
		return nil, ErrNoSubClusters
	}

	split := make(map[subcluster.ID][]ResourceRequest, len(p.subClusters))
	for _, sc := range p.subClusters {
		copied := make([]ResourceRequest, len(requests))
		copy(copied, requests)
		split[sc] = copied
	}
	return split, nil
}

// HomeSubCluster returns the home sub-cluster.
func (p *BroadcastPolicy) HomeSubCluster() subcluster.ID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.home
}

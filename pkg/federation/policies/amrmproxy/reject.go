package amrmproxy

import (
	"sync"

	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/subcluster"
)

// RejectPolicy refuses every resource request. It exists so a queue can be
// explicitly fenced off from all sub-clusters while applications drain.
type RejectPolicy struct {
	mu   sync.RWMutex
	home subcluster.ID
}

// NewRejectPolicy creates a reject policy.
func NewRejectPolicy() *RejectPolicy {
	return &RejectPolicy{}
}

// Reinitialize records the home sub-cluster. There is no configuration
// state to compare; reinitialization is always cheap.
func (p *RejectPolicy) Reinitialize(ctx *policies.PolicyInitializationContext) error {
	if ctx == nil {
		return ErrRejected
	}
	p.mu.Lock()
	p.home = ctx.HomeSubCluster()
	p.mu.Unlock()
	return nil
}

// SplitResourceRequests always fails with ErrRejected.
func (p *RejectPolicy) SplitResourceRequests(requests []ResourceRequest) (map[subcluster.ID][]ResourceRequest, error) {
	return nil, ErrRejected
}

// HomeSubCluster returns the home sub-cluster.
func (p *RejectPolicy) HomeSubCluster() subcluster.ID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.home
}

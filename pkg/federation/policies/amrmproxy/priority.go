package amrmproxy

import (
	"fmt"
	"sync"

	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/subcluster"
)

// PriorityPolicy routes every request to the single most-preferred
// sub-cluster: the highest-weighted entry of the configured weights, or the
// home sub-cluster when the configuration carries no weights payload.
type PriorityPolicy struct {
	mu         sync.RWMutex
	lastConfig *policies.PolicyConfiguration
	target     subcluster.ID
	home       subcluster.ID
}

// NewPriorityPolicy creates an uninitialized priority policy.
func NewPriorityPolicy() *PriorityPolicy {
	return &PriorityPolicy{}
}

// Reinitialize selects the preferred sub-cluster from the context
// configuration. An unchanged configuration is a no-op.
func (p *PriorityPolicy) Reinitialize(ctx *policies.PolicyInitializationContext) error {
	if ctx == nil {
		return fmt.Errorf("priority policy requires an initialization context")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastConfig != nil && p.lastConfig.Equal(ctx.Configuration()) {
		return nil
	}

	target := ctx.HomeSubCluster()
	if params := ctx.Configuration().Params(); len(params) > 0 {
		info, err := policies.ParseWeightedPolicyInfo(params)
		if err != nil {
			return fmt.Errorf("priority policy: %w", err)
		}
		var best subcluster.ID
		bestWeight := -1.0
		for sc, weight := range info.Weights {
			// Identifier order breaks weight ties for determinism.
			if weight > bestWeight || (weight == bestWeight && sc < best) {
				best = sc
				bestWeight = weight
			}
		}
		target = best
	}

	p.target = target
	p.home = ctx.HomeSubCluster()
	p.lastConfig = ctx.Configuration()
	return nil
}

// SplitResourceRequests routes everything to the preferred sub-cluster.
func (p *PriorityPolicy) SplitResourceRequests(requests []ResourceRequest) (map[subcluster.ID][]ResourceRequest, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.target.IsEmpty() {
		return nil, fmt.Errorf("priority policy not initialized: %w", ErrNoSubClusters)
	}

	copied := make([]ResourceRequest, len(requests))
	copy(copied, requests)
	return map[subcluster.ID][]ResourceRequest{p.target: copied}, nil
}

// HomeSubCluster returns the home sub-cluster.
func (p *PriorityPolicy) HomeSubCluster() subcluster.ID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.home
}

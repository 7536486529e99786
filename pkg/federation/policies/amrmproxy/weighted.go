package amrmproxy

import (
	"fmt"
	"sort"
	"sync"

	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/subcluster"
)

// WeightedPolicy distributes container counts across sub-clusters in
// proportion to configured weights. Node- and rack-located requests are
// pinned to the owning sub-cluster via the resolver; wildcard requests are
// split by weight.
type WeightedPolicy struct {
	mu         sync.RWMutex
	lastConfig *policies.PolicyConfiguration
	weights    map[subcluster.ID]float64
	ordered    []subcluster.ID // positive-weight sub-clusters, stable order
	resolver   interface {
		SubClusterForNode(node string) (subcluster.ID, error)
		SubClusterForRack(rack string) (subcluster.ID, error)
	}
	home subcluster.ID
}

// NewWeightedPolicy creates an uninitialized weighted policy.
func NewWeightedPolicy() *WeightedPolicy {
	return &WeightedPolicy{}
}

// Reinitialize parses the weights payload from the context configuration.
// An unchanged configuration is a no-op, preserving existing routing state.
func (p *WeightedPolicy) Reinitialize(ctx *policies.PolicyInitializationContext) error {
	if ctx == nil {
		return fmt.Errorf("weighted policy requires an initialization context")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastConfig != nil && p.lastConfig.Equal(ctx.Configuration()) {
		return nil
	}

	info, err := policies.ParseWeightedPolicyInfo(ctx.Configuration().Params())
	if err != nil {
		return fmt.Errorf("weighted policy: %w", err)
	}

	ordered := make([]subcluster.ID, 0, len(info.Weights))
	for sc, weight := range info.Weights {
		if weight > 0 {
			ordered = append(ordered, sc)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	p.weights = info.Weights
	p.ordered = ordered
	p.resolver = ctx.SubClusterResolver()
	p.home = ctx.HomeSubCluster()
	p.lastConfig = ctx.Configuration()
	return nil
}

// SplitResourceRequests partitions requests across the weighted
// sub-clusters. Located requests follow the machine list; unresolvable
// locations degrade to the wildcard split rather than failing the round.
func (p *WeightedPolicy) SplitResourceRequests(requests []ResourceRequest) (map[subcluster.ID][]ResourceRequest, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.ordered) == 0 {
		return nil, fmt.Errorf("weighted policy not initialized: %w", ErrNoSubClusters)
	}

	split := make(map[subcluster.ID][]ResourceRequest)
	for _, req := range requests {
		if req.Location != AnyLocation && req.Location != "" {
			if sc, ok := p.resolveLocation(req.Location); ok {
				split[sc] = append(split[sc], req)
				continue
			}
		}
		p.splitByWeight(req, split)
	}
	return split, nil
}

// resolveLocation pins a node or rack location to its owning sub-cluster.
func (p *WeightedPolicy) resolveLocation(location string) (subcluster.ID, bool) {
	if p.resolver == nil {
		return "", false
	}
	if sc, err := p.resolver.SubClusterForNode(location); err == nil {
		return sc, true
	}
	if sc, err := p.resolver.SubClusterForRack(location); err == nil {
		return sc, true
	}
	return "", false
}

// splitByWeight divides a request's containers proportionally across the
// positive-weight sub-clusters, assigning remainder containers to the
// heaviest sub-clusters first so totals are preserved exactly.
func (p *WeightedPolicy) splitByWeight(req ResourceRequest, split map[subcluster.ID][]ResourceRequest) {
	var total float64
	for _, sc := range p.ordered {
		total += p.weights[sc]
	}

	assigned := 0
	shares := make(map[subcluster.ID]int, len(p.ordered))
	for _, sc := range p.ordered {
		share := int(float64(req.Containers) * p.weights[sc] / total)
		shares[sc] = share
		assigned += share
	}

	// Distribute rounding remainder by descending weight, identifier order
	// breaking ties for determinism.
	remainder := req.Containers - assigned
	byWeight := make([]subcluster.ID, len(p.ordered))
	copy(byWeight, p.ordered)
	sort.SliceStable(byWeight, func(i, j int) bool {
		return p.weights[byWeight[i]] > p.weights[byWeight[j]]
	})
	for i := 0; i < remainder; i++ {
		shares[byWeight[i%len(byWeight)]]++
	}

	for _, sc := range p.ordered {
		if shares[sc] == 0 {
			continue
		}
		part := req
		part.Containers = shares[sc]
		split[sc] = append(split[sc], part)
	}
}

// HomeSubCluster returns the home sub-cluster.
func (p *WeightedPolicy) HomeSubCluster() subcluster.ID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.home
}

// Package facade provides the caching front to the federation state store.
// It is the concrete implementation of the store capability consumed by
// policy resolution: per-queue policy configuration lookups with a TTL
// cache, access to the sub-cluster resolver, and sub-cluster membership
// queries.
package facade

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/resolver"
	"stratus-hq/federation/pkg/federation/store"
	"stratus-hq/federation/pkg/federation/subcluster"
)

// Config contains facade configuration.
type Config struct {
	// CacheTTL is how long cached policy configurations stay valid.
	// Zero disables expiry.
	CacheTTL time.Duration

	// CacheMaxEntries bounds the cache. Zero means unlimited.
	CacheMaxEntries int

	// RefreshSchedule is an optional cron expression; when set, the cache
	// is flushed on this schedule so hot queues pick up store-side policy
	// changes without waiting out the TTL.
	RefreshSchedule string

	// QueryTimeout bounds each store query issued by the facade.
	// Default: 5 seconds.
	QueryTimeout time.Duration
}

// Facade fronts a StateStore with caching. It satisfies
// policies.StateStoreFacade.
//
// The facade may serve a configuration up to CacheTTL stale; callers that
// just wrote a configuration and need to read it back immediately should
// use InvalidateCache first.
type Facade struct {
	store    store.StateStore
	resolver resolver.SubClusterResolver
	cache    *configCache
	timeout  time.Duration
	logger   *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// New creates a facade over the given store and resolver.
func New(st store.StateStore, scResolver resolver.SubClusterResolver, cfg Config) (*Facade, error) {
	if st == nil {
		return nil, fmt.Errorf("facade requires a state store")
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 5 * time.Second
	}

	f := &Facade{
		store:    st,
		resolver: scResolver,
		cache:    newConfigCache(cfg.CacheTTL, cfg.CacheMaxEntries),
		timeout:  cfg.QueryTimeout,
		logger:   slog.Default().With("component", "federation.facade"),
	}

	if cfg.RefreshSchedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.RefreshSchedule, f.scheduledFlush); err != nil {
			return nil, fmt.Errorf("invalid cache refresh schedule %q: %w", cfg.RefreshSchedule, err)
		}
		c.Start()
		f.mu.Lock()
		f.cron = c
		f.mu.Unlock()
		f.logger.Info("cache refresh scheduled", "schedule", cfg.RefreshSchedule)
	}

	return f, nil
}

// PolicyConfiguration returns the policy configuration stored for a queue,
// serving from cache when fresh. Absence is reported as an error wrapping
// policies.ErrPolicyConfigurationNotFound; absence is not cached, so a
// freshly configured queue is visible on the next lookup.
func (f *Facade) PolicyConfiguration(queue string) (*policies.PolicyConfiguration, error) {
	if cached, ok := f.cache.get(queue); ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	stored, err := f.store.PolicyConfiguration(ctx, queue)
	if err != nil {
		return nil, err
	}

	f.cache.set(queue, stored.Configuration)
	return stored.Configuration, nil
}

// SetPolicyConfiguration writes a queue's policy configuration through to
// the store and refreshes the cache entry.
func (f *Facade) SetPolicyConfiguration(ctx context.Context, configuration *policies.PolicyConfiguration) error {
	stored, err := f.store.SetPolicyConfiguration(ctx, configuration)
	if err != nil {
		return err
	}
	f.cache.set(configuration.Queue(), stored.Configuration)
	return nil
}

// SubClusterResolver returns the sub-cluster resolver handle.
func (f *Facade) SubClusterResolver() resolver.SubClusterResolver {
	return f.resolver
}

// SubClusters lists all registered sub-clusters.
func (f *Facade) SubClusters(ctx context.Context) ([]subcluster.Info, error) {
	return f.store.SubClusters(ctx)
}

// ActiveSubClusters lists sub-clusters eligible for routing.
func (f *Facade) ActiveSubClusters(ctx context.Context) ([]subcluster.Info, error) {
	infos, err := f.store.SubClusters(ctx)
	if err != nil {
		return nil, err
	}
	return subcluster.Active(infos), nil
}

// InvalidateCache drops one queue's cached configuration.
func (f *Facade) InvalidateCache(queue string) {
	f.cache.invalidate(queue)
}

// FlushCache drops all cached configurations.
func (f *Facade) FlushCache() {
	f.cache.flush()
}

// CacheSize returns the number of cached configurations.
func (f *Facade) CacheSize() int {
	return f.cache.size()
}

func (f *Facade) scheduledFlush() {
	f.cache.flush()
	f.logger.Debug("policy configuration cache flushed on schedule")
}

// Close stops the background refresh schedule, if any. The underlying
// store is not closed; the facade does not own it.
func (f *Facade) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cron != nil {
		f.cron.Stop()
		f.cron = nil
	}
	return nil
}

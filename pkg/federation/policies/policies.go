package policies

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"stratus-hq/federation/pkg/config"
	"stratus-hq/federation/pkg/federation/subcluster"
)

var logger = slog.Default().With("component", "federation.policies")

// LoadPolicyConfiguration resolves the policy configuration governing a
// queue through a three-tier fallback chain:
//
//  1. the state store, scoped to the requested queue;
//  2. the state store, scoped to the default queue key;
//  3. local static configuration, synthesized under the default queue key.
//
// Store failures, including "no such queue", are logged and treated as
// absence; they never fail the resolution. Tier 3 is unconditional, so a
// configuration is always returned and its manager type is always
// non-empty. The only error case is a nil local configuration, which is a
// fatal precondition violation rather than a resolution miss.
//
// The returned configuration's queue reflects the tier the configuration
// was found at and may differ from the requested queue.
func LoadPolicyConfiguration(queue string, conf *config.Config, facade StateStoreFacade) (*PolicyConfiguration, error) {
	configuration, event, err := loadPolicyConfiguration(queue, conf, facade)
	if err != nil {
		return nil, err
	}
	notifyResolution(event)
	return configuration, nil
}

func loadPolicyConfiguration(queue string, conf *config.Config, facade StateStoreFacade) (*PolicyConfiguration, ResolutionEvent, error) {
	start := time.Now()
	event := ResolutionEvent{RequestedQueue: queue}

	if conf == nil {
		return nil, event, fmt.Errorf("cannot resolve policy configuration for queue %q: %w", queue, ErrNilLocalConfiguration)
	}

	// Tier 1: store, scoped to the requested queue. An empty queue is
	// immediately absent and skips the store entirely.
	var configuration *PolicyConfiguration
	if queue != "" {
		configuration = queryStore(queue, facade, &event)
	}
	tier := TierQueue

	// Tier 2: store, scoped to the default queue key.
	if configuration == nil {
		logger.Info("no policy configured for queue in state store, falling back to default queue",
			"queue", queue,
			"default_queue", config.DefaultPolicyQueueKey,
		)
		queue = config.DefaultPolicyQueueKey
		configuration = queryStore(queue, facade, &event)
		tier = TierDefaultQueue
	}

	// Tier 3: synthesize from local static configuration.
	if configuration == nil {
		logger.Info("no policy configured for default queue in state store, falling back to local configuration",
			"default_queue", queue,
		)
		managerType := conf.Federation.PolicyManagerType()
		params := []byte(conf.Federation.PolicyManagerParamsOrDefault())
		configuration = NewPolicyConfiguration(queue, managerType, params)
		tier = TierLocalConfig
	}

	event.ResolvedQueue = configuration.Queue()
	event.ManagerType = configuration.ManagerType()
	event.Tier = tier
	event.Duration = time.Since(start)
	return configuration, event, nil
}

// queryStore asks the facade for a queue's policy configuration, treating
// every failure as absence. Misses and operational failures stay
// distinguishable in the event counters even though both fall through.
func queryStore(queue string, facade StateStoreFacade, event *ResolutionEvent) *PolicyConfiguration {
	if facade == nil {
		event.StoreFailures++
		logger.Warn("no state store facade available, treating queue as unconfigured", "queue", queue)
		return nil
	}

	configuration, err := facade.PolicyConfiguration(queue)
	if err != nil {
		if errors.Is(err, ErrPolicyConfigurationNotFound) {
			event.StoreMisses++
		} else {
			event.StoreFailures++
		}
		logger.Warn("failed to get policy configuration from state store",
			"queue", queue,
			"error", err,
		)
		return nil
	}
	return configuration
}

// InstantiatePolicyManager produces a policy manager for the given type
// name using the factory registry. An unknown name, a factory that fails to
// construct a value, and a constructed value that does not satisfy the
// PolicyManager capability all surface as PolicyInitializationError, with
// the underlying cause preserved in the error chain.
func InstantiatePolicyManager(managerType string) (PolicyManager, error) {
	factory, ok := lookupFactory(managerType)
	if !ok {
		return nil, &PolicyInitializationError{
			ManagerType: managerType,
			Cause:       fmt.Errorf("%w: %q (registered: %v)", ErrUnknownManagerType, managerType, RegisteredTypes()),
		}
	}

	value, err := construct(factory)
	if err != nil {
		return nil, &PolicyInitializationError{
			ManagerType: managerType,
			Cause:       fmt.Errorf("%w: %v", ErrManagerConstruction, err),
		}
	}
	if value == nil {
		return nil, &PolicyInitializationError{
			ManagerType: managerType,
			Cause:       fmt.Errorf("%w: factory returned nil", ErrManagerConstruction),
		}
	}

	manager, ok := value.(PolicyManager)
	if !ok {
		return nil, &PolicyInitializationError{
			ManagerType: managerType,
			Cause:       fmt.Errorf("%w: factory produced %T", ErrManagerContract, value),
		}
	}
	return manager, nil
}

// construct runs a factory, converting a panic into an error so a broken
// registration cannot take down the resolving caller.
func construct(factory func() any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("factory panicked: %v", r)
		}
	}()
	return factory(), nil
}

// LoadAMRMPolicy resolves the policy configuration for a queue, instantiates
// the policy manager it names, and asks the manager for the current live
// policy for the application master resource-request proxy.
//
// oldPolicy is the previous policy instance, or nil on first use. It is
// always passed through to the manager; the manager performs its own
// configuration comparison and only rebuilds policy state when the
// configuration actually changed.
//
// The manager's queue association is set to the resolved configuration's
// queue, which after fallback may differ from the requested queue.
func LoadAMRMPolicy(queue string, oldPolicy Policy, conf *config.Config, facade StateStoreFacade, home subcluster.ID) (Policy, error) {
	start := time.Now()

	configuration, resolution, err := loadPolicyConfiguration(queue, conf, facade)
	if err != nil {
		return nil, err
	}
	notifyResolution(resolution)

	finish := func(p Policy, err error) (Policy, error) {
		notifyLoad(LoadEvent{
			Resolution: resolution,
			Err:        err,
			Duration:   time.Since(start),
		})
		return p, err
	}

	context, err := NewPolicyInitializationContext(configuration, facade, home)
	if err != nil {
		return finish(nil, &PolicyInitializationError{
			ManagerType: configuration.ManagerType(),
			Cause:       err,
		})
	}

	logger.Info("creating policy manager",
		"manager_type", configuration.ManagerType(),
		"queue", configuration.Queue(),
	)
	manager, err := InstantiatePolicyManager(configuration.ManagerType())
	if err != nil {
		return finish(nil, err)
	}

	// Set queue and let the manager reinitialize lazily: implementations
	// compare the configuration content and reuse oldPolicy if unchanged.
	manager.SetQueue(configuration.Queue())
	policy, err := manager.AMRMPolicy(context, oldPolicy)
	if err != nil {
		if errors.Is(err, ErrPolicyInitialization) {
			return finish(nil, err)
		}
		return finish(nil, &PolicyInitializationError{
			ManagerType: configuration.ManagerType(),
			Cause:       err,
		})
	}
	if policy == nil {
		return finish(nil, &PolicyInitializationError{
			ManagerType: configuration.ManagerType(),
			Cause:       fmt.Errorf("%w: manager returned no policy", ErrManagerConstruction),
		})
	}
	return finish(policy, nil)
}

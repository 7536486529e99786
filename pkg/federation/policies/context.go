package policies

import (
	"fmt"

	"stratus-hq/federation/pkg/federation/resolver"
	"stratus-hq/federation/pkg/federation/subcluster"
)

// PolicyInitializationContext packages a resolved policy configuration with
// the collaborator handles a policy manager needs: the sub-cluster resolver,
// the state store facade, and the home sub-cluster identity.
//
// A context is built fresh per resolution, is immutable, and is intended for
// single use by the one manager invocation it is passed to. It is not shared
// or cached by this package.
type PolicyInitializationContext struct {
	configuration      *PolicyConfiguration
	subClusterResolver resolver.SubClusterResolver
	stateStoreFacade   StateStoreFacade
	homeSubCluster     subcluster.ID
}

// NewPolicyInitializationContext builds an initialization context from a
// resolved configuration and a state store facade. The sub-cluster resolver
// is looked up from the facade; a nil facade or a facade without a resolver
// is a precondition violation.
func NewPolicyInitializationContext(configuration *PolicyConfiguration, facade StateStoreFacade, home subcluster.ID) (*PolicyInitializationContext, error) {
	if configuration == nil {
		return nil, fmt.Errorf("policy initialization context requires a configuration")
	}
	if facade == nil {
		return nil, fmt.Errorf("policy initialization context requires a state store facade")
	}
	scResolver := facade.SubClusterResolver()
	if scResolver == nil {
		return nil, fmt.Errorf("state store facade returned no sub-cluster resolver")
	}
	if home.IsEmpty() {
		return nil, fmt.Errorf("policy initialization context requires a home sub-cluster")
	}

	return &PolicyInitializationContext{
		configuration:      configuration,
		subClusterResolver: scResolver,
		stateStoreFacade:   facade,
		homeSubCluster:     home,
	}, nil
}

// Configuration returns the resolved policy configuration.
func (c *PolicyInitializationContext) Configuration() *PolicyConfiguration {
	return c.configuration
}

// SubClusterResolver returns the sub-cluster resolver handle.
func (c *PolicyInitializationContext) SubClusterResolver() resolver.SubClusterResolver {
	return c.subClusterResolver
}

// StateStoreFacade returns the state store facade handle.
func (c *PolicyInitializationContext) StateStoreFacade() StateStoreFacade {
	return c.stateStoreFacade
}

// HomeSubCluster returns the identity of the home sub-cluster.
func (c *PolicyInitializationContext) HomeSubCluster() subcluster.ID {
	return c.homeSubCluster
}

/*
Package policies resolves which routing policy governs a queue in a
federated cluster and turns it into a live, ready-to-use policy object.

Resolution reconciles three partially failing configuration sources into
exactly one authoritative PolicyConfiguration, in strict order:

 1. the distributed state store, scoped to the requested queue;
 2. the same store, scoped to the cluster-wide default queue key;
 3. local static configuration, which always succeeds.

A store query that errors or finds nothing is logged and treated as
absence, never as a fatal failure. The resolved configuration names a
policy manager type; InstantiatePolicyManager produces the manager from an
explicit name-to-factory registry populated at process initialization, and
LoadAMRMPolicy wires the pieces together:

	policy, err := policies.LoadAMRMPolicy(queue, oldPolicy, conf, facade, home)
	if err != nil {
		// Always a PolicyInitializationError; resolution itself cannot
		// fail by absence.
	}

Callers retain the returned policy and pass it back as oldPolicy on the
next call; the selected manager compares configurations and reuses the
previous instance when nothing changed.

The package holds no state across calls beyond the process-wide factory
registry and observer list; LoadAMRMPolicy and LoadPolicyConfiguration are
safe to call concurrently from multiple goroutines.
*/
package policies

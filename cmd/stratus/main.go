// Stratus is the operator CLI for the Stratus federation policy layer.
//
// It resolves which routing policy governs a queue, manages stored policy
// configurations, and inspects sub-cluster membership and the resolution
// audit log.
//
// Usage:
//
//	# Resolve the policy configuration governing a queue
//	stratus resolve root.analytics
//
//	# Store a policy configuration for a queue
//	stratus policy set --queue root.analytics --manager WeightedPolicyManager --params '{"weights":{"sc-1":1}}'
//
//	# List registered sub-clusters
//	stratus subclusters list
//
//	# Show recent policy loads from the audit log
//	stratus audit recent --limit 20
//
//	# Show version information
//	stratus version
package main

func main() {
	Execute()
}

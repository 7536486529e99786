package policies

import "bytes"

// PolicyConfiguration identifies which policy manager type governs a queue
// together with an opaque, manager-specific parameter payload (for example
// serialized sub-cluster weights). It is immutable once constructed.
//
// The queue recorded here is the queue at which the configuration was
// actually found during resolution, which after fallback may differ from
// the queue originally asked for.
type PolicyConfiguration struct {
	queue       string
	managerType string
	params      []byte
}

// NewPolicyConfiguration constructs an immutable policy configuration.
// The params slice is copied so later mutation by the caller cannot leak in.
func NewPolicyConfiguration(queue, managerType string, params []byte) *PolicyConfiguration {
	p := make([]byte, len(params))
	copy(p, params)
	return &PolicyConfiguration{
		queue:       queue,
		managerType: managerType,
		params:      p,
	}
}

// Queue returns the queue the configuration was found at.
func (c *PolicyConfiguration) Queue() string {
	return c.queue
}

// ManagerType returns the policy manager type name governing the queue.
func (c *PolicyConfiguration) ManagerType() string {
	return c.managerType
}

// Params returns a copy of the opaque parameter payload. Its byte-level
// encoding is defined by the concrete policy manager, not by this package.
func (c *PolicyConfiguration) Params() []byte {
	p := make([]byte, len(c.params))
	copy(p, c.params)
	return p
}

// Equal reports whether two configurations are identical in queue, manager
// type, and parameter payload. Policy managers use this to decide whether a
// previous policy instance can be kept as-is.
func (c *PolicyConfiguration) Equal(other *PolicyConfiguration) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.queue == other.queue &&
		c.managerType == other.managerType &&
		bytes.Equal(c.params, other.params)
}

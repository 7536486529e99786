// Package subcluster defines identifiers and membership records for the
// autonomous cluster members that make up a federation.
package subcluster

import (
	"fmt"
	"time"
)

// ID uniquely identifies one sub-cluster within the federation.
// IDs are opaque strings chosen at sub-cluster registration time
// (e.g., "us-east-1", "dc2-batch").
type ID string

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// IsEmpty reports whether the identifier is unset.
func (id ID) IsEmpty() bool {
	return id == ""
}

// State describes the lifecycle state of a sub-cluster as last reported
// to the federation state store.
type State int

const (
	// StateNew is a sub-cluster that registered but has not yet heartbeated.
	StateNew State = iota

	// StateRunning is a healthy, schedulable sub-cluster.
	StateRunning

	// StateUnhealthy is a sub-cluster that reported a degraded condition.
	StateUnhealthy

	// StateLost is a sub-cluster whose heartbeats have stopped arriving.
	StateLost

	// StateDeregistered is a sub-cluster that was explicitly removed.
	StateDeregistered
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateRunning:
		return "running"
	case StateUnhealthy:
		return "unhealthy"
	case StateLost:
		return "lost"
	case StateDeregistered:
		return "deregistered"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseState converts a state name back into a State.
// Unknown names map to StateLost, the most conservative interpretation.
func ParseState(name string) State {
	switch name {
	case "new":
		return StateNew
	case "running":
		return StateRunning
	case "unhealthy":
		return StateUnhealthy
	case "deregistered":
		return StateDeregistered
	default:
		return StateLost
	}
}

// IsActive reports whether a sub-cluster in this state should be
// considered for request routing.
func (s State) IsActive() bool {
	return s == StateRunning
}

// Info is the membership record for one sub-cluster.
type Info struct {
	// ID is the sub-cluster identifier.
	ID ID

	// State is the last reported lifecycle state.
	State State

	// RMAddress is the address of the sub-cluster's resource manager.
	RMAddress string

	// Capability is an opaque, sub-cluster-reported capacity descriptor.
	Capability string

	// LastHeartbeat is when the sub-cluster last reported in.
	LastHeartbeat time.Time
}

// Active filters a membership list down to sub-clusters eligible for routing.
func Active(infos []Info) []Info {
	active := make([]Info, 0, len(infos))
	for _, info := range infos {
		if info.State.IsActive() {
			active = append(active, info)
		}
	}
	return active
}

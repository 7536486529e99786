package policies

import (
	"sync"
	"time"
)

// Tier identifies which fallback tier produced a policy configuration.
type Tier int

const (
	// TierQueue is a configuration found in the store under the requested
	// queue.
	TierQueue Tier = iota

	// TierDefaultQueue is a configuration found in the store under the
	// default queue key.
	TierDefaultQueue

	// TierLocalConfig is a configuration synthesized from local static
	// configuration.
	TierLocalConfig
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierQueue:
		return "queue"
	case TierDefaultQueue:
		return "default-queue"
	case TierLocalConfig:
		return "local-config"
	default:
		return "unknown"
	}
}

// ResolutionEvent describes one completed configuration resolution.
//
// Resolution deliberately treats store outages and genuine configuration
// absence identically for control flow, so this event is the place where
// the two remain distinguishable: StoreMisses counts not-found responses,
// StoreFailures counts everything else.
type ResolutionEvent struct {
	// RequestedQueue is the queue resolution was asked for ("" when the
	// caller had none).
	RequestedQueue string

	// ResolvedQueue is the queue the configuration was found at.
	ResolvedQueue string

	// ManagerType is the resolved policy manager type.
	ManagerType string

	// Tier is the fallback tier that produced the configuration.
	Tier Tier

	// StoreMisses counts store queries that answered "no such queue".
	StoreMisses int

	// StoreFailures counts store queries that failed operationally.
	StoreFailures int

	// Duration is the wall time the resolution took.
	Duration time.Duration
}

// LoadEvent describes one completed attempt to load a live policy.
type LoadEvent struct {
	// Resolution describes how the underlying configuration was resolved.
	Resolution ResolutionEvent

	// Err is the failure, if the load did not produce a policy.
	Err error

	// Duration is the wall time the full load took.
	Duration time.Duration
}

// Observer receives resolution and load events. Implementations must be
// safe for concurrent use; events are delivered synchronously on the
// resolving goroutine.
type Observer interface {
	// ObserveResolution is called after every configuration resolution.
	ObserveResolution(event ResolutionEvent)

	// ObserveLoad is called after every attempt to load a live policy.
	ObserveLoad(event LoadEvent)
}

var observers = struct {
	mu   sync.RWMutex
	list []Observer
}{}

// RegisterObserver adds an observer for resolution and load events.
// Observers cannot be removed; register once at process initialization.
func RegisterObserver(o Observer) {
	if o == nil {
		return
	}
	observers.mu.Lock()
	defer observers.mu.Unlock()
	observers.list = append(observers.list, o)
}

func notifyResolution(event ResolutionEvent) {
	observers.mu.RLock()
	defer observers.mu.RUnlock()
	for _, o := range observers.list {
		o.ObserveResolution(event)
	}
}

func notifyLoad(event LoadEvent) {
	observers.mu.RLock()
	defer observers.mu.RUnlock()
	for _, o := range observers.list {
		o.ObserveLoad(event)
	}
}

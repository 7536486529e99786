package policies

import (
	"fmt"
	"sort"
	"sync"
)

// The registry maps policy manager type names to factory functions. A
// statically typed runtime cannot load implementations by name the way a
// reflective one can, so every known manager type registers a factory at
// process initialization (typically from an init function in its package),
// and unknown names fail instantiation instead of attempting open-ended
// dynamic loading.
//
// Factories return any rather than PolicyManager: the capability check
// happens at instantiation time, mirroring a dynamic cast, so a
// registration that produces the wrong type surfaces as a
// PolicyInitializationError rather than a registration-time panic in an
// unrelated package's init.
var registry = struct {
	mu        sync.RWMutex
	factories map[string]func() any
}{
	factories: make(map[string]func() any),
}

// Register adds a policy manager factory under the given type name,
// replacing any previous registration. It panics on an empty name or nil
// factory, both of which are programming errors.
func Register(managerType string, factory func() any) {
	if managerType == "" {
		panic("policies: Register called with empty manager type")
	}
	if factory == nil {
		panic(fmt.Sprintf("policies: Register called with nil factory for %q", managerType))
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.factories[managerType] = factory
}

// Deregister removes a registration. Primarily used by tests.
func Deregister(managerType string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.factories, managerType)
}

// RegisteredTypes returns the sorted list of registered manager type names.
func RegisteredTypes() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	types := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// lookupFactory returns the factory registered under the given name.
func lookupFactory(managerType string) (func() any, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	factory, ok := registry.factories[managerType]
	return factory, ok
}

// Package providers holds the inventory backends that feed prefixes and
// address overrides into zone generation, and the registry that selects
// one by name.
package providers

import (
	"fmt"
	"slices"
	"sync"

	"nathanbeddoewebdev/ptrgen/internal/config"
	"nathanbeddoewebdev/ptrgen/internal/domain"
	"nathanbeddoewebdev/ptrgen/internal/services/auth"
	"nathanbeddoewebdev/ptrgen/internal/util"
)

// Factory builds an inventory Source from the effective settings, using the
// store to retrieve credentials.
type Factory func(settings config.Settings, store auth.Store) (domain.Source, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds a source factory to the inventory registry.
// It panics on empty name, nil factory, or duplicate registration
// (programmer errors detected at startup).
func Register(name string, factory Factory) {
	normalizedName := util.NormalizeKey(name)
	if normalizedName == "" {
		panic("inventory/providers: empty provider name")
	}
	if factory == nil {
		panic("inventory/providers: nil factory")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[normalizedName]; exists {
		panic(fmt.Sprintf("inventory/providers: provider %q already registered", name))
	}

	registry[normalizedName] = factory
}

// Get constructs the Source registered under name.
func Get(name string, settings config.Settings, store auth.Store) (domain.Source, error) {
	normalizedName := util.NormalizeKey(name)
	mu.RLock()
	factory, ok := registry[normalizedName]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("inventory/providers: unknown provider %q (registered: %v)", name, List())
	}

	return factory(settings, store)
}

// List returns the names of all registered providers, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RegisterDefaults registers every built-in provider.
func RegisterDefaults() {
	RegisterNetBox()
	RegisterFile()
}

// Reset clears the provider registry. Intended for use in tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = map[string]Factory{}
}

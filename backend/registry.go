package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/vg"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for backend selection (first that opens wins).
	backendPriority = []string{BackendWGPU, BackendSoftware}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Open creates a backend instance by name.
func Open(name string, width, height int) (vg.Backend, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	b, err := factory(width, height)
	if err != nil {
		return nil, fmt.Errorf("backend: open %q: %w", name, err)
	}
	return b, nil
}

// Default opens the best available backend based on priority, then any
// other registered backend. Failures are logged and skipped.
func Default(width, height int) (vg.Backend, error) {
	tried := make(map[string]bool)
	var errs []error

	for _, name := range append(append([]string(nil), backendPriority...), Available()...) {
		if tried[name] || !IsRegistered(name) {
			continue
		}
		tried[name] = true

		b, err := Open(name, width, height)
		if err == nil {
			vg.Logger().Info("backend: selected", "name", name)
			return b, nil
		}
		vg.Logger().Warn("backend: open failed", "name", name, "err", err)
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil, ErrBackendNotAvailable
	}
	return nil, fmt.Errorf("%w: %w", ErrBackendNotAvailable, errors.Join(errs...))
}

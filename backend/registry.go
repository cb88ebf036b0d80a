package backend

import (
	"sync"

	"github.com/colonwq/fractalpad"
)

// SurfaceFactory creates a new surface instance.
type SurfaceFactory func() fractalpad.Surface

// registry holds registered surfaces.
var (
	registryMu sync.RWMutex
	surfaces   = make(map[string]SurfaceFactory)
	// Priority order for surface selection (first available wins).
	// GPU > Image (GPU presents to a real device, Image is fallback).
	surfacePriority = []string{SurfaceGPU, SurfaceImage}
)

// Register registers a surface factory with the given name.
// This is typically called from init() functions in surface packages.
// If a surface with the same name is already registered, it will be replaced.
func Register(name string, factory SurfaceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	surfaces[name] = factory
}

// Unregister removes a surface from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(surfaces, name)
}

// Available returns a list of registered surface names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(surfaces))
	for name := range surfaces {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a surface with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := surfaces[name]
	return ok
}

// Get returns a surface instance by name.
// Returns nil if the surface is not registered.
func Get(name string) fractalpad.Surface {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := surfaces[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available surface based on priority.
// Returns nil if no surfaces are registered.
func Default() fractalpad.Surface {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range surfacePriority {
		if factory, ok := surfaces[name]; ok {
			s := factory()
			if s != nil {
				return s
			}
		}
	}

	// Fallback: return first available
	for _, factory := range surfaces {
		if s := factory(); s != nil {
			return s
		}
	}

	return nil
}

// MustDefault returns the default surface or panics.
func MustDefault() fractalpad.Surface {
	s := Default()
	if s == nil {
		panic("backend: no surface available")
	}
	return s
}

// InitDefault returns the default surface with Init already called.
func InitDefault() (fractalpad.Surface, error) {
	s := Default()
	if s == nil {
		return nil, ErrBackendNotAvailable
	}

	if err := s.Init(); err != nil {
		return nil, err
	}

	return s, nil
}

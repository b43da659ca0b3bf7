package hal

import "sync"

var (
	// backendsMu protects backends.
	backendsMu sync.RWMutex

	// backends stores registered backend implementations.
	backends = make(map[BackendKind]Backend)
)

// RegisterBackend registers a backend implementation. This is typically
// called from init() functions in hal/vulkan and hal/metal.
func RegisterBackend(backend Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[backend.Kind()] = backend
}

// GetBackend returns a registered backend by kind.
// Returns (nil, false) if the backend is not registered.
func GetBackend(kind BackendKind) (Backend, bool) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	b, ok := backends[kind]
	return b, ok
}

// AvailableBackends returns all registered backend kinds. The order is
// non-deterministic.
func AvailableBackends() []BackendKind {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	result := make([]BackendKind, 0, len(backends))
	for k := range backends {
		result = append(result, k)
	}
	return result
}

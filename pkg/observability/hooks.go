// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about front construction, layer
// generation, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the meshing core dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetMeshingHooks(&myMeshingHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Meshing().OnLayerStart(i, height)
package observability

import "sync"

// =============================================================================
// Meshing Hooks
// =============================================================================

// MeshingHooks receives events from the advancing-front core.
type MeshingHooks interface {
	// OnFrontInit records a freshly initialized and refined front.
	OnFrontInit(edgeCount int)

	// OnLayerStart records the beginning of a quad layer generation.
	OnLayerStart(layer int, height float64)

	// OnLayerComplete records the end of a quad layer generation.
	OnLayerComplete(layer int, quadCount int, ok bool)

	// OnElementCommit records one committed element ("quad" or "triangle").
	OnElementCommit(kind string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopMeshingHooks is a no-op implementation of MeshingHooks.
type NoopMeshingHooks struct{}

func (NoopMeshingHooks) OnFrontInit(int)               {}
func (NoopMeshingHooks) OnLayerStart(int, float64)     {}
func (NoopMeshingHooks) OnLayerComplete(int, int, bool) {}
func (NoopMeshingHooks) OnElementCommit(string)        {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(string)      {}
func (NoopCacheHooks) OnCacheMiss(string)     {}
func (NoopCacheHooks) OnCacheSet(string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	meshingHooks MeshingHooks = NoopMeshingHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetMeshingHooks registers custom meshing hooks.
// This should be called once at application startup before any meshing runs.
func SetMeshingHooks(h MeshingHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		meshingHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Meshing returns the registered meshing hooks.
func Meshing() MeshingHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return meshingHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	meshingHooks = NoopMeshingHooks{}
	cacheHooks = NoopCacheHooks{}
}

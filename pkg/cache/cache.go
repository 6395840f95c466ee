// Package cache provides content-addressed caching for generated meshes
// and rendered artifacts.
//
// A [Cache] stores opaque byte values under string keys with optional
// expiration. Backends: [FileCache] for CLI usage, [RedisCache] for shared
// deployments, and [NullCache] to disable caching.
//
// Keys are produced by a [Keyer]: meshing results are keyed by the content
// hash of the case definition plus the generation options, artifacts by
// the mesh hash plus the render options. The [ScopedKeyer] prefixes keys
// for namespace isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with TTL support.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present (and unexpired).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// MeshKeyOpts are the generation options that participate in mesh cache
// keys. Two runs with equal case hashes and equal options produce the
// same mesh.
type MeshKeyOpts struct {
	Layers      int     `json:"layers"`
	FirstHeight float64 `json:"first_height"`
	GrowthRate  float64 `json:"growth_rate"`
}

// ArtifactKeyOpts are the render options that participate in artifact
// cache keys.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// MeshKey keys a generated mesh by case content hash and options.
	MeshKey(caseHash string, opts MeshKeyOpts) string

	// ArtifactKey keys a rendered artifact by mesh hash and options.
	ArtifactKey(meshHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// MeshKey implements [Keyer].
func (k *DefaultKeyer) MeshKey(caseHash string, opts MeshKeyOpts) string {
	return hashKey("mesh", caseHash, opts)
}

// ArtifactKey implements [Keyer].
func (k *DefaultKeyer) ArtifactKey(meshHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", meshHash, opts)
}

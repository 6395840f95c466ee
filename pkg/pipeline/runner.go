package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/meshkit/quadgen/pkg/cache"
	"github.com/meshkit/quadgen/pkg/domain"
	"github.com/meshkit/quadgen/pkg/front"
	"github.com/meshkit/quadgen/pkg/mesh"
	"github.com/meshkit/quadgen/pkg/meshio"
	"github.com/meshkit/quadgen/pkg/observability"
	"github.com/meshkit/quadgen/pkg/render"
)

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline execution.
	RunID string

	// Case is the loaded meshing case.
	Case *domain.Case

	// Mesh is the generated mesh.
	Mesh *mesh.Mesh

	// MeshHash is the content hash of the serialized mesh.
	MeshHash string

	// Complete reports whether every requested layer was generated.
	Complete bool

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	VertexCount   int
	QuadCount     int
	TriangleCount int
	LoadTime      time.Duration
	GenerateTime  time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	MeshHit   bool // Whether the generated mesh came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options as long as they use separate meshes.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Close releases the runner's cache backend.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Execute runs the complete load → generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	c, caseHash, err := r.LoadCase(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Case = c
	result.Stats.LoadTime = time.Since(loadStart)

	logger.Info("loaded case",
		"name", c.Name,
		"boundaries", c.Domain.Size(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Generate
	genStart := time.Now()
	m, complete, meshHit, err := r.GenerateWithCacheInfo(ctx, c, caseHash, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Mesh = m
	result.Complete = complete
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.VertexCount = m.Vertices().Len()
	result.Stats.QuadCount = m.NActiveQuads()
	result.Stats.TriangleCount = m.NActiveTriangles()
	result.CacheInfo.MeshHit = meshHit

	if meshData, err := meshio.MarshalMesh(m); err == nil {
		result.MeshHash = cache.Hash(meshData)
	}

	logger.Info("generated mesh",
		"quads", result.Stats.QuadCount,
		"triangles", result.Stats.TriangleCount,
		"complete", complete,
		"duration", result.Stats.GenerateTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, m, result.MeshHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadCase loads the meshing case and returns it with the content hash of
// its definition (used for cache keys).
func (r *Runner) LoadCase(opts Options) (*domain.Case, string, error) {
	if opts.Case != nil {
		return opts.Case, "", nil
	}
	data, err := os.ReadFile(opts.CasePath)
	if err != nil {
		return nil, "", err
	}
	c, err := domain.ParseCase(data)
	if err != nil {
		return nil, "", err
	}
	return c, cache.Hash(data), nil
}

// Generate runs the quad layering over a loaded case without caching.
// The returned bool reports whether every requested layer was generated.
func (r *Runner) Generate(c *domain.Case) (*mesh.Mesh, bool, error) {
	m := mesh.New()

	init, err := front.NewBoundaryInitializer(m, c.Domain)
	if err != nil {
		return nil, false, err
	}

	cfg := front.DefaultConfig()
	cfg.NLayers = c.Layers.Count
	cfg.FirstHeight = c.Layers.FirstHeight
	cfg.GrowthRate = c.Layers.GrowthRate
	cfg.Start = c.Layers.StartXY()
	cfg.End = c.Layers.EndXY()

	layering := front.NewLayering(m, c.Domain, init, cfg)
	ok, err := layering.GenerateElements()
	if err != nil {
		return nil, false, err
	}
	return m, ok, nil
}

// GenerateWithCacheInfo generates the mesh with caching and returns cache
// hit info. In-memory cases (no content hash) are never cached.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, c *domain.Case, caseHash string, opts Options) (*mesh.Mesh, bool, bool, error) {
	if caseHash == "" {
		m, complete, err := r.generateWithOverrides(c, opts)
		return m, complete, false, err
	}

	key := r.Keyer.MeshKey(caseHash, opts.MeshKeyOpts(c))

	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			if m, err := meshio.ReadMesh(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit("mesh")
				return m, true, true, nil
			}
		}
		observability.Cache().OnCacheMiss("mesh")
	}

	m, complete, err := r.generateWithOverrides(c, opts)
	if err != nil {
		return nil, false, false, err
	}

	// Only complete meshes are worth replaying from cache.
	if complete {
		if data, err := meshio.MarshalMesh(m); err == nil {
			if err := r.Cache.Set(ctx, key, data, 0); err == nil {
				observability.Cache().OnCacheSet("mesh", len(data))
			}
		}
	}

	return m, complete, false, nil
}

// RenderWithCacheInfo renders all requested formats with per-artifact
// caching.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *mesh.Mesh, meshHash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := len(opts.Formats) > 0

	for _, format := range opts.Formats {
		key := ""
		if meshHash != "" {
			key = r.Keyer.ArtifactKey(meshHash, opts.ArtifactKeyOpts(format))
		}

		if key != "" && !opts.Refresh {
			if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
				observability.Cache().OnCacheHit("artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss("artifact")
		}
		allHit = false

		data, err := r.renderFormat(m, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data

		if key != "" {
			if err := r.Cache.Set(ctx, key, data, 0); err == nil {
				observability.Cache().OnCacheSet("artifact", len(data))
			}
		}
	}

	return artifacts, allHit, nil
}

func (r *Runner) renderFormat(m *mesh.Mesh, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return meshio.MarshalMesh(m)
	case FormatSVG:
		return render.MeshSVG(m, render.SVGOptions{
			Scale:     opts.Scale,
			ShowEdges: opts.ShowEdges,
		}), nil
	case FormatDOT:
		return []byte(render.ConnectivityDOT(m)), nil
	default:
		return nil, ValidateFormat(format)
	}
}

func (r *Runner) generateWithOverrides(c *domain.Case, opts Options) (*mesh.Mesh, bool, error) {
	merged := *c
	merged.Layers = opts.effectiveLayers(c)
	return r.Generate(&merged)
}

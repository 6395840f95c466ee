// Package pkg provides the core libraries for quadgen mesh generation.
//
// # Overview
//
// Quadgen grows quadrilateral-dominant meshes inside planar domains with
// an advancing front. The pkg directory is organized as follows:
//
//  1. [geom] - 2-D vector math and geometric predicates
//  2. [mesh] - entities and containers (vertices, edge rings, facets)
//  3. [domain] - boundary definitions, size functions, TOML cases
//  4. [front] - the advancing front, refinement, and quad layering
//  5. [pipeline] - orchestration (load → generate → render) with caching
//  6. [meshio], [render] - JSON serialization and SVG/DOT output
//
// # Architecture
//
// The typical data flow through quadgen:
//
//	TOML case file
//	         ↓
//	    [domain] package (boundaries + size function)
//	         ↓
//	    [front] package (front init, refinement, quad layers)
//	         ↓
//	    [mesh] package (vertices, edges, triangles, quads)
//	         ↓
//	    JSON/SVG/DOT output
//
// Supporting packages: [errors] for structured error codes, [cache] for
// content-addressed result caching, [observability] for optional hooks.
package pkg

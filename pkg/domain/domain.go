// Package domain describes the planar region to be meshed: its boundaries
// and the size function that prescribes the desired local edge length.
//
// Boundaries are closed polygon rings with one opaque integer marker per
// edge. The exterior boundary winds counter-clockwise; interior boundaries
// (holes) wind clockwise so that the meshed region always lies to the left
// of every directed boundary edge.
package domain

import (
	"errors"

	"github.com/meshkit/quadgen/pkg/geom"
)

var (
	// ErrTooFewVertices is returned when a boundary has fewer than three
	// vertices.
	ErrTooFewVertices = errors.New("boundary needs at least 3 vertices")

	// ErrMarkerCount is returned when the marker count does not match the
	// edge count of a boundary.
	ErrMarkerCount = errors.New("marker count must equal vertex count")

	// ErrBadWinding is returned when an exterior boundary is not CCW or an
	// interior boundary is not CW.
	ErrBadWinding = errors.New("boundary winding does not match its kind")
)

// SizeFunc is the size function ρ(x): the desired local edge length at a
// point. Implementations must return a positive value everywhere inside
// the domain.
type SizeFunc func(xy geom.Vec2) float64

// Uniform returns a size function that is h everywhere.
func Uniform(h float64) SizeFunc {
	return func(geom.Vec2) float64 { return h }
}

// Linear returns the size function a + bx + cy.
func Linear(a, b, c float64) SizeFunc {
	return func(xy geom.Vec2) float64 { return a + b*xy.X + c*xy.Y }
}

// Boundary is one closed ring of the domain. Edge i runs from vertex i to
// vertex (i+1) mod n and carries Markers[i].
type Boundary struct {
	verts    []geom.Vec2
	markers  []int
	interior bool
}

// NewBoundary builds a boundary ring from ordered vertices and per-edge
// markers. interior selects hole winding (CW); exterior rings must be CCW.
func NewBoundary(verts []geom.Vec2, markers []int, interior bool) (*Boundary, error) {
	if len(verts) < 3 {
		return nil, ErrTooFewVertices
	}
	if len(markers) != len(verts) {
		return nil, ErrMarkerCount
	}
	area := geom.PolygonArea(verts)
	if !interior && area <= 0 {
		return nil, ErrBadWinding
	}
	if interior && area >= 0 {
		return nil, ErrBadWinding
	}
	return &Boundary{
		verts:    append([]geom.Vec2(nil), verts...),
		markers:  append([]int(nil), markers...),
		interior: interior,
	}, nil
}

// NEdges returns the number of edges (equal to the vertex count).
func (b *Boundary) NEdges() int { return len(b.verts) }

// Vertex returns the i-th vertex of the ring.
func (b *Boundary) Vertex(i int) geom.Vec2 { return b.verts[i] }

// Marker returns the marker of edge i.
func (b *Boundary) Marker(i int) int { return b.markers[i] }

// IsInterior reports whether the boundary is a hole.
func (b *Boundary) IsInterior() bool { return b.interior }

// Area returns the signed area of the ring polygon.
func (b *Boundary) Area() float64 { return geom.PolygonArea(b.verts) }

// Domain is the meshing region: an ordered set of boundaries plus the size
// function.
type Domain struct {
	boundaries []*Boundary
	size       SizeFunc
}

// New creates a domain with the given size function.
// A nil size function defaults to Uniform(1).
func New(size SizeFunc) *Domain {
	if size == nil {
		size = Uniform(1)
	}
	return &Domain{size: size}
}

// AddBoundary appends a boundary ring to the domain.
func (d *Domain) AddBoundary(b *Boundary) { d.boundaries = append(d.boundaries, b) }

// Size returns the number of boundaries.
func (d *Domain) Size() int { return len(d.boundaries) }

// Boundary returns the i-th boundary.
func (d *Domain) Boundary(i int) *Boundary { return d.boundaries[i] }

// SizeFunction evaluates ρ at the given point.
func (d *Domain) SizeFunction(xy geom.Vec2) float64 { return d.size(xy) }

// Area returns the total signed area enclosed by all boundaries
// (holes subtract).
func (d *Domain) Area() float64 {
	var sum float64
	for _, b := range d.boundaries {
		sum += b.Area()
	}
	return sum
}

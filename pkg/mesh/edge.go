package mesh

import (
	"container/list"

	"github.com/meshkit/quadgen/pkg/geom"
)

// Edge is a directed segment between two vertices. An edge lives inside
// exactly one [EdgeList]; its length and tangent are cached at creation.
//
// The twin link pairs an edge with a geometrically coinciding edge in
// another list (used to stitch meshes across shared boundaries). Twin links
// are symmetric: if a.Twin() == b then b.Twin() == a. Removing either side
// nulls the back-pointer on the other.
type Edge struct {
	v1, v2 *Vertex
	marker int

	length  float64
	tangent geom.Vec2

	twin *Edge

	facetL Facet // facet to the left of v1→v2, set by connectivity setup
	facetR Facet // facet to the right of v1→v2

	owner *EdgeList
	elem  *list.Element
}

// V1 returns the start vertex.
func (e *Edge) V1() *Vertex { return e.v1 }

// V2 returns the end vertex.
func (e *Edge) V2() *Vertex { return e.v2 }

// Marker returns the opaque boundary marker carried by the edge.
func (e *Edge) Marker() int { return e.marker }

// Length returns the cached edge length ‖v2 − v1‖.
func (e *Edge) Length() float64 { return e.length }

// Tangent returns the cached unit tangent (v2 − v1) / length.
func (e *Edge) Tangent() geom.Vec2 { return e.tangent }

// Normal returns the tangent rotated by +90°. For a CCW ring this points
// into the enclosed region.
func (e *Edge) Normal() geom.Vec2 { return e.tangent.Rot90() }

// XY returns the midpoint of the edge.
func (e *Edge) XY() geom.Vec2 { return e.v1.xy.Mid(e.v2.xy) }

// Twin returns the paired edge in another list, or nil.
func (e *Edge) Twin() *Edge { return e.twin }

// SetTwin sets the twin reference on this side only. Callers are
// responsible for keeping the link symmetric.
func (e *Edge) SetTwin(t *Edge) { e.twin = t }

// FacetLeft returns the facet on the left of v1→v2, or nil.
func (e *Edge) FacetLeft() Facet { return e.facetL }

// FacetRight returns the facet on the right of v1→v2, or nil.
func (e *Edge) FacetRight() Facet { return e.facetR }

// SetFacets assigns the adjacent facets of the edge.
func (e *Edge) SetFacets(left, right Facet) {
	e.facetL = left
	e.facetR = right
}

// InContainer reports whether the edge still lives in an EdgeList. Handles
// held across mutating loops must re-check this before dereferencing.
func (e *Edge) InContainer() bool { return e.owner != nil }

// List returns the EdgeList that owns the edge, or nil after removal.
func (e *Edge) List() *EdgeList { return e.owner }

// Next returns the following edge in the owning ring, wrapping from the
// last edge back to the first. Returns nil if the edge was removed.
func (e *Edge) Next() *Edge {
	if e.owner == nil {
		return nil
	}
	n := e.elem.Next()
	if n == nil {
		n = e.owner.items.Front()
	}
	if n == nil {
		return nil
	}
	return n.Value.(*Edge)
}

// Prev returns the preceding edge in the owning ring, wrapping from the
// first edge back to the last. Returns nil if the edge was removed.
func (e *Edge) Prev() *Edge {
	if e.owner == nil {
		return nil
	}
	p := e.elem.Prev()
	if p == nil {
		p = e.owner.items.Back()
	}
	if p == nil {
		return nil
	}
	return p.Value.(*Edge)
}

// HasVertex reports whether v is one of the edge endpoints.
func (e *Edge) HasVertex(v *Vertex) bool { return e.v1 == v || e.v2 == v }

// refreshCache recomputes length and tangent from the endpoint coordinates.
func (e *Edge) refreshCache() {
	d := e.v2.xy.Sub(e.v1.xy)
	e.length = d.Norm()
	e.tangent = d.Normalized()
}

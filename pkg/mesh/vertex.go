// Package mesh provides the entities and containers that make up a
// two-dimensional unstructured mesh: vertices, directed edges, ordered edge
// rings, triangles, and quadrilaterals.
//
// Containers own their elements exclusively. A [Vertices] container owns its
// vertices and an [EdgeList] owns its edges; everything else holds non-owning
// references. Position handles (the element's place inside its container)
// are stable: an operation on one element never invalidates the handle of
// another. Deletion of facets and vertices is deferred: entities are marked
// as waste and swept by [Mesh.ClearWaste].
//
// Mesh is not safe for concurrent use. A mesh, its front, and the layering
// driver form one exclusively-owned trio for the duration of a run.
package mesh

import (
	"container/list"

	"github.com/meshkit/quadgen/pkg/geom"
)

// Vertex is a point of the mesh. Vertices are created through their owning
// [Vertices] container and destroyed only by waste collection; edges and
// facets reference them without owning them.
type Vertex struct {
	xy geom.Vec2

	onFront    bool
	onBoundary bool
	isFixed    bool

	elem  *list.Element
	owner *Vertices
	waste bool
}

// XY returns the coordinates of the vertex.
func (v *Vertex) XY() geom.Vec2 { return v.xy }

// OnFront reports whether the vertex currently lies on the advancing front.
func (v *Vertex) OnFront() bool { return v.onFront }

// SetOnFront marks or unmarks the vertex as part of the advancing front.
func (v *Vertex) SetOnFront(b bool) { v.onFront = b }

// OnBoundary reports whether the vertex lies on a domain boundary.
func (v *Vertex) OnBoundary() bool { return v.onBoundary }

// SetOnBoundary marks or unmarks the vertex as a boundary vertex.
func (v *Vertex) SetOnBoundary(b bool) { v.onBoundary = b }

// IsFixed reports whether the vertex position is pinned. Fixed vertices are
// never moved by smoothing passes.
func (v *Vertex) IsFixed() bool { return v.isFixed }

// SetFixed pins or unpins the vertex position.
func (v *Vertex) SetFixed(b bool) { v.isFixed = b }

// InContainer reports whether the vertex still lives in its container and
// has not been marked as waste.
func (v *Vertex) InContainer() bool { return v.owner != nil && !v.waste }

// Vertices is an insertion-ordered container that exclusively owns its
// vertices. Position handles into the container survive all operations
// except removal of the referenced vertex.
type Vertices struct {
	items *list.List
}

// NewVertices creates an empty vertex container.
func NewVertices() *Vertices {
	return &Vertices{items: list.New()}
}

// Len returns the number of vertices in the container, counting vertices
// marked as waste until a sweep removes them.
func (vs *Vertices) Len() int { return vs.items.Len() }

// PushBack appends a new vertex at the given coordinates and returns it.
func (vs *Vertices) PushBack(xy geom.Vec2) *Vertex {
	v := &Vertex{xy: xy, owner: vs}
	v.elem = vs.items.PushBack(v)
	return v
}

// Insert creates a new vertex at the given coordinates immediately before
// pos and returns it. pos must belong to this container.
func (vs *Vertices) Insert(pos *Vertex, xy geom.Vec2) *Vertex {
	v := &Vertex{xy: xy, owner: vs}
	v.elem = vs.items.InsertBefore(v, pos.elem)
	return v
}

// MarkWaste flags the vertex for removal by the next waste sweep.
func (vs *Vertices) MarkWaste(v *Vertex) { v.waste = true }

// sweep removes all vertices flagged as waste.
func (vs *Vertices) sweep() {
	for e := vs.items.Front(); e != nil; {
		next := e.Next()
		if v := e.Value.(*Vertex); v.waste {
			vs.items.Remove(e)
			v.elem = nil
			v.owner = nil
		}
		e = next
	}
}

// All returns the live vertices in insertion order.
func (vs *Vertices) All() []*Vertex {
	out := make([]*Vertex, 0, vs.items.Len())
	for e := vs.items.Front(); e != nil; e = e.Next() {
		if v := e.Value.(*Vertex); !v.waste {
			out = append(out, v)
		}
	}
	return out
}

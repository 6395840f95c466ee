// Package front implements the advancing-front core of the mesh generator:
// the front ring itself, its size-function-driven refinement, the quad-layer
// projection structure, and the layering driver that grows ribbons of
// quadrilaterals into the domain.
//
// The front is a counter-clockwise ring of directed edges marking the border
// between meshed and unmeshed territory. It composes an ordered
// [mesh.EdgeList] with a base cursor and the refinement logic; every edge
// insertion flags the endpoints as on-front vertices.
package front

import (
	"github.com/meshkit/quadgen/pkg/domain"
	qerrors "github.com/meshkit/quadgen/pkg/errors"
	"github.com/meshkit/quadgen/pkg/mesh"
)

// Initializer produces, per domain boundary, the seed edges the front is
// built from. The three returned slices are parallel and of equal length
// and describe a closed ring: seed edge k connects ring vertex k to ring
// vertex k+1 (mod n) and carries marker k.
//
// A true twin flag means the seed edge belongs to an already meshed
// neighbor; the new front edge is then bound to it symmetrically and the
// shared vertex is taken from the seed edge's end instead of its start.
type Initializer interface {
	Seed(boundary int) (edges []*mesh.Edge, isTwin []bool, markers []int)
}

// Front is the advancing front: an edge ring plus the base cursor pointing
// at the edge currently being worked on.
type Front struct {
	edges *mesh.EdgeList
	base  *mesh.Edge
}

// New creates an empty front.
func New() *Front {
	f := &Front{edges: mesh.NewEdgeList(mesh.OrientNone)}
	f.edges.SetInsertHook(func(v1, v2 *mesh.Vertex, _ *mesh.Edge) {
		v1.SetOnFront(true)
		v2.SetOnFront(true)
	})
	return f
}

// Edges returns the underlying edge list.
func (f *Front) Edges() *mesh.EdgeList { return f.edges }

// Len returns the number of front edges.
func (f *Front) Len() int { return f.edges.Len() }

// Base returns the current base edge, or nil if the front is empty.
func (f *Front) Base() *mesh.Edge { return f.base }

// SetBase points the base cursor at the given edge.
func (f *Front) SetBase(e *mesh.Edge) { f.base = e }

// SetBaseFirst points the base cursor at the first edge in list order.
func (f *Front) SetBaseFirst() {
	if f.edges.Len() < 1 {
		return
	}
	f.base = f.edges.First()
}

// SetBaseNext advances the base cursor to the next edge in list order,
// wrapping from the last edge back to the first.
func (f *Front) SetBaseNext() {
	if f.edges.Len() < 1 || f.base == nil {
		return
	}
	if next := f.base.Next(); next != nil {
		f.base = next
	} else {
		// The base was removed from the list; restart at the front.
		f.SetBaseFirst()
	}
}

// SortEdges stably sorts the front edges by length and resets the base
// cursor to the first edge. Position handles survive the sort.
func (f *Front) SortEdges(ascending bool) {
	if ascending {
		f.edges.SortStable(func(a, b *mesh.Edge) bool { return a.Length() < b.Length() })
	} else {
		f.edges.SortStable(func(a, b *mesh.Edge) bool { return a.Length() > b.Length() })
	}
	f.SetBaseFirst()
}

// NextEdge returns the ring successor of e: the front edge starting at
// e's end vertex. Returns nil if the ring is broken there.
func (f *Front) NextEdge(e *mesh.Edge) *mesh.Edge {
	for _, c := range f.edges.Edges() {
		if c != e && c.V1() == e.V2() {
			return c
		}
	}
	return nil
}

// PrevEdge returns the ring predecessor of e: the front edge ending at
// e's start vertex. Returns nil if the ring is broken there.
func (f *Front) PrevEdge(e *mesh.Edge) *mesh.Edge {
	for _, c := range f.edges.Edges() {
		if c != e && c.V2() == e.V1() {
			return c
		}
	}
	return nil
}

// IsTraversable reports whether b is reachable from a by following ring
// successors without completing a full lap and without crossing a
// twin-bound edge.
func (f *Front) IsTraversable(a, b *mesh.Edge) bool {
	e := a
	for i := 0; i < f.edges.Len(); i++ {
		if e == nil {
			return false
		}
		if e == b {
			return true
		}
		if e.Twin() != nil {
			return false
		}
		e = f.NextEdge(e)
		if e == a {
			return false
		}
	}
	return false
}

// EdgeAt returns the front edge that has v as its start vertex (which = 1)
// or its end vertex (which = 2), or nil.
func (f *Front) EdgeAt(v *mesh.Vertex, which int) *mesh.Edge {
	for _, e := range f.edges.Edges() {
		if which == 1 && e.V1() == v {
			return e
		}
		if which == 2 && e.V2() == v {
			return e
		}
	}
	return nil
}

// Init builds the front from the domain boundaries. For every boundary the
// initializer supplies seed edges, twin flags, and markers; a fresh mesh
// vertex is pushed per seed edge (taken from the seed's start vertex, or
// its end for twin edges) and flagged on-front, on-boundary, and fixed.
// The new edges form one closed sub-ring per boundary in the original
// order. Twin seeds are bound symmetrically.
//
// After all boundaries are processed the front is refined against the
// domain size function and the cached area is recomputed.
func (f *Front) Init(dom *domain.Domain, init Initializer, verts *mesh.Vertices) error {
	for i := 0; i < dom.Size(); i++ {
		seeds, isTwin, markers := init.Seed(i)
		if len(seeds) != len(isTwin) || len(seeds) != len(markers) {
			return qerrors.New(qerrors.ErrCodeStructural,
				"boundary %d: seed arrays have mismatched lengths", i)
		}
		if len(seeds) < 3 {
			return qerrors.New(qerrors.ErrCodeStructural,
				"boundary %d: needs at least 3 seed edges, got %d", i, len(seeds))
		}

		newVerts := f.initMeshVertices(seeds, isTwin, verts)

		newEdges, err := f.initFrontEdges(seeds, markers, newVerts)
		if err != nil {
			return qerrors.Wrap(qerrors.ErrCodeStructural, err, "boundary %d", i)
		}

		if err := markTwinEdges(seeds, isTwin, newEdges); err != nil {
			return err
		}
	}

	// Refine the front edges, but never the sub-edges they produce.
	f.Refine(dom, verts)

	return nil
}

// initMeshVertices pushes one fresh mesh vertex per seed edge and returns
// them in ring order.
func (f *Front) initMeshVertices(seeds []*mesh.Edge, isTwin []bool, verts *mesh.Vertices) []*mesh.Vertex {
	out := make([]*mesh.Vertex, len(seeds))
	for k, se := range seeds {
		src := se.V1()
		if isTwin[k] {
			src = se.V2()
		}
		v := verts.PushBack(src.XY())
		v.SetOnFront(true)
		v.SetOnBoundary(true)
		v.SetFixed(true)
		out[k] = v
	}
	return out
}

// initFrontEdges connects the fresh vertices into one closed sub-ring.
func (f *Front) initFrontEdges(seeds []*mesh.Edge, markers []int, newVerts []*mesh.Vertex) ([]*mesh.Edge, error) {
	n := len(newVerts)
	out := make([]*mesh.Edge, 0, n)
	for k := range seeds {
		e, err := f.edges.AddEdge(newVerts[k], newVerts[(k+1)%n], markers[k])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// markTwinEdges binds twin references in both directions between new front
// edges and their twin seeds.
func markTwinEdges(seeds []*mesh.Edge, isTwin []bool, newEdges []*mesh.Edge) error {
	for k := range seeds {
		if isTwin[k] {
			newEdges[k].SetTwin(seeds[k])
			seeds[k].SetTwin(newEdges[k])
			continue
		}
		if newEdges[k].Twin() != nil {
			return qerrors.New(qerrors.ErrCodeStructural,
				"seed edge %d: unexpected twin reference", k)
		}
	}
	return nil
}

// Clear removes every edge from the front and drops the on-front flag of
// the affected vertices.
func (f *Front) Clear() {
	for _, e := range f.edges.Edges() {
		e.V1().SetOnFront(false)
		e.V2().SetOnFront(false)
	}
	f.edges.Clear()
	f.base = nil
}

// dropOnFrontIfDetached unsets the on-front flag of v when no front edge
// references it anymore.
func (f *Front) dropOnFrontIfDetached(v *mesh.Vertex) {
	if f.EdgeAt(v, 1) == nil && f.EdgeAt(v, 2) == nil {
		v.SetOnFront(false)
	}
}

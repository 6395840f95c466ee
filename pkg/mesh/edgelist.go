package mesh

import (
	"container/list"
	"errors"
	"sort"
)

var (
	// ErrDegenerateEdge is returned by [EdgeList.AddEdge] and
	// [EdgeList.InsertEdge] when both endpoints are the same vertex.
	ErrDegenerateEdge = errors.New("edge endpoints must differ")

	// ErrSplitParam is returned by [EdgeList.SplitEdge] when the split
	// parameter lies outside the open interval (0, 1).
	ErrSplitParam = errors.New("split parameter must be in (0, 1)")

	// ErrNotInList is returned when an operation receives an edge that does
	// not belong to the list.
	ErrNotInList = errors.New("edge is not in this list")
)

// Orientation tags the winding of an edge ring.
type Orientation int

const (
	// OrientNone means the ring carries no winding guarantee.
	OrientNone Orientation = iota
	// OrientCCW means the ring winds counter-clockwise.
	OrientCCW
	// OrientCW means the ring winds clockwise.
	OrientCW
)

// InsertHook is invoked for every edge added to an [EdgeList]. The front
// uses it to flag the endpoints as on-front vertices.
type InsertHook func(v1, v2 *Vertex, e *Edge)

// EdgeList is an ordered cyclic sequence of directed edges. It exclusively
// owns the edges it contains: removing an edge destroys it. Iteration order
// is stable insertion order, and position handles survive all operations
// except removal of the referenced edge.
type EdgeList struct {
	items    *list.List
	orient   Orientation
	area     float64
	onInsert InsertHook
}

// NewEdgeList creates an empty edge list with the given orientation tag.
func NewEdgeList(o Orientation) *EdgeList {
	return &EdgeList{items: list.New(), orient: o}
}

// SetInsertHook registers a hook called for every edge insertion.
func (l *EdgeList) SetInsertHook(fn InsertHook) { l.onInsert = fn }

// Orientation returns the winding tag of the list.
func (l *EdgeList) Orientation() Orientation { return l.orient }

// Len returns the number of edges in the list.
func (l *EdgeList) Len() int { return l.items.Len() }

// First returns the first edge in insertion order, or nil if empty.
func (l *EdgeList) First() *Edge {
	if f := l.items.Front(); f != nil {
		return f.Value.(*Edge)
	}
	return nil
}

// Last returns the last edge in insertion order, or nil if empty.
func (l *EdgeList) Last() *Edge {
	if b := l.items.Back(); b != nil {
		return b.Value.(*Edge)
	}
	return nil
}

// Edges returns a snapshot of the edges in insertion order. The snapshot is
// safe to hold across mutations; re-check [Edge.InContainer] before using a
// stale entry.
func (l *EdgeList) Edges() []*Edge {
	out := make([]*Edge, 0, l.items.Len())
	for e := l.items.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Edge))
	}
	return out
}

// AddEdge appends a new edge v1→v2 with the given marker.
func (l *EdgeList) AddEdge(v1, v2 *Vertex, marker int) (*Edge, error) {
	if v1 == v2 {
		return nil, ErrDegenerateEdge
	}
	e := l.newEdge(v1, v2, marker)
	e.elem = l.items.PushBack(e)
	l.fireInsert(e)
	return e, nil
}

// InsertEdge creates a new edge v1→v2 immediately before pos.
// pos must belong to this list.
func (l *EdgeList) InsertEdge(pos *Edge, v1, v2 *Vertex, marker int) (*Edge, error) {
	if v1 == v2 {
		return nil, ErrDegenerateEdge
	}
	if pos.owner != l {
		return nil, ErrNotInList
	}
	e := l.newEdge(v1, v2, marker)
	e.elem = l.items.InsertBefore(e, pos.elem)
	l.fireInsert(e)
	return e, nil
}

// Remove destroys the edge. The twin back-pointer on the other side is
// nulled first, so a paired edge never dangles.
func (l *EdgeList) Remove(e *Edge) {
	if e.owner != l {
		return
	}
	if e.twin != nil {
		e.twin.twin = nil
		e.twin = nil
	}
	l.items.Remove(e.elem)
	e.elem = nil
	e.owner = nil
}

// GetEdge returns the edge with the ordered endpoint pair (v1, v2), or nil.
// The lookup is O(n).
func (l *EdgeList) GetEdge(v1, v2 *Vertex) *Edge {
	for e := l.items.Front(); e != nil; e = e.Next() {
		edge := e.Value.(*Edge)
		if edge.v1 == v1 && edge.v2 == v2 {
			return edge
		}
	}
	return nil
}

// GetEdgeAny returns the edge connecting v1 and v2 in either direction,
// or nil.
func (l *EdgeList) GetEdgeAny(v1, v2 *Vertex) *Edge {
	for e := l.items.Front(); e != nil; e = e.Next() {
		edge := e.Value.(*Edge)
		if (edge.v1 == v1 && edge.v2 == v2) || (edge.v1 == v2 && edge.v2 == v1) {
			return edge
		}
	}
	return nil
}

// SplitEdge replaces e by two edges sharing a new vertex at parameter
// s ∈ (0, 1) along e, both inheriting e's marker. The new vertex is created
// in verts just before e's end vertex, keeping vertex insertion order
// aligned with the ring. With recursive set, a twin edge is split at the
// mirrored parameter and the sub-edges are re-paired.
//
// Returns the two replacement edges in ring order; the shared vertex is
// the first edge's V2.
func (l *EdgeList) SplitEdge(e *Edge, verts *Vertices, s float64, recursive bool) (*Edge, *Edge, error) {
	if s <= 0 || s >= 1 {
		return nil, nil, ErrSplitParam
	}
	if e.owner != l {
		return nil, nil, ErrNotInList
	}

	twin := e.twin

	xy := e.v1.xy.Lerp(e.v2.xy, s)
	vNew := verts.Insert(e.v2, xy)
	if e.v1.onBoundary && e.v2.onBoundary {
		vNew.SetOnBoundary(true)
	}

	eA, err := l.InsertEdge(e, e.v1, vNew, e.marker)
	if err != nil {
		return nil, nil, err
	}
	eB, err := l.InsertEdge(e, vNew, e.v2, e.marker)
	if err != nil {
		l.Remove(eA)
		return nil, nil, err
	}
	l.Remove(e)

	if recursive && twin != nil && twin.owner != nil {
		tl := twin.owner
		// The twin usually runs in the opposite direction; mirror the
		// parameter when it does.
		st := 1 - s
		if twin.v1.xy.Eq(e.v1.xy) {
			st = s
		}
		tA, tB, err := tl.SplitEdge(twin, verts, st, false)
		if err == nil {
			// Pair sub-edges by coinciding midpoints.
			if tA.XY().Eq(eA.XY()) {
				eA.twin, tA.twin = tA, eA
				eB.twin, tB.twin = tB, eB
			} else {
				eA.twin, tB.twin = tB, eA
				eB.twin, tA.twin = tA, eB
			}
		}
	}

	return eA, eB, nil
}

// SortStable reorders the list in place using a stable sort with the given
// comparison. Position handles survive: edges are moved, not recreated.
func (l *EdgeList) SortStable(less func(a, b *Edge) bool) {
	edges := l.Edges()
	sort.SliceStable(edges, func(i, j int) bool { return less(edges[i], edges[j]) })
	for _, e := range edges {
		l.items.MoveToBack(e.elem)
	}
}

// Area returns the cached signed area of the ring.
// Call [EdgeList.ComputeArea] to refresh it after mutations.
func (l *EdgeList) Area() float64 { return l.area }

// ComputeArea recomputes and returns the signed area
// ½ Σ (x_i·y_{i+1} − x_{i+1}·y_i) over the ordered ring.
func (l *EdgeList) ComputeArea() float64 {
	var sum float64
	for e := l.items.Front(); e != nil; e = e.Next() {
		edge := e.Value.(*Edge)
		sum += edge.v1.xy.Cross(edge.v2.xy)
	}
	l.area = 0.5 * sum
	return l.area
}

// Clear removes every edge from the list.
func (l *EdgeList) Clear() {
	for e := l.items.Front(); e != nil; {
		next := e.Next()
		l.Remove(e.Value.(*Edge))
		e = next
	}
}

func (l *EdgeList) newEdge(v1, v2 *Vertex, marker int) *Edge {
	e := &Edge{v1: v1, v2: v2, marker: marker, owner: l}
	e.refreshCache()
	return e
}

func (l *EdgeList) fireInsert(e *Edge) {
	if l.onInsert != nil {
		l.onInsert(e.v1, e.v2, e)
	}
}

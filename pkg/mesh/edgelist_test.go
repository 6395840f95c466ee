package mesh

import (
	"math"
	"testing"

	"github.com/meshkit/quadgen/pkg/geom"
)

// ringOfSquare builds a CCW unit-square ring and returns the list plus the
// four corner vertices.
func ringOfSquare(t *testing.T) (*EdgeList, *Vertices, []*Vertex) {
	t.Helper()
	vs := NewVertices()
	corners := []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	verts := make([]*Vertex, 4)
	for i, c := range corners {
		verts[i] = vs.PushBack(c)
	}
	l := NewEdgeList(OrientCCW)
	for i := range verts {
		if _, err := l.AddEdge(verts[i], verts[(i+1)%4], 1); err != nil {
			t.Fatalf("AddEdge(%d) error: %v", i, err)
		}
	}
	return l, vs, verts
}

func TestEdgeList_RingTraversal(t *testing.T) {
	l, _, _ := ringOfSquare(t)

	e := l.First()
	for i := 0; i < l.Len(); i++ {
		if e.Next() == nil {
			t.Fatalf("Next() = nil mid-ring at step %d", i)
		}
		if e.V2() != e.Next().V1() {
			t.Errorf("ring broken at step %d: V2 != Next().V1", i)
		}
		e = e.Next()
	}
	if e != l.First() {
		t.Errorf("traversal did not wrap to the first edge after %d steps", l.Len())
	}
}

func TestEdgeList_HandleStability(t *testing.T) {
	l, vs, verts := ringOfSquare(t)

	held := l.First().Next() // the edge (1,0)→(1,1)
	heldV1, heldV2 := held.V1(), held.V2()

	// Unrelated mutations: append, split another edge, remove another edge.
	extra := vs.PushBack(geom.Vec2{X: 2, Y: 2})
	if _, err := l.AddEdge(verts[3], extra, 9); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, _, err := l.SplitEdge(l.First(), vs, 0.5, false); err != nil {
		t.Fatalf("SplitEdge: %v", err)
	}
	l.Remove(l.Last())

	if !held.InContainer() {
		t.Fatalf("held edge dropped out of container after unrelated mutations")
	}
	if held.V1() != heldV1 || held.V2() != heldV2 {
		t.Errorf("held edge identity changed after unrelated mutations")
	}
}

func TestEdgeList_SplitEdge(t *testing.T) {
	l, vs, verts := ringOfSquare(t)

	e := l.GetEdge(verts[0], verts[1])
	before := l.Len()
	eA, eB, err := l.SplitEdge(e, vs, 0.25, false)
	if err != nil {
		t.Fatalf("SplitEdge: %v", err)
	}

	if l.Len() != before+1 {
		t.Errorf("Len() = %d after split, want %d", l.Len(), before+1)
	}
	if e.InContainer() {
		t.Errorf("split edge still in container")
	}
	if eA.V1() != verts[0] || eB.V2() != verts[1] {
		t.Errorf("split endpoints do not span the original edge")
	}
	if eA.V2() != eB.V1() {
		t.Errorf("split halves do not share the new vertex")
	}
	want := geom.Vec2{X: 0.25, Y: 0}
	if !eA.V2().XY().Eq(want) {
		t.Errorf("split vertex at %v, want %v", eA.V2().XY(), want)
	}
	if eA.Marker() != 1 || eB.Marker() != 1 {
		t.Errorf("split halves lost the marker: %d, %d", eA.Marker(), eB.Marker())
	}
	// The halves replace the original in ring order.
	if eA.Next() != eB {
		t.Errorf("split halves are not adjacent in the ring")
	}
}

func TestEdgeList_SplitEdge_BadParam(t *testing.T) {
	l, vs, verts := ringOfSquare(t)
	e := l.GetEdge(verts[0], verts[1])
	for _, s := range []float64{0, 1, -0.5, 1.5} {
		if _, _, err := l.SplitEdge(e, vs, s, false); err != ErrSplitParam {
			t.Errorf("SplitEdge(s=%v) error = %v, want ErrSplitParam", s, err)
		}
	}
}

func TestEdgeList_TwinSymmetry(t *testing.T) {
	l1, _, verts := ringOfSquare(t)
	vs2 := NewVertices()
	a := vs2.PushBack(geom.Vec2{X: 1, Y: 0})
	b := vs2.PushBack(geom.Vec2{X: 0, Y: 0})
	l2 := NewEdgeList(OrientNone)
	other, err := l2.AddEdge(a, b, 1)
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	e := l1.GetEdge(verts[0], verts[1])
	e.SetTwin(other)
	other.SetTwin(e)

	if e.Twin().Twin() != e {
		t.Errorf("twin link not symmetric")
	}

	// Removing one side must null the back-pointer.
	l1.Remove(e)
	if other.Twin() != nil {
		t.Errorf("Twin() = %v after partner removal, want nil", other.Twin())
	}
}

func TestEdgeList_ComputeArea(t *testing.T) {
	l, _, _ := ringOfSquare(t)
	if got := l.ComputeArea(); math.Abs(got-1) > 1e-12 {
		t.Errorf("ComputeArea() = %v, want 1", got)
	}
}

func TestEdgeList_SortStable(t *testing.T) {
	vs := NewVertices()
	o := vs.PushBack(geom.Vec2{})
	p1 := vs.PushBack(geom.Vec2{X: 3})
	p2 := vs.PushBack(geom.Vec2{X: 1})
	p3 := vs.PushBack(geom.Vec2{X: 2})
	l := NewEdgeList(OrientNone)
	l.AddEdge(o, p1, 0)
	l.AddEdge(o, p2, 0)
	held, _ := l.AddEdge(o, p3, 0)

	l.SortStable(func(a, b *Edge) bool { return a.Length() < b.Length() })

	lengths := []float64{}
	for _, e := range l.Edges() {
		lengths = append(lengths, e.Length())
	}
	for i := 1; i < len(lengths); i++ {
		if lengths[i-1] > lengths[i] {
			t.Errorf("edges not ascending after sort: %v", lengths)
		}
	}
	if !held.InContainer() || held.V2() != p3 {
		t.Errorf("handle invalidated by sort")
	}
}

func TestEdgeList_InsertHook(t *testing.T) {
	vs := NewVertices()
	a := vs.PushBack(geom.Vec2{})
	b := vs.PushBack(geom.Vec2{X: 1})
	l := NewEdgeList(OrientNone)
	l.SetInsertHook(func(v1, v2 *Vertex, e *Edge) {
		v1.SetOnFront(true)
		v2.SetOnFront(true)
	})
	l.AddEdge(a, b, 0)
	if !a.OnFront() || !b.OnFront() {
		t.Errorf("insert hook did not run: OnFront = %v, %v", a.OnFront(), b.OnFront())
	}
}

func TestMesh_ClearWaste(t *testing.T) {
	m := New()
	a := m.AddVertex(geom.Vec2{})
	b := m.AddVertex(geom.Vec2{X: 1})
	c := m.AddVertex(geom.Vec2{Y: 1})
	tr := m.AddTriangle(a, b, c)
	tr.SetActive(true)

	m.RemoveTriangle(tr)
	if len(m.Triangles()) != 0 {
		t.Errorf("Triangles() = %d entries after removal, want 0", len(m.Triangles()))
	}

	m.RemoveVertex(c)
	m.ClearWaste()
	if m.Vertices().Len() != 2 {
		t.Errorf("Vertices().Len() = %d after sweep, want 2", m.Vertices().Len())
	}
}

func TestSetupFacetConnectivity(t *testing.T) {
	m := New()
	a := m.AddVertex(geom.Vec2{})
	b := m.AddVertex(geom.Vec2{X: 1})
	c := m.AddVertex(geom.Vec2{X: 1, Y: 1})
	d := m.AddVertex(geom.Vec2{Y: 1})
	// Two CCW triangles sharing the diagonal a-c.
	t1 := m.AddTriangle(a, b, c)
	t2 := m.AddTriangle(a, c, d)
	t1.SetActive(true)
	t2.SetActive(true)
	diag, err := m.AddInteriorEdge(a, c)
	if err != nil {
		t.Fatalf("AddInteriorEdge: %v", err)
	}

	SetupFacetConnectivity(m)

	if diag.FacetLeft() != Facet(t2) {
		t.Errorf("FacetLeft() = %v, want t2", diag.FacetLeft())
	}
	if diag.FacetRight() != Facet(t1) {
		t.Errorf("FacetRight() = %v, want t1", diag.FacetRight())
	}
}

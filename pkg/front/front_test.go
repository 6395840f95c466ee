package front

import (
	"math"
	"testing"

	"github.com/meshkit/quadgen/pkg/domain"
	"github.com/meshkit/quadgen/pkg/geom"
	"github.com/meshkit/quadgen/pkg/mesh"
)

// squareDomain builds the unit square with the given size function and
// markers 1..4 (bottom, right, top, left).
func squareDomain(t *testing.T, size domain.SizeFunc) *domain.Domain {
	t.Helper()
	b, err := domain.NewBoundary(
		[]geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		[]int{1, 2, 3, 4}, false)
	if err != nil {
		t.Fatalf("NewBoundary: %v", err)
	}
	d := domain.New(size)
	d.AddBoundary(b)
	return d
}

// initFront initializes a front over the domain via the standard boundary
// initializer.
func initFront(t *testing.T, dom *domain.Domain) (*Front, *mesh.Mesh) {
	t.Helper()
	m := mesh.New()
	bi, err := NewBoundaryInitializer(m, dom)
	if err != nil {
		t.Fatalf("NewBoundaryInitializer: %v", err)
	}
	f := New()
	if err := f.Init(dom, bi, m.Vertices()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return f, m
}

// ringWalk follows ring successors from the first edge and returns the
// visited edges.
func ringWalk(f *Front) []*mesh.Edge {
	var out []*mesh.Edge
	e := f.Edges().First()
	for i := 0; i < f.Len(); i++ {
		out = append(out, e)
		e = f.NextEdge(e)
		if e == nil {
			break
		}
	}
	return out
}

func TestFront_Init_UnitSquareRefinement(t *testing.T) {
	// Uniform ρ = 0.25 must split each unit side into four 0.25 edges.
	dom := squareDomain(t, domain.Uniform(0.25))
	f, _ := initFront(t, dom)

	if f.Len() != 16 {
		t.Fatalf("Len() = %d after refinement, want 16", f.Len())
	}
	for _, e := range f.Edges().Edges() {
		if math.Abs(e.Length()-0.25) > 1e-9 {
			t.Errorf("edge length = %v, want 0.25", e.Length())
		}
		if !e.V1().OnBoundary() || !e.V1().IsFixed() {
			t.Errorf("refined vertex missing boundary/fixed flags")
		}
	}
	if got := f.Edges().Area(); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Area() = %v, want 1.0", got)
	}
}

func TestFront_Init_RingClosure(t *testing.T) {
	dom := squareDomain(t, domain.Uniform(0.25))
	f, _ := initFront(t, dom)

	visited := ringWalk(f)
	if len(visited) != f.Len() {
		t.Fatalf("ring walk visited %d edges, want %d", len(visited), f.Len())
	}
	seen := map[*mesh.Edge]bool{}
	for _, e := range visited {
		if seen[e] {
			t.Fatalf("ring walk visited an edge twice")
		}
		seen[e] = true
	}
	last := visited[len(visited)-1]
	if f.NextEdge(last) != visited[0] {
		t.Errorf("ring walk did not return to the first edge")
	}
}

func TestFront_Init_LShape(t *testing.T) {
	// Refinement with ρ = 0.5 keeps the signed area of the straight-edge
	// domain exact.
	b, err := domain.NewBoundary(
		[]geom.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}},
		[]int{1, 1, 1, 1, 1, 1}, false)
	if err != nil {
		t.Fatalf("NewBoundary: %v", err)
	}
	dom := domain.New(domain.Uniform(0.5))
	dom.AddBoundary(b)

	f, _ := initFront(t, dom)

	for _, e := range f.Edges().Edges() {
		if math.Abs(e.Length()-0.5) > 1e-9 {
			t.Errorf("edge length = %v, want 0.5", e.Length())
		}
	}
	if got := f.Edges().Area(); math.Abs(got-3.0) > 1e-9 {
		t.Errorf("Area() = %v, want 3.0", got)
	}
}

func TestFront_Refine_NonUniformSizing(t *testing.T) {
	// Triangle with ρ growing along x: the constant-ρ edge at x = 0 ends up
	// with the most sub-edges, and every refined chain advances strictly.
	b, err := domain.NewBoundary(
		[]geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
		[]int{1, 2, 3}, false)
	if err != nil {
		t.Fatalf("NewBoundary: %v", err)
	}
	dom := domain.New(domain.Linear(0.1, 0.4, 0))
	dom.AddBoundary(b)

	f, _ := initFront(t, dom)

	count := map[int]int{}
	for _, e := range f.Edges().Edges() {
		count[e.Marker()]++
	}
	if count[3] <= count[1] {
		t.Errorf("edge counts: x=0 side %d, bottom side %d; small-ρ side must dominate",
			count[3], count[1])
	}

	// Monotone abscissa along every refined chain.
	for _, start := range ringWalk(f) {
		if start.Marker() == start.Prev().Marker() {
			continue // not a chain head
		}
		origin := start.V1().XY()
		dir := start.Tangent()
		sPrev := 0.0
		for e := start; e.Marker() == start.Marker(); e = f.NextEdge(e) {
			s := e.V2().XY().Sub(origin).Dot(dir)
			if s <= sPrev {
				t.Fatalf("marker %d chain: abscissa %v not strictly increasing", start.Marker(), s)
			}
			sPrev = s
			if f.NextEdge(e) == nil {
				break
			}
		}
	}
}

// seedRing is a hand-built initializer for stitched-front tests.
type seedRing struct {
	edges   []*mesh.Edge
	isTwin  []bool
	markers []int
}

func (s *seedRing) Seed(int) ([]*mesh.Edge, []bool, []int) {
	return s.edges, s.isTwin, s.markers
}

func TestFront_Refine_SkipsTwinEdges(t *testing.T) {
	// Unit square whose bottom side is shared with an already meshed
	// neighbor: the seed for that side is the neighbor's boundary edge,
	// running in the opposite direction.
	dom := squareDomain(t, domain.Uniform(0.25))
	m := mesh.New()

	scratch := mesh.NewVertices()
	corners := []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	ringVerts := make([]*mesh.Vertex, 4)
	for i, c := range corners {
		ringVerts[i] = scratch.PushBack(c)
	}

	neighbor := mesh.NewEdgeList(mesh.OrientNone)
	shared, err := neighbor.AddEdge(ringVerts[1], ringVerts[0], 1) // reversed winding
	if err != nil {
		t.Fatalf("AddEdge(shared): %v", err)
	}
	own := mesh.NewEdgeList(mesh.OrientCCW)
	seeds := []*mesh.Edge{shared}
	for i := 1; i < 4; i++ {
		e, err := own.AddEdge(ringVerts[i], ringVerts[(i+1)%4], 1)
		if err != nil {
			t.Fatalf("AddEdge(%d): %v", i, err)
		}
		seeds = append(seeds, e)
	}

	f := New()
	init := &seedRing{
		edges:   seeds,
		isTwin:  []bool{true, false, false, false},
		markers: []int{1, 1, 1, 1},
	}
	if err := f.Init(dom, init, m.Vertices()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// Three sides split into 4 edges, the twin side stays whole.
	if f.Len() != 13 {
		t.Errorf("Len() = %d, want 13 (3 refined sides + 1 twin)", f.Len())
	}

	var twin *mesh.Edge
	for _, e := range f.Edges().Edges() {
		if e.Twin() != nil {
			twin = e
		}
	}
	if twin == nil {
		t.Fatalf("no twin-bound edge on the front")
	}
	if math.Abs(twin.Length()-1.0) > 1e-12 {
		t.Errorf("twin edge length = %v, want 1.0 (unrefined)", twin.Length())
	}
	if twin.Twin().Twin() != twin {
		t.Errorf("twin link not symmetric after refinement")
	}
}

func TestFront_CursorWrap(t *testing.T) {
	dom := squareDomain(t, domain.Uniform(0.25))
	f, _ := initFront(t, dom)

	f.SetBaseFirst()
	start := f.Base()
	for i := 0; i < f.Len(); i++ {
		f.SetBaseNext()
	}
	if f.Base() != start {
		t.Errorf("cursor did not return to start after %d steps", f.Len())
	}

	// From an arbitrary starting edge as well.
	f.SetBase(start.Next().Next())
	mid := f.Base()
	for i := 0; i < f.Len(); i++ {
		f.SetBaseNext()
	}
	if f.Base() != mid {
		t.Errorf("cursor did not wrap from a mid-ring start")
	}
}

func TestFront_SortEdges(t *testing.T) {
	dom := squareDomain(t, domain.Linear(0.1, 0.4, 0))
	f, _ := initFront(t, dom)

	f.SortEdges(true)

	if f.Base() != f.Edges().First() {
		t.Errorf("sort did not reset the base cursor")
	}
	prev := -1.0
	for _, e := range f.Edges().Edges() {
		if e.Length() < prev {
			t.Fatalf("edges not ascending after SortEdges(true)")
		}
		prev = e.Length()
	}
}

func TestFront_EdgeAt(t *testing.T) {
	dom := squareDomain(t, domain.Uniform(1))
	f, _ := initFront(t, dom)

	e := f.Edges().First()
	if got := f.EdgeAt(e.V1(), 1); got != e {
		t.Errorf("EdgeAt(v1, 1) = %v, want first edge", got)
	}
	if got := f.EdgeAt(e.V1(), 2); got == nil || got.V2() != e.V1() {
		t.Errorf("EdgeAt(v1, 2) did not return the predecessor")
	}
}

func TestFront_IsTraversable(t *testing.T) {
	dom := squareDomain(t, domain.Uniform(1))
	f, _ := initFront(t, dom)

	a := f.Edges().First()
	b := f.NextEdge(f.NextEdge(a))

	if !f.IsTraversable(a, b) {
		t.Errorf("IsTraversable(a, a+2) = false, want true")
	}
	if !f.IsTraversable(a, a) {
		t.Errorf("IsTraversable(a, a) = false, want true")
	}
}

func TestFront_IsTraversable_DisjointRings(t *testing.T) {
	// Square with a square hole: two disjoint sub-rings.
	outer, err := domain.NewBoundary(
		[]geom.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}},
		[]int{1, 1, 1, 1}, false)
	if err != nil {
		t.Fatalf("NewBoundary(outer): %v", err)
	}
	hole, err := domain.NewBoundary(
		[]geom.Vec2{{X: 1, Y: 1}, {X: 1, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 1}},
		[]int{2, 2, 2, 2}, true)
	if err != nil {
		t.Fatalf("NewBoundary(hole): %v", err)
	}
	dom := domain.New(domain.Uniform(10))
	dom.AddBoundary(outer)
	dom.AddBoundary(hole)

	f, _ := initFront(t, dom)

	var onOuter, onHole *mesh.Edge
	for _, e := range f.Edges().Edges() {
		if e.Marker() == 1 && onOuter == nil {
			onOuter = e
		}
		if e.Marker() == 2 && onHole == nil {
			onHole = e
		}
	}
	if onOuter == nil || onHole == nil {
		t.Fatalf("missing sub-ring edges: outer %v, hole %v", onOuter, onHole)
	}
	if f.IsTraversable(onOuter, onHole) {
		t.Errorf("IsTraversable across disjoint rings = true, want false")
	}
}

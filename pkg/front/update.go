package front

import (
	"github.com/meshkit/quadgen/pkg/geom"
	"github.com/meshkit/quadgen/pkg/mesh"
)

// FrontUpdate commits candidate elements into the mesh and advances the
// front across them. Implementations must leave mesh and front unchanged
// when a candidate is rejected.
type FrontUpdate interface {
	// UpdateFront grows a triangle over base. The apex is an existing
	// on-front vertex within radius of preferred if one yields a valid
	// triangle, otherwise a new vertex created at fallback. On success the
	// triangle is committed and the front advanced (base removed, two new
	// front edges in winding order); on rejection nil is returned and all
	// bookkeeping rolled back.
	UpdateFront(base *mesh.Edge, preferred, fallback geom.Vec2, radius float64) *mesh.Triangle

	// RemoveIfInvalid validates an already added triangle and removes it
	// from the mesh when it violates the geometric constraints.
	// Returns true when the triangle was removed.
	RemoveIfInvalid(t *mesh.Triangle) bool

	// RemoveGroupIfInvalid validates a vertex with its two triangles as one
	// unit and removes all three when either triangle is invalid.
	// Returns true when the group was removed.
	RemoveGroupIfInvalid(v *mesh.Vertex, t1, t2 *mesh.Triangle) bool

	// AdvanceFront moves the front across base with the given apex after
	// triangle t has been validated: base leaves the front, covered front
	// edges become interior mesh edges, and uncovered triangle sides become
	// new front edges.
	AdvanceFront(base *mesh.Edge, apex *mesh.Vertex, t *mesh.Triangle)
}

// Advancer is the standard FrontUpdate over one mesh/front pair.
type Advancer struct {
	mesh  *mesh.Mesh
	front *Front
}

// NewAdvancer creates an Advancer for the given mesh and front.
func NewAdvancer(m *mesh.Mesh, f *Front) *Advancer {
	return &Advancer{mesh: m, front: f}
}

// UpdateFront implements [FrontUpdate].
func (a *Advancer) UpdateFront(base *mesh.Edge, preferred, fallback geom.Vec2, radius float64) *mesh.Triangle {
	if !base.InContainer() {
		return nil
	}

	// Existing on-front vertices near the preferred coordinate first,
	// nearest first.
	for _, cand := range a.apexCandidates(base, preferred, radius) {
		t := a.mesh.AddTriangle(base.V1(), base.V2(), cand)
		if a.isValid(t) {
			a.AdvanceFront(base, cand, t)
			t.SetActive(true)
			return t
		}
		a.mesh.RemoveTriangle(t)
	}

	// No usable neighbor: place a fresh vertex at the fallback coordinate.
	apex := a.mesh.AddVertex(fallback)
	t := a.mesh.AddTriangle(base.V1(), base.V2(), apex)
	if !a.isValid(t) {
		a.mesh.RemoveTriangle(t)
		a.mesh.RemoveVertex(apex)
		return nil
	}
	a.AdvanceFront(base, apex, t)
	t.SetActive(true)
	return t
}

// RemoveIfInvalid implements [FrontUpdate].
func (a *Advancer) RemoveIfInvalid(t *mesh.Triangle) bool {
	if a.isValid(t) {
		return false
	}
	a.mesh.RemoveTriangle(t)
	return true
}

// RemoveGroupIfInvalid implements [FrontUpdate].
func (a *Advancer) RemoveGroupIfInvalid(v *mesh.Vertex, t1, t2 *mesh.Triangle) bool {
	if a.isValid(t1) && a.isValid(t2) {
		return false
	}
	a.mesh.RemoveTriangle(t1)
	a.mesh.RemoveTriangle(t2)
	a.mesh.RemoveVertex(v)
	return true
}

// AdvanceFront implements [FrontUpdate].
func (a *Advancer) AdvanceFront(base *mesh.Edge, apex *mesh.Vertex, t *mesh.Triangle) {
	fe := a.front.Edges()
	v1, v2 := base.V1(), base.V2()

	// Side v1→apex: either an existing front edge apex→v1 gets covered and
	// turns interior, or a new front edge is opened.
	if covered := fe.GetEdge(apex, v1); covered != nil {
		a.retireFrontEdge(covered)
	} else {
		fe.InsertEdge(base, v1, apex, 0)
	}

	// Side apex→v2, mirrored.
	if covered := fe.GetEdge(v2, apex); covered != nil {
		a.retireFrontEdge(covered)
	} else {
		fe.InsertEdge(base, apex, v2, 0)
	}

	a.retireFrontEdge(base)

	a.front.dropOnFrontIfDetached(v1)
	a.front.dropOnFrontIfDetached(v2)
	a.front.dropOnFrontIfDetached(apex)
}

// retireFrontEdge removes a front edge that is now covered by elements.
// Unless the segment lies on a domain boundary or is stitched to a twin,
// it lives on as an interior mesh edge.
func (a *Advancer) retireFrontEdge(e *mesh.Edge) {
	v1, v2 := e.V1(), e.V2()
	twin := e.Twin()
	a.front.Edges().Remove(e)

	if twin != nil {
		return
	}
	// Both endpoints on the boundary means the segment is part of the
	// boundary polyline itself.
	if v1.OnBoundary() && v2.OnBoundary() {
		return
	}
	if a.mesh.InteriorEdges().GetEdgeAny(v1, v2) == nil {
		a.mesh.AddInteriorEdge(v1, v2)
	}
}

// apexCandidates returns the on-front vertices within radius of xy, nearest
// first, excluding the base endpoints.
func (a *Advancer) apexCandidates(base *mesh.Edge, xy geom.Vec2, radius float64) []*mesh.Vertex {
	seen := map[*mesh.Vertex]bool{base.V1(): true, base.V2(): true}
	rSqr := radius * radius

	var cands []*mesh.Vertex
	for _, e := range a.front.Edges().Edges() {
		for _, v := range []*mesh.Vertex{e.V1(), e.V2()} {
			if seen[v] {
				continue
			}
			seen[v] = true
			if v.XY().Sub(xy).NormSqr() <= rSqr {
				cands = append(cands, v)
			}
		}
	}

	// Nearest first; insertion sort is fine for the handful of hits.
	for i := 1; i < len(cands); i++ {
		for j := i; j > 0 && cands[j].XY().Sub(xy).NormSqr() < cands[j-1].XY().Sub(xy).NormSqr(); j-- {
			cands[j], cands[j-1] = cands[j-1], cands[j]
		}
	}
	return cands
}

// isValid checks a candidate triangle: positive area, no crossing of front
// or boundary edges, and no on-front vertex trapped strictly inside.
func (a *Advancer) isValid(t *mesh.Triangle) bool {
	p1, p2, p3 := t.V1().XY(), t.V2().XY(), t.V3().XY()

	if t.Area() <= geom.Eps {
		return false
	}

	crosses := func(l *mesh.EdgeList, hit func(p1, p2, q1, q2 geom.Vec2) bool) bool {
		for _, e := range l.Edges() {
			q1, q2 := e.V1().XY(), e.V2().XY()
			if hit(p1, p2, q1, q2) || hit(p2, p3, q1, q2) || hit(p3, p1, q1, q2) {
				return true
			}
		}
		return false
	}
	// Refined front vertices lie inside the unrefined boundary edges, so a
	// boundary edge only rejects a proper crossing, not a touch or overlap.
	opposite := func(x, y float64) bool { return (x > geom.Eps && y < -geom.Eps) || (x < -geom.Eps && y > geom.Eps) }
	properCross := func(p1, p2, q1, q2 geom.Vec2) bool {
		return opposite(geom.SideOfLine(q1, q2, p1), geom.SideOfLine(q1, q2, p2)) &&
			opposite(geom.SideOfLine(p1, p2, q1), geom.SideOfLine(p1, p2, q2))
	}
	if crosses(a.front.Edges(), geom.SegmentsIntersect) || crosses(a.mesh.BoundaryEdges(), properCross) {
		return false
	}

	for _, e := range a.front.Edges().Edges() {
		for _, v := range []*mesh.Vertex{e.V1(), e.V2()} {
			if v == t.V1() || v == t.V2() || v == t.V3() {
				continue
			}
			if geom.InTriangle(p1, p2, p3, v.XY()) {
				return false
			}
		}
	}

	return true
}

package front

import (
	"errors"

	"github.com/meshkit/quadgen/pkg/domain"
	"github.com/meshkit/quadgen/pkg/geom"
	"github.com/meshkit/quadgen/pkg/mesh"
)

// errNonMonotone rejects a refinement whose sub-vertices do not advance
// strictly along the edge. The edge is then left unrefined.
var errNonMonotone = errors.New("refinement abscissa not strictly increasing")

// maxRefineSteps bounds the predictor-corrector iteration against a size
// function that underestimates pathologically.
const maxRefineSteps = 100000

// Refine splits every twin-free front edge into sub-edges whose lengths
// follow the domain size function. Edges producing fewer than three
// sub-vertices are left untouched. Returns the net change in edge count;
// the cached ring area is recomputed afterwards.
func (f *Front) Refine(dom *domain.Domain, verts *mesh.Vertices) int {
	nBefore := f.edges.Len()

	// Twin edges are never refined.
	var toRefine []*mesh.Edge
	for _, e := range f.edges.Edges() {
		if e.Twin() == nil {
			toRefine = append(toRefine, e)
		}
	}

	// Refine first, remove the replaced edges afterwards; the scan must
	// not observe its own mutations.
	var toRemove []*mesh.Edge
	for _, e := range toRefine {
		if f.refineEdge(dom, verts, e) {
			toRemove = append(toRemove, e)
		}
	}
	for _, e := range toRemove {
		f.edges.Remove(e)
	}

	f.edges.ComputeArea()

	return f.edges.Len() - nBefore
}

// refineEdge replaces a single edge by a chain of sub-edges. Returns false
// when the edge is kept as is; the caller removes replaced edges.
func (f *Front) refineEdge(dom *domain.Domain, verts *mesh.Vertices, e *mesh.Edge) bool {
	rho1 := dom.SizeFunction(e.V1().XY())
	rho2 := dom.SizeFunction(e.V2().XY())

	// Walk from the endpoint with the smaller target length.
	dir := rho1 < rho2

	xyNew, err := subVertexCoords(dom, e, dir, rho1, rho2)
	if err != nil || len(xyNew) < 3 {
		return false
	}

	f.createSubEdges(e, xyNew, verts)
	return true
}

// subVertexCoords distributes new vertex coordinates along e according to
// the size function. The first entry is the walk start v_a (the endpoint
// with smaller ρ), the last is v_b; the result is returned in v1→v2 order
// regardless of walk direction.
func subVertexCoords(dom *domain.Domain, e *mesh.Edge, dir bool, rho1, rho2 float64) ([]geom.Vec2, error) {
	vA, vB := e.V2().XY(), e.V1().XY()
	tang := e.Tangent().Scale(-1)
	rhoB := rho1
	if dir {
		vA, vB = e.V1().XY(), e.V2().XY()
		tang = e.Tangent()
		rhoB = rho2
	}
	length := e.Length()

	xyNew := []geom.Vec2{vA}
	sLast := 0.0

	// No new points beyond this abscissa; the remainder is absorbed by v_b.
	sEnd := 1.0 - 0.5*rhoB/length

	xy := vA
	for i := 0; i < maxRefineSteps; i++ {
		// Predictor
		rho := dom.SizeFunction(xy)
		if rho <= 0 {
			return nil, errors.New("size function must be positive")
		}
		xyP := xy.Add(tang.Scale(rho))

		// Corrector
		rhoP := dom.SizeFunction(xyP)
		xyC := xy.Add(tang.Scale(0.5 * (rho + rhoP)))

		s := xyC.Sub(vA).Norm() / length

		xyNew = append(xyNew, xyC)
		sLast = s
		xy = xyC

		if s > sEnd {
			break
		}
	}

	// Snap the last point onto v_b and spread the cropped remainder over
	// the interior points, weighted by their local size.
	xyNew[len(xyNew)-1] = vB

	dCrop := tang.Scale((1.0 - sLast) * length)

	weights := make([]float64, len(xyNew))
	var total float64
	for i := 1; i < len(xyNew)-1; i++ {
		weights[i] = dom.SizeFunction(xyNew[i])
		total += weights[i]
	}
	if total > 0 {
		for i := 1; i < len(xyNew)-1; i++ {
			xyNew[i] = xyNew[i].Add(dCrop.Scale(weights[i] / total))
		}
	}

	// All points must advance strictly along v_a→v_b.
	sPrev := 0.0
	for i := 1; i < len(xyNew); i++ {
		s := xyNew[i].Sub(xyNew[0]).Norm()
		if s <= sPrev {
			return nil, errNonMonotone
		}
		sPrev = s
	}

	if !dir {
		for i, j := 0, len(xyNew)-1; i < j; i, j = i+1, j-1 {
			xyNew[i], xyNew[j] = xyNew[j], xyNew[i]
		}
	}

	return xyNew, nil
}

// createSubEdges inserts the chain of sub-edges (and their vertices) in
// place of e, inheriting e's marker. The old edge is not removed here.
func (f *Front) createSubEdges(e *mesh.Edge, xyNew []geom.Vec2, verts *mesh.Vertices) {
	vCur := e.V1()

	for i := 1; i < len(xyNew)-1; i++ {
		vN := verts.Insert(e.V2(), xyNew[i])

		// New front vertices are pinned so grid smoothing cannot move them.
		vN.SetFixed(true)

		eNew, err := f.edges.InsertEdge(e, vCur, vN, e.Marker())
		if err != nil {
			continue
		}
		eNew.V1().SetOnBoundary(true)
		eNew.V2().SetOnBoundary(true)

		vCur = vN
	}

	if eNew, err := f.edges.InsertEdge(e, vCur, e.V2(), e.Marker()); err == nil {
		eNew.V1().SetOnBoundary(true)
		eNew.V2().SetOnBoundary(true)
	}
}

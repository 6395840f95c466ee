package front

import (
	"math"

	"github.com/meshkit/quadgen/pkg/domain"
	qerrors "github.com/meshkit/quadgen/pkg/errors"
	"github.com/meshkit/quadgen/pkg/geom"
	"github.com/meshkit/quadgen/pkg/mesh"
)

// QuadLayer describes one ribbon of quadrilaterals to be grown over a
// contiguous span of front edges.
//
//	 projV1XY[0]      projV1XY[1]       projV1XY[2]
//	   ^----------------^-----------------^-------...
//	   |                |                 |
//	   |    bases[0]    |     bases[1]    |
//	   o----------------o-----------------o-------...
//	 baseV1[0]        baseV1[1]         baseV1[2]
//	                  baseV2[0]         baseV2[1]
//
// The parallel arrays hold, per base edge, the two projected target
// coordinates, the effective layer height, and (once real vertices have
// been committed) the projected vertex references. A joint between two
// bases either shares one projected coordinate (a quad joint) or keeps two
// distinct ones (a wedge, closed later by a gap triangle).
type QuadLayer struct {
	eStart *mesh.Edge
	eEnd   *mesh.Edge
	closed bool
	height float64
	angle  float64 // wedge threshold at interior joints

	bases  []*mesh.Edge
	baseV1 []*mesh.Vertex
	baseV2 []*mesh.Vertex

	projV1 []*mesh.Vertex
	projV2 []*mesh.Vertex

	projV1XY []geom.Vec2
	projV2XY []geom.Vec2

	heights []float64
}

// NewQuadLayer walks the front from eStart until eEnd has been included,
// accumulating the span arrays. The walk follows ring successors and must
// not wrap past eEnd; a walk that returns to eStart or runs off the ring
// means the front structure is corrupted.
func NewQuadLayer(f *Front, eStart, eEnd *mesh.Edge, closed bool, height, angle float64) (*QuadLayer, error) {
	q := &QuadLayer{
		eStart: eStart,
		eEnd:   eEnd,
		closed: closed,
		height: height,
		angle:  angle,
	}

	eCur := eStart
	for {
		q.addBase(eCur)
		if eCur == eEnd {
			break
		}
		eCur = f.NextEdge(eCur)
		if eCur == nil || eCur == eStart {
			return nil, qerrors.New(qerrors.ErrCodeStructural,
				"quad layer walk left the front ring before reaching its end edge")
		}
	}

	return q, nil
}

// NBases returns the span length.
func (q *QuadLayer) NBases() int { return len(q.bases) }

// IsClosed reports whether the span covers the whole ring.
func (q *QuadLayer) IsClosed() bool { return q.closed }

// Heights returns the per-base effective heights.
func (q *QuadLayer) Heights() []float64 { return q.heights }

// addBase appends one front edge to the span arrays.
func (q *QuadLayer) addBase(e *mesh.Edge) {
	q.bases = append(q.bases, e)
	q.baseV1 = append(q.baseV1, e.V1())
	q.baseV2 = append(q.baseV2, e.V2())

	// Clamp the height to the base length to keep the aspect ratio sane.
	h := math.Min(q.height, e.Length())
	q.heights = append(q.heights, h)

	n := e.Normal()
	q.projV1XY = append(q.projV1XY, e.V1().XY().Add(n.Scale(h)))
	q.projV2XY = append(q.projV2XY, e.V2().XY().Add(n.Scale(h)))

	q.projV1 = append(q.projV1, nil)
	q.projV2 = append(q.projV2, nil)
}

// SmoothHeights relaxes the interior heights with a three-point average,
// capped by the local size function at the base midpoint. The endpoints
// are left untouched.
func (q *QuadLayer) SmoothHeights(dom *domain.Domain) {
	for i := 1; i < len(q.heights)-1; i++ {
		h1 := q.heights[i-1]
		h2 := q.heights[i]
		h3 := q.heights[i+1]

		rho := dom.SizeFunction(q.bases[i].XY())
		q.heights[i] = math.Min(rho, (h1+h2+h3)/3.0)
	}
}

// SetupVertexProjection reconciles the projected coordinates at every
// interior joint, and for open layers also resolves the two span ends
// against their adjacent front edges (which may refine those edges).
func (q *QuadLayer) SetupVertexProjection(m *mesh.Mesh, f *Front) error {
	for i := 1; i < len(q.bases); i++ {
		q.adjustProjectedVertexCoords(i-1, i)
	}

	if q.closed {
		q.adjustProjectedVertexCoords(len(q.bases)-1, 0)
		return nil
	}

	if err := q.placeStartVertex(m, f); err != nil {
		return err
	}
	return q.placeEndVertex(m, f)
}

// adjustProjectedVertexCoords merges the projected vertices of the
// adjacent bases i and j onto one shared coordinate, unless the corner
// between them opens sharply to the left, in which case the joint stays a
// wedge and keeps the two independent projections from construction time.
//
//	             q                    r
//	              o------------------o
//	             /      bases[j]
//	            /
//	           /  bases[i]
//	          /
//	         o p
func (q *QuadLayer) adjustProjectedVertexCoords(i, j int) {
	p := q.baseV1[i].XY()
	qq := q.baseV1[j].XY()
	r := q.baseV2[j].XY()

	alpha := geom.Angle(p.Sub(qq), r.Sub(qq))

	// Too far apart: keep the wedge, a gap triangle will close it later.
	if geom.IsLeft(p, r, qq) && alpha <= q.angle {
		return
	}

	n1 := q.bases[i].Normal()
	l1 := q.heights[i]

	n2 := q.bases[j].Normal()
	l2 := q.heights[j]

	nn := n1.Add(n2).Scale(0.5).Normalized()
	l := 0.5 * (l1 + l2)

	sin := math.Sin(0.5 * alpha)
	if sin < geom.Eps {
		return
	}

	xyProj := qq.Add(nn.Scale(l / sin))

	q.projV1XY[j] = xyProj
	q.projV2XY[i] = xyProj
}

// placeStartVertex resolves the starting end of an open layer against the
// front edge preceding the span.
//
// Three cases, driven by the previous vertex v_prev:
//   - v_prev closer to the projection than one layer height: reuse it.
//   - the projection falls within the previous edge: split that edge and
//     project onto it, patching the boundary-edge list if it mirrors the
//     split edge.
//   - otherwise: clamp the projection onto v_prev itself.
func (q *QuadLayer) placeStartVertex(m *mesh.Mesh, f *Front) error {
	ePrv := f.PrevEdge(q.eStart)
	vStart := q.baseV1[0]

	if ePrv == nil || ePrv.V2() != vStart {
		return qerrors.New(qerrors.ErrCodeStructural,
			"advancing front is not a connected ring at the quad layer start")
	}

	vPrev := ePrv.V1()

	// A previous vertex to the right of the starting base keeps the
	// default projection.
	if !geom.IsLeft(q.baseV1[0].XY(), q.baseV2[0].XY(), vPrev.XY()) {
		return nil
	}

	h := q.heights[0]
	dFac := vPrev.XY().Sub(q.projV1XY[0]).Norm() / h

	if dFac < 1.0 {
		q.projV1[0] = vPrev
		return nil
	}

	if h < ePrv.Length() {
		d1 := vPrev.XY().Sub(vStart.XY())
		d2 := q.projV1XY[0].Sub(vStart.XY())
		angFac := math.Cos(geom.Angle(d1, d2))

		sf := (h * angFac) / ePrv.Length()

		if v, err := splitAdjacentEdge(m, f, ePrv, sf); err == nil {
			q.projV1[0] = v
			q.projV1XY[0] = v.XY()
			return nil
		}
		// Degenerate split parameter: fall through to the clamp case.
	}

	q.projV1[0] = vPrev
	q.projV1XY[0] = vPrev.XY()
	return nil
}

// placeEndVertex mirrors placeStartVertex over the edge following the span.
func (q *QuadLayer) placeEndVertex(m *mesh.Mesh, f *Front) error {
	eNxt := f.NextEdge(q.eEnd)
	last := len(q.bases) - 1
	vEnd := q.baseV2[last]

	if eNxt == nil || eNxt.V1() != vEnd {
		return qerrors.New(qerrors.ErrCodeStructural,
			"advancing front is not a connected ring at the quad layer end")
	}

	vNext := eNxt.V2()

	if !geom.IsLeft(q.baseV1[last].XY(), q.baseV2[last].XY(), vNext.XY()) {
		return nil
	}

	h := q.heights[last]
	dFac := vNext.XY().Sub(q.projV2XY[last]).Norm() / h

	if dFac < 1.0 {
		q.projV2[last] = vNext
		return nil
	}

	if h < eNxt.Length() {
		d1 := vNext.XY().Sub(vEnd.XY())
		d2 := q.projV2XY[last].Sub(vEnd.XY())
		angFac := math.Cos(geom.Angle(d1, d2))

		sf := 1.0 - (h*angFac)/eNxt.Length()

		if v, err := splitAdjacentEdge(m, f, eNxt, sf); err == nil {
			q.projV2[last] = v
			q.projV2XY[last] = v.XY()
			return nil
		}
	}

	q.projV2[last] = vNext
	q.projV2XY[last] = vNext.XY()
	return nil
}

// splitAdjacentEdge splits a front edge next to a span end at parameter sf
// and returns the new vertex. When the boundary-edge list mirrors the
// edge, the mirror is replaced by the two split halves at its original
// list position, keeping the marker.
func splitAdjacentEdge(m *mesh.Mesh, f *Front, e *mesh.Edge, sf float64) (*mesh.Vertex, error) {
	if sf <= 0 || sf >= 1 {
		return nil, mesh.ErrSplitParam
	}

	bdry := m.BoundaryEdges()

	mirrored := false
	mirrorMarker := 0
	var insertPos *mesh.Edge
	if mirror := bdry.GetEdge(e.V1(), e.V2()); mirror != nil {
		mirrored = true
		mirrorMarker = mirror.Marker()
		insertPos = mirror.Next()
		bdry.Remove(mirror)
	}

	eA, eB, err := f.Edges().SplitEdge(e, m.Vertices(), sf, false)
	if err != nil {
		return nil, err
	}

	if mirrored {
		if insertPos != nil && insertPos.InContainer() {
			bdry.InsertEdge(insertPos, eA.V1(), eA.V2(), mirrorMarker)
			bdry.InsertEdge(insertPos, eB.V1(), eB.V2(), mirrorMarker)
		} else {
			bdry.AddEdge(eA.V1(), eA.V2(), mirrorMarker)
			bdry.AddEdge(eB.V1(), eB.V2(), mirrorMarker)
		}
	}

	return eA.V2(), nil
}

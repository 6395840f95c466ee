package front

import (
	"math"

	"github.com/meshkit/quadgen/pkg/domain"
	qerrors "github.com/meshkit/quadgen/pkg/errors"
	"github.com/meshkit/quadgen/pkg/geom"
	"github.com/meshkit/quadgen/pkg/mesh"
	"github.com/meshkit/quadgen/pkg/observability"
)

// Config holds the quad-layering parameters.
type Config struct {
	// NLayers is the number of layer generations to grow.
	NLayers int
	// FirstHeight is the target thickness of the first layer.
	FirstHeight float64
	// GrowthRate scales the height from one layer to the next.
	GrowthRate float64
	// Start and End anchor the span: the nearest front vertices become the
	// span endpoints. Equal anchors produce a closed layer.
	Start geom.Vec2
	End   geom.Vec2

	// LayerAngle is the wedge threshold at joints and the gap-fill
	// decision angle.
	LayerAngle float64
	// LayerRange scales the per-base search radius for reusable projected
	// vertices.
	LayerRange float64
}

// DefaultConfig returns a config with the standard angle (π/2) and search
// range (0.75) and a growth rate of 1.
func DefaultConfig() Config {
	return Config{
		GrowthRate: 1.0,
		LayerAngle: 0.5 * math.Pi,
		LayerRange: 0.75,
	}
}

// withDefaults fills unset tuning fields.
func (c Config) withDefaults() Config {
	if c.LayerAngle == 0 {
		c.LayerAngle = 0.5 * math.Pi
	}
	if c.LayerRange == 0 {
		c.LayerRange = 0.75
	}
	if c.GrowthRate == 0 {
		c.GrowthRate = 1.0
	}
	return c
}

// Layering grows ribbons of quadrilaterals inward from the domain
// boundary, one layer generation at a time. Each layer commits a pair of
// triangles per base edge, merges them into a quad, closes the remaining
// gaps with triangles, and advances the span anchors onto the projected
// vertices for the next generation.
type Layering struct {
	mesh   *mesh.Mesh
	dom    *domain.Domain
	init   Initializer
	front  *Front
	update FrontUpdate
	cfg    Config

	xyStart geom.Vec2
	xyEnd   geom.Vec2
}

// NewLayering creates the driver. The front and its updater are owned by
// the driver for the duration of the run.
func NewLayering(m *mesh.Mesh, dom *domain.Domain, init Initializer, cfg Config) *Layering {
	f := New()
	return &Layering{
		mesh:    m,
		dom:     dom,
		init:    init,
		front:   f,
		update:  NewAdvancer(m, f),
		cfg:     cfg.withDefaults(),
		xyStart: cfg.Start,
		xyEnd:   cfg.End,
	}
}

// Front returns the driver's advancing front. It is emptied on success.
func (l *Layering) Front() *Front { return l.front }

// GenerateElements runs the full layering pass. Returns true when every
// requested layer was generated; a false return leaves all work committed
// so far in a consistent partial mesh. The error is non-nil only for
// structural failures of the input data.
func (l *Layering) GenerateElements() (bool, error) {
	if l.mesh.NBoundaryEdges() < 1 {
		return false, qerrors.New(qerrors.ErrCodeInvalidGeometry, "mesh has no boundary edges")
	}

	mesh.SetupFacetConnectivity(l.mesh)

	// The front is initialized without pre-sorting by length: the span
	// walk relies on boundary order.
	if err := l.front.Init(l.dom, l.init, l.mesh.Vertices()); err != nil {
		return false, err
	}
	observability.Meshing().OnFrontInit(l.front.Len())

	mesh.RemoveInvalidEdges(l.mesh)

	height := l.cfg.FirstHeight
	success := true
	for i := 0; i < l.cfg.NLayers; i++ {
		observability.Meshing().OnLayerStart(i, height)
		ok := l.generateQuadLayer(height)
		observability.Meshing().OnLayerComplete(i, l.mesh.NActiveQuads(), ok)

		if !ok {
			success = false
			break
		}
		height *= l.cfg.GrowthRate
	}

	mesh.FinishMesh(l.mesh)
	l.front.Clear()

	return success, nil
}

// generateQuadLayer grows one layer of the given height. A false return is
// a layer rejection: the driver stops further layers but keeps everything
// committed so far.
func (l *Layering) generateQuadLayer(height float64) bool {
	vStart, vEnd := l.findAnchorVertices()
	if vStart == nil || vEnd == nil {
		return false
	}

	eStart := l.front.EdgeAt(vStart, 1)
	eEnd := l.front.EdgeAt(vEnd, 2)
	if eStart == nil || eEnd == nil {
		return false
	}
	if eStart.V1() != vStart || eEnd.V2() != vEnd {
		return false
	}

	if !l.front.IsTraversable(eStart, eEnd) {
		return false
	}

	isClosed := vStart == vEnd

	// Closed layers should not start at a sharp corner: rotate the span by
	// one edge when the tail angle is at most the layer angle.
	if isClosed {
		v1 := eEnd.V1().XY()
		v2 := eEnd.V2().XY()
		v3 := eStart.V2().XY()

		ang := geom.Angle(v1.Sub(v2), v3.Sub(v2))

		if eNext := l.front.NextEdge(eStart); eNext != nil && ang <= l.cfg.LayerAngle {
			eEnd = eStart
			eStart = eNext
		}
	}

	ql, err := NewQuadLayer(l.front, eStart, eEnd, isClosed, height, l.cfg.LayerAngle)
	if err != nil {
		return false
	}
	ql.SmoothHeights(l.dom)
	if err := ql.SetupVertexProjection(l.mesh, l.front); err != nil {
		return false
	}

	l.createQuadLayerElements(ql)
	l.finishQuadLayer(ql)

	l.mesh.ClearWaste()

	return l.advanceAnchors(ql)
}

// findAnchorVertices scans the front once for the vertices closest to the
// current span anchors.
func (l *Layering) findAnchorVertices() (*mesh.Vertex, *mesh.Vertex) {
	var vStart, vEnd *mesh.Vertex
	dStartMin := math.Inf(1)
	dEndMin := math.Inf(1)

	for _, e := range l.front.Edges().Edges() {
		v1 := e.V1()
		dStart := l.xyStart.Sub(v1.XY()).NormSqr()
		dEnd := l.xyEnd.Sub(v1.XY()).NormSqr()

		if dStart < dStartMin {
			vStart = v1
			dStartMin = dStart
		}
		if dEnd < dEndMin {
			vEnd = v1
			dEndMin = dEnd
		}
	}
	return vStart, vEnd
}

// createQuadLayerElements grows, per base edge, a triangle pair over the
// projected coordinates and merges each pair into a quad:
//
//	 p1            p2
//	x-------------x-------------
//	| \           | \          |
//	|   \         |   \        |
//	|     \       |     \      |
//	|       \     |       \    |
//	|  base   \   |         \  |
//	x-------------x------------x
//	 b1            b2
//
// Bases whose commits fail are skipped silently; the gap pass closes what
// it can afterwards.
func (l *Layering) createQuadLayerElements(ql *QuadLayer) {
	n := ql.NBases()

	for i := 0; i < n; i++ {
		// Search radius for reusable vertices near the projections.
		r := l.cfg.LayerRange * ql.heights[i]

		base := ql.bases[i]
		if !base.InContainer() {
			continue
		}

		t1 := l.update.UpdateFront(base, ql.projV1XY[i], ql.projV1XY[i], r)
		if t1 == nil {
			continue
		}
		ql.projV1[i] = t1.V3()

		base = l.front.Edges().GetEdge(ql.projV1[i], ql.baseV2[i])
		if base == nil {
			continue
		}

		t2 := l.update.UpdateFront(base, ql.projV2XY[i], ql.projV2XY[i], r)
		if t2 == nil {
			continue
		}
		ql.projV2[i] = t2.V3()

		// Merge the pair: drop the bridging interior edge, retire both
		// triangles, and put the quad in their place.
		eRem := l.mesh.InteriorEdges().GetEdgeAny(ql.baseV2[i], ql.projV1[i])
		if eRem == nil {
			continue
		}
		l.mesh.RemoveInteriorEdge(eRem)

		l.mesh.RemoveTriangle(t1)
		l.mesh.RemoveTriangle(t2)

		q := l.mesh.AddQuad(ql.baseV1[i], ql.baseV2[i], ql.projV2[i], ql.projV1[i])
		q.SetActive(true)
		observability.Meshing().OnElementCommit("quad")
	}
}

// finishQuadLayer closes the gaps left between neighboring bases whose
// projected vertices stayed distinct (wedges and failed merges):
//
//	            p1[i]
//	    v      x
//	   x       :
//	           :
//	p2[i-1]    :
//	 x.........x-------------x
//	           | b1[i]        b2[i]
//	           |
//	           x
//
// A gap no wider than the layer angle gets a single triangle; a wider one
// gets a new vertex and two triangles.
func (l *Layering) finishQuadLayer(ql *QuadLayer) {
	n := ql.NBases()

	for i := 1; i < n; i++ {
		if ql.projV1[i] == nil || ql.projV2[i-1] == nil || ql.projV1[i] == ql.projV2[i-1] {
			continue
		}

		a := ql.projV2[i-1]
		b := ql.baseV1[i]
		c := ql.projV1[i]

		l1 := a.XY().Sub(b.XY())
		l2 := c.XY().Sub(b.XY())
		alpha := geom.Angle(l1, l2)

		if alpha <= l.cfg.LayerAngle {
			// Close the gap with a single triangle (a, b, c).
			t := l.mesh.AddTriangle(a, b, c)

			if !l.update.RemoveIfInvalid(t) {
				if base := l.front.Edges().GetEdge(b, c); base != nil {
					l.update.AdvanceFront(base, a, t)
				}
				t.SetActive(true)
				observability.Meshing().OnElementCommit("triangle")
			}
			continue
		}

		// Wide gap: park a new vertex across the corner and close with two
		// triangles.
		vNew := l.mesh.AddVertex(b.XY().Add(l1).Add(l2))

		t1 := l.mesh.AddTriangle(a, b, vNew)
		t2 := l.mesh.AddTriangle(b, c, vNew)

		if !l.update.RemoveGroupIfInvalid(vNew, t1, t2) {
			if base := l.front.Edges().GetEdge(a, b); base != nil {
				l.update.AdvanceFront(base, vNew, t1)
			}
			if base := l.front.Edges().GetEdge(b, c); base != nil {
				l.update.AdvanceFront(base, vNew, t2)
			}
			vNew.SetFixed(true)
			t1.SetActive(true)
			t2.SetActive(true)
			observability.Meshing().OnElementCommit("triangle")
			observability.Meshing().OnElementCommit("triangle")
		}
	}
}

// advanceAnchors walks the projected vertices for the first pair that is
// still on the front and moves the span anchors there. Failing to find one
// rejects the layer.
func (l *Layering) advanceAnchors(ql *QuadLayer) bool {
	n := ql.NBases()

	for i := 0; i < n; i++ {
		vStartIn := ql.projV1[i]
		if vStartIn == nil || !vStartIn.OnFront() {
			continue
		}

		vEndIn := vStartIn
		if !ql.IsClosed() {
			vEndIn = ql.projV2[((i-1)%n+n)%n]
			if vEndIn == nil || !vEndIn.OnFront() {
				continue
			}
		}

		l.xyStart = vStartIn.XY()
		l.xyEnd = vEndIn.XY()
		return true
	}

	return false
}

package mesh

import "github.com/meshkit/quadgen/pkg/geom"

// Mesh is the container-level mesh: a vertex store, the interior and
// boundary edge lists, and the active triangle and quad sets.
//
// Removal of facets is deferred: RemoveTriangle and RemoveQuad only mark
// the element as waste, and [Mesh.ClearWaste] sweeps everything marked
// since the last call. Edge removal is immediate (edge lists own their
// edges), but twin back-pointers are nulled before destruction.
type Mesh struct {
	verts     *Vertices
	intEdges  *EdgeList
	bdryEdges *EdgeList

	tris  []*Triangle
	quads []*Quad
}

// New creates an empty mesh.
func New() *Mesh {
	return &Mesh{
		verts:     NewVertices(),
		intEdges:  NewEdgeList(OrientNone),
		bdryEdges: NewEdgeList(OrientCCW),
	}
}

// Vertices returns the vertex container.
func (m *Mesh) Vertices() *Vertices { return m.verts }

// InteriorEdges returns the interior edge list.
func (m *Mesh) InteriorEdges() *EdgeList { return m.intEdges }

// BoundaryEdges returns the boundary edge list.
func (m *Mesh) BoundaryEdges() *EdgeList { return m.bdryEdges }

// NBoundaryEdges returns the number of boundary edges.
func (m *Mesh) NBoundaryEdges() int { return m.bdryEdges.Len() }

// AddVertex appends a new vertex at the given coordinates.
func (m *Mesh) AddVertex(xy geom.Vec2) *Vertex { return m.verts.PushBack(xy) }

// AddTriangle creates an inactive triangle over the given corners.
func (m *Mesh) AddTriangle(a, b, c *Vertex) *Triangle {
	t := &Triangle{v1: a, v2: b, v3: c}
	m.tris = append(m.tris, t)
	return t
}

// AddQuad creates an inactive quadrilateral over the given corners.
func (m *Mesh) AddQuad(a, b, c, d *Vertex) *Quad {
	q := &Quad{v1: a, v2: b, v3: c, v4: d}
	m.quads = append(m.quads, q)
	return q
}

// RemoveTriangle marks the triangle as waste. It disappears from the
// active set at the next [Mesh.ClearWaste].
func (m *Mesh) RemoveTriangle(t *Triangle) { t.waste = true }

// RemoveQuad marks the quad as waste.
func (m *Mesh) RemoveQuad(q *Quad) { q.waste = true }

// RemoveVertex marks the vertex as waste.
func (m *Mesh) RemoveVertex(v *Vertex) { m.verts.MarkWaste(v) }

// AddInteriorEdge appends an interior edge v1→v2 with marker 0.
func (m *Mesh) AddInteriorEdge(v1, v2 *Vertex) (*Edge, error) {
	return m.intEdges.AddEdge(v1, v2, 0)
}

// RemoveInteriorEdge destroys the given interior edge.
func (m *Mesh) RemoveInteriorEdge(e *Edge) { m.intEdges.Remove(e) }

// Triangles returns the live triangles (including inactive ones that have
// not been swept yet).
func (m *Mesh) Triangles() []*Triangle {
	out := make([]*Triangle, 0, len(m.tris))
	for _, t := range m.tris {
		if !t.waste {
			out = append(out, t)
		}
	}
	return out
}

// Quads returns the live quadrilaterals.
func (m *Mesh) Quads() []*Quad {
	out := make([]*Quad, 0, len(m.quads))
	for _, q := range m.quads {
		if !q.waste {
			out = append(out, q)
		}
	}
	return out
}

// NActiveTriangles returns the number of active triangles.
func (m *Mesh) NActiveTriangles() int {
	n := 0
	for _, t := range m.tris {
		if !t.waste && t.active {
			n++
		}
	}
	return n
}

// NActiveQuads returns the number of active quadrilaterals.
func (m *Mesh) NActiveQuads() int {
	n := 0
	for _, q := range m.quads {
		if !q.waste && q.active {
			n++
		}
	}
	return n
}

// ClearWaste destroys every entity marked as waste since the last sweep.
func (m *Mesh) ClearWaste() {
	live := m.tris[:0]
	for _, t := range m.tris {
		if !t.waste {
			live = append(live, t)
		}
	}
	m.tris = live

	liveQ := m.quads[:0]
	for _, q := range m.quads {
		if !q.waste {
			liveQ = append(liveQ, q)
		}
	}
	m.quads = liveQ

	m.verts.sweep()
}

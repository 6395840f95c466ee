package mesh

import "github.com/meshkit/quadgen/pkg/geom"

// Facet is a mesh element: a triangle or a quadrilateral.
type Facet interface {
	// Vertices returns the corner vertices in CCW order.
	Vertices() []*Vertex
	// NVertices returns the corner count (3 or 4).
	NVertices() int
	// IsActive reports whether the facet is part of the final mesh.
	IsActive() bool
	// SetActive marks or unmarks the facet as part of the final mesh.
	SetActive(bool)
	// Area returns the signed area of the facet polygon.
	Area() float64
}

// Triangle is a three-cornered facet.
type Triangle struct {
	v1, v2, v3 *Vertex
	active     bool
	waste      bool
}

// V1 returns the first corner.
func (t *Triangle) V1() *Vertex { return t.v1 }

// V2 returns the second corner.
func (t *Triangle) V2() *Vertex { return t.v2 }

// V3 returns the third corner: the apex when the triangle was grown over
// a front base edge v1→v2.
func (t *Triangle) V3() *Vertex { return t.v3 }

// Vertices returns the corners in CCW order.
func (t *Triangle) Vertices() []*Vertex { return []*Vertex{t.v1, t.v2, t.v3} }

// NVertices returns 3.
func (t *Triangle) NVertices() int { return 3 }

// IsActive reports whether the triangle is part of the final mesh.
func (t *Triangle) IsActive() bool { return t.active }

// SetActive marks or unmarks the triangle as part of the final mesh.
func (t *Triangle) SetActive(b bool) { t.active = b }

// Area returns the signed area of the triangle.
func (t *Triangle) Area() float64 {
	return geom.TriangleArea(t.v1.xy, t.v2.xy, t.v3.xy)
}

// InContainer reports whether the triangle has not been marked as waste.
func (t *Triangle) InContainer() bool { return !t.waste }

// Quad is a four-cornered facet.
type Quad struct {
	v1, v2, v3, v4 *Vertex
	active         bool
	waste          bool
}

// V1 returns the first corner.
func (q *Quad) V1() *Vertex { return q.v1 }

// V2 returns the second corner.
func (q *Quad) V2() *Vertex { return q.v2 }

// V3 returns the third corner.
func (q *Quad) V3() *Vertex { return q.v3 }

// V4 returns the fourth corner.
func (q *Quad) V4() *Vertex { return q.v4 }

// Vertices returns the corners in CCW order.
func (q *Quad) Vertices() []*Vertex { return []*Vertex{q.v1, q.v2, q.v3, q.v4} }

// NVertices returns 4.
func (q *Quad) NVertices() int { return 4 }

// IsActive reports whether the quad is part of the final mesh.
func (q *Quad) IsActive() bool { return q.active }

// SetActive marks or unmarks the quad as part of the final mesh.
func (q *Quad) SetActive(b bool) { q.active = b }

// Area returns the signed area of the quadrilateral.
func (q *Quad) Area() float64 {
	return geom.QuadArea(q.v1.xy, q.v2.xy, q.v3.xy, q.v4.xy)
}

// InContainer reports whether the quad has not been marked as waste.
func (q *Quad) InContainer() bool { return !q.waste }

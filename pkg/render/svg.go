// Package render produces visual artifacts from generated meshes: a direct
// SVG drawing of the elements, and a Graphviz view of the element
// adjacency for connectivity debugging.
package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/meshkit/quadgen/pkg/geom"
	"github.com/meshkit/quadgen/pkg/mesh"
)

// SVGOptions controls the mesh drawing.
type SVGOptions struct {
	// Scale converts model units to pixels. Zero means 400 px per unit.
	Scale float64
	// Margin in pixels around the drawing. Zero means 20.
	Margin float64
	// ShowEdges draws the boundary and interior edge lists on top of the
	// elements.
	ShowEdges bool
}

// svg color palette: quads, triangles, boundary, interior.
const (
	quadFill   = "#dbe9f4"
	triFill    = "#f4e8db"
	strokeCol  = "#47617a"
	bdryStroke = "#24435f"
	intStroke  = "#b0784a"
)

// MeshSVG renders the active elements of a mesh as a standalone SVG
// document.
func MeshSVG(m *mesh.Mesh, opts SVGOptions) []byte {
	if opts.Scale == 0 {
		opts.Scale = 400
	}
	if opts.Margin == 0 {
		opts.Margin = 20
	}

	minP, maxP := bounds(m)
	w := (maxP.X-minP.X)*opts.Scale + 2*opts.Margin
	h := (maxP.Y-minP.Y)*opts.Scale + 2*opts.Margin

	// SVG y grows downward; flip the model's y axis.
	tx := func(p geom.Vec2) (float64, float64) {
		return opts.Margin + (p.X-minP.X)*opts.Scale,
			opts.Margin + (maxP.Y-p.Y)*opts.Scale
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		w, h, w, h)

	poly := func(fill string, pts []*mesh.Vertex) {
		buf.WriteString(`  <polygon points="`)
		for i, v := range pts {
			if i > 0 {
				buf.WriteByte(' ')
			}
			x, y := tx(v.XY())
			fmt.Fprintf(&buf, "%.2f,%.2f", x, y)
		}
		fmt.Fprintf(&buf, `" fill="%s" stroke="%s" stroke-width="1"/>`+"\n", fill, strokeCol)
	}

	for _, q := range m.Quads() {
		if q.IsActive() {
			poly(quadFill, q.Vertices())
		}
	}
	for _, t := range m.Triangles() {
		if t.IsActive() {
			poly(triFill, t.Vertices())
		}
	}

	if opts.ShowEdges {
		line := func(stroke string, e *mesh.Edge) {
			x1, y1 := tx(e.V1().XY())
			x2, y2 := tx(e.V2().XY())
			fmt.Fprintf(&buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1.5"/>`+"\n",
				x1, y1, x2, y2, stroke)
		}
		for _, e := range m.BoundaryEdges().Edges() {
			line(bdryStroke, e)
		}
		for _, e := range m.InteriorEdges().Edges() {
			line(intStroke, e)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// bounds returns the bounding box over all live vertices.
func bounds(m *mesh.Mesh) (geom.Vec2, geom.Vec2) {
	minP := geom.Vec2{X: math.Inf(1), Y: math.Inf(1)}
	maxP := geom.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, v := range m.Vertices().All() {
		p := v.XY()
		minP.X = math.Min(minP.X, p.X)
		minP.Y = math.Min(minP.Y, p.Y)
		maxP.X = math.Max(maxP.X, p.X)
		maxP.Y = math.Max(maxP.Y, p.Y)
	}
	if minP.X > maxP.X {
		return geom.Vec2{}, geom.Vec2{X: 1, Y: 1}
	}
	return minP, maxP
}

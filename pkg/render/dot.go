package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/meshkit/quadgen/pkg/mesh"
)

// ConnectivityDOT returns a Graphviz DOT representation of the element
// adjacency graph: one node per active element, one edge per shared mesh
// edge. Quads are drawn as boxes, triangles as ellipses.
//
// The view is meant for debugging layer topology. A healthy quad layer
// shows up as a ladder of box nodes. Render with the dot tool or
// programmatically with ConnectivitySVG.
func ConnectivityDOT(m *mesh.Mesh) string {
	mesh.SetupFacetConnectivity(m)

	var buf bytes.Buffer
	buf.WriteString("graph mesh {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, style=filled, fillcolor=white];\n\n")

	ids := map[mesh.Facet]string{}
	register := func(f mesh.Facet, shape, prefix string, n int) {
		id := fmt.Sprintf("%s%d", prefix, n)
		ids[f] = id
		fmt.Fprintf(&buf, "  %s [label=%q, shape=%s];\n", id, id, shape)
	}
	for i, q := range m.Quads() {
		if q.IsActive() {
			register(q, "box", "q", i)
		}
	}
	for i, t := range m.Triangles() {
		if t.IsActive() {
			register(t, "ellipse", "t", i)
		}
	}
	buf.WriteString("\n")

	for _, e := range m.InteriorEdges().Edges() {
		l, r := e.FacetLeft(), e.FacetRight()
		if l == nil || r == nil {
			continue
		}
		li, lok := ids[l]
		ri, rok := ids[r]
		if lok && rok {
			fmt.Fprintf(&buf, "  %s -- %s;\n", li, ri)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ConnectivitySVG renders the element adjacency graph as an SVG image via
// Graphviz.
//
// It requires the Graphviz library (github.com/goccy/go-graphviz). Errors
// are returned if Graphviz cannot initialize, the DOT is malformed, or
// rendering fails; all are wrapped with %w for errors.Is/Unwrap.
func ConnectivitySVG(m *mesh.Mesh) ([]byte, error) {
	dot := ConnectivityDOT(m)

	gv, err := graphviz.New(context.Background())
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(context.Background(), g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

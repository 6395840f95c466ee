package mesh

// SetupFacetConnectivity assigns the left/right facet links of every
// interior and boundary edge from the current active facet sets. Existing
// links are overwritten.
//
// A facet lies to the left of an edge when the edge direction agrees with
// the facet's CCW winding along that side, and to the right otherwise.
func SetupFacetConnectivity(m *Mesh) {
	type key struct{ a, b *Vertex }

	// Directed facet side → facet. A CCW facet is to the left of each of
	// its own directed sides.
	sides := map[key]Facet{}
	collect := func(f Facet) {
		vs := f.Vertices()
		n := len(vs)
		for i := 0; i < n; i++ {
			sides[key{vs[i], vs[(i+1)%n]}] = f
		}
	}
	for _, t := range m.Triangles() {
		collect(t)
	}
	for _, q := range m.Quads() {
		collect(q)
	}

	assign := func(l *EdgeList) {
		for _, e := range l.Edges() {
			left := sides[key{e.V1(), e.V2()}]
			right := sides[key{e.V2(), e.V1()}]
			e.SetFacets(left, right)
		}
	}
	assign(m.intEdges)
	assign(m.bdryEdges)
}

// RemoveInvalidEdges removes interior edges that no facet references.
// Call after [SetupFacetConnectivity]; returns the number removed.
func RemoveInvalidEdges(m *Mesh) int {
	n := 0
	for _, e := range m.intEdges.Edges() {
		if !e.InContainer() {
			continue
		}
		if e.FacetLeft() == nil && e.FacetRight() == nil {
			m.intEdges.Remove(e)
			n++
		}
	}
	return n
}

// FinishMesh prepares the mesh for output: waste is swept and the facet
// connectivity is rebuilt over the final element sets.
func FinishMesh(m *Mesh) {
	m.ClearWaste()
	SetupFacetConnectivity(m)
}

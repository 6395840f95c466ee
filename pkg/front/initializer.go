package front

import (
	qerrors "github.com/meshkit/quadgen/pkg/errors"

	"github.com/meshkit/quadgen/pkg/domain"
	"github.com/meshkit/quadgen/pkg/mesh"
)

// BoundaryInitializer seeds the front from the boundary-edge list of a
// mesh. It is the standard initializer for a stand-alone meshing run: the
// boundary edges are created from the domain polygons first, and every
// seed is twin-free.
//
// Stitched runs (meshing next to an existing neighbor mesh) use a custom
// [Initializer] that flags the shared edges as twins.
type BoundaryInitializer struct {
	edges   [][]*mesh.Edge
	isTwin  [][]bool
	markers [][]int
}

// NewBoundaryInitializer creates the boundary edges of m from the domain
// polygons and returns an initializer serving them per boundary.
func NewBoundaryInitializer(m *mesh.Mesh, dom *domain.Domain) (*BoundaryInitializer, error) {
	bi := &BoundaryInitializer{}

	for i := 0; i < dom.Size(); i++ {
		b := dom.Boundary(i)
		n := b.NEdges()

		ringVerts := make([]*mesh.Vertex, n)
		for j := 0; j < n; j++ {
			v := m.AddVertex(b.Vertex(j))
			v.SetOnBoundary(true)
			v.SetFixed(true)
			ringVerts[j] = v
		}

		ringEdges := make([]*mesh.Edge, 0, n)
		for j := 0; j < n; j++ {
			e, err := m.BoundaryEdges().AddEdge(ringVerts[j], ringVerts[(j+1)%n], b.Marker(j))
			if err != nil {
				return nil, qerrors.Wrap(qerrors.ErrCodeInvalidGeometry, err,
					"boundary %d edge %d", i, j)
			}
			ringEdges = append(ringEdges, e)
		}

		bi.edges = append(bi.edges, ringEdges)
		bi.isTwin = append(bi.isTwin, make([]bool, n))
		mk := make([]int, n)
		for j := 0; j < n; j++ {
			mk[j] = b.Marker(j)
		}
		bi.markers = append(bi.markers, mk)
	}

	return bi, nil
}

// Seed returns the seed arrays of the given boundary.
func (bi *BoundaryInitializer) Seed(boundary int) ([]*mesh.Edge, []bool, []int) {
	return bi.edges[boundary], bi.isTwin[boundary], bi.markers[boundary]
}

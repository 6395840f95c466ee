package meshio

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/meshkit/quadgen/pkg/geom"
	"github.com/meshkit/quadgen/pkg/mesh"
)

// sampleMesh builds a small mesh: one quad, one triangle, a boundary ring
// fragment, and an interior edge.
func sampleMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	m := mesh.New()
	a := m.AddVertex(geom.Vec2{X: 0, Y: 0})
	b := m.AddVertex(geom.Vec2{X: 1, Y: 0})
	c := m.AddVertex(geom.Vec2{X: 1, Y: 1})
	d := m.AddVertex(geom.Vec2{X: 0, Y: 1})
	e := m.AddVertex(geom.Vec2{X: 2, Y: 0.5})
	a.SetOnBoundary(true)
	a.SetFixed(true)
	b.SetOnBoundary(true)

	m.AddQuad(a, b, c, d).SetActive(true)
	m.AddTriangle(b, e, c).SetActive(true)

	if _, err := m.BoundaryEdges().AddEdge(a, b, 3); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := m.AddInteriorEdge(b, c); err != nil {
		t.Fatalf("AddInteriorEdge: %v", err)
	}
	return m
}

func TestMarshalMesh_Deterministic(t *testing.T) {
	m := sampleMesh(t)

	first, err := MarshalMesh(m)
	if err != nil {
		t.Fatalf("MarshalMesh: %v", err)
	}
	second, err := MarshalMesh(m)
	if err != nil {
		t.Fatalf("MarshalMesh: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("MarshalMesh() output not deterministic")
	}
}

func TestRoundTrip(t *testing.T) {
	m := sampleMesh(t)

	data, err := MarshalMesh(m)
	if err != nil {
		t.Fatalf("MarshalMesh: %v", err)
	}
	back, err := ReadMesh(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadMesh: %v", err)
	}

	if back.Vertices().Len() != m.Vertices().Len() {
		t.Errorf("vertices = %d, want %d", back.Vertices().Len(), m.Vertices().Len())
	}
	if back.NActiveQuads() != 1 {
		t.Errorf("quads = %d, want 1", back.NActiveQuads())
	}
	if back.NActiveTriangles() != 1 {
		t.Errorf("triangles = %d, want 1", back.NActiveTriangles())
	}
	if back.BoundaryEdges().Len() != 1 {
		t.Errorf("boundary edges = %d, want 1", back.BoundaryEdges().Len())
	}
	if e := back.BoundaryEdges().First(); e.Marker() != 3 {
		t.Errorf("boundary marker = %d, want 3", e.Marker())
	}

	// Flags survive the trip.
	v0 := back.Vertices().All()[0]
	if !v0.OnBoundary() || !v0.IsFixed() {
		t.Errorf("vertex flags lost: boundary %v, fixed %v", v0.OnBoundary(), v0.IsFixed())
	}

	// Geometry survives the trip.
	if q := back.Quads()[0]; q.Area() <= 0 {
		t.Errorf("quad area = %v after round trip, want > 0", q.Area())
	}
}

func TestWriteReadMeshFile(t *testing.T) {
	m := sampleMesh(t)
	path := filepath.Join(t.TempDir(), "mesh.json")

	if err := WriteMeshFile(m, path); err != nil {
		t.Fatalf("WriteMeshFile: %v", err)
	}
	back, err := ReadMeshFile(path)
	if err != nil {
		t.Fatalf("ReadMeshFile: %v", err)
	}
	if back.NActiveQuads() != 1 {
		t.Errorf("quads = %d after file round trip, want 1", back.NActiveQuads())
	}
}

func TestReadMesh_BadIndex(t *testing.T) {
	bad := []byte(`{"vertices":[{"x":0,"y":0}],"triangles":[[0,1,2]]}`)
	if _, err := ReadMesh(bytes.NewReader(bad)); err == nil {
		t.Errorf("ReadMesh() error = nil for out-of-range index")
	}
}

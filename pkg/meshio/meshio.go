// Package meshio serializes meshes to and from JSON.
//
// The format indexes vertices by their insertion order and stores elements
// and edges as index tuples, which keeps files deterministic for content
// hashing: marshaling the same mesh twice yields identical bytes.
package meshio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/meshkit/quadgen/pkg/geom"
	"github.com/meshkit/quadgen/pkg/mesh"
)

// =============================================================================
// Mesh Serialization API
// =============================================================================

// MarshalMesh converts a mesh to JSON bytes.
// Only live entities are written; element order is creation order.
func MarshalMesh(m *mesh.Mesh) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeMeshTo(m, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteMeshFile writes a mesh to a JSON file.
// The file is created with 0644 permissions.
func WriteMeshFile(m *mesh.Mesh, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeMeshTo(m, f)
}

// WriteMesh writes a mesh as JSON to an io.Writer.
// Use MarshalMesh for in-memory serialization or WriteMeshFile for files.
func WriteMesh(m *mesh.Mesh, w io.Writer) error {
	return writeMeshTo(m, w)
}

// ReadMeshFile reads a JSON file and returns the decoded mesh.
func ReadMeshFile(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readMeshFrom(f)
}

// ReadMesh decodes a JSON mesh from an io.Reader.
func ReadMesh(r io.Reader) (*mesh.Mesh, error) {
	return readMeshFrom(r)
}

// =============================================================================
// Wire Format
// =============================================================================

// File is the on-disk JSON structure of a mesh.
type File struct {
	Vertices  []VertexRecord `json:"vertices"`
	Triangles [][3]int       `json:"triangles,omitempty"`
	Quads     [][4]int       `json:"quads,omitempty"`
	Boundary  []EdgeRecord   `json:"boundary_edges,omitempty"`
	Interior  []EdgeRecord   `json:"interior_edges,omitempty"`
}

// VertexRecord is one vertex with its flags.
type VertexRecord struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	OnBoundary bool    `json:"on_boundary,omitempty"`
	Fixed      bool    `json:"fixed,omitempty"`
}

// EdgeRecord is one directed edge as vertex indices plus its marker.
type EdgeRecord struct {
	V1     int `json:"v1"`
	V2     int `json:"v2"`
	Marker int `json:"marker"`
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeMeshTo(m *mesh.Mesh, w io.Writer) error {
	out, err := FromMesh(m)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readMeshFrom(r io.Reader) (*mesh.Mesh, error) {
	var data File
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToMesh(data)
}

// FromMesh builds the wire structure of a mesh.
func FromMesh(m *mesh.Mesh) (File, error) {
	verts := m.Vertices().All()
	index := make(map[*mesh.Vertex]int, len(verts))

	var out File
	for i, v := range verts {
		index[v] = i
		out.Vertices = append(out.Vertices, VertexRecord{
			X:          v.XY().X,
			Y:          v.XY().Y,
			OnBoundary: v.OnBoundary(),
			Fixed:      v.IsFixed(),
		})
	}

	lookup := func(v *mesh.Vertex) (int, error) {
		i, ok := index[v]
		if !ok {
			return 0, fmt.Errorf("element references a vertex outside the container")
		}
		return i, nil
	}

	for _, t := range m.Triangles() {
		if !t.IsActive() {
			continue
		}
		i1, err := lookup(t.V1())
		if err != nil {
			return File{}, err
		}
		i2, err := lookup(t.V2())
		if err != nil {
			return File{}, err
		}
		i3, err := lookup(t.V3())
		if err != nil {
			return File{}, err
		}
		out.Triangles = append(out.Triangles, [3]int{i1, i2, i3})
	}

	for _, q := range m.Quads() {
		if !q.IsActive() {
			continue
		}
		var idx [4]int
		for k, v := range q.Vertices() {
			i, err := lookup(v)
			if err != nil {
				return File{}, err
			}
			idx[k] = i
		}
		out.Quads = append(out.Quads, idx)
	}

	edgeRecords := func(l *mesh.EdgeList) ([]EdgeRecord, error) {
		var recs []EdgeRecord
		for _, e := range l.Edges() {
			i1, err := lookup(e.V1())
			if err != nil {
				return nil, err
			}
			i2, err := lookup(e.V2())
			if err != nil {
				return nil, err
			}
			recs = append(recs, EdgeRecord{V1: i1, V2: i2, Marker: e.Marker()})
		}
		return recs, nil
	}

	var err error
	if out.Boundary, err = edgeRecords(m.BoundaryEdges()); err != nil {
		return File{}, err
	}
	if out.Interior, err = edgeRecords(m.InteriorEdges()); err != nil {
		return File{}, err
	}

	return out, nil
}

// ToMesh rebuilds a mesh from its wire structure.
func ToMesh(data File) (*mesh.Mesh, error) {
	m := mesh.New()

	verts := make([]*mesh.Vertex, len(data.Vertices))
	for i, vr := range data.Vertices {
		v := m.AddVertex(geom.Vec2{X: vr.X, Y: vr.Y})
		v.SetOnBoundary(vr.OnBoundary)
		v.SetFixed(vr.Fixed)
		verts[i] = v
	}

	at := func(i int) (*mesh.Vertex, error) {
		if i < 0 || i >= len(verts) {
			return nil, fmt.Errorf("vertex index %d out of range", i)
		}
		return verts[i], nil
	}

	for _, tr := range data.Triangles {
		a, err := at(tr[0])
		if err != nil {
			return nil, err
		}
		b, err := at(tr[1])
		if err != nil {
			return nil, err
		}
		c, err := at(tr[2])
		if err != nil {
			return nil, err
		}
		m.AddTriangle(a, b, c).SetActive(true)
	}

	for _, qr := range data.Quads {
		a, err := at(qr[0])
		if err != nil {
			return nil, err
		}
		b, err := at(qr[1])
		if err != nil {
			return nil, err
		}
		c, err := at(qr[2])
		if err != nil {
			return nil, err
		}
		d, err := at(qr[3])
		if err != nil {
			return nil, err
		}
		m.AddQuad(a, b, c, d).SetActive(true)
	}

	for _, er := range data.Boundary {
		v1, err := at(er.V1)
		if err != nil {
			return nil, err
		}
		v2, err := at(er.V2)
		if err != nil {
			return nil, err
		}
		if _, err := m.BoundaryEdges().AddEdge(v1, v2, er.Marker); err != nil {
			return nil, err
		}
	}
	for _, er := range data.Interior {
		v1, err := at(er.V1)
		if err != nil {
			return nil, err
		}
		v2, err := at(er.V2)
		if err != nil {
			return nil, err
		}
		if _, err := m.InteriorEdges().AddEdge(v1, v2, er.Marker); err != nil {
			return nil, err
		}
	}

	return m, nil
}

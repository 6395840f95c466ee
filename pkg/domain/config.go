package domain

import (
	"os"

	"github.com/BurntSushi/toml"

	qerrors "github.com/meshkit/quadgen/pkg/errors"
	"github.com/meshkit/quadgen/pkg/geom"
)

// LayerSpec holds the quad-layering parameters of a meshing case.
type LayerSpec struct {
	Count       int        `toml:"count"`
	FirstHeight float64    `toml:"first_height"`
	GrowthRate  float64    `toml:"growth_rate"`
	Start       [2]float64 `toml:"start"`
	End         [2]float64 `toml:"end"`
}

// StartXY returns the starting anchor as a vector.
func (s LayerSpec) StartXY() geom.Vec2 { return geom.Vec2{X: s.Start[0], Y: s.Start[1]} }

// EndXY returns the ending anchor as a vector.
func (s LayerSpec) EndXY() geom.Vec2 { return geom.Vec2{X: s.End[0], Y: s.End[1]} }

// Case is a fully described meshing job: a named domain plus layering
// parameters, typically loaded from a TOML case file.
type Case struct {
	Name   string
	Domain *Domain
	Layers LayerSpec
}

// caseFile mirrors the on-disk TOML structure.
type caseFile struct {
	Name       string         `toml:"name"`
	Sizing     sizingSection  `toml:"sizing"`
	Boundaries []boundSection `toml:"boundary"`
	Layers     LayerSpec      `toml:"layers"`
}

type sizingSection struct {
	Kind  string  `toml:"kind"`
	Value float64 `toml:"value"`
	A     float64 `toml:"a"`
	B     float64 `toml:"b"`
	C     float64 `toml:"c"`
}

type boundSection struct {
	Kind     string       `toml:"kind"`
	Vertices [][2]float64 `toml:"vertices"`
	Markers  []int        `toml:"markers"`
}

// LoadCase reads and validates a TOML meshing case.
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, qerrors.Wrap(qerrors.ErrCodeFileNotFound, err, "case file %s", path)
		}
		return nil, qerrors.Wrap(qerrors.ErrCodeInternal, err, "read case file %s", path)
	}
	return ParseCase(data)
}

// ParseCase decodes and validates a TOML meshing case from bytes.
func ParseCase(data []byte) (*Case, error) {
	var cf caseFile
	if err := toml.Unmarshal(data, &cf); err != nil {
		return nil, qerrors.Wrap(qerrors.ErrCodeInvalidCase, err, "decode case")
	}

	size, err := sizingFromSection(cf.Sizing)
	if err != nil {
		return nil, err
	}

	if len(cf.Boundaries) == 0 {
		return nil, qerrors.New(qerrors.ErrCodeInvalidCase, "case has no boundaries")
	}

	dom := New(size)
	for i, bs := range cf.Boundaries {
		verts := make([]geom.Vec2, len(bs.Vertices))
		for j, v := range bs.Vertices {
			verts[j] = geom.Vec2{X: v[0], Y: v[1]}
		}
		markers := bs.Markers
		if len(markers) == 0 {
			markers = make([]int, len(verts))
			for j := range markers {
				markers[j] = 1
			}
		}
		interior := bs.Kind == "hole"
		if bs.Kind != "" && bs.Kind != "hole" && bs.Kind != "exterior" {
			return nil, qerrors.New(qerrors.ErrCodeInvalidCase,
				"boundary %d: unknown kind %q (must be exterior or hole)", i, bs.Kind)
		}
		b, err := NewBoundary(verts, markers, interior)
		if err != nil {
			return nil, qerrors.Wrap(qerrors.ErrCodeInvalidCase, err, "boundary %d", i)
		}
		dom.AddBoundary(b)
	}

	if cf.Layers.Count < 0 {
		return nil, qerrors.New(qerrors.ErrCodeInvalidCase, "layers.count must be >= 0")
	}
	if cf.Layers.Count > 0 && cf.Layers.FirstHeight <= 0 {
		return nil, qerrors.New(qerrors.ErrCodeInvalidCase, "layers.first_height must be positive")
	}
	if cf.Layers.GrowthRate == 0 {
		cf.Layers.GrowthRate = 1
	}

	return &Case{Name: cf.Name, Domain: dom, Layers: cf.Layers}, nil
}

func sizingFromSection(s sizingSection) (SizeFunc, error) {
	switch s.Kind {
	case "", "uniform":
		v := s.Value
		if v <= 0 {
			return nil, qerrors.New(qerrors.ErrCodeInvalidCase, "sizing.value must be positive")
		}
		return Uniform(v), nil
	case "linear":
		return Linear(s.A, s.B, s.C), nil
	default:
		return nil, qerrors.New(qerrors.ErrCodeInvalidCase, "unknown sizing kind %q", s.Kind)
	}
}

package domain

import (
	"math"
	"testing"

	qerrors "github.com/meshkit/quadgen/pkg/errors"
	"github.com/meshkit/quadgen/pkg/geom"
)

func TestNewBoundary_Winding(t *testing.T) {
	ccw := []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	cw := []geom.Vec2{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}
	markers := []int{1, 1, 1, 1}

	if _, err := NewBoundary(ccw, markers, false); err != nil {
		t.Errorf("NewBoundary(CCW, exterior) error = %v, want nil", err)
	}
	if _, err := NewBoundary(cw, markers, false); err != ErrBadWinding {
		t.Errorf("NewBoundary(CW, exterior) error = %v, want ErrBadWinding", err)
	}
	if _, err := NewBoundary(cw, markers, true); err != nil {
		t.Errorf("NewBoundary(CW, hole) error = %v, want nil", err)
	}
	if _, err := NewBoundary(ccw, []int{1}, false); err != ErrMarkerCount {
		t.Errorf("NewBoundary(short markers) error = %v, want ErrMarkerCount", err)
	}
}

func TestDomain_SizeFunction(t *testing.T) {
	d := New(Linear(0.1, 0.4, 0))
	got := d.SizeFunction(geom.Vec2{X: 1, Y: 5})
	if math.Abs(got-0.5) > 1e-12 {
		t.Errorf("SizeFunction(1, 5) = %v, want 0.5", got)
	}

	d = New(nil)
	if got := d.SizeFunction(geom.Vec2{}); got != 1 {
		t.Errorf("default SizeFunction = %v, want 1", got)
	}
}

func TestParseCase(t *testing.T) {
	data := []byte(`
name = "unit-square"

[sizing]
kind = "uniform"
value = 0.25

[[boundary]]
vertices = [[0.0, 0.0], [1.0, 0.0], [1.0, 1.0], [0.0, 1.0]]
markers = [1, 2, 3, 4]

[layers]
count = 1
first_height = 0.2
growth_rate = 1.0
start = [0.0, 0.0]
end = [0.0, 0.0]
`)
	c, err := ParseCase(data)
	if err != nil {
		t.Fatalf("ParseCase() error = %v", err)
	}
	if c.Name != "unit-square" {
		t.Errorf("Name = %q, want unit-square", c.Name)
	}
	if c.Domain.Size() != 1 {
		t.Fatalf("Domain.Size() = %d, want 1", c.Domain.Size())
	}
	b := c.Domain.Boundary(0)
	if b.NEdges() != 4 {
		t.Errorf("NEdges() = %d, want 4", b.NEdges())
	}
	if b.Marker(2) != 3 {
		t.Errorf("Marker(2) = %d, want 3", b.Marker(2))
	}
	if got := c.Domain.SizeFunction(geom.Vec2{X: 0.5, Y: 0.5}); got != 0.25 {
		t.Errorf("SizeFunction = %v, want 0.25", got)
	}
	if c.Layers.Count != 1 || c.Layers.FirstHeight != 0.2 {
		t.Errorf("Layers = %+v, want count 1 height 0.2", c.Layers)
	}
}

func TestParseCase_DefaultMarkers(t *testing.T) {
	data := []byte(`
[sizing]
value = 0.5

[[boundary]]
vertices = [[0.0, 0.0], [2.0, 0.0], [2.0, 1.0], [1.0, 1.0], [1.0, 2.0], [0.0, 2.0]]
`)
	c, err := ParseCase(data)
	if err != nil {
		t.Fatalf("ParseCase() error = %v", err)
	}
	b := c.Domain.Boundary(0)
	for i := 0; i < b.NEdges(); i++ {
		if b.Marker(i) != 1 {
			t.Errorf("Marker(%d) = %d, want default 1", i, b.Marker(i))
		}
	}
	if math.Abs(b.Area()-3) > 1e-12 {
		t.Errorf("Area() = %v, want 3", b.Area())
	}
}

func TestParseCase_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no boundaries", "[sizing]\nvalue = 0.5\n"},
		{"bad sizing", "[sizing]\nkind = \"cubic\"\n[[boundary]]\nvertices = [[0.0,0.0],[1.0,0.0],[0.0,1.0]]\n"},
		{"nonpositive size", "[sizing]\nvalue = 0.0\n[[boundary]]\nvertices = [[0.0,0.0],[1.0,0.0],[0.0,1.0]]\n"},
		{"cw exterior", "[sizing]\nvalue = 0.5\n[[boundary]]\nvertices = [[0.0,0.0],[0.0,1.0],[1.0,0.0]]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCase([]byte(tt.data)); !qerrors.Is(err, qerrors.ErrCodeInvalidCase) {
				t.Errorf("ParseCase() error = %v, want INVALID_CASE", err)
			}
		})
	}
}

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/meshkit/quadgen/pkg/cache"
)

const squareCase = `
name = "unit-square"

[sizing]
kind = "uniform"
value = 1.0

[[boundary]]
vertices = [[0.0, 0.0], [1.0, 0.0], [1.0, 1.0], [0.0, 1.0]]

[layers]
count = 1
first_height = 0.2
growth_rate = 1.0
start = [0.0, 0.0]
end = [0.0, 0.0]
`

func writeCase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "case.toml")
	if err := os.WriteFile(path, []byte(squareCase), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestOptions_ValidateAndSetDefaults(t *testing.T) {
	o := &Options{CasePath: "case.toml"}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", o.Formats)
	}
	if o.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", o.Scale, DefaultScale)
	}
	if o.Logger == nil {
		t.Errorf("Logger = nil after defaults")
	}

	bad := &Options{}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Errorf("ValidateAndSetDefaults() = nil without case")
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "svg", "dot"}); err != nil {
		t.Errorf("ValidateFormats(valid) = %v", err)
	}
	if err := ValidateFormats([]string{"png"}); err == nil {
		t.Errorf("ValidateFormats(png) = nil, want error")
	}
}

func TestRunner_Execute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	res, err := runner.Execute(context.Background(), Options{
		CasePath: writeCase(t),
		Formats:  []string{FormatJSON, FormatSVG},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !res.Complete {
		t.Errorf("Complete = false, want true")
	}
	if res.Stats.QuadCount != 4 {
		t.Errorf("QuadCount = %d, want 4", res.Stats.QuadCount)
	}
	if res.RunID == "" {
		t.Errorf("RunID empty")
	}
	if res.MeshHash == "" {
		t.Errorf("MeshHash empty")
	}
	if len(res.Artifacts[FormatJSON]) == 0 {
		t.Errorf("JSON artifact empty")
	}
	if len(res.Artifacts[FormatSVG]) == 0 {
		t.Errorf("SVG artifact empty")
	}
}

func TestRunner_Execute_CacheRoundTrip(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	opts := Options{CasePath: writeCase(t), Formats: []string{FormatJSON}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute(first): %v", err)
	}
	if first.CacheInfo.MeshHit {
		t.Errorf("first run reported a mesh cache hit")
	}

	second, err := runner.Execute(context.Background(), Options{
		CasePath: opts.CasePath, Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute(second): %v", err)
	}
	if !second.CacheInfo.MeshHit {
		t.Errorf("second run missed the mesh cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Errorf("second run missed the artifact cache")
	}
	if second.Stats.QuadCount != first.Stats.QuadCount {
		t.Errorf("cached mesh quads = %d, want %d", second.Stats.QuadCount, first.Stats.QuadCount)
	}
}

func TestRunner_Execute_Refresh(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	path := writeCase(t)
	if _, err := runner.Execute(context.Background(), Options{CasePath: path}); err != nil {
		t.Fatalf("Execute(warmup): %v", err)
	}

	res, err := runner.Execute(context.Background(), Options{CasePath: path, Refresh: true})
	if err != nil {
		t.Fatalf("Execute(refresh): %v", err)
	}
	if res.CacheInfo.MeshHit {
		t.Errorf("refresh run still hit the mesh cache")
	}
}

// Package pipeline provides the core meshing pipeline for quadgen.
//
// This package implements the complete load → generate → render pipeline
// that can be used by the CLI and by embedding programs. By centralizing
// this logic, all entry points behave identically and caching happens in
// one place.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read and validate the TOML meshing case
//  2. Generate: initialize the advancing front and grow the quad layers
//  3. Render: produce output in various formats (JSON, SVG, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    CasePath: "examples/unit-square.toml",
//	    Formats:  []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/meshkit/quadgen/pkg/cache"
	"github.com/meshkit/quadgen/pkg/domain"
	qerrors "github.com/meshkit/quadgen/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the default SVG scale in pixels per model unit.
	DefaultScale = 400.0
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the meshing pipeline.
type Options struct {
	// CasePath is the TOML case file to load. Ignored when Case is set.
	CasePath string `json:"case_path,omitempty"`

	// Case overrides file loading with an in-memory case definition.
	Case *domain.Case `json:"-"`

	// Layer parameter overrides. Zero values keep the case file settings.
	Layers      int     `json:"layers,omitempty"`
	FirstHeight float64 `json:"first_height,omitempty"`
	GrowthRate  float64 `json:"growth_rate,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	ShowEdges bool     `json:"show_edges,omitempty"`

	// Refresh bypasses cache reads (results are still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return qerrors.New(qerrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, svg, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.CasePath == "" && o.Case == nil {
		return qerrors.New(qerrors.ErrCodeInvalidCase, "a case file or case definition is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// MeshKeyOpts returns the cache key options for the generation stage.
func (o *Options) MeshKeyOpts(c *domain.Case) cache.MeshKeyOpts {
	spec := o.effectiveLayers(c)
	return cache.MeshKeyOpts{
		Layers:      spec.Count,
		FirstHeight: spec.FirstHeight,
		GrowthRate:  spec.GrowthRate,
	}
}

// ArtifactKeyOpts returns the cache key options for one render format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
	}
}

// effectiveLayers merges the case layer spec with the option overrides.
func (o *Options) effectiveLayers(c *domain.Case) domain.LayerSpec {
	spec := c.Layers
	if o.Layers > 0 {
		spec.Count = o.Layers
	}
	if o.FirstHeight > 0 {
		spec.FirstHeight = o.FirstHeight
	}
	if o.GrowthRate > 0 {
		spec.GrowthRate = o.GrowthRate
	}
	return spec
}

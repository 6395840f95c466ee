package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshkit/quadgen/pkg/meshio"
	"github.com/meshkit/quadgen/pkg/pipeline"
	"github.com/meshkit/quadgen/pkg/render"
)

// renderCommand creates the render command for re-rendering a stored mesh.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		showEdges  bool
		scale      float64
	)

	cmd := &cobra.Command{
		Use:   "render [mesh.json]",
		Short: "Render visual output from a stored mesh",
		Long: `Render visual output from a stored mesh.

The render command takes a mesh.json file (produced by 'generate') and
renders it to SVG or Graphviz DOT. The mesh file contains all geometry,
so this step never re-runs the meshing pass.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if formatsStr == "" {
				formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return runRender(args[0], formats, output, showEdges, scale)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().BoolVar(&showEdges, "edges", false, "draw boundary and interior edges")
	cmd.Flags().Float64Var(&scale, "scale", 0, "SVG scale in pixels per model unit")

	return cmd
}

func runRender(input string, formats []string, output string, showEdges bool, scale float64) error {
	m, err := meshio.ReadMeshFile(input)
	if err != nil {
		return fmt.Errorf("load mesh %s: %w", input, err)
	}

	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		switch format {
		case pipeline.FormatSVG:
			artifacts[format] = render.MeshSVG(m, render.SVGOptions{
				Scale:     scale,
				ShowEdges: showEdges,
			})
		case pipeline.FormatDOT:
			artifacts[format] = []byte(render.ConnectivityDOT(m))
		case pipeline.FormatJSON:
			data, err := meshio.MarshalMesh(m)
			if err != nil {
				return fmt.Errorf("marshal: %w", err)
			}
			artifacts[format] = data
		}
	}

	printSuccess("Rendered %s", input)
	return writeArtifacts(artifacts, formats, input, output)
}

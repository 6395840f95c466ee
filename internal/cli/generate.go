package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshkit/quadgen/pkg/pipeline"
)

// generateCommand creates the generate command: the full load → mesh →
// render pipeline over a TOML case file.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		redisAddr  string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "generate [case.toml]",
		Short: "Generate a quad-dominant mesh from a case file",
		Long: `Generate a quad-dominant mesh from a TOML case file.

The case file describes the domain boundaries, the size function, and the
quad layering parameters. The advancing front is initialized from the
boundaries, refined against the size function, and the requested number of
quad layers is grown inward.

Without an argument, an interactive picker lists the case files found in
the working directory and in examples/.

Results are cached by case content, so repeated runs are instantaneous.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			} else {
				picked, err := pickCase(discoverCases())
				if err != nil {
					if errors.Is(err, errPickerAborted) {
						return nil
					}
					return err
				}
				input = picked
			}

			opts.CasePath = input
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runGenerate(cmd, input, opts, output, noCache, redisAddr)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg, dot (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "use a Redis cache backend at host:port")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().IntVar(&opts.Layers, "layers", 0, "override the number of quad layers")
	cmd.Flags().Float64Var(&opts.FirstHeight, "height", 0, "override the first layer height")
	cmd.Flags().Float64Var(&opts.GrowthRate, "growth", 0, "override the layer growth rate")
	cmd.Flags().BoolVar(&opts.ShowEdges, "edges", false, "draw boundary and interior edges in SVG output")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "SVG scale in pixels per model unit")

	return cmd
}

// runGenerate executes the pipeline and writes the artifacts.
func (c *CLI) runGenerate(cmd *cobra.Command, input string, opts pipeline.Options, output string, noCache bool, redisAddr string) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(cmd, noCache, redisAddr)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Meshing %s...", input))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Mesh generation failed")
		return fmt.Errorf("generate: %w", err)
	}
	spinner.Stop()

	if result.Complete {
		printSuccess("Meshed %s", result.Case.Name)
	} else {
		printWarning("Partial mesh for %s (layering stopped early)", result.Case.Name)
	}
	printStats(result.Stats.QuadCount, result.Stats.TriangleCount,
		result.Stats.VertexCount, result.CacheInfo.MeshHit)

	if err := writeArtifacts(result.Artifacts, opts.Formats, input, output); err != nil {
		return err
	}

	if hasFormat(opts.Formats, pipeline.FormatJSON) {
		printNextStep("Preview it", fmt.Sprintf("%s serve %s", appName, outputPath(output, input, "json")))
	}
	return nil
}

// writeArtifacts stores each rendered format next to the input (or under
// the explicit output base).
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(output, input, format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

func hasFormat(formats []string, want string) bool {
	for _, f := range formats {
		if f == want {
			return true
		}
	}
	return false
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skeletonize/pkg/dag/transform"
	"github.com/matzehuels/skeletonize/pkg/errors"
	"github.com/matzehuels/skeletonize/pkg/observability"
	"github.com/matzehuels/skeletonize/pkg/pipeline"
	"github.com/matzehuels/skeletonize/pkg/render"
)

const defaultPNGScale = 2.0

// validRenderFormats is the set of supported graph output formats.
var validRenderFormats = map[string]bool{"dot": true, "svg": true, "pdf": true, "png": true}

// renderOpts holds the flags of the render command.
type renderOpts struct {
	convertOpts
	output   string
	detailed bool
}

// renderCommand creates the render command, which draws the oriented graph.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [skeleton.json] [annotations.json]",
		Short: "Render the oriented skeleton graph",
		Long: `Render the oriented skeleton graph with Graphviz.

Soma nodes are highlighted. When --allow-cycles is set, edges that close a
cycle are drawn dashed. PDF and PNG output require rsvg-convert.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRenderFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd, args[0], args[1], &opts)
		},
	}

	addConversionFlags(cmd, &opts.convertOpts)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <skeleton>.<format>)")
	cmd.Flags().StringVar(&opts.format, "format", "svg", "output format: dot, svg, pdf, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show depth and segment counts in node labels")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite existing output")

	return cmd
}

func validateRenderFormat(format string) error {
	if !validRenderFormats[strings.ToLower(format)] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be 'dot', 'svg', 'pdf', or 'png')", format)
	}
	return nil
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, skelPath, annPath string, opts *renderOpts) error {
	format := strings.ToLower(opts.format)
	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(skelPath, filepath.Ext(skelPath)) + "." + format
	}
	if !opts.force && fileExists(out) {
		observability.Output().OnSkip(ctx, out)
		printWarning("%s already exists", out)
		printDetail("Use --force to overwrite")
		return nil
	}

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	popts := opts.pipelineOptions(cmd, cfg)
	popts.Logger = loggerFromContext(ctx)

	skel, ann, err := loadInputs(skelPath, annPath)
	if err != nil {
		return err
	}
	g, err := pipeline.Orient(ctx, skel, ann, popts)
	if err != nil {
		return err
	}

	dot := render.ToDOT(g.DAG, render.Options{
		Roots:     g.Roots,
		Segments:  g.Segments,
		BackEdges: transform.BackEdges(g.DAG),
		Detailed:  opts.detailed,
	})

	data, err := renderGraph(ctx, dot, format)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	err = os.WriteFile(out, data, 0o644)
	observability.Output().OnWrite(ctx, out, err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", out)
	}

	printSuccess("Rendered %s", skelPath)
	printFile(out)
	return nil
}

func renderGraph(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case "dot":
		return []byte(dot), nil
	case "svg":
		return render.RenderSVG(ctx, dot)
	case "pdf":
		return render.RenderPDF(ctx, dot)
	case "png":
		return render.RenderPNG(ctx, dot, defaultPNGScale)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported format %q", format)
}

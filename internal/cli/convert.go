package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skeletonize/pkg/annotation"
	"github.com/matzehuels/skeletonize/pkg/errors"
	"github.com/matzehuels/skeletonize/pkg/observability"
	"github.com/matzehuels/skeletonize/pkg/pipeline"
	"github.com/matzehuels/skeletonize/pkg/skeleton"
)

// convertOpts holds the command-line flags shared by convert, inspect and
// render. Flags override the annotations file, which overrides the config
// file, which overrides the defaults.
type convertOpts struct {
	config string

	allowCycles bool
	connectSoma bool
	threshold   float64
	scale       float64
	depth       int
	noClip      bool
	noInflate   bool
	margin      float64
	debug       bool

	outputDir string
	format    string
	force     bool
}

// addConversionFlags registers the flags that affect orientation and growth.
func addConversionFlags(cmd *cobra.Command, opts *convertOpts) {
	cmd.Flags().StringVar(&opts.config, "config", "", "TOML config file")
	cmd.Flags().BoolVarP(&opts.allowCycles, "allow-cycles", "a", false, "keep edges that close a cycle")
	cmd.Flags().BoolVar(&opts.connectSoma, "connect-soma", false, "keep edges between soma nodes")
	cmd.Flags().Float64VarP(&opts.threshold, "threshold", "t", 0, "minimum distance between kept segment samples")
	cmd.Flags().Float64VarP(&opts.scale, "scale", "x", pipeline.DefaultScale, "scale applied to positions and diameters")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "maximum growth depth per soma node (0 = unbounded)")
	cmd.Flags().BoolVar(&opts.noClip, "no-clip", false, "grow segment samples that lie inside the soma")
	cmd.Flags().BoolVar(&opts.noInflate, "no-inflate", false, "grow one section per soma node instead of soma surface points")
	cmd.Flags().Float64Var(&opts.margin, "aabb-margin", -1, "adjust each face of the stack bounds (negative shrinks)")
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [skeleton.json] [annotations.json]",
		Short: "Grow a morphology from a skeleton",
		Long: `Grow a morphology from a skeleton graph and its soma annotations.

The skeleton is oriented outward from every node inside the soma, segments
are simplified by the distance threshold and points outside the stack bounds
are cut. Warnings are summarised at the end of the run; run with -v to see
each one.`,
		Example: `  # Convert to SWC next to the current directory
  skeletonize convert cell.json cell.annotations.json

  # JSON output in out/, overwriting an earlier run
  skeletonize convert cell.json cell.annotations.json --format json -o out -f`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), cmd, args[0], args[1], &opts)
		},
	}

	addConversionFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.debug, "debug-artifacts", false, "add soma markers and enlarge cut points")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", defaultOutputDir, "output directory")
	cmd.Flags().StringVar(&opts.format, "format", pipeline.DefaultFormat, "output format: swc, json")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite existing output")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, cmd *cobra.Command, skelPath, annPath string, opts *convertOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	popts := opts.pipelineOptions(cmd, cfg)
	popts.Logger = logger

	format, outputDir, force := opts.outputSettings(cmd, cfg)
	if err := pipeline.ValidateFormat(format); err != nil {
		return err
	}

	label := labelFor(skelPath)
	if err := errors.ValidateName(label); err != nil {
		return err
	}
	out := filepath.Join(outputDir, label+"."+format)
	if !force && fileExists(out) {
		observability.Output().OnSkip(ctx, out)
		printWarning("%s already exists", out)
		printDetail("Use --force to overwrite")
		return nil
	}

	skel, ann, err := loadInputs(skelPath, annPath)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Growing morphology...")
	spinner.Start()

	result, err := pipeline.Convert(ctx, skel, ann, popts)
	if err != nil {
		spinner.StopWithError("Conversion failed: " + errors.UserMessage(err))
		return err
	}
	spinner.Stop()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", outputDir)
	}
	err = result.Morphology.Save(label, out, force)
	observability.Output().OnWrite(ctx, out, err)
	if err != nil {
		return err
	}
	prog.done("Converted " + skelPath)

	printSuccess("Morphology complete")
	printFile(out)
	printStats(len(result.Morphology.Sections()), result.Morphology.SampleCount(), len(result.Morphology.CutSections()))
	printWarnings(result.Stats, c.Verbose())
	return nil
}

// pipelineOptions layers explicitly set flags over the config file. The
// annotations threshold is applied later by the pipeline, between the two.
func (o *convertOpts) pipelineOptions(cmd *cobra.Command, cfg pipeline.Config) pipeline.Options {
	popts := cfg.Options()
	flags := cmd.Flags()

	if flags.Changed("allow-cycles") {
		popts.AllowCycles = o.allowCycles
	}
	if flags.Changed("connect-soma") {
		popts.ConnectSoma = o.connectSoma
	}
	if flags.Changed("threshold") {
		t := o.threshold
		popts.Threshold = &t
	}
	if flags.Changed("scale") || popts.Scale == 0 {
		popts.Scale = o.scale
	}
	if flags.Changed("depth") {
		popts.MaxDepth = o.depth
	}
	if flags.Changed("no-clip") {
		popts.NoClip = o.noClip
	}
	if flags.Changed("no-inflate") {
		popts.NoInflate = o.noInflate
	}
	if flags.Changed("aabb-margin") {
		m := o.margin
		popts.Margin = &m
	}
	if flags.Changed("debug-artifacts") {
		popts.Debug = o.debug
	}
	return popts
}

// outputSettings resolves the output format, directory and overwrite flag.
func (o *convertOpts) outputSettings(cmd *cobra.Command, cfg pipeline.Config) (format, dir string, force bool) {
	flags := cmd.Flags()

	format = o.format
	if !flags.Changed("format") && cfg.Format != "" {
		format = cfg.Format
	}
	dir = o.outputDir
	if !flags.Changed("output-dir") && cfg.OutputDir != "" {
		dir = cfg.OutputDir
	}
	force = o.force
	if !flags.Changed("force") {
		force = cfg.Force
	}
	return strings.ToLower(format), dir, force
}

// loadConfig reads the config file at path, or returns the zero config when
// path is empty.
func loadConfig(path string) (pipeline.Config, error) {
	if path == "" {
		return pipeline.Config{}, nil
	}
	return pipeline.LoadConfig(path)
}

func loadInputs(skelPath, annPath string) (*skeleton.Skeleton, *annotation.Annotations, error) {
	skel, err := skeleton.ImportJSON(skelPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load skeleton %s: %w", skelPath, err)
	}
	ann, err := annotation.ImportJSON(annPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load annotations %s: %w", annPath, err)
	}
	return skel, ann, nil
}

// labelFor derives the morphology label from the skeleton file name.
func labelFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

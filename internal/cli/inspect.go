package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skeletonize/pkg/pipeline"
)

// inspectCommand creates the inspect command, which orients a skeleton and
// reports on the result without growing or writing anything.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "inspect [skeleton.json] [annotations.json]",
		Short: "Orient a skeleton and print graph diagnostics",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), cmd, args[0], args[1], &opts)
		},
	}
	addConversionFlags(cmd, &opts)
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, cmd *cobra.Command, skelPath, annPath string, opts *convertOpts) error {
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
	d := pipeline.Diagnose(g)

	printSuccess("Oriented %s", skelPath)
	printKeyValue("Soma nodes", strconv.Itoa(len(g.Roots)))
	printKeyValue("Nodes", strconv.Itoa(d.Nodes))
	printKeyValue("Edges", strconv.Itoa(d.Edges))
	printKeyValue("Segments", strconv.Itoa(g.Segments.Count()))
	printKeyValue("Leaves", strconv.Itoa(d.Leaves))
	printKeyValue("Max depth", strconv.Itoa(d.MaxDepth))
	if d.Unreachable > 0 {
		printKeyValue("Unreachable", StyleWarning.Render(strconv.Itoa(d.Unreachable)))
	}
	if len(g.Positions.Outside) > 0 {
		printKeyValue("Out of bounds", StyleWarning.Render(strconv.Itoa(len(g.Positions.Outside))))
	}
	if len(d.BackEdges) > 0 {
		printKeyValue("Cycles", StyleWarning.Render(strconv.Itoa(len(d.BackEdges))))
		for _, e := range d.BackEdges {
			printDetail("%d %s %d", e.From, iconArrow, e.To)
		}
	}
	printWarnings(g.Stats, c.Verbose())

	printNewline()
	printNextStep("Render", fmt.Sprintf("%s render %s %s", appName, skelPath, annPath))
	return nil
}

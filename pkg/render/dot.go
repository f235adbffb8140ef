package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/skeletonize/pkg/dag"
	"github.com/matzehuels/skeletonize/pkg/dag/transform"
	"github.com/matzehuels/skeletonize/pkg/skeleton"
)

// Options configures DOT output.
type Options struct {
	// Roots are drawn as soma nodes.
	Roots skeleton.RootSet

	// Segments adds the oriented segment count to each label when Detailed
	// is set.
	Segments dag.SegmentMap

	// BackEdges are drawn dashed. See [transform.BackEdges].
	BackEdges []transform.Edge

	// Detailed includes depth and segment counts in node labels.
	// When false, only the node ID is shown.
	Detailed bool
}

// ToDOT converts an oriented graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g *dag.DAG, opts Options) string {
	var depths map[dag.NodeID]int
	if opts.Detailed {
		acyclic := g.Clone()
		transform.BreakCycles(acyclic)
		depths = transform.Depths(acyclic)
	}

	back := make(map[transform.Edge]bool, len(opts.BackEdges))
	for _, e := range opts.BackEdges {
		back[e] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		label := fmtLabel(id, depths, opts)
		attrs := fmtAttrs(opts.Roots.Has(id), label)
		fmt.Fprintf(&buf, "  \"%d\" [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, from := range g.Nodes() {
		for _, to := range g.Children(from) {
			if back[transform.Edge{From: from, To: to}] {
				fmt.Fprintf(&buf, "  \"%d\" -> \"%d\" [style=dashed, color=red, constraint=false];\n", from, to)
				continue
			}
			fmt.Fprintf(&buf, "  \"%d\" -> \"%d\";\n", from, to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(id dag.NodeID, depths map[dag.NodeID]int, opts Options) string {
	name := fmt.Sprint(id)
	if !opts.Detailed {
		return name
	}

	parts := []string{fmt.Sprintf("depth: %d", depths[id])}
	if opts.Segments != nil {
		parts = append(parts, fmt.Sprintf("segments: %d", len(opts.Segments[id])))
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(root bool, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if root {
		attrs = append(attrs, "shape=ellipse", "fillcolor=gold", "penwidth=2")
	}
	return attrs
}

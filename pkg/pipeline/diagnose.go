package pipeline

import (
	"github.com/matzehuels/skeletonize/pkg/dag/transform"
	"github.com/matzehuels/skeletonize/pkg/stats"
)

// Diagnostics describes the shape of an oriented graph.
type Diagnostics struct {
	Nodes       int
	Edges       int
	Sources     int
	Leaves      int
	Unreachable int

	// MaxDepth is the longest root-to-leaf path, measured after back edges
	// are removed.
	MaxDepth int

	// BackEdges lists the edges that close a cycle. Always empty unless
	// cycles are allowed.
	BackEdges []transform.Edge

	Warnings map[stats.Kind]int
}

// Diagnose summarises g without modifying it.
func Diagnose(g *Graph) Diagnostics {
	acyclic := g.DAG.Clone()
	back := transform.BackEdges(acyclic)
	transform.BreakCycles(acyclic)

	return Diagnostics{
		Nodes:       g.DAG.NodeCount(),
		Edges:       g.DAG.EdgeCount(),
		Sources:     len(g.DAG.Sources()),
		Leaves:      len(g.DAG.Sinks()),
		Unreachable: len(g.Skeleton.Nodes) - g.DAG.NodeCount(),
		MaxDepth:    transform.MaxDepth(acyclic),
		BackEdges:   back,
		Warnings:    g.Stats.Counts(),
	}
}

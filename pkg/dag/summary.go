package dag

import (
	"github.com/matzehuels/skeletonize/pkg/geom"
	"github.com/matzehuels/skeletonize/pkg/stats"
)

// Summary describes the shape of an oriented graph and its segment map.
type Summary struct {
	// Edges is the distribution of out-degrees over every DAG node.
	Edges stats.Distribution
	// GraphSegments is the distribution of segment counts over map keys that
	// are DAG nodes.
	GraphSegments stats.Distribution
	// Segments is the distribution of segment counts over all map keys.
	Segments stats.Distribution

	// UniquePositions counts distinct sample positions across all segments.
	UniquePositions int
	// Duplicates is the distribution of occurrence counts over positions seen
	// more than once.
	Duplicates stats.Distribution
}

// Summarize computes a Summary of d and m.
func Summarize(d *DAG, m SegmentMap) Summary {
	var out Summary

	edges := make([]int, 0, d.NodeCount())
	for _, id := range d.Nodes() {
		edges = append(edges, d.OutDegree(id))
	}
	out.Edges = stats.Summarize(edges)

	var all, inGraph []int
	seen := make(map[geom.Vec3]int)
	for _, id := range m.Keys() {
		segs := m[id]
		all = append(all, len(segs))
		if d.Has(id) {
			inGraph = append(inGraph, len(segs))
		}
		for _, s := range segs {
			for _, p := range s.Points {
				seen[p.Position]++
			}
		}
	}
	out.Segments = stats.Summarize(all)
	out.GraphSegments = stats.Summarize(inGraph)

	out.UniquePositions = len(seen)
	var dups []int
	for _, n := range seen {
		if n > 1 {
			dups = append(dups, n)
		}
	}
	out.Duplicates = stats.Summarize(dups)
	return out
}

// Package transform provides diagnostics over an oriented skeleton DAG.
//
// # Back Edges
//
// When a DAG is built with cycles allowed, edges that close a cycle are
// reported by [BackEdges]. [BreakCycles] removes them in place, which is
// useful before computing depths on a cyclic graph.
//
// # Depths
//
// [Depths] assigns every node its longest distance from a source node, and
// [MaxDepth] reports the deepest level. On a tree grown from the soma this is
// the branch order of the deepest terminal.
//
// # Usage
//
//	acyclic := d.Clone()
//	transform.BreakCycles(acyclic)
//	depth := transform.MaxDepth(acyclic)
package transform

package transform

import "github.com/matzehuels/skeletonize/pkg/dag"

// Edge is a directed edge of a DAG.
type Edge struct {
	From, To dag.NodeID
}

// BackEdges returns the edges that close a cycle in a depth-first walk that
// starts from the source nodes and then from any node left unvisited. Nodes
// and children are visited in ascending order, so the result is stable.
func BackEdges(g *dag.DAG) []Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[dag.NodeID]int)
	var back []Edge

	var dfs func(node dag.NodeID)
	dfs = func(node dag.NodeID) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				back = append(back, Edge{From: node, To: child})
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n] == white {
			dfs(n)
		}
	}
	for _, n := range g.Nodes() {
		if color[n] == white {
			dfs(n)
		}
	}
	return back
}

// BreakCycles removes every back edge from g and returns how many were
// removed.
func BreakCycles(g *dag.DAG) int {
	back := BackEdges(g)
	for _, e := range back {
		g.RemoveEdge(e.From, e.To)
	}
	return len(back)
}

package transform

import "github.com/matzehuels/skeletonize/pkg/dag"

// Depths assigns each node one plus the maximum depth of its parents, with
// source nodes at depth 0.
//
// Depths assumes g is acyclic. Nodes on a cycle never reach zero in-degree
// and keep depth 0; run [BreakCycles] on a clone first when cycles were
// allowed. Child targets without an entry of their own are included.
func Depths(g *dag.DAG) map[dag.NodeID]int {
	nodes := g.Nodes()
	inDegree := make(map[dag.NodeID]int, len(nodes))
	depths := make(map[dag.NodeID]int, len(nodes))
	queue := make([]dag.NodeID, 0, len(nodes))

	for _, id := range nodes {
		degree := g.InDegree(id)
		inDegree[id] = degree
		depths[id] = 0
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if d := depths[curr] + 1; d > depths[child] {
				depths[child] = d
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return depths
}

// MaxDepth returns the largest value in Depths(g), or 0 for an empty graph.
func MaxDepth(g *dag.DAG) int {
	deepest := 0
	for _, d := range Depths(g) {
		deepest = max(deepest, d)
	}
	return deepest
}

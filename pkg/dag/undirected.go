package dag

import (
	"maps"
	"slices"

	"github.com/matzehuels/skeletonize/pkg/skeleton"
)

// Undirected is the symmetric neighbour graph of a skeleton.
type Undirected map[NodeID]map[NodeID]struct{}

// BuildUndirected inserts both directions of every segment. A segment whose
// ends are the same node makes that node its own neighbour.
func BuildUndirected(segments []skeleton.Segment) Undirected {
	g := make(Undirected)
	link := func(a, b NodeID) {
		if g[a] == nil {
			g[a] = make(map[NodeID]struct{})
		}
		g[a][b] = struct{}{}
	}
	for _, s := range segments {
		link(s.Start, s.End)
		link(s.End, s.Start)
	}
	return g
}

// Neighbors returns the neighbours of id in ascending order.
func (g Undirected) Neighbors(id NodeID) []NodeID {
	return slices.Sorted(maps.Keys(g[id]))
}

package dag

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"

	"github.com/matzehuels/skeletonize/pkg/skeleton"
	"github.com/matzehuels/skeletonize/pkg/stats"
)

// Policy controls which undirected edges Orient keeps.
type Policy struct {
	// AllowCycles keeps edges into nodes that were already visited. The
	// resulting graph may then contain both directions of an edge.
	AllowCycles bool

	// ConnectRoots keeps edges whose target is a root node.
	ConnectRoots bool
}

func (p Policy) accepts(roots skeleton.RootSet, visited map[NodeID]bool, nn NodeID) bool {
	return (p.ConnectRoots || !roots.Has(nn)) && (p.AllowCycles || !visited[nn])
}

// Orient walks g breadth-first from every root at once and returns the graph
// of accepted edges.
//
// A node may be queued several times before it is first popped; the visited
// check at pop time makes the repeats harmless. Every node reachable from a
// root gets an entry, leaves included. Each rejected edge increments
// st.IgnoredEdges. st may be nil.
func Orient(roots skeleton.RootSet, g Undirected, p Policy, st *stats.Statistics) *DAG {
	if st == nil {
		st = &stats.Statistics{}
	}

	d := New()
	visited := make(map[NodeID]bool)

	queue := linkedlistqueue.New()
	for _, r := range roots.IDs() {
		queue.Enqueue(r)
	}

	for !queue.Empty() {
		v, _ := queue.Dequeue()
		cur := v.(NodeID)
		if visited[cur] {
			continue
		}
		visited[cur] = true
		d.AddNode(cur)

		for _, nn := range g.Neighbors(cur) {
			if !visited[nn] {
				queue.Enqueue(nn)
			}
			if p.accepts(roots, visited, nn) {
				d.AddEdge(cur, nn)
			} else {
				st.IgnoredEdges++
			}
		}
	}
	return d
}

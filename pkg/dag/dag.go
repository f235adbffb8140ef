package dag

import (
	"maps"
	"slices"

	"github.com/matzehuels/skeletonize/pkg/skeleton"
)

// NodeID is the skeleton node identifier.
type NodeID = skeleton.NodeID

// DAG is the oriented graph: every key is a node reached from a root, mapped
// to the set of children it may grow into. A node with no children still has
// an entry.
//
// The zero value is not usable; use New. DAG is acyclic unless it was built
// with [Policy.AllowCycles].
type DAG struct {
	children map[NodeID]map[NodeID]struct{}
	edges    int
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{children: make(map[NodeID]map[NodeID]struct{})}
}

// AddNode ensures id has an entry. Adding an existing node is a no-op.
func (d *DAG) AddNode(id NodeID) {
	if _, ok := d.children[id]; !ok {
		d.children[id] = make(map[NodeID]struct{})
	}
}

// AddEdge adds from→to, creating an entry for from if needed. The target does
// not get an entry; Orient adds it when the target is visited. Duplicate edges
// are ignored.
func (d *DAG) AddEdge(from, to NodeID) {
	d.AddNode(from)
	if _, ok := d.children[from][to]; ok {
		return
	}
	d.children[from][to] = struct{}{}
	d.edges++
}

// Has reports whether id has an entry.
func (d *DAG) Has(id NodeID) bool {
	_, ok := d.children[id]
	return ok
}

// HasEdge reports whether from→to is in the graph.
func (d *DAG) HasEdge(from, to NodeID) bool {
	_, ok := d.children[from][to]
	return ok
}

// Children returns the children of id in ascending order, or nil if id has no
// children or no entry.
func (d *DAG) Children(id NodeID) []NodeID {
	cs := d.children[id]
	if len(cs) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(cs))
}

// OutDegree returns the number of children of id.
func (d *DAG) OutDegree(id NodeID) int { return len(d.children[id]) }

// Nodes returns every node with an entry in ascending order.
func (d *DAG) Nodes() []NodeID {
	return slices.Sorted(maps.Keys(d.children))
}

// NodeCount returns the number of nodes with an entry.
func (d *DAG) NodeCount() int { return len(d.children) }

// EdgeCount returns the number of directed edges.
func (d *DAG) EdgeCount() int { return d.edges }

// Parents returns, for every node, the nodes that have an edge into it. Each
// parent list is in ascending order.
func (d *DAG) Parents() map[NodeID][]NodeID {
	parents := make(map[NodeID][]NodeID)
	for _, id := range d.Nodes() {
		for _, c := range d.Children(id) {
			parents[c] = append(parents[c], id)
		}
	}
	return parents
}

// Sources returns nodes with no incoming edges, in ascending order.
func (d *DAG) Sources() []NodeID {
	parents := d.Parents()
	var out []NodeID
	for _, id := range d.Nodes() {
		if len(parents[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Sinks returns nodes with no children, in ascending order.
func (d *DAG) Sinks() []NodeID {
	var out []NodeID
	for _, id := range d.Nodes() {
		if len(d.children[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Adjacency returns a copy of the graph as sorted child lists. It is mainly
// useful for comparisons in tests and for serialisation.
func (d *DAG) Adjacency() map[NodeID][]NodeID {
	out := make(map[NodeID][]NodeID, len(d.children))
	for id := range d.children {
		out[id] = d.Children(id)
		if out[id] == nil {
			out[id] = []NodeID{}
		}
	}
	return out
}

// RemoveEdge deletes from→to if present.
func (d *DAG) RemoveEdge(from, to NodeID) {
	if _, ok := d.children[from][to]; !ok {
		return
	}
	delete(d.children[from], to)
	d.edges--
}

// InDegree returns the number of edges into id.
func (d *DAG) InDegree(id NodeID) int {
	n := 0
	for _, cs := range d.children {
		if _, ok := cs[id]; ok {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of d.
func (d *DAG) Clone() *DAG {
	c := New()
	for id, cs := range d.children {
		c.children[id] = maps.Clone(cs)
	}
	c.edges = d.edges
	return c
}

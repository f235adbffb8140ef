package skeleton

import (
	"maps"
	"slices"

	"github.com/matzehuels/skeletonize/pkg/geom"
)

// NodeID identifies a node in the source skeleton.
type NodeID int

// Node is a measured skeleton node.
type Node struct {
	ID       NodeID
	Position geom.Vec3
	Diameter float64
}

// Point is one sample along a segment polyline.
type Point struct {
	Position geom.Vec3
	Diameter float64
}

// Segment is a polyline between two nodes. Points includes both endpoints:
// Points[0] sits on Start and Points[len-1] sits on End.
type Segment struct {
	Start  NodeID
	End    NodeID
	Points []Point
}

// Reversed returns a copy of s walked from End to Start. The receiver is not
// modified.
func (s Segment) Reversed() Segment {
	pts := slices.Clone(s.Points)
	slices.Reverse(pts)
	return Segment{Start: s.End, End: s.Start, Points: pts}
}

// Skeleton is the full source graph.
type Skeleton struct {
	Nodes    map[NodeID]Node
	Segments []Segment
}

// New creates an empty skeleton.
func New() *Skeleton {
	return &Skeleton{Nodes: make(map[NodeID]Node)}
}

// Node returns the node with the given id.
func (s *Skeleton) Node(id NodeID) (Node, bool) {
	n, ok := s.Nodes[id]
	return n, ok
}

// NodeIDs returns all node ids in ascending order.
func (s *Skeleton) NodeIDs() []NodeID {
	return slices.Sorted(maps.Keys(s.Nodes))
}

// Positions returns every node position ordered by node id.
func (s *Skeleton) Positions() []geom.Vec3 {
	ids := s.NodeIDs()
	out := make([]geom.Vec3, len(ids))
	for i, id := range ids {
		out[i] = s.Nodes[id].Position
	}
	return out
}

// RootSet is the set of node ids inside the soma region.
type RootSet map[NodeID]struct{}

// NewRootSet builds a RootSet from ids.
func NewRootSet(ids ...NodeID) RootSet {
	r := make(RootSet, len(ids))
	for _, id := range ids {
		r[id] = struct{}{}
	}
	return r
}

// Has reports whether id is a root.
func (r RootSet) Has(id NodeID) bool {
	_, ok := r[id]
	return ok
}

// IDs returns the root ids in ascending order.
func (r RootSet) IDs() []NodeID {
	return slices.Sorted(maps.Keys(r))
}

// CollectRoots returns the ids of all nodes whose distance to centre is at
// most radius.
func CollectRoots(s *Skeleton, centre geom.Vec3, radius float64) RootSet {
	roots := make(RootSet)
	rsq := radius * radius
	for id, n := range s.Nodes {
		if centre.DistanceSq(n.Position) <= rsq {
			roots[id] = struct{}{}
		}
	}
	return roots
}

package skeleton

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/skeletonize/pkg/geom"
)

type document struct {
	Nodes    []node    `json:"nodes"`
	Segments []segment `json:"segments"`
}

type node struct {
	ID       NodeID  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Diameter float64 `json:"diameter"`
}

type point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Diameter float64 `json:"diameter"`
}

type segment struct {
	Start  NodeID  `json:"start"`
	End    NodeID  `json:"end"`
	Points []point `json:"points"`
}

// ReadJSON decodes a skeleton from r.
//
// ReadJSON returns an error if the JSON is malformed, a node id is repeated,
// or a segment references a node that does not exist. Segment endpoints are
// not required to coincide with their node positions; the converter trusts
// the source.
func ReadJSON(r io.Reader) (*Skeleton, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	s := New()
	for _, n := range doc.Nodes {
		if _, dup := s.Nodes[n.ID]; dup {
			return nil, fmt.Errorf("node %d: duplicate id", n.ID)
		}
		s.Nodes[n.ID] = Node{ID: n.ID, Position: geom.Vec3{X: n.X, Y: n.Y, Z: n.Z}, Diameter: n.Diameter}
	}
	for i, sg := range doc.Segments {
		if _, ok := s.Nodes[sg.Start]; !ok {
			return nil, fmt.Errorf("segment %d: unknown start node %d", i, sg.Start)
		}
		if _, ok := s.Nodes[sg.End]; !ok {
			return nil, fmt.Errorf("segment %d: unknown end node %d", i, sg.End)
		}
		pts := make([]Point, len(sg.Points))
		for j, p := range sg.Points {
			pts[j] = Point{Position: geom.Vec3{X: p.X, Y: p.Y, Z: p.Z}, Diameter: p.Diameter}
		}
		s.Segments = append(s.Segments, Segment{Start: sg.Start, End: sg.End, Points: pts})
	}
	return s, nil
}

// ImportJSON reads the skeleton file at path.
func ImportJSON(path string) (*Skeleton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes s to w. Nodes are written in ascending id order.
func WriteJSON(s *Skeleton, w io.Writer) error {
	doc := document{Nodes: make([]node, 0, len(s.Nodes)), Segments: make([]segment, len(s.Segments))}
	for _, id := range s.NodeIDs() {
		n := s.Nodes[id]
		doc.Nodes = append(doc.Nodes, node{ID: id, X: n.Position.X, Y: n.Position.Y, Z: n.Position.Z, Diameter: n.Diameter})
	}
	for i, sg := range s.Segments {
		pts := make([]point, len(sg.Points))
		for j, p := range sg.Points {
			pts[j] = point{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z, Diameter: p.Diameter}
		}
		doc.Segments[i] = segment{Start: sg.Start, End: sg.End, Points: pts}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

package grow

import (
	"github.com/charmbracelet/log"
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/matzehuels/skeletonize/pkg/dag"
	"github.com/matzehuels/skeletonize/pkg/errors"
	"github.com/matzehuels/skeletonize/pkg/geom"
	"github.com/matzehuels/skeletonize/pkg/morph"
	"github.com/matzehuels/skeletonize/pkg/skeleton"
	"github.com/matzehuels/skeletonize/pkg/stats"
)

// Grower grows oriented segments into a sink. The visited set and table are
// shared by every Grow call, so several roots can be grown with one Grower
// without growing any node twice.
//
// Grower is not safe for concurrent use.
type Grower struct {
	sink     morph.Sink
	graph    *dag.DAG
	segments dag.SegmentMap
	frame    Frame
	opts     Options
	table    *Table
	stats    *stats.Statistics
	visited  map[dag.NodeID]bool
	logger   *log.Logger
}

// NewGrower creates a Grower. The table must already hold the root positions,
// see GrowRoots. st may be nil.
func NewGrower(sink morph.Sink, g *dag.DAG, segments dag.SegmentMap, frame Frame, opts Options,
	table *Table, st *stats.Statistics) *Grower {
	if st == nil {
		st = &stats.Statistics{}
	}
	return &Grower{
		sink:     sink,
		graph:    g,
		segments: segments,
		frame:    frame,
		opts:     opts,
		table:    table,
		stats:    st,
		visited:  make(map[dag.NodeID]bool),
		logger:   opts.logger(),
	}
}

type work struct {
	node  dag.NodeID
	depth int
}

// Grow grows root and everything below it, at most depth nodes deep
// (Unbounded for no limit). Children are walked in ascending id order, each
// subtree completed before the next sibling starts.
//
// The only error is a contract violation: a segment whose start sample was
// never registered in the table.
func (g *Grower) Grow(root dag.NodeID, depth int) error {
	stack := arraystack.New()
	stack.Push(work{node: root, depth: depth})

	for !stack.Empty() {
		v, _ := stack.Pop()
		w := v.(work)

		children, err := g.growNode(w.node, w.depth)
		if err != nil {
			return err
		}
		next := nextDepth(w.depth)
		for i := len(children) - 1; i >= 0; i-- {
			stack.Push(work{node: children[i], depth: next})
		}
	}
	return nil
}

// growNode grows the segments of one node and returns the children to visit.
func (g *Grower) growNode(id dag.NodeID, depth int) ([]dag.NodeID, error) {
	if depth == 0 {
		g.stats.DepthLimitReached++
		g.logger.Debug("depth limit reached", "node", id)
		return nil, nil
	}
	if g.visited[id] {
		return nil, nil
	}
	g.visited[id] = true
	g.logger.Debug("growing", "node", id)

	var truncated map[dag.NodeID]bool
	for _, s := range g.segments[id] {
		if len(s.Points) < 2 {
			continue
		}

		start := s.Points[0].Position
		node, ok := g.table.Lookup(start)
		if !ok {
			return nil, errors.New(errors.ErrCodeContractViolation,
				"segment %d-%d starts at %v which was never grown", s.Start, s.End, start)
		}
		if g.frame.Outside(start) {
			g.logger.Debug("cut node reached", "node", id, "position", start)
			return nil, nil
		}

		cutShort, err := g.growSegment(s, node)
		if err != nil {
			return nil, err
		}
		if cutShort {
			if truncated == nil {
				truncated = make(map[dag.NodeID]bool)
			}
			truncated[s.End] = true
		}
	}

	children := g.graph.Children(id)
	if truncated == nil {
		return children, nil
	}
	out := make([]dag.NodeID, 0, len(children))
	for _, c := range children {
		if !truncated[c] {
			out = append(out, c)
		}
	}
	return out, nil
}

// growSegment grows the interior and end samples of s from node. It reports
// whether an interior cut point stopped the walk before the end node.
func (g *Grower) growSegment(s skeleton.Segment, node morph.Handle) (bool, error) {
	var (
		section morph.Handle
		prev    geom.Vec3
		cut     bool
	)

	for _, pt := range s.Points[1 : len(s.Points)-1] {
		pos := pt.Position.Sub(g.frame.Centre)
		spos := pos.Scale(g.frame.Scale)
		cut = g.frame.Outside(pt.Position)
		diameter := g.scaledDiameter(pt.Diameter, cut)

		switch {
		case section == nil:
			if g.opts.ClipInsideSoma && pos.Length() <= g.frame.Radius+pt.Diameter {
				break
			}
			section = node.Grow(spos, diameter)
			g.stats.RecordGrowth(node.ID(), pos)
			prev = pos
		case pos.DistanceSq(prev) >= g.opts.MinDistanceSq:
			section.Extend(spos, diameter)
			prev = pos
		default:
			g.stats.SimplifiedPoints++
			g.logger.Debug("simplified point", "position", pos, "previous", prev)
		}

		if cut {
			if section != nil {
				g.sink.MarkCut(section)
			}
			g.stats.CutNodes++
			g.logger.Debug("cut point reached", "segment", [2]dag.NodeID{s.Start, s.End}, "position", pt.Position)
			return true, nil
		}
	}

	end := s.Points[len(s.Points)-1]
	adj := geom.Offset(end.Position, g.frame.Centre, max(0, g.frame.Radius-end.Diameter))

	cut = g.frame.Outside(end.Position)
	if cut {
		g.stats.CutNodes++
		g.logger.Debug("ending cut node reached", "node", s.End, "position", end.Position)
	}

	if section == nil && (!g.opts.ClipInsideSoma || adj.Length() >= g.frame.Radius+end.Diameter) {
		section = node
	}
	if g.table.Has(end.Position) {
		return false, nil
	}
	if section == nil {
		g.logger.Debug("reusing start node", "start", s.Start, "end", s.End)
		return false, g.table.Register(end.Position, node)
	}

	h := section.Grow(adj.Scale(g.frame.Scale), g.scaledDiameter(end.Diameter, cut))
	if err := g.table.Register(end.Position, h); err != nil {
		return false, err
	}
	if cut {
		g.sink.MarkCut(h)
	}
	g.stats.RecordGrowth(section.ID(), adj)
	g.logger.Debug("new node", "node", s.End, "section", h.ID())
	return false, nil
}

func (g *Grower) scaledDiameter(d float64, cut bool) float64 {
	sd := d * g.frame.Scale
	if cut && g.opts.Debug {
		return debugCutDiameter(sd, g.frame.Scale)
	}
	return sd
}

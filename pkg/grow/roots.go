package grow

import (
	"github.com/matzehuels/skeletonize/pkg/dag"
	"github.com/matzehuels/skeletonize/pkg/geom"
	"github.com/matzehuels/skeletonize/pkg/morph"
	"github.com/matzehuels/skeletonize/pkg/skeleton"
	"github.com/matzehuels/skeletonize/pkg/stats"
)

// GrowRoots places every root node in sink and registers its raw position in
// table.
//
// Root positions are recentred and pushed out to at least the soma radius
// before scaling. In inflate mode each oriented segment of a root adds one
// soma surface point, and the root maps to the soma handle whether or not it
// has segments. Otherwise each root grows one section from the soma.
//
// Roots without segments are registered at their node position. Positions
// shared by several roots are registered once.
func GrowRoots(sink morph.Sink, roots skeleton.RootSet, skel *skeleton.Skeleton, segments dag.SegmentMap,
	frame Frame, opts Options, table *Table, st *stats.Statistics) error {
	if st == nil {
		st = &stats.Statistics{}
	}
	logger := opts.logger()
	soma := sink.Soma()

	if opts.Debug {
		debugSoma(soma, frame.Radius*frame.Scale)
	}

	for _, id := range roots.IDs() {
		samples := rootSamples(id, skel, segments)
		if len(samples) == 0 {
			logger.Debug("root has no position", "node", id)
			continue
		}

		if opts.InflateSoma {
			for _, s := range segments[id] {
				if len(s.Points) == 0 {
					continue
				}
				p := s.Points[0]
				adj := geom.Offset(p.Position, frame.Centre, frame.Radius)
				sink.InsertSurfacePoint(adj.Scale(frame.Scale), p.Diameter*frame.Scale)
			}
			for _, p := range samples {
				if table.Has(p.Position) {
					continue
				}
				if err := table.Register(p.Position, soma); err != nil {
					return err
				}
			}
			logger.Debug("root node", "node", id, "segments", len(segments[id]))
			continue
		}

		p := samples[0]
		if table.Has(p.Position) {
			continue
		}
		adj := geom.Offset(p.Position, frame.Centre, frame.Radius)
		spos := adj.Scale(frame.Scale)
		h := soma.Grow(spos, p.Diameter*frame.Scale)
		h.MovePoint(0, spos)
		st.RecordGrowth(soma.ID(), adj)
		if err := table.Register(p.Position, h); err != nil {
			return err
		}
		logger.Debug("root node", "node", id, "section", h.ID())
	}
	return nil
}

// rootSamples returns the first sample of every oriented segment of id, or
// the node itself when it has none.
func rootSamples(id skeleton.NodeID, skel *skeleton.Skeleton, segments dag.SegmentMap) []skeleton.Point {
	var out []skeleton.Point
	for _, s := range segments[id] {
		if len(s.Points) > 0 {
			out = append(out, s.Points[0])
		}
	}
	if len(out) > 0 || skel == nil {
		return out
	}
	if n, ok := skel.Node(id); ok {
		out = append(out, skeleton.Point{Position: n.Position, Diameter: n.Diameter})
	}
	return out
}

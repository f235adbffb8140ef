package dag

import (
	"github.com/matzehuels/skeletonize/pkg/errors"
	"github.com/matzehuels/skeletonize/pkg/skeleton"
)

// Validate cross-checks d and m and returns an INVALID_GRAPH error describing
// the first inconsistency found.
//
// When roots is non-nil, edges into root nodes need no matching segment. The
// pipeline passes roots only when root-to-root edges are disallowed, which is
// the only case in which such edges are expected to lack geometry.
func Validate(d *DAG, m SegmentMap, roots skeleton.RootSet) error {
	exempt := func(id NodeID) bool { return roots != nil && roots.Has(id) }

	for _, id := range d.Nodes() {
		children := d.Children(id)
		if len(children) == 0 {
			continue
		}

		segs, ok := m[id]
		if !ok {
			for _, c := range children {
				if !exempt(c) {
					return errors.New(errors.ErrCodeInvalidGraph,
						"node %d has children but no oriented segments", id)
				}
			}
			continue
		}

		ends := make(map[NodeID]struct{}, len(segs))
		for _, s := range segs {
			ends[s.End] = struct{}{}
		}
		for _, c := range children {
			if _, ok := ends[c]; !ok && !exempt(c) {
				return errors.New(errors.ErrCodeInvalidGraph,
					"edge %d→%d has no oriented segment", id, c)
			}
		}
	}

	for _, id := range m.Keys() {
		if !d.Has(id) {
			return errors.New(errors.ErrCodeInvalidGraph,
				"oriented segments stored under node %d which is not in the graph", id)
		}
		for _, s := range m[id] {
			if s.Start != id {
				return errors.New(errors.ErrCodeInvalidGraph,
					"segment %d-%d stored under node %d", s.Start, s.End, id)
			}
			if !d.Has(s.End) {
				return errors.New(errors.ErrCodeInvalidGraph,
					"segment %d-%d ends at node %d which is not in the graph", s.Start, s.End, s.End)
			}
		}
	}
	return nil
}

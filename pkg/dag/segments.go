package dag

import (
	"maps"
	"slices"

	"github.com/matzehuels/skeletonize/pkg/skeleton"
	"github.com/matzehuels/skeletonize/pkg/stats"
)

// SegmentMap holds, per node, the oriented segments that grow out of it. Every
// segment stored under a key starts at that key.
type SegmentMap map[NodeID][]skeleton.Segment

// Keys returns the map keys in ascending order.
func (m SegmentMap) Keys() []NodeID {
	return slices.Sorted(maps.Keys(m))
}

// Count returns the total number of oriented segments.
func (m SegmentMap) Count() int {
	n := 0
	for _, segs := range m {
		n += len(segs)
	}
	return n
}

// MapSegments orients every source segment along the edges of d.
//
// A segment a-b is stored unchanged under a when d has a→b, and reversed under
// b when d has b→a. Both can apply to the same segment when d was built with
// cycles allowed, so the same geometry is then grown in both directions.
// Segments matching neither direction increment st.UnconnectedSegments and are
// dropped. st may be nil.
func MapSegments(segments []skeleton.Segment, d *DAG, st *stats.Statistics) SegmentMap {
	if st == nil {
		st = &stats.Statistics{}
	}

	m := make(SegmentMap)
	for _, s := range segments {
		connected := false
		if d.HasEdge(s.Start, s.End) {
			m[s.Start] = append(m[s.Start], s)
			connected = true
		}
		if d.HasEdge(s.End, s.Start) {
			m[s.End] = append(m[s.End], s.Reversed())
			connected = true
		}
		if !connected {
			st.UnconnectedSegments++
		}
	}
	return m
}

// Package stats collects the warning counters and growth records produced
// while a skeleton is oriented and grown.
//
// A single [Statistics] value is threaded by pointer through every stage of a
// conversion. Stages only increment counters or append records; nothing reads
// the collector until the run has finished.
package stats

import (
	"maps"
	"slices"

	"github.com/matzehuels/skeletonize/pkg/geom"
)

// Kind enumerates the counters held by [Statistics].
type Kind int

const (
	UnconnectedSegments Kind = iota // segments not reachable from any root
	IgnoredEdges                    // edges rejected by the cycle or root policy
	DepthLimitReached               // growth stopped by the depth budget
	CutNodes                        // segments truncated at the stack boundary
	SimplifiedPoints                // interior points dropped by the distance threshold
)

// Severity reports whether a counter is a structural warning or informational.
func (k Kind) Severity() string {
	if k == SimplifiedPoints {
		return "info"
	}
	return "warning"
}

func (k Kind) String() string {
	switch k {
	case UnconnectedSegments:
		return "unconnected segments"
	case IgnoredEdges:
		return "ignored edges"
	case DepthLimitReached:
		return "depth limit reached"
	case CutNodes:
		return "cut nodes"
	case SimplifiedPoints:
		return "simplified points"
	}
	return "unknown"
}

// Kinds lists every counter kind in report order.
var Kinds = []Kind{UnconnectedSegments, IgnoredEdges, DepthLimitReached, CutNodes, SimplifiedPoints}

// Statistics is the per-run collector.
//
// The zero value is ready to use. Statistics is not safe for concurrent use.
type Statistics struct {
	UnconnectedSegments int
	IgnoredEdges        int
	DepthLimitReached   int
	CutNodes            int
	SimplifiedPoints    int

	// GrownFrom maps a morphology handle id to the (recentred, unscaled)
	// positions of the sections grown directly from it.
	GrownFrom map[int][]geom.Vec3
}

// Count returns the value of the counter k.
func (s *Statistics) Count(k Kind) int {
	switch k {
	case UnconnectedSegments:
		return s.UnconnectedSegments
	case IgnoredEdges:
		return s.IgnoredEdges
	case DepthLimitReached:
		return s.DepthLimitReached
	case CutNodes:
		return s.CutNodes
	case SimplifiedPoints:
		return s.SimplifiedPoints
	}
	return 0
}

// RecordGrowth notes that a section starting at pos was grown from handle.
func (s *Statistics) RecordGrowth(handle int, pos geom.Vec3) {
	if s.GrownFrom == nil {
		s.GrownFrom = make(map[int][]geom.Vec3)
	}
	s.GrownFrom[handle] = append(s.GrownFrom[handle], pos)
}

// HasWarnings reports whether any counter is non-zero.
func (s *Statistics) HasWarnings() bool {
	for _, k := range Kinds {
		if s.Count(k) > 0 {
			return true
		}
	}
	return false
}

// Counts returns the counters as a map keyed by kind, omitting zeros.
func (s *Statistics) Counts() map[Kind]int {
	out := make(map[Kind]int)
	for _, k := range Kinds {
		if c := s.Count(k); c > 0 {
			out[k] = c
		}
	}
	return out
}

// GrowthHandles returns the ids of handles that grew at least one section,
// in ascending order.
func (s *Statistics) GrowthHandles() []int {
	return slices.Sorted(maps.Keys(s.GrownFrom))
}

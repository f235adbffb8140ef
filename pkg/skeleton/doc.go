// Package skeleton defines the raw, undirected skeleton graph read from a
// tracing tool: nodes with a position and diameter, and polyline segments
// connecting pairs of nodes through interior sample points.
//
// # Model
//
// A [Skeleton] is immutable once read. Segments are directionless in the
// source; the first and last [Point] of a [Segment] coincide with the
// positions of its Start and End nodes. [Segment.Reversed] produces the same
// geometry walked in the opposite direction.
//
// # Roots
//
// [CollectRoots] selects the nodes lying inside the soma sphere. These become
// the traversal roots from which the skeleton is oriented and grown.
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"id": 1, "x": 0, "y": 0, "z": 0, "diameter": 1.5}
//	  ],
//	  "segments": [
//	    {"start": 1, "end": 2, "points": [
//	      {"x": 0, "y": 0, "z": 0, "diameter": 1.5},
//	      {"x": 1, "y": 0, "z": 0, "diameter": 1.2}
//	    ]}
//	  ]
//	}
//
// Use [ImportJSON] or [ReadJSON] to load a skeleton and [WriteJSON] to emit
// one.
package skeleton

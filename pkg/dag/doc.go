// Package dag turns an undirected skeleton into a rooted, oriented graph.
//
// # Overview
//
// A traced skeleton arrives as an undirected multigraph that may contain
// cycles, islands and several nodes inside the soma. Growth needs a tree-like
// structure oriented away from the soma. This package performs that
// orientation in four steps:
//
//  1. [BuildUndirected] builds the symmetric neighbour graph from segments.
//  2. [Orient] runs a multi-source breadth-first walk from the roots and keeps
//     only the edges allowed by a [Policy], yielding a [DAG].
//  3. [MapSegments] matches every source segment against the DAG and stores
//     it, reversed where necessary, under the node it grows from.
//  4. [Validate] cross-checks the DAG and the [SegmentMap]; any mismatch is a
//     fatal INVALID_GRAPH error.
//
// # Policies
//
// By default an edge into a node that was already visited is rejected, which
// breaks every cycle at the point where the breadth-first fronts meet, and
// edges into root nodes are rejected so roots stay sources. Both rules can be
// relaxed with [Policy.AllowCycles] and [Policy.ConnectRoots]. Each rejected
// edge increments the ignored-edge counter in [stats.Statistics].
//
// # Determinism
//
// Node and neighbour iteration is always in ascending id order, so the same
// input and policy produce the same DAG.
//
// # Concurrency
//
// DAG and SegmentMap values are not safe for concurrent mutation. Read-only
// use from several goroutines is fine once construction has finished.
//
// # Related Packages
//
// The [transform] subpackage computes depths and back edges of an oriented
// DAG for diagnostics.
//
// [transform]: github.com/matzehuels/skeletonize/pkg/dag/transform
package dag

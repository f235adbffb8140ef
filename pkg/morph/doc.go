// Package morph defines the morphology sink that grown skeletons are written
// into, and provides an in-memory implementation with SWC and JSON output.
//
// # Handles
//
// Growth works on [Handle] values. The soma and every section are handles:
// [Handle.Grow] starts a new child section at a position, [Handle.Extend]
// appends a point to the section itself and [Handle.MovePoint] adjusts a
// point that was already placed. Callers never need to know which kind of
// handle they hold.
//
// # Sink
//
// A [Sink] hands out the soma handle, accepts soma surface points, records
// cut points at the measurement boundary and finally persists the result:
//
//	m := morph.New(logger)
//	sec := m.Soma().Grow(geom.Vec3{X: 5}, 1.2)
//	sec.Extend(geom.Vec3{X: 8}, 1.0)
//	m.MarkCut(sec)
//	err := m.Save("cell-1", "out/cell-1.swc", true)
//
// # Output Formats
//
// [Morphology.Save] picks the format from the destination extension:
//
//   - .swc: the standard SWC sample table (soma samples type 1, dendrite
//     samples type 3, cut samples type 7)
//   - .json: a nested section tree, see [RenderJSON]
//
// A destination that cannot be created is skipped with a warning; deciding
// whether an existing file may be overwritten is up to the caller.
package morph

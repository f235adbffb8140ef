// Package grow turns an oriented skeleton into morphology sections.
//
// Growth runs in two stages. [GrowRoots] places every soma node: in inflate
// mode as a surface point of the shared soma, otherwise as its own section
// grown from the soma. [Grower.Grow] then walks the oriented graph depth
// first from a root and emits one section chain per segment.
//
// # Transform
//
// Positions are recentred on the soma centre and multiplied by the frame
// scale. Root samples and segment end samples are pushed out to a minimum
// distance from the centre so nothing collapses onto the origin; interior
// samples are only recentred.
//
// # Simplification
//
// After the first point of a segment, an interior sample is kept only if its
// squared distance to the last kept sample reaches [Options.MinDistanceSq].
// Dropped samples are counted as simplified points. With
// [Options.ClipInsideSoma] the first point is held back until the segment
// leaves the soma.
//
// # Cut Points
//
// Samples outside [Frame.Bounds] are cut points where the measurement volume
// truncated the data. The walk stops at the first cut sample of a segment,
// marks the section it belongs to and does not descend past it. A node whose
// own position is outside the bounds grows nothing.
//
// # Single Growth
//
// A [Table] maps raw node positions to the handle that represents them and
// refuses a second registration. Together with the visited set of a
// [Grower] this guarantees that each node is grown at most once, however
// many roots or cyclic paths reach it. The walk uses an explicit stack, so
// deep skeletons do not exhaust the goroutine stack.
package grow

package grow

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skeletonize/pkg/dag"
	"github.com/matzehuels/skeletonize/pkg/geom"
)

// Unbounded disables the depth budget.
const Unbounded = -1

// Frame places the skeleton in morphology space.
type Frame struct {
	Centre geom.Vec3 // soma centre in skeleton coordinates
	Radius float64   // soma radius in skeleton units
	Scale  float64   // multiplier applied after recentring

	// Bounds is the valid measurement volume. Nil disables cut detection.
	Bounds *geom.AABB
}

// Outside reports whether p is a cut point.
func (f Frame) Outside(p geom.Vec3) bool {
	return f.Bounds != nil && !f.Bounds.Contains(p)
}

// Options controls growth.
type Options struct {
	// AllowCycles and ConnectRoots select the orientation policy.
	AllowCycles  bool
	ConnectRoots bool

	// MinDistanceSq is the squared minimum distance between kept interior
	// samples.
	MinDistanceSq float64

	// ClipInsideSoma holds back the first point of a segment until it is
	// outside the soma.
	ClipInsideSoma bool

	// InflateSoma attaches roots to the soma surface instead of growing a
	// section per root.
	InflateSoma bool

	// MaxDepth bounds how many nodes deep growth goes from each root.
	// Unbounded (-1) disables the limit.
	MaxDepth int

	// Debug adds soma marker sections and enlarges cut samples.
	Debug bool

	Logger *log.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ClipInsideSoma: true,
		InflateSoma:    true,
		MaxDepth:       Unbounded,
	}
}

// Policy returns the orientation policy implied by o.
func (o Options) Policy() dag.Policy {
	return dag.Policy{AllowCycles: o.AllowCycles, ConnectRoots: o.ConnectRoots}
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.Logger
}

// nextDepth decrements a positive budget. Any other budget becomes unbounded.
func nextDepth(depth int) int {
	if depth > 0 {
		return depth - 1
	}
	return Unbounded
}

// Package pipeline converts a skeleton and its annotations into a grown
// morphology.
//
// This package ties the orientation and growth packages together so the CLI
// and tests run the exact same sequence of stages.
//
// # Architecture
//
// A conversion has two phases:
//
//  1. Orient: collect the soma nodes, build the undirected graph, orient it
//     from the soma, map segments onto the oriented edges and validate the
//     result ([Orient]).
//  2. Grow: place the soma nodes and grow every segment into a morphology
//     ([Grow]).
//
// [Convert] runs both. Every run gets a random run id that tags its log
// lines and hook events. Warnings are counted in [stats.Statistics] and never
// stop a run; validation failures and contract violations abort it before
// anything is written.
//
// # Usage
//
//	opts := pipeline.Options{Scale: 1, Logger: logger}
//	result, err := pipeline.Convert(ctx, skel, annotations, opts)
//	if err != nil {
//	    return err
//	}
//	err = result.Morphology.Save("cell", "cell.swc", false)
//
// # Configuration
//
// [LoadConfig] reads the same settings from a TOML file. The CLI layers
// flags over the annotations file over the config file over the defaults.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skeletonize/pkg/annotation"
	"github.com/matzehuels/skeletonize/pkg/dag"
	"github.com/matzehuels/skeletonize/pkg/errors"
	"github.com/matzehuels/skeletonize/pkg/grow"
	"github.com/matzehuels/skeletonize/pkg/morph"
	"github.com/matzehuels/skeletonize/pkg/skeleton"
	"github.com/matzehuels/skeletonize/pkg/stats"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale leaves coordinates in skeleton units.
	DefaultScale = 1.0

	// DefaultMaxDepth grows the whole graph.
	DefaultMaxDepth = grow.Unbounded

	// DefaultFormat is the morphology output format.
	DefaultFormat = FormatSWC

	// GrowthReportLimit bounds the per-handle lists in growth reports.
	GrowthReportLimit = 10
)

// Format constants for morphology output.
const (
	FormatSWC  = "swc"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSWC:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: swc, json)", format)
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options contains the configuration of one conversion.
type Options struct {
	// AllowCycles keeps edges into already visited nodes.
	AllowCycles bool
	// ConnectSoma keeps edges between soma nodes.
	ConnectSoma bool

	// Threshold is the minimum distance between kept interior samples. When
	// nil the annotations value is used, then DefaultThreshold.
	Threshold        *float64
	DefaultThreshold float64

	// Scale multiplies all recentred positions and diameters.
	Scale float64

	// MaxDepth bounds growth depth per root. Zero or negative is unbounded.
	MaxDepth int

	// NoClip grows segments from their first sample even inside the soma.
	NoClip bool
	// NoInflate grows one section per soma node instead of soma surface
	// points.
	NoInflate bool

	// Margin adjusts each face of the stack box. Nil uses
	// annotation.DefaultMargin.
	Margin *float64

	// Debug adds soma markers and enlarges cut points.
	Debug bool

	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks option values and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := errors.ValidatePositive("scale", o.Scale); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("default threshold", o.DefaultThreshold); err != nil {
		return err
	}
	if o.Threshold != nil {
		if err := errors.ValidateNonNegative("threshold", *o.Threshold); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ResolveThreshold returns the threshold length for a run with annotations
// a: the explicit option, then the annotations, then the default.
func (o *Options) ResolveThreshold(a *annotation.Annotations) float64 {
	if o.Threshold != nil {
		return *o.Threshold
	}
	if a != nil && a.Threshold != nil {
		return *a.Threshold
	}
	return o.DefaultThreshold
}

// ResolveMargin returns the stack box margin.
func (o *Options) ResolveMargin() float64 {
	if o.Margin != nil {
		return *o.Margin
	}
	return annotation.DefaultMargin
}

// Policy returns the orientation policy.
func (o *Options) Policy() dag.Policy {
	return dag.Policy{AllowCycles: o.AllowCycles, ConnectRoots: o.ConnectSoma}
}

// GrowOptions returns the growth options for a run with annotations a.
func (o *Options) GrowOptions(a *annotation.Annotations) grow.Options {
	t := o.ResolveThreshold(a)
	return grow.Options{
		AllowCycles:    o.AllowCycles,
		ConnectRoots:   o.ConnectSoma,
		MinDistanceSq:  t * t,
		ClipInsideSoma: !o.NoClip,
		InflateSoma:    !o.NoInflate,
		MaxDepth:       o.MaxDepth,
		Debug:          o.Debug,
		Logger:         o.Logger,
	}
}

// =============================================================================
// Results
// =============================================================================

// Graph is the output of the orient phase.
type Graph struct {
	RunID     string
	Skeleton  *skeleton.Skeleton
	Roots     skeleton.RootSet
	DAG       *dag.DAG
	Segments  dag.SegmentMap
	Frame     grow.Frame
	Positions stats.PositionReport
	Summary   dag.Summary
	Stats     *stats.Statistics
	Elapsed   time.Duration

	annotations *annotation.Annotations
}

// Result contains the outputs of a conversion.
type Result struct {
	*Graph

	Morphology *morph.Morphology
	Table      *grow.Table

	// Stats holds the orient-phase counters plus everything counted while
	// growing. It is owned by the result; Graph.Stats is left untouched.
	Stats *stats.Statistics

	Growth     stats.GrowthReport
	Timings    Timings
}

// Timings records how long each phase took.
type Timings struct {
	Orient time.Duration
	Grow   time.Duration
}

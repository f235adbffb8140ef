package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/skeletonize/pkg/annotation"
	"github.com/matzehuels/skeletonize/pkg/dag"
	"github.com/matzehuels/skeletonize/pkg/errors"
	"github.com/matzehuels/skeletonize/pkg/grow"
	"github.com/matzehuels/skeletonize/pkg/morph"
	"github.com/matzehuels/skeletonize/pkg/observability"
	"github.com/matzehuels/skeletonize/pkg/skeleton"
	"github.com/matzehuels/skeletonize/pkg/stats"
)

// Convert orients skel around the soma described by a and grows it into a
// morphology.
func Convert(ctx context.Context, skel *skeleton.Skeleton, a *annotation.Annotations, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	hooks := observability.Pipeline()
	hooks.OnConvertStart(ctx, runID, len(skel.Nodes), len(skel.Segments))

	start := time.Now()
	result, err := convert(ctx, runID, skel, a, opts)
	hooks.OnConvertComplete(ctx, runID, time.Since(start), err)
	return result, err
}

func convert(ctx context.Context, runID string, skel *skeleton.Skeleton, a *annotation.Annotations, opts Options) (*Result, error) {
	g, err := orient(ctx, runID, skel, a, opts)
	if err != nil {
		return nil, err
	}
	return Grow(ctx, g, opts)
}

// Orient runs the orient phase: soma node collection, orientation, segment
// mapping and validation.
func Orient(ctx context.Context, skel *skeleton.Skeleton, a *annotation.Annotations, opts Options) (*Graph, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return orient(ctx, uuid.NewString(), skel, a, opts)
}

func orient(ctx context.Context, runID string, skel *skeleton.Skeleton, a *annotation.Annotations, opts Options) (*Graph, error) {
	if skel == nil || a == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "skeleton and annotations are required")
	}
	logger := opts.Logger.With("run", shortID(runID))
	started := time.Now()

	frame := grow.Frame{
		Centre: a.Soma.Centre,
		Radius: a.Soma.Radius,
		Scale:  opts.Scale,
		Bounds: a.Bounds(opts.ResolveMargin()),
	}

	g := &Graph{
		RunID:       runID,
		Skeleton:    skel,
		Frame:       frame,
		Stats:       &stats.Statistics{},
		annotations: a,
	}

	g.Positions = stats.Positions(skel.Positions(), frame.Bounds, frame.Centre)
	logPositions(logger, g.Positions)

	g.Roots = skeleton.CollectRoots(skel, frame.Centre, frame.Radius)
	logger.Info("collected soma nodes", "soma_nodes", len(g.Roots), "nodes", len(skel.Nodes))
	if len(g.Roots) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"no skeleton nodes within %g of the soma centre %v", frame.Radius, frame.Centre)
	}

	if err := stage(ctx, observability.StageOrient, func() error {
		g.DAG = dag.Orient(g.Roots, dag.BuildUndirected(skel.Segments), opts.Policy(), g.Stats)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := stage(ctx, observability.StageMap, func() error {
		g.Segments = dag.MapSegments(skel.Segments, g.DAG, g.Stats)
		return nil
	}); err != nil {
		return nil, err
	}

	g.Summary = dag.Summarize(g.DAG, g.Segments)
	logSummary(logger, g.Summary)

	if err := stage(ctx, observability.StageValidate, func() error {
		var exempt skeleton.RootSet
		if !opts.ConnectSoma {
			exempt = g.Roots
		}
		return dag.Validate(g.DAG, g.Segments, exempt)
	}); err != nil {
		return nil, err
	}

	g.Elapsed = time.Since(started)
	logger.Info("oriented graph",
		"nodes", g.DAG.NodeCount(),
		"edges", g.DAG.EdgeCount(),
		"segments", g.Segments.Count(),
		"duration", g.Elapsed)
	return g, nil
}

// Grow runs the grow phase on an oriented graph.
func Grow(ctx context.Context, g *Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger.With("run", shortID(g.RunID))
	gopts := opts.GrowOptions(g.annotations)
	gopts.Logger = logger

	// Growth counts into its own copy of the orient-phase counters so that
	// growing the same graph again starts from identical numbers.
	st := *g.Stats
	st.GrownFrom = nil

	result := &Result{
		Graph:      g,
		Stats:      &st,
		Morphology: morph.New(logger),
		Table:      grow.NewTable(),
		Timings:    Timings{Orient: g.Elapsed},
	}

	started := time.Now()
	err := stage(ctx, observability.StageGrow, func() error {
		if err := grow.GrowRoots(result.Morphology, g.Roots, g.Skeleton, g.Segments,
			g.Frame, gopts, result.Table, result.Stats); err != nil {
			return err
		}
		soma := result.Morphology.SomaBody()
		logger.Info("soma created", "mean_radius", soma.MeanRadius(), "max_radius", soma.MaxRadius())

		grower := grow.NewGrower(result.Morphology, g.DAG, g.Segments, g.Frame, gopts, result.Table, result.Stats)
		for _, root := range g.Roots.IDs() {
			logger.Debug("growing soma node", "node", root)
			if err := grower.Grow(root, gopts.MaxDepth); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Timings.Grow = time.Since(started)

	result.Growth = stats.Growth(result.Stats, morph.SomaID, GrowthReportLimit)
	logger.Info("grew morphology",
		"sections", len(result.Morphology.Sections()),
		"samples", result.Morphology.SampleCount(),
		"grown_nodes", result.Table.Len(),
		"cut_sections", len(result.Morphology.CutSections()),
		"duration", result.Timings.Grow)
	logger.Debug("growth per handle",
		"handles", result.Growth.All.N,
		"branching", result.Growth.Branching.N,
		"from_soma", result.Growth.FromSoma,
		"largest", result.Growth.Largest)
	return result, nil
}

// stage runs fn between the start and complete hooks of s. The context is
// checked before the stage starts; a stage is never interrupted.
func stage(ctx context.Context, s observability.Stage, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, s)
	start := time.Now()
	err := fn()
	hooks.OnStageComplete(ctx, s, time.Since(start), err)
	return err
}

func logPositions(logger *log.Logger, r stats.PositionReport) {
	logger.Debug("node positions",
		"x", [3]float64{r.X.Min, r.X.Max, r.X.Mean},
		"y", [3]float64{r.Y.Min, r.Y.Max, r.Y.Mean},
		"z", [3]float64{r.Z.Min, r.Z.Max, r.Z.Mean})
	if len(r.Outside) > 0 {
		logger.Warn("nodes outside the stack bounds", "count", len(r.Outside))
		for _, p := range r.Outside {
			logger.Debug("outside node", "position", p)
		}
	}
}

func logSummary(logger *log.Logger, s dag.Summary) {
	logger.Debug("graph edges",
		"nodes", s.Edges.N, "edges", s.Edges.Sum,
		"min", s.Edges.Min, "max", s.Edges.Max, "avg", s.Edges.Mean)
	logger.Debug("segments per node",
		"nodes", s.Segments.N, "segments", s.Segments.Sum,
		"min", s.Segments.Min, "max", s.Segments.Max, "avg", s.Segments.Mean)
	if s.Duplicates.N > 0 {
		logger.Debug("duplicate sample positions",
			"unique", s.UniquePositions, "duplicated", s.Duplicates.N,
			"occurrences", s.Duplicates.Sum, "max", s.Duplicates.Max)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

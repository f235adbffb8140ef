package grow

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/skeletonize/pkg/dag"
	"github.com/matzehuels/skeletonize/pkg/errors"
	"github.com/matzehuels/skeletonize/pkg/geom"
	"github.com/matzehuels/skeletonize/pkg/morph"
	"github.com/matzehuels/skeletonize/pkg/skeleton"
	"github.com/matzehuels/skeletonize/pkg/stats"
)

func x(v float64) geom.Vec3 { return geom.Vec3{X: v} }

func seg(a, b dag.NodeID, pts ...geom.Vec3) skeleton.Segment {
	s := skeleton.Segment{Start: a, End: b}
	for _, p := range pts {
		s.Points = append(s.Points, skeleton.Point{Position: p, Diameter: 1})
	}
	return s
}

func skeletonOf(segs ...skeleton.Segment) *skeleton.Skeleton {
	sk := skeleton.New()
	for _, s := range segs {
		first, last := s.Points[0], s.Points[len(s.Points)-1]
		sk.Nodes[s.Start] = skeleton.Node{ID: s.Start, Position: first.Position, Diameter: first.Diameter}
		sk.Nodes[s.End] = skeleton.Node{ID: s.End, Position: last.Position, Diameter: last.Diameter}
	}
	sk.Segments = segs
	return sk
}

type result struct {
	morph *morph.Morphology
	table *Table
	stats *stats.Statistics
}

func unitFrame() Frame { return Frame{Radius: 1, Scale: 1} }

func run(t *testing.T, roots skeleton.RootSet, frame Frame, opts Options, segs ...skeleton.Segment) result {
	t.Helper()
	st := &stats.Statistics{}
	d := dag.Orient(roots, dag.BuildUndirected(segs), opts.Policy(), st)
	m := dag.MapSegments(segs, d, st)
	if err := dag.Validate(d, m, nil); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	mo := morph.New(nil)
	table := NewTable()
	if err := GrowRoots(mo, roots, skeletonOf(segs...), m, frame, opts, table, st); err != nil {
		t.Fatalf("GrowRoots() error: %v", err)
	}
	g := NewGrower(mo, d, m, frame, opts, table, st)
	for _, r := range roots.IDs() {
		if err := g.Grow(r, opts.MaxDepth); err != nil {
			t.Fatalf("Grow(%d) error: %v", r, err)
		}
	}
	return result{morph: mo, table: table, stats: st}
}

func TestTableRegister(t *testing.T) {
	table := NewTable()
	soma := morph.New(nil).Soma()

	if err := table.Register(x(1), soma); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	err := table.Register(x(1), soma)
	if !errors.Is(err, errors.ErrCodeContractViolation) {
		t.Errorf("second Register() error = %v, want %v", err, errors.ErrCodeContractViolation)
	}
	if h, ok := table.Lookup(x(1)); !ok || h != soma {
		t.Error("Lookup() should return the registered handle")
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestSimplification(t *testing.T) {
	opts := DefaultOptions()
	opts.ClipInsideSoma = false
	opts.MinDistanceSq = 1

	// 10.5, 10.8 and 13.2 are within one unit of the last kept sample.
	r := run(t, skeleton.NewRootSet(1), unitFrame(), opts,
		seg(1, 2, x(0), x(10), x(10.5), x(10.8), x(13), x(13.2), x(20)))

	if r.stats.SimplifiedPoints != 3 {
		t.Errorf("SimplifiedPoints = %d, want 3", r.stats.SimplifiedPoints)
	}
	interior := r.morph.Section(1)
	if interior == nil || len(interior.Samples) != 2 {
		t.Fatalf("interior section = %+v, want 2 samples", interior)
	}
	if got := interior.Samples[1].Position; got != x(13) {
		t.Errorf("second kept sample = %v, want %v", got, x(13))
	}
	if !r.table.Has(x(20)) {
		t.Error("end node should be grown")
	}
}

func TestSimplificationMonotonic(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 11))
	for trial := range 50 {
		pts := []geom.Vec3{x(0)}
		pos := 0.0
		for range 20 {
			pos += r.Float64() * 2
			pts = append(pts, x(pos))
		}
		pts = append(pts, x(pos+1))
		s := seg(1, 2, pts...)

		t1 := r.Float64() * 2
		t2 := t1 + r.Float64()*2

		grown := func(threshold float64) int {
			opts := DefaultOptions()
			opts.ClipInsideSoma = false
			opts.MinDistanceSq = threshold * threshold
			res := run(t, skeleton.NewRootSet(1), unitFrame(), opts, s)
			return res.morph.SampleCount() - 1
		}
		if n1, n2 := grown(t1), grown(t2); n2 > n1 {
			t.Fatalf("trial %d: threshold %.3f grew %d points, threshold %.3f grew %d", trial, t2, n2, t1, n1)
		}
	}
}

func boxFrame() Frame {
	b := geom.NewAABB(geom.Vec3{X: -50, Y: -50, Z: -50}, geom.Vec3{X: 50, Y: 50, Z: 50})
	return Frame{Radius: 1, Scale: 1, Bounds: &b}
}

func TestInteriorCut(t *testing.T) {
	// The second sample of node 2's segment is outside the box.
	r := run(t, skeleton.NewRootSet(1), boxFrame(), DefaultOptions(),
		seg(1, 2, x(0), x(5), x(10)),
		seg(2, 3, x(10), x(60), x(20)),
		seg(3, 4, x(20), x(25), x(30)))

	if r.stats.CutNodes != 1 {
		t.Errorf("CutNodes = %d, want 1", r.stats.CutNodes)
	}
	if r.table.Has(x(20)) || r.table.Has(x(30)) {
		t.Errorf("nodes below the cut were grown: %v", r.table.Positions())
	}
	if diff := cmp.Diff([]geom.Vec3{x(0), x(10)}, r.table.Positions()); diff != "" {
		t.Errorf("Positions() mismatch (-want +got):\n%s", diff)
	}
	if n := len(r.morph.CutSections()); n != 1 {
		t.Errorf("len(CutSections()) = %d, want 1", n)
	}
}

func TestEndCut(t *testing.T) {
	r := run(t, skeleton.NewRootSet(1), boxFrame(), DefaultOptions(),
		seg(1, 2, x(0), x(5), x(10)),
		seg(2, 3, x(10), x(15), x(60)),
		seg(3, 4, x(60), x(65), x(70)))

	if r.stats.CutNodes != 1 {
		t.Errorf("CutNodes = %d, want 1", r.stats.CutNodes)
	}
	if !r.table.Has(x(60)) {
		t.Error("the cut end node should be grown")
	}
	if r.table.Has(x(70)) {
		t.Error("nodes below a cut node should not be grown")
	}
	cuts := r.morph.CutSections()
	if len(cuts) != 1 || cuts[0].Samples[0].Position != x(60) {
		t.Errorf("CutSections() = %+v, want the section at %v", cuts, x(60))
	}
}

func TestDepthLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDepth = 2
	r := run(t, skeleton.NewRootSet(1), unitFrame(), opts,
		seg(1, 2, x(0), x(5), x(10)),
		seg(2, 3, x(10), x(15), x(20)),
		seg(3, 4, x(20), x(25), x(30)))

	if r.stats.DepthLimitReached != 1 {
		t.Errorf("DepthLimitReached = %d, want 1", r.stats.DepthLimitReached)
	}
	if diff := cmp.Diff([]geom.Vec3{x(0), x(10), x(20)}, r.table.Positions()); diff != "" {
		t.Errorf("Positions() mismatch (-want +got):\n%s", diff)
	}
}

func diamond() []skeleton.Segment {
	a, b, c, d := x(0), x(10), geom.Vec3{Y: 10}, geom.Vec3{X: 10, Y: 10}
	return []skeleton.Segment{
		seg(1, 2, a, geom.Vec3{X: 5}, b),
		seg(1, 3, a, geom.Vec3{Y: 5}, c),
		seg(2, 4, b, geom.Vec3{X: 10, Y: 5}, d),
		seg(3, 4, c, geom.Vec3{X: 5, Y: 10}, d),
	}
}

func TestSingleGrowthWithCycles(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowCycles = true
	r := run(t, skeleton.NewRootSet(1), unitFrame(), opts, diamond()...)

	want := []geom.Vec3{x(0), x(10), {Y: 10}, {X: 10, Y: 10}}
	if diff := cmp.Diff(want, r.table.Positions()); diff != "" {
		t.Errorf("Positions() mismatch (-want +got):\n%s", diff)
	}
}

// With cycles allowed the segments into node 4 are also mapped reversed under
// 4. Their end nodes are already grown, but the interior samples still grow
// as stub sections, so the geometry between 2, 3 and 4 appears twice.
func TestCyclesGrowReversedInteriors(t *testing.T) {
	tests := []struct {
		name         string
		allowCycles  bool
		wantSections int
	}{
		// 4 sections for 1-2 and 1-3, 2 for 2-4, 1 stub for 3-4.
		{"acyclic", false, 7},
		// Plus stubs for the reversed 4-2 and 4-3.
		{"cycles", true, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.ClipInsideSoma = false
			opts.AllowCycles = tt.allowCycles
			r := run(t, skeleton.NewRootSet(1), unitFrame(), opts, diamond()...)

			if got := len(r.morph.Sections()); got != tt.wantSections {
				t.Errorf("sections = %d, want %d", got, tt.wantSections)
			}
			if got := r.morph.SampleCount(); got != tt.wantSections {
				t.Errorf("SampleCount() = %d, want %d", got, tt.wantSections)
			}
			if got := r.table.Len(); got != 4 {
				t.Errorf("Table.Len() = %d, want 4", got)
			}
		})
	}
}

func TestGrowIdempotent(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowCycles = true
	opts.MinDistanceSq = 4

	a := run(t, skeleton.NewRootSet(1), unitFrame(), opts, diamond()...)
	b := run(t, skeleton.NewRootSet(1), unitFrame(), opts, diamond()...)

	if diff := cmp.Diff(a.table.Positions(), b.table.Positions()); diff != "" {
		t.Errorf("Positions() differ between runs:\n%s", diff)
	}
	if diff := cmp.Diff(a.stats.Counts(), b.stats.Counts()); diff != "" {
		t.Errorf("Counts() differ between runs:\n%s", diff)
	}
}

func TestGrowTwiceIsNoop(t *testing.T) {
	segs := []skeleton.Segment{seg(1, 2, x(0), x(5), x(10))}
	st := &stats.Statistics{}
	roots := skeleton.NewRootSet(1)
	d := dag.Orient(roots, dag.BuildUndirected(segs), dag.Policy{}, st)
	m := dag.MapSegments(segs, d, st)

	mo := morph.New(nil)
	table := NewTable()
	if err := GrowRoots(mo, roots, nil, m, unitFrame(), DefaultOptions(), table, st); err != nil {
		t.Fatalf("GrowRoots() error: %v", err)
	}
	g := NewGrower(mo, d, m, unitFrame(), DefaultOptions(), table, st)
	for range 2 {
		if err := g.Grow(1, Unbounded); err != nil {
			t.Fatalf("Grow() error: %v", err)
		}
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
	if n := len(mo.Sections()); n != 2 {
		t.Errorf("len(Sections()) = %d, want 2", n)
	}
}

func TestGrowMissingParent(t *testing.T) {
	segs := []skeleton.Segment{seg(1, 2, x(0), x(5), x(10))}
	d := dag.Orient(skeleton.NewRootSet(1), dag.BuildUndirected(segs), dag.Policy{}, nil)
	m := dag.MapSegments(segs, d, nil)

	g := NewGrower(morph.New(nil), d, m, unitFrame(), DefaultOptions(), NewTable(), nil)
	err := g.Grow(1, Unbounded)
	if !errors.Is(err, errors.ErrCodeContractViolation) {
		t.Errorf("Grow() error = %v, want %v", err, errors.ErrCodeContractViolation)
	}
}

func TestEndInsideSomaReusesStart(t *testing.T) {
	frame := Frame{Radius: 10, Scale: 1}
	r := run(t, skeleton.NewRootSet(1), frame, DefaultOptions(), seg(1, 2, x(0), x(2), x(5)))

	h, ok := r.table.Lookup(x(5))
	if !ok {
		t.Fatal("end node should be registered")
	}
	if h.ID() != morph.SomaID {
		t.Errorf("end handle = %d, want the soma", h.ID())
	}
	if n := r.morph.SampleCount(); n != 0 {
		t.Errorf("SampleCount() = %d, want 0", n)
	}
}

func TestGrowRoots(t *testing.T) {
	segments := dag.SegmentMap{
		1: {
			seg(1, 3, x(0), x(5), x(10)),
			seg(1, 4, x(0), geom.Vec3{Y: 5}, geom.Vec3{Y: 10}),
		},
	}
	sk := skeleton.New()
	sk.Nodes[2] = skeleton.Node{ID: 2, Position: geom.Vec3{Z: 1}, Diameter: 1}
	roots := skeleton.NewRootSet(1, 2)

	t.Run("inflate", func(t *testing.T) {
		mo := morph.New(nil)
		table := NewTable()
		if err := GrowRoots(mo, roots, sk, segments, unitFrame(), DefaultOptions(), table, nil); err != nil {
			t.Fatalf("GrowRoots() error: %v", err)
		}
		if n := len(mo.SomaBody().Surface); n != 2 {
			t.Errorf("surface points = %d, want 2", n)
		}
		for _, p := range []geom.Vec3{x(0), {Z: 1}} {
			h, ok := table.Lookup(p)
			if !ok || h.ID() != morph.SomaID {
				t.Errorf("Lookup(%v) = %v, %v, want the soma", p, h, ok)
			}
		}
		if table.Len() != 2 {
			t.Errorf("Len() = %d, want 2", table.Len())
		}
	})

	t.Run("sections", func(t *testing.T) {
		opts := DefaultOptions()
		opts.InflateSoma = false
		st := &stats.Statistics{}
		mo := morph.New(nil)
		table := NewTable()
		if err := GrowRoots(mo, roots, sk, segments, unitFrame(), opts, table, st); err != nil {
			t.Fatalf("GrowRoots() error: %v", err)
		}
		if n := len(mo.Sections()); n != 2 {
			t.Errorf("len(Sections()) = %d, want 2", n)
		}
		if h, _ := table.Lookup(geom.Vec3{Z: 1}); h == nil || h.ID() != 2 {
			t.Errorf("root 2 handle = %v, want section 2", h)
		}
		// Root 2 sits inside the soma and is pushed out to the radius.
		if got := mo.Section(2).Samples[0].Position; got != (geom.Vec3{Z: 1}) {
			t.Errorf("root 2 position = %v, want (0, 0, 1)", got)
		}
		if n := len(st.GrownFrom[morph.SomaID]); n != 2 {
			t.Errorf("GrownFrom[soma] = %d, want 2", n)
		}
	})
}

func TestDebugArtifacts(t *testing.T) {
	opts := DefaultOptions()
	opts.Debug = true
	mo := morph.New(nil)
	if err := GrowRoots(mo, nil, nil, nil, unitFrame(), opts, NewTable(), nil); err != nil {
		t.Fatalf("GrowRoots() error: %v", err)
	}
	if n := len(mo.Sections()); n != 6+3*debugOutlinePoints {
		t.Errorf("len(Sections()) = %d, want %d", n, 6+3*debugOutlinePoints)
	}

	if got := debugCutDiameter(0.1, 1); got != 2 {
		t.Errorf("debugCutDiameter(0.1, 1) = %v, want 2", got)
	}
	if got := debugCutDiameter(1, 0.1); got != 5 {
		t.Errorf("debugCutDiameter(1, 0.1) = %v, want 5", got)
	}
}

func TestNextDepth(t *testing.T) {
	tests := []struct{ in, want int }{{3, 2}, {1, 0}, {Unbounded, Unbounded}}
	for _, tt := range tests {
		if got := nextDepth(tt.in); got != tt.want {
			t.Errorf("nextDepth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

package stats

import (
	"cmp"
	"slices"

	"github.com/matzehuels/skeletonize/pkg/geom"
)

// Distribution summarises a list of counts.
type Distribution struct {
	N    int
	Sum  int
	Min  int
	Max  int
	Mean float64
}

// Summarize computes the distribution of values. An empty input yields the
// zero Distribution.
func Summarize(values []int) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	d := Distribution{N: len(values), Min: values[0], Max: values[0]}
	for _, v := range values {
		d.Sum += v
		d.Min = min(d.Min, v)
		d.Max = max(d.Max, v)
	}
	d.Mean = float64(d.Sum) / float64(d.N)
	return d
}

// AxisRange is the min, max and mean of one coordinate axis.
type AxisRange struct {
	Min, Max, Mean float64
}

// PositionReport describes the raw node positions of a skeleton.
type PositionReport struct {
	X, Y, Z AxisRange
	// Outside holds the recentred positions of nodes that fall outside the
	// stack bounds. Empty when no bounds are configured.
	Outside []geom.Vec3
}

// Positions builds a PositionReport. bounds may be nil.
func Positions(positions []geom.Vec3, bounds *geom.AABB, centre geom.Vec3) PositionReport {
	var r PositionReport
	if len(positions) == 0 {
		return r
	}
	axis := func(get func(geom.Vec3) float64) AxisRange {
		a := AxisRange{Min: get(positions[0]), Max: get(positions[0])}
		var sum float64
		for _, p := range positions {
			v := get(p)
			a.Min = min(a.Min, v)
			a.Max = max(a.Max, v)
			sum += v
		}
		a.Mean = sum / float64(len(positions))
		return a
	}
	r.X = axis(func(v geom.Vec3) float64 { return v.X })
	r.Y = axis(func(v geom.Vec3) float64 { return v.Y })
	r.Z = axis(func(v geom.Vec3) float64 { return v.Z })

	if bounds != nil {
		for _, p := range positions {
			if !bounds.Contains(p) {
				r.Outside = append(r.Outside, geom.Offset(p, centre, 0))
			}
		}
	}
	return r
}

// GrowthReport describes how many sections each handle grew.
type GrowthReport struct {
	// All is the distribution over every handle that grew something.
	All Distribution
	// Branching is restricted to handles that grew more than one section.
	Branching Distribution
	// FromSoma is the number of sections grown directly from the soma, or -1
	// if the soma grew nothing.
	FromSoma int
	// Largest and Smallest hold up to limit per-handle counts, descending and
	// ascending respectively.
	Largest  []int
	Smallest []int
}

// Growth builds a GrowthReport from s. somaID is the id of the soma handle;
// limit bounds the Largest/Smallest lists.
func Growth(s *Statistics, somaID int, limit int) GrowthReport {
	r := GrowthReport{FromSoma: -1}
	var counts, branching []int
	for _, id := range s.GrowthHandles() {
		n := len(s.GrownFrom[id])
		counts = append(counts, n)
		if n > 1 {
			branching = append(branching, n)
		}
		if id == somaID {
			r.FromSoma = n
		}
	}
	slices.SortFunc(counts, func(a, b int) int { return cmp.Compare(b, a) })
	r.All = Summarize(counts)
	r.Branching = Summarize(branching)

	r.Largest = slices.Clone(counts[:min(limit, len(counts))])
	asc := slices.Clone(counts)
	slices.Reverse(asc)
	r.Smallest = asc[:min(limit, len(asc))]
	return r
}

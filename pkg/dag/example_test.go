package dag_test

import (
	"fmt"

	"github.com/matzehuels/skeletonize/pkg/dag"
	"github.com/matzehuels/skeletonize/pkg/geom"
	"github.com/matzehuels/skeletonize/pkg/skeleton"
	"github.com/matzehuels/skeletonize/pkg/stats"
)

func Example() {
	line := func(a, b skeleton.NodeID) skeleton.Segment {
		return skeleton.Segment{Start: a, End: b, Points: []skeleton.Point{
			{Position: geom.Vec3{X: float64(a)}}, {Position: geom.Vec3{X: float64(b)}},
		}}
	}
	segments := []skeleton.Segment{line(1, 2), line(3, 2), line(3, 4), line(5, 6)}

	var st stats.Statistics
	roots := skeleton.NewRootSet(1)
	d := dag.Orient(roots, dag.BuildUndirected(segments), dag.Policy{}, &st)
	m := dag.MapSegments(segments, d, &st)

	for _, id := range d.Nodes() {
		fmt.Println(id, "->", d.Children(id))
	}
	fmt.Println("segments under 2:", m[2][0].Start, "-", m[2][0].End)
	fmt.Println("unconnected:", st.UnconnectedSegments)
	fmt.Println("valid:", dag.Validate(d, m, roots) == nil)
	// Output:
	// 1 -> [2]
	// 2 -> [3]
	// 3 -> [4]
	// 4 -> []
	// segments under 2: 2 - 3
	// unconnected: 1
	// valid: true
}

package grow

import (
	"math"

	"github.com/matzehuels/skeletonize/pkg/geom"
	"github.com/matzehuels/skeletonize/pkg/morph"
)

const (
	debugMarkerDiameter = 0.1
	debugOutlinePoints  = 25
)

// debugSoma grows marker sections outlining a soma of the given radius
// centred on the origin: one axis per direction, with one, two and three
// tick sections on x, y and z, plus three rings.
func debugSoma(soma morph.Handle, radius float64) {
	d := debugMarkerDiameter
	soma.Grow(geom.Vec3{X: 2 * radius}, d)
	y := soma.Grow(geom.Vec3{Y: 2 * radius}, d)
	y.Grow(geom.Vec3{X: 1, Y: 2 * radius}, d)
	z := soma.Grow(geom.Vec3{Z: 2 * radius}, d)
	z.Grow(geom.Vec3{Y: 1, Z: 2 * radius}, d)
	z.Grow(geom.Vec3{X: 1, Z: 2 * radius}, d)

	for a := range debugOutlinePoints {
		ang := float64(a) * 2 * math.Pi / debugOutlinePoints
		i, j := math.Sin(ang)*radius, math.Cos(ang)*radius
		soma.Grow(geom.Vec3{X: i, Y: j}, d)
		soma.Grow(geom.Vec3{X: i, Z: j}, d)
		soma.Grow(geom.Vec3{Y: i, Z: j}, d)
	}
}

// debugCutDiameter enlarges a scaled cut sample diameter so it stands out.
func debugCutDiameter(diameter, scale float64) float64 {
	return math.Max(2*scale, diameter*5)
}

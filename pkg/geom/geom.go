// Package geom provides the small amount of 3-D vector math the converter
// needs: vectors, axis-aligned bounding boxes, and the recentring helpers used
// to move skeleton coordinates into soma-centred morphology space.
package geom

import (
	"fmt"
	"math"
)

// Vec3 is a point or offset in 3-D space. Vec3 is comparable and is used
// directly as a map key for raw skeleton positions.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// AddScalar adds s to every component.
func (v Vec3) AddScalar(s float64) Vec3 { return Vec3{v.X + s, v.Y + s, v.Z + s} }

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 { return math.Sqrt(v.LengthSq()) }

// LengthSq returns the squared length of v.
func (v Vec3) LengthSq() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// DistanceSq returns the squared distance between v and o.
func (v Vec3) DistanceSq(o Vec3) float64 { return v.Sub(o).LengthSq() }

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalize() Vec3 {
	m := v.Length()
	if m == 0 {
		return v
	}
	return v.Scale(1 / m)
}

// Min returns the component-wise minimum of v and o.
func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{math.Min(v.X, o.X), math.Min(v.Y, o.Y), math.Min(v.Z, o.Z)}
}

// Max returns the component-wise maximum of v and o.
func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{math.Max(v.X, o.X), math.Max(v.Y, o.Y), math.Max(v.Z, o.Z)}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Offset moves v into a frame centred on centre and guarantees the result is
// at least minLength long. Vectors shorter than minLength are stretched along
// their own direction; a zero vector stays zero.
func Offset(v, centre Vec3, minLength float64) Vec3 {
	nv := v.Sub(centre)
	if nv.Length() > minLength {
		return nv
	}
	return nv.Normalize().Scale(minLength)
}

package geom

// AABB is an axis-aligned bounding box described by its minimum and maximum
// corners.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB builds a box from two opposite corners given in any order.
func NewAABB(a, b Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// Expand moves every face of the box outward by n. Negative values shrink the
// box. The result is re-normalised so Min <= Max on every axis.
func (b AABB) Expand(n float64) AABB {
	return NewAABB(b.Min.AddScalar(-n), b.Max.AddScalar(n))
}

// Contains reports whether v lies strictly inside the box. Points on a face
// are outside.
func (b AABB) Contains(v Vec3) bool {
	return b.Min.X < v.X && b.Min.Y < v.Y && b.Min.Z < v.Z &&
		v.X < b.Max.X && v.Y < b.Max.Y && v.Z < b.Max.Z
}

// Package geometry provides the planar math behind the volume editing
// core: gift-wrap convex hulls, mitered polygon offsetting, and
// containment tests. Every operation projects onto the xz plane; the y
// coordinate rides along as height data and never influences planarity.
package geometry

// Vec3 is a point or direction in world space. The navigation surface
// lies in the xz plane with y as height.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// DistSq returns the squared distance between v and o.
func (v Vec3) DistSq(o Vec3) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return dx*dx + dy*dy + dz*dz
}

// DistSqXZ returns the squared distance between v and o in the xz plane.
func (v Vec3) DistSqXZ(o Vec3) float64 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return dx*dx + dz*dz
}

// cmpXZ reports whether a orders before b under the total lexicographic
// (x, then z) comparison used to pick a deterministic wrap start point.
func cmpXZ(a, b Vec3) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Z < b.Z
}

// leftXZ reports whether p lies strictly to the left of the directed
// edge a→b in the xz projection.
func leftXZ(a, b, p Vec3) bool {
	u1 := b.X - a.X
	v1 := b.Z - a.Z
	u2 := p.X - a.X
	v2 := p.Z - a.Z
	return u1*v2-v1*u2 < 0
}

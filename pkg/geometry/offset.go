package geometry

import "math"

// miterLimit is the ratio at which a mitered corner becomes a bevel,
// matching the SVG stroke-miterlimit convention.
const miterLimit = 1.20

// epsilon guards divisions in the offset math.
const epsilon = 1e-6

// areaEpsilon is the footprint area below which a polygon is considered
// numerically degenerate and cannot be offset.
const areaEpsilon = 1e-9

// OffsetPolygon buffers a convex polygon outward by dist in the xz
// plane, producing mitered corners and beveling corners sharper than the
// miter limit. Vertices must be ordered counter-clockwise in the xz
// projection, which is the order ConvexHull produces. The result has at
// most 2n+1 vertices for an n-vertex input.
//
// Degenerate input (fewer than three vertices, or a near-zero footprint
// area) yields nil; callers are expected to fall back to the unoffset
// polygon rather than abort.
func OffsetPolygon(verts []Vec3, dist float64) []Vec3 {
	n := len(verts)
	if n < 3 {
		return nil
	}
	if PolygonAreaXZ(verts) < areaEpsilon {
		return nil
	}

	maxOut := n*2 + 1
	out := make([]Vec3, 0, maxOut)

	for i := 0; i < n; i++ {
		a := verts[(i+n-1)%n]
		b := verts[i]
		c := verts[(i+1)%n]

		// Edge directions squashed onto the xz plane.
		prevDX, prevDZ := normalizeXZ(b.X-a.X, b.Z-a.Z)
		currDX, currDZ := normalizeXZ(c.X-b.X, c.Z-b.Z)

		// y component of the cross product of the two segment directions;
		// negative at convex corners for counter-clockwise winding.
		cross := currDX*prevDZ - prevDX*currDZ

		// Counter-clockwise perpendiculars: the segment normals.
		prevNX, prevNZ := -prevDZ, prevDX
		currNX, currNZ := -currDZ, currDX

		// Average the segment normals to get the proportional miter
		// offset for b. Unnormalized: its length encodes how far the
		// corner must move relative to the edge offset.
		miterX := (prevNX + currNX) * 0.5
		miterZ := (prevNZ + currNZ) * 0.5
		miterSq := miterX*miterX + miterZ*miterZ

		bevel := miterSq*miterLimit*miterLimit < 1.0
		if miterSq > epsilon {
			s := 1.0 / miterSq
			miterX *= s
			miterZ *= s
		}

		if bevel && cross < 0 {
			if len(out)+2 > maxOut {
				return nil
			}
			// Two bevel vertices, each pushed out proportionally to the
			// angle between the segments.
			d := 1.0 - (prevDX*currDX+prevDZ*currDZ)*0.5
			out = append(out, Vec3{
				X: b.X + (-prevNX+prevDX*d)*dist,
				Y: b.Y,
				Z: b.Z + (-prevNZ+prevDZ*d)*dist,
			})
			out = append(out, Vec3{
				X: b.X + (-currNX-currDX*d)*dist,
				Y: b.Y,
				Z: b.Z + (-currNZ-currDZ*d)*dist,
			})
		} else {
			if len(out)+1 > maxOut {
				return nil
			}
			out = append(out, Vec3{
				X: b.X - miterX*dist,
				Y: b.Y,
				Z: b.Z - miterZ*dist,
			})
		}
	}

	return out
}

// normalizeXZ normalizes a 2D direction, leaving zero-length input
// unchanged.
func normalizeXZ(dx, dz float64) (float64, float64) {
	sq := dx*dx + dz*dz
	if sq > epsilon {
		inv := 1.0 / math.Sqrt(sq)
		return dx * inv, dz * inv
	}
	return dx, dz
}

package geometry

// PointInPolygonXZ reports whether p lies inside the polygon described
// by verts, using a crossing-number test in the xz projection.
//
// Boundary behavior: edges are treated as half-open intervals, so a
// point exactly on an edge classifies inside or outside depending on
// which edge it touches (low-z and left edges tend to count as inside,
// their opposites as outside). This is inherent to crossing-number
// tests; callers must not rely on boundary points.
func PointInPolygonXZ(verts []Vec3, p Vec3) bool {
	inside := false
	for i, j := 0, len(verts)-1; i < len(verts); j, i = i, i+1 {
		vi := verts[i]
		vj := verts[j]
		if (vi.Z > p.Z) != (vj.Z > p.Z) &&
			p.X < (vj.X-vi.X)*(p.Z-vi.Z)/(vj.Z-vi.Z)+vi.X {
			inside = !inside
		}
	}
	return inside
}

// PolygonAreaXZ returns the absolute area of the polygon in the xz
// projection (shoelace formula).
func PolygonAreaXZ(verts []Vec3) float64 {
	if len(verts) < 3 {
		return 0
	}
	area := 0.0
	for i, j := 0, len(verts)-1; i < len(verts); j, i = i, i+1 {
		area += verts[j].X*verts[i].Z - verts[i].X*verts[j].Z
	}
	if area < 0 {
		area = -area
	}
	return area * 0.5
}

// PolygonBoundsXZ returns the axis-aligned bounding rectangle of verts
// in the xz projection as (minX, minZ, maxX, maxZ).
func PolygonBoundsXZ(verts []Vec3) (minX, minZ, maxX, maxZ float64) {
	if len(verts) == 0 {
		return 0, 0, 0, 0
	}
	minX, maxX = verts[0].X, verts[0].X
	minZ, maxZ = verts[0].Z, verts[0].Z
	for _, v := range verts[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Z < minZ {
			minZ = v.Z
		}
		if v.Z > maxZ {
			maxZ = v.Z
		}
	}
	return minX, minZ, maxX, maxZ
}

// ConvexIntersectsRectXZ reports whether a convex polygon and an
// axis-aligned rectangle overlap in the xz projection. Separating-axis
// test: the rectangle's two axes plus one normal per polygon edge.
// Touching at a shared edge or corner counts as an intersection.
func ConvexIntersectsRectXZ(verts []Vec3, minX, minZ, maxX, maxZ float64) bool {
	if len(verts) < 3 {
		return false
	}

	// Rectangle axes.
	pMinX, pMinZ, pMaxX, pMaxZ := PolygonBoundsXZ(verts)
	if pMaxX < minX || pMinX > maxX || pMaxZ < minZ || pMinZ > maxZ {
		return false
	}

	// Polygon edge normals.
	rect := [4]Vec3{
		{X: minX, Z: minZ},
		{X: maxX, Z: minZ},
		{X: maxX, Z: maxZ},
		{X: minX, Z: maxZ},
	}
	n := len(verts)
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		// Normal of edge a→b in the xz plane.
		nx := -(b.Z - a.Z)
		nz := b.X - a.X

		polyMin, polyMax := projectXZ(verts, nx, nz)
		rectMin, rectMax := projectXZ(rect[:], nx, nz)
		if polyMax < rectMin || polyMin > rectMax {
			return false
		}
	}
	return true
}

// projectXZ projects pts onto the axis (nx, nz) and returns the extent.
func projectXZ(pts []Vec3, nx, nz float64) (min, max float64) {
	min = pts[0].X*nx + pts[0].Z*nz
	max = min
	for _, p := range pts[1:] {
		d := p.X*nx + p.Z*nz
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

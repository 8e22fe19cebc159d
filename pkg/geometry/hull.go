package geometry

// ConvexHull computes the convex hull of pts in the xz projection using
// gift wrapping (Jarvis march) and returns the indices of the hull
// vertices in picking order. The wrap starts at the point that is lowest
// under the (x, then z) lexicographic order, so the same input always
// yields the same index sequence.
//
// Fewer than three points yield nil. Fully colinear input terminates but
// the vertex order of the (degenerate) result is unspecified. O(n·h);
// callers recompute per pick because point counts are operator-driven
// and small.
func ConvexHull(pts []Vec3) []int {
	if len(pts) < 3 {
		return nil
	}

	start := 0
	for i := 1; i < len(pts); i++ {
		if cmpXZ(pts[i], pts[start]) {
			start = i
		}
	}

	var out []int
	cur := start
	for {
		out = append(out, cur)

		// A convex wrap never revisits a vertex, so it cannot grow past
		// the input size; the bound keeps duplicate-point input finite.
		if len(out) > len(pts) {
			break
		}

		next := 0
		for j := 1; j < len(pts); j++ {
			if cur == next || leftXZ(pts[cur], pts[next], pts[j]) {
				next = j
			}
		}
		cur = next
		if next == out[0] {
			break
		}
	}
	return out
}

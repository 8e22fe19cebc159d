// Package tile defines the navigation-mesh tile surface the editing
// core talks to: tile coordinates, world-to-tile math, and the rebuild
// request boundary. The mesh build pipeline itself lives outside this
// repository.
package tile

import (
	"fmt"

	"github.com/navtool/convexvol/pkg/geometry"
)

// Ref identifies one tile of the navigation mesh.
type Ref struct {
	X int `json:"x"`
	Z int `json:"z"`
}

func (r Ref) String() string {
	return fmt.Sprintf("(%d,%d)", r.X, r.Z)
}

// Grid maps world-space positions to tile coordinates. Tiles are
// axis-aligned squares of Size world units, laid out from Origin.
type Grid struct {
	Origin geometry.Vec3
	Size   float64
}

// NewGrid returns a Grid with the given tile size. Sizes that are not
// positive fall back to 1 so the math stays well-defined.
func NewGrid(origin geometry.Vec3, size float64) Grid {
	if size <= 0 {
		size = 1
	}
	return Grid{Origin: origin, Size: size}
}

// At returns the tile containing p in the xz projection.
func (g Grid) At(p geometry.Vec3) Ref {
	return Ref{
		X: floorDiv(p.X-g.Origin.X, g.Size),
		Z: floorDiv(p.Z-g.Origin.Z, g.Size),
	}
}

// Bounds returns the world-space xz rectangle covered by tile r as
// (minX, minZ, maxX, maxZ).
func (g Grid) Bounds(r Ref) (minX, minZ, maxX, maxZ float64) {
	minX = g.Origin.X + float64(r.X)*g.Size
	minZ = g.Origin.Z + float64(r.Z)*g.Size
	return minX, minZ, minX + g.Size, minZ + g.Size
}

// Overlapping returns every tile whose square intersects the convex
// footprint, scanning the footprint's bounding box and refining each
// candidate with an exact polygon/square test.
func (g Grid) Overlapping(footprint []geometry.Vec3) []Ref {
	if len(footprint) < 3 {
		return nil
	}
	minX, minZ, maxX, maxZ := geometry.PolygonBoundsXZ(footprint)
	lo := g.At(geometry.Vec3{X: minX, Z: minZ})
	hi := g.At(geometry.Vec3{X: maxX, Z: maxZ})

	var out []Ref
	for tz := lo.Z; tz <= hi.Z; tz++ {
		for tx := lo.X; tx <= hi.X; tx++ {
			r := Ref{X: tx, Z: tz}
			tMinX, tMinZ, tMaxX, tMaxZ := g.Bounds(r)
			if geometry.ConvexIntersectsRectXZ(footprint, tMinX, tMinZ, tMaxX, tMaxZ) {
				out = append(out, r)
			}
		}
	}
	return out
}

func floorDiv(v, size float64) int {
	q := v / size
	i := int(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}

// Package volume defines the convex volume model, the registry that
// owns the durable volume set, and the area-type catalog volumes
// reference for display.
package volume

import (
	"github.com/navtool/convexvol/pkg/geometry"
)

// NoVolume is the reserved id meaning "no volume selected".
const NoVolume uint32 = 0

// Volume is a convex, vertically-bounded region overlaid on the
// navigation surface. Verts is a closed convex polygon in the xz plane,
// ordered, with at least three vertices once committed. HMin <= HMax.
type Volume struct {
	ID       uint32          `json:"id"`
	Name     string          `json:"name"`
	Verts    []geometry.Vec3 `json:"verts"`
	AreaType uint8           `json:"area_type"`
	HMin     float64         `json:"hmin"`
	HMax     float64         `json:"hmax"`
}

// Contains reports whether p lies inside the volume: a crossing-number
// test against the footprint in the xz projection combined with the
// height range check HMin <= p.Y <= HMax. Points exactly on the
// footprint boundary inherit the crossing test's half-open edge
// classification.
func (v Volume) Contains(p geometry.Vec3) bool {
	return geometry.PointInPolygonXZ(v.Verts, p) && p.Y >= v.HMin && p.Y <= v.HMax
}

// BoundsXZ returns the footprint's axis-aligned bounding rectangle.
func (v Volume) BoundsXZ() (minX, minZ, maxX, maxZ float64) {
	return geometry.PolygonBoundsXZ(v.Verts)
}

// Fields holds the mutable, non-geometric fields of a volume. Edits go
// through Registry.Update with these; vertex geometry is never
// re-derived from an edit.
type Fields struct {
	Name     string  `json:"name"`
	AreaType uint8   `json:"area_type"`
	HMin     float64 `json:"hmin"`
	HMax     float64 `json:"hmax"`
}

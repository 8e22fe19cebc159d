// Package kernel defines the abstract geometry kernel interface used
// to turn volume footprints into preview solids. Implementations
// provide solid modeling behind this interface so the rest of the
// system never depends on a particular CAD backend.
package kernel

import "github.com/navtool/convexvol/pkg/geometry"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds preview solids for convex volumes.
type Kernel interface {
	// ExtrudePolygon lifts an xz footprint into a prism spanning
	// [hmin, hmax] on the y axis. The footprint must have at least
	// three vertices; their y components are ignored.
	ExtrudePolygon(footprint []geometry.Vec3, hmin, hmax float64) (Solid, error)

	// ToMesh converts a solid to a triangle mesh.
	ToMesh(s Solid) (*Mesh, error)
}

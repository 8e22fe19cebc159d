// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/navtool/convexvol/pkg/geometry"
	"github.com/navtool/convexvol/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	meshCells int
}

// New returns a new SdfxKernel at the default mesh resolution.
func New() *SdfxKernel {
	return &SdfxKernel{meshCells: defaultMeshCells}
}

// NewWithResolution returns a kernel that tessellates at the given
// marching cubes cell count. Lower counts mesh faster and coarser.
func NewWithResolution(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &SdfxKernel{meshCells: cells}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// ExtrudePolygon lifts an xz footprint into a prism on [hmin, hmax].
//
// The footprint maps to the sdfx 2D plane as (x, z) -> (x, y), gets
// extruded along the 2D normal, then rotates and translates so the
// extrusion axis lands on world y. sdf.Polygon2D wants its vertices
// counter-clockwise, so a clockwise footprint is reversed first.
func (k *SdfxKernel) ExtrudePolygon(footprint []geometry.Vec3, hmin, hmax float64) (kernel.Solid, error) {
	if len(footprint) < 3 {
		return nil, fmt.Errorf("extrude: footprint has %d vertices, need at least 3", len(footprint))
	}
	if hmax <= hmin {
		return nil, fmt.Errorf("extrude: empty height range [%v, %v]", hmin, hmax)
	}

	points := make([]v2.Vec, len(footprint))
	for i, p := range footprint {
		points[i] = v2.Vec{X: p.X, Y: p.Z}
	}
	if signedArea(points) < 0 {
		for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
			points[i], points[j] = points[j], points[i]
		}
	}

	s2, err := sdf.Polygon2D(points)
	if err != nil {
		return nil, fmt.Errorf("extrude: %w", err)
	}

	// Extrude3D spans the height symmetrically around z=0; rotate the
	// extrusion axis onto y, then shift to the requested range.
	s3 := sdf.Extrude3D(s2, hmax-hmin)
	m := sdf.Translate3d(v3.Vec{Y: (hmin + hmax) / 2}).Mul(sdf.RotateX(math.Pi / 2))
	return wrap(sdf.Transform3D(s3, m)), nil
}

// signedArea is the shoelace sum over the 2D polygon; positive means
// counter-clockwise.
func signedArea(points []v2.Vec) float64 {
	var sum float64
	for i, p := range points {
		q := points[(i+1)%len(points)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

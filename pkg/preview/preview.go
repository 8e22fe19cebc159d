// Package preview turns the volume registry and the in-progress
// editing session into triangle meshes using a geometry kernel. One
// mesh is produced per volume, plus one for the shape currently being
// collected.
package preview

import (
	"fmt"

	"github.com/navtool/convexvol/pkg/geometry"
	"github.com/navtool/convexvol/pkg/kernel"
	"github.com/navtool/convexvol/pkg/session"
	"github.com/navtool/convexvol/pkg/volume"
)

// PendingName is the mesh name for the uncommitted shape.
const PendingName = "pending"

// Build produces one mesh per registry volume, in registry order, plus
// a trailing mesh for the session's uncommitted hull when it already
// spans three or more points. The builder is read-only and never
// mutates the registry or the session.
func Build(reg volume.Registry, sess *session.Session, k kernel.Kernel) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh

	for _, v := range reg.All() {
		solid, err := k.ExtrudePolygon(v.Verts, v.HMin, v.HMax)
		if err != nil {
			return nil, fmt.Errorf("preview: volume %d: %w", v.ID, err)
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("preview: volume %d: %w", v.ID, err)
		}
		mesh.Name = meshName(v)
		meshes = append(meshes, mesh)
	}

	if pending := pendingFootprint(sess); pending != nil {
		hmin, hmax := pendingHeights(pending, sess)
		solid, err := k.ExtrudePolygon(pending, hmin, hmax)
		if err != nil {
			return nil, fmt.Errorf("preview: pending shape: %w", err)
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("preview: pending shape: %w", err)
		}
		mesh.Name = PendingName
		meshes = append(meshes, mesh)
	}

	return meshes, nil
}

// meshName prefers the volume's name, falling back to its id.
func meshName(v volume.Volume) string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("volume_%04d", v.ID)
}

// pendingFootprint resolves the session's hull indices into vertices,
// or nil when there is no drawable shape yet.
func pendingFootprint(sess *session.Session) []geometry.Vec3 {
	if sess == nil {
		return nil
	}
	hull := sess.Hull()
	if len(hull) < 3 {
		return nil
	}
	points := sess.Points()
	out := make([]geometry.Vec3, len(hull))
	for i, idx := range hull {
		out[i] = points[idx]
	}
	return out
}

// pendingHeights mirrors the commit calculation so the preview prism
// matches what a commit would store.
func pendingHeights(footprint []geometry.Vec3, sess *session.Session) (hmin, hmax float64) {
	hmin = footprint[0].Y
	for _, p := range footprint[1:] {
		if p.Y < hmin {
			hmin = p.Y
		}
	}
	hmin -= sess.BoxDescent
	hmax = hmin + sess.BoxHeight
	return hmin, hmax
}

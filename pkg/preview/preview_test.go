package preview_test

import (
	"errors"
	"testing"

	"github.com/navtool/convexvol/pkg/geometry"
	"github.com/navtool/convexvol/pkg/kernel"
	"github.com/navtool/convexvol/pkg/preview"
	"github.com/navtool/convexvol/pkg/session"
	"github.com/navtool/convexvol/pkg/tile"
	"github.com/navtool/convexvol/pkg/volume"
)

// fakeSolid remembers the extrusion request that produced it.
type fakeSolid struct {
	footprint  []geometry.Vec3
	hmin, hmax float64
}

func (s *fakeSolid) BoundingBox() (min, max [3]float64) {
	minX, minZ, maxX, maxZ := geometry.PolygonBoundsXZ(s.footprint)
	return [3]float64{minX, s.hmin, minZ}, [3]float64{maxX, s.hmax, maxZ}
}

// fakeKernel produces one-triangle meshes without any real modeling.
type fakeKernel struct {
	extrudeCalls int
	failMesh     bool
}

func (k *fakeKernel) ExtrudePolygon(footprint []geometry.Vec3, hmin, hmax float64) (kernel.Solid, error) {
	if len(footprint) < 3 {
		return nil, errors.New("footprint too small")
	}
	k.extrudeCalls++
	return &fakeSolid{footprint: footprint, hmin: hmin, hmax: hmax}, nil
}

func (k *fakeKernel) ToMesh(_ kernel.Solid) (*kernel.Mesh, error) {
	if k.failMesh {
		return nil, errors.New("mesh failure")
	}
	return &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 0, 1},
		Normals:  []float32{0, 1, 0, 0, 1, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
	}, nil
}

func square(origin geometry.Vec3) []geometry.Vec3 {
	return []geometry.Vec3{
		origin,
		origin.Add(geometry.Vec3{X: 10}),
		origin.Add(geometry.Vec3{X: 10, Z: 10}),
		origin.Add(geometry.Vec3{Z: 10}),
	}
}

func newFixture() (*volume.MemoryRegistry, *session.Session) {
	reg := volume.NewMemoryRegistry(tile.NewGrid(geometry.Vec3{}, 16))
	return reg, session.New(reg, tile.NewRebuildRecorder())
}

func TestBuildEmpty(t *testing.T) {
	reg, sess := newFixture()
	meshes, err := preview.Build(reg, sess, &fakeKernel{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(meshes) != 0 {
		t.Fatalf("expected 0 meshes, got %d", len(meshes))
	}
}

func TestBuildNamesAndOrder(t *testing.T) {
	reg, sess := newFixture()
	reg.Add(square(geometry.Vec3{}), "water", 0, 5, 2)
	unnamed := reg.Add(square(geometry.Vec3{X: 20}), "", 0, 5, 1)

	k := &fakeKernel{}
	meshes, err := preview.Build(reg, sess, k)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	if meshes[0].Name != "water" {
		t.Errorf("meshes[0].Name = %q, want %q", meshes[0].Name, "water")
	}
	if want := "volume_0002"; meshes[1].Name != want {
		t.Errorf("meshes[1].Name = %q, want %q (id %d)", meshes[1].Name, want, unnamed)
	}
	if k.extrudeCalls != 2 {
		t.Errorf("extrude calls = %d, want 2", k.extrudeCalls)
	}
}

func TestBuildPendingShape(t *testing.T) {
	reg, sess := newFixture()
	sess.BoxHeight = 4
	sess.BoxDescent = 1
	sess.CreateNew()
	for _, p := range square(geometry.Vec3{Y: 2}) {
		sess.AddPoint(p, false, false)
	}

	k := &fakeKernel{}
	meshes, err := preview.Build(reg, sess, k)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected only the pending mesh, got %d meshes", len(meshes))
	}
	if meshes[0].Name != preview.PendingName {
		t.Errorf("mesh name = %q, want %q", meshes[0].Name, preview.PendingName)
	}
	if k.extrudeCalls != 1 {
		t.Errorf("extrude calls = %d, want 1", k.extrudeCalls)
	}
}

func TestBuildPendingHeights(t *testing.T) {
	reg, sess := newFixture()
	sess.BoxHeight = 4
	sess.BoxDescent = 1
	sess.CreateNew()
	for _, p := range square(geometry.Vec3{Y: 2}) {
		sess.AddPoint(p, false, false)
	}

	k := &captureKernel{}
	if _, err := preview.Build(reg, sess, k); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(k.solids) != 1 {
		t.Fatalf("expected 1 extrusion, got %d", len(k.solids))
	}
	// Same height rule as a commit: hmin is the lowest pick minus the
	// descent, hmax is hmin plus the box height.
	got := k.solids[0]
	if got.hmin != 1 || got.hmax != 5 {
		t.Errorf("pending heights [%v, %v], want [1, 5]", got.hmin, got.hmax)
	}
}

func TestBuildTooFewPendingPoints(t *testing.T) {
	reg, sess := newFixture()
	sess.CreateNew()
	sess.AddPoint(geometry.Vec3{X: 0}, false, false)
	sess.AddPoint(geometry.Vec3{X: 10}, false, false)

	meshes, err := preview.Build(reg, sess, &fakeKernel{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(meshes) != 0 {
		t.Fatalf("two picks are not drawable, got %d meshes", len(meshes))
	}
}

func TestBuildMeshError(t *testing.T) {
	reg, sess := newFixture()
	reg.Add(square(geometry.Vec3{}), "bad", 0, 5, 1)

	if _, err := preview.Build(reg, sess, &fakeKernel{failMesh: true}); err == nil {
		t.Fatal("expected an error")
	}
}

// captureKernel keeps every solid it extrudes for inspection.
type captureKernel struct {
	fakeKernel
	solids []*fakeSolid
}

func (k *captureKernel) ExtrudePolygon(footprint []geometry.Vec3, hmin, hmax float64) (kernel.Solid, error) {
	s, err := k.fakeKernel.ExtrudePolygon(footprint, hmin, hmax)
	if err != nil {
		return nil, err
	}
	k.solids = append(k.solids, s.(*fakeSolid))
	return s, nil
}

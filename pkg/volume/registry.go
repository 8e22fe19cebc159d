package volume

import (
	"github.com/dhconnelly/rtreego"

	"github.com/navtool/convexvol/pkg/geometry"
	"github.com/navtool/convexvol/pkg/tile"
)

// Registry owns the durable set of volumes. The editing session only
// ever holds ids; every mutation goes through the registry so no live
// volume pointer escapes it.
type Registry interface {
	// Add stores a new volume and returns its fresh non-zero id.
	Add(verts []geometry.Vec3, name string, hmin, hmax float64, areaType uint8) uint32
	// DeleteByID removes a volume. Unknown ids are a no-op.
	DeleteByID(id uint32)
	// GetByID returns a copy of the volume with the given id.
	GetByID(id uint32) (Volume, bool)
	// All returns copies of every volume in insertion order.
	All() []Volume
	// Update overwrites the mutable fields of a volume, leaving its
	// geometry untouched. Returns false for unknown ids.
	Update(id uint32, f Fields) bool
	// Containing returns the volumes whose region contains p, in
	// insertion order.
	Containing(p geometry.Vec3) []Volume
	// TilesIntersecting returns the navigation-mesh tiles overlapped by
	// the volume's footprint. Unknown ids yield nil.
	TilesIntersecting(id uint32) []tile.Ref
}

// minRectSide pads degenerate bounding boxes so they remain valid
// R-tree rectangles.
const minRectSide = 1e-9

// entry is a stored volume plus its R-tree bounding rectangle.
type entry struct {
	vol  Volume
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *entry) Bounds() rtreego.Rect {
	return e.rect
}

// MemoryRegistry is the in-memory reference Registry. Ids are assigned
// sequentially starting at 1 and never reused within a registry's
// lifetime. Footprint bounding boxes are indexed in an R-tree so
// containment queries only run the exact polygon test on candidates.
//
// Not safe for concurrent use; the editing core is single-threaded and
// frame-driven by design.
type MemoryRegistry struct {
	grid   tile.Grid
	nextID uint32
	order  []uint32
	byID   map[uint32]*entry
	tree   *rtreego.Rtree
}

var _ Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry returns an empty registry resolving tiles against
// the given grid.
func NewMemoryRegistry(grid tile.Grid) *MemoryRegistry {
	return &MemoryRegistry{
		grid: grid,
		byID: make(map[uint32]*entry),
		tree: rtreego.NewTree(2, 4, 8),
	}
}

// Add stores a new volume and returns its id.
func (r *MemoryRegistry) Add(verts []geometry.Vec3, name string, hmin, hmax float64, areaType uint8) uint32 {
	r.nextID++
	id := r.nextID

	v := Volume{
		ID:       id,
		Name:     name,
		Verts:    append([]geometry.Vec3(nil), verts...),
		AreaType: areaType,
		HMin:     hmin,
		HMax:     hmax,
	}
	e := &entry{vol: v, rect: footprintRect(v.Verts)}
	r.byID[id] = e
	r.order = append(r.order, id)
	r.tree.Insert(e)
	return id
}

// DeleteByID removes a volume; unknown ids are a no-op.
func (r *MemoryRegistry) DeleteByID(id uint32) {
	e, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	r.tree.Delete(e)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// GetByID returns a copy of the stored volume.
func (r *MemoryRegistry) GetByID(id uint32) (Volume, bool) {
	e, ok := r.byID[id]
	if !ok {
		return Volume{}, false
	}
	return copyVolume(e.vol), true
}

// All returns copies of every volume in insertion order.
func (r *MemoryRegistry) All() []Volume {
	out := make([]Volume, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyVolume(r.byID[id].vol))
	}
	return out
}

// Update overwrites the mutable fields of a volume.
func (r *MemoryRegistry) Update(id uint32, f Fields) bool {
	e, ok := r.byID[id]
	if !ok {
		return false
	}
	e.vol.Name = f.Name
	e.vol.AreaType = f.AreaType
	e.vol.HMin = f.HMin
	e.vol.HMax = f.HMax
	return true
}

// Containing returns the volumes containing p in insertion order. The
// R-tree narrows candidates by bounding box; insertion order is
// preserved by filtering the ordered id list against the candidate set,
// so overlapping regions resolve the way the registry iterates.
func (r *MemoryRegistry) Containing(p geometry.Vec3) []Volume {
	hits := r.tree.SearchIntersect(pointRect(p))
	if len(hits) == 0 {
		return nil
	}
	candidates := make(map[uint32]bool, len(hits))
	for _, h := range hits {
		candidates[h.(*entry).vol.ID] = true
	}

	var out []Volume
	for _, id := range r.order {
		if !candidates[id] {
			continue
		}
		if v := r.byID[id].vol; v.Contains(p) {
			out = append(out, copyVolume(v))
		}
	}
	return out
}

// TilesIntersecting resolves the tiles overlapped by a volume's
// footprint.
func (r *MemoryRegistry) TilesIntersecting(id uint32) []tile.Ref {
	e, ok := r.byID[id]
	if !ok {
		return nil
	}
	return r.grid.Overlapping(e.vol.Verts)
}

// Len returns the number of stored volumes.
func (r *MemoryRegistry) Len() int {
	return len(r.order)
}

func copyVolume(v Volume) Volume {
	v.Verts = append([]geometry.Vec3(nil), v.Verts...)
	return v
}

// footprintRect builds the R-tree rectangle for a footprint, padding
// degenerate extents to keep the rectangle valid.
func footprintRect(verts []geometry.Vec3) rtreego.Rect {
	minX, minZ, maxX, maxZ := geometry.PolygonBoundsXZ(verts)
	w := maxX - minX
	d := maxZ - minZ
	if w < minRectSide {
		w = minRectSide
	}
	if d < minRectSide {
		d = minRectSide
	}
	rect, err := rtreego.NewRect(rtreego.Point{minX, minZ}, []float64{w, d})
	if err != nil {
		// Unreachable: lengths are padded positive above.
		panic(err)
	}
	return rect
}

func pointRect(p geometry.Vec3) rtreego.Rect {
	rect, err := rtreego.NewRect(rtreego.Point{p.X, p.Z}, []float64{minRectSide, minRectSide})
	if err != nil {
		panic(err)
	}
	return rect
}

// Package session implements the volume editing state machine: point
// collection, hull maintenance, commit/cancel, selection, field edits,
// and deletion, orchestrating the geometry helpers against a volume
// registry and handing tile invalidations to the mesh rebuilder.
package session

import (
	"github.com/navtool/convexvol/pkg/geometry"
	"github.com/navtool/convexvol/pkg/tile"
	"github.com/navtool/convexvol/pkg/volume"
)

// State enumerates the three mutually-exclusive session states.
type State int

const (
	// StateIdle: nothing selected, no points collected.
	StateIdle State = iota
	// StateCollecting: gathering points for a new shape.
	StateCollecting
	// StateSelected: an existing volume is loaded for editing.
	StateSelected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StateSelected:
		return "selected"
	default:
		return "unknown"
	}
}

// closeToleranceSq is the squared distance within which a click on the
// last picked point finalizes the shape.
const closeToleranceSq = 0.2 * 0.2

// minPolyOffset is the smallest offset distance that actually triggers
// polygon offsetting at commit time.
const minPolyOffset = 0.01

// EditBuffer is the scratch copy of a selected volume's mutable fields.
type EditBuffer struct {
	volume.Fields
	Dirty bool
}

// Session drives create/edit/delete for convex volumes. It owns only
// transient state; durable volumes live in the registry and are
// addressed by id. All operations are synchronous and silent: paths
// with nothing to do are no-ops, never errors.
type Session struct {
	reg     volume.Registry
	rebuild tile.Rebuilder

	points []geometry.Vec3
	hull   []int

	// Parameters for the next committed volume.
	BoxHeight  float64
	BoxDescent float64
	PolyOffset float64
	Name       string
	AreaType   uint8

	collecting bool
	currentID  uint32
	edit       EditBuffer
}

// New returns an idle session with the original tool's shape defaults.
func New(reg volume.Registry, rebuild tile.Rebuilder) *Session {
	return &Session{
		reg:        reg,
		rebuild:    rebuild,
		BoxHeight:  6.0,
		BoxDescent: 1.0,
		PolyOffset: 0.0,
	}
}

// State reports which of the three states the session is in.
func (s *Session) State() State {
	switch {
	case s.currentID != volume.NoVolume:
		return StateSelected
	case s.collecting:
		return StateCollecting
	default:
		return StateIdle
	}
}

// Points returns a copy of the picked points.
func (s *Session) Points() []geometry.Vec3 {
	return append([]geometry.Vec3(nil), s.points...)
}

// Hull returns a copy of the current hull indices into Points.
func (s *Session) Hull() []int {
	return append([]int(nil), s.hull...)
}

// CurrentVolumeID returns the id of the selected volume, or
// volume.NoVolume.
func (s *Session) CurrentVolumeID() uint32 {
	return s.currentID
}

// EditBuffer returns the scratch edit state for the selected volume.
func (s *Session) EditBuffer() EditBuffer {
	return s.edit
}

// CreateNew clears any selection and transient buffers and enters
// point collection.
func (s *Session) CreateNew() {
	s.resetTransient()
	s.collecting = true
}

// Cancel discards all transient buffers without creating anything.
func (s *Session) Cancel() {
	s.resetTransient()
}

// AddPoint handles one click on the navigation surface.
//
// With shift held it is a delete: the first registry volume containing
// p (in registry iteration order — deliberately not the nearest) is
// removed and its tiles invalidated.
//
// Otherwise, while collecting, a click either finalizes the shape
// (when alt is held, or when p lands within the close tolerance of the
// last picked point) or appends p and recomputes the hull. A click
// while idle with no selection implicitly starts a new shape.
//
// The returned refs are the tiles invalidated by the click; nil when
// nothing changed.
func (s *Session) AddPoint(p geometry.Vec3, shift, alt bool) []tile.Ref {
	if shift {
		return s.deleteAt(p)
	}

	if s.currentID == volume.NoVolume && !s.collecting {
		s.collecting = true
	}
	if !s.collecting {
		return nil
	}

	if len(s.points) > 0 && (alt || p.DistSq(s.points[len(s.points)-1]) < closeToleranceSq) {
		return s.Commit()
	}

	s.points = append(s.points, p)
	if len(s.points) >= 2 {
		s.hull = geometry.ConvexHull(s.points)
	} else {
		s.hull = nil
	}
	return nil
}

// Commit turns the collected hull into a registry volume. With fewer
// than three hull vertices it silently resets the session and creates
// nothing. Offsetting applies when PolyOffset is set; when offsetting
// fails the raw hull is used instead. Returns the invalidated tiles.
func (s *Session) Commit() []tile.Ref {
	var modified []tile.Ref

	if len(s.hull) > 2 {
		verts := make([]geometry.Vec3, len(s.hull))
		for i, idx := range s.hull {
			verts[i] = s.points[idx]
		}

		hmin := verts[0].Y
		for _, v := range verts[1:] {
			if v.Y < hmin {
				hmin = v.Y
			}
		}
		hmin -= s.BoxDescent
		hmax := hmin + s.BoxHeight

		if s.PolyOffset > minPolyOffset {
			if off := geometry.OffsetPolygon(verts, s.PolyOffset); len(off) > 0 {
				verts = off
			}
		}

		id := s.reg.Add(verts, s.Name, hmin, hmax, s.AreaType)
		modified = s.reg.TilesIntersecting(id)
		s.requestRebuild(modified)
	}

	s.resetTransient()
	return modified
}

// SelectExisting loads a volume for editing, clearing any point
// collection in progress. Unknown ids are a no-op.
func (s *Session) SelectExisting(id uint32) bool {
	v, ok := s.reg.GetByID(id)
	if !ok {
		return false
	}
	s.resetTransient()
	s.currentID = v.ID
	s.edit = EditBuffer{Fields: volume.Fields{
		Name:     v.Name,
		AreaType: v.AreaType,
		HMin:     v.HMin,
		HMax:     v.HMax,
	}}
	return true
}

// Edit stages new field values for the selected volume and marks the
// buffer dirty. Ignored outside the selected state.
func (s *Session) Edit(f volume.Fields) {
	if s.currentID == volume.NoVolume {
		return
	}
	s.edit.Fields = f
	s.edit.Dirty = true
}

// SaveEdits writes the staged fields back onto the stored volume and
// invalidates its tiles. A clean buffer, or a volume that vanished, is
// a no-op. Geometry is never re-derived from an edit.
func (s *Session) SaveEdits() []tile.Ref {
	if s.currentID == volume.NoVolume || !s.edit.Dirty {
		return nil
	}
	if !s.reg.Update(s.currentID, s.edit.Fields) {
		return nil
	}
	s.edit.Dirty = false

	modified := s.reg.TilesIntersecting(s.currentID)
	s.requestRebuild(modified)
	return modified
}

// DeleteSelected removes the selected volume, invalidating its tiles
// first so the rebuild set is complete, and returns to idle.
func (s *Session) DeleteSelected() []tile.Ref {
	if s.currentID == volume.NoVolume {
		return nil
	}
	modified := s.reg.TilesIntersecting(s.currentID)
	s.reg.DeleteByID(s.currentID)
	s.resetTransient()
	s.requestRebuild(modified)
	return modified
}

// deleteAt removes the first volume containing p in registry iteration
// order. No hit is a silent no-op.
func (s *Session) deleteAt(p geometry.Vec3) []tile.Ref {
	hits := s.reg.Containing(p)
	if len(hits) == 0 {
		return nil
	}
	target := hits[0]

	// Resolve tiles before the delete; afterwards the footprint is gone.
	modified := s.reg.TilesIntersecting(target.ID)
	s.reg.DeleteByID(target.ID)
	if s.currentID == target.ID {
		s.resetTransient()
	}
	s.requestRebuild(modified)
	return modified
}

func (s *Session) requestRebuild(tiles []tile.Ref) {
	if len(tiles) == 0 || s.rebuild == nil {
		return
	}
	s.rebuild.RebuildTiles(tiles)
}

func (s *Session) resetTransient() {
	s.points = nil
	s.hull = nil
	s.currentID = volume.NoVolume
	s.edit = EditBuffer{}
	s.Name = ""
	s.collecting = false
}

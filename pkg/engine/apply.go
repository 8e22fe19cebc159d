package engine

import (
	"fmt"

	"github.com/navtool/convexvol/pkg/geometry"
	"github.com/navtool/convexvol/pkg/session"
	"github.com/navtool/convexvol/pkg/tile"
	"github.com/navtool/convexvol/pkg/volume"
)

// closePointTolerance matches the session's click-to-close distance.
// Consecutive script points this close would finalize the shape early
// during replay, so they collapse to one point first.
const closePointTolerance = 0.2

// Apply replays script definitions through the editing session,
// committing one volume per definition. Area names resolve through the
// catalog; a definition with an empty area keeps the session's current
// area type. The first failed definition aborts the replay, leaving
// earlier volumes in place. Returns all invalidated tiles.
func Apply(defs []Def, sess *session.Session, cat *volume.AreaCatalog) ([]tile.Ref, error) {
	var tiles []tile.Ref

	for i, d := range defs {
		label := d.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}

		area := sess.AreaType
		if d.Area != "" {
			id, ok := cat.IDByName(d.Area)
			if !ok {
				return tiles, fmt.Errorf("apply: volume %s: unknown area %q", label, d.Area)
			}
			area = id
		}

		sess.CreateNew()
		sess.Name = d.Name
		sess.AreaType = area
		sess.BoxHeight = d.Height
		sess.BoxDescent = d.Descent
		sess.PolyOffset = d.Offset

		for _, p := range dedupePoints(d.Points) {
			sess.AddPoint(p, false, false)
		}

		committed := sess.Commit()
		if len(committed) == 0 {
			return tiles, fmt.Errorf("apply: volume %s: degenerate footprint", label)
		}
		tiles = append(tiles, committed...)
	}

	return tiles, nil
}

// dedupePoints drops points within closePointTolerance of their
// predecessor.
func dedupePoints(points []geometry.Vec3) []geometry.Vec3 {
	out := make([]geometry.Vec3, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && p.DistSq(out[len(out)-1]) < closePointTolerance*closePointTolerance {
			continue
		}
		out = append(out, p)
	}
	return out
}

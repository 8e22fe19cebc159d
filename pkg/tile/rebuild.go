package tile

// Rebuilder receives the set of tiles invalidated by a volume change.
// Requests are fire-and-forget: the core guarantees the set is correct
// and complete before handing it off, and does not care whether the
// rebuild happens synchronously or is deferred.
type Rebuilder interface {
	RebuildTiles(tiles []Ref)
}

// RebuildRecorder is a Rebuilder that accumulates requests. Hosts drain
// it once per frame; tests inspect it directly.
type RebuildRecorder struct {
	pending []Ref
	total   int
}

// NewRebuildRecorder returns an empty recorder.
func NewRebuildRecorder() *RebuildRecorder {
	return &RebuildRecorder{}
}

// RebuildTiles appends the tiles to the pending set, dropping tiles
// already pending so repeated requests within one frame stay idempotent.
func (r *RebuildRecorder) RebuildTiles(tiles []Ref) {
	for _, t := range tiles {
		if !containsRef(r.pending, t) {
			r.pending = append(r.pending, t)
		}
	}
	r.total += len(tiles)
}

// Drain returns the pending tiles in request order and clears them.
func (r *RebuildRecorder) Drain() []Ref {
	out := r.pending
	r.pending = nil
	return out
}

// Pending returns the tiles awaiting a drain, without clearing them.
func (r *RebuildRecorder) Pending() []Ref {
	return append([]Ref(nil), r.pending...)
}

// TotalRequested returns the number of tile refs requested over the
// recorder's lifetime, counting duplicates.
func (r *RebuildRecorder) TotalRequested() int {
	return r.total
}

func containsRef(refs []Ref, t Ref) bool {
	for _, r := range refs {
		if r == t {
			return true
		}
	}
	return false
}

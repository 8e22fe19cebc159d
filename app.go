package main

import (
	"context"
	"fmt"
	"log"

	"github.com/navtool/convexvol/pkg/engine"
	"github.com/navtool/convexvol/pkg/geometry"
	"github.com/navtool/convexvol/pkg/kernel"
	"github.com/navtool/convexvol/pkg/kernel/sdfx"
	"github.com/navtool/convexvol/pkg/preview"
	"github.com/navtool/convexvol/pkg/session"
	"github.com/navtool/convexvol/pkg/tile"
	"github.com/navtool/convexvol/pkg/volume"
)

// colorPalette is a fallback palette for area types without a
// configured color.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Config controls app construction.
type Config struct {
	TileSize   float64 // navmesh tile edge length, world units
	AreasPath  string  // optional YAML area catalog
	Resolution int     // preview mesh resolution, 0 for default
}

// App owns the editing state and exposes methods to a frontend via
// bindings. All methods are for a single UI thread; the app is not
// safe for concurrent use.
type App struct {
	ctx      context.Context
	catalog  *volume.AreaCatalog
	registry *volume.MemoryRegistry
	recorder *tile.RebuildRecorder
	session  *session.Session
	engine   *engine.Engine
	kernel   kernel.Kernel
}

// VolumeInfo is the JSON-serializable volume summary for list views.
type VolumeInfo struct {
	ID        uint32  `json:"id"`
	Label     string  `json:"label"`
	Name      string  `json:"name"`
	Area      string  `json:"area"`
	AreaValid bool    `json:"areaValid"`
	VertCount int     `json:"vertCount"`
	HMin      float64 `json:"hmin"`
	HMax      float64 `json:"hmax"`
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ScriptResult is the outcome of running a volume script.
type ScriptResult struct {
	Applied int             `json:"applied"`
	Tiles   int             `json:"tiles"`
	Errors  []EvalErrorData `json:"errors"`
}

// SessionView is a snapshot of the editing session for the frontend.
type SessionView struct {
	State     string          `json:"state"`
	Points    []geometry.Vec3 `json:"points"`
	Hull      []int           `json:"hull"`
	CurrentID uint32          `json:"currentId"`
	Edit      *volume.Fields  `json:"edit,omitempty"`
	Dirty     bool            `json:"dirty"`
}

// NewApp creates an app with the default area catalog and tile size.
func NewApp() *App {
	a, err := NewAppWithConfig(Config{})
	if err != nil {
		// Only catalog loading can fail, and the zero Config skips it.
		panic(err)
	}
	return a
}

// NewAppWithConfig creates an app from explicit configuration.
func NewAppWithConfig(cfg Config) (*App, error) {
	catalog := volume.DefaultCatalog()
	if cfg.AreasPath != "" {
		loaded, err := volume.LoadCatalog(cfg.AreasPath)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		catalog = loaded
	}

	size := cfg.TileSize
	if size <= 0 {
		size = 16
	}
	grid := tile.NewGrid(geometry.Vec3{}, size)

	var k kernel.Kernel
	if cfg.Resolution > 0 {
		k = sdfx.NewWithResolution(cfg.Resolution)
	} else {
		k = sdfx.New()
	}

	registry := volume.NewMemoryRegistry(grid)
	recorder := tile.NewRebuildRecorder()

	return &App{
		catalog:  catalog,
		registry: registry,
		recorder: recorder,
		session:  session.New(registry, recorder),
		engine:   engine.NewEngine(),
		kernel:   k,
	}, nil
}

// Start is called once on app startup. The context is saved so
// long-running work can observe shutdown.
func (a *App) Start(ctx context.Context) {
	a.ctx = ctx
}

// Tick drains the pending tile rebuilds accumulated since the last
// call and returns them. The frontend schedules navmesh rebuilds from
// the result.
func (a *App) Tick() []tile.Ref {
	pending := a.recorder.Drain()
	if len(pending) > 0 {
		log.Printf("rebuilding %d navmesh tiles", len(pending))
	}
	return pending
}

// Stop is called once on shutdown.
func (a *App) Stop() {
	if n := len(a.recorder.Pending()); n > 0 {
		log.Printf("discarding %d pending tile rebuilds on shutdown", n)
	}
}

// -----------------------------------------------------------------------
// Editing bindings
// -----------------------------------------------------------------------

// Click handles one pick on the navigation surface.
func (a *App) Click(x, y, z float64, shift, alt bool) {
	a.session.AddPoint(geometry.Vec3{X: x, Y: y, Z: z}, shift, alt)
}

// CreateNew starts collecting points for a new volume.
func (a *App) CreateNew() {
	a.session.CreateNew()
}

// Cancel discards the in-progress shape or selection.
func (a *App) Cancel() {
	a.session.Cancel()
}

// Select loads the given volume for editing.
func (a *App) Select(id uint32) bool {
	return a.session.SelectExisting(id)
}

// Edit stages new fields for the selected volume.
func (a *App) Edit(name string, areaType uint8, hmin, hmax float64) {
	a.session.Edit(volume.Fields{
		Name:     name,
		AreaType: areaType,
		HMin:     hmin,
		HMax:     hmax,
	})
}

// Save writes staged edits back to the selected volume.
func (a *App) Save() {
	a.session.SaveEdits()
}

// Delete removes the selected volume.
func (a *App) Delete() {
	a.session.DeleteSelected()
}

// SetShape adjusts the parameters used for the next committed volume.
func (a *App) SetShape(height, descent, offset float64, areaType uint8, name string) {
	a.session.BoxHeight = height
	a.session.BoxDescent = descent
	a.session.PolyOffset = offset
	a.session.AreaType = areaType
	a.session.Name = name
}

// Session returns a snapshot of the editing session.
func (a *App) Session() SessionView {
	view := SessionView{
		State:     a.session.State().String(),
		Points:    a.session.Points(),
		Hull:      a.session.Hull(),
		CurrentID: a.session.CurrentVolumeID(),
	}
	if view.CurrentID != volume.NoVolume {
		buf := a.session.EditBuffer()
		f := buf.Fields
		view.Edit = &f
		view.Dirty = buf.Dirty
	}
	return view
}

// Volumes lists all volumes in creation order for the list view.
func (a *App) Volumes() []VolumeInfo {
	all := a.registry.All()
	out := make([]VolumeInfo, 0, len(all))
	for _, v := range all {
		out = append(out, VolumeInfo{
			ID:        v.ID,
			Label:     a.volumeLabel(v),
			Name:      v.Name,
			Area:      a.areaName(v.AreaType),
			AreaValid: a.catalog.IsValid(v.AreaType),
			VertCount: len(v.Verts),
			HMin:      v.HMin,
			HMax:      v.HMax,
		})
	}
	return out
}

// volumeLabel formats a volume for display, id first so unnamed
// volumes still sort and read sensibly.
func (a *App) volumeLabel(v volume.Volume) string {
	name := v.Name
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("%04d: %s (%s)", v.ID, name, a.areaName(v.AreaType))
}

// areaName resolves an area id, tolerating ids the catalog no longer
// knows about.
func (a *App) areaName(id uint8) string {
	if name, ok := a.catalog.NameOf(id); ok {
		return name
	}
	return fmt.Sprintf("area_%d", id)
}

// -----------------------------------------------------------------------
// Script binding
// -----------------------------------------------------------------------

// RunScript evaluates a volume script and commits the resulting
// volumes. Parse and eval errors are returned in the result; a fatal
// engine failure (timeout, panic) is reported the same way.
func (a *App) RunScript(source string) ScriptResult {
	result := ScriptResult{Errors: []EvalErrorData{}}

	defs, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("script evaluation failed: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	before := a.registry.Len()
	tiles, err := engine.Apply(defs, a.session, a.catalog)
	result.Tiles = len(tiles)
	result.Applied = a.registry.Len() - before
	if err != nil {
		log.Printf("script apply failed: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
	}
	return result
}

// -----------------------------------------------------------------------
// Preview binding
// -----------------------------------------------------------------------

// PreviewMeshes builds triangle meshes for every volume plus the
// in-progress shape.
func (a *App) PreviewMeshes() ([]MeshData, error) {
	meshes, err := preview.Build(a.registry, a.session, a.kernel)
	if err != nil {
		log.Printf("preview build failed: %v", err)
		return nil, err
	}

	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    a.meshColor(i, m.Name),
		})
	}
	return out, nil
}

// meshColor prefers the catalog color of the mesh's volume, falling
// back to the palette.
func (a *App) meshColor(i int, name string) string {
	for _, v := range a.registry.All() {
		label := v.Name
		if label == "" {
			label = fmt.Sprintf("volume_%04d", v.ID)
		}
		if label != name {
			continue
		}
		if at, ok := a.catalog.Get(v.AreaType); ok && at.Color != "" {
			return at.Color
		}
		break
	}
	return colorPalette[i%len(colorPalette)]
}

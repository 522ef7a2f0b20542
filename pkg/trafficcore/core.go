// Package trafficcore is the single façade the outer command, REPL, and
// server binaries drive: one Core wraps a Map, its undo/redo history, and
// an optional archive fan-out, and exposes the simulation by name rather
// than by internal package, the way this codebase's own core.go sits in
// front of its lib/ packages.
package trafficcore

import (
	"context"
	"fmt"

	"github.com/trafficgrid/sim/internal/archive"
	"github.com/trafficgrid/sim/internal/citysim"
	"github.com/trafficgrid/sim/internal/command"
	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/gridmap"
	"github.com/trafficgrid/sim/internal/obs"
	"github.com/trafficgrid/sim/internal/persist"
	"github.com/trafficgrid/sim/internal/sim"
	"github.com/trafficgrid/sim/internal/tile"
	"gopkg.in/yaml.v3"
)

// Core owns one running world: the map, its undo/redo history, the tick
// simulator's vehicle set, and wherever ticks/builds get archived.
type Core struct {
	World   *sim.World
	History *command.History

	archiveStore archive.ArchiveStore
	seed         int64
}

// NewBlank wraps a fresh w x h map in a Core, unbuilt and vehicle-free.
func NewBlank(w, h int16, seed int64) *Core {
	m := gridmap.NewBlank(w, h, seed)
	return &Core{World: sim.NewWorld(m), History: command.NewHistory(), seed: seed}
}

// NewLevel builds one of a small set of canned starter maps, the way a
// level picker in an editor hands out a numbered built-in scenario.
// Unknown n falls back to level 0.
func NewLevel(n int, seed int64) *Core {
	c := NewBlank(levelWidth, levelHeight, seed)
	switch n {
	case 1:
		buildLevelOne(c.World.Map)
	default:
		buildLevelZero(c.World.Map)
	}
	return c
}

const (
	levelWidth  int16 = 12
	levelHeight int16 = 8
)

// buildLevelZero lays a single horizontal two-way main street with a
// house at each end, enough to spawn traffic between two buildings.
func buildLevelZero(m *gridmap.Map) {
	for x := int16(0); x < levelWidth; x++ {
		pos := geom.New(x, levelHeight/2)
		_ = m.Grid.BuildRoad(pos, geom.Right)
		_ = m.Grid.BuildRoad(pos, geom.Left)
	}

	city := citysim.NewCity(m.AllocID(), geom.New(0, 0), "Levelville", 0)
	m.Cities[city.ID] = city

	left := citysim.NewHouse(geom.New(0, levelHeight/2-2), city.ID, 0)
	right := citysim.NewHouse(geom.New(levelWidth-2, levelHeight/2-2), city.ID, 0)
	if id, err := m.BuildBuilding(left); err == nil {
		left.ID = id
		city.AddHouse(id)
	}
	if id, err := m.BuildBuilding(right); err == nil {
		right.ID = id
		city.AddHouse(id)
	}
}

// buildLevelOne adds a second parallel street and a second city so
// there's cross traffic to watch, not just a single lane.
func buildLevelOne(m *gridmap.Map) {
	buildLevelZero(m)
	for x := int16(0); x < levelWidth; x++ {
		pos := geom.New(x, levelHeight/2+2)
		_ = m.Grid.BuildRoad(pos, geom.Right)
		_ = m.Grid.BuildRoad(pos, geom.Left)
	}

	city, err := m.NewCity(geom.New(0, levelHeight-1), "Overtown")
	if err != nil {
		return
	}
	left := citysim.NewHouse(geom.New(0, levelHeight/2+1), city.ID, 1)
	right := citysim.NewHouse(geom.New(levelWidth-1, levelHeight/2+1), city.ID, 1)
	if id, err := m.BuildBuilding(left); err == nil {
		left.ID = id
		city.AddHouse(id)
	}
	if id, err := m.BuildBuilding(right); err == nil {
		right.ID = id
		city.AddHouse(id)
	}
}

// AttachArchiveStore wires store in so every subsequent Tick and Build
// is recorded; pass nil to stop archiving.
func (c *Core) AttachArchiveStore(store archive.ArchiveStore) {
	c.archiveStore = store
}

// Build executes action against the world through the undo/redo history,
// recording a build audit if an archive store is attached.
func (c *Core) Build(ctx context.Context, action command.Action) error {
	err := c.History.Do(c.World.Map, action)
	if c.archiveStore != nil {
		audit := archive.BuildAudit{
			Tick: c.World.Map.TickNum,
			Kind: action.Description(),
			OK:   err == nil,
		}
		if err != nil {
			audit.Err = err.Error()
		}
		if auditErr := c.archiveStore.RecordBuild(ctx, audit); auditErr != nil {
			obs.Logger.Error("trafficcore: archive build record failed", "err", auditErr)
		}
	}
	return err
}

// Undo reverts the most recently built action.
func (c *Core) Undo() error { return c.History.Undo(c.World.Map) }

// Redo re-applies the next action in the history, if any.
func (c *Core) Redo() error { return c.History.Redo(c.World.Map) }

// Tick advances the simulation one quantum and, if an archive store is
// attached, records the resulting sample.
func (c *Core) Tick(ctx context.Context) sim.TickSample {
	sample := c.World.Tick(ctx)
	if c.archiveStore != nil {
		if err := c.archiveStore.RecordTick(ctx, sample); err != nil {
			obs.Logger.Error("trafficcore: archive tick record failed", "err", err)
		}
	}
	return sample
}

// SpawnVehicle starts a trip from building fromID to building toID,
// returning the new vehicle's id.
func (c *Core) SpawnVehicle(fromID, toID uint64) (uint64, error) {
	b, ok := c.World.Map.Buildings[fromID]
	if !ok {
		return 0, fmt.Errorf("trafficcore: no such building %d", fromID)
	}
	return c.World.SpawnVehicle(b, toID)
}

// TileView is the read-only projection QueryTile hands back: enough to
// render or inspect a cell without exposing the grid's internal Tile
// representation.
type TileView struct {
	Pos        geom.Position
	Kind       tile.Kind
	BuildingID uint64
	RampDir    geom.Direction
	HasRampDir bool
}

// QueryTile reports what occupies pos, ok false if pos is off-grid.
func (c *Core) QueryTile(pos geom.Position) (TileView, bool) {
	t, ok := c.World.Map.Grid.GetTile(pos)
	if !ok {
		return TileView{}, false
	}
	view := TileView{Pos: pos, Kind: t.Kind, BuildingID: t.BuildingID}
	if t.Ramp != nil {
		view.RampDir = t.Ramp.Dir
		view.HasRampDir = true
	}
	return view, true
}

// Rating reports the world's exponentially smoothed on-time arrival
// rating, in [0, 1].
func (c *Core) Rating() float64 { return c.World.Map.Rating }

// Save serializes the world to its YAML save representation.
func (c *Core) Save() ([]byte, error) { return persist.Bytes(c.World, c.seed) }

// Load replaces c's world, and the seed a later Save writes, with the
// ones encoded in data, running Fixup to restore each vehicle's
// current-cell reservation.
func (c *Core) Load(data []byte) error {
	w, err := persist.FromBytes(data)
	if err != nil {
		return err
	}
	var snap persist.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return err
	}
	c.World = w
	c.seed = snap.Seed
	return nil
}

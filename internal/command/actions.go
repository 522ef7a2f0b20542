package command

import (
	"fmt"

	"github.com/trafficgrid/sim/internal/citysim"
	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/gridmap"
	"github.com/trafficgrid/sim/internal/tile"
)

// tileSnapshot records a single cell's prior contents, distinguishing "was
// Empty" from "was off-grid" so undo never fabricates a cell.
type tileSnapshot struct {
	tile tile.Tile
	ok   bool
}

// BuildRoadAction connects dir on the road at Pos, creating a fresh road
// if the cell was Empty.
type BuildRoadAction struct {
	Pos geom.Position
	Dir geom.Direction

	prev tileSnapshot
}

func (a *BuildRoadAction) Execute(m *gridmap.Map) error {
	if t, ok := m.Grid.GetTile(a.Pos); ok {
		a.prev = tileSnapshot{t.Clone(), true}
	} else {
		a.prev = tileSnapshot{}
	}
	return m.Grid.BuildRoad(a.Pos, a.Dir)
}

func (a *BuildRoadAction) Undo(m *gridmap.Map) error {
	if !a.prev.ok {
		return nil
	}
	dst := m.Grid.GetTileMut(a.Pos)
	if dst == nil {
		return gridmap.ErrInvalidTile
	}
	*dst = a.prev.tile
	return nil
}

func (a *BuildRoadAction) Description() string {
	return fmt.Sprintf("build road at %v", a.Pos)
}

// BuildTwoWayRoadAction lays a 2x2 two-way junction.
type BuildTwoWayRoadAction struct {
	Pos geom.Position
	Dir geom.Direction

	prevGrid *gridmap.Grid
}

func (a *BuildTwoWayRoadAction) Execute(m *gridmap.Map) error {
	a.prevGrid = snapshotArea(m.Grid, a.Pos.RoundTo(2))
	return m.Grid.BuildTwoWayRoad(a.Pos, a.Dir)
}

func (a *BuildTwoWayRoadAction) Undo(m *gridmap.Map) error {
	return restoreArea(m.Grid, a.Pos.RoundTo(2), a.prevGrid)
}

func (a *BuildTwoWayRoadAction) Description() string {
	return fmt.Sprintf("build two-way road at %v", a.Pos)
}

// BuildBridgeAction lays a bridge span between two ground-layer positions.
type BuildBridgeAction struct {
	Start, End geom.Position

	prevCells map[geom.Position]tileSnapshot
}

func (a *BuildBridgeAction) Execute(m *gridmap.Map) error {
	startUp := a.Start.Add(geom.LayerUp)
	endUp := a.End.Add(geom.LayerUp)
	line, _ := startUp.IterLineTo(endUp)

	a.prevCells = map[geom.Position]tileSnapshot{}
	for _, pos := range append(line, a.Start, a.End) {
		if t, ok := m.Grid.GetTile(pos); ok {
			a.prevCells[pos] = tileSnapshot{t.Clone(), true}
		} else {
			a.prevCells[pos] = tileSnapshot{}
		}
	}
	return m.Grid.BuildBridge(a.Start, a.End)
}

func (a *BuildBridgeAction) Undo(m *gridmap.Map) error {
	for pos, snap := range a.prevCells {
		if !snap.ok {
			continue
		}
		dst := m.Grid.GetTileMut(pos)
		if dst == nil {
			return gridmap.ErrInvalidTile
		}
		*dst = snap.tile
	}
	return nil
}

func (a *BuildBridgeAction) Description() string {
	return fmt.Sprintf("build bridge %v -> %v", a.Start, a.End)
}

// BuildBuildingAction places a new building on the grid.
type BuildBuildingAction struct {
	Building *citysim.Building

	id       uint64
	prevGrid *gridmap.Grid
}

func (a *BuildBuildingAction) Execute(m *gridmap.Map) error {
	a.prevGrid = snapshotArea(m.Grid, a.Building.Pos)
	id, err := m.BuildBuilding(a.Building)
	if err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *BuildBuildingAction) Undo(m *gridmap.Map) error {
	delete(m.Buildings, a.id)
	return restoreArea(m.Grid, a.Building.Pos, a.prevGrid)
}

func (a *BuildBuildingAction) Description() string {
	return fmt.Sprintf("build building at %v", a.Building.Pos)
}

// ClearAction clears a 2x2 footprint, restoring whatever was cleared on undo.
type ClearAction struct {
	Pos geom.Position

	prevGrid        *gridmap.Grid
	clearedBuilding *citysim.Building
	clearedCityID   uint64
}

func (a *ClearAction) Execute(m *gridmap.Map) error {
	pos := a.Pos.RoundTo(2)
	a.prevGrid = snapshotArea(m.Grid, pos)
	if t, ok := m.Grid.GetTile(pos); ok && t.IsBuilding() {
		if b, ok := m.Buildings[t.BuildingID]; ok {
			cp := *b
			a.clearedBuilding = &cp
			a.clearedCityID = b.CityID
		}
	}
	return m.ClearArea(pos)
}

func (a *ClearAction) Undo(m *gridmap.Map) error {
	pos := a.Pos.RoundTo(2)
	if err := restoreArea(m.Grid, pos, a.prevGrid); err != nil {
		return err
	}
	if a.clearedBuilding != nil {
		m.Buildings[a.clearedBuilding.ID] = a.clearedBuilding
		if city, ok := m.Cities[a.clearedCityID]; ok {
			city.AddHouse(a.clearedBuilding.ID)
		}
	}
	return nil
}

func (a *ClearAction) Description() string {
	return fmt.Sprintf("clear area at %v", a.Pos)
}

// snapshotArea copies the 2x2 footprint anchored at pos for undo restoral.
// Each tile is deep-cloned so later mutation of the live grid (e.g.
// connecting a road already captured here) never reaches back into the
// snapshot.
func snapshotArea(g *gridmap.Grid, pos geom.Position) *gridmap.Grid {
	snap := gridmap.NewGrid(2, 2)
	for _, p := range pos.IterArea(citysim.BuildingSize) {
		if t, ok := g.GetTile(p); ok {
			local := p.Sub(pos)
			*snap.GetTileMut(geom.New(int16(local.X), int16(local.Y))) = t.Clone()
		}
	}
	return snap
}

// restoreArea writes a snapshot taken by snapshotArea back onto g at pos.
func restoreArea(g *gridmap.Grid, pos geom.Position, snap *gridmap.Grid) error {
	for _, p := range pos.IterArea(citysim.BuildingSize) {
		local := p.Sub(pos)
		t, ok := snap.GetTile(geom.New(int16(local.X), int16(local.Y)))
		if !ok {
			continue
		}
		dst := g.GetTileMut(p)
		if dst == nil {
			return gridmap.ErrInvalidTile
		}
		*dst = t
	}
	return nil
}

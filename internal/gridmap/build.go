package gridmap

import (
	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/tile"
)

// Clear resets a single cell to Empty.
func (g *Grid) Clear(pos geom.Position) error {
	t := g.GetTileMut(pos)
	if t == nil {
		return ErrInvalidTile
	}
	*t = tile.Empty()
	return nil
}

// Build places newTile at pos, failing if the cell is already occupied.
func (g *Grid) Build(pos geom.Position, newTile tile.Tile) error {
	t := g.GetTileMut(pos)
	if t == nil {
		return ErrInvalidTile
	}
	if !t.IsEmpty() {
		return ErrOccupiedTile
	}
	*t = newTile
	return nil
}

// EditRoad extends an existing road at pos, or plants a fresh one on an
// Empty cell; any other occupant is an error.
func (g *Grid) EditRoad(pos geom.Position, fn func(*tile.Road)) error {
	t := g.GetTileMut(pos)
	if t == nil {
		return ErrInvalidTile
	}
	switch {
	case t.IsEmpty():
		road := &tile.Road{}
		fn(road)
		*t = tile.Tile{Kind: tile.KindRoad, Road: road}
		return nil
	case t.IsRoad():
		fn(t.Road)
		return nil
	default:
		return ErrOccupiedTile
	}
}

// IsPosClear reports whether pos holds Empty.
func (g *Grid) IsPosClear(pos geom.Position) error {
	t, ok := g.GetTile(pos)
	if !ok {
		return ErrInvalidTile
	}
	if !t.IsEmpty() {
		return ErrOccupiedTile
	}
	return nil
}

// IsAreaClear checks that every cell of a size.X x size.Y rectangle
// anchored at pos is Empty.
func (g *Grid) IsAreaClear(pos geom.Position, size geom.Direction) error {
	for _, p := range pos.IterArea(size) {
		if err := g.IsPosClear(p); err != nil {
			return err
		}
	}
	return nil
}

// ClearArea clears a fixed 2x2 footprint anchored at pos.
func (g *Grid) ClearArea(pos geom.Position) error {
	for x := int16(0); x < 2; x++ {
		for y := int16(0); y < 2; y++ {
			if err := g.Clear(geom.Position{X: pos.X + x, Y: pos.Y + y, Z: pos.Z}); err != nil {
				return err
			}
		}
	}
	return nil
}

// BuildBuildingTile stamps id across a size.X x size.Y footprint anchored
// at pos, failing (without rollback) the first time a cell isn't Empty.
func (g *Grid) BuildBuildingTile(pos geom.Position, size geom.Direction, id uint64) error {
	for _, p := range pos.IterArea(size) {
		if err := g.Build(p, tile.NewBuilding(id)); err != nil {
			return err
		}
	}
	return nil
}

// buildRamp plants a ramp tile at pos pointing dir.
func (g *Grid) buildRamp(pos geom.Position, dir geom.Direction) error {
	return g.Build(pos, tile.NewRamp(dir))
}

// BuildRoad connects dir on the road at pos, creating the road if the
// cell is currently Empty.
func (g *Grid) BuildRoad(pos geom.Position, dir geom.Direction) error {
	return g.EditRoad(pos, func(r *tile.Road) { r.Connect(dir) })
}

// BuildBridge lays a road on the bridge layer (z=1) between startPos and
// endPos (both ground-layer positions), with a ramp down to the ground
// layer at each endpoint.
func (g *Grid) BuildBridge(startPos, endPos geom.Position) error {
	startUp := startPos.Add(geom.LayerUp)
	endUp := endPos.Add(geom.LayerUp)
	positions, dir := startUp.IterLineTo(endUp)

	for _, pos := range positions {
		switch {
		case pos == startUp:
			if err := g.BuildRoad(pos, dir); err != nil {
				return err
			}
			if err := g.buildRamp(startPos, geom.LayerUp); err != nil {
				return err
			}
		case pos != endUp:
			if err := g.BuildRoad(pos, dir); err != nil {
				return err
			}
		default:
			if err := g.BuildRoad(pos, dir.Add(geom.LayerDown)); err != nil {
				return err
			}
			if err := g.buildRamp(endPos, geom.None); err != nil {
				return err
			}
		}
	}
	return nil
}

// twoWayBlueprint returns the 2x2 road pattern for a junction opening in
// direction dir: four unconnected cells for NONE (each then takes the
// first of its parity default pair, closing the 2x2 into a one-way loop),
// horizontal lanes for a horizontal dir, vertical lanes otherwise.
func twoWayBlueprint(dir geom.Direction) *Grid {
	switch {
	case dir == geom.None:
		return ParseGrid("**\n**")
	case dir.IsHorizontal():
		return ParseGrid("<<\n>>")
	default:
		return ParseGrid(".^\n.^")
	}
}

// BuildRoadAutoconnect lays a 2x2 two-way junction at pos (rounded to the
// 2x2 grid) and extends lanes toward any neighbouring road block.
func (g *Grid) BuildRoadAutoconnect(pos geom.Position) error {
	pos = pos.RoundTo(2)

	if err := g.BuildTwoWayRoad(pos, geom.None); err != nil {
		return err
	}

	for _, dir := range geom.All {
		newPos := geom.Position{X: pos.X + int16(dir.X)*2, Y: pos.Y + int16(dir.Y)*2, Z: pos.Z}
		if t, ok := g.GetTile(newPos); ok && t.IsRoad() {
			if err := g.BuildTwoWayRoad(newPos, dir); err != nil {
				return err
			}
			if err := g.BuildTwoWayRoad(pos, dir); err != nil {
				return err
			}
		}
	}
	return nil
}

// BuildTwoWayRoad lays a 2x2 junction blueprint anchored at pos (rounded
// to the 2x2 grid), oriented by dir.
func (g *Grid) BuildTwoWayRoad(pos geom.Position, dir geom.Direction) error {
	pos = pos.RoundTo(2)
	blueprint := twoWayBlueprint(dir)

	for y := int16(0); y < blueprint.Height; y++ {
		for x := int16(0); x < blueprint.Width; x++ {
			t, _ := blueprint.GetTile(geom.New(x, y))
			conns := t.IterConnections(geom.New(x, y))
			connDir := geom.None
			if len(conns) > 0 {
				connDir = conns[0]
			}
			target := geom.Position{X: pos.X + x, Y: pos.Y + y, Z: pos.Z}
			if err := g.BuildRoad(target, connDir); err != nil {
				return err
			}
		}
	}
	return nil
}

// BuildOneWayRoad lays a single connection direction across a 2x2
// footprint anchored at pos.
func (g *Grid) BuildOneWayRoad(pos geom.Position, dir geom.Direction) error {
	for x := int16(0); x < 2; x++ {
		for y := int16(0); y < 2; y++ {
			target := geom.Position{X: pos.X + x, Y: pos.Y + y, Z: pos.Z}
			if err := g.BuildRoad(target, dir); err != nil {
				return err
			}
		}
	}
	return nil
}

package pathfind

import (
	"github.com/trafficgrid/sim/internal/citysim"
	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/gridmap"
	"github.com/trafficgrid/sim/internal/reservation"
)

// FindPath is the vehicle planner's entry point: it verifies the vehicle
// is actually exiting onto a road in direction dir, then routes to the
// target building: for a house, to the road cell bordering its footprint
// (its driveway) with the footprint cell behind it appended as a final
// step, otherwise directly onto any of the building's own
// cells (or an advertised station road) otherwise.
func FindPath(m *gridmap.Map, now reservation.Tick, start geom.Position, dir geom.Direction, targetID uint64) (*Path, bool) {
	pathStart := start.Add(dir)

	startTile, ok := m.Grid.GetTile(pathStart)
	if !ok || !startTile.IsRoad() {
		return nil, false
	}

	building, ok := m.Buildings[targetID]
	if !ok {
		return nil, false
	}

	if building.Kind == citysim.House {
		roadPos, footprintPos, ok := m.BuildingDriveway(building)
		if !ok {
			return nil, false
		}
		path, ok := FindRoadPath(m.Grid, now, pathStart, roadPos)
		if !ok {
			return nil, false
		}
		path.Positions = append(path.Positions, footprintPos)
		path.Cost++
		return path, true
	}

	return FindPathToBuilding(m.Grid, now, pathStart, targetID, building.Pos)
}

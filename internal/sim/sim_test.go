package sim

import (
	"context"
	"testing"

	"github.com/trafficgrid/sim/internal/citysim"
	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/gridmap"
	"github.com/trafficgrid/sim/internal/vehicle"
)

// TestTickStraightLineReachesDestination drives a single vehicle down a
// three-cell road onto a station tile and checks it is retired as a
// success exactly when it steps onto the destination.
func TestTickStraightLineReachesDestination(t *testing.T) {
	grid := gridmap.ParseGrid(">>>1")
	m := gridmap.NewFromGrid(grid, 1)
	m.Buildings[1] = &citysim.Building{ID: 1, Pos: geom.New(3, 0), Kind: citysim.Station}
	m.Rating = 0.5

	w := NewWorld(m)

	v, err := vehicle.New(1, geom.New(0, 0), geom.Right, 1, m, 0)
	if err != nil {
		t.Fatalf("vehicle.New: %v", err)
	}
	if v.Path == nil {
		t.Fatalf("expected a path to be found")
	}
	w.Vehicles[v.ID] = v
	w.nextVehicleID = 2

	ctx := context.Background()
	for i := 0; i < 3*int(vehicle.SpeedTicks)+1; i++ {
		w.Tick(ctx)
	}

	if _, stillThere := w.Vehicles[v.ID]; stillThere {
		t.Fatalf("expected vehicle to be retired after reaching its destination")
	}
	if w.ArrivedTotal != 1 {
		t.Fatalf("arrived total = %d, want 1", w.ArrivedTotal)
	}
	if w.Map.Rating <= 0.5 {
		t.Fatalf("rating = %v, want risen above the initial 0.5 floor", w.Map.Rating)
	}
	if b := m.Buildings[1]; b.VehicleOnTheWay != 0 {
		t.Fatalf("expected destination's in-flight marker to be cleared, got %d", b.VehicleOnTheWay)
	}
}

// TestTickUnreachableStaysParked matches an unreachable grid: the road
// faces away from the destination, so find_path never succeeds. With no
// path, trip lateness is always exactly on schedule (matching the
// original's trip_late, which defaults to 1.0 absent a path), so the
// vehicle idles in place indefinitely rather than ever being retired.
func TestTickUnreachableStaysParked(t *testing.T) {
	grid := gridmap.ParseGrid("<<<1")
	m := gridmap.NewFromGrid(grid, 1)
	m.Buildings[1] = &citysim.Building{ID: 1, Pos: geom.New(3, 0), Kind: citysim.Station}

	w := NewWorld(m)

	start := geom.New(0, 0)
	v, err := vehicle.New(1, start, geom.Right, 1, m, 0)
	if err != nil {
		t.Fatalf("vehicle.New: %v", err)
	}
	if v.Path != nil {
		t.Fatalf("expected no path against a road facing the wrong way")
	}
	w.Vehicles[v.ID] = v
	w.nextVehicleID = 2

	ctx := context.Background()
	for i := 0; i < 64; i++ {
		w.Tick(ctx)
	}

	stuck, stillThere := w.Vehicles[v.ID]
	if !stillThere {
		t.Fatalf("expected the unreachable vehicle to remain parked, not retired")
	}
	if stuck.Pos != start {
		t.Fatalf("pos = %v, want %v (never moved)", stuck.Pos, start)
	}
	if w.ArrivedTotal != 0 {
		t.Fatalf("arrived total = %d, want 0", w.ArrivedTotal)
	}
}

// TestTickClearedPathCellTriggersReplan matches a building edit mid-route:
// clearing a road cell still on the vehicle's planned path must surface as
// an invalid path on the next attempt to reserve ahead, triggering a
// replan. With no alternate route around the gap, the replan itself fails
// (the cell right in front of the vehicle is now Empty, so find_path's
// road check rejects it outright) and the vehicle holds its current cell
// rather than crashing or being silently retired.
func TestTickClearedPathCellTriggersReplan(t *testing.T) {
	grid := gridmap.ParseGrid(">>>1")
	m := gridmap.NewFromGrid(grid, 1)
	m.Buildings[1] = &citysim.Building{ID: 1, Pos: geom.New(3, 0), Kind: citysim.Station}

	w := NewWorld(m)

	v, err := vehicle.New(1, geom.New(0, 0), geom.Right, 1, m, 0)
	if err != nil {
		t.Fatalf("vehicle.New: %v", err)
	}
	if v.Path == nil || len(v.Path.Positions) != 3 || v.Path.Cost != 3 {
		t.Fatalf("path = %+v, want 3 positions at cost 3", v.Path)
	}
	w.Vehicles[v.ID] = v
	w.nextVehicleID = 2

	// Clear the cell two hops ahead before the vehicle ever reserves it,
	// the equivalent of an editor deleting a road the vehicle hasn't yet
	// reached.
	if err := m.Grid.Clear(geom.New(2, 0)); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 5*int(vehicle.SpeedTicks); i++ {
		w.Tick(ctx)
	}

	stuck, stillThere := w.Vehicles[v.ID]
	if !stillThere {
		t.Fatalf("expected the vehicle to remain parked after a failed replan, not retired")
	}
	if stuck.Pos != geom.New(1, 0) {
		t.Fatalf("pos = %v, want (1,0) (stalled just short of the cleared cell)", stuck.Pos)
	}
	if stuck.Path != nil {
		t.Fatalf("expected the replan to fail and leave Path nil, got %+v", stuck.Path)
	}
	if w.ArrivedTotal != 0 {
		t.Fatalf("arrived total = %d, want 0", w.ArrivedTotal)
	}
}

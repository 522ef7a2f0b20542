package persist

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/trafficgrid/sim/internal/citysim"
	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/gridmap"
	"github.com/trafficgrid/sim/internal/reservation"
	"github.com/trafficgrid/sim/internal/sim"
	"github.com/trafficgrid/sim/internal/vehicle"
)

// TestSaveLoadRoundTrip spawns one vehicle at the start of a road, saves the
// world, reloads it, and checks both the map and the vehicle's state
// survive intact, and that Fixup reinstates a ledger ticket on the
// vehicle's current cell even though reservation.Ledger itself is never
// serialized.
func TestSaveLoadRoundTrip(t *testing.T) {
	grid := gridmap.ParseGrid(">>>1")
	m := gridmap.NewFromGrid(grid, 42)
	m.Buildings[1] = &citysim.Building{ID: 1, Pos: geom.New(3, 0), Kind: citysim.Station}
	m.Rating = 0.7
	m.TickNum = 5
	m.SetNextID(2)

	w := sim.NewWorld(m)
	v, err := vehicle.New(1, geom.New(0, 0), geom.Right, 1, m, 0)
	if err != nil {
		t.Fatalf("vehicle.New: %v", err)
	}
	w.Vehicles[1] = v

	path := filepath.Join(t.TempDir(), "world.yaml")
	if err := Save(w, 42, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Map.Grid.Width != 4 || loaded.Map.Grid.Height != 1 {
		t.Fatalf("grid dims = %dx%d, want 4x1", loaded.Map.Grid.Width, loaded.Map.Grid.Height)
	}
	if loaded.Map.Rating != 0.7 {
		t.Fatalf("Rating = %v, want 0.7", loaded.Map.Rating)
	}
	if loaded.Map.TickNum != 5 {
		t.Fatalf("TickNum = %d, want 5", loaded.Map.TickNum)
	}
	if loaded.Map.NextID() != 2 {
		t.Fatalf("NextID = %d, want 2", loaded.Map.NextID())
	}
	if b, ok := loaded.Map.Buildings[1]; !ok || b.Kind != citysim.Station {
		t.Fatalf("building 1 missing or wrong kind after reload: %+v", b)
	}

	lv, ok := loaded.Vehicles[1]
	if !ok {
		t.Fatalf("vehicle 1 missing after reload")
	}
	if lv.Pos != v.Pos || lv.Destination != v.Destination {
		t.Fatalf("vehicle mismatch: got %+v, want pos=%v dest=%d", lv, v.Pos, v.Destination)
	}
	// Fixup never replays the saved forward ticket chain. It only takes
	// out a fresh indefinite ticket on the vehicle's current cell, the
	// forward chain being rebuilt lazily as the vehicle ticks.
	if len(lv.Reserved) != 1 {
		t.Fatalf("reserved len = %d, want 1", len(lv.Reserved))
	}
	if lv.Reserved[0].Pos != lv.Pos || lv.Reserved[0].End != reservation.Indefinite {
		t.Fatalf("reserved ticket = %+v, want current cell %v held indefinitely", lv.Reserved[0], lv.Pos)
	}

	// The ledger itself is never serialized, so without Fixup having run
	// the restored grid would show the vehicle's held cell as free. A
	// second vehicle trying to reserve the same window must now collide.
	if err := loaded.Map.Grid.IsReserved(lv.Pos, 999, loaded.Map.TickNum, loaded.Map.TickNum); err == nil {
		t.Fatalf("expected %v to read as reserved by vehicle 1 after Fixup", lv.Pos)
	}

	ctx := context.Background()
	loaded.Tick(ctx)
}

// TestBytesDeterministicWithMultipleVehicles pins down that Bytes emits
// vehicles in ascending id order rather than following map iteration,
// so repeated calls on the same world produce byte-identical output.
func TestBytesDeterministicWithMultipleVehicles(t *testing.T) {
	grid := gridmap.ParseGrid(">>>>1")
	m := gridmap.NewFromGrid(grid, 42)
	m.Buildings[1] = &citysim.Building{ID: 1, Pos: geom.New(4, 0), Kind: citysim.Station}

	w := sim.NewWorld(m)
	for id := uint64(1); id <= 5; id++ {
		v, err := vehicle.New(id, geom.New(int16(id-1), 0), geom.Right, 1, m, 0)
		if err != nil {
			t.Fatalf("vehicle.New(%d): %v", id, err)
		}
		w.Vehicles[id] = v
	}

	first, err := Bytes(w, 42)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Bytes(w, 42)
		if err != nil {
			t.Fatalf("Bytes: %v", err)
		}
		if string(again) != string(first) {
			t.Fatalf("Bytes output is not deterministic across repeated calls (iteration %d)", i)
		}
	}
}

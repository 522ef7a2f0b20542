package vehicle

import (
	"testing"

	"github.com/trafficgrid/sim/internal/citysim"
	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/gridmap"
	"github.com/trafficgrid/sim/internal/reservation"
)

func reserveTestTicket(m *gridmap.Map, pos geom.Position, start, end reservation.Tick) (reservation.Reservation, error) {
	return m.Grid.Reserve(pos, 1234, 0, start, end)
}

func getLedgerReserved(t *testing.T, m *gridmap.Map, pos geom.Position) bool {
	t.Helper()
	tile, ok := m.Grid.GetTile(pos)
	if !ok || !tile.IsRoad() {
		t.Fatalf("expected road tile at %v", pos)
	}
	return tile.Road.Ledger.Reserved(0)
}

func newIntersectionMap() *gridmap.Map {
	grid := gridmap.ParseGrid("LR>>1\n_^___")
	m := gridmap.NewFromGrid(grid, 1)
	m.Buildings[1] = &citysim.Building{ID: 1, Pos: geom.New(4, 0), Kind: citysim.Station}
	return m
}

func TestIntersectionTraffic(t *testing.T) {
	m := newIntersectionMap()
	start := geom.New(1, 1)

	v, err := New(1, start, geom.Up, 1, m, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if v.Pos != start {
		t.Fatalf("pos = %v, want %v", v.Pos, start)
	}
	if _, err := reserveTestTicket(m, start, 0, 1); err == nil {
		t.Fatalf("expected starting cell to already be held")
	}
	if v.PathIndex != 0 {
		t.Fatalf("path index = %d, want 0", v.PathIndex)
	}
	if got := v.LagPos(0); got != 0 {
		t.Fatalf("lag pos = %d, want 0", got)
	}
	if len(v.Reserved) != 1 || v.Reserved[0] != (reservation.Reservation{Pos: start, Start: 0, End: reservation.Indefinite}) {
		t.Fatalf("reserved = %v", v.Reserved)
	}

	// Block the intersection exit with a different owner's indefinite hold.
	blockPos := geom.New(2, 0)
	blockTicket, err := reserveTestTicket(m, blockPos, 0, reservation.Indefinite)
	if err != nil {
		t.Fatalf("reserveTestTicket: %v", err)
	}

	v.Update(m, 0)
	if v.PathIndex != 0 {
		t.Fatalf("path index = %d, want 0", v.PathIndex)
	}
	if v.Pos != start {
		t.Fatalf("pos = %v, want %v (blocked)", v.Pos, start)
	}

	m.Grid.Unreserve(blockTicket.Pos, 1234)

	tick := reservation.Tick(0)
	v.Update(m, tick)

	wantBack := reservation.Reservation{Pos: geom.New(1, 0), Start: tick, End: SpeedTicks}
	if got := v.Reserved[0]; got != wantBack {
		t.Fatalf("reserved back = %v, want %v", got, wantBack)
	}
	if v.Pos != geom.New(1, 0) {
		t.Fatalf("pos = %v, want (1,0)", v.Pos)
	}

	wantFront := reservation.Reservation{Pos: geom.New(2, 0), Start: tick + SpeedTicks, End: SpeedTicks * 2}
	if got := v.Reserved[len(v.Reserved)-1]; got != wantFront {
		t.Fatalf("reserved front = %v, want %v", got, wantFront)
	}

	if v.PathIndex != 2 {
		t.Fatalf("path index = %d, want 2", v.PathIndex)
	}
	if got := v.LagPos(tick); got != 32 {
		t.Fatalf("lag pos = %d, want 32", got)
	}
	if !getLedgerReserved(t, m, geom.New(1, 0)) {
		t.Fatalf("expected (1,0) to hold a live ticket")
	}
	if !getLedgerReserved(t, m, geom.New(2, 0)) {
		t.Fatalf("expected (2,0) to hold a live ticket")
	}

	for i := 0; i < int(SpeedTicks); i++ {
		tick++
		v.Update(m, tick)
	}

	if v.Pos != geom.New(2, 0) {
		t.Fatalf("pos = %v, want (2,0)", v.Pos)
	}
	if v.PathIndex != 3 {
		t.Fatalf("path index = %d, want 3", v.PathIndex)
	}
	wantHead := reservation.Reservation{Pos: geom.New(3, 0), Start: 16, End: 24}
	if got := v.Reserved[len(v.Reserved)-1]; got != wantHead {
		t.Fatalf("reserved front = %v, want %v", got, wantHead)
	}

	for i := 0; i < int(SpeedTicks); i++ {
		tick++
		v.Update(m, tick)
	}

	if v.Pos != geom.New(3, 0) {
		t.Fatalf("pos = %v, want (3,0)", v.Pos)
	}
}

func TestLagPosIndefiniteHoldNeverDecays(t *testing.T) {
	v := &Vehicle{Reserved: []reservation.Reservation{{Pos: geom.New(0, 0), Start: 0, End: reservation.Indefinite}}}
	if got := v.LagPos(1000); got != 0 {
		t.Fatalf("lag pos = %d, want 0 for an indefinite hold", got)
	}
}

func TestTripLateFullyOnSchedule(t *testing.T) {
	v := &Vehicle{}
	if got := v.TripLate(); got != 1 {
		t.Fatalf("trip late with no path = %v, want 1", got)
	}
}

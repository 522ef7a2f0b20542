package tile

import (
	"testing"

	"github.com/trafficgrid/sim/internal/geom"
)

func TestCost(t *testing.T) {
	pos := geom.New(0, 0)

	road := NewRoad()
	if got := road.Cost(0); got != defaultCost {
		t.Errorf("unreserved road cost = %d, want %d", got, defaultCost)
	}
	if _, ok := road.Road.Ledger.TryReserve(1, pos, 0, 0, 10); !ok {
		t.Fatalf("reservation failed")
	}
	if got := road.Cost(5); got != occupiedCost {
		t.Errorf("reserved road cost = %d, want %d", got, occupiedCost)
	}

	building := NewBuilding(7)
	if got, want := building.Cost(0), defaultCost*2; got != want {
		t.Errorf("building cost = %d, want %d", got, want)
	}

	if got, want := Empty().Cost(0), defaultCost*3; got != want {
		t.Errorf("empty cost = %d, want %d", got, want)
	}
	if got, want := NewRamp(geom.LayerUp).Cost(0), defaultCost*3; got != want {
		t.Errorf("ramp cost = %d, want %d", got, want)
	}
}

func TestYieldPolicy(t *testing.T) {
	single := NewRoad()
	single.Road.Connect(geom.Right)
	if got := single.YieldPolicy(); got != YieldIfAtIntersection {
		t.Errorf("single-connection road policy = %v, want YieldIfAtIntersection", got)
	}

	multi := NewRoad()
	multi.Road.Connect(geom.Right)
	multi.Road.Connect(geom.Down)
	if got := multi.YieldPolicy(); got != YieldNever {
		t.Errorf("multi-connection road policy = %v, want YieldNever", got)
	}

	if got := Empty().YieldPolicy(); got != YieldAlways {
		t.Errorf("empty tile policy = %v, want YieldAlways", got)
	}
	if got := NewBuilding(1).YieldPolicy(); got != YieldAlways {
		t.Errorf("building policy = %v, want YieldAlways", got)
	}
}

func TestShouldBeYieldedTo(t *testing.T) {
	pos := geom.New(0, 0)

	intersection := NewRoad()
	intersection.Road.Connect(geom.Right)
	intersection.Road.Connect(geom.Down)
	if _, ok := intersection.Road.Ledger.TryReserve(1, pos, 0, 0, 10); !ok {
		t.Fatalf("reservation failed")
	}

	// Approaching from the left: the tile must connect back toward Right
	// (dirFrom.Inverse()) to owe a yield.
	if !intersection.ShouldBeYieldedTo(geom.Left, 5) {
		t.Errorf("expected a reserved intersection connected back to the approach to be yielded to")
	}

	// A direction the tile doesn't connect back to never yields: the tile
	// connects Right and Down, not Left, so approaching from the right
	// (whose inverse is Left) finds no connection back.
	if intersection.ShouldBeYieldedTo(geom.Right, 5) {
		t.Errorf("expected no yield when the tile has no connection back to the approach")
	}

	// geom.None never yields to anything (open question 3).
	if intersection.ShouldBeYieldedTo(geom.None, 5) {
		t.Errorf("expected dirFrom=None to never yield")
	}

	// Expired reservation: no longer owed a yield.
	if intersection.ShouldBeYieldedTo(geom.Left, 50) {
		t.Errorf("expected an expired reservation to not be yielded to")
	}

	// A plain dead-end (single connection) never counts as a genuine
	// intersection, so it is never yielded to even while reserved.
	deadEnd := NewRoad()
	deadEnd.Road.Connect(geom.Right)
	if _, ok := deadEnd.Road.Ledger.TryReserve(1, pos, 0, 0, 10); !ok {
		t.Fatalf("reservation failed")
	}
	if deadEnd.ShouldBeYieldedTo(geom.Left, 5) {
		t.Errorf("expected a single-connection road to never be yielded to")
	}

	if Empty().ShouldBeYieldedTo(geom.Left, 5) {
		t.Errorf("expected a non-road tile to never be yielded to")
	}
}

func TestGetBuildingID(t *testing.T) {
	if id, ok := NewBuilding(3).GetBuildingID(); !ok || id != 3 {
		t.Errorf("building GetBuildingID = (%d, %v), want (3, true)", id, ok)
	}

	road := NewRoad()
	if _, ok := road.GetBuildingID(); ok {
		t.Errorf("plain road should report no building id")
	}
	road.Road.Station = 9
	if id, ok := road.GetBuildingID(); !ok || id != 9 {
		t.Errorf("station road GetBuildingID = (%d, %v), want (9, true)", id, ok)
	}

	if _, ok := Empty().GetBuildingID(); ok {
		t.Errorf("empty tile should report no building id")
	}
}

func TestCharAndNewFromChar(t *testing.T) {
	if got := Empty().Char(); got != '_' {
		t.Errorf("Empty().Char() = %q, want '_'", got)
	}
	// Char collapses every building id down to 'h'; the literal digit is
	// blueprint-only DSL sugar, not part of the tile's rendered identity.
	if got := NewBuilding(5).Char(); got != 'h' {
		t.Errorf("NewBuilding(5).Char() = %q, want 'h'", got)
	}
	if got := NewRamp(geom.LayerUp).Char(); got != 'u' {
		t.Errorf("ramp up Char() = %q, want 'u'", got)
	}
	if got := NewRamp(geom.LayerDown).Char(); got != 'd' {
		t.Errorf("ramp down Char() = %q, want 'd'", got)
	}

	for _, ch := range []byte{'_', 'h', '*', '>', '<', '^', '.', 'l', 'r', 'L', 'R'} {
		got := NewFromChar(ch)
		switch ch {
		case '_':
			if !got.IsEmpty() {
				t.Errorf("NewFromChar(%q) not empty", ch)
			}
		case 'h':
			if !got.IsBuilding() || got.BuildingID != 0 {
				t.Errorf("NewFromChar('h') = %+v, want building id 0", got)
			}
		default:
			if !got.IsRoad() {
				t.Errorf("NewFromChar(%q) = %+v, want a road", ch, got)
			}
		}
	}

	for ch := byte('0'); ch <= '9'; ch++ {
		got := NewFromChar(ch)
		if !got.IsBuilding() || got.BuildingID != uint64(ch-'0') {
			t.Errorf("NewFromChar(%q) = %+v, want building id %d", ch, got, ch-'0')
		}
	}

	if got := NewFromChar('?'); !got.IsEmpty() {
		t.Errorf("NewFromChar of an unknown char should fall back to Empty, got %+v", got)
	}
}

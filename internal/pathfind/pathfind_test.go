package pathfind

import (
	"testing"

	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/gridmap"
)

// TestFindRoadPathUTurn drives a U-shaped dead-end corridor: right, then
// down twice, then left. The path must double back in x rather than
// reaching the destination directly, producing a 5-cell route at cost 4
// (four unreserved-road hops of cost 1 each).
func TestFindRoadPathUTurn(t *testing.T) {
	grid := gridmap.ParseGrid(">.\n_.\n*<")
	m := gridmap.NewFromGrid(grid, 1)

	start := geom.New(0, 0)
	end := geom.New(0, 2)

	path, ok := FindRoadPath(m.Grid, 0, start, end)
	if !ok {
		t.Fatalf("expected a path to be found")
	}
	if path.Cost != 4 {
		t.Fatalf("cost = %d, want 4", path.Cost)
	}
	want := []geom.Position{
		geom.New(0, 0),
		geom.New(1, 0),
		geom.New(1, 1),
		geom.New(1, 2),
		geom.New(0, 2),
	}
	if len(path.Positions) != len(want) {
		t.Fatalf("positions = %v, want %v", path.Positions, want)
	}
	for i, p := range want {
		if path.Positions[i] != p {
			t.Fatalf("positions[%d] = %v, want %v (full path %v)", i, path.Positions[i], p, path.Positions)
		}
	}
}

// TestFindRoadPathToSelf exercises the spec's boundary case directly: a
// path from a position to itself is a single-cell path of cost 0.
func TestFindRoadPathToSelf(t *testing.T) {
	grid := gridmap.ParseGrid(">")
	m := gridmap.NewFromGrid(grid, 1)
	pos := geom.New(0, 0)

	path, ok := FindRoadPath(m.Grid, 0, pos, pos)
	if !ok {
		t.Fatalf("expected a path to be found")
	}
	if path.Cost != 0 {
		t.Fatalf("cost = %d, want 0", path.Cost)
	}
	if len(path.Positions) != 1 || path.Positions[0] != pos {
		t.Fatalf("positions = %v, want a single-cell path at %v", path.Positions, pos)
	}
}

// TestFindRoadPathUnreachable matches the grid used in sim's
// unreachable-destination test: a road facing away from the target never
// finds a way there.
func TestFindRoadPathUnreachable(t *testing.T) {
	grid := gridmap.ParseGrid("<<<1")
	m := gridmap.NewFromGrid(grid, 1)

	if _, ok := FindRoadPath(m.Grid, 0, geom.New(1, 0), geom.New(3, 0)); ok {
		t.Fatalf("expected no path against a road facing the wrong way")
	}
}

// Package pathfind implements the two road-network search procedures: a
// plain point-to-point A* and a goal-predicate search to "any cell owned
// by this building", composed by FindPath into the vehicle planner's
// entry point.
package pathfind

import (
	"container/heap"

	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/gridmap"
	"github.com/trafficgrid/sim/internal/reservation"
)

// Path is a found route: the cells to traverse (including both endpoints)
// and its total tile cost.
type Path struct {
	Positions []geom.Position
	Cost      uint32
}

// RoadSuccessors lists the positions reachable in one hop from pos, each
// tagged with the cost of entering it, following the road's connection
// set (or its single-direction fallback for an unconnected dead end).
func RoadSuccessors(g *gridmap.Grid, now reservation.Tick, pos geom.Position) []struct {
	Pos  geom.Position
	Cost uint32
} {
	t, ok := g.GetTile(pos)
	if !ok {
		return nil
	}

	var out []struct {
		Pos  geom.Position
		Cost uint32
	}

	switch {
	case t.IsRoad():
		for _, dir := range t.Road.GetConnections(pos) {
			newPos := pos.Add(dir)
			if newTile, ok := g.GetTile(newPos); ok {
				out = append(out, struct {
					Pos  geom.Position
					Cost uint32
				}{newPos, newTile.Cost(now)})
			}
		}
	case t.IsRamp():
		// A ramp's only successor is the cell its direction points to:
		// the road on the other layer it carries traffic to.
		if t.Ramp.Dir.IsNone() {
			return nil
		}
		newPos := pos.Add(t.Ramp.Dir)
		if newTile, ok := g.GetTile(newPos); ok && newTile.IsRoad() {
			out = append(out, struct {
				Pos  geom.Position
				Cost uint32
			}{newPos, newTile.Cost(now)})
		}
	}
	return out
}

type openItem struct {
	pos   geom.Position
	f     uint32
	g     uint32
	index int
}

type openHeap []*openItem

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *openHeap) Push(x any) {
	item := x.(*openItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// search runs a generic A* from start until isGoal(pos) is satisfied,
// using successors(pos) to expand and heuristic(pos) to guide the order.
func search(
	start geom.Position,
	successors func(geom.Position) []struct {
		Pos  geom.Position
		Cost uint32
	},
	heuristic func(geom.Position) uint32,
	isGoal func(geom.Position) bool,
) (*Path, bool) {
	gScore := map[geom.Position]uint32{start: 0}
	cameFrom := map[geom.Position]geom.Position{}

	first := &openItem{pos: start, f: heuristic(start), g: 0}
	open := &openHeap{first}
	heap.Init(open)
	inOpen := map[geom.Position]*openItem{start: first}

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		delete(inOpen, current.pos)

		if isGoal(current.pos) {
			return reconstruct(cameFrom, current.pos, current.g), true
		}

		for _, succ := range successors(current.pos) {
			tentativeG := current.g + succ.Cost
			if best, ok := gScore[succ.Pos]; !ok || tentativeG < best {
				gScore[succ.Pos] = tentativeG
				cameFrom[succ.Pos] = current.pos
				f := tentativeG + heuristic(succ.Pos)
				if item, queued := inOpen[succ.Pos]; queued {
					// Lower the queued item's score in place so it carries
					// the cost of the route cameFrom now records.
					item.g, item.f = tentativeG, f
					heap.Fix(open, item.index)
				} else {
					item := &openItem{pos: succ.Pos, f: f, g: tentativeG}
					heap.Push(open, item)
					inOpen[succ.Pos] = item
				}
			}
		}
	}
	return nil, false
}

func reconstruct(cameFrom map[geom.Position]geom.Position, goal geom.Position, cost uint32) *Path {
	positions := []geom.Position{goal}
	cur := goal
	for {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		positions = append(positions, prev)
		cur = prev
	}
	for i, j := 0, len(positions)-1; i < j; i, j = i+1, j-1 {
		positions[i], positions[j] = positions[j], positions[i]
	}
	return &Path{Positions: positions, Cost: cost}
}

func manhattanHeuristic(target geom.Position) func(geom.Position) uint32 {
	return func(p geom.Position) uint32 { return p.Distance(target) / 3 }
}

// FindRoadPath searches for the cheapest route from start to end,
// following only road connections.
func FindRoadPath(g *gridmap.Grid, now reservation.Tick, start, end geom.Position) (*Path, bool) {
	return search(
		start,
		func(p geom.Position) []struct {
			Pos  geom.Position
			Cost uint32
		} {
			return RoadSuccessors(g, now, p)
		},
		manhattanHeuristic(end),
		func(p geom.Position) bool { return p == end },
	)
}

// FindPathToBuilding searches for a route from start to any cell that
// belongs to, or advertises itself as a station for, buildingID.
// endApprox seeds the heuristic with the building's own position.
func FindPathToBuilding(g *gridmap.Grid, now reservation.Tick, start geom.Position, buildingID uint64, endApprox geom.Position) (*Path, bool) {
	return search(
		start,
		func(p geom.Position) []struct {
			Pos  geom.Position
			Cost uint32
		} {
			return RoadSuccessors(g, now, p)
		},
		manhattanHeuristic(endApprox),
		func(p geom.Position) bool {
			t, ok := g.GetTile(p)
			if !ok {
				return false
			}
			id, has := t.GetBuildingID()
			return has && id == buildingID
		},
	)
}

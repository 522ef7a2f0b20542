// Package vehicle implements the reservation-chain planner: a Vehicle
// advances one road cell at a time, staging a window of tickets ahead of
// itself on the grid's ledgers and releasing the one it just vacated.
package vehicle

import (
	"github.com/trafficgrid/sim/internal/citysim"
	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/gridmap"
	"github.com/trafficgrid/sim/internal/pathfind"
	"github.com/trafficgrid/sim/internal/reservation"
)

const (
	speedPixels uint32 = 4
	// SpeedTicks is how many ticks it takes to cross one grid cell.
	SpeedTicks reservation.Tick = geom.GridCellSize / reservation.Tick(speedPixels)
	// HopelesslyLatePercent is the trip-lateness floor below which a trip
	// is abandoned rather than let it trickle toward its destination.
	HopelesslyLatePercent float64 = 0.5
)

// Status is the outcome of one Update call.
type Status int

const (
	EnRoute Status = iota
	ReachedDestination
	HopelesslyLate
)

// Vehicle is a single trip in progress: its current cell, the path it
// follows, and the rolling window of reservations it holds ahead of
// itself (index 0 is the cell behind it about to be vacated, the last
// entry the furthest cell reserved so far).
type Vehicle struct {
	ID          uint64
	Pos         geom.Position
	Dir         geom.Direction
	Color       citysim.ColorTag
	Destination uint64

	Path         *pathfind.Path
	PathIndex    int
	PathTimeTicks uint32
	ElapsedTicks  uint32

	Reserved []reservation.Reservation

	BlockingTile *geom.Position
}

// New starts a vehicle at start (with outward direction dir), reserving
// its starting cell indefinitely and planning its first path.
func New(id uint64, start geom.Position, dir geom.Direction, destination uint64, m *gridmap.Map, now reservation.Tick) (*Vehicle, error) {
	res, err := m.Grid.Reserve(start, id, now, now, reservation.Indefinite)
	if err != nil {
		return nil, err
	}

	v := &Vehicle{
		ID:          id,
		Pos:         start,
		Dir:         dir,
		Color:       citysim.ColorBlue,
		Destination: destination,
		Reserved:    []reservation.Reservation{res},
	}

	v.findPath(m, now)
	return v, nil
}

// findPath (re)plans the route to v.Destination from the vehicle's
// current position and direction.
func (v *Vehicle) findPath(m *gridmap.Map, now reservation.Tick) bool {
	path, ok := pathfind.FindPath(m, now, v.Pos, v.Dir, v.Destination)
	v.Path = nil
	if ok {
		v.Path = path
		v.PathTimeTicks = path.Cost * uint32(SpeedTicks)
		v.PathIndex = 0
	}
	return ok
}

// front returns the furthest-ahead ticket the vehicle currently holds.
func (v *Vehicle) front() (reservation.Reservation, bool) {
	if len(v.Reserved) == 0 {
		return reservation.Reservation{}, false
	}
	return v.Reserved[len(v.Reserved)-1], true
}

// LagPos is the sub-cell offset (in pixels) still to travel within the
// cell behind the vehicle before it may advance again.
func (v *Vehicle) LagPos(now reservation.Tick) uint32 {
	if len(v.Reserved) == 0 {
		return 0
	}
	back := v.Reserved[0]
	if back.End == reservation.Indefinite {
		return 0
	}
	if back.End <= now {
		return 0
	}
	remaining := back.End - now
	if remaining > SpeedTicks {
		remaining = SpeedTicks
	}
	return uint32(remaining) * speedPixels
}

// reservePath extends the vehicle's reservation window one more cell's
// worth of tickets along its planned path, chaining off whatever ticket
// is currently furthest ahead. It stages candidate tickets with dry-run
// checks before committing any of them, so a conflict partway through
// leaves the vehicle's existing reservations untouched.
func (v *Vehicle) reservePath(m *gridmap.Map, now reservation.Tick) error {
	if v.Path == nil {
		return gridmap.ErrInvalidPath
	}

	start := now
	if head, ok := v.front(); ok {
		if head.End == reservation.Indefinite {
			start = head.Start
		} else {
			start = head.End
		}
	}
	end := start + SpeedTicks

	type staged struct {
		pos        geom.Position
		start, end reservation.Tick
	}
	var toReserve []staged

	for i := v.PathIndex; i < len(v.Path.Positions); i++ {
		pos := v.Path.Positions[i]

		if err := m.Grid.IsReserved(pos, v.ID, start, end); err != nil {
			if err == gridmap.ErrTileInvalid {
				return gridmap.ErrInvalidPath
			}
			v.BlockingTile = &pos
			return &gridmap.BlockingError{Pos: pos}
		}
		toReserve = append(toReserve, staged{pos, start, end})

		t, ok := m.Grid.GetTile(pos)
		if ok && t.IsRoad() && t.Road.ConnectionCount() > 1 {
			start += SpeedTicks
			end += SpeedTicks
			continue
		}

		// Sanity check that this cell would still be free as an indefinite
		// hold (safe to pause the reservation chain here) without actually
		// widening the staged ticket's window.
		if err := m.Grid.IsReserved(pos, v.ID, start, reservation.Indefinite); err != nil {
			if err == gridmap.ErrTileInvalid {
				return gridmap.ErrInvalidPath
			}
			v.BlockingTile = &pos
			return &gridmap.BlockingError{Pos: pos}
		}
		break
	}

	for _, s := range toReserve {
		v.PathIndex++
		res, err := m.Grid.Reserve(s.pos, v.ID, now, s.start, s.end)
		if err != nil {
			return err
		}
		v.Reserved = append(v.Reserved, res)
	}
	return nil
}

// ReserveNextPos advances the reservation window by one cell and, on
// success, releases the cell the vehicle is about to leave, returning
// the position it should now move toward (nil if it should hold).
func (v *Vehicle) ReserveNextPos(m *gridmap.Map, now reservation.Tick) *geom.Position {
	err := v.reservePath(m, now)
	if err == nil {
		if len(v.Reserved) == 0 {
			return nil
		}
		vacated := v.Reserved[0]
		v.Reserved = v.Reserved[1:]
		m.Grid.Unreserve(vacated.Pos, v.ID)
		if len(v.Reserved) == 0 {
			return nil
		}
		pos := v.Reserved[0].Pos
		return &pos
	}
	if err == gridmap.ErrInvalidPath {
		v.findPath(m, now)
		return nil
	}
	return nil
}

func (v *Vehicle) updateNextPos(next *geom.Position) {
	if next == nil {
		return
	}
	v.Dir = next.Sub(v.Pos)
	v.Pos = *next
}

// Update advances one simulation tick: it first checks for hopeless
// lateness, then whether the vehicle is still easing into its current
// cell, and only then attempts to move into the next one.
func (v *Vehicle) Update(m *gridmap.Map, now reservation.Tick) Status {
	v.ElapsedTicks++

	if v.TripLate() < HopelesslyLatePercent {
		return HopelesslyLate
	}
	if v.LagPos(now) != 0 {
		return EnRoute
	}
	return v.updatePosition(m, now)
}

func (v *Vehicle) updatePosition(m *gridmap.Map, now reservation.Tick) Status {
	if t, ok := m.Grid.GetTile(v.Pos); ok {
		if id, has := t.GetBuildingID(); has && id == v.Destination {
			return ReachedDestination
		}
	}
	next := v.ReserveNextPos(m, now)
	v.updateNextPos(next)
	return EnRoute
}

// TripLate is 1.0 exactly on schedule, below 1.0 running behind, above
// 1.0 running ahead.
func (v *Vehicle) TripLate() float64 {
	if v.Path == nil {
		return 1
	}
	tilesElapsed := float64((saturatingSub1(v.ElapsedTicks))/uint32(SpeedTicks) + 1)
	tilesExpected := float64(v.Path.Cost)
	if tilesExpected == 0 {
		return 1
	}
	elapsedPercent := tilesElapsed / tilesExpected
	completedPercent := v.TripCompletedPercent()
	if completedPercent > 0 {
		return 1 - (elapsedPercent - completedPercent)
	}
	return 1
}

// TripCompletedPercent is how far along the planned path the vehicle has
// progressed, 0 to 1.
func (v *Vehicle) TripCompletedPercent() float64 {
	if v.Path == nil {
		return 1
	}
	denom := len(v.Path.Positions) - 1
	if denom < 1 {
		denom = 1
	}
	idx := v.PathIndex
	if idx < 0 {
		idx = 0
	}
	return float64(idx) / float64(denom)
}

func saturatingSub1(x uint32) uint32 {
	if x == 0 {
		return 0
	}
	return x - 1
}

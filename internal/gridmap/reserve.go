package gridmap

import (
	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/reservation"
)

// Reserve acquires a ticket for [start, end] on pos's ledger. Building and
// ramp cells always succeed (the ledger only lives on road tiles); an
// off-grid or otherwise non-reservable cell is ErrTileInvalid, and a
// conflicting ticket belonging to another owner is ErrTileReserved.
func (g *Grid) Reserve(pos geom.Position, ownerID uint64, now, start, end reservation.Tick) (reservation.Reservation, error) {
	t := g.GetTileMut(pos)
	if t == nil {
		return reservation.Reservation{}, ErrTileInvalid
	}
	switch {
	case t.IsRoad():
		r, ok := t.Road.Ledger.TryReserve(ownerID, pos, now, start, end)
		if !ok {
			return reservation.Reservation{}, ErrTileReserved
		}
		return r, nil
	case t.IsBuilding(), t.IsRamp():
		return reservation.Reservation{Pos: pos, Start: start, End: end}, nil
	default:
		return reservation.Reservation{}, ErrTileInvalid
	}
}

// IsReserved performs the same check as Reserve without mutating the
// ledger, used by the vehicle planner to probe ahead before staging.
func (g *Grid) IsReserved(pos geom.Position, ownerID uint64, start, end reservation.Tick) error {
	t, ok := g.GetTile(pos)
	if !ok {
		return ErrTileInvalid
	}
	switch {
	case t.IsRoad():
		if t.Road.Ledger.IsReserved(ownerID, start, end) {
			return ErrTileReserved
		}
		return nil
	case t.IsBuilding(), t.IsRamp():
		return nil
	default:
		return ErrTileInvalid
	}
}

// Unreserve releases every ticket ownerID holds on pos.
func (g *Grid) Unreserve(pos geom.Position, ownerID uint64) {
	t := g.GetTileMut(pos)
	if t != nil && t.IsRoad() {
		t.Road.Ledger.Release(ownerID)
	}
}

// Package reservation implements the per-tile time-window occupancy ledger
// that the vehicle planner uses to guarantee collision-free movement.
package reservation

import (
	"math"

	"github.com/trafficgrid/sim/internal/geom"
)

// Tick is a monotonic simulation quantum.
type Tick = uint64

// Indefinite marks a ticket with no expiry: a vehicle parked or holding
// its current cell.
const Indefinite Tick = math.MaxUint64

// Reservation is the receipt handed back by TryReserve: the cell and the
// window the caller now holds on it.
type Reservation struct {
	Pos   geom.Position
	Start Tick
	End   Tick
}

// ticket is one entry in a tile's ledger.
type ticket struct {
	owner uint64
	start Tick
	end   Tick
}

func (t ticket) overlaps(start, end Tick) bool {
	if t.owner == 0 {
		return false
	}
	return (t.start <= start && t.end >= start) ||
		(t.start <= end && t.end >= end) ||
		(start < t.start && end > t.end)
}

func (t ticket) expired(now Tick) bool {
	return t.end < now || t.owner == 0
}

// Ledger holds the occupancy tickets for a single road tile.
type Ledger struct {
	tickets []ticket
}

// reservedOwner returns the owner of whichever active ticket overlaps the
// requested window, if any.
func (l *Ledger) reservedOwner(start, end Tick) (uint64, bool) {
	for _, t := range l.tickets {
		if t.overlaps(start, end) {
			return t.owner, true
		}
	}
	return 0, false
}

// IsReserved reports whether a different owner than ownerID holds an
// active ticket overlapping [start, end].
func (l *Ledger) IsReserved(ownerID uint64, start, end Tick) bool {
	owner, ok := l.reservedOwner(start, end)
	return ok && owner != ownerID
}

// TryReserve either overwrites the caller's own overlapping ticket, fails
// because a different owner holds the window, or stores a new ticket in
// the last expired or released slot (appending if there is none). Other
// expired entries stay in the slice.
func (l *Ledger) TryReserve(ownerID uint64, pos geom.Position, now, start, end Tick) (Reservation, bool) {
	replaceAt := -1
	for i, t := range l.tickets {
		if t.expired(now) {
			replaceAt = i
		}
		if t.overlaps(start, end) {
			if t.owner == ownerID {
				replaceAt = i
				break
			}
			return Reservation{}, false
		}
	}

	newTicket := ticket{owner: ownerID, start: start, end: end}
	if replaceAt >= 0 {
		l.tickets[replaceAt] = newTicket
	} else {
		l.tickets = append(l.tickets, newTicket)
	}

	return Reservation{Pos: pos, Start: start, End: end}, true
}

// Release marks every ticket belonging to ownerID as an expired sentinel,
// freeing the slot for reuse rather than shrinking the slice.
func (l *Ledger) Release(ownerID uint64) {
	for i := range l.tickets {
		if l.tickets[i].owner == ownerID {
			l.tickets[i] = ticket{}
		}
	}
}

// Reserved reports whether any active, non-expired ticket exists at all;
// used by Tile.Cost to shape path-planning congestion.
func (l *Ledger) Reserved(now Tick) bool {
	for _, t := range l.tickets {
		if !t.expired(now) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of l, so mutating the copy's tickets
// never affects l's.
func (l Ledger) Clone() Ledger {
	out := Ledger{tickets: make([]ticket, len(l.tickets))}
	copy(out.tickets, l.tickets)
	return out
}

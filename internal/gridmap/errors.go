package gridmap

import (
	"errors"
	"fmt"

	"github.com/trafficgrid/sim/internal/geom"
)

// Build errors.
var (
	ErrInvalidTile  = errors.New("gridmap: target cell is off-grid")
	ErrOccupiedTile = errors.New("gridmap: cell already holds an incompatible tile")
)

// Reservation errors.
var (
	ErrTileInvalid  = errors.New("gridmap: off-grid or non-reservable cell")
	ErrTileReserved = errors.New("gridmap: an active ticket belongs to a different owner")
)

// ErrInvalidPath reports that no route exists, or a tile on a previously
// planned path is no longer reachable.
var ErrInvalidPath = errors.New("gridmap: no route exists to the destination")

// BlockingError is a transient planning failure: a single cell ahead is
// reserved by someone else right now. Callers should retry next tick.
type BlockingError struct {
	Pos geom.Position
}

func (e *BlockingError) Error() string {
	return fmt.Sprintf("gridmap: blocked at %v", e.Pos)
}

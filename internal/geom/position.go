package geom

// ZGround is the layer index for the ground plane; ZBridge (1) is the
// elevated layer reachable only through a Ramp tile.
const ZGround int16 = 0

// GridCellSize is the pixel footprint of one tile, used only to derive
// SPEED_TICKS in the vehicle package; the core never touches pixels itself.
const GridCellSize = 32

var (
	topLeftDirs  = [2]Direction{Down, Left}
	topRightDirs = [2]Direction{Left, Up}
	botRightDirs = [2]Direction{Up, Right}
	botLeftDirs  = [2]Direction{Right, Down}
)

// Position is a cell address: (x, y) on one of two stacked layers (z).
type Position struct {
	X, Y, Z int16
}

func New(x, y int16) Position {
	return Position{X: x, Y: y, Z: ZGround}
}

func NewZ(x, y, z int16) Position {
	return Position{X: x, Y: y, Z: z}
}

// Add returns the position reached by stepping one direction unit from p.
func (p Position) Add(d Direction) Position {
	return Position{p.X + int16(d.X), p.Y + int16(d.Y), p.Z + int16(d.Z)}
}

// Sub returns the direction from other to p.
func (p Position) Sub(other Position) Direction {
	return Direction{int8(p.X - other.X), int8(p.Y - other.Y), int8(p.Z - other.Z)}
}

// RoundTo snaps x/y down to the nearest multiple of amount, used to align a
// position to a 2x2 building/blueprint grid.
func (p Position) RoundTo(amount int16) Position {
	return Position{p.X - mod(p.X, amount), p.Y - mod(p.Y, amount), p.Z}
}

func mod(a, b int16) int16 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func absDiff16(a, b int16) uint32 {
	if a >= b {
		return uint32(a - b)
	}
	return uint32(b - a)
}

// Distance is the manhattan distance between two positions, ignoring layer.
func (p Position) Distance(other Position) uint32 {
	return absDiff16(p.X, other.X) + absDiff16(p.Y, other.Y)
}

// DirectionTo picks one of the four cardinal directions pointing roughly
// from p toward newPos, preferring horizontal movement on ties.
func (p Position) DirectionTo(newPos Position) Direction {
	xDiff := int32(p.X) - int32(newPos.X)
	if xDiff < 0 {
		xDiff = -xDiff
	}
	yDiff := int32(p.Y) - int32(newPos.Y)
	if yDiff < 0 {
		yDiff = -yDiff
	}

	switch {
	case newPos.X > p.X && xDiff >= yDiff:
		return Right
	case newPos.Y > p.Y && yDiff > xDiff:
		return Down
	case newPos.Y < p.Y && yDiff > xDiff:
		return Up
	case newPos.X < p.X:
		return Left
	default:
		return None
	}
}

// IterLineTo walks from p to destination one direction unit at a time,
// including both endpoints. It returns the single cell p if p == destination.
func (p Position) IterLineTo(destination Position) ([]Position, Direction) {
	dir := p.DirectionTo(destination)

	var count int
	switch {
	case dir.Y != 0:
		count = int(absDiff16(destination.Y, p.Y))
	case dir.X != 0:
		count = int(absDiff16(destination.X, p.X))
	default:
		count = 0
	}

	positions := make([]Position, 0, count+1)
	cur := p
	for i := 0; i <= count; i++ {
		positions = append(positions, cur)
		cur = cur.Add(dir)
	}
	return positions, dir
}

// IterArea enumerates every cell of a size.X x size.Y rectangle anchored at
// p, row-major.
func (p Position) IterArea(size Direction) []Position {
	var out []Position
	for y := int16(0); y < int16(size.Y); y++ {
		for x := int16(0); x < int16(size.X); x++ {
			out = append(out, Position{p.X + x, p.Y + y, p.Z})
		}
	}
	return out
}

// CornerPos picks the driveway cell on the footprint's edge facing dir, for
// a 2x2 building anchored at p.
func (p Position) CornerPos(dir Direction) Position {
	switch dir {
	case Left:
		return p.Add(DownRight)
	case Right:
		return p
	case Down:
		return p.Add(Right)
	case Up:
		return p.Add(Down)
	default:
		return p
	}
}

// DefaultConnections returns the fallback two-direction connection pair for
// an unconnected road tile, chosen by the parity of p's coordinates so that
// a 2x2 blueprint forms proper lanes.
func (p Position) DefaultConnections() []Direction {
	switch [2]int16{mod(p.X, 2), mod(p.Y, 2)} {
	case [2]int16{0, 0}:
		return topLeftDirs[:]
	case [2]int16{1, 0}:
		return topRightDirs[:]
	case [2]int16{1, 1}:
		return botRightDirs[:]
	case [2]int16{0, 1}:
		return botLeftDirs[:]
	default:
		return nil
	}
}

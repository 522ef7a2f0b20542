package tile

import (
	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/reservation"
)

// Road is the payload of a KindRoad tile: its outgoing connection set, an
// optional yield flag (diagnostic only), an optional station building it
// serves, and the reservation ledger that governs actual traffic control.
type Road struct {
	ShouldYield bool              `yaml:"should_yield,omitempty"`
	Station     uint64            `yaml:"station,omitempty"`
	Connections []geom.Direction  `yaml:"connections,omitempty"`
	Ledger      reservation.Ledger `yaml:"-"`
}

// Ramp is the payload of a KindRamp tile: the one direction it connects
// through to the other layer (LayerUp or LayerDown).
type Ramp struct {
	Dir geom.Direction `yaml:"dir"`
}

// Clone returns an independent copy of r.
func (r *Ramp) Clone() *Ramp {
	out := *r
	return &out
}

func NewRoadConnected(dir geom.Direction, station uint64) *Road {
	r := &Road{Station: station}
	if !dir.IsNone() {
		r.Connections = append(r.Connections, dir)
	}
	return r
}

func (r *Road) IsConnected(dir geom.Direction) bool {
	for _, c := range r.Connections {
		if c == dir {
			return true
		}
	}
	return false
}

// Connect adds dir to the connection set if it isn't already present.
// Connect(None) is a no-op (Open Question 3).
func (r *Road) Connect(dir geom.Direction) {
	if dir.IsNone() || r.IsConnected(dir) {
		return
	}
	r.Connections = append(r.Connections, dir)
}

func (r *Road) Disconnect(dir geom.Direction) {
	for i, c := range r.Connections {
		if c == dir {
			r.Connections[i] = r.Connections[len(r.Connections)-1]
			r.Connections = r.Connections[:len(r.Connections)-1]
			return
		}
	}
}

func (r *Road) ConnectionCount() int {
	return len(r.Connections)
}

// Clone returns an independent copy of r: its own Connections slice and
// its own Ledger, so mutating the copy never reaches back into r.
func (r *Road) Clone() *Road {
	out := &Road{ShouldYield: r.ShouldYield, Station: r.Station, Ledger: r.Ledger.Clone()}
	out.Connections = append(out.Connections, r.Connections...)
	return out
}

// GetConnections returns the road's connection set, or the parity-based
// default pair's first entry for a freshly placed, unconnected road. A
// dead end still needs one direction to search from.
func (r *Road) GetConnections(pos geom.Position) []geom.Direction {
	if len(r.Connections) > 0 {
		return r.Connections
	}
	defaults := pos.DefaultConnections()
	if len(defaults) == 0 {
		return nil
	}
	return defaults[:1]
}

func (r *Road) char() byte {
	switch {
	case r.IsConnected(geom.Up) && r.IsConnected(geom.Left):
		return 'r'
	case r.IsConnected(geom.Down) && r.IsConnected(geom.Left):
		return 'l'
	case r.IsConnected(geom.Down) && r.IsConnected(geom.Right):
		return 'L'
	case r.IsConnected(geom.Up) && r.IsConnected(geom.Right):
		return 'R'
	case r.IsConnected(geom.Left):
		return '<'
	case r.IsConnected(geom.Right):
		return '>'
	case r.IsConnected(geom.Up):
		return '^'
	case r.IsConnected(geom.Down):
		return '.'
	case r.IsConnected(geom.Right.Add(geom.LayerUp)):
		return '}'
	case r.IsConnected(geom.Right.Add(geom.LayerDown)):
		return ']'
	case r.IsConnected(geom.Left.Add(geom.LayerUp)):
		return '{'
	case r.IsConnected(geom.Left.Add(geom.LayerDown)):
		return '['
	default:
		return '*'
	}
}

// newRoadFromChar maps one grid-DSL character to a freshly built road.
func newRoadFromChar(ch byte) (*Road, bool) {
	road := &Road{}
	switch ch {
	case '*':
		// unconnected
	case '>':
		road.Connect(geom.Right)
	case '<':
		road.Connect(geom.Left)
	case '^':
		road.Connect(geom.Up)
	case '.':
		road.Connect(geom.Down)
	case 'y':
		road.Connect(geom.Up)
		road.ShouldYield = true
	case 'l':
		road.Connect(geom.Left)
		road.Connect(geom.Down)
	case 'r':
		road.Connect(geom.Left)
		road.Connect(geom.Up)
	case 'L':
		road.Connect(geom.Right)
		road.Connect(geom.Down)
	case 'R':
		road.Connect(geom.Right)
		road.Connect(geom.Up)
	case '}':
		road.Connect(geom.Right.Add(geom.LayerUp))
	case ']':
		road.Connect(geom.Right.Add(geom.LayerDown))
	case '{':
		road.Connect(geom.Left.Add(geom.LayerUp))
	case '[':
		road.Connect(geom.Left.Add(geom.LayerDown))
	default:
		return nil, false
	}
	return road, true
}

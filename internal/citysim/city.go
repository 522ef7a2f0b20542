package citysim

import (
	"github.com/trafficgrid/sim/internal/geom"
	"gopkg.in/yaml.v3"
)

// CityGrowTicks is the growth firing period, matching HouseUpdateTicks in
// the original: a city and its houses grow at the same cadence.
const CityGrowTicks = 160

// cityYAML mirrors City with the growth phase counter exported so a save
// preserves exactly where a city sits in its growth cycle.
type cityYAML struct {
	ID        uint64        `yaml:"id"`
	Pos       geom.Position `yaml:"pos"`
	Name      string        `yaml:"name"`
	Houses    []uint64      `yaml:"houses,omitempty"`
	GrowTicks int32         `yaml:"grow_ticks"`
	GrowRate  int32         `yaml:"grow_rate"`
}

// MarshalYAML implements yaml.Marshaler.
func (c *City) MarshalYAML() (interface{}, error) {
	return cityYAML{
		ID:        c.ID,
		Pos:       c.Pos,
		Name:      c.Name,
		Houses:    c.Houses,
		GrowTicks: c.growTicks,
		GrowRate:  c.GrowRate,
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *City) UnmarshalYAML(node *yaml.Node) error {
	var y cityYAML
	if err := node.Decode(&y); err != nil {
		return err
	}
	*c = City{
		ID:        y.ID,
		Pos:       y.Pos,
		Name:      y.Name,
		Houses:    y.Houses,
		growTicks: y.GrowTicks,
		GrowRate:  y.GrowRate,
	}
	return nil
}

// City owns a list of building ids and a growth phase counter. Finding
// where to place a new building is gridmap's job (it owns the Grid); City
// only tracks whether growth is due.
type City struct {
	ID        uint64
	Pos       geom.Position
	Name      string
	Houses    []uint64
	growTicks int32
	GrowRate  int32
}

func NewCity(id uint64, pos geom.Position, name string, initialPhase int32) *City {
	return &City{
		ID:        id,
		Pos:       pos,
		Name:      name,
		growTicks: initialPhase % CityGrowTicks,
		GrowRate:  CityGrowTicks,
	}
}

// TickGrowth advances the growth counter and reports whether this tick
// should add a new building to the city.
func (c *City) TickGrowth() bool {
	c.growTicks++
	if c.growTicks > c.GrowRate {
		c.growTicks = 0
		return true
	}
	return false
}

func (c *City) AddHouse(id uint64) {
	c.Houses = append(c.Houses, id)
}

// RemoveHouse drops id from the city's house list, swap-removing for O(1)
// deletion since order doesn't matter here.
func (c *City) RemoveHouse(id uint64) {
	for i, h := range c.Houses {
		if h == id {
			c.Houses[i] = c.Houses[len(c.Houses)-1]
			c.Houses = c.Houses[:len(c.Houses)-1]
			return
		}
	}
}

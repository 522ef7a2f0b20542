// Package citysim holds the plain data model for buildings and cities:
// production/growth counters and the few pure geometry helpers that
// derive a building's spawn/destination cell. The actual grid
// construction (placing footprint tiles, finding empty land to grow
// into) lives in internal/gridmap, which owns the Grid these types are
// placed on.
package citysim

import (
	"github.com/trafficgrid/sim/internal/geom"
	"gopkg.in/yaml.v3"
)

// buildingYAML mirrors Building field-for-field but with the production
// phase counter exported, so a save captures exactly where a building
// sits in its own production cycle instead of restarting it at zero.
type buildingYAML struct {
	ID              uint64         `yaml:"id"`
	Pos             geom.Position  `yaml:"pos"`
	HasDir          bool           `yaml:"has_dir,omitempty"`
	Dir             geom.Direction `yaml:"dir,omitempty"`
	Color           ColorTag       `yaml:"color,omitempty"`
	CityID          uint64         `yaml:"city_id"`
	VehicleOnTheWay uint64         `yaml:"vehicle_on_the_way,omitempty"`
	ArrivedCount    int64          `yaml:"arrived_count,omitempty"`
	ProductionTicks int32          `yaml:"production_ticks"`
	ProductionRate  int32          `yaml:"production_rate"`
	Kind            BuildingType   `yaml:"kind"`
}

// MarshalYAML implements yaml.Marshaler.
func (b *Building) MarshalYAML() (interface{}, error) {
	return buildingYAML{
		ID:              b.ID,
		Pos:             b.Pos,
		HasDir:          b.HasDir,
		Dir:             b.Dir,
		Color:           b.Color,
		CityID:          b.CityID,
		VehicleOnTheWay: b.VehicleOnTheWay,
		ArrivedCount:    b.ArrivedCount,
		ProductionTicks: b.productionTicks,
		ProductionRate:  b.productionRate,
		Kind:            b.Kind,
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *Building) UnmarshalYAML(node *yaml.Node) error {
	var y buildingYAML
	if err := node.Decode(&y); err != nil {
		return err
	}
	*b = Building{
		ID:              y.ID,
		Pos:             y.Pos,
		HasDir:          y.HasDir,
		Dir:             y.Dir,
		Color:           y.Color,
		CityID:          y.CityID,
		VehicleOnTheWay: y.VehicleOnTheWay,
		ArrivedCount:    y.ArrivedCount,
		productionTicks: y.ProductionTicks,
		productionRate:  y.ProductionRate,
		Kind:            y.Kind,
	}
	return nil
}

// BuildingType distinguishes a plain house (produces and receives trips),
// a station (never produces, a road-attached stop), and a spawner (a
// dedicated trip source/sink with a fixed direction and color tag).
type BuildingType int

const (
	House BuildingType = iota
	Station
	Spawner
)

const (
	HouseUpdateTicks   = 160
	SpawnerUpdateTicks = 16
)

// ColorTag is a cosmetic tag carried by spawners, mirrored from the
// original's SpawnerColors enum; the simulator never branches on it.
type ColorTag int

const (
	ColorBlue ColorTag = iota
	ColorRed
	ColorGreen
	ColorYellow
)

// Building is one production/consumption point. A 2x2 footprint on the
// grid (BuildingSize) shares one Building record via its id.
type Building struct {
	ID     uint64
	Pos    geom.Position
	HasDir bool
	Dir    geom.Direction
	Color  ColorTag
	CityID uint64

	VehicleOnTheWay uint64
	ArrivedCount    int64

	productionTicks int32
	productionRate  int32
	Kind            BuildingType
}

// BuildingSize is the fixed footprint of every building.
var BuildingSize = geom.Direction{X: 2, Y: 2}

func NewHouse(pos geom.Position, cityID uint64, initialPhase int32) *Building {
	return &Building{
		Pos:             pos,
		CityID:          cityID,
		productionTicks: initialPhase % HouseUpdateTicks,
		productionRate:  HouseUpdateTicks,
		Kind:            House,
	}
}

func NewStation(pos geom.Position, cityID uint64) *Building {
	return &Building{
		Pos:            pos,
		CityID:         cityID,
		productionRate: HouseUpdateTicks,
		Kind:           Station,
	}
}

func NewSpawner(pos geom.Position, dir geom.Direction, color ColorTag, cityID uint64, initialPhase int32) *Building {
	return &Building{
		Pos:             pos,
		HasDir:          true,
		Dir:             dir,
		Color:           color,
		CityID:          cityID,
		productionTicks: initialPhase % SpawnerUpdateTicks,
		productionRate:  SpawnerUpdateTicks,
		Kind:            Spawner,
	}
}

// SpawnPos is the driveway cell a trip departs from.
func (b *Building) SpawnPos() geom.Position {
	if b.HasDir {
		return b.Pos.CornerPos(b.Dir.Inverse())
	}
	return b.Pos
}

// DestinationPos is the driveway cell a trip arrives at.
func (b *Building) DestinationPos() geom.Position {
	if b.HasDir {
		return b.Pos.CornerPos(b.Dir)
	}
	return b.Pos
}

// UpdateArrived adjusts the satisfaction counter: up on a completed trip,
// down (floored at zero) on a failed one.
func (b *Building) UpdateArrived(success bool) {
	if success {
		b.ArrivedCount++
	} else if b.ArrivedCount > 0 {
		b.ArrivedCount--
	}
}

// Update advances the production phase by one tick and reports whether
// the building fires this tick. A Station never fires.
func (b *Building) Update() bool {
	if b.Kind == Station {
		return false
	}
	b.productionTicks++
	if b.productionTicks >= b.productionRate {
		b.productionTicks = 0
		return true
	}
	return false
}

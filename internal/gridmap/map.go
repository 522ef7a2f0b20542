package gridmap

import (
	"math/rand"

	"github.com/trafficgrid/sim/internal/citysim"
	"github.com/trafficgrid/sim/internal/geom"
)

// Map is the single owned value holding the entire simulation world: the
// tile grid, the building/city tables, the monotonic id allocator, and
// the one seeded RNG the spec requires be a plain field, never a process
// global.
type Map struct {
	Grid      *Grid
	Buildings map[uint64]*citysim.Building
	Cities    map[uint64]*citysim.City

	Rating   float64
	TickNum  uint64

	nextID uint64
	rng    *rand.Rand
}

// NewBlank allocates an empty w x h world seeded deterministically.
func NewBlank(w, h int16, seed int64) *Map {
	return &Map{
		Grid:      NewGrid(w, h),
		Buildings: make(map[uint64]*citysim.Building),
		Cities:    make(map[uint64]*citysim.City),
		Rating:    1,
		nextID:    1,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// NewFromGrid wraps a pre-built grid (e.g. one parsed from the DSL) in a
// fresh Map.
func NewFromGrid(g *Grid, seed int64) *Map {
	return &Map{
		Grid:      g,
		Buildings: make(map[uint64]*citysim.Building),
		Cities:    make(map[uint64]*citysim.City),
		Rating:    1,
		nextID:    1,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// RNG exposes the map's owned random source to callers that need
// deterministic randomness (trip target selection, city growth walks).
func (m *Map) RNG() *rand.Rand { return m.rng }

// NextID returns the id the allocator would hand out next.
func (m *Map) NextID() uint64 { return m.nextID }

// SetNextID overrides the allocator's counter, used when restoring a
// saved map so newly spawned ids never collide with a loaded one.
func (m *Map) SetNextID(id uint64) { m.nextID = id }

// AllocID returns the next id from the monotonic counter (0 is reserved
// as "none").
func (m *Map) AllocID() uint64 {
	id := m.nextID
	m.nextID++
	return id
}

// BuildBuilding places building's footprint on the grid and registers it
// in the Buildings table, returning its newly allocated id.
func (m *Map) BuildBuilding(building *citysim.Building) (uint64, error) {
	if err := m.Grid.IsAreaClear(building.Pos, citysim.BuildingSize); err != nil {
		return 0, err
	}
	id := m.AllocID()
	building.ID = id
	if err := m.Grid.BuildBuildingTile(building.Pos, citysim.BuildingSize, id); err != nil {
		return 0, err
	}
	m.Buildings[id] = building
	return id, nil
}

// ClearArea removes whatever occupies the 2x2 footprint at pos, including
// deregistering a building from its owning city if present.
func (m *Map) ClearArea(pos geom.Position) error {
	pos = pos.RoundTo(2)

	if t, ok := m.Grid.GetTile(pos); ok && t.IsBuilding() {
		if building, ok := m.Buildings[t.BuildingID]; ok {
			if city, ok := m.Cities[building.CityID]; ok {
				city.RemoveHouse(t.BuildingID)
			}
			delete(m.Buildings, t.BuildingID)
		}
	}

	return m.Grid.ClearArea(pos)
}

// NewCity allocates a city record, registers it, and lays its initial
// center-cross roads plus four seed houses plus ten grown houses, the
// starter-level generation routine.
func (m *Map) NewCity(pos geom.Position, name string) (*citysim.City, error) {
	id := m.AllocID()
	city := citysim.NewCity(id, pos, name, int32(m.rng.Intn(citysim.CityGrowTicks)))
	m.Cities[id] = city

	for i := int16(-10); i < 10; i++ {
		if err := m.Grid.BuildTwoWayRoad(pos.Add(geom.Direction{X: int8(i)}), geom.Left); err != nil {
			return nil, err
		}
		if err := m.Grid.BuildTwoWayRoad(pos.Add(geom.Direction{Y: int8(i)}), geom.Down); err != nil {
			return nil, err
		}
	}

	seeds := []geom.Direction{{X: 2, Y: 2}, {X: 2, Y: -2}, {X: -2, Y: 2}, {X: -2, Y: -2}}
	for _, d := range seeds {
		if err := m.growCityHouse(city, pos.Add(d)); err != nil {
			return nil, err
		}
	}

	for i := 0; i < 10; i++ {
		m.GrowCity(city)
	}

	return city, nil
}

// growCityHouse places one new house for city at pos (rounded to the 2x2
// grid) and registers it on the city's house list.
func (m *Map) growCityHouse(city *citysim.City, pos geom.Position) error {
	pos = pos.RoundTo(2)
	building := citysim.NewHouse(pos, city.ID, int32(m.rng.Intn(citysim.HouseUpdateTicks)))
	id, err := m.BuildBuilding(building)
	if err != nil {
		return err
	}
	city.AddHouse(id)
	return nil
}

// BuildingDriveway scans building's 2x2 footprint for a bordering road
// cell, returning that road position and the footprint cell it borders.
// Iteration order (row-major footprint, then Right/Left/Up/Down) makes
// the result deterministic when more than one road borders the building.
func (m *Map) BuildingDriveway(building *citysim.Building) (roadPos, footprintPos geom.Position, ok bool) {
	for _, fp := range building.Pos.IterArea(citysim.BuildingSize) {
		for _, dir := range geom.All {
			neighbor := fp.Add(dir)
			if withinFootprint(building.Pos, neighbor) {
				continue
			}
			if t, exists := m.Grid.GetTile(neighbor); exists && t.IsRoad() {
				return neighbor, fp, true
			}
		}
	}
	return geom.Position{}, geom.Position{}, false
}

func withinFootprint(anchor, pos geom.Position) bool {
	return pos.X >= anchor.X && pos.X < anchor.X+2 && pos.Y >= anchor.Y && pos.Y < anchor.Y+2 && pos.Z == anchor.Z
}

// GrowCity attempts to add one new house adjacent to a random existing
// one, random-walking away from it until an empty 2x2 plot is found or
// the walk falls off the grid. Occupied plots are retried with a fresh
// step; an off-grid step abandons this growth attempt.
func (m *Map) GrowCity(city *citysim.City) {
	if len(city.Houses) == 0 {
		return
	}
	startID := city.Houses[m.rng.Intn(len(city.Houses))]
	building, ok := m.Buildings[startID]
	if !ok {
		return
	}

	pos := building.Pos
	for {
		dir := geom.All[m.rng.Intn(len(geom.All))]
		pos = pos.Add(dir)
		err := m.growCityHouse(city, pos)
		if err == nil {
			return
		}
		if err == ErrOccupiedTile {
			continue
		}
		return
	}
}

// Package persist saves and restores a running World to a single YAML
// file, the way the original desktop build wrote its save.ron. A tile's
// reservation ledger is never itself serialized (tile.Road's Ledger field
// carries yaml:"-"), so vehicles are saved with their full state except
// reservation tickets; Fixup rebuilds those by reserving each vehicle's
// current cell indefinitely, the same post-load step the original
// sketched as Map::fixup but never finished wiring up.
package persist

import (
	"fmt"
	"os"
	"sort"

	"github.com/trafficgrid/sim/internal/citysim"
	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/gridmap"
	"github.com/trafficgrid/sim/internal/pathfind"
	"github.com/trafficgrid/sim/internal/reservation"
	"github.com/trafficgrid/sim/internal/sim"
	"github.com/trafficgrid/sim/internal/tile"
	"github.com/trafficgrid/sim/internal/vehicle"
	"gopkg.in/yaml.v3"
)

// VehicleSnapshot is a Vehicle stripped of anything derivable at load
// time; Fixup rebuilds the runtime Vehicle from it. It deliberately
// carries no reservation tickets; those are rebuilt by Fixup, and the
// forward chain beyond the current cell is rebuilt lazily by the
// vehicle's own planner as it ticks, exactly as a freshly spawned
// vehicle builds it.
type VehicleSnapshot struct {
	ID            uint64           `yaml:"id"`
	Pos           geom.Position    `yaml:"pos"`
	Dir           geom.Direction   `yaml:"dir"`
	Color         citysim.ColorTag `yaml:"color"`
	Destination   uint64           `yaml:"destination"`
	Path          *pathfind.Path   `yaml:"path,omitempty"`
	PathIndex     int              `yaml:"path_index"`
	PathTimeTicks uint32           `yaml:"path_time_ticks"`
	ElapsedTicks  uint32           `yaml:"elapsed_ticks"`
}

// Snapshot is the on-disk representation of an entire World.
type Snapshot struct {
	Width         int16                        `yaml:"width"`
	Height        int16                        `yaml:"height"`
	Layers        [2][]tile.Tile               `yaml:"layers"`
	Buildings     map[uint64]*citysim.Building `yaml:"buildings"`
	Cities        map[uint64]*citysim.City     `yaml:"cities"`
	Rating        float64                      `yaml:"rating"`
	TickNum       uint64                       `yaml:"tick_num"`
	NextID        uint64                       `yaml:"next_id"`
	Seed          int64                        `yaml:"seed"`
	Vehicles      []VehicleSnapshot            `yaml:"vehicles"`
}

// Bytes serializes w to its YAML save representation without touching
// disk, for callers (e.g. a periodic S3 snapshot upload) that need the
// bytes rather than a file. Vehicles are emitted in ascending id order
// (map iteration order is randomized) so two calls on the same world
// produce byte-identical output.
func Bytes(w *sim.World, seed int64) ([]byte, error) {
	snap := Snapshot{
		Width:     w.Map.Grid.Width,
		Height:    w.Map.Grid.Height,
		Layers:    w.Map.Grid.Layers(),
		Buildings: w.Map.Buildings,
		Cities:    w.Map.Cities,
		Rating:    w.Map.Rating,
		TickNum:   w.Map.TickNum,
		NextID:    w.Map.NextID(),
		Seed:      seed,
	}
	ids := make([]uint64, 0, len(w.Vehicles))
	for id := range w.Vehicles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		v := w.Vehicles[id]
		snap.Vehicles = append(snap.Vehicles, VehicleSnapshot{
			ID:            id,
			Pos:           v.Pos,
			Dir:           v.Dir,
			Color:         v.Color,
			Destination:   v.Destination,
			Path:          v.Path,
			PathIndex:     v.PathIndex,
			PathTimeTicks: v.PathTimeTicks,
			ElapsedTicks:  v.ElapsedTicks,
		})
	}

	out, err := yaml.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("marshal save: %w", err)
	}
	return out, nil
}

// Save serializes w to path as YAML, using seed to reseed the restored
// map's RNG (the original never persisted its RNG state either; city
// growth and trip-target selection simply reseed on load).
func Save(w *sim.World, seed int64, path string) error {
	out, err := Bytes(w, seed)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// Load reads path and reconstructs a World, then calls Fixup to restore
// every vehicle's current-cell reservation.
func Load(path string) (*sim.World, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read save: %w", err)
	}
	return FromBytes(raw)
}

// FromBytes reconstructs a World directly from a save's YAML bytes,
// for callers (e.g. the trafficcore façade's Load) that already hold
// the data rather than a file path.
func FromBytes(raw []byte) (*sim.World, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal save: %w", err)
	}

	grid := gridmap.NewGridFromLayers(snap.Width, snap.Height, snap.Layers)
	m := gridmap.NewFromGrid(grid, snap.Seed)
	m.Buildings = snap.Buildings
	m.Cities = snap.Cities
	m.Rating = snap.Rating
	m.TickNum = snap.TickNum
	m.SetNextID(snap.NextID)

	w := sim.NewWorld(m)
	for _, vs := range snap.Vehicles {
		v := &vehicle.Vehicle{
			ID:            vs.ID,
			Pos:           vs.Pos,
			Dir:           vs.Dir,
			Color:         vs.Color,
			Destination:   vs.Destination,
			Path:          vs.Path,
			PathIndex:     vs.PathIndex,
			PathTimeTicks: vs.PathTimeTicks,
			ElapsedTicks:  vs.ElapsedTicks,
		}
		w.Vehicles[vs.ID] = v
	}

	if err := Fixup(w); err != nil {
		return nil, fmt.Errorf("fixup: %w", err)
	}
	return w, nil
}

// Fixup reserves each loaded vehicle's current cell indefinitely, the
// same ticket vehicle.New takes out on a vehicle's spawn cell. Nothing
// else is replayed: the next Update call rebuilds the forward
// reservation chain cell by cell as the vehicle's PathIndex advances,
// exactly as it would for a vehicle that was never saved at all.
func Fixup(w *sim.World) error {
	now := w.Map.TickNum
	for _, v := range w.Vehicles {
		res, err := w.Map.Grid.Reserve(v.Pos, v.ID, now, now, reservation.Indefinite)
		if err != nil {
			return fmt.Errorf("vehicle %d: reserve current cell %v: %w", v.ID, v.Pos, err)
		}
		v.Reserved = []reservation.Reservation{res}
	}
	return nil
}

// Package sim implements the tick simulator: one World advances every
// vehicle, retires finished trips, fires building production, and grows
// cities, in the fixed order spec'd for a single logical tick.
package sim

import (
	"context"
	"sort"
	"time"

	"github.com/trafficgrid/sim/internal/citysim"
	"github.com/trafficgrid/sim/internal/gridmap"
	"github.com/trafficgrid/sim/internal/obs"
	"github.com/trafficgrid/sim/internal/reservation"
	"github.com/trafficgrid/sim/internal/vehicle"
)

const ratingSmoothing = 0.9

// World owns the live vehicle set alongside the grid/building/city map it
// ticks against.
type World struct {
	Map      *gridmap.Map
	Vehicles map[uint64]*vehicle.Vehicle

	ArrivedTotal int64
	nextVehicleID uint64
}

// NewWorld wraps m in a fresh, vehicle-free World.
func NewWorld(m *gridmap.Map) *World {
	return &World{Map: m, Vehicles: make(map[uint64]*vehicle.Vehicle), nextVehicleID: 1}
}

// TickSample is one snapshot handed to whichever archive stores are
// configured; the simulator never reads it back. World is included so a
// store that archives whole-world snapshots (rather than per-tick rows)
// has something to serialize without the caller threading it through
// separately.
type TickSample struct {
	Tick           uint64
	Rating         float64
	ActiveVehicles int
	ArrivedTotal   int64
	World          *World
}

// SpawnVehicle reserves building's spawn cell indefinitely and plans an
// initial path toward destID, discarding the reservation if planning
// fails. Returns the new vehicle's id.
func (w *World) SpawnVehicle(building *citysim.Building, destID uint64) (uint64, error) {
	id := w.nextVehicleID
	w.nextVehicleID++

	roadPos, footprintPos, ok := w.Map.BuildingDriveway(building)
	if !ok {
		w.nextVehicleID--
		return 0, gridmap.ErrInvalidPath
	}
	spawnPos := footprintPos
	outDir := roadPos.Sub(footprintPos)

	v, err := vehicle.New(id, spawnPos, outDir, destID, w.Map, w.Map.TickNum)
	if err != nil {
		w.nextVehicleID--
		return 0, err
	}
	if v.Path == nil {
		w.Map.Grid.Unreserve(spawnPos, id)
		w.nextVehicleID--
		return 0, gridmap.ErrInvalidPath
	}

	building.VehicleOnTheWay = id
	w.Vehicles[id] = v
	return id, nil
}

// Tick advances the world exactly one quantum: vehicles first (ascending
// id order), then terminal-vehicle retirement, then building production,
// then city growth, then the tick counter.
func (w *World) Tick(ctx context.Context) TickSample {
	start := time.Now()
	ctx, span := obs.Tracer.Start(ctx, "sim.Tick")
	defer span.End()

	now := w.Map.TickNum

	ids := make([]uint64, 0, len(w.Vehicles))
	for id := range w.Vehicles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var terminal []uint64
	for _, id := range ids {
		v := w.Vehicles[id]
		switch v.Update(w.Map, now) {
		case vehicle.ReachedDestination:
			w.retire(v, true)
			terminal = append(terminal, id)
		case vehicle.HopelesslyLate:
			w.retire(v, false)
			terminal = append(terminal, id)
		}
	}
	for _, id := range terminal {
		delete(w.Vehicles, id)
	}

	w.tickBuildings(ctx, now)
	w.tickCities()

	w.Map.TickNum++

	sample := TickSample{
		Tick:           now,
		Rating:         w.Map.Rating,
		ActiveVehicles: len(w.Vehicles),
		ArrivedTotal:   w.ArrivedTotal,
		World:          w,
	}

	obs.TicksProcessed().Add(ctx, 1)
	obs.TickDuration().Record(ctx, time.Since(start).Seconds())
	return sample
}

// retire releases every reservation a finished vehicle holds, clears the
// destination building's in-flight marker, records the arrival outcome,
// and folds it into the exponentially smoothed rating.
func (w *World) retire(v *vehicle.Vehicle, success bool) {
	for _, r := range v.Reserved {
		w.Map.Grid.Unreserve(r.Pos, v.ID)
	}

	if b, ok := w.Map.Buildings[v.Destination]; ok {
		if b.VehicleOnTheWay == v.ID {
			b.VehicleOnTheWay = 0
		}
		b.UpdateArrived(success)
	}

	if success {
		w.ArrivedTotal++
	}

	sample := 0.0
	if success {
		sample = 1.0
	}
	w.Map.Rating = ratingSmoothing*w.Map.Rating + (1-ratingSmoothing)*sample
}

func (w *World) tickBuildings(ctx context.Context, now reservation.Tick) {
	_, span := obs.Tracer.Start(ctx, "sim.tickBuildings")
	defer span.End()

	ids := make([]uint64, 0, len(w.Map.Buildings))
	for id := range w.Map.Buildings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		b := w.Map.Buildings[id]
		if !b.Update() {
			continue
		}
		if b.VehicleOnTheWay != 0 {
			continue
		}
		peer := w.pickPeerBuilding(b)
		if peer == nil || peer.VehicleOnTheWay != 0 {
			continue
		}
		w.SpawnVehicle(b, peer.ID)
	}
}

func (w *World) pickPeerBuilding(b *citysim.Building) *citysim.Building {
	city, ok := w.Map.Cities[b.CityID]
	if !ok || len(city.Houses) == 0 {
		return nil
	}
	peerID := city.Houses[w.Map.RNG().Intn(len(city.Houses))]
	if peerID == b.ID {
		return nil
	}
	return w.Map.Buildings[peerID]
}

func (w *World) tickCities() {
	ids := make([]uint64, 0, len(w.Map.Cities))
	for id := range w.Map.Cities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		city := w.Map.Cities[id]
		if city.TickGrowth() {
			w.Map.GrowCity(city)
		}
	}
}

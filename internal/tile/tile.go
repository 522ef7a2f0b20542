// Package tile implements the per-cell tile model: empty cells, road
// segments with their connection set and reservation ledger, layer-change
// ramps, and building footprint cells.
package tile

import (
	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/reservation"
)

const (
	defaultCost  uint32 = 1
	occupiedCost uint32 = 2
)

// YieldType is a diagnostic classification only; the reservation ledger
// remains the sole authoritative conflict mechanism (spec open question 1).
type YieldType int

const (
	YieldNever YieldType = iota
	YieldIfAtIntersection
	YieldAlways
)

// Kind discriminates which variant a Tile holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindRoad
	KindRamp
	KindBuilding
)

// Tile is the per-cell state: exactly one of Road, Ramp or BuildingID is
// meaningful, selected by Kind. Empty has no payload.
type Tile struct {
	Kind       Kind         `yaml:"kind"`
	Road       *Road        `yaml:"road,omitempty"`
	Ramp       *Ramp        `yaml:"ramp,omitempty"`
	BuildingID uint64       `yaml:"building_id,omitempty"`
}

func Empty() Tile { return Tile{Kind: KindEmpty} }

func NewRoad() Tile { return Tile{Kind: KindRoad, Road: &Road{}} }

func NewRamp(dir geom.Direction) Tile { return Tile{Kind: KindRamp, Ramp: &Ramp{Dir: dir}} }

func NewBuilding(id uint64) Tile { return Tile{Kind: KindBuilding, BuildingID: id} }

func (t Tile) IsEmpty() bool    { return t.Kind == KindEmpty }
func (t Tile) IsRoad() bool     { return t.Kind == KindRoad }
func (t Tile) IsRamp() bool     { return t.Kind == KindRamp }
func (t Tile) IsBuilding() bool { return t.Kind == KindBuilding }

// Clone returns a copy of t that shares no Road or Ramp pointer with it,
// so a caller holding onto a Clone as a pre-state snapshot sees it stay
// put even as t is mutated in place afterward.
func (t Tile) Clone() Tile {
	out := t
	if t.Road != nil {
		out.Road = t.Road.Clone()
	}
	if t.Ramp != nil {
		out.Ramp = t.Ramp.Clone()
	}
	return out
}

// IterConnections returns the outgoing directions a path search may follow
// from this tile, given its grid position (needed for the road's
// parity-based default connection fallback).
func (t Tile) IterConnections(pos geom.Position) []geom.Direction {
	switch t.Kind {
	case KindRoad:
		return t.Road.GetConnections(pos)
	case KindBuilding:
		return pos.DefaultConnections()
	default:
		return nil
	}
}

// Cost is the path-planning weight of entering this tile: cheap for an
// unreserved road, double for a currently reserved one (to divert but not
// forbid re-use), likewise double for a building footprint, triple for
// anything else (ramps, dead-end probes).
func (t Tile) Cost(now reservation.Tick) uint32 {
	switch t.Kind {
	case KindRoad:
		if t.Road.Ledger.Reserved(now) {
			return occupiedCost
		}
		return defaultCost
	case KindBuilding:
		return defaultCost * 2
	default:
		return defaultCost * 3
	}
}

// YieldPolicy classifies this tile for the diagnostic yield query: a
// multi-way road intersection never yields, a single-connection road
// yields only when approached at an intersection, anything else always
// yields.
func (t Tile) YieldPolicy() YieldType {
	if t.Kind == KindRoad && t.Road.ConnectionCount() > 1 {
		return YieldNever
	}
	if t.Kind == KindRoad {
		return YieldIfAtIntersection
	}
	return YieldAlways
}

// ShouldBeYieldedTo resolves Open Question 1: a tile should be yielded to
// when it is a road, connects back toward the approaching direction, holds
// an active reservation, and either it is a genuine intersection or the
// yield policy demands it unconditionally. dirFrom.None never yields to
// anything (Open Question 3).
func (t Tile) ShouldBeYieldedTo(dirFrom geom.Direction, now reservation.Tick) bool {
	if dirFrom.IsNone() || t.Kind != KindRoad {
		return false
	}
	if !t.Road.Ledger.Reserved(now) || !t.Road.IsConnected(dirFrom.Inverse()) {
		return false
	}
	return t.YieldPolicy() == YieldAlways || t.Road.ConnectionCount() > 1
}

// GetBuildingID reports the building a tile belongs to: itself for a
// Building cell, or the station it advertises for a road used as a stop.
func (t Tile) GetBuildingID() (uint64, bool) {
	switch t.Kind {
	case KindBuilding:
		return t.BuildingID, true
	case KindRoad:
		if t.Road.Station != 0 {
			return t.Road.Station, true
		}
	}
	return 0, false
}

// Char renders the tile back to its grid-DSL character, ignoring live
// reservation state; used for debugging and blueprint-equality tests.
func (t Tile) Char() byte {
	switch t.Kind {
	case KindEmpty:
		return '_'
	case KindBuilding:
		return 'h'
	case KindRoad:
		return t.Road.char()
	case KindRamp:
		switch t.Ramp.Dir {
		case geom.LayerUp:
			return 'u'
		case geom.LayerDown:
			return 'd'
		default:
			return 'r'
		}
	default:
		return '?'
	}
}

// NewFromChar parses a single grid-DSL character into a tile. Digits 0-9
// produce a building footprint cell with that literal id.
func NewFromChar(ch byte) Tile {
	switch {
	case ch == '_':
		return Empty()
	case ch == 'h':
		return NewBuilding(0)
	case ch >= '0' && ch <= '9':
		return NewBuilding(uint64(ch - '0'))
	default:
		if road, ok := newRoadFromChar(ch); ok {
			return Tile{Kind: KindRoad, Road: road}
		}
		return Empty()
	}
}

// Package gridmap implements the tiled world: a two-layer grid of tiles,
// its build/clear operations, and the top-level Map value that owns the
// grid together with the building/city tables and the simulation's seeded
// RNG and id allocator.
package gridmap

import (
	"strings"

	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/tile"
)

// Grid is a Width x Height array of tiles on each of two layers (ground
// and bridge).
type Grid struct {
	Width, Height int16
	layers        [2][]tile.Tile
}

// NewGrid allocates a blank w x h grid on both layers.
func NewGrid(w, h int16) *Grid {
	g := &Grid{Width: w, Height: h}
	size := int(w) * int(h)
	g.layers[0] = make([]tile.Tile, size)
	g.layers[1] = make([]tile.Tile, size)
	for i := range g.layers[0] {
		g.layers[0][i] = tile.Empty()
		g.layers[1][i] = tile.Empty()
	}
	return g
}

// Pos builds a ground-layer position from grid-relative coordinates.
func (g *Grid) Pos(x, y int16) geom.Position {
	return geom.New(x, y)
}

func (g *Grid) inBounds(pos geom.Position) bool {
	return pos.Z >= 0 && pos.Z < 2 && pos.X >= 0 && pos.X < g.Width && pos.Y >= 0 && pos.Y < g.Height
}

func (g *Grid) index(pos geom.Position) int {
	return int(pos.Y)*int(g.Width) + int(pos.X)
}

// GetTile returns the tile at pos, or false if pos is off-grid.
func (g *Grid) GetTile(pos geom.Position) (tile.Tile, bool) {
	if !g.inBounds(pos) {
		return tile.Tile{}, false
	}
	return g.layers[pos.Z][g.index(pos)], true
}

// GetTileMut returns a pointer to the live tile at pos for in-place
// mutation, or nil if pos is off-grid.
func (g *Grid) GetTileMut(pos geom.Position) *tile.Tile {
	if !g.inBounds(pos) {
		return nil
	}
	return &g.layers[pos.Z][g.index(pos)]
}

// Each calls fn once per tile currently occupying the grid across both
// layers, in layer-then-row-major order.
func (g *Grid) Each(fn func(pos geom.Position, t tile.Tile)) {
	for z := int16(0); z < 2; z++ {
		for y := int16(0); y < g.Height; y++ {
			for x := int16(0); x < g.Width; x++ {
				pos := geom.NewZ(x, y, z)
				fn(pos, g.layers[z][g.index(pos)])
			}
		}
	}
}

// ParseGrid parses the grid-DSL: rows separated by newlines, each
// character one ground-layer tile. All rows must have equal length.
func ParseGrid(s string) *Grid {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	height := len(lines)
	width := 0
	if height > 0 {
		width = len(lines[0])
	}
	g := NewGrid(int16(width), int16(height))
	for y, line := range lines {
		for x := 0; x < len(line) && x < width; x++ {
			t := tile.NewFromChar(line[x])
			*g.GetTileMut(geom.New(int16(x), int16(y))) = t
		}
	}
	return g
}

// Layers returns the grid's two tile layers (ground, then bridge) for a
// save snapshot. Callers must treat the returned slices as read-only.
func (g *Grid) Layers() [2][]tile.Tile { return g.layers }

// NewGridFromLayers rebuilds a w x h grid directly from previously
// captured layer contents, bypassing the grid-DSL round trip so the
// bridge layer (which String does not render) survives a save/load
// cycle intact.
func NewGridFromLayers(w, h int16, layers [2][]tile.Tile) *Grid {
	return &Grid{Width: w, Height: h, layers: layers}
}

// String renders the ground layer back through the grid-DSL character
// table, one row per line.
func (g *Grid) String() string {
	var b strings.Builder
	for y := int16(0); y < g.Height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := int16(0); x < g.Width; x++ {
			t, _ := g.GetTile(geom.New(x, y))
			b.WriteByte(t.Char())
		}
	}
	return b.String()
}

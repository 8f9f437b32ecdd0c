// Package navigation holds the terrain grid and the A* pathfinder that
// routes over it.
package navigation

import (
	"math"

	"github.com/zeusync/skirmish/internal/core/systems/physics"
)

// Cell addresses a grid square. Y runs along the world z axis.
type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Grid is a uniform walkability grid over the ground plane.
type Grid struct {
	width    int
	height   int
	cellSize float64
	origin   physics.Vec3

	blocked map[Cell]struct{}
	weights map[Cell]float64
}

// NewGrid builds an open grid. A non-positive cellSize is treated as 1.
func NewGrid(width, height int, cellSize float64, origin physics.Vec3) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		width:    width,
		height:   height,
		cellSize: cellSize,
		origin:   origin,
		blocked:  make(map[Cell]struct{}),
		weights:  make(map[Cell]float64),
	}
}

func (g *Grid) Width() int           { return g.width }
func (g *Grid) Height() int          { return g.height }
func (g *Grid) CellSize() float64    { return g.cellSize }
func (g *Grid) Origin() physics.Vec3 { return g.origin }

func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

func (g *Grid) SetBlocked(c Cell, blocked bool) {
	if blocked {
		g.blocked[c] = struct{}{}
	} else {
		delete(g.blocked, c)
	}
}

func (g *Grid) Blocked(c Cell) bool {
	_, ok := g.blocked[c]
	return ok
}

// Walkable reports whether c is inside the grid and not blocked.
func (g *Grid) Walkable(c Cell) bool { return g.InBounds(c) && !g.Blocked(c) }

// SetWeight sets the extra cost of entering c. Zero clears it.
func (g *Grid) SetWeight(c Cell, w float64) {
	if w == 0 {
		delete(g.weights, c)
		return
	}
	g.weights[c] = w
}

func (g *Grid) Weight(c Cell) float64 { return g.weights[c] }

// WorldToGrid returns the cell containing v.
func (g *Grid) WorldToGrid(v physics.Vec3) Cell {
	return Cell{
		X: int(math.Floor((v.X - g.origin.X) / g.cellSize)),
		Y: int(math.Floor((v.Z - g.origin.Z) / g.cellSize)),
	}
}

// GridToWorld returns the centre of c.
func (g *Grid) GridToWorld(c Cell) physics.Vec3 {
	return physics.Vec3{
		X: g.origin.X + (float64(c.X)+0.5)*g.cellSize,
		Y: g.origin.Y,
		Z: g.origin.Z + (float64(c.Y)+0.5)*g.cellSize,
	}
}

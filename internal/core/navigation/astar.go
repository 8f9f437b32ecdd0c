package navigation

import (
	"slices"

	"github.com/zeusync/skirmish/internal/core/systems/physics"
	"github.com/zeusync/skirmish/pkg/generic"
	"github.com/zeusync/skirmish/pkg/sequence"
)

const (
	OrthogonalCost = 1.0
	DiagonalCost   = 1.4
)

var neighbourOffsets = [8]Cell{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

type search struct {
	open   *sequence.PriorityQueue[Cell]
	cost   map[Cell]float64
	from   map[Cell]Cell
	closed map[Cell]struct{}
}

func newSearch() *search {
	return &search{
		open:   sequence.NewPriorityQueue[Cell](),
		cost:   make(map[Cell]float64),
		from:   make(map[Cell]Cell),
		closed: make(map[Cell]struct{}),
	}
}

func (s *search) reset() {
	s.open.Reset()
	clear(s.cost)
	clear(s.from)
	clear(s.closed)
}

// Pathfinder runs A* queries against a grid. Queries do not modify the grid.
type Pathfinder struct {
	grid    *Grid
	scratch *generic.Pool[*search]
}

func NewPathfinder(grid *Grid) *Pathfinder {
	return &Pathfinder{
		grid:    grid,
		scratch: generic.NewResetPool(newSearch, (*search).reset),
	}
}

func (p *Pathfinder) Grid() *Grid { return p.grid }

// FindPath returns the cells from start to goal inclusive, or nil when
// either end is not walkable or goal cannot be reached.
func (p *Pathfinder) FindPath(start, goal Cell) []Cell {
	if !p.grid.Walkable(start) || !p.grid.Walkable(goal) {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}

	s := p.scratch.Get()
	defer p.scratch.Put(s)

	s.cost[start] = 0
	s.open.Enqueue(start, manhattan(start, goal))

	for !s.open.IsEmpty() {
		cur, _ := s.open.Dequeue()
		if _, done := s.closed[cur]; done {
			continue
		}
		if cur == goal {
			return reconstruct(s.from, start, goal)
		}
		s.closed[cur] = struct{}{}

		for _, off := range neighbourOffsets {
			next := Cell{X: cur.X + off.X, Y: cur.Y + off.Y}
			if !p.grid.Walkable(next) {
				continue
			}
			if _, done := s.closed[next]; done {
				continue
			}
			step := OrthogonalCost
			if off.X != 0 && off.Y != 0 {
				step = DiagonalCost
			}
			g := s.cost[cur] + step + p.grid.Weight(next)
			if old, seen := s.cost[next]; seen && g >= old {
				continue
			}
			s.cost[next] = g
			s.from[next] = cur
			s.open.Enqueue(next, g+manhattan(next, goal))
		}
	}
	return nil
}

// FindWorldPath routes between two world positions and returns the centres
// of the cells along the way.
func (p *Pathfinder) FindWorldPath(from, to physics.Vec3) []physics.Vec3 {
	cells := p.FindPath(p.grid.WorldToGrid(from), p.grid.WorldToGrid(to))
	if len(cells) == 0 {
		return nil
	}
	out := make([]physics.Vec3, len(cells))
	for i, c := range cells {
		out[i] = p.grid.GridToWorld(c)
	}
	return out
}

func reconstruct(from map[Cell]Cell, start, goal Cell) []Cell {
	path := []Cell{goal}
	for cur := goal; cur != start; {
		cur = from[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}

func manhattan(a, b Cell) float64 {
	return float64(abs(a.X-b.X) + abs(a.Y-b.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package config

import (
	"github.com/zeusync/skirmish/internal/core/navigation"
	"github.com/zeusync/skirmish/internal/core/resources"
	"github.com/zeusync/skirmish/internal/core/systems/physics"
)

// Point is a ground-plane location.
type Point struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

func (p Point) Vec() physics.Vec3 { return physics.V(p.X, 0, p.Z) }

type Scenario struct {
	Ledger      resources.Ledger `yaml:"ledger"`
	Grid        Grid             `yaml:"grid"`
	Buildings   []Building       `yaml:"buildings"`
	Units       []Unit           `yaml:"units"`
	Nodes       []Node           `yaml:"nodes"`
	SpawnPoints []SpawnPoint     `yaml:"spawnPoints"`
	Waves       []Wave           `yaml:"waves"`
	Orders      []Order          `yaml:"orders"`
}

type WeightedCell struct {
	Cell   navigation.Cell `yaml:"cell"`
	Weight float64         `yaml:"weight"`
}

type Grid struct {
	Width    int               `yaml:"width"`
	Height   int               `yaml:"height"`
	CellSize float64           `yaml:"cellSize"`
	Origin   Point             `yaml:"origin"`
	Blocked  []navigation.Cell `yaml:"blocked"`
	Weights  []WeightedCell    `yaml:"weights"`
}

func DefaultGrid() Grid {
	return Grid{Width: 64, Height: 64, CellSize: 1}
}

// Build creates the navigation grid described by g.
func (g Grid) Build() *navigation.Grid {
	grid := navigation.NewGrid(g.Width, g.Height, g.CellSize, g.Origin.Vec())
	for _, c := range g.Blocked {
		grid.SetBlocked(c, true)
	}
	for _, w := range g.Weights {
		grid.SetWeight(w.Cell, w.Weight)
	}
	return grid
}

// Building is a player structure. Rally is optional.
type Building struct {
	Kind  string `yaml:"kind"`
	At    Point  `yaml:"at"`
	Rally *Point `yaml:"rally,omitempty"`
}

// Unit is a starting player unit. Gather sends it to the nearest node of
// that resource kind once the map is placed.
type Unit struct {
	Kind   string `yaml:"kind"`
	At     Point  `yaml:"at"`
	Gather string `yaml:"gather,omitempty"`
}

type Node struct {
	Resource string  `yaml:"resource"`
	Amount   float64 `yaml:"amount"`
	At       Point   `yaml:"at"`
}

type SpawnPoint struct {
	Name string `yaml:"name"`
	At   Point  `yaml:"at"`
}

type Wave struct {
	SpawnPoints []string `yaml:"spawnPoints"`
	Enemies     []string `yaml:"enemies"`
	Total       int      `yaml:"total"`
	Interval    float64  `yaml:"interval"`
}

// Order queues a unit at the building with index Building.
type Order struct {
	Building int    `yaml:"building"`
	Kind     string `yaml:"kind"`
}

// DefaultScenario is a small skirmish: one base, a few workers on minerals
// and gas, and two waves from the far corner.
func DefaultScenario() Scenario {
	return Scenario{
		Ledger: resources.Ledger{Minerals: 200, Gas: 50},
		Grid: Grid{
			Width: 64, Height: 64, CellSize: 1,
			Blocked: []navigation.Cell{{X: 30, Y: 20}, {X: 30, Y: 21}, {X: 30, Y: 22}, {X: 30, Y: 23}},
		},
		Buildings: []Building{
			{Kind: "command_center", At: Point{X: 10, Z: 10}, Rally: &Point{X: 14, Z: 14}},
			{Kind: "barracks", At: Point{X: 16, Z: 8}},
		},
		Units: []Unit{
			{Kind: "worker", At: Point{X: 12, Z: 10}, Gather: "minerals"},
			{Kind: "worker", At: Point{X: 12, Z: 11}, Gather: "minerals"},
			{Kind: "worker", At: Point{X: 12, Z: 12}, Gather: "gas"},
			{Kind: "soldier", At: Point{X: 18, Z: 18}},
			{Kind: "archer", At: Point{X: 19, Z: 17}},
		},
		Nodes: []Node{
			{Resource: "minerals", Amount: 500, At: Point{X: 4, Z: 12}},
			{Resource: "minerals", Amount: 500, At: Point{X: 5, Z: 6}},
			{Resource: "gas", Amount: 300, At: Point{X: 14, Z: 3}},
		},
		SpawnPoints: []SpawnPoint{
			{Name: "northeast", At: Point{X: 55, Z: 55}},
			{Name: "east", At: Point{X: 58, Z: 30}},
		},
		Waves: []Wave{
			{SpawnPoints: []string{"northeast"}, Enemies: []string{"grunt", "runner"}, Total: 6, Interval: 4},
			{SpawnPoints: []string{"northeast", "east"}, Enemies: []string{"grunt", "brute", "spitter"}, Total: 10, Interval: 6},
		},
		Orders: []Order{
			{Building: 0, Kind: "worker"},
			{Building: 1, Kind: "soldier"},
		},
	}
}

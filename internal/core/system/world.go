// Package system assembles the simulation: the store, the resource ledger,
// the event bus and every tick system, driven by a priority scheduler.
package system

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/skirmish/internal/core/ai"
	"github.com/zeusync/skirmish/internal/core/events/bus"
	"github.com/zeusync/skirmish/internal/core/models/catalog"
	"github.com/zeusync/skirmish/internal/core/navigation"
	"github.com/zeusync/skirmish/internal/core/observability/log"
	"github.com/zeusync/skirmish/internal/core/resources"
	"github.com/zeusync/skirmish/internal/core/store"
	"github.com/zeusync/skirmish/internal/core/systems"
	"github.com/zeusync/skirmish/internal/core/systems/combat"
	"github.com/zeusync/skirmish/internal/core/systems/gathering"
	"github.com/zeusync/skirmish/internal/core/systems/movement"
	"github.com/zeusync/skirmish/internal/core/systems/physics"
	"github.com/zeusync/skirmish/internal/core/systems/production"
	"github.com/zeusync/skirmish/internal/core/systems/spawn"
)

// Options configures a Simulation. Zero values select defaults: the stock
// catalog, an empty ledger, a 64x64 grid, a fresh bus and a seeded roller.
type Options struct {
	Catalog *catalog.Catalog
	Ledger  resources.Ledger
	Grid    *navigation.Grid
	Bus     bus.EventBus
	Roller  systems.Roller
	Seed    int64
	Logger  log.Log
}

// WorldSnapshot is the whole simulation state in JSON-encodable form.
type WorldSnapshot struct {
	Tick       uint64              `json:"tick"`
	Time       float64             `json:"time"`
	Ledger     resources.Ledger    `json:"ledger"`
	Store      store.Snapshot      `json:"store"`
	Movement   movement.Snapshot   `json:"movement"`
	Combat     combat.Snapshot     `json:"combat"`
	Gathering  gathering.Snapshot  `json:"gathering"`
	Production production.Snapshot `json:"production"`
	Spawn      spawn.Snapshot      `json:"spawn"`
	Roster     []byte              `json:"roster,omitempty"`
}

// Simulation owns the world state and the systems that advance it.
type Simulation struct {
	Store      *store.Store
	Ledger     *resources.Ledger
	Catalog    *catalog.Catalog
	Bus        bus.EventBus
	Grid       *navigation.Grid
	Pathfinder *navigation.Pathfinder
	Roster     *ai.Roster

	Movement   *movement.Linear
	Combat     *combat.System
	Gathering  *gathering.System
	Production *production.System
	Spawn      *spawn.System

	manager *Manager
	logger  log.Log
	tick    uint64
	time    float64
}

func New(opts Options) (*Simulation, error) {
	logger := log.OrNop(opts.Logger)
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	grid := opts.Grid
	if grid == nil {
		grid = navigation.NewGrid(64, 64, 1, physics.Vec3{})
	}
	eb := opts.Bus
	if eb == nil {
		eb = bus.New()
	}
	roller := opts.Roller
	if roller == nil {
		roller = rand.New(rand.NewSource(opts.Seed))
	}

	ledger := opts.Ledger
	s := &Simulation{
		Store:      store.New(),
		Ledger:     &ledger,
		Catalog:    cat,
		Bus:        eb,
		Grid:       grid,
		Pathfinder: navigation.NewPathfinder(grid),
		manager:    NewManager(),
		logger:     logger,
	}

	roster, err := ai.NewRoster(eb, logger)
	if err != nil {
		return nil, err
	}
	s.Roster = roster

	s.Movement = movement.NewLinear(s.Store, cat, s.Pathfinder, logger)
	s.Combat = combat.New(s.Store, cat, roller, eb, logger)
	s.Gathering = gathering.New(s.Store, cat, s.Ledger, s.Movement, eb, logger)
	s.Production = production.New(s.Store, cat, s.Ledger, s.Movement, roller, eb, logger)
	s.Spawn = spawn.New(s.Store, cat, s.Roster, roller, eb, logger)

	for _, sys := range []systems.System{s.Movement, s.Combat, s.Production, s.Gathering, s.Spawn} {
		if err := s.manager.RegisterSystem(sys); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Tick advances the world by deltaTime seconds.
func (s *Simulation) Tick(deltaTime float64) {
	s.manager.Update(deltaTime)
	s.Roster.Prune(s.Store.Exists)
	s.tick++
	s.time += deltaTime
}

func (s *Simulation) TickCount() uint64 { return s.tick }

// Time is the simulated time in seconds.
func (s *Simulation) Time() float64 { return s.time }

func (s *Simulation) Manager() *Manager { return s.manager }

// Snapshot captures the whole world.
func (s *Simulation) Snapshot() (WorldSnapshot, error) {
	roster, err := s.Roster.Save()
	if err != nil {
		return WorldSnapshot{}, err
	}
	return WorldSnapshot{
		Tick:       s.tick,
		Time:       s.time,
		Ledger:     *s.Ledger,
		Store:      s.Store.Serialize(),
		Movement:   s.Movement.Serialize(),
		Combat:     s.Combat.Serialize(),
		Gathering:  s.Gathering.Serialize(),
		Production: s.Production.Serialize(),
		Spawn:      s.Spawn.Serialize(),
		Roster:     roster,
	}, nil
}

// Restore replaces the world with snap.
func (s *Simulation) Restore(snap WorldSnapshot) error {
	if err := s.Store.Deserialize(snap.Store); err != nil {
		return fmt.Errorf("restore store: %w", err)
	}
	if err := s.Movement.Deserialize(snap.Movement); err != nil {
		return fmt.Errorf("restore movement: %w", err)
	}
	if err := s.Combat.Deserialize(snap.Combat); err != nil {
		return fmt.Errorf("restore combat: %w", err)
	}
	if err := s.Gathering.Deserialize(snap.Gathering); err != nil {
		return fmt.Errorf("restore gathering: %w", err)
	}
	if err := s.Production.Deserialize(snap.Production); err != nil {
		return fmt.Errorf("restore production: %w", err)
	}
	if err := s.Spawn.Deserialize(snap.Spawn); err != nil {
		return fmt.Errorf("restore spawn: %w", err)
	}
	if len(snap.Roster) > 0 {
		if err := s.Roster.Load(snap.Roster); err != nil {
			return fmt.Errorf("restore roster: %w", err)
		}
	}
	*s.Ledger = snap.Ledger
	s.tick, s.time = snap.Tick, snap.Time
	return nil
}

// MarshalSnapshot encodes the world as JSON.
func (s *Simulation) MarshalSnapshot() ([]byte, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// RestoreJSON replaces the world with a snapshot written by MarshalSnapshot.
func (s *Simulation) RestoreJSON(data []byte) error {
	var snap WorldSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return s.Restore(snap)
}

// Checksum hashes the canonical world state. Two simulations fed the same
// inputs and rolls produce equal checksums. AI blackboards are excluded.
func (s *Simulation) Checksum() (uint64, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return 0, err
	}
	snap.Roster = nil
	data, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}
	return xxhash.Sum64(data), nil
}

// Close releases bus subscriptions held by the simulation.
func (s *Simulation) Close() error {
	return s.Roster.Close()
}

// Package spawn keeps the registries of enemy spawn points and waves and
// releases wave enemies on a timer.
package spawn

import (
	"maps"
	"slices"

	"github.com/zeusync/skirmish/internal/core/events"
	"github.com/zeusync/skirmish/internal/core/events/bus"
	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/models/catalog"
	"github.com/zeusync/skirmish/internal/core/observability/log"
	"github.com/zeusync/skirmish/internal/core/store"
	"github.com/zeusync/skirmish/internal/core/systems"
	"github.com/zeusync/skirmish/internal/core/systems/physics"
	"github.com/zeusync/skirmish/pkg/encoding"
)

const Name = "spawn"

var (
	_ systems.System                 = (*System)(nil)
	_ encoding.Snapshotter[Snapshot] = (*System)(nil)
)

type SpawnPoint struct {
	ID       uint64       `json:"id"`
	Position physics.Vec3 `json:"position"`
	Active   bool         `json:"active"`
	// LastSpawn is the simulation time of the latest spawn here.
	LastSpawn float64 `json:"lastSpawn"`
}

// WaveSpec describes a wave to create. Its lists are copied and never
// change afterwards.
type WaveSpec struct {
	SpawnPoints   []uint64
	EnemyTypes    []models.UnitKind
	TotalEnemies  int
	SpawnInterval float64
}

type Wave struct {
	ID            uint64            `json:"id"`
	SpawnPoints   []uint64          `json:"spawnPoints"`
	EnemyTypes    []models.UnitKind `json:"enemyTypes"`
	TotalEnemies  int               `json:"totalEnemies"`
	SpawnInterval float64           `json:"spawnInterval"`
	Spawned       int               `json:"spawned"`
	LastSpawnTime float64           `json:"lastSpawnTime"`
	Active        bool              `json:"active"`
	Completed     bool              `json:"completed"`
}

type Snapshot struct {
	Points    []SpawnPoint `json:"points"`
	Waves     []Wave       `json:"waves"`
	NextPoint uint64       `json:"nextPoint"`
	NextWave  uint64       `json:"nextWave"`
	Clock     float64      `json:"clock"`
}

type System struct {
	store     *store.Store
	catalog   *catalog.Catalog
	registrar systems.Registrar
	roller    systems.Roller
	events    bus.EventBus
	logger    log.Log

	points    map[uint64]*SpawnPoint
	waves     map[uint64]*Wave
	nextPoint uint64
	nextWave  uint64
	clock     float64
}

func New(
	s *store.Store,
	cat *catalog.Catalog,
	registrar systems.Registrar,
	roller systems.Roller,
	eb bus.EventBus,
	logger log.Log,
) *System {
	if registrar == nil {
		registrar = systems.NopRegistrar{}
	}
	if roller == nil {
		roller = &systems.FixedRoller{}
	}
	return &System{
		store:     s,
		catalog:   cat,
		registrar: registrar,
		roller:    roller,
		events:    eb,
		logger:    log.OrNop(logger).With(log.String("system", Name)),
		points:    make(map[uint64]*SpawnPoint),
		waves:     make(map[uint64]*Wave),
	}
}

func (s *System) Name() string { return Name }

func (s *System) Priority() systems.Priority { return systems.PriorityLow }

// CreateSpawnPoint registers an active spawn point at pos.
func (s *System) CreateSpawnPoint(pos physics.Vec3) uint64 {
	s.nextPoint++
	s.points[s.nextPoint] = &SpawnPoint{ID: s.nextPoint, Position: pos, Active: true}
	return s.nextPoint
}

func (s *System) RemoveSpawnPoint(id uint64) bool {
	if _, ok := s.points[id]; !ok {
		s.logger.Debug("remove spawn point rejected", log.Uint64("point", id), log.String("reason", "unknown spawn point"))
		return false
	}
	delete(s.points, id)
	return true
}

func (s *System) SetSpawnPointActive(id uint64, active bool) bool {
	p, ok := s.points[id]
	if ok {
		p.Active = active
	}
	return ok
}

func (s *System) SpawnPoint(id uint64) (SpawnPoint, bool) {
	p, ok := s.points[id]
	if !ok {
		return SpawnPoint{}, false
	}
	return *p, true
}

// CreateWave registers an active wave. Specs with no spawn points, no enemy
// types, unknown enemy types, a non-positive total or a negative interval
// are rejected.
func (s *System) CreateWave(spec WaveSpec) (uint64, bool) {
	reason := ""
	switch {
	case len(spec.SpawnPoints) == 0:
		reason = "no spawn points"
	case len(spec.EnemyTypes) == 0:
		reason = "no enemy types"
	case spec.TotalEnemies <= 0:
		reason = "non-positive enemy total"
	case spec.SpawnInterval < 0:
		reason = "negative spawn interval"
	}
	for _, kind := range spec.EnemyTypes {
		if _, ok := s.catalog.EnemyTemplate(kind); !ok && reason == "" {
			reason = "unknown enemy type " + kind.String()
		}
	}
	if reason != "" {
		s.logger.Debug("create wave rejected", log.String("reason", reason))
		return 0, false
	}

	s.nextWave++
	s.waves[s.nextWave] = &Wave{
		ID:            s.nextWave,
		SpawnPoints:   slices.Clone(spec.SpawnPoints),
		EnemyTypes:    slices.Clone(spec.EnemyTypes),
		TotalEnemies:  spec.TotalEnemies,
		SpawnInterval: spec.SpawnInterval,
		Active:        true,
	}
	return s.nextWave, true
}

func (s *System) SetWaveActive(id uint64, active bool) bool {
	w, ok := s.waves[id]
	if ok {
		w.Active = active
	}
	return ok
}

func (s *System) Wave(id uint64) (Wave, bool) {
	w, ok := s.waves[id]
	if !ok {
		return Wave{}, false
	}
	return *w, true
}

// Pending reports whether any active wave still has enemies to release.
func (s *System) Pending() bool {
	for _, w := range s.waves {
		if w.Active && !w.Completed {
			return true
		}
	}
	return false
}

// Update advances every active wave and releases at most one enemy per wave.
func (s *System) Update(deltaTime float64) {
	s.clock += deltaTime
	for _, id := range slices.Sorted(maps.Keys(s.waves)) {
		w := s.waves[id]
		if !w.Active || w.Completed {
			continue
		}
		w.LastSpawnTime += deltaTime
		if w.LastSpawnTime < w.SpawnInterval {
			continue
		}
		eligible := s.eligible(w)
		if len(eligible) == 0 {
			continue
		}
		point := eligible[pick(s.roller, len(eligible))]
		kind := w.EnemyTypes[pick(s.roller, len(w.EnemyTypes))]
		s.spawn(w, point, kind)
	}
}

func (s *System) spawn(w *Wave, point *SpawnPoint, kind models.UnitKind) {
	tpl, ok := s.catalog.EnemyTemplate(kind)
	if !ok {
		s.logger.Warn("enemy template missing", log.String("kind", kind.String()))
		return
	}
	entity := s.store.Instantiate(tpl, point.Position.Position(), models.SideEnemy)
	s.registrar.RegisterEntity(entity, kind.String())

	w.LastSpawnTime -= w.SpawnInterval
	w.Spawned++
	point.LastSpawn = s.clock

	s.publish(events.EnemySpawned, events.EnemySpawnedPayload{Wave: w.ID, SpawnPoint: point.ID, Entity: entity, Kind: kind})
	if w.Spawned >= w.TotalEnemies {
		w.Completed = true
		s.logger.Info("wave completed", log.Uint64("wave", w.ID), log.Int("spawned", w.Spawned))
		s.publish(events.WaveCompleted, events.WaveCompletedPayload{Wave: w.ID, Spawned: w.Spawned})
	}
}

func (s *System) eligible(w *Wave) []*SpawnPoint {
	out := make([]*SpawnPoint, 0, len(w.SpawnPoints))
	for _, id := range w.SpawnPoints {
		if p, ok := s.points[id]; ok && p.Active {
			out = append(out, p)
		}
	}
	return out
}

// pick maps a uniform roll onto [0, n).
func pick(r systems.Roller, n int) int {
	return min(int(r.Float64()*float64(n)), n-1)
}

func (s *System) publish(typ string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(bus.NewEvent(typ, Name, payload)); err != nil {
		s.logger.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}

func (s *System) Serialize() Snapshot {
	snap := Snapshot{
		Points:    make([]SpawnPoint, 0, len(s.points)),
		Waves:     make([]Wave, 0, len(s.waves)),
		NextPoint: s.nextPoint,
		NextWave:  s.nextWave,
		Clock:     s.clock,
	}
	for _, id := range slices.Sorted(maps.Keys(s.points)) {
		snap.Points = append(snap.Points, *s.points[id])
	}
	for _, id := range slices.Sorted(maps.Keys(s.waves)) {
		w := *s.waves[id]
		w.SpawnPoints = slices.Clone(w.SpawnPoints)
		w.EnemyTypes = slices.Clone(w.EnemyTypes)
		snap.Waves = append(snap.Waves, w)
	}
	return snap
}

func (s *System) Deserialize(snap Snapshot) error {
	s.nextPoint, s.nextWave, s.clock = snap.NextPoint, snap.NextWave, snap.Clock
	s.points = make(map[uint64]*SpawnPoint, len(snap.Points))
	for _, p := range snap.Points {
		s.points[p.ID] = &p
		s.nextPoint = max(s.nextPoint, p.ID)
	}
	s.waves = make(map[uint64]*Wave, len(snap.Waves))
	for _, w := range snap.Waves {
		s.waves[w.ID] = &w
		s.nextWave = max(s.nextWave, w.ID)
	}
	return nil
}

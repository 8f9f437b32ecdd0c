package system

import (
	"fmt"

	"github.com/zeusync/skirmish/internal/core/config"
	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/models/catalog"
	"github.com/zeusync/skirmish/internal/core/observability/log"
	"github.com/zeusync/skirmish/internal/core/systems/spawn"
)

// BuildingHealth is the durability of scenario buildings.
const BuildingHealth = 1500.0

// Populate places a validated scenario into the world: buildings, units,
// resource nodes, spawn points and waves, then starting gather and build
// orders.
func (s *Simulation) Populate(sc config.Scenario) error {
	buildings := make([]models.EntityID, 0, len(sc.Buildings))
	for _, b := range sc.Buildings {
		kind, err := models.ParseUnitKind(b.Kind)
		if err != nil {
			return fmt.Errorf("building: %w", err)
		}
		id := s.Store.Instantiate(catalog.Template{
			Kind:   kind,
			Health: BuildingHealth,
			Render: models.Render{Model: kind.String(), Color: "#2c3e50", Scale: 3, Visible: true},
		}, b.At.Vec().Position(), models.SidePlayer)
		if b.Rally != nil {
			s.Production.SetRallyPoint(id, b.Rally.Vec())
		}
		buildings = append(buildings, id)
	}

	for _, n := range sc.Nodes {
		kind, err := models.ParseResourceKind(n.Resource)
		if err != nil {
			return fmt.Errorf("node: %w", err)
		}
		id := s.Store.CreateEntity()
		s.Store.Positions.Set(id, n.At.Vec().Position())
		s.Store.Resources.Set(id, models.Resource{Kind: kind, Amount: n.Amount})
		s.Store.Renders.Add(id, func(r *models.Render) { r.Model = kind.String() })
		s.Gathering.RegisterNode(id)
	}

	for _, u := range sc.Units {
		kind, err := models.ParseUnitKind(u.Kind)
		if err != nil {
			return fmt.Errorf("unit: %w", err)
		}
		tpl, ok := s.Catalog.ProductionTemplate(kind)
		if !ok {
			return fmt.Errorf("unit: %s is not a player unit", kind)
		}
		id := s.Store.Instantiate(tpl, u.At.Vec().Position(), models.SidePlayer)
		if u.Gather == "" {
			continue
		}
		res, err := models.ParseResourceKind(u.Gather)
		if err != nil {
			return fmt.Errorf("unit: %w", err)
		}
		if node, ok := s.Gathering.FindNearestResourceNode(id, res); ok {
			s.Gathering.IssueGatherCommand(id, node)
		}
	}

	points := make(map[string]uint64, len(sc.SpawnPoints))
	for _, p := range sc.SpawnPoints {
		points[p.Name] = s.Spawn.CreateSpawnPoint(p.At.Vec())
	}
	for i, w := range sc.Waves {
		spec := spawn.WaveSpec{TotalEnemies: w.Total, SpawnInterval: w.Interval}
		for _, name := range w.SpawnPoints {
			id, ok := points[name]
			if !ok {
				return fmt.Errorf("wave %d: unknown spawn point %q", i, name)
			}
			spec.SpawnPoints = append(spec.SpawnPoints, id)
		}
		for _, tag := range w.Enemies {
			kind, err := models.ParseUnitKind(tag)
			if err != nil {
				return fmt.Errorf("wave %d: %w", i, err)
			}
			spec.EnemyTypes = append(spec.EnemyTypes, kind)
		}
		if _, ok := s.Spawn.CreateWave(spec); !ok {
			return fmt.Errorf("wave %d rejected", i)
		}
	}

	for i, o := range sc.Orders {
		if o.Building < 0 || o.Building >= len(buildings) {
			return fmt.Errorf("order %d: building index %d out of range", i, o.Building)
		}
		kind, err := models.ParseUnitKind(o.Kind)
		if err != nil {
			return fmt.Errorf("order %d: %w", i, err)
		}
		if !s.Production.StartProduction(buildings[o.Building], kind, nil) {
			s.logger.Warn("starting order skipped", log.Int("order", i), log.String("kind", o.Kind))
		}
	}

	s.logger.Info("scenario placed",
		log.Int("buildings", len(buildings)),
		log.Int("units", len(sc.Units)),
		log.Int("nodes", len(sc.Nodes)),
		log.Int("waves", len(sc.Waves)),
	)
	return nil
}

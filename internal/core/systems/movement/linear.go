// Package movement provides the mover used by the headless runner: units
// follow grid routes at their catalog speed, one leg per waypoint.
package movement

import (
	"maps"
	"slices"

	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/models/catalog"
	"github.com/zeusync/skirmish/internal/core/navigation"
	"github.com/zeusync/skirmish/internal/core/observability/log"
	"github.com/zeusync/skirmish/internal/core/store"
	"github.com/zeusync/skirmish/internal/core/systems"
	"github.com/zeusync/skirmish/internal/core/systems/physics"
	"github.com/zeusync/skirmish/pkg/encoding"
)

const Name = "movement"

var (
	_ systems.System                 = (*Linear)(nil)
	_ systems.Mover                  = (*Linear)(nil)
	_ encoding.Snapshotter[Snapshot] = (*Linear)(nil)
)

// Route is the remaining waypoints of one entity.
type Route struct {
	Waypoints []physics.Vec3 `json:"waypoints"`
}

type Snapshot struct {
	Routes map[models.EntityID]Route `json:"routes"`
}

// Linear moves entities along pathfinder routes. Without a pathfinder, or
// when no route exists, entities head straight for the target.
type Linear struct {
	store      *store.Store
	catalog    *catalog.Catalog
	pathfinder *navigation.Pathfinder
	logger     log.Log

	routes map[models.EntityID]*Route
}

func NewLinear(s *store.Store, cat *catalog.Catalog, pf *navigation.Pathfinder, logger log.Log) *Linear {
	return &Linear{
		store:      s,
		catalog:    cat,
		pathfinder: pf,
		logger:     log.OrNop(logger).With(log.String("system", Name)),
		routes:     make(map[models.EntityID]*Route),
	}
}

func (m *Linear) Name() string { return Name }

func (m *Linear) Priority() systems.Priority { return systems.PriorityHighest }

// MoveEntity replaces the route of id with one ending at to.
func (m *Linear) MoveEntity(id models.EntityID, to physics.Vec3) {
	pos, ok := m.store.Positions.Lookup(id)
	if !ok {
		return
	}
	from := physics.FromPosition(*pos)

	var waypoints []physics.Vec3
	if m.pathfinder != nil {
		switch cells := m.pathfinder.FindWorldPath(from, to); {
		case len(cells) > 2:
			waypoints = cells[1 : len(cells)-1]
		case len(cells) == 0:
			m.logger.Debug("no route, moving direct",
				log.Entity("entity", uint64(id)),
				log.Float64("x", to.X),
				log.Float64("z", to.Z),
			)
		}
	}
	waypoints = append(slices.Clone(waypoints), to)
	m.routes[id] = &Route{Waypoints: waypoints}
}

func (m *Linear) StopEntity(id models.EntityID) { delete(m.routes, id) }

// Arrived reports whether id has no route left.
func (m *Linear) Arrived(id models.EntityID) bool {
	_, moving := m.routes[id]
	return !moving
}

// Route returns the remaining waypoints of id.
func (m *Linear) Route(id models.EntityID) []physics.Vec3 {
	r, ok := m.routes[id]
	if !ok {
		return nil
	}
	return slices.Clone(r.Waypoints)
}

// Update advances every routed entity by speed*deltaTime along its route.
func (m *Linear) Update(deltaTime float64) {
	for _, id := range slices.Sorted(maps.Keys(m.routes)) {
		pos, ok := m.store.Positions.Lookup(id)
		if !ok {
			delete(m.routes, id)
			continue
		}
		r := m.routes[id]
		cur := physics.FromPosition(*pos)
		budget := m.catalog.MoveSpeed(m.store.Kind(id)) * deltaTime

		for budget > 0 && len(r.Waypoints) > 0 {
			next, reached := physics.MoveTowardsXZ(cur, r.Waypoints[0], budget)
			budget -= physics.DistanceXZ(cur, next)
			cur = next
			if !reached {
				break
			}
			r.Waypoints = r.Waypoints[1:]
		}
		*pos = cur.Position()
		if len(r.Waypoints) == 0 {
			delete(m.routes, id)
		}
	}
}

func (m *Linear) Serialize() Snapshot {
	snap := Snapshot{Routes: make(map[models.EntityID]Route, len(m.routes))}
	for id, r := range m.routes {
		snap.Routes[id] = Route{Waypoints: slices.Clone(r.Waypoints)}
	}
	return snap
}

func (m *Linear) Deserialize(snap Snapshot) error {
	m.routes = make(map[models.EntityID]*Route, len(snap.Routes))
	for id, r := range snap.Routes {
		m.routes[id] = &Route{Waypoints: slices.Clone(r.Waypoints)}
	}
	return nil
}

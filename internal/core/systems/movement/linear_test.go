package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/models/catalog"
	"github.com/zeusync/skirmish/internal/core/navigation"
	"github.com/zeusync/skirmish/internal/core/store"
	"github.com/zeusync/skirmish/internal/core/systems/physics"
)

func worker(s *store.Store, x, z float64) models.EntityID {
	id := s.CreateEntity()
	s.Positions.Add(id, func(p *models.Position) { p.X, p.Z = x, z })
	s.UnitTypes.Add(id, func(u *models.UnitType) { u.Kind = models.UnitWorker })
	return id
}

func position(s *store.Store, id models.EntityID) physics.Vec3 {
	p, _ := s.Positions.Lookup(id)
	return physics.FromPosition(*p)
}

func TestDirectMoveAtCatalogSpeed(t *testing.T) {
	s := store.New()
	m := NewLinear(s, catalog.Default(), nil, nil)
	id := worker(s, 0, 0)

	m.MoveEntity(id, physics.V(7, 0, 0))
	assert.False(t, m.Arrived(id))

	m.Update(1)
	assert.InDelta(t, 3.5, position(s, id).X, 1e-9)

	m.Update(1)
	assert.Equal(t, physics.V(7, 0, 0), position(s, id))
	assert.True(t, m.Arrived(id))
}

func TestRoutedMoveGoesAroundWall(t *testing.T) {
	s := store.New()
	grid := navigation.NewGrid(10, 10, 1, physics.Vec3{})
	for y := 0; y < 9; y++ {
		grid.SetBlocked(navigation.Cell{X: 5, Y: y}, true)
	}
	m := NewLinear(s, catalog.Default(), navigation.NewPathfinder(grid), nil)
	id := worker(s, 0.5, 0.5)
	target := physics.V(9.5, 0, 0.5)

	m.MoveEntity(id, target)
	route := m.Route(id)
	require.NotEmpty(t, route)
	assert.Contains(t, route, grid.GridToWorld(navigation.Cell{X: 5, Y: 9}))
	assert.Equal(t, target, route[len(route)-1])

	maxZ := 0.0
	for i := 0; i < 100 && !m.Arrived(id); i++ {
		m.Update(0.25)
		maxZ = max(maxZ, position(s, id).Z)
	}
	assert.True(t, m.Arrived(id))
	assert.Equal(t, target, position(s, id))
	assert.GreaterOrEqual(t, maxZ, 9.0)
}

func TestUnreachableTargetMovesDirect(t *testing.T) {
	s := store.New()
	m := NewLinear(s, catalog.Default(), navigation.NewPathfinder(navigation.NewGrid(4, 4, 1, physics.Vec3{})), nil)
	id := worker(s, 0.5, 0.5)

	m.MoveEntity(id, physics.V(20, 0, 0.5))
	assert.Equal(t, []physics.Vec3{physics.V(20, 0, 0.5)}, m.Route(id))
}

func TestStopAndRemovedEntities(t *testing.T) {
	s := store.New()
	m := NewLinear(s, catalog.Default(), nil, nil)
	a := worker(s, 0, 0)
	b := worker(s, 0, 0)

	m.MoveEntity(a, physics.V(10, 0, 0))
	m.MoveEntity(b, physics.V(10, 0, 0))
	m.StopEntity(a)
	s.DestroyEntity(b)
	m.Update(1)

	assert.True(t, m.Arrived(a))
	assert.True(t, m.Arrived(b))
	assert.Equal(t, physics.V(0, 0, 0), position(s, a))

	m.MoveEntity(999, physics.V(1, 0, 1))
	assert.True(t, m.Arrived(999))
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := store.New()
	m := NewLinear(s, catalog.Default(), nil, nil)
	id := worker(s, 0, 0)
	m.MoveEntity(id, physics.V(10, 0, 0))

	restored := NewLinear(s, catalog.Default(), nil, nil)
	require.NoError(t, restored.Deserialize(m.Serialize()))
	assert.Equal(t, m.Route(id), restored.Route(id))
}

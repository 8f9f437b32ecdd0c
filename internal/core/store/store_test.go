package store

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/models/catalog"
)

func TestCreateEntityNeverReuses(t *testing.T) {
	s := New()
	seen := make(map[models.EntityID]bool)
	for i := 0; i < 100; i++ {
		id := s.CreateEntity()
		assert.NotZero(t, id)
		assert.False(t, seen[id])
		seen[id] = true
		s.Healths.Add(id)
		s.DestroyEntity(id)
	}
}

func TestAddMergesOverDefaults(t *testing.T) {
	s := New()
	id := s.CreateEntity()

	h := s.Healths.Add(id, func(h *models.Health) { h.Current = 30 })
	assert.Equal(t, 30.0, h.Current)
	assert.Equal(t, 100.0, h.Max)

	r := s.Renders.Add(id)
	assert.Equal(t, models.DefaultRender(), *r)
}

func TestRemoveComponent(t *testing.T) {
	s := New()
	a, b := s.CreateEntity(), s.CreateEntity()
	s.Positions.Add(a)
	s.Positions.Add(b)

	assert.True(t, s.RemoveComponent(a, models.KindPosition))
	assert.False(t, s.RemoveComponent(a, models.KindPosition))
	assert.False(t, s.HasComponent(a, models.KindPosition))

	for _, e := range s.Positions.All() {
		assert.NotEqual(t, a, e.Entity)
	}
	assert.Len(t, s.Positions.All(), 1)
}

func TestGetMissingIsNotFound(t *testing.T) {
	s := New()
	id := s.CreateEntity()

	_, err := s.Healths.Get(id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = s.GetComponent(id, models.KindResource)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = s.GetComponent(id, models.ComponentKind(42))
	assert.True(t, errors.Is(err, models.ErrUnknownKind))

	s.Resources.Add(id, func(r *models.Resource) { r.Amount = 12 })
	v, err := s.GetComponent(id, models.KindResource)
	require.NoError(t, err)
	assert.Equal(t, 12.0, v.(*models.Resource).Amount)
}

func TestAllPreservesInsertionOrder(t *testing.T) {
	s := New()
	ids := []models.EntityID{s.CreateEntity(), s.CreateEntity(), s.CreateEntity()}
	for i := len(ids) - 1; i >= 0; i-- {
		s.Factions.Add(ids[i])
	}
	all := s.Factions.All()
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].Entity)
	assert.Equal(t, ids[0], all[2].Entity)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := New()
	unit := s.Instantiate(catalog.Default().Production[models.UnitArcher], models.Position{X: 4, Z: 2}, models.SidePlayer)
	node := s.CreateEntity()
	s.Resources.Add(node, func(r *models.Resource) { r.Kind, r.Amount = models.ResourceGas, 200 })

	raw, err := json.Marshal(s.Serialize())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))

	restored := New()
	require.NoError(t, restored.Deserialize(snap))

	assert.Equal(t, s.Serialize(), restored.Serialize())
	assert.Equal(t, models.UnitArcher, restored.Kind(unit))
	side, ok := restored.Side(unit)
	assert.True(t, ok)
	assert.Equal(t, models.SidePlayer, side)

	next := restored.CreateEntity()
	assert.Greater(t, next, node)
}

func TestDeserializeBumpsCursor(t *testing.T) {
	s := New()
	require.NoError(t, s.Deserialize(Snapshot{
		Healths: []Entry[models.Health]{{Entity: 41, Data: models.DefaultHealth()}},
	}))
	assert.Equal(t, models.EntityID(42), s.CreateEntity())
}

func TestInstantiateUsesBlueprint(t *testing.T) {
	s := New()
	tpl := catalog.Default().Enemies[models.UnitBrute]
	id := s.Instantiate(tpl, models.Position{X: 1}, models.SideEnemy)

	assert.True(t, s.HasAll(id, models.KindPosition, models.KindHealth, models.KindFaction, models.KindRender, models.KindUnitType))
	h, _ := s.Healths.Lookup(id)
	assert.Equal(t, 250.0, h.Max)
	r, _ := s.Renders.Lookup(id)
	assert.Equal(t, "brute", r.Model)
	assert.True(t, s.Exists(id))

	s.DestroyEntity(id)
	assert.False(t, s.Exists(id))
}

package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/skirmish/internal/core/events"
	"github.com/zeusync/skirmish/internal/core/events/bus"
	"github.com/zeusync/skirmish/internal/core/models"
)

func TestRosterRegisterAndForget(t *testing.T) {
	r, err := NewRoster(nil, nil)
	require.NoError(t, err)

	r.RegisterEntity(3, "grunt")
	r.RegisterEntity(1, "brute")
	r.RegisterEntity(2, "grunt")

	assert.Equal(t, []models.EntityID{1, 2, 3}, r.Members())
	assert.Equal(t, 2, r.Count("grunt"))
	tag, ok := r.Tag(1)
	assert.True(t, ok)
	assert.Equal(t, "brute", tag)

	r.Blackboard(2).Set("target", "base")
	assert.True(t, r.Forget(2))
	assert.False(t, r.Forget(2))
	assert.Empty(t, r.Blackboard(2).Keys())
	assert.Equal(t, 2, r.Len())
}

func TestRosterForgetsDestroyedUnits(t *testing.T) {
	eb := bus.New()
	r, err := NewRoster(eb, nil)
	require.NoError(t, err)

	r.RegisterEntity(7, "runner")
	require.NoError(t, eb.Publish(bus.NewEvent(events.UnitDestroyed, "test", events.UnitDestroyedPayload{Entity: 7})))
	assert.Equal(t, 0, r.Len())

	require.NoError(t, r.Close())
	r.RegisterEntity(8, "runner")
	require.NoError(t, eb.Publish(bus.NewEvent(events.UnitDestroyed, "test", events.UnitDestroyedPayload{Entity: 8})))
	assert.Equal(t, 1, r.Len())
}

func TestRosterPrune(t *testing.T) {
	r, _ := NewRoster(nil, nil)
	r.RegisterEntity(1, "grunt")
	r.RegisterEntity(2, "grunt")

	n := r.Prune(func(id models.EntityID) bool { return id == 2 })
	assert.Equal(t, 1, n)
	assert.Equal(t, []models.EntityID{2}, r.Members())
}

func TestRosterSaveLoad(t *testing.T) {
	r, _ := NewRoster(nil, nil)
	r.RegisterEntity(4, "spitter")
	r.Blackboard(4).Set("aggro", 2.5)

	data, err := r.Save()
	require.NoError(t, err)

	restored, _ := NewRoster(nil, nil)
	restored.RegisterEntity(99, "stale")
	require.NoError(t, restored.Load(data))

	assert.Equal(t, []models.EntityID{4}, restored.Members())
	v, ok := restored.Blackboard(4).Get("aggro")
	require.True(t, ok)
	assert.Equal(t, 2.5, v)
	_, ok = restored.Blackboard(99).Get(tagKey)
	assert.False(t, ok)

	assert.Error(t, restored.Load(nil))
}

func TestBlackboardNamespaces(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("global", 1)
	unit := bb.Namespace("5")
	unit.Set("state", "idle")
	nested := unit.Namespace("memory")
	nested.Set("seen", true)

	assert.Equal(t, []string{"5:memory:seen", "5:state", "global"}, bb.Keys())
	assert.Equal(t, []string{"memory:seen", "state"}, unit.Keys())

	unit.Clear()
	assert.Equal(t, []string{"global"}, bb.Keys())
}

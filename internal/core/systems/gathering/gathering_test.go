package gathering

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/skirmish/internal/core/events"
	"github.com/zeusync/skirmish/internal/core/events/bus"
	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/models/catalog"
	"github.com/zeusync/skirmish/internal/core/resources"
	"github.com/zeusync/skirmish/internal/core/store"
	"github.com/zeusync/skirmish/internal/core/systems/physics"
)

type move struct {
	unit models.EntityID
	to   physics.Vec3
}

type recordingMover struct {
	moves []move
	stops []models.EntityID
}

func (m *recordingMover) MoveEntity(id models.EntityID, to physics.Vec3) {
	m.moves = append(m.moves, move{unit: id, to: to})
}

func (m *recordingMover) StopEntity(id models.EntityID) { m.stops = append(m.stops, id) }

func (m *recordingMover) last() move { return m.moves[len(m.moves)-1] }

type fixture struct {
	store  *store.Store
	ledger *resources.Ledger
	mover  *recordingMover
	bus    bus.EventBus
	gather *System
}

func newFixture() *fixture {
	s := store.New()
	l := resources.NewLedger(0, 0)
	m := &recordingMover{}
	eb := bus.New()
	return &fixture{store: s, ledger: l, mover: m, bus: eb, gather: New(s, catalog.Default(), l, m, eb, nil)}
}

func (f *fixture) entity(kind models.UnitKind, side models.Side, x, z float64) models.EntityID {
	id := f.store.CreateEntity()
	f.store.Positions.Add(id, func(p *models.Position) { p.X, p.Z = x, z })
	f.store.Factions.Add(id, func(fc *models.Faction) { fc.Side = side })
	f.store.UnitTypes.Add(id, func(u *models.UnitType) { u.Kind = kind })
	return id
}

func (f *fixture) node(kind models.ResourceKind, amount, x, z float64) models.EntityID {
	id := f.store.CreateEntity()
	f.store.Positions.Add(id, func(p *models.Position) { p.X, p.Z = x, z })
	f.store.Resources.Add(id, func(r *models.Resource) { r.Kind, r.Amount = kind, amount })
	return id
}

func (f *fixture) place(id models.EntityID, x, z float64) {
	p, _ := f.store.Positions.Lookup(id)
	p.X, p.Z = x, z
}

func (f *fixture) state(t *testing.T, unit models.EntityID) State {
	t.Helper()
	sess, ok := f.gather.Session(unit)
	require.True(t, ok)
	return sess.State
}

func TestIssueGatherCommandValidates(t *testing.T) {
	f := newFixture()
	worker := f.entity(models.UnitWorker, models.SidePlayer, 0, 0)
	empty := f.node(models.ResourceMinerals, 0, 5, 0)
	notNode := f.entity(models.UnitSoldier, models.SidePlayer, 5, 0)

	assert.False(t, f.gather.IssueGatherCommand(worker, empty))
	assert.False(t, f.gather.IssueGatherCommand(worker, notNode))
	assert.False(t, f.gather.IssueGatherCommand(999, empty))
	assert.False(t, f.gather.IsGathering(worker))
}

func TestIssueGatherCommandMovesToNode(t *testing.T) {
	f := newFixture()
	worker := f.entity(models.UnitWorker, models.SidePlayer, 0, 0)
	node := f.node(models.ResourceMinerals, 100, 10, 0)

	require.True(t, f.gather.IssueGatherCommand(worker, node))
	assert.Equal(t, MovingToResource, f.state(t, worker))
	assert.Equal(t, move{unit: worker, to: physics.V(10, 0, 0)}, f.mover.last())

	view, ok := f.gather.Node(node)
	require.True(t, ok)
	assert.Equal(t, 1, view.Gatherers)
}

func TestReissueReleasesPreviousNode(t *testing.T) {
	f := newFixture()
	worker := f.entity(models.UnitWorker, models.SidePlayer, 0, 0)
	first := f.node(models.ResourceMinerals, 100, 10, 0)
	second := f.node(models.ResourceGas, 100, -10, 0)

	require.True(t, f.gather.IssueGatherCommand(worker, first))
	require.True(t, f.gather.IssueGatherCommand(worker, second))

	v1, _ := f.gather.Node(first)
	v2, _ := f.gather.Node(second)
	assert.Equal(t, 0, v1.Gatherers)
	assert.Equal(t, 1, v2.Gatherers)

	sess, _ := f.gather.Session(worker)
	assert.Equal(t, models.ResourceGas, sess.Resource)
}

func TestFullHarvestCycle(t *testing.T) {
	f := newFixture()
	base := f.entity(models.UnitCommandCenter, models.SidePlayer, 0, 0)
	worker := f.entity(models.UnitWorker, models.SidePlayer, 10, 0)
	node := f.node(models.ResourceMinerals, 100, 10, 0)

	var deposits []events.DepositedPayload
	_, err := f.bus.Subscribe(events.Deposited, func(e bus.Event) error {
		deposits = append(deposits, e.Data().(events.DepositedPayload))
		return nil
	})
	require.NoError(t, err)

	require.True(t, f.gather.IssueGatherCommand(worker, node))
	f.gather.Update(0.1)
	assert.Equal(t, Gathering, f.state(t, worker))

	for i := 0; i < 4; i++ {
		f.gather.Update(GatherInterval)
		assert.Equal(t, Gathering, f.state(t, worker))
	}
	f.gather.Update(GatherInterval)
	assert.Equal(t, Returning, f.state(t, worker))

	sess, _ := f.gather.Session(worker)
	assert.Equal(t, CarryCapacity, sess.Carried)
	res, _ := f.store.Resources.Lookup(node)
	assert.Equal(t, 95.0, res.Amount)

	f.gather.Update(0.1)
	assert.Equal(t, move{unit: worker, to: physics.V(0, 0, 0)}, f.mover.last())
	moves := len(f.mover.moves)
	f.gather.Update(0.1)
	assert.Len(t, f.mover.moves, moves, "redirect to the same base is issued once")

	f.place(worker, 1, 0)
	f.gather.Update(0.1)
	assert.Equal(t, 5.0, f.ledger.Amount(models.ResourceMinerals))
	assert.Equal(t, MovingToResource, f.state(t, worker))
	assert.Equal(t, move{unit: worker, to: physics.V(10, 0, 0)}, f.mover.last())

	require.Len(t, deposits, 1)
	assert.Equal(t, base, deposits[0].Building)
	assert.Equal(t, 5.0, deposits[0].Amount)
}

func TestGatherNeverExceedsNodeAmount(t *testing.T) {
	f := newFixture()
	f.entity(models.UnitCommandCenter, models.SidePlayer, 0, 0)
	a := f.entity(models.UnitWorker, models.SidePlayer, 10, 0)
	b := f.entity(models.UnitWorker, models.SidePlayer, 10, 1)
	node := f.node(models.ResourceGas, 0.75, 10, 0)

	depleted := 0
	_, err := f.bus.Subscribe(events.NodeDepleted, func(bus.Event) error { depleted++; return nil })
	require.NoError(t, err)

	require.True(t, f.gather.IssueGatherCommand(a, node))
	require.True(t, f.gather.IssueGatherCommand(b, node))
	f.gather.Update(0.1)
	f.gather.Update(GatherInterval)

	sa, _ := f.gather.Session(a)
	sb, _ := f.gather.Session(b)
	assert.Equal(t, 0.5, sa.Carried)
	assert.Equal(t, 0.25, sb.Carried)
	assert.Equal(t, Returning, sa.State)
	assert.Equal(t, Returning, sb.State)
	assert.Equal(t, 1, depleted)

	res, _ := f.store.Resources.Lookup(node)
	assert.Equal(t, 0.0, res.Amount)

	c := f.entity(models.UnitWorker, models.SidePlayer, 10, 0)
	assert.False(t, f.gather.IssueGatherCommand(c, node))
}

func TestDepositRetargetsOrStops(t *testing.T) {
	f := newFixture()
	f.entity(models.UnitCommandCenter, models.SidePlayer, 0, 0)
	worker := f.entity(models.UnitWorker, models.SidePlayer, 2, 0)
	node := f.node(models.ResourceMinerals, 1, 2, 0)
	spare := f.node(models.ResourceMinerals, 50, 20, 0)
	require.True(t, f.gather.RegisterNode(spare))

	require.True(t, f.gather.IssueGatherCommand(worker, node))
	f.gather.Update(0.1)
	f.gather.Update(GatherInterval)
	assert.Equal(t, Returning, f.state(t, worker))

	f.gather.Update(0.1)
	assert.Equal(t, 1.0, f.ledger.Amount(models.ResourceMinerals))
	sess, _ := f.gather.Session(worker)
	assert.Equal(t, spare, sess.Node)
	assert.Equal(t, MovingToResource, sess.State)

	f.store.RemoveComponent(spare, models.KindResource)
	f.gather.Update(0.1)
	assert.False(t, f.gather.IsGathering(worker))
	assert.Contains(t, f.mover.stops, worker)
}

func TestReturningWaitsWithoutBase(t *testing.T) {
	f := newFixture()
	f.entity(models.UnitBarracks, models.SideEnemy, 0, 0)
	worker := f.entity(models.UnitWorker, models.SidePlayer, 0, 1)
	node := f.node(models.ResourceMinerals, 100, 0, 1)

	require.True(t, f.gather.IssueGatherCommand(worker, node))
	f.gather.Update(0.1)
	for i := 0; i < 5; i++ {
		f.gather.Update(GatherInterval)
	}
	f.gather.Update(0.1)
	assert.Equal(t, Returning, f.state(t, worker))
	assert.Equal(t, 0.0, f.ledger.Amount(models.ResourceMinerals))
}

func TestFindNearestResourceNode(t *testing.T) {
	f := newFixture()
	worker := f.entity(models.UnitWorker, models.SidePlayer, 0, 0)
	east := f.node(models.ResourceMinerals, 10, 5, 0)
	west := f.node(models.ResourceMinerals, 10, -5, 0)
	gas := f.node(models.ResourceGas, 10, 1, 0)
	for _, n := range []models.EntityID{east, west, gas} {
		require.True(t, f.gather.RegisterNode(n))
	}

	got, ok := f.gather.FindNearestResourceNode(worker, models.ResourceMinerals)
	require.True(t, ok)
	assert.Equal(t, east, got, "ties go to the first cached node")

	got, ok = f.gather.FindNearestAnyResourceNode(worker)
	require.True(t, ok)
	assert.Equal(t, gas, got)

	res, _ := f.store.Resources.Lookup(gas)
	res.Amount = 0
	_, ok = f.gather.FindNearestResourceNode(worker, models.ResourceGas)
	assert.True(t, ok, "cache is authoritative until gathered")
}

func TestUnitRemovalEndsSession(t *testing.T) {
	f := newFixture()
	worker := f.entity(models.UnitWorker, models.SidePlayer, 0, 0)
	node := f.node(models.ResourceMinerals, 10, 5, 0)
	require.True(t, f.gather.IssueGatherCommand(worker, node))

	f.store.DestroyEntity(worker)
	f.gather.Update(0.1)
	assert.False(t, f.gather.IsGathering(worker))
	view, _ := f.gather.Node(node)
	assert.Equal(t, 0, view.Gatherers)
}

func TestSnapshotRoundTrip(t *testing.T) {
	f := newFixture()
	worker := f.entity(models.UnitWorker, models.SidePlayer, 5, 0)
	node := f.node(models.ResourceMinerals, 10, 5, 0)
	require.True(t, f.gather.IssueGatherCommand(worker, node))
	f.gather.Update(0.1)
	f.gather.Update(0.4)

	raw, err := json.Marshal(f.gather.Serialize())
	require.NoError(t, err)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))

	restored := New(f.store, catalog.Default(), f.ledger, nil, nil, nil)
	require.NoError(t, restored.Deserialize(snap))

	sess, ok := restored.Session(worker)
	require.True(t, ok)
	assert.Equal(t, Gathering, sess.State)
	assert.InDelta(t, 0.4, sess.Timer, 1e-9)

	restored.Update(0.6)
	sess, _ = restored.Session(worker)
	assert.Equal(t, 1.0, sess.Carried)
}

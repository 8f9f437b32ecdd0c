// Package gathering runs the per-unit harvest loop: move to a node, gather
// in timed phases, carry the load back to a base and deposit it.
package gathering

import (
	"maps"
	"math"
	"slices"

	"github.com/zeusync/skirmish/internal/core/events"
	"github.com/zeusync/skirmish/internal/core/events/bus"
	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/models/catalog"
	"github.com/zeusync/skirmish/internal/core/observability/log"
	"github.com/zeusync/skirmish/internal/core/resources"
	"github.com/zeusync/skirmish/internal/core/store"
	"github.com/zeusync/skirmish/internal/core/systems"
	"github.com/zeusync/skirmish/internal/core/systems/physics"
	"github.com/zeusync/skirmish/pkg/encoding"
)

const Name = "gathering"

var (
	_ systems.System                 = (*System)(nil)
	_ encoding.Snapshotter[Snapshot] = (*System)(nil)
)

type System struct {
	store   *store.Store
	catalog *catalog.Catalog
	ledger  *resources.Ledger
	mover   systems.Mover
	events  bus.EventBus
	logger  log.Log

	sessions  map[models.EntityID]*Session
	nodes     map[models.EntityID]*NodeView
	nodeOrder []models.EntityID
}

func New(s *store.Store, cat *catalog.Catalog, ledger *resources.Ledger, mover systems.Mover, eb bus.EventBus, logger log.Log) *System {
	if mover == nil {
		mover = systems.NopMover{}
	}
	return &System{
		store:    s,
		catalog:  cat,
		ledger:   ledger,
		mover:    mover,
		events:   eb,
		logger:   log.OrNop(logger).With(log.String("system", Name)),
		sessions: make(map[models.EntityID]*Session),
		nodes:    make(map[models.EntityID]*NodeView),
	}
}

func (g *System) Name() string { return Name }

func (g *System) Priority() systems.Priority { return systems.PriorityNormal }

// RegisterNode caches node so it takes part in nearest-node searches.
func (g *System) RegisterNode(node models.EntityID) bool {
	_, ok := g.cacheNode(node)
	return ok
}

// Node returns the cached view of node.
func (g *System) Node(node models.EntityID) (NodeView, bool) {
	v, ok := g.nodes[node]
	if !ok {
		return NodeView{}, false
	}
	return *v, true
}

// Session returns the gathering session of unit.
func (g *System) Session(unit models.EntityID) (Session, bool) {
	s, ok := g.sessions[unit]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

func (g *System) IsGathering(unit models.EntityID) bool {
	_, ok := g.sessions[unit]
	return ok
}

// IssueGatherCommand sends unit to harvest node, replacing any session the
// unit already has.
func (g *System) IssueGatherCommand(unit, node models.EntityID) bool {
	if !g.store.Positions.Has(unit) {
		g.logger.Debug("gather rejected", log.Entity("unit", uint64(unit)), log.String("reason", "unit has no position"))
		return false
	}
	view, ok := g.cacheNode(node)
	if !ok {
		g.logger.Debug("gather rejected", log.Entity("node", uint64(node)), log.String("reason", "not a resource node"))
		return false
	}
	if view.Depleted() {
		g.logger.Debug("gather rejected", log.Entity("node", uint64(node)), log.String("reason", "node depleted"))
		return false
	}
	if _, busy := g.sessions[unit]; busy {
		g.StopGathering(unit)
	}
	g.sessions[unit] = &Session{State: MovingToResource, Node: node, Resource: view.Resource}
	view.Gatherers++
	g.mover.MoveEntity(unit, view.Position)
	return true
}

// StopGathering ends the session of unit and halts it.
func (g *System) StopGathering(unit models.EntityID) bool {
	sess, ok := g.sessions[unit]
	if !ok {
		return false
	}
	if view, ok := g.nodes[sess.Node]; ok && view.Gatherers > 0 {
		view.Gatherers--
	}
	delete(g.sessions, unit)
	g.mover.StopEntity(unit)
	return true
}

// FindNearestResourceNode returns the closest non-depleted cached node of
// kind. Ties go to the node cached first.
func (g *System) FindNearestResourceNode(unit models.EntityID, kind models.ResourceKind) (models.EntityID, bool) {
	return g.nearestNode(unit, &kind)
}

// FindNearestAnyResourceNode is FindNearestResourceNode without a kind filter.
func (g *System) FindNearestAnyResourceNode(unit models.EntityID) (models.EntityID, bool) {
	return g.nearestNode(unit, nil)
}

func (g *System) nearestNode(unit models.EntityID, kind *models.ResourceKind) (models.EntityID, bool) {
	pos, ok := g.store.Positions.Lookup(unit)
	if !ok {
		return 0, false
	}
	from := physics.FromPosition(*pos)
	var best models.EntityID
	bestDist := math.Inf(1)
	for _, id := range g.nodeOrder {
		view := g.nodes[id]
		if view.Depleted() || (kind != nil && view.Resource != *kind) {
			continue
		}
		if d := physics.DistanceXZ(from, view.Position); d < bestDist {
			best, bestDist = id, d
		}
	}
	return best, best != 0
}

// Update advances every session by one tick.
func (g *System) Update(deltaTime float64) {
	for _, unit := range slices.Sorted(maps.Keys(g.sessions)) {
		sess, ok := g.sessions[unit]
		if !ok {
			continue
		}
		pos, ok := g.store.Positions.Lookup(unit)
		if !ok {
			g.StopGathering(unit)
			continue
		}
		here := physics.FromPosition(*pos)
		switch sess.State {
		case MovingToResource:
			g.updateMoving(unit, sess, here)
		case Gathering:
			g.updateGathering(unit, sess, deltaTime)
		case Returning:
			g.updateReturning(unit, sess, here)
		}
	}
}

func (g *System) updateMoving(unit models.EntityID, sess *Session, here physics.Vec3) {
	view, ok := g.liveNode(sess.Node)
	if !ok || view.Depleted() {
		g.retarget(unit, sess)
		return
	}
	if physics.DistanceXZ(here, view.Position) <= GatherRadius {
		sess.State = Gathering
		sess.Timer = 0
	}
}

func (g *System) updateGathering(unit models.EntityID, sess *Session, deltaTime float64) {
	view, ok := g.liveNode(sess.Node)
	if !ok || view.Depleted() {
		g.startReturning(sess)
		return
	}
	sess.Timer += deltaTime
	for sess.Timer >= GatherInterval && sess.State == Gathering {
		sess.Timer -= GatherInterval
		g.gatherOnce(unit, sess, view)
	}
}

func (g *System) gatherOnce(unit models.EntityID, sess *Session, view *NodeView) {
	amount := GatherRate(sess.Resource) * GatherInterval
	amount = math.Min(amount, view.Amount)
	amount = math.Min(amount, CarryCapacity-sess.Carried)
	if amount > 0 {
		sess.Carried += amount
		view.Amount -= amount
		if res, ok := g.store.Resources.Lookup(sess.Node); ok {
			res.Amount = view.Amount
		}
	}

	if view.Depleted() {
		view.Amount = 0
		g.depleted(unit, sess.Node, view)
		g.startReturning(sess)
		return
	}
	if sess.Carried >= CarryCapacity {
		g.startReturning(sess)
	}
}

func (g *System) depleted(unit, node models.EntityID, view *NodeView) {
	for _, other := range slices.Sorted(maps.Keys(g.sessions)) {
		if other == unit {
			continue
		}
		if s := g.sessions[other]; s.Node == node && s.State != Returning {
			g.startReturning(s)
		}
	}
	g.logger.Debug("node depleted", log.Entity("node", uint64(node)), log.String("resource", view.Resource.String()))
	g.publish(events.NodeDepleted, events.NodeDepletedPayload{Node: node, Resource: view.Resource})
}

func (g *System) updateReturning(unit models.EntityID, sess *Session, here physics.Vec3) {
	base, basePos, dist, ok := g.nearestBase(here)
	if !ok {
		return
	}
	if dist > DepositRadius {
		if sess.ReturningTo != base {
			sess.ReturningTo = base
			g.mover.MoveEntity(unit, basePos)
		}
		return
	}

	if sess.Carried > 0 {
		g.ledger.Deposit(sess.Resource, sess.Carried)
		g.publish(events.Deposited, events.DepositedPayload{
			Unit: unit, Building: base, Resource: sess.Resource, Amount: sess.Carried,
		})
		sess.Carried = 0
	}
	sess.ReturningTo = 0

	if view, ok := g.liveNode(sess.Node); ok && !view.Depleted() {
		sess.State = MovingToResource
		g.mover.MoveEntity(unit, view.Position)
		return
	}
	g.retarget(unit, sess)
}

// retarget moves sess to the nearest node of the same kind, or ends it.
func (g *System) retarget(unit models.EntityID, sess *Session) {
	next, ok := g.FindNearestResourceNode(unit, sess.Resource)
	if !ok {
		g.logger.Debug("no resource left", log.Entity("unit", uint64(unit)), log.String("resource", sess.Resource.String()))
		g.StopGathering(unit)
		return
	}
	if old, ok := g.nodes[sess.Node]; ok && old.Gatherers > 0 {
		old.Gatherers--
	}
	view := g.nodes[next]
	view.Gatherers++
	sess.Node = next
	sess.State = MovingToResource
	sess.Timer = 0
	sess.ReturningTo = 0
	g.mover.MoveEntity(unit, view.Position)
}

func (g *System) startReturning(sess *Session) {
	sess.State = Returning
	sess.Timer = 0
	sess.ReturningTo = 0
}

// nearestBase finds the closest player-owned building.
func (g *System) nearestBase(from physics.Vec3) (models.EntityID, physics.Vec3, float64, bool) {
	var (
		best    models.EntityID
		bestPos physics.Vec3
	)
	bestDist := math.Inf(1)
	g.store.UnitTypes.Each(func(id models.EntityID, u *models.UnitType) {
		if !g.catalog.IsBuilding(u.Kind) {
			return
		}
		if side, ok := g.store.Side(id); !ok || side != models.SidePlayer {
			return
		}
		p, ok := g.store.Positions.Lookup(id)
		if !ok {
			return
		}
		pos := physics.FromPosition(*p)
		if d := physics.DistanceXZ(from, pos); d < bestDist {
			best, bestPos, bestDist = id, pos, d
		}
	})
	return best, bestPos, bestDist, best != 0
}

func (g *System) cacheNode(node models.EntityID) (*NodeView, bool) {
	if view, ok := g.liveNode(node); ok {
		return view, true
	}
	res, ok := g.store.Resources.Lookup(node)
	if !ok {
		return nil, false
	}
	pos, ok := g.store.Positions.Lookup(node)
	if !ok {
		return nil, false
	}
	view := &NodeView{Resource: res.Kind, Amount: res.Amount, Position: physics.FromPosition(*pos)}
	g.nodes[node] = view
	g.nodeOrder = append(g.nodeOrder, node)
	return view, true
}

// liveNode returns the cached view of node, evicting it when the entity
// lost its resource component.
func (g *System) liveNode(node models.EntityID) (*NodeView, bool) {
	view, ok := g.nodes[node]
	if !ok {
		return nil, false
	}
	if !g.store.Resources.Has(node) {
		delete(g.nodes, node)
		g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(id models.EntityID) bool { return id == node })
		return nil, false
	}
	return view, true
}

func (g *System) publish(typ string, payload any) {
	if g.events == nil {
		return
	}
	if err := g.events.Publish(bus.NewEvent(typ, Name, payload)); err != nil {
		g.logger.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}

func (g *System) Serialize() Snapshot {
	snap := Snapshot{
		Sessions: make(map[models.EntityID]Session, len(g.sessions)),
		Nodes:    make([]NodeEntry, 0, len(g.nodeOrder)),
	}
	for id, s := range g.sessions {
		snap.Sessions[id] = *s
	}
	for _, id := range g.nodeOrder {
		snap.Nodes = append(snap.Nodes, NodeEntry{Node: id, View: *g.nodes[id]})
	}
	return snap
}

func (g *System) Deserialize(snap Snapshot) error {
	g.sessions = make(map[models.EntityID]*Session, len(snap.Sessions))
	for id, s := range snap.Sessions {
		g.sessions[id] = &s
	}
	g.nodes = make(map[models.EntityID]*NodeView, len(snap.Nodes))
	g.nodeOrder = g.nodeOrder[:0]
	for _, e := range snap.Nodes {
		v := e.View
		g.nodes[e.Node] = &v
		g.nodeOrder = append(g.nodeOrder, e.Node)
	}
	return nil
}

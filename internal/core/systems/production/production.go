// Package production runs per-building FIFO build queues that turn spent
// resources into new units.
package production

import (
	"maps"
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

const Name = "production"

const (
	// RefundRate is the share of the unspent cost returned on cancel.
	RefundRate = 0.75
	// SpawnJitter bounds the x/z offset of a new unit around its producer.
	SpawnJitter = 4.0
)

var (
	_ systems.System                 = (*System)(nil)
	_ encoding.Snapshotter[Snapshot] = (*System)(nil)
)

// Item is one queued build order.
type Item struct {
	Kind      models.UnitKind `json:"kind"`
	Cost      resources.Cost  `json:"cost"`
	Progress  float64         `json:"progress"`
	BuildTime float64         `json:"buildTime"`
	Rally     *physics.Vec3   `json:"rally,omitempty"`
}

// Refund is what cancelling the item returns right now.
func (it Item) Refund() resources.Cost {
	remaining := 1.0
	if it.BuildTime > 0 {
		remaining = 1 - it.Progress/it.BuildTime
	}
	return it.Cost.Scale(RefundRate * remaining).Floor().Clamp(it.Cost)
}

type Snapshot struct {
	Queues map[models.EntityID][]Item       `json:"queues"`
	Rally  map[models.EntityID]physics.Vec3 `json:"rally"`
}

type System struct {
	store   *store.Store
	catalog *catalog.Catalog
	ledger  *resources.Ledger
	mover   systems.Mover
	roller  systems.Roller
	events  bus.EventBus
	logger  log.Log

	queues map[models.EntityID][]Item
	rally  map[models.EntityID]physics.Vec3
}

func New(
	s *store.Store,
	cat *catalog.Catalog,
	ledger *resources.Ledger,
	mover systems.Mover,
	roller systems.Roller,
	eb bus.EventBus,
	logger log.Log,
) *System {
	if mover == nil {
		mover = systems.NopMover{}
	}
	if roller == nil {
		roller = &systems.FixedRoller{Values: []float64{0.5}}
	}
	return &System{
		store:   s,
		catalog: cat,
		ledger:  ledger,
		mover:   mover,
		roller:  roller,
		events:  eb,
		logger:  log.OrNop(logger).With(log.String("system", Name)),
		queues:  make(map[models.EntityID][]Item),
		rally:   make(map[models.EntityID]physics.Vec3),
	}
}

func (p *System) Name() string { return Name }

func (p *System) Priority() systems.Priority { return systems.PriorityAboveNormal }

// CanProduce reports whether producer may start building kind now.
func (p *System) CanProduce(producer models.EntityID, kind models.UnitKind) bool {
	_, reason := p.check(producer, kind)
	return reason == ""
}

func (p *System) check(producer models.EntityID, kind models.UnitKind) (catalog.Template, string) {
	if side, ok := p.store.Side(producer); !ok || side != models.SidePlayer {
		return catalog.Template{}, "producer is not player owned"
	}
	if !p.store.UnitTypes.Has(producer) || !p.catalog.IsBuilding(p.store.Kind(producer)) {
		return catalog.Template{}, "producer is not a building"
	}
	tpl, ok := p.catalog.ProductionTemplate(kind)
	if !ok {
		return catalog.Template{}, "unit kind is not producible"
	}
	if !p.ledger.CanAfford(tpl.Cost) {
		return catalog.Template{}, "insufficient resources"
	}
	return tpl, ""
}

// StartProduction charges the cost of kind and appends it to the queue of
// producer. rally may be nil.
func (p *System) StartProduction(producer models.EntityID, kind models.UnitKind, rally *physics.Vec3) bool {
	tpl, reason := p.check(producer, kind)
	if reason != "" {
		p.logger.Debug("production rejected",
			log.Entity("producer", uint64(producer)),
			log.String("kind", kind.String()),
			log.String("reason", reason),
		)
		return false
	}
	p.ledger.Spend(tpl.Cost)

	item := Item{Kind: kind, Cost: tpl.Cost, BuildTime: tpl.BuildTime}
	if rally != nil {
		r := *rally
		item.Rally = &r
	}
	p.queues[producer] = append(p.queues[producer], item)
	return true
}

// CancelProduction removes slot index from the queue of producer and
// refunds part of its cost.
func (p *System) CancelProduction(producer models.EntityID, index int) (resources.Cost, bool) {
	q := p.queues[producer]
	if index < 0 || index >= len(q) {
		p.logger.Debug("cancel rejected",
			log.Entity("producer", uint64(producer)),
			log.Int("index", index),
			log.String("reason", "no such queue slot"),
		)
		return resources.Cost{}, false
	}
	item := q[index]
	refund := item.Refund()
	p.ledger.Refund(refund)

	q = slices.Delete(q, index, index+1)
	if len(q) == 0 {
		delete(p.queues, producer)
	} else {
		p.queues[producer] = q
	}
	p.publish(events.Cancelled, events.CancelledPayload{Producer: producer, Kind: item.Kind, Refund: refund})
	return refund, true
}

func (p *System) SetRallyPoint(producer models.EntityID, at physics.Vec3) { p.rally[producer] = at }

func (p *System) ClearRallyPoint(producer models.EntityID) { delete(p.rally, producer) }

func (p *System) RallyPoint(producer models.EntityID) (physics.Vec3, bool) {
	at, ok := p.rally[producer]
	return at, ok
}

// Queue returns a copy of the queue of producer, head first.
func (p *System) Queue(producer models.EntityID) []Item {
	return slices.Clone(p.queues[producer])
}

// Progress is the completed fraction of the head item, 0 when idle.
func (p *System) Progress(producer models.EntityID) float64 {
	q := p.queues[producer]
	if len(q) == 0 || q[0].BuildTime <= 0 {
		return 0
	}
	return min(1, q[0].Progress/q[0].BuildTime)
}

// Producers lists producers with a non-empty queue in id order.
func (p *System) Producers() []models.EntityID {
	return slices.Sorted(maps.Keys(p.queues))
}

// Update advances the head item of every queue.
func (p *System) Update(deltaTime float64) {
	for _, producer := range slices.Sorted(maps.Keys(p.queues)) {
		if !p.store.Exists(producer) {
			p.logger.Debug("producer gone, queue dropped", log.Entity("producer", uint64(producer)))
			delete(p.queues, producer)
			delete(p.rally, producer)
			continue
		}
		q := p.queues[producer]
		q[0].Progress += deltaTime
		if q[0].Progress < q[0].BuildTime {
			continue
		}
		head := q[0]
		if len(q) == 1 {
			delete(p.queues, producer)
		} else {
			p.queues[producer] = q[1:]
		}
		p.spawnUnit(producer, head)
	}
	for producer := range p.rally {
		if !p.store.Exists(producer) {
			delete(p.rally, producer)
		}
	}
}

func (p *System) spawnUnit(producer models.EntityID, item Item) {
	tpl, ok := p.catalog.ProductionTemplate(item.Kind)
	if !ok {
		p.logger.Warn("template vanished from catalog", log.String("kind", item.Kind.String()))
		return
	}
	origin, ok := p.store.Positions.Lookup(producer)
	if !ok {
		return
	}
	side, _ := p.store.Side(producer)

	at := *origin
	at.X += (p.roller.Float64()*2 - 1) * SpawnJitter
	at.Z += (p.roller.Float64()*2 - 1) * SpawnJitter
	unit := p.store.Instantiate(tpl, at, side)

	rally := physics.FromPosition(*origin)
	if item.Rally != nil {
		rally = *item.Rally
	} else if r, ok := p.rally[producer]; ok {
		rally = r
	}
	p.mover.MoveEntity(unit, rally)

	p.logger.Info("unit produced",
		log.Entity("producer", uint64(producer)),
		log.Entity("unit", uint64(unit)),
		log.String("kind", item.Kind.String()),
	)
	p.publish(events.UnitProduced, events.UnitProducedPayload{Producer: producer, Unit: unit, Kind: item.Kind, Rally: rally})
}

func (p *System) publish(typ string, payload any) {
	if p.events == nil {
		return
	}
	if err := p.events.Publish(bus.NewEvent(typ, Name, payload)); err != nil {
		p.logger.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}

func (p *System) Serialize() Snapshot {
	snap := Snapshot{
		Queues: make(map[models.EntityID][]Item, len(p.queues)),
		Rally:  maps.Clone(p.rally),
	}
	for id, q := range p.queues {
		snap.Queues[id] = slices.Clone(q)
	}
	if snap.Rally == nil {
		snap.Rally = make(map[models.EntityID]physics.Vec3)
	}
	return snap
}

func (p *System) Deserialize(snap Snapshot) error {
	p.queues = make(map[models.EntityID][]Item, len(snap.Queues))
	for id, q := range snap.Queues {
		if len(q) > 0 {
			p.queues[id] = slices.Clone(q)
		}
	}
	p.rally = make(map[models.EntityID]physics.Vec3, len(snap.Rally))
	maps.Copy(p.rally, snap.Rally)
	return nil
}

// Package combat resolves attacker→target sessions gated by per-attacker
// cooldowns.
package combat

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

const Name = "combat"

// OutOfRangeTimeout is how long, in accumulated seconds, a session may stay
// out of range before it is dropped.
const OutOfRangeTimeout = 3.0

var (
	_ systems.System                 = (*System)(nil)
	_ encoding.Snapshotter[Snapshot] = (*System)(nil)
)

// Session is a live attacker→target relationship.
type Session struct {
	Target     models.EntityID   `json:"target"`
	AttackType models.AttackType `json:"attackType"`
	DamageType models.DamageType `json:"damageType"`
	OutOfRange float64           `json:"outOfRange"`
}

// Snapshot is the persisted combat state.
type Snapshot struct {
	Sessions  map[models.EntityID]Session `json:"sessions"`
	Cooldowns map[models.EntityID]float64 `json:"cooldowns"`
}

type System struct {
	store   *store.Store
	catalog *catalog.Catalog
	roller  systems.Roller
	events  bus.EventBus
	logger  log.Log

	sessions  map[models.EntityID]*Session
	cooldowns map[models.EntityID]float64
}

// New builds the combat system. A nil bus disables event publication.
func New(s *store.Store, cat *catalog.Catalog, roller systems.Roller, eb bus.EventBus, logger log.Log) *System {
	return &System{
		store:     s,
		catalog:   cat,
		roller:    roller,
		events:    eb,
		logger:    log.OrNop(logger).With(log.String("system", Name)),
		sessions:  make(map[models.EntityID]*Session),
		cooldowns: make(map[models.EntityID]float64),
	}
}

func (c *System) Name() string { return Name }

func (c *System) Priority() systems.Priority { return systems.PriorityHigh }

// GetAttackRange returns the reach of kind for attack.
func (c *System) GetAttackRange(kind models.UnitKind, attack models.AttackType) float64 {
	return c.catalog.AttackRange(kind, attack)
}

// CanAttack reports whether attacker may open a session against target now.
func (c *System) CanAttack(attacker, target models.EntityID) bool {
	return c.rejectReason(attacker, target) == ""
}

func (c *System) rejectReason(attacker, target models.EntityID) string {
	if attacker == target {
		return "self target"
	}
	if !c.combatant(attacker) {
		return "attacker missing components"
	}
	if !c.combatant(target) {
		return "target missing components"
	}
	as, _ := c.store.Side(attacker)
	ts, _ := c.store.Side(target)
	if as == ts {
		return "same faction"
	}
	if c.OnCooldown(attacker) {
		return "on cooldown"
	}
	if !c.inRange(attacker, target, c.attackTypeOf(attacker)) {
		return "out of range"
	}
	return ""
}

// StartAttack opens a session when CanAttack holds. A false result tells the
// caller to skip any windup.
func (c *System) StartAttack(attacker, target models.EntityID) bool {
	if reason := c.rejectReason(attacker, target); reason != "" {
		c.logger.Debug("attack rejected",
			log.Entity("attacker", uint64(attacker)),
			log.Entity("target", uint64(target)),
			log.String("reason", reason))
		return false
	}
	stats, _ := c.catalog.StatsFor(c.store.Kind(attacker))
	c.sessions[attacker] = &Session{
		Target:     target,
		AttackType: stats.AttackType,
		DamageType: stats.DamageType,
	}
	return true
}

// StopAttack drops the session of attacker, if any.
func (c *System) StopAttack(attacker models.EntityID) bool {
	if _, ok := c.sessions[attacker]; !ok {
		return false
	}
	delete(c.sessions, attacker)
	return true
}

// IsAttacking reports whether attacker has a live session.
func (c *System) IsAttacking(attacker models.EntityID) bool {
	_, ok := c.sessions[attacker]
	return ok
}

// Target returns the current target of attacker.
func (c *System) Target(attacker models.EntityID) (models.EntityID, bool) {
	s, ok := c.sessions[attacker]
	if !ok {
		return 0, false
	}
	return s.Target, true
}

// Cooldown returns the remaining cooldown of attacker in seconds.
func (c *System) Cooldown(attacker models.EntityID) float64 {
	return c.cooldowns[attacker]
}

func (c *System) OnCooldown(attacker models.EntityID) bool {
	return c.cooldowns[attacker] > 0
}

// Update ticks cooldowns, then resolves every session that is ready.
func (c *System) Update(deltaTime float64) {
	for _, id := range slices.Sorted(maps.Keys(c.cooldowns)) {
		left := c.cooldowns[id] - deltaTime
		if left <= 0 {
			delete(c.cooldowns, id)
			continue
		}
		c.cooldowns[id] = left
	}

	for _, attacker := range slices.Sorted(maps.Keys(c.sessions)) {
		sess, ok := c.sessions[attacker]
		if !ok {
			continue
		}
		if !c.combatant(attacker) || !c.combatant(sess.Target) {
			delete(c.sessions, attacker)
			continue
		}
		if !c.inRange(attacker, sess.Target, sess.AttackType) {
			sess.OutOfRange += deltaTime
			if sess.OutOfRange >= OutOfRangeTimeout {
				c.logger.Debug("attack dropped out of range",
					log.Entity("attacker", uint64(attacker)),
					log.Entity("target", uint64(sess.Target)))
				delete(c.sessions, attacker)
			}
			continue
		}
		sess.OutOfRange = 0
		if c.OnCooldown(attacker) {
			continue
		}
		c.resolve(attacker, sess)
	}
}

func (c *System) resolve(attacker models.EntityID, sess *Session) {
	target := sess.Target
	armor := c.catalog.Armor(c.store.Kind(target))
	info := c.CalculateDamage(attacker, armor, sess.AttackType, sess.DamageType)
	destroyed := c.ApplyDamage(target, info)
	c.cooldowns[attacker] = c.catalog.AttackInterval(c.store.Kind(attacker))

	c.publish(events.AttackResolved, events.AttackResolvedPayload{
		Attacker:  attacker,
		Target:    target,
		Damage:    info.Amount,
		Critical:  info.IsCritical,
		Destroyed: destroyed,
	})
	if !destroyed {
		return
	}

	delete(c.sessions, attacker)
	kind := c.store.Kind(target)
	c.store.DestroyEntity(target)
	delete(c.sessions, target)
	delete(c.cooldowns, target)
	c.logger.Info("unit destroyed",
		log.Entity("entity", uint64(target)),
		log.Entity("killer", uint64(attacker)),
		log.String("kind", kind.String()))
	c.publish(events.UnitDestroyed, events.UnitDestroyedPayload{Entity: target, Killer: attacker, Kind: kind})
}

func (c *System) publish(typ string, payload any) {
	if c.events == nil {
		return
	}
	if err := c.events.Publish(bus.NewEvent(typ, Name, payload)); err != nil {
		c.logger.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}

func (c *System) combatant(id models.EntityID) bool {
	return c.store.HasAll(id, models.KindPosition, models.KindFaction, models.KindHealth)
}

func (c *System) attackTypeOf(id models.EntityID) models.AttackType {
	stats, _ := c.catalog.StatsFor(c.store.Kind(id))
	return stats.AttackType
}

func (c *System) inRange(attacker, target models.EntityID, attack models.AttackType) bool {
	ap, ok := c.store.Positions.Lookup(attacker)
	if !ok {
		return false
	}
	tp, ok := c.store.Positions.Lookup(target)
	if !ok {
		return false
	}
	reach := c.GetAttackRange(c.store.Kind(attacker), attack)
	return physics.PositionDistance(*ap, *tp) <= reach
}

func (c *System) Serialize() Snapshot {
	snap := Snapshot{
		Sessions:  make(map[models.EntityID]Session, len(c.sessions)),
		Cooldowns: make(map[models.EntityID]float64, len(c.cooldowns)),
	}
	for id, s := range c.sessions {
		snap.Sessions[id] = *s
	}
	maps.Copy(snap.Cooldowns, c.cooldowns)
	return snap
}

func (c *System) Deserialize(snap Snapshot) error {
	c.sessions = make(map[models.EntityID]*Session, len(snap.Sessions))
	for id, s := range snap.Sessions {
		s := s
		c.sessions[id] = &s
	}
	c.cooldowns = make(map[models.EntityID]float64, len(snap.Cooldowns))
	maps.Copy(c.cooldowns, snap.Cooldowns)
	return nil
}

// Package events names the simulation events published on the bus and their
// payloads.
package events

import (
	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/resources"
	"github.com/zeusync/skirmish/internal/core/systems/physics"
)

const (
	AttackResolved = "combat.attack_resolved"
	UnitDestroyed  = "combat.unit_destroyed"
	Deposited      = "gathering.deposited"
	NodeDepleted   = "gathering.node_depleted"
	UnitProduced   = "production.unit_spawned"
	Cancelled      = "production.cancelled"
	EnemySpawned   = "spawn.enemy_spawned"
	WaveCompleted  = "spawn.wave_completed"
)

type AttackResolvedPayload struct {
	Attacker  models.EntityID
	Target    models.EntityID
	Damage    float64
	Critical  bool
	Destroyed bool
}

type UnitDestroyedPayload struct {
	Entity models.EntityID
	Killer models.EntityID
	Kind   models.UnitKind
}

type DepositedPayload struct {
	Unit     models.EntityID
	Building models.EntityID
	Resource models.ResourceKind
	Amount   float64
}

type NodeDepletedPayload struct {
	Node     models.EntityID
	Resource models.ResourceKind
}

type UnitProducedPayload struct {
	Producer models.EntityID
	Unit     models.EntityID
	Kind     models.UnitKind
	Rally    physics.Vec3
}

type CancelledPayload struct {
	Producer models.EntityID
	Kind     models.UnitKind
	Refund   resources.Cost
}

type EnemySpawnedPayload struct {
	Wave       uint64
	SpawnPoint uint64
	Entity     models.EntityID
	Kind       models.UnitKind
}

type WaveCompletedPayload struct {
	Wave    uint64
	Spawned int
}

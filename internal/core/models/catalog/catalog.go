// Package catalog holds the static, data-driven unit tables: combat stats
// per unit kind, the production catalog and the enemy template catalog.
package catalog

import (
	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/resources"
)

const (
	// DefaultBaseDamage applies to unit kinds missing from the stats table.
	DefaultBaseDamage = 10.0
	// DefaultAttackRange is the ranged reach of kinds without a listed range.
	DefaultAttackRange = 5.0
	// MeleeAttackRange is shared by every melee attacker.
	MeleeAttackRange = 1.5
	// DefaultAttackInterval is the cooldown of kinds without a listed interval.
	DefaultAttackInterval = 1.0
	// DefaultMoveSpeed is used by the movement collaborator for unlisted kinds.
	DefaultMoveSpeed = 3.0
)

// UnitStats is the combat row of a unit kind.
type UnitStats struct {
	Class          models.Class
	AttackType     models.AttackType
	DamageType     models.DamageType
	BaseDamage     float64
	AttackInterval float64
	AttackRange    float64
	Armor          float64
	MoveSpeed      float64
}

// Template is the blueprint a unit is instantiated from.
type Template struct {
	Kind      models.UnitKind
	Cost      resources.Cost
	BuildTime float64
	Health    float64
	Render    models.Render
}

// Catalog groups the tables consumed by the simulation systems.
type Catalog struct {
	Stats      map[models.UnitKind]UnitStats
	Production map[models.UnitKind]Template
	Enemies    map[models.UnitKind]Template
}

// Default returns the stock tables.
func Default() *Catalog {
	return &Catalog{
		Stats:      defaultStats(),
		Production: defaultProduction(),
		Enemies:    defaultEnemies(),
	}
}

// StatsFor returns the stats row of kind.
func (c *Catalog) StatsFor(kind models.UnitKind) (UnitStats, bool) {
	s, ok := c.Stats[kind]
	return s, ok
}

// BaseDamage falls back to DefaultBaseDamage for unlisted kinds.
func (c *Catalog) BaseDamage(kind models.UnitKind) float64 {
	if s, ok := c.Stats[kind]; ok && s.BaseDamage > 0 {
		return s.BaseDamage
	}
	return DefaultBaseDamage
}

// Armor of kind, zero when unlisted.
func (c *Catalog) Armor(kind models.UnitKind) float64 {
	return c.Stats[kind].Armor
}

// AttackInterval falls back to DefaultAttackInterval for unlisted kinds.
func (c *Catalog) AttackInterval(kind models.UnitKind) float64 {
	if s, ok := c.Stats[kind]; ok && s.AttackInterval > 0 {
		return s.AttackInterval
	}
	return DefaultAttackInterval
}

// AttackRange is MeleeAttackRange for melee attacks and the listed ranged
// reach (or DefaultAttackRange) otherwise.
func (c *Catalog) AttackRange(kind models.UnitKind, attack models.AttackType) float64 {
	if attack == models.AttackMelee {
		return MeleeAttackRange
	}
	if s, ok := c.Stats[kind]; ok && s.AttackRange > 0 {
		return s.AttackRange
	}
	return DefaultAttackRange
}

// MoveSpeed falls back to DefaultMoveSpeed for unlisted kinds.
func (c *Catalog) MoveSpeed(kind models.UnitKind) float64 {
	if s, ok := c.Stats[kind]; ok && s.MoveSpeed > 0 {
		return s.MoveSpeed
	}
	return DefaultMoveSpeed
}

// IsBuilding reports whether kind is a static structure.
func (c *Catalog) IsBuilding(kind models.UnitKind) bool {
	s, ok := c.Stats[kind]
	return ok && s.Class == models.ClassBuilding
}

// ProductionTemplate looks kind up in the production catalog.
func (c *Catalog) ProductionTemplate(kind models.UnitKind) (Template, bool) {
	t, ok := c.Production[kind]
	return t, ok
}

// EnemyTemplate looks kind up in the enemy catalog.
func (c *Catalog) EnemyTemplate(kind models.UnitKind) (Template, bool) {
	t, ok := c.Enemies[kind]
	return t, ok
}

func defaultStats() map[models.UnitKind]UnitStats {
	return map[models.UnitKind]UnitStats{
		models.UnitWorker: {
			AttackType: models.AttackMelee, DamageType: models.DamageNormal,
			BaseDamage: 4, AttackInterval: 1.5, MoveSpeed: 3.5,
		},
		models.UnitSoldier: {
			AttackType: models.AttackMelee, DamageType: models.DamageNormal,
			BaseDamage: 12, AttackInterval: 1.0, Armor: 2, MoveSpeed: 3,
		},
		models.UnitArcher: {
			AttackType: models.AttackRanged, DamageType: models.DamagePierce,
			BaseDamage: 9, AttackInterval: 1.2, AttackRange: 8, MoveSpeed: 3,
		},
		models.UnitSupport: {
			AttackType: models.AttackRanged, DamageType: models.DamageMagic,
			BaseDamage: 5, AttackInterval: 1.0, AttackRange: 6, MoveSpeed: 3,
		},
		models.UnitSiege: {
			AttackType: models.AttackRanged, DamageType: models.DamageSiege,
			BaseDamage: 30, AttackInterval: 3.0, AttackRange: 12, Armor: 4, MoveSpeed: 2,
		},
		models.UnitCommandCenter: {
			Class: models.ClassBuilding, Armor: 5,
		},
		models.UnitBarracks: {
			Class: models.ClassBuilding, Armor: 3,
		},
		models.UnitGrunt: {
			AttackType: models.AttackMelee, DamageType: models.DamageNormal,
			BaseDamage: 8, AttackInterval: 1.0, Armor: 1, MoveSpeed: 3,
		},
		models.UnitRunner: {
			AttackType: models.AttackMelee, DamageType: models.DamageNormal,
			BaseDamage: 6, AttackInterval: 0.8, MoveSpeed: 6,
		},
		models.UnitBrute: {
			AttackType: models.AttackMelee, DamageType: models.DamageSiege,
			BaseDamage: 20, AttackInterval: 2.0, Armor: 4, MoveSpeed: 2,
		},
		models.UnitSpitter: {
			AttackType: models.AttackRanged, DamageType: models.DamageMagic,
			BaseDamage: 10, AttackInterval: 1.5, AttackRange: 7, MoveSpeed: 3,
		},
	}
}

func defaultProduction() map[models.UnitKind]Template {
	return map[models.UnitKind]Template{
		models.UnitWorker: {
			Kind: models.UnitWorker, Cost: resources.Cost{Minerals: 50}, BuildTime: 12, Health: 40,
			Render: models.Render{Model: "worker", Color: "#4a90d9", Scale: 0.8, Visible: true},
		},
		models.UnitSoldier: {
			Kind: models.UnitSoldier, Cost: resources.Cost{Minerals: 50}, BuildTime: 15, Health: 100,
			Render: models.Render{Model: "soldier", Color: "#4a90d9", Scale: 1, Visible: true},
		},
		models.UnitArcher: {
			Kind: models.UnitArcher, Cost: resources.Cost{Minerals: 75, Gas: 25}, BuildTime: 18, Health: 70,
			Render: models.Render{Model: "archer", Color: "#4a90d9", Scale: 1, Visible: true},
		},
		models.UnitSupport: {
			Kind: models.UnitSupport, Cost: resources.Cost{Minerals: 100, Gas: 50}, BuildTime: 20, Health: 60,
			Render: models.Render{Model: "support", Color: "#4a90d9", Scale: 1, Visible: true},
		},
		models.UnitSiege: {
			Kind: models.UnitSiege, Cost: resources.Cost{Minerals: 150, Gas: 100}, BuildTime: 30, Health: 150,
			Render: models.Render{Model: "siege", Color: "#4a90d9", Scale: 1.6, Visible: true},
		},
	}
}

func defaultEnemies() map[models.UnitKind]Template {
	return map[models.UnitKind]Template{
		models.UnitGrunt: {
			Kind: models.UnitGrunt, Health: 60,
			Render: models.Render{Model: "grunt", Color: "#c0392b", Scale: 1, Visible: true},
		},
		models.UnitRunner: {
			Kind: models.UnitRunner, Health: 40,
			Render: models.Render{Model: "runner", Color: "#c0392b", Scale: 0.8, Visible: true},
		},
		models.UnitBrute: {
			Kind: models.UnitBrute, Health: 250,
			Render: models.Render{Model: "brute", Color: "#c0392b", Scale: 1.5, Visible: true},
		},
		models.UnitSpitter: {
			Kind: models.UnitSpitter, Health: 50,
			Render: models.Render{Model: "spitter", Color: "#c0392b", Scale: 1, Visible: true},
		},
	}
}

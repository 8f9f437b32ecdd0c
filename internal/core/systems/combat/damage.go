package combat

import (
	"math"

	"github.com/zeusync/skirmish/internal/core/models"
)

const (
	// CriticalThreshold: a roll above it is a critical hit (20% chance).
	CriticalThreshold = 0.8
	// CriticalMultiplier scales mitigated damage on a critical hit.
	CriticalMultiplier = 1.5
	// MinDamage floors every resolved attack.
	MinDamage = 1.0
)

// DamageInfo is the outcome of one damage roll.
type DamageInfo struct {
	Source     models.EntityID
	Amount     float64
	IsCritical bool
	AttackType models.AttackType
	DamageType models.DamageType
}

// CalculateDamage mitigates the attacker's base damage linearly by
// targetArmor, floors it at MinDamage and applies the critical roll.
func (c *System) CalculateDamage(attacker models.EntityID, targetArmor float64, attack models.AttackType, damage models.DamageType) DamageInfo {
	base := c.catalog.BaseDamage(c.store.Kind(attacker))
	amount := math.Max(MinDamage, base-targetArmor)
	critical := c.roller.Float64() > CriticalThreshold
	if critical {
		amount *= CriticalMultiplier
	}
	return DamageInfo{
		Source:     attacker,
		Amount:     amount,
		IsCritical: critical,
		AttackType: attack,
		DamageType: damage,
	}
}

// ApplyDamage subtracts info from the target's health, clamping at zero, and
// reports whether the target was destroyed.
func (c *System) ApplyDamage(target models.EntityID, info DamageInfo) bool {
	h, ok := c.store.Healths.Lookup(target)
	if !ok {
		return false
	}
	h.Current = math.Max(0, h.Current-info.Amount)
	return h.Current <= 0
}

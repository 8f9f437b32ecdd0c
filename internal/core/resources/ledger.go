// Package resources holds the player resource pool shared by the gathering
// and production systems.
package resources

import (
	"math"

	"github.com/zeusync/skirmish/internal/core/models"
)

// Cost is a price in every resource kind.
type Cost struct {
	Minerals float64 `json:"minerals" yaml:"minerals"`
	Gas      float64 `json:"gas" yaml:"gas"`
}

// Scale multiplies every component of c by k.
func (c Cost) Scale(k float64) Cost {
	return Cost{Minerals: c.Minerals * k, Gas: c.Gas * k}
}

// Floor rounds every component down to a whole unit.
func (c Cost) Floor() Cost {
	return Cost{Minerals: math.Floor(c.Minerals), Gas: math.Floor(c.Gas)}
}

// Clamp bounds every component of c to [0, limit].
func (c Cost) Clamp(limit Cost) Cost {
	return Cost{
		Minerals: math.Max(0, math.Min(c.Minerals, limit.Minerals)),
		Gas:      math.Max(0, math.Min(c.Gas, limit.Gas)),
	}
}

// Ledger is the player's resource pool. Systems take a *Ledger and mutate it
// in place during their own tick.
type Ledger struct {
	Minerals float64 `json:"minerals" yaml:"minerals"`
	Gas      float64 `json:"gas" yaml:"gas"`
}

func NewLedger(minerals, gas float64) *Ledger {
	return &Ledger{Minerals: minerals, Gas: gas}
}

// CanAfford reports whether the pool covers cost.
func (l *Ledger) CanAfford(cost Cost) bool {
	return l.Minerals >= cost.Minerals && l.Gas >= cost.Gas
}

// Spend deducts cost when affordable and reports whether it did.
func (l *Ledger) Spend(cost Cost) bool {
	if !l.CanAfford(cost) {
		return false
	}
	l.Minerals -= cost.Minerals
	l.Gas -= cost.Gas
	return true
}

// Refund credits cost back into the pool.
func (l *Ledger) Refund(cost Cost) {
	l.Minerals += cost.Minerals
	l.Gas += cost.Gas
}

// Deposit adds amount of a single resource kind.
func (l *Ledger) Deposit(kind models.ResourceKind, amount float64) {
	switch kind {
	case models.ResourceMinerals:
		l.Minerals += amount
	case models.ResourceGas:
		l.Gas += amount
	}
}

// Amount returns the pooled amount of kind.
func (l *Ledger) Amount(kind models.ResourceKind) float64 {
	switch kind {
	case models.ResourceMinerals:
		return l.Minerals
	case models.ResourceGas:
		return l.Gas
	default:
		return 0
	}
}

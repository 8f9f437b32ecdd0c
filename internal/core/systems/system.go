package systems

import (
	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/systems/physics"
)

// System is a per-tick simulation processor driven by the game loop.
type System interface {
	// Name identifies the system in logs and snapshots.
	Name() string
	// Priority orders systems within a tick; higher runs first.
	Priority() Priority
	// Update advances the system by deltaTime seconds. It never blocks.
	Update(deltaTime float64)
}

// Priority defines execution order priority
type Priority uint16

// System priorities
const (
	PriorityLowest      Priority = 200
	PriorityLow         Priority = 500
	PriorityNormal      Priority = 600
	PriorityAboveNormal Priority = 800
	PriorityHigh        Priority = 1000
	PriorityHighest     Priority = 1300
)

// Mover is the external movement collaborator. Requests are fire-and-forget;
// systems detect arrival by polling Position components.
type Mover interface {
	MoveEntity(id models.EntityID, target physics.Vec3)
	StopEntity(id models.EntityID)
}

// Registrar is the external AI collaborator that takes ownership of newly
// spawned enemies.
type Registrar interface {
	RegisterEntity(id models.EntityID, typeTag string)
}

// Roller is the injectable uniform [0,1) source. *rand.Rand satisfies it.
type Roller interface {
	Float64() float64
}

// NopMover discards movement requests.
type NopMover struct{}

func (NopMover) MoveEntity(models.EntityID, physics.Vec3) {}
func (NopMover) StopEntity(models.EntityID)               {}

// NopRegistrar discards registrations.
type NopRegistrar struct{}

func (NopRegistrar) RegisterEntity(models.EntityID, string) {}

// FixedRoller replays Values in order, cycling when exhausted. An empty
// FixedRoller always yields 0.
type FixedRoller struct {
	Values []float64
	next   int
}

func (r *FixedRoller) Float64() float64 {
	if len(r.Values) == 0 {
		return 0
	}
	v := r.Values[r.next%len(r.Values)]
	r.next++
	return v
}

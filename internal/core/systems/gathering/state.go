package gathering

import (
	"fmt"

	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/systems/physics"
)

const (
	// GatherRadius is how close a unit must be to a node to start gathering.
	GatherRadius = 2.0
	// DepositRadius is how close a unit must be to a base to deposit.
	DepositRadius = 3.0
	// GatherInterval is the length of one gathering phase in seconds.
	GatherInterval = 1.0
	// CarryCapacity is the most a unit carries back per trip.
	CarryCapacity = 5.0
)

// GatherRate returns units gathered per second for kind.
func GatherRate(kind models.ResourceKind) float64 {
	switch kind {
	case models.ResourceMinerals:
		return 1.0
	case models.ResourceGas:
		return 0.5
	default:
		return 0
	}
}

// State is the phase of a gathering session.
type State uint8

const (
	MovingToResource State = iota
	Gathering
	Returning
)

func (s State) String() string {
	switch s {
	case MovingToResource:
		return "MOVING_TO_RESOURCE"
	case Gathering:
		return "GATHERING"
	case Returning:
		return "RETURNING"
	default:
		return fmt.Sprintf("STATE(%d)", uint8(s))
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "MOVING_TO_RESOURCE":
		*s = MovingToResource
	case "GATHERING":
		*s = Gathering
	case "RETURNING":
		*s = Returning
	default:
		return fmt.Errorf("unknown gathering state %q", text)
	}
	return nil
}

// Session is the harvesting relationship of one unit.
type Session struct {
	State    State               `json:"state"`
	Node     models.EntityID     `json:"node"`
	Resource models.ResourceKind `json:"resource"`
	Carried  float64             `json:"carried"`
	Timer    float64             `json:"timer"`
	// ReturningTo is the base the unit was last sent to, zero when none.
	ReturningTo models.EntityID `json:"returningTo"`
}

// NodeView is the cached state of a resource node.
type NodeView struct {
	Resource  models.ResourceKind `json:"resource"`
	Amount    float64             `json:"amount"`
	Position  physics.Vec3        `json:"position"`
	Gatherers int                 `json:"gatherers"`
}

func (n *NodeView) Depleted() bool { return n.Amount <= 0 }

// NodeEntry is one cached node in scan order.
type NodeEntry struct {
	Node models.EntityID `json:"node"`
	View NodeView        `json:"view"`
}

// Snapshot is the persisted gathering state.
type Snapshot struct {
	Sessions map[models.EntityID]Session `json:"sessions"`
	Nodes    []NodeEntry                 `json:"nodes"`
}

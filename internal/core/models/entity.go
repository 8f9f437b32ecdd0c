package models

import "errors"

// EntityID is an opaque simulation handle. Zero is never issued.
type EntityID uint64

// ComponentKind enumerates the component tables held by the store.
type ComponentKind uint8

const (
	KindPosition ComponentKind = iota
	KindHealth
	KindFaction
	KindRender
	KindUnitType
	KindResource
)

// ComponentKinds lists every kind in table order.
var ComponentKinds = []ComponentKind{
	KindPosition,
	KindHealth,
	KindFaction,
	KindRender,
	KindUnitType,
	KindResource,
}

func (k ComponentKind) String() string {
	switch k {
	case KindPosition:
		return "position"
	case KindHealth:
		return "health"
	case KindFaction:
		return "faction"
	case KindRender:
		return "render"
	case KindUnitType:
		return "unitType"
	case KindResource:
		return "resource"
	default:
		return "unknown"
	}
}

var (
	ErrNotFound    = errors.New("component not found")
	ErrUnknownKind = errors.New("unknown component kind")
)

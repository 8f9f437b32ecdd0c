package models

import "fmt"

// UnitKind is the closed set of unit, building and enemy types.
type UnitKind uint8

const (
	UnitUnknown UnitKind = iota
	UnitWorker
	UnitSoldier
	UnitArcher
	UnitSupport
	UnitSiege
	UnitCommandCenter
	UnitBarracks
	UnitGrunt
	UnitRunner
	UnitBrute
	UnitSpitter
)

var unitKindNames = map[UnitKind]string{
	UnitUnknown:       "unknown",
	UnitWorker:        "worker",
	UnitSoldier:       "soldier",
	UnitArcher:        "archer",
	UnitSupport:       "support",
	UnitSiege:         "siege",
	UnitCommandCenter: "command_center",
	UnitBarracks:      "barracks",
	UnitGrunt:         "grunt",
	UnitRunner:        "runner",
	UnitBrute:         "brute",
	UnitSpitter:       "spitter",
}

func (k UnitKind) String() string {
	if name, ok := unitKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unit(%d)", uint8(k))
}

func (k UnitKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *UnitKind) UnmarshalText(text []byte) error {
	parsed, err := ParseUnitKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseUnitKind resolves a tag such as "archer" to its UnitKind.
func ParseUnitKind(tag string) (UnitKind, error) {
	for kind, name := range unitKindNames {
		if name == tag {
			return kind, nil
		}
	}
	return UnitUnknown, fmt.Errorf("unknown unit type %q", tag)
}

// ResourceKind is the closed set of gatherable resources.
type ResourceKind uint8

const (
	ResourceMinerals ResourceKind = iota
	ResourceGas
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceMinerals:
		return "minerals"
	case ResourceGas:
		return "gas"
	default:
		return fmt.Sprintf("resource(%d)", uint8(k))
	}
}

func (k ResourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ResourceKind) UnmarshalText(text []byte) error {
	parsed, err := ParseResourceKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func ParseResourceKind(tag string) (ResourceKind, error) {
	switch tag {
	case "minerals":
		return ResourceMinerals, nil
	case "gas":
		return ResourceGas, nil
	default:
		return ResourceMinerals, fmt.Errorf("unknown resource type %q", tag)
	}
}

// Side is the allegiance carried by the Faction component.
type Side uint8

const (
	SideNeutral Side = iota
	SidePlayer
	SideEnemy
)

func (s Side) String() string {
	switch s {
	case SideNeutral:
		return "neutral"
	case SidePlayer:
		return "player"
	case SideEnemy:
		return "enemy"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "neutral":
		*s = SideNeutral
	case "player":
		*s = SidePlayer
	case "enemy":
		*s = SideEnemy
	default:
		return fmt.Errorf("unknown faction %q", text)
	}
	return nil
}

type AttackType uint8

const (
	AttackMelee AttackType = iota
	AttackRanged
)

func (a AttackType) String() string {
	if a == AttackRanged {
		return "ranged"
	}
	return "melee"
}

type DamageType uint8

const (
	DamageNormal DamageType = iota
	DamagePierce
	DamageSiege
	DamageMagic
)

func (d DamageType) String() string {
	switch d {
	case DamagePierce:
		return "pierce"
	case DamageSiege:
		return "siege"
	case DamageMagic:
		return "magic"
	default:
		return "normal"
	}
}

// Class separates mobile units from static buildings.
type Class uint8

const (
	ClassUnit Class = iota
	ClassBuilding
)

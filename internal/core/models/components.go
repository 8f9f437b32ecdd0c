package models

// Position is a world-space location; y is up, the ground plane is x/z.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Health struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
}

type Faction struct {
	Side Side `json:"side"`
}

// Render carries presentation hints for the external renderer. The
// simulation never reads it.
type Render struct {
	Model   string  `json:"model"`
	Color   string  `json:"color"`
	Scale   float64 `json:"scale"`
	Visible bool    `json:"visible"`
}

type UnitType struct {
	Kind UnitKind `json:"kind"`
}

type Resource struct {
	Kind   ResourceKind `json:"kind"`
	Amount float64      `json:"amount"`
}

func DefaultPosition() Position { return Position{} }

func DefaultHealth() Health { return Health{Current: 100, Max: 100} }

func DefaultFaction() Faction { return Faction{Side: SideNeutral} }

func DefaultRender() Render { return Render{Model: "box", Color: "#ffffff", Scale: 1, Visible: true} }

func DefaultUnitType() UnitType { return UnitType{Kind: UnitUnknown} }

func DefaultResource() Resource { return Resource{Kind: ResourceMinerals} }

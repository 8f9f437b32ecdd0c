package store

import "github.com/zeusync/skirmish/internal/core/models"

// Snapshot is the persisted form of a Store.
type Snapshot struct {
	NextID    models.EntityID          `json:"nextId"`
	Positions []Entry[models.Position] `json:"positions"`
	Healths   []Entry[models.Health]   `json:"healths"`
	Factions  []Entry[models.Faction]  `json:"factions"`
	Renders   []Entry[models.Render]   `json:"renders"`
	UnitTypes []Entry[models.UnitType] `json:"unitTypes"`
	Resources []Entry[models.Resource] `json:"resources"`
}

func (s *Store) Serialize() Snapshot {
	return Snapshot{
		NextID:    s.nextID,
		Positions: s.Positions.All(),
		Healths:   s.Healths.All(),
		Factions:  s.Factions.All(),
		Renders:   s.Renders.All(),
		UnitTypes: s.UnitTypes.All(),
		Resources: s.Resources.All(),
	}
}

// Deserialize replaces every table wholesale. The id cursor never moves
// backwards past a handle present in the snapshot.
func (s *Store) Deserialize(snap Snapshot) error {
	s.Positions.Replace(snap.Positions)
	s.Healths.Replace(snap.Healths)
	s.Factions.Replace(snap.Factions)
	s.Renders.Replace(snap.Renders)
	s.UnitTypes.Replace(snap.UnitTypes)
	s.Resources.Replace(snap.Resources)

	next := snap.NextID
	if next == 0 {
		next = 1
	}
	bump := func(id models.EntityID) {
		if id >= next {
			next = id + 1
		}
	}
	for _, kind := range models.ComponentKinds {
		for _, id := range s.ids(kind) {
			bump(id)
		}
	}
	s.nextID = next
	return nil
}

func (s *Store) ids(kind models.ComponentKind) []models.EntityID {
	switch kind {
	case models.KindPosition:
		return s.Positions.IDs()
	case models.KindHealth:
		return s.Healths.IDs()
	case models.KindFaction:
		return s.Factions.IDs()
	case models.KindRender:
		return s.Renders.IDs()
	case models.KindUnitType:
		return s.UnitTypes.IDs()
	case models.KindResource:
		return s.Resources.IDs()
	default:
		return nil
	}
}

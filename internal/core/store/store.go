// Package store is the entity/component store every simulation system reads
// and mutates through.
package store

import (
	"fmt"

	"github.com/zeusync/skirmish/internal/core/models"
)

// Store owns the entity id cursor and one table per component kind.
type Store struct {
	nextID models.EntityID

	Positions *Table[models.Position]
	Healths   *Table[models.Health]
	Factions  *Table[models.Faction]
	Renders   *Table[models.Render]
	UnitTypes *Table[models.UnitType]
	Resources *Table[models.Resource]
}

func New() *Store {
	return &Store{
		nextID:    1,
		Positions: NewTable(models.KindPosition, models.DefaultPosition),
		Healths:   NewTable(models.KindHealth, models.DefaultHealth),
		Factions:  NewTable(models.KindFaction, models.DefaultFaction),
		Renders:   NewTable(models.KindRender, models.DefaultRender),
		UnitTypes: NewTable(models.KindUnitType, models.DefaultUnitType),
		Resources: NewTable(models.KindResource, models.DefaultResource),
	}
}

// CreateEntity issues a handle that has never been issued before.
func (s *Store) CreateEntity() models.EntityID {
	id := s.nextID
	s.nextID++
	return id
}

// DestroyEntity drops every component of id.
func (s *Store) DestroyEntity(id models.EntityID) {
	for _, kind := range models.ComponentKinds {
		s.RemoveComponent(id, kind)
	}
}

// Exists reports whether id holds at least one component.
func (s *Store) Exists(id models.EntityID) bool {
	for _, kind := range models.ComponentKinds {
		if s.HasComponent(id, kind) {
			return true
		}
	}
	return false
}

// HasComponent is the kind-indexed form of Table.Has.
func (s *Store) HasComponent(id models.EntityID, kind models.ComponentKind) bool {
	switch kind {
	case models.KindPosition:
		return s.Positions.Has(id)
	case models.KindHealth:
		return s.Healths.Has(id)
	case models.KindFaction:
		return s.Factions.Has(id)
	case models.KindRender:
		return s.Renders.Has(id)
	case models.KindUnitType:
		return s.UnitTypes.Has(id)
	case models.KindResource:
		return s.Resources.Has(id)
	default:
		return false
	}
}

// HasAll reports whether id carries every listed kind.
func (s *Store) HasAll(id models.EntityID, kinds ...models.ComponentKind) bool {
	for _, k := range kinds {
		if !s.HasComponent(id, k) {
			return false
		}
	}
	return true
}

// RemoveComponent is the kind-indexed form of Table.Remove.
func (s *Store) RemoveComponent(id models.EntityID, kind models.ComponentKind) bool {
	switch kind {
	case models.KindPosition:
		return s.Positions.Remove(id)
	case models.KindHealth:
		return s.Healths.Remove(id)
	case models.KindFaction:
		return s.Factions.Remove(id)
	case models.KindRender:
		return s.Renders.Remove(id)
	case models.KindUnitType:
		return s.UnitTypes.Remove(id)
	case models.KindResource:
		return s.Resources.Remove(id)
	default:
		return false
	}
}

// GetComponent returns the record of kind attached to id as an untyped value.
func (s *Store) GetComponent(id models.EntityID, kind models.ComponentKind) (any, error) {
	switch kind {
	case models.KindPosition:
		return s.Positions.Get(id)
	case models.KindHealth:
		return s.Healths.Get(id)
	case models.KindFaction:
		return s.Factions.Get(id)
	case models.KindRender:
		return s.Renders.Get(id)
	case models.KindUnitType:
		return s.UnitTypes.Get(id)
	case models.KindResource:
		return s.Resources.Get(id)
	default:
		return nil, fmt.Errorf("%w: %d", models.ErrUnknownKind, kind)
	}
}

// Side returns the faction side of id, if any.
func (s *Store) Side(id models.EntityID) (models.Side, bool) {
	f, ok := s.Factions.Lookup(id)
	if !ok {
		return models.SideNeutral, false
	}
	return f.Side, true
}

// Kind returns the unit kind of id, or UnitUnknown.
func (s *Store) Kind(id models.EntityID) models.UnitKind {
	if u, ok := s.UnitTypes.Lookup(id); ok {
		return u.Kind
	}
	return models.UnitUnknown
}

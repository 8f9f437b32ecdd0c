package store

import (
	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/models/catalog"
)

// Instantiate creates an entity carrying the components of tpl at pos.
func (s *Store) Instantiate(tpl catalog.Template, pos models.Position, side models.Side) models.EntityID {
	id := s.CreateEntity()
	s.Positions.Set(id, pos)
	s.Healths.Add(id, func(h *models.Health) {
		if tpl.Health > 0 {
			h.Current, h.Max = tpl.Health, tpl.Health
		}
	})
	s.Factions.Set(id, models.Faction{Side: side})
	s.Renders.Add(id, func(r *models.Render) {
		if tpl.Render.Model != "" {
			*r = tpl.Render
		}
	})
	s.UnitTypes.Set(id, models.UnitType{Kind: tpl.Kind})
	return id
}

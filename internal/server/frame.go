package server

import (
	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/resources"
	"github.com/zeusync/skirmish/internal/core/system"
)

// EntityFrame is what a spectator sees of one entity.
type EntityFrame struct {
	ID       models.EntityID  `json:"id"`
	Kind     models.UnitKind  `json:"kind"`
	Side     models.Side      `json:"side"`
	Position models.Position  `json:"position"`
	Health   *models.Health   `json:"health,omitempty"`
	Resource *models.Resource `json:"resource,omitempty"`
	Render   *models.Render   `json:"render,omitempty"`
}

type ProducerFrame struct {
	ID       models.EntityID   `json:"id"`
	Queue    []models.UnitKind `json:"queue"`
	Progress float64           `json:"progress"`
}

// Frame is one broadcast of the world.
type Frame struct {
	Tick       uint64           `json:"tick"`
	Time       float64          `json:"time"`
	Ledger     resources.Ledger `json:"ledger"`
	Entities   []EntityFrame    `json:"entities"`
	Production []ProducerFrame  `json:"production,omitempty"`
}

// BuildFrame captures the visible state of sim.
func BuildFrame(sim *system.Simulation) Frame {
	st := sim.Store
	frame := Frame{
		Tick:     sim.TickCount(),
		Time:     sim.Time(),
		Ledger:   *sim.Ledger,
		Entities: make([]EntityFrame, 0, st.Positions.Len()),
	}
	st.Positions.Each(func(id models.EntityID, p *models.Position) {
		e := EntityFrame{ID: id, Kind: st.Kind(id), Position: *p}
		e.Side, _ = st.Side(id)
		if h, ok := st.Healths.Lookup(id); ok {
			hc := *h
			e.Health = &hc
		}
		if r, ok := st.Resources.Lookup(id); ok {
			rc := *r
			e.Resource = &rc
		}
		if r, ok := st.Renders.Lookup(id); ok {
			rc := *r
			e.Render = &rc
		}
		frame.Entities = append(frame.Entities, e)
	})
	for _, id := range sim.Production.Producers() {
		pf := ProducerFrame{ID: id, Progress: sim.Production.Progress(id)}
		for _, item := range sim.Production.Queue(id) {
			pf.Queue = append(pf.Queue, item.Kind)
		}
		frame.Production = append(frame.Production, pf)
	}
	return frame
}

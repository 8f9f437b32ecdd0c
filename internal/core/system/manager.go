package system

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zeusync/skirmish/internal/core/systems"
)

var (
	ErrDuplicateSystem = errors.New("system already registered")
	ErrUnknownSystem   = errors.New("unknown system")
)

// ManagerMetrics provides scheduler statistics
type ManagerMetrics struct {
	RegisteredSystems uint32
	EnabledSystems    uint32
	Updates           uint64
	TotalUpdateTime   time.Duration
	LastUpdateTime    time.Duration
}

type entry struct {
	system  systems.System
	enabled bool
	order   int
}

// Manager runs registered systems once per update, highest priority first.
// Equal priorities keep registration order.
type Manager struct {
	entries []*entry
	byName  map[string]*entry
	seq     int
	metrics ManagerMetrics
}

func NewManager() *Manager {
	return &Manager{byName: make(map[string]*entry)}
}

func (m *Manager) RegisterSystem(s systems.System) error {
	if _, ok := m.byName[s.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSystem, s.Name())
	}
	e := &entry{system: s, enabled: true, order: m.seq}
	m.seq++
	m.byName[s.Name()] = e
	m.entries = append(m.entries, e)
	slices.SortStableFunc(m.entries, func(a, b *entry) int {
		if a.system.Priority() != b.system.Priority() {
			return int(b.system.Priority()) - int(a.system.Priority())
		}
		return a.order - b.order
	})
	return nil
}

func (m *Manager) UnregisterSystem(name string) error {
	if _, ok := m.byName[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSystem, name)
	}
	delete(m.byName, name)
	m.entries = slices.DeleteFunc(m.entries, func(e *entry) bool { return e.system.Name() == name })
	return nil
}

func (m *Manager) GetSystem(name string) (systems.System, bool) {
	e, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return e.system, true
}

func (m *Manager) HasSystem(name string) bool {
	_, ok := m.byName[name]
	return ok
}

func (m *Manager) EnableSystem(name string) error { return m.setEnabled(name, true) }

func (m *Manager) DisableSystem(name string) error { return m.setEnabled(name, false) }

func (m *Manager) setEnabled(name string, enabled bool) error {
	e, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSystem, name)
	}
	e.enabled = enabled
	return nil
}

// GetExecutionOrder lists system names in the order Update runs them.
func (m *Manager) GetExecutionOrder() []string {
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.system.Name())
	}
	return out
}

// Update runs every enabled system with deltaTime.
func (m *Manager) Update(deltaTime float64) {
	start := time.Now()
	for _, e := range m.entries {
		if e.enabled {
			e.system.Update(deltaTime)
		}
	}
	elapsed := time.Since(start)
	m.metrics.Updates++
	m.metrics.TotalUpdateTime += elapsed
	m.metrics.LastUpdateTime = elapsed
}

func (m *Manager) GetMetrics() ManagerMetrics {
	out := m.metrics
	out.RegisteredSystems = uint32(len(m.entries))
	for _, e := range m.entries {
		if e.enabled {
			out.EnabledSystems++
		}
	}
	return out
}

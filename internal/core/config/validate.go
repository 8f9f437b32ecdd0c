package config

import (
	"errors"
	"fmt"

	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/models/catalog"
	"github.com/zeusync/skirmish/internal/core/observability/log"
)

// Validate checks the configuration against the stock catalog.
func (c *Config) Validate() error {
	return c.ValidateWith(catalog.Default())
}

// ValidateWith reports every problem found, wrapped in ErrInvalidConfig.
func (c *Config) ValidateWith(cat *catalog.Catalog) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if _, err := log.ParseLevel(c.Runtime.LogLevel); err != nil {
		fail("runtime.logLevel: %v", err)
	}
	if c.Runtime.TickRate <= 0 {
		fail("runtime.tickRate must be positive, got %d", c.Runtime.TickRate)
	}
	if c.Runtime.SavePath != "" && c.Runtime.SaveName == "" {
		fail("runtime.saveName is required when savePath is set")
	}

	sc := c.Scenario
	if sc.Grid.Width <= 0 || sc.Grid.Height <= 0 {
		fail("scenario.grid: dimensions must be positive, got %dx%d", sc.Grid.Width, sc.Grid.Height)
	}
	if sc.Grid.CellSize <= 0 {
		fail("scenario.grid.cellSize must be positive, got %v", sc.Grid.CellSize)
	}
	if sc.Ledger.Minerals < 0 || sc.Ledger.Gas < 0 {
		fail("scenario.ledger must not be negative")
	}

	for i, b := range sc.Buildings {
		kind, err := models.ParseUnitKind(b.Kind)
		switch {
		case err != nil:
			fail("scenario.buildings[%d]: %v", i, err)
		case !cat.IsBuilding(kind):
			fail("scenario.buildings[%d]: %q is not a building", i, b.Kind)
		}
	}
	for i, u := range sc.Units {
		kind, err := models.ParseUnitKind(u.Kind)
		if err != nil {
			fail("scenario.units[%d]: %v", i, err)
		} else if _, ok := cat.ProductionTemplate(kind); !ok {
			fail("scenario.units[%d]: %q is not a player unit", i, u.Kind)
		}
		if u.Gather != "" {
			if _, err := models.ParseResourceKind(u.Gather); err != nil {
				fail("scenario.units[%d].gather: %v", i, err)
			}
		}
	}
	for i, n := range sc.Nodes {
		if _, err := models.ParseResourceKind(n.Resource); err != nil {
			fail("scenario.nodes[%d]: %v", i, err)
		}
		if n.Amount <= 0 {
			fail("scenario.nodes[%d]: amount must be positive", i)
		}
	}

	points := make(map[string]struct{}, len(sc.SpawnPoints))
	for i, p := range sc.SpawnPoints {
		if p.Name == "" {
			fail("scenario.spawnPoints[%d]: name is required", i)
			continue
		}
		if _, dup := points[p.Name]; dup {
			fail("scenario.spawnPoints[%d]: duplicate name %q", i, p.Name)
		}
		points[p.Name] = struct{}{}
	}
	for i, w := range sc.Waves {
		if w.Total <= 0 {
			fail("scenario.waves[%d]: total must be positive", i)
		}
		if w.Interval < 0 {
			fail("scenario.waves[%d]: interval must not be negative", i)
		}
		if len(w.SpawnPoints) == 0 {
			fail("scenario.waves[%d]: no spawn points", i)
		}
		for _, name := range w.SpawnPoints {
			if _, ok := points[name]; !ok {
				fail("scenario.waves[%d]: unknown spawn point %q", i, name)
			}
		}
		if len(w.Enemies) == 0 {
			fail("scenario.waves[%d]: no enemies", i)
		}
		for _, tag := range w.Enemies {
			kind, err := models.ParseUnitKind(tag)
			if err != nil {
				fail("scenario.waves[%d]: %v", i, err)
			} else if _, ok := cat.EnemyTemplate(kind); !ok {
				fail("scenario.waves[%d]: %q is not an enemy", i, tag)
			}
		}
	}
	for i, o := range sc.Orders {
		if o.Building < 0 || o.Building >= len(sc.Buildings) {
			fail("scenario.orders[%d]: building index %d out of range", i, o.Building)
		}
		kind, err := models.ParseUnitKind(o.Kind)
		if err != nil {
			fail("scenario.orders[%d]: %v", i, err)
		} else if _, ok := cat.ProductionTemplate(kind); !ok {
			fail("scenario.orders[%d]: %q is not producible", i, o.Kind)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

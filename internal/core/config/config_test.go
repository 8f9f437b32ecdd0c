package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/skirmish/internal/core/navigation"
)

const sampleYAML = `
runtime:
  logLevel: debug
  tickRate: 10
  seed: 7
scenario:
  ledger:
    minerals: 100
  grid:
    width: 16
    height: 8
    cellSize: 2
    origin: {x: -16, z: 0}
    blocked:
      - {x: 3, y: 3}
    weights:
      - cell: {x: 1, y: 1}
        weight: 2.5
  buildings:
    - kind: command_center
      at: {x: 0, z: 4}
  units:
    - kind: worker
      at: {x: 1, z: 4}
      gather: minerals
  nodes:
    - resource: minerals
      amount: 250
      at: {x: -8, z: 4}
  spawnPoints:
    - name: gate
      at: {x: 14, z: 14}
  waves:
    - spawnPoints: [gate]
      enemies: [grunt]
      total: 3
      interval: 2
  orders:
    - building: 0
      kind: worker
`

func TestDefaultIsValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Runtime.TickRate)
	assert.NotEmpty(t, cfg.Scenario.Buildings)
	assert.InDelta(t, 0.05, cfg.Runtime.TickSeconds(), 1e-12)
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Runtime.LogLevel)
	assert.Equal(t, 10, cfg.Runtime.TickRate)
	assert.Equal(t, int64(7), cfg.Runtime.Seed)
	assert.Equal(t, "skirmish", cfg.Runtime.SaveName, "unset keys keep defaults")

	sc := cfg.Scenario
	assert.Equal(t, 100.0, sc.Ledger.Minerals)
	require.Len(t, sc.Buildings, 1)
	assert.Nil(t, sc.Buildings[0].Rally)
	assert.Equal(t, "minerals", sc.Units[0].Gather)
	assert.Equal(t, []string{"gate"}, sc.Waves[0].SpawnPoints)

	grid := sc.Grid.Build()
	assert.Equal(t, 16, grid.Width())
	assert.True(t, grid.Blocked(navigation.Cell{X: 3, Y: 3}))
	assert.Equal(t, 2.5, grid.Weight(navigation.Cell{X: 1, Y: 1}))
	assert.Equal(t, navigation.Cell{X: 8, Y: 2}, grid.WorldToGrid(sc.Buildings[0].At.Vec()))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SKIRMISH_TICK_RATE", "30")
	t.Setenv("SKIRMISH_FEED_ADDR", ":9090")
	t.Setenv("SKIRMISH_RESUME", "true")

	cfg, err := Parse(strings.NewReader(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Runtime.TickRate)
	assert.Equal(t, ":9090", cfg.Runtime.FeedAddr)
	assert.True(t, cfg.Runtime.Resume)
	assert.Equal(t, "debug", cfg.Runtime.LogLevel)
}

func TestEnvParseError(t *testing.T) {
	t.Setenv("SKIRMISH_TICK_RATE", "fast")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skirmish.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Scenario.Nodes, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Runtime.TickRate = 0
	cfg.Runtime.LogLevel = "chatty"
	cfg.Scenario.Grid.CellSize = 0
	cfg.Scenario.Buildings = append(cfg.Scenario.Buildings, Building{Kind: "worker"})
	cfg.Scenario.Units = append(cfg.Scenario.Units, Unit{Kind: "grunt"})
	cfg.Scenario.Waves = append(cfg.Scenario.Waves, Wave{SpawnPoints: []string{"nowhere"}, Enemies: []string{"soldier"}, Total: 1})
	cfg.Scenario.Orders = append(cfg.Scenario.Orders, Order{Building: 42, Kind: "worker"})

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	for _, want := range []string{
		"tickRate", "logLevel", "cellSize", `"worker" is not a building`,
		`"grunt" is not a player unit`, `unknown spawn point "nowhere"`, `"soldier" is not an enemy`,
		"building index 42",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestMalformedYAML(t *testing.T) {
	_, err := Parse(strings.NewReader("runtime: [unclosed"))
	assert.Error(t, err)

	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Scenario.Buildings)
}

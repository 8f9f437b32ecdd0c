package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/skirmish/internal/core/config"
	"github.com/zeusync/skirmish/internal/core/storage"
	"github.com/zeusync/skirmish/internal/core/storage/sqlite"
	"github.com/zeusync/skirmish/internal/core/system"
)

func runnerConfig() *config.Config {
	cfg := config.Default()
	cfg.Runtime.TickRate = 200
	cfg.Runtime.TickLimit = 10
	cfg.Runtime.AutosaveTicks = 4
	cfg.Runtime.Seed = 7
	return cfg
}

func openSaves(t *testing.T) *sqlite.Store {
	t.Helper()
	saves, err := sqlite.Open(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = saves.Close() })
	return saves
}

func newRunner(t *testing.T, cfg *config.Config, saves storage.SnapshotStore) *Runner {
	t.Helper()
	sim, err := system.New(system.Options{
		Ledger: cfg.Scenario.Ledger,
		Grid:   cfg.Scenario.Grid.Build(),
		Seed:   cfg.Runtime.Seed,
	})
	require.NoError(t, err)
	require.NoError(t, sim.Populate(cfg.Scenario))
	t.Cleanup(func() { _ = sim.Close() })
	return NewRunner(sim, NewFeed(nil), saves, cfg, nil)
}

func TestRunnerStopsAtTickLimitAndAutosaves(t *testing.T) {
	cfg := runnerConfig()
	saves := openSaves(t)
	r := newRunner(t, cfg, saves)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Run(ctx))
	assert.Equal(t, uint64(10), r.Simulation().TickCount())

	records, err := saves.List(context.Background(), cfg.Runtime.SaveName)
	require.NoError(t, err)
	ticks := make([]uint64, 0, len(records))
	for _, rec := range records {
		ticks = append(ticks, rec.Tick)
	}
	assert.Equal(t, []uint64{10, 8, 4}, ticks)
}

func TestRunnerResumesLatestSnapshot(t *testing.T) {
	cfg := runnerConfig()
	saves := openSaves(t)
	first := newRunner(t, cfg, saves)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, first.Run(ctx))
	want, err := first.Simulation().Checksum()
	require.NoError(t, err)

	second := newRunner(t, cfg, saves)
	resumed, err := second.Resume(context.Background())
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, uint64(10), second.Simulation().TickCount())

	got, err := second.Simulation().Checksum()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRunnerResumeWithNothingSaved(t *testing.T) {
	cfg := runnerConfig()

	resumed, err := newRunner(t, cfg, openSaves(t)).Resume(context.Background())
	require.NoError(t, err)
	assert.False(t, resumed)

	r := newRunner(t, cfg, nil)
	resumed, err = r.Resume(context.Background())
	require.NoError(t, err)
	assert.False(t, resumed)

	_, err = r.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshotStore)
}

func TestRunnerStopsOnCancel(t *testing.T) {
	cfg := runnerConfig()
	cfg.Runtime.TickLimit = 0
	r := newRunner(t, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.Positive(t, r.Simulation().TickCount())
}

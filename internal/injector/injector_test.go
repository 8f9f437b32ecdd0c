package injector

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/skirmish/internal/core/config"
)

func TestInitializeRunner(t *testing.T) {
	cfg := config.Default()
	cfg.Runtime.SavePath = filepath.Join(t.TempDir(), "saves.db")

	runner, cleanup, err := InitializeRunner(cfg)
	require.NoError(t, err)
	defer cleanup()

	sim := runner.Simulation()
	assert.Equal(t, 100.0, sim.Ledger.Minerals)
	assert.Len(t, sim.Production.Producers(), 2)

	resumed, err := runner.Resume(context.Background())
	require.NoError(t, err)
	assert.False(t, resumed)

	rec, err := runner.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.Runtime.SaveName, rec.Name)
}

func TestInitializeRunnerWithoutPersistence(t *testing.T) {
	runner, cleanup, err := InitializeRunner(config.Default())
	require.NoError(t, err)
	defer cleanup()

	resumed, err := runner.Resume(context.Background())
	require.NoError(t, err)
	assert.False(t, resumed)
}

func TestInitializeRunnerRejectsBadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Runtime.LogLevel = "loud"

	_, _, err := InitializeRunner(cfg)
	assert.Error(t, err)
}

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/skirmish/internal/core/config"
	"github.com/zeusync/skirmish/internal/core/observability/log"
	"github.com/zeusync/skirmish/internal/core/storage"
	"github.com/zeusync/skirmish/internal/core/storage/sqlite"
	"github.com/zeusync/skirmish/internal/core/system"
	"github.com/zeusync/skirmish/internal/server"
)

// ProviderSet builds a runnable skirmish from a loaded config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideOptions,
	ProvideSimulation,
	ProvideFeed,
	ProvideSnapshotStore,
	ProvideRunner,
	wire.Bind(new(log.Log), new(*log.Logger)),
)

func ProvideLogger(cfg *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Runtime.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.New(level), nil
}

func ProvideOptions(cfg *config.Config, logger log.Log) system.Options {
	return system.Options{
		Ledger: cfg.Scenario.Ledger,
		Grid:   cfg.Scenario.Grid.Build(),
		Seed:   cfg.Runtime.Seed,
		Logger: logger,
	}
}

// ProvideSimulation builds the world and places the configured scenario.
func ProvideSimulation(cfg *config.Config, opts system.Options) (*system.Simulation, func(), error) {
	sim, err := system.New(opts)
	if err != nil {
		return nil, nil, err
	}
	if err := sim.Populate(cfg.Scenario); err != nil {
		_ = sim.Close()
		return nil, nil, err
	}
	return sim, func() { _ = sim.Close() }, nil
}

func ProvideFeed(logger log.Log) *server.Feed {
	return server.NewFeed(logger)
}

// ProvideSnapshotStore opens the save database, or returns nil when
// persistence is disabled.
func ProvideSnapshotStore(cfg *config.Config) (storage.SnapshotStore, func(), error) {
	if cfg.Runtime.SavePath == "" {
		return nil, func() {}, nil
	}
	saves, err := sqlite.Open(cfg.Runtime.SavePath)
	if err != nil {
		return nil, nil, err
	}
	return saves, func() { _ = saves.Close() }, nil
}

func ProvideRunner(sim *system.Simulation, feed *server.Feed, saves storage.SnapshotStore, cfg *config.Config, logger log.Log) *server.Runner {
	return server.NewRunner(sim, feed, saves, cfg, logger)
}

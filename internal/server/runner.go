package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/skirmish/internal/core/config"
	"github.com/zeusync/skirmish/internal/core/observability/log"
	"github.com/zeusync/skirmish/internal/core/storage"
	"github.com/zeusync/skirmish/internal/core/system"
)

// KeepSnapshots is how many autosaves are retained per save name.
const KeepSnapshots = 5

var ErrNoSnapshotStore = errors.New("snapshot persistence disabled")

// Runner drives a Simulation on a wall-clock ticker and publishes a frame
// to the spectator feed after every tick. Only the tick goroutine touches
// the simulation.
type Runner struct {
	sim     *system.Simulation
	feed    *Feed
	saves   storage.SnapshotStore
	runtime config.Runtime
	logger  log.Log
}

// NewRunner wires a runner. feed and saves may be nil.
func NewRunner(sim *system.Simulation, feed *Feed, saves storage.SnapshotStore, cfg *config.Config, logger log.Log) *Runner {
	return &Runner{
		sim:     sim,
		feed:    feed,
		saves:   saves,
		runtime: cfg.Runtime,
		logger:  log.OrNop(logger).With(log.String("component", "runner")),
	}
}

func (r *Runner) Simulation() *system.Simulation { return r.sim }

// Resume restores the newest snapshot saved under the configured name.
// It reports false when persistence is off or nothing was saved yet.
func (r *Runner) Resume(ctx context.Context) (bool, error) {
	if r.saves == nil {
		return false, nil
	}
	snap, err := r.saves.Latest(ctx, r.runtime.SaveName)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load latest snapshot: %w", err)
	}
	if err := r.sim.RestoreJSON(snap.Data); err != nil {
		return false, fmt.Errorf("restore snapshot %s: %w", snap.ID, err)
	}

	checksum, err := r.sim.Checksum()
	if err != nil {
		return false, err
	}
	if checksum != snap.Checksum {
		r.logger.Warn("restored snapshot checksum mismatch",
			log.String("snapshot", snap.ID),
			log.Uint64("want", snap.Checksum),
			log.Uint64("got", checksum),
		)
	}
	r.logger.Info("resumed", log.String("snapshot", snap.ID), log.Uint64("tick", snap.Tick))
	return true, nil
}

// Save persists the current world and prunes old autosaves.
func (r *Runner) Save(ctx context.Context) (storage.Record, error) {
	if r.saves == nil {
		return storage.Record{}, ErrNoSnapshotStore
	}
	data, err := r.sim.MarshalSnapshot()
	if err != nil {
		return storage.Record{}, err
	}
	checksum, err := r.sim.Checksum()
	if err != nil {
		return storage.Record{}, err
	}
	rec, err := r.saves.Save(ctx, r.runtime.SaveName, r.sim.TickCount(), checksum, data)
	if err != nil {
		return storage.Record{}, fmt.Errorf("save snapshot: %w", err)
	}
	if removed, err := r.saves.Prune(ctx, r.runtime.SaveName, KeepSnapshots); err != nil {
		r.logger.Warn("prune snapshots failed", log.Error(err))
	} else if removed > 0 {
		r.logger.Debug("pruned snapshots", log.Int("removed", removed))
	}
	r.logger.Debug("snapshot saved",
		log.String("snapshot", rec.ID),
		log.Uint64("tick", rec.Tick),
		log.Int("bytes", rec.Size),
	)
	return rec, nil
}

// Step advances the simulation by one tick and publishes the frame.
func (r *Runner) Step() {
	r.sim.Tick(r.runtime.TickSeconds())
	if r.feed == nil {
		return
	}
	if err := r.feed.Broadcast(BuildFrame(r.sim)); err != nil {
		r.logger.Warn("broadcast failed", log.Error(err))
	}
}

// Run ticks until ctx is done or the tick limit is reached, serving the
// feed alongside when an address is configured. A final snapshot is
// written on the way out.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if r.feed != nil && r.runtime.FeedAddr != "" {
		g.Go(func() error {
			return r.feed.Serve(gctx, r.runtime.FeedAddr)
		})
	}
	g.Go(func() error {
		defer cancel()
		return r.loop(gctx)
	})
	return g.Wait()
}

func (r *Runner) loop(ctx context.Context) error {
	interval := time.Duration(r.runtime.TickSeconds() * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("simulation started",
		log.Int("tick_rate", r.runtime.TickRate),
		log.Uint64("tick", r.sim.TickCount()),
	)
	for {
		select {
		case <-ctx.Done():
			return r.shutdown(ctx)
		case <-ticker.C:
		}

		r.Step()
		tick := r.sim.TickCount()
		if r.saves != nil && r.runtime.AutosaveTicks > 0 && tick%r.runtime.AutosaveTicks == 0 {
			if _, err := r.Save(ctx); err != nil {
				r.logger.Error("autosave failed", log.Error(err))
			}
		}
		if r.runtime.TickLimit > 0 && tick >= r.runtime.TickLimit {
			r.logger.Info("tick limit reached", log.Uint64("tick", tick))
			return r.shutdown(ctx)
		}
	}
}

func (r *Runner) shutdown(ctx context.Context) error {
	defer r.logger.Info("simulation stopped", log.Uint64("tick", r.sim.TickCount()))
	if r.saves == nil {
		return nil
	}
	_, err := r.Save(context.WithoutCancel(ctx))
	return err
}

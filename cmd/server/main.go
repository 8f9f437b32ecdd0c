// Package main runs a skirmish simulation in real time.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/skirmish/internal/core/config"
	"github.com/zeusync/skirmish/internal/core/observability/log"
	"github.com/zeusync/skirmish/internal/injector"
)

func main() {
	path := flag.String("config", os.Getenv(config.EnvPrefix+"CONFIG"), "path to a YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *path); err != nil {
		fmt.Fprintln(os.Stderr, "skirmish:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	runner, cleanup, err := injector.InitializeRunner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	defer func() { _ = log.Provide().Sync() }()

	if cfg.Runtime.Resume {
		if _, err := runner.Resume(ctx); err != nil {
			return err
		}
	}
	return runner.Run(ctx)
}

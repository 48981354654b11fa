package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/lox/wolfgoatpig/cmd/wolfgoatpig/shared"
	"github.com/lox/wolfgoatpig/internal/fileutil"
	"github.com/lox/wolfgoatpig/internal/simulator"
)

// SimulateCmd runs randomized rounds and reports wager statistics
type SimulateCmd struct {
	Rounds   int    `short:"r" default:"1000" help:"Number of rounds to simulate"`
	Players  int    `short:"p" default:"0" help:"Players per round (4-6, 0 cycles table sizes)"`
	Seed     *int64 `help:"Deterministic RNG seed (default: current time)"`
	Workers  int    `short:"w" default:"0" help:"Concurrent workers (0 = GOMAXPROCS)"`
	Output   string `short:"o" help:"Write a JSON results report to this file"`
	LogLevel string `short:"l" default:"warn" help:"Log level"`
}

func (c *SimulateCmd) Run() error {
	if c.Players != 0 && (c.Players < 4 || c.Players > 6) {
		return fmt.Errorf("players must be 4-6 or 0 for mixed, got %d", c.Players)
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger := shared.SetupLogger(c.LogLevel)
	logger.Info("Starting simulation",
		"rounds", c.Rounds, "players", c.Players, "seed", seed, "workers", workers)

	ctx := shared.SetupSignalHandler()
	start := time.Now()

	stats, err := simulator.New(simulator.Config{
		Rounds:  c.Rounds,
		Players: c.Players,
		Seed:    seed,
		Workers: workers,
		Logger:  logger,
	}).Run(ctx)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	simulator.PrintSummary(stats)
	fmt.Printf("\nSimulated %d rounds in %s (seed %d)\n", stats.Rounds, elapsed.Round(time.Millisecond), seed)

	if c.Output != "" {
		report := simulator.NewReport(stats, seed, elapsed)
		if err := fileutil.WriteJSONAtomic(c.Output, report, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info("Wrote results report", "path", c.Output)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/kwpid/singleplayer-blackjack/internal/game"
	"github.com/kwpid/singleplayer-blackjack/internal/simulator"
)

type SimulateCmd struct {
	Mode    string `default:"ffa" help:"Match mode: 1v1, 2v2, ffa"`
	Matches int    `default:"10000" help:"Number of matches to play"`
	Workers int    `default:"0" help:"Worker goroutines (0 for GOMAXPROCS)"`
	Seed    int64  `default:"0" help:"RNG seed (0 for random)"`
	Verbose bool   `help:"Verbose logging"`
}

func (c *SimulateCmd) Run(cli *CLI) error {
	mode, err := game.ParseMode(c.Mode)
	if err != nil {
		return err
	}

	level := "info"
	if c.Verbose {
		level = "debug"
	}
	logger := newLogger(os.Stderr, level)

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := simulator.Run(ctx, logger, simulator.Options{
		Mode:    mode,
		Matches: c.Matches,
		Workers: workers,
		Seed:    seed,
	})
	if err != nil {
		return err
	}

	fmt.Println(stats.Summary())
	return nil
}

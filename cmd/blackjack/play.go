package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/kwpid/singleplayer-blackjack/internal/profile"
	"github.com/kwpid/singleplayer-blackjack/internal/session"
	"github.com/kwpid/singleplayer-blackjack/internal/tui"
)

type PlayCmd struct {
	Seed      *int64 `help:"Deterministic RNG seed (optional)"`
	SkipQueue bool   `help:"Skip the matchmaking countdown"`
}

func (c *PlayCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file beside the profile.
	logPath := filepath.Join(filepath.Dir(cfg.Profile.Path), "blackjack.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()
	logger := newLogger(logFile, cfg.Log.Level)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("starting", "seed", seed, "profile", cfg.Profile.Path)

	rng := rand.New(rand.NewSource(seed))
	store := profile.NewStore(cfg.Profile.Path)
	sess := session.New(logger, quartz.NewReal(), rng, store)

	display := *cfg.Display
	if c.SkipQueue {
		display.SkipQueue = true
	}

	return tui.Run(sess, display)
}

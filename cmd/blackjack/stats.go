package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kwpid/singleplayer-blackjack/internal/profile"
	"github.com/kwpid/singleplayer-blackjack/internal/rating"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	store := profile.NewStore(cfg.Profile.Path)
	p, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Profile: %s\n\n", cfg.Profile.Path)
	fmt.Fprintf(&b, "Rating:         %d\n", p.Rating)
	fmt.Fprintf(&b, "Queue wait:     %s\n", rating.QueueWait(p.Rating))
	fmt.Fprintf(&b, "Matches played: %d\n", p.Stats.GamesPlayed)
	fmt.Fprintf(&b, "Matches won:    %d (%.1f%%)\n", p.Stats.GamesWon, p.WinRate()*100)
	fmt.Fprintf(&b, "Win streak:     %d (best %d)\n", p.Stats.CurrentStreak, p.Stats.BestStreak)

	if len(p.Stats.PerMode) > 0 {
		b.WriteString("\nPer mode:\n")
		modes := make([]string, 0, len(p.Stats.PerMode))
		for mode := range p.Stats.PerMode {
			modes = append(modes, mode)
		}
		sort.Strings(modes)
		for _, mode := range modes {
			ms := p.Stats.PerMode[mode]
			fmt.Fprintf(&b, "  %-4s %d played, %d won\n", mode, ms.Played, ms.Won)
		}
	}

	fmt.Print(b.String())
	return nil
}

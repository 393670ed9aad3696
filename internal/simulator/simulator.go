// Package simulator plays headless matches with the bot policy standing in
// for the human, for balance checking and soak testing the engine.
package simulator

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/kwpid/singleplayer-blackjack/internal/bot"
	"github.com/kwpid/singleplayer-blackjack/internal/game"
	"github.com/kwpid/singleplayer-blackjack/internal/rating"
)

// Options configures a simulation run
type Options struct {
	Mode    game.Mode
	Matches int
	Workers int
	Seed    int64
}

// Run plays Matches full matches, fanning out over Workers goroutines. Each
// match gets its own deterministically derived RNG, so a fixed seed
// reproduces the same set of matches regardless of scheduling.
func Run(ctx context.Context, logger *log.Logger, opts Options) (*Stats, error) {
	if opts.Matches <= 0 {
		return nil, fmt.Errorf("matches must be positive, got %d", opts.Matches)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	logger.Info("simulation starting",
		"mode", opts.Mode, "matches", opts.Matches, "workers", opts.Workers, "seed", opts.Seed)

	stats := NewStats()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := 0; i < opts.Matches; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := playMatch(rand.New(rand.NewSource(opts.Seed+int64(i))), opts.Mode)
			if err != nil {
				return fmt.Errorf("match %d: %w", i, err)
			}
			stats.Add(result)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("simulation finished",
		"matches", stats.Matches(), "winRate", fmt.Sprintf("%.3f", stats.WinRate()))
	return stats, nil
}

// playMatch drives one match, deciding the human's turns with the same
// fixed-threshold policy the AI seats use.
func playMatch(rng *rand.Rand, mode game.Mode) (MatchRecord, error) {
	m := game.NewMatch(rng, mode)
	human := m.Participants[0]

	for !m.IsOver() {
		r, err := m.StartRound()
		if err != nil {
			return MatchRecord{}, err
		}

		for r.Phase() == game.HumanTurn {
			if bot.Decide(human.Score()) == bot.Stand {
				if err := r.Stand(); err != nil {
					return MatchRecord{}, err
				}
				break
			}
			if err := r.Hit(); err != nil {
				return MatchRecord{}, err
			}
		}

		if err := r.RunToResolution(); err != nil {
			return MatchRecord{}, err
		}
		if err := m.FinishRound(); err != nil {
			return MatchRecord{}, err
		}
	}

	result, err := m.Result()
	if err != nil {
		return MatchRecord{}, err
	}

	record := MatchRecord{
		Mode:      mode,
		Position:  result.HumanPosition(),
		Drawn:     result.Drawn,
		Delta:     rating.Delta(mode, result.HumanPosition(), result.Drawn),
		RoundsWon: human.RoundsWon,
		Rounds:    m.MaxRounds,
	}

	for _, outcomes := range m.History {
		for _, o := range outcomes {
			if o.ParticipantID == human.ID {
				record.Outcomes = append(record.Outcomes, o.Outcome)
			}
		}
	}

	return record, nil
}

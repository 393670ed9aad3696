// Package profile is the persistence collaborator: the player's rating and
// statistics record, read at startup and rewritten after each match.
package profile

import (
	"github.com/kwpid/singleplayer-blackjack/internal/game"
	"github.com/kwpid/singleplayer-blackjack/internal/rating"
)

// ModeStats tracks matches for one competitive mode
type ModeStats struct {
	Played int `json:"played"`
	Won    int `json:"won"`
}

// Stats tracks the player's lifetime statistics
type Stats struct {
	GamesPlayed   int                  `json:"gamesPlayed"`
	GamesWon      int                  `json:"gamesWon"`
	BestStreak    int                  `json:"bestStreak"`
	CurrentStreak int                  `json:"currentStreak"`
	PerMode       map[string]ModeStats `json:"perModeStats"`
}

// Profile is the persisted player record
type Profile struct {
	Rating int   `json:"rating"`
	Stats  Stats `json:"stats"`
}

// Default returns the record used when nothing has been persisted yet
func Default() Profile {
	return Profile{
		Rating: rating.Default,
		Stats: Stats{
			PerMode: make(map[string]ModeStats),
		},
	}
}

// WinRate returns the fraction of matches won, 0 when none played
func (p Profile) WinRate() float64 {
	if p.Stats.GamesPlayed == 0 {
		return 0
	}
	return float64(p.Stats.GamesWon) / float64(p.Stats.GamesPlayed)
}

// RecordMatch folds one finished match into the profile: rating delta with
// floor, played/won counters, win-streak bookkeeping, and per-mode tallies.
// A win is finishing in position 1 without a draw.
func (p *Profile) RecordMatch(result game.MatchResult) int {
	delta := rating.Delta(result.Mode, result.HumanPosition(), result.Drawn)
	p.Rating = rating.Apply(p.Rating, delta)

	won := result.HumanPosition() == 1 && !result.Drawn

	p.Stats.GamesPlayed++
	if won {
		p.Stats.GamesWon++
		p.Stats.CurrentStreak++
		if p.Stats.CurrentStreak > p.Stats.BestStreak {
			p.Stats.BestStreak = p.Stats.CurrentStreak
		}
	} else {
		p.Stats.CurrentStreak = 0
	}

	if p.Stats.PerMode == nil {
		p.Stats.PerMode = make(map[string]ModeStats)
	}
	ms := p.Stats.PerMode[result.Mode.String()]
	ms.Played++
	if won {
		ms.Won++
	}
	p.Stats.PerMode[result.Mode.String()] = ms

	return delta
}

package session

import (
	"github.com/kwpid/singleplayer-blackjack/internal/game"
)

// SeatView is one participant's visible state
type SeatView struct {
	ID        string
	Name      string
	Kind      game.Kind
	TeamID    int
	Cards     []string
	Score     int
	Status    game.Status
	RoundsWon int
}

// Snapshot is the post-action state handed back for rendering. It carries no
// references into live game state.
type Snapshot struct {
	InMatch    bool
	Mode       game.Mode
	Phase      game.Phase
	RoundIndex int // completed rounds
	MaxRounds  int
	Seats      []SeatView
	Outcomes   []game.RoundOutcome // set while the current round is resolved
	Result     *game.MatchResult   // set once the match has finished
	Rating     int
	Delta      int // rating change of the finished match
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		Rating: s.profile.Rating,
		Delta:  s.lastDelta,
		Result: s.lastResult,
	}

	if s.match == nil {
		return snap
	}

	snap.InMatch = true
	snap.Mode = s.match.Mode
	snap.RoundIndex = s.match.CurrentRound
	snap.MaxRounds = s.match.MaxRounds

	for _, p := range s.match.Participants {
		cards := make([]string, len(p.Hand))
		for i, c := range p.Hand {
			cards[i] = c.String()
		}
		snap.Seats = append(snap.Seats, SeatView{
			ID:        p.ID,
			Name:      p.Name,
			Kind:      p.Kind,
			TeamID:    p.TeamID,
			Cards:     cards,
			Score:     p.Score(),
			Status:    p.Status,
			RoundsWon: p.RoundsWon,
		})
	}

	if r := s.match.Round(); r != nil {
		snap.Phase = r.Phase()
		if r.Phase() == game.Resolved {
			snap.Outcomes = r.Outcomes()
		}
	}

	return snap
}

// Snapshot returns the current state without performing an action
func (s *Session) Snapshot() Snapshot {
	return s.snapshot()
}

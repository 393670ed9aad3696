package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/kwpid/singleplayer-blackjack/internal/bot"
	"github.com/kwpid/singleplayer-blackjack/internal/deck"
)

// Mode is the competitive format of a match
type Mode int

const (
	HeadToHead Mode = iota
	Team
	FreeForAll
)

// ParseMode parses a mode name as used by the CLI and config
func ParseMode(s string) (Mode, error) {
	switch s {
	case "1v1", "head-to-head":
		return HeadToHead, nil
	case "2v2", "team":
		return Team, nil
	case "ffa":
		return FreeForAll, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// String returns the string representation of a mode
func (m Mode) String() string {
	switch m {
	case HeadToHead:
		return "1v1"
	case Team:
		return "2v2"
	case FreeForAll:
		return "ffa"
	default:
		return "unknown"
	}
}

// MaxRounds returns the fixed number of rounds for the mode
func (m Mode) MaxRounds() int {
	if m == FreeForAll {
		return 10
	}
	return 5
}

// HasHouse returns true for modes played against a house seat. In free for
// all every non-human participant is a peer.
func (m Mode) HasHouse() bool {
	return m != FreeForAll
}

var (
	// ErrMatchOver is returned when starting a round on a finished match
	ErrMatchOver = errors.New("match is over")
	// ErrRoundInProgress is returned when starting a round while one is unresolved
	ErrRoundInProgress = errors.New("round already in progress")
)

// Match owns the participants and drives rounds 1..MaxRounds sequentially
type Match struct {
	Mode         Mode
	Participants []*Participant
	CurrentRound int // completed rounds
	MaxRounds    int
	History      [][]RoundOutcome

	rng   *rand.Rand
	deck  *deck.Deck
	round *Round
}

// NewMatch creates a match for the given mode, seating the human first, AI
// seats in creation order, and the house (if any) last. AI names come from
// the bot name pools, unique within the match.
func NewMatch(rng *rand.Rand, mode Mode) *Match {
	namer := bot.NewNamer(rng)

	seats := []*Participant{NewParticipant("you", "You", Human, 1)}

	switch mode {
	case HeadToHead:
		seats = append(seats, NewParticipant("ai-1", namer.Draw(), AI, 2))
	case Team:
		seats = append(seats,
			NewParticipant("ai-1", namer.Draw(), AI, 1),
			NewParticipant("ai-2", namer.Draw(), AI, 2),
			NewParticipant("ai-3", namer.Draw(), AI, 2),
		)
	case FreeForAll:
		for i := 1; i <= 4; i++ {
			seats = append(seats, NewParticipant(fmt.Sprintf("ai-%d", i), namer.Draw(), AI, i+1))
		}
	}

	if mode.HasHouse() {
		seats = append(seats, NewParticipant("house", "Dealer", House, 0))
	}

	return &Match{
		Mode:         mode,
		Participants: seats,
		MaxRounds:    mode.MaxRounds(),
		rng:          rng,
		deck:         deck.New(rng),
	}
}

// Round returns the round currently in flight, or nil between rounds
func (m *Match) Round() *Round {
	return m.round
}

// IsOver returns true once all rounds have been played
func (m *Match) IsOver() bool {
	return m.CurrentRound >= m.MaxRounds
}

// StartRound begins the next round and deals. Only one round is ever in
// flight per match.
func (m *Match) StartRound() (*Round, error) {
	if m.IsOver() {
		return nil, ErrMatchOver
	}
	if m.round != nil && m.round.Phase() != Resolved {
		return nil, ErrRoundInProgress
	}

	m.round = NewRound(m.deck, m.Participants, m.Mode)
	if err := m.round.Deal(); err != nil {
		// Deck exhaustion is fatal to the round only; discard it so the
		// caller can redeal or end the match.
		m.round = nil
		return nil, err
	}
	return m.round, nil
}

// AbandonRound discards an in-flight round without recording an outcome
func (m *Match) AbandonRound() {
	m.round = nil
}

// FinishRound records a resolved round's outcomes and advances the round
// index.
func (m *Match) FinishRound() error {
	if m.round == nil || m.round.Phase() != Resolved {
		return ErrInvalidAction
	}

	m.History = append(m.History, m.round.Outcomes())
	m.CurrentRound++
	m.round = nil
	return nil
}

// Standing is one row of the final ranking
type Standing struct {
	ParticipantID string
	Name          string
	Position      int
	RoundsWon     int
}

// MatchResult is the final ranking of a completed match, the sole input to
// the rating updater.
type MatchResult struct {
	Mode    Mode
	Ranking []Standing
	Drawn   bool
}

// HumanPosition returns the human's final position
func (r MatchResult) HumanPosition() int {
	for _, s := range r.Ranking {
		if s.ParticipantID == "you" {
			return s.Position
		}
	}
	return 0
}

// Result computes the final ranking. Only valid once the match is over.
func (m *Match) Result() (MatchResult, error) {
	if !m.IsOver() {
		return MatchResult{}, fmt.Errorf("match not over: round %d of %d", m.CurrentRound, m.MaxRounds)
	}

	switch m.Mode {
	case HeadToHead:
		return m.headToHeadResult(), nil
	case Team:
		return m.teamResult(), nil
	default:
		return m.freeForAllResult(), nil
	}
}

// contenders returns the non-house participants in seat order
func (m *Match) contenders() []*Participant {
	out := make([]*Participant, 0, len(m.Participants))
	for _, p := range m.Participants {
		if p.Kind != House {
			out = append(out, p)
		}
	}
	return out
}

func (m *Match) headToHeadResult() MatchResult {
	c := m.contenders()
	a, b := c[0], c[1]

	result := MatchResult{Mode: m.Mode}
	switch {
	case a.RoundsWon > b.RoundsWon:
		result.Ranking = []Standing{standing(a, 1), standing(b, 2)}
	case b.RoundsWon > a.RoundsWon:
		result.Ranking = []Standing{standing(b, 1), standing(a, 2)}
	default:
		result.Drawn = true
		result.Ranking = []Standing{standing(a, 1), standing(b, 1)}
	}
	return result
}

func (m *Match) teamResult() MatchResult {
	totals := map[int]int{}
	for _, p := range m.contenders() {
		totals[p.TeamID] += p.RoundsWon
	}

	result := MatchResult{Mode: m.Mode}
	winner := 0
	switch {
	case totals[1] > totals[2]:
		winner = 1
	case totals[2] > totals[1]:
		winner = 2
	default:
		result.Drawn = true
	}

	for _, p := range m.contenders() {
		pos := 1
		if winner != 0 && p.TeamID != winner {
			pos = 2
		}
		result.Ranking = append(result.Ranking, standing(p, pos))
	}
	return result
}

func (m *Match) freeForAllResult() MatchResult {
	ranked := m.contenders()
	// Stable sort: ties keep seat order, an acknowledged simplification
	// rather than a true tiebreak.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RoundsWon > ranked[j].RoundsWon
	})

	result := MatchResult{Mode: m.Mode}
	for i, p := range ranked {
		result.Ranking = append(result.Ranking, standing(p, i+1))
	}
	return result
}

func standing(p *Participant, pos int) Standing {
	return Standing{
		ParticipantID: p.ID,
		Name:          p.Name,
		Position:      pos,
		RoundsWon:     p.RoundsWon,
	}
}

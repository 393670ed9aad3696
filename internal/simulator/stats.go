package simulator

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kwpid/singleplayer-blackjack/internal/game"
)

// MatchRecord is the outcome of one simulated match from the human seat's
// perspective
type MatchRecord struct {
	Mode      game.Mode
	Position  int
	Drawn     bool
	Delta     int
	RoundsWon int
	Rounds    int
	Outcomes  []game.Outcome
}

// Stats aggregates simulated match records. Safe for concurrent Add.
type Stats struct {
	mu sync.Mutex

	matches   int
	wins      int
	draws     int
	sumDelta  int
	positions map[int]int
	outcomes  map[game.Outcome]int
}

// NewStats creates an empty aggregate
func NewStats() *Stats {
	return &Stats{
		positions: make(map[int]int),
		outcomes:  make(map[game.Outcome]int),
	}
}

// Add incorporates one match record
func (s *Stats) Add(r MatchRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matches++
	if r.Position == 1 && !r.Drawn {
		s.wins++
	}
	if r.Drawn {
		s.draws++
	}
	s.sumDelta += r.Delta
	s.positions[r.Position]++
	for _, o := range r.Outcomes {
		s.outcomes[o]++
	}
}

// Matches returns the number of matches aggregated
func (s *Stats) Matches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches
}

// WinRate returns the fraction of matches won outright
func (s *Stats) WinRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.matches == 0 {
		return 0
	}
	return float64(s.wins) / float64(s.matches)
}

// MeanDelta returns the mean rating delta per match
func (s *Stats) MeanDelta() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.matches == 0 {
		return 0
	}
	return float64(s.sumDelta) / float64(s.matches)
}

// RoundOutcomes returns a copy of the per-outcome round counts
func (s *Stats) RoundOutcomes() map[game.Outcome]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[game.Outcome]int, len(s.outcomes))
	for k, v := range s.outcomes {
		out[k] = v
	}
	return out
}

// Summary renders a human-readable report
func (s *Stats) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "matches: %d\n", s.matches)
	if s.matches > 0 {
		fmt.Fprintf(&b, "wins: %d (%.1f%%)\n", s.wins, 100*float64(s.wins)/float64(s.matches))
		fmt.Fprintf(&b, "draws: %d\n", s.draws)
		fmt.Fprintf(&b, "mean rating delta: %+.2f\n", float64(s.sumDelta)/float64(s.matches))
	}

	positions := make([]int, 0, len(s.positions))
	for p := range s.positions {
		positions = append(positions, p)
	}
	sort.Ints(positions)
	for _, p := range positions {
		fmt.Fprintf(&b, "position %d: %d\n", p, s.positions[p])
	}

	for _, o := range []game.Outcome{game.Win, game.Lose, game.Push, game.Bust} {
		if n := s.outcomes[o]; n > 0 {
			fmt.Fprintf(&b, "rounds %s: %d\n", o, n)
		}
	}
	return b.String()
}

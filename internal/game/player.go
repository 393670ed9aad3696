package game

import (
	"github.com/kwpid/singleplayer-blackjack/internal/deck"
)

// Kind distinguishes the three seat types. They differ only by who decides
// their actions, not by behavior overriding.
type Kind int

const (
	Human Kind = iota
	AI
	House
)

// String returns the string representation of a kind
func (k Kind) String() string {
	switch k {
	case Human:
		return "human"
	case AI:
		return "ai"
	case House:
		return "house"
	default:
		return "unknown"
	}
}

// Status is a participant's turn status within the current round
type Status int

const (
	Active Status = iota
	Stood
	Busted
)

// String returns the string representation of a status
func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Stood:
		return "stood"
	case Busted:
		return "busted"
	default:
		return "unknown"
	}
}

// Participant represents one seat at the table for the duration of a match
type Participant struct {
	ID        string
	Name      string
	Kind      Kind
	TeamID    int // 0 when the mode has no teams
	Hand      []deck.Card
	Status    Status
	RoundsWon int
}

// NewParticipant creates a participant with an empty hand
func NewParticipant(id, name string, kind Kind, teamID int) *Participant {
	return &Participant{
		ID:     id,
		Name:   name,
		Kind:   kind,
		TeamID: teamID,
		Hand:   make([]deck.Card, 0, 8),
	}
}

// Score returns the current blackjack value of the participant's hand.
// Always recomputed from the full hand, never patched incrementally.
func (p *Participant) Score() int {
	return Score(p.Hand)
}

// ResetForRound clears the hand and reactivates the seat for a new round
func (p *Participant) ResetForRound() {
	p.Hand = p.Hand[:0]
	p.Status = Active
}

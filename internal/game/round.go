package game

import (
	"errors"
	"fmt"

	"github.com/kwpid/singleplayer-blackjack/internal/bot"
	"github.com/kwpid/singleplayer-blackjack/internal/deck"
)

// ErrInvalidAction is returned when an action is attempted outside the state
// that accepts it. The round's state is unchanged.
var ErrInvalidAction = errors.New("invalid action for current phase")

// Phase is the round state machine's current state
type Phase int

const (
	Dealing Phase = iota
	HumanTurn
	AITurns
	DealerTurn
	Resolved
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case Dealing:
		return "dealing"
	case HumanTurn:
		return "human_turn"
	case AITurns:
		return "ai_turns"
	case DealerTurn:
		return "dealer_turn"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Outcome is a participant's result for one round
type Outcome int

const (
	Win Outcome = iota
	Lose
	Push
	Bust
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Lose:
		return "lose"
	case Push:
		return "push"
	case Bust:
		return "bust"
	default:
		return "unknown"
	}
}

// RoundOutcome records one non-house participant's result for a round
type RoundOutcome struct {
	ParticipantID string
	Outcome       Outcome
	FinalScore    int
}

// Round drives one deal-through-resolution cycle. Seats act in fixed order:
// human first, AI seats in creation order, house last in modes that have one.
// The machine is steppable so the presentation layer can insert pacing
// between seats; the core itself has no timing dependency.
type Round struct {
	deck     *deck.Deck
	seats    []*Participant
	mode     Mode
	phase    Phase
	aiIndex  int // index into seats of the next AI seat to act
	outcomes []RoundOutcome
}

// NewRound creates a round over the given seats. The deck is exclusively
// owned by the round while it is in flight.
func NewRound(d *deck.Deck, seats []*Participant, mode Mode) *Round {
	return &Round{
		deck:    d,
		seats:   seats,
		mode:    mode,
		phase:   Dealing,
		aiIndex: 1,
	}
}

// Phase returns the round's current phase
func (r *Round) Phase() Phase {
	return r.phase
}

// Outcomes returns the per-participant outcomes once the round is resolved
func (r *Round) Outcomes() []RoundOutcome {
	return r.outcomes
}

func (r *Round) human() *Participant {
	return r.seats[0]
}

// house returns the house seat, or nil in modes without one
func (r *Round) house() *Participant {
	if !r.mode.HasHouse() {
		return nil
	}
	return r.seats[len(r.seats)-1]
}

// Deal resets and shuffles the deck, resets every seat, and deals two cards
// to each in seat order. A natural blackjack for the human or the house
// short-circuits the round straight to resolution.
func (r *Round) Deal() error {
	if r.phase != Dealing {
		return ErrInvalidAction
	}

	r.deck.Reset()
	r.deck.Shuffle()

	for _, p := range r.seats {
		p.ResetForRound()
	}

	for i := 0; i < 2; i++ {
		for _, p := range r.seats {
			if err := r.drawTo(p); err != nil {
				return err
			}
		}
	}

	if house := r.house(); house != nil {
		if IsBlackjack(r.human().Hand) || IsBlackjack(house.Hand) {
			r.standRemaining()
			r.resolve()
			return nil
		}
	}

	r.phase = HumanTurn
	return nil
}

// Hit draws one card for the human. Busting ends the human's turn.
func (r *Round) Hit() error {
	if r.phase != HumanTurn {
		return ErrInvalidAction
	}

	p := r.human()
	if err := r.drawTo(p); err != nil {
		return err
	}

	if IsBust(p.Score()) {
		p.Status = Busted
		r.phase = AITurns
	}
	return nil
}

// Stand ends the human's turn
func (r *Round) Stand() error {
	if r.phase != HumanTurn {
		return ErrInvalidAction
	}

	r.human().Status = Stood
	r.phase = AITurns
	return nil
}

// Double draws exactly one card and forces a stand. Only legal while the
// human's hand still has exactly two cards.
func (r *Round) Double() error {
	if r.phase != HumanTurn {
		return ErrInvalidAction
	}

	p := r.human()
	if len(p.Hand) != 2 {
		return ErrInvalidAction
	}

	if err := r.drawTo(p); err != nil {
		return err
	}

	if IsBust(p.Score()) {
		p.Status = Busted
	} else {
		p.Status = Stood
	}
	r.phase = AITurns
	return nil
}

// StepAI resolves the next AI seat in seat order: draw under the fixed
// threshold policy until it stands or busts. When the last AI seat has acted
// the round moves to the dealer turn, or straight to resolution in modes
// without a house.
func (r *Round) StepAI() error {
	if r.phase != AITurns {
		return ErrInvalidAction
	}

	lastAI := len(r.seats) - 1
	if r.mode.HasHouse() {
		lastAI--
	}

	if r.aiIndex <= lastAI {
		if err := r.playOut(r.seats[r.aiIndex]); err != nil {
			return err
		}
		r.aiIndex++
	}

	if r.aiIndex > lastAI {
		if r.mode.HasHouse() {
			r.phase = DealerTurn
		} else {
			r.resolve()
		}
	}
	return nil
}

// StepDealer resolves the house seat and resolves the round. The hole card
// is hidden only at the display layer; it always scores fully here.
func (r *Round) StepDealer() error {
	if r.phase != DealerTurn {
		return ErrInvalidAction
	}

	if err := r.playOut(r.house()); err != nil {
		return err
	}
	r.resolve()
	return nil
}

// RunToResolution advances the round through all remaining AI and dealer
// turns. Legal once the human's turn is over.
func (r *Round) RunToResolution() error {
	for r.phase == AITurns {
		if err := r.StepAI(); err != nil {
			return err
		}
	}
	if r.phase == DealerTurn {
		if err := r.StepDealer(); err != nil {
			return err
		}
	}
	if r.phase != Resolved {
		return fmt.Errorf("round stalled in phase %s", r.phase)
	}
	return nil
}

// playOut applies the hit/stand policy to a seat until it stands or busts.
// Terminates: each draw raises the score and a score over 21 always busts.
func (r *Round) playOut(p *Participant) error {
	for bot.Decide(p.Score()) == bot.Hit {
		if err := r.drawTo(p); err != nil {
			return err
		}
		if IsBust(p.Score()) {
			p.Status = Busted
			return nil
		}
	}
	p.Status = Stood
	return nil
}

func (r *Round) drawTo(p *Participant) error {
	c, err := r.deck.Draw()
	if err != nil {
		return fmt.Errorf("drawing for %s: %w", p.Name, err)
	}
	p.Hand = append(p.Hand, c)
	return nil
}

// standRemaining marks every still-active seat as stood. Used by the
// blackjack short-circuit, where nobody else gets a turn.
func (r *Round) standRemaining() {
	for _, p := range r.seats {
		if p.Status == Active {
			p.Status = Stood
		}
	}
}

// resolve computes an outcome for every non-house participant and credits
// round wins.
func (r *Round) resolve() {
	house := r.house()

	if house != nil {
		for _, p := range r.seats {
			if p.Kind == House {
				continue
			}
			r.record(p, outcomeVsHouse(p, house))
		}
	} else {
		r.resolveFreeForAll()
	}

	r.phase = Resolved
}

func (r *Round) record(p *Participant, o Outcome) {
	if o == Win {
		p.RoundsWon++
	}
	r.outcomes = append(r.outcomes, RoundOutcome{
		ParticipantID: p.ID,
		Outcome:       o,
		FinalScore:    p.Score(),
	})
}

// outcomeVsHouse compares a participant to the house. A natural blackjack
// beats a non-blackjack 21.
func outcomeVsHouse(p, house *Participant) Outcome {
	score := p.Score()
	if IsBust(score) {
		return Bust
	}

	houseScore := house.Score()
	if IsBust(houseScore) {
		return Win
	}

	switch {
	case score > houseScore:
		return Win
	case score < houseScore:
		return Lose
	}

	natural, houseNatural := IsBlackjack(p.Hand), IsBlackjack(house.Hand)
	switch {
	case natural && !houseNatural:
		return Win
	case houseNatural && !natural:
		return Lose
	default:
		return Push
	}
}

// resolveFreeForAll ranks all seats against each other: the strict maximum
// scorer at or under 21 wins, a tie at the top pushes for those tied, and a
// full-table bust pushes for everyone. Naturals carry no extra weight here;
// with no house to compare against, a two-card 21 ties any other 21.
func (r *Round) resolveFreeForAll() {
	best := 0
	bestCount := 0
	for _, p := range r.seats {
		score := p.Score()
		if IsBust(score) {
			continue
		}
		if score > best {
			best = score
			bestCount = 1
		} else if score == best {
			bestCount++
		}
	}

	for _, p := range r.seats {
		score := p.Score()
		switch {
		case bestCount == 0:
			// Full-table bust.
			r.record(p, Push)
		case IsBust(score):
			r.record(p, Bust)
		case score == best && bestCount == 1:
			r.record(p, Win)
		case score == best:
			r.record(p, Push)
		default:
			r.record(p, Lose)
		}
	}
}

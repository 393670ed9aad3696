package deck

import (
	"errors"
	"math/rand"
)

// ErrExhausted is returned by Draw when the deck is empty. A fresh 52-card
// deck per round makes this unreachable in normal play; callers treat it as
// fatal to the current round only.
var ErrExhausted = errors.New("deck exhausted")

// Deck represents an ordered deck of playing cards
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full ordered 52-card deck. The RNG is required to make
// randomness explicit and testing deterministic.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	d.fill()
	return d
}

func (d *Deck) fill() {
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Ace; rank <= King; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
}

// Reset restores the deck to the full ordered 52-card set. It does not
// shuffle; callers must Shuffle before dealing.
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	d.fill()
}

// Shuffle randomizes the order of cards in the deck (Fisher-Yates)
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top (last) card from the deck
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrExhausted
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the deck's current contents, top card last
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

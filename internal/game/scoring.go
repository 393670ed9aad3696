package game

import (
	"github.com/kwpid/singleplayer-blackjack/internal/deck"
)

// BustThreshold is the score above which a hand is busted.
const BustThreshold = 21

// Score computes the blackjack value of a hand. Non-ace cards contribute
// their point value first; each ace then counts 11 if that keeps the running
// total at or below 21, otherwise 1. Scoring the aces against the running
// total is what gives standard soft/hard hand semantics.
func Score(hand []deck.Card) int {
	total := 0
	aces := 0

	for _, c := range hand {
		if c.IsAce() {
			aces++
		} else {
			total += c.PointValue()
		}
	}

	for i := 0; i < aces; i++ {
		if total+11 <= BustThreshold {
			total += 11
		} else {
			total++
		}
	}

	return total
}

// IsBust returns true if the score exceeds 21
func IsBust(score int) bool {
	return score > BustThreshold
}

// IsBlackjack returns true for a natural: exactly two cards totalling 21.
// A three-card 21 is not a blackjack.
func IsBlackjack(hand []deck.Card) bool {
	return len(hand) == 2 && Score(hand) == BustThreshold
}

// Package bot holds the AI seat behavior: the fixed-threshold hit/stand
// policy shared by AI seats and the house, and the display-name pools.
package bot

// Decision is a hit-or-stand choice
type Decision int

const (
	Hit Decision = iota
	Stand
)

// String returns the string representation of a decision
func (d Decision) String() string {
	if d == Stand {
		return "stand"
	}
	return "hit"
}

// standThreshold is the dealer-standard fixed threshold: hit on 16 or less,
// stand on 17 or more.
const standThreshold = 17

// Decide maps a hand score to hit or stand. Pure: no randomness, no
// lookahead, no adaptation to opponents' visible cards.
func Decide(score int) Decision {
	if score >= standThreshold {
		return Stand
	}
	return Hit
}

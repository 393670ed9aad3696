// Package rating holds the pure skill-rating math: per-mode deltas applied
// after a match, and the rating-derived matchmaking queue wait.
package rating

import (
	"time"

	"github.com/kwpid/singleplayer-blackjack/internal/game"
)

// Floor is the minimum rating; cumulative losses never push below it.
const Floor = 1

// Default is the rating assigned to a fresh profile.
const Default = 1000

// Delta returns the signed rating change for finishing a match at the given
// position. Draws carry no rating effect in the house modes.
func Delta(mode game.Mode, position int, drawn bool) int {
	switch mode {
	case game.HeadToHead:
		if drawn {
			return 0
		}
		if position == 1 {
			return 25
		}
		return -25

	case game.Team:
		if drawn {
			return 0
		}
		if position == 1 {
			return 20
		}
		return -20

	case game.FreeForAll:
		switch position {
		case 1:
			return 30
		case 2:
			return 15
		case 3:
			return 5
		default:
			return 0
		}
	}
	return 0
}

// Apply adds a delta to a rating, clamped at the floor
func Apply(current, delta int) int {
	next := current + delta
	if next < Floor {
		return Floor
	}
	return next
}

const (
	minQueueWait = 3 * time.Second
	maxQueueWait = 20 * time.Second
)

// QueueWait maps a rating to a matchmaking wait, bounded to [3s, 20s] and
// monotonically non-decreasing in rating. Display pacing only; never a
// gameplay input.
func QueueWait(rating int) time.Duration {
	wait := time.Duration(rating/100) * time.Second
	if wait < minQueueWait {
		return minQueueWait
	}
	if wait > maxQueueWait {
		return maxQueueWait
	}
	return wait
}

package bot

import (
	"fmt"
	"math/rand"
)

var regularNames = []string{
	"Alex", "Sam", "Jordan", "Casey", "Morgan", "Taylor", "Riley", "Quinn",
	"Avery", "Blake", "Cameron", "Drew", "Emery", "Finley", "Gray", "Harper",
}

var highRankedNames = []string{
	"Shadow", "Viper", "Phoenix", "Raven", "Wolf", "Eagle", "Tiger", "Dragon",
	"Frost", "Blaze", "Storm", "Thunder", "Void", "Nova", "Zen", "Apex",
}

// Namer hands out AI display names, unique within one match
type Namer struct {
	rng  *rand.Rand
	used map[string]bool
}

// NewNamer creates a namer drawing from the shared name pools
func NewNamer(rng *rand.Rand) *Namer {
	return &Namer{rng: rng, used: make(map[string]bool)}
}

// Draw picks an unused name: 70% chance from the regular pool, 30% from the
// high-ranked pool. Falls back to the other pool when one runs dry.
func (n *Namer) Draw() string {
	primary, secondary := regularNames, highRankedNames
	if n.rng.Float64() >= 0.7 {
		primary, secondary = highRankedNames, regularNames
	}

	if name, ok := n.pick(primary); ok {
		return name
	}
	if name, ok := n.pick(secondary); ok {
		return name
	}
	// Both pools exhausted; only reachable with 32+ AI seats.
	name := fmt.Sprintf("Player%d", len(n.used)+1)
	n.used[name] = true
	return name
}

func (n *Namer) pick(pool []string) (string, bool) {
	free := make([]string, 0, len(pool))
	for _, name := range pool {
		if !n.used[name] {
			free = append(free, name)
		}
	}
	if len(free) == 0 {
		return "", false
	}
	name := free[n.rng.Intn(len(free))]
	n.used[name] = true
	return name, true
}

package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwpid/singleplayer-blackjack/internal/deck"
)

// fixedRound builds a round in a chosen phase with hands set directly,
// bypassing the deal, so resolution rules can be tested on exact scores.
func fixedRound(mode Mode, seats []*Participant) *Round {
	return NewRound(deck.New(rand.New(rand.NewSource(1))), seats, mode)
}

func seat(id string, kind Kind, team int, cards ...deck.Card) *Participant {
	p := NewParticipant(id, id, kind, team)
	p.Hand = cards
	return p
}

func outcomeFor(t *testing.T, outcomes []RoundOutcome, id string) RoundOutcome {
	t.Helper()
	for _, o := range outcomes {
		if o.ParticipantID == id {
			return o
		}
	}
	t.Fatalf("no outcome for %s", id)
	return RoundOutcome{}
}

func TestOutcomeVsHouse(t *testing.T) {
	tests := []struct {
		name  string
		player []deck.Card
		house  []deck.Card
		want   Outcome
	}{
		{
			"player 20 beats house 19",
			[]deck.Card{card(deck.Spades, deck.King), card(deck.Hearts, deck.Queen)},
			[]deck.Card{card(deck.Clubs, deck.King), card(deck.Diamonds, deck.Nine)},
			Win,
		},
		{
			"player bust loses regardless of house",
			[]deck.Card{card(deck.Spades, deck.King), card(deck.Hearts, deck.Queen), card(deck.Clubs, deck.Five)},
			[]deck.Card{card(deck.Clubs, deck.Ten), card(deck.Diamonds, deck.Eight)},
			Bust,
		},
		{
			"house bust is a win",
			[]deck.Card{card(deck.Spades, deck.Ten), card(deck.Hearts, deck.Five)},
			[]deck.Card{card(deck.Clubs, deck.King), card(deck.Diamonds, deck.Queen), card(deck.Hearts, deck.Five)},
			Win,
		},
		{
			"house higher score loses",
			[]deck.Card{card(deck.Spades, deck.Ten), card(deck.Hearts, deck.Eight)},
			[]deck.Card{card(deck.Clubs, deck.King), card(deck.Diamonds, deck.Nine)},
			Lose,
		},
		{
			"equal scores push",
			[]deck.Card{card(deck.Spades, deck.Ten), card(deck.Hearts, deck.Nine)},
			[]deck.Card{card(deck.Clubs, deck.King), card(deck.Diamonds, deck.Nine)},
			Push,
		},
		{
			"natural beats non-natural 21",
			[]deck.Card{card(deck.Spades, deck.Ace), card(deck.Hearts, deck.King)},
			[]deck.Card{card(deck.Clubs, deck.Seven), card(deck.Diamonds, deck.Seven), card(deck.Hearts, deck.Seven)},
			Win,
		},
		{
			"house natural beats non-natural 21",
			[]deck.Card{card(deck.Clubs, deck.Seven), card(deck.Diamonds, deck.Seven), card(deck.Hearts, deck.Seven)},
			[]deck.Card{card(deck.Spades, deck.Ace), card(deck.Hearts, deck.King)},
			Lose,
		},
		{
			"two naturals push",
			[]deck.Card{card(deck.Spades, deck.Ace), card(deck.Hearts, deck.King)},
			[]deck.Card{card(deck.Clubs, deck.Ace), card(deck.Diamonds, deck.Queen)},
			Push,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := seat("p", Human, 1, test.player...)
			house := seat("house", House, 0, test.house...)
			assert.Equal(t, test.want, outcomeVsHouse(p, house))
		})
	}
}

func TestResolveHeadToHead(t *testing.T) {
	human := seat("you", Human, 1,
		card(deck.Spades, deck.King), card(deck.Hearts, deck.Queen)) // 20
	ai := seat("ai-1", AI, 2,
		card(deck.Clubs, deck.Ten), card(deck.Diamonds, deck.Six)) // 16
	house := seat("house", House, 0,
		card(deck.Spades, deck.Ten), card(deck.Clubs, deck.Nine)) // 19

	r := fixedRound(HeadToHead, []*Participant{human, ai, house})
	r.resolve()

	assert.Equal(t, Win, outcomeFor(t, r.Outcomes(), "you").Outcome)
	assert.Equal(t, Lose, outcomeFor(t, r.Outcomes(), "ai-1").Outcome)
	assert.Equal(t, 1, human.RoundsWon)
	assert.Equal(t, 0, ai.RoundsWon)

	// No outcome is recorded for the house.
	assert.Len(t, r.Outcomes(), 2)
}

func TestResolveFreeForAll(t *testing.T) {
	player := seat("you", Human, 1,
		card(deck.Spades, deck.King), card(deck.Hearts, deck.Queen)) // 20
	aiA := seat("ai-1", AI, 2,
		card(deck.Clubs, deck.Ten), card(deck.Diamonds, deck.Nine)) // 19
	aiB := seat("ai-2", AI, 3,
		card(deck.Spades, deck.Ten), card(deck.Clubs, deck.Seven), card(deck.Hearts, deck.Five)) // 22

	r := fixedRound(FreeForAll, []*Participant{player, aiA, aiB})
	r.resolve()

	assert.Equal(t, Win, outcomeFor(t, r.Outcomes(), "you").Outcome)
	assert.Equal(t, Lose, outcomeFor(t, r.Outcomes(), "ai-1").Outcome)
	assert.Equal(t, Bust, outcomeFor(t, r.Outcomes(), "ai-2").Outcome)
	assert.Equal(t, 1, player.RoundsWon)
}

func TestResolveFreeForAllFullTableBust(t *testing.T) {
	bustHand := []deck.Card{
		card(deck.Spades, deck.King), card(deck.Hearts, deck.Queen), card(deck.Clubs, deck.Five),
	}
	a := seat("you", Human, 1, bustHand...)
	b := seat("ai-1", AI, 2, bustHand...)

	r := fixedRound(FreeForAll, []*Participant{a, b})
	r.resolve()

	assert.Equal(t, Push, outcomeFor(t, r.Outcomes(), "you").Outcome)
	assert.Equal(t, Push, outcomeFor(t, r.Outcomes(), "ai-1").Outcome)
	assert.Equal(t, 0, a.RoundsWon)
	assert.Equal(t, 0, b.RoundsWon)
}

func TestResolveFreeForAllTieAtTopPushes(t *testing.T) {
	twenty := []deck.Card{card(deck.Spades, deck.King), card(deck.Hearts, deck.Queen)}
	a := seat("you", Human, 1, twenty...)
	b := seat("ai-1", AI, 2, card(deck.Clubs, deck.King), card(deck.Diamonds, deck.Queen))
	c := seat("ai-2", AI, 3, card(deck.Clubs, deck.Ten), card(deck.Diamonds, deck.Eight))

	r := fixedRound(FreeForAll, []*Participant{a, b, c})
	r.resolve()

	assert.Equal(t, Push, outcomeFor(t, r.Outcomes(), "you").Outcome)
	assert.Equal(t, Push, outcomeFor(t, r.Outcomes(), "ai-1").Outcome)
	assert.Equal(t, Lose, outcomeFor(t, r.Outcomes(), "ai-2").Outcome)
	assert.Equal(t, 0, a.RoundsWon, "no strict maximum means no round win")
}

func TestResolveFreeForAllNaturalTiesOtherTwentyOne(t *testing.T) {
	natural := seat("you", Human, 1,
		card(deck.Spades, deck.Ace), card(deck.Hearts, deck.King)) // 21 in two
	drawn := seat("ai-1", AI, 2,
		card(deck.Clubs, deck.Seven), card(deck.Diamonds, deck.Five), card(deck.Clubs, deck.Nine)) // 21 in three

	r := fixedRound(FreeForAll, []*Participant{natural, drawn})
	r.resolve()

	assert.Equal(t, Push, outcomeFor(t, r.Outcomes(), "you").Outcome)
	assert.Equal(t, Push, outcomeFor(t, r.Outcomes(), "ai-1").Outcome)
	assert.Equal(t, 0, natural.RoundsWon)
}

func TestDealGivesEveryoneTwoCards(t *testing.T) {
	m := NewMatch(rand.New(rand.NewSource(42)), Team)
	_, err := m.StartRound()
	require.NoError(t, err)

	for _, p := range m.Participants {
		assert.Len(t, p.Hand, 2, "seat %s", p.ID)
	}

	// 5 seats * 2 cards leaves 42 in the deck.
	assert.Equal(t, 42, m.deck.Remaining())
}

func TestActionsRejectedOutsideHumanTurn(t *testing.T) {
	m := NewMatch(rand.New(rand.NewSource(42)), HeadToHead)
	r, err := m.StartRound()
	require.NoError(t, err)

	if r.Phase() != HumanTurn {
		t.Skip("seed dealt a natural; short-circuited to resolution")
	}

	require.NoError(t, r.Stand())
	assert.Equal(t, AITurns, r.Phase())

	handBefore := len(m.Participants[0].Hand)
	assert.ErrorIs(t, r.Hit(), ErrInvalidAction)
	assert.ErrorIs(t, r.Stand(), ErrInvalidAction)
	assert.ErrorIs(t, r.Double(), ErrInvalidAction)
	assert.ErrorIs(t, r.StepDealer(), ErrInvalidAction)
	assert.Len(t, m.Participants[0].Hand, handBefore, "rejected actions leave state unchanged")
}

func TestDoubleRejectedWithThreeCards(t *testing.T) {
	for seedAttempt := int64(0); seedAttempt < 50; seedAttempt++ {
		m := NewMatch(rand.New(rand.NewSource(seedAttempt)), HeadToHead)
		r, err := m.StartRound()
		require.NoError(t, err)
		if r.Phase() != HumanTurn {
			continue
		}

		require.NoError(t, r.Hit())
		if r.Phase() != HumanTurn {
			continue // busted on the hit
		}

		human := m.Participants[0]
		require.Len(t, human.Hand, 3)
		assert.ErrorIs(t, r.Double(), ErrInvalidAction)
		assert.Len(t, human.Hand, 3, "double must be a no-op with three cards")
		assert.Equal(t, HumanTurn, r.Phase())
		return
	}
	t.Fatal("no seed produced a three-card active human hand")
}

func TestDoubleDrawsExactlyOneAndStands(t *testing.T) {
	for seedAttempt := int64(0); seedAttempt < 50; seedAttempt++ {
		m := NewMatch(rand.New(rand.NewSource(seedAttempt)), HeadToHead)
		r, err := m.StartRound()
		require.NoError(t, err)
		if r.Phase() != HumanTurn {
			continue
		}

		human := m.Participants[0]
		require.NoError(t, r.Double())
		assert.Len(t, human.Hand, 3)
		assert.NotEqual(t, Active, human.Status, "double forces the turn to end")
		assert.Equal(t, AITurns, r.Phase())
		return
	}
	t.Fatal("no seed produced an active human turn")
}

func TestRunToResolutionTerminates(t *testing.T) {
	for _, mode := range []Mode{HeadToHead, Team, FreeForAll} {
		t.Run(mode.String(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			for i := 0; i < 20; i++ {
				m := NewMatch(rng, mode)
				r, err := m.StartRound()
				require.NoError(t, err)

				if r.Phase() == HumanTurn {
					require.NoError(t, r.Stand())
				}
				require.NoError(t, r.RunToResolution())
				assert.Equal(t, Resolved, r.Phase())

				// Every non-house seat has an outcome.
				want := len(m.Participants)
				if mode.HasHouse() {
					want--
				}
				assert.Len(t, r.Outcomes(), want)
			}
		})
	}
}

func TestAISeatsFollowThresholdPolicy(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		m := NewMatch(rng, FreeForAll)
		r, err := m.StartRound()
		require.NoError(t, err)
		if r.Phase() == HumanTurn {
			require.NoError(t, r.Stand())
		}
		require.NoError(t, r.RunToResolution())

		for _, p := range m.Participants {
			if p.Kind != AI {
				continue
			}
			score := p.Score()
			if p.Status == Stood {
				assert.GreaterOrEqual(t, score, 17, "stood AI must be at 17+")
				assert.LessOrEqual(t, score, 21)
			} else {
				assert.Equal(t, Busted, p.Status)
				assert.Greater(t, score, 21)
			}
		}
	}
}

func TestBlackjackShortCircuit(t *testing.T) {
	// Hunt a seed where the human or house is dealt a natural in a house
	// mode; the round must resolve with no further turns taken.
	for seedAttempt := int64(0); seedAttempt < 5000; seedAttempt++ {
		m := NewMatch(rand.New(rand.NewSource(seedAttempt)), HeadToHead)
		r, err := m.StartRound()
		require.NoError(t, err)
		if r.Phase() != Resolved {
			continue
		}

		human := m.Participants[0]
		house := m.Participants[len(m.Participants)-1]
		assert.True(t, IsBlackjack(human.Hand) || IsBlackjack(house.Hand))
		for _, p := range m.Participants {
			assert.Len(t, p.Hand, 2, "short-circuit means nobody draws past the deal")
		}
		return
	}
	t.Fatal("no seed dealt a natural within the attempt budget")
}

package session

import (
	"context"
	"io"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwpid/singleplayer-blackjack/internal/game"
	"github.com/kwpid/singleplayer-blackjack/internal/profile"
)

func newTestSession(t *testing.T, seed int64) (*Session, *profile.Store) {
	t.Helper()
	store := profile.NewStore(filepath.Join(t.TempDir(), "profile.json"))
	logger := log.New(io.Discard)
	s := New(logger, quartz.NewReal(), rand.New(rand.NewSource(seed)), store)
	return s, store
}

// playMatch drives a match to completion by standing every round
func playMatch(t *testing.T, s *Session, mode game.Mode) Snapshot {
	t.Helper()
	snap, err := s.SelectMode(mode)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		switch {
		case !snap.InMatch:
			require.NotNil(t, snap.Result)
			return snap
		case snap.Phase == game.HumanTurn:
			snap, err = s.Stand()
		case snap.Phase == game.Resolved:
			snap, err = s.AdvanceRound()
		default:
			t.Fatalf("unexpected phase %s", snap.Phase)
		}
		require.NoError(t, err)
	}
	t.Fatal("match did not finish")
	return Snapshot{}
}

func TestActionsBeforeMatch(t *testing.T) {
	s, _ := newTestSession(t, 42)

	_, err := s.Hit()
	assert.ErrorIs(t, err, ErrNoMatch)
	_, err = s.Stand()
	assert.ErrorIs(t, err, ErrNoMatch)
	_, err = s.AdvanceRound()
	assert.ErrorIs(t, err, ErrNoMatch)
	_, err = s.AbandonMatch()
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestSelectModeDealsFirstRound(t *testing.T) {
	s, _ := newTestSession(t, 42)

	snap, err := s.SelectMode(game.Team)
	require.NoError(t, err)

	assert.True(t, snap.InMatch)
	assert.Equal(t, game.Team, snap.Mode)
	assert.Equal(t, 5, snap.MaxRounds)
	assert.Len(t, snap.Seats, 5)
	for _, seat := range snap.Seats {
		assert.Len(t, seat.Cards, 2)
	}

	_, err = s.SelectMode(game.FreeForAll)
	assert.ErrorIs(t, err, ErrMatchInProgress)
}

func TestFullMatchUpdatesAndPersistsProfile(t *testing.T) {
	s, store := newTestSession(t, 42)

	snap := playMatch(t, s, game.HeadToHead)

	require.NotNil(t, snap.Result)
	assert.Equal(t, game.HeadToHead, snap.Result.Mode)
	assert.Positive(t, snap.Result.HumanPosition())

	p := s.Profile()
	assert.Equal(t, 1, p.Stats.GamesPlayed)
	assert.Equal(t, snap.Rating, p.Rating)

	// The persistence collaborator received the same record.
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, p, saved)
}

func TestDoubleRejectedAfterHit(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		s, _ := newTestSession(t, seed)
		snap, err := s.SelectMode(game.HeadToHead)
		require.NoError(t, err)
		if snap.Phase != game.HumanTurn {
			continue
		}

		snap, err = s.Hit()
		require.NoError(t, err)
		if snap.Phase != game.HumanTurn {
			continue
		}

		before := snap.Seats[0]
		snap, err = s.Double()
		assert.ErrorIs(t, err, game.ErrInvalidAction)
		assert.Equal(t, before, snap.Seats[0], "rejected double leaves the hand unchanged")
		return
	}
	t.Fatal("no seed produced a three-card active human hand")
}

func TestAbandonOnlyBetweenRounds(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		s, store := newTestSession(t, seed)
		snap, err := s.SelectMode(game.FreeForAll)
		require.NoError(t, err)
		if snap.Phase != game.HumanTurn {
			continue
		}

		_, err = s.AbandonMatch()
		assert.ErrorIs(t, err, ErrMidRound)

		snap, err = s.Stand()
		require.NoError(t, err)
		require.Equal(t, game.Resolved, snap.Phase)

		snap, err = s.AbandonMatch()
		require.NoError(t, err)
		assert.False(t, snap.InMatch)

		// No partial commit: the store still has defaults.
		saved, err := store.Load()
		require.NoError(t, err)
		assert.Zero(t, saved.Stats.GamesPlayed)
		assert.Equal(t, 1000, saved.Rating)
		return
	}
	t.Fatal("no seed produced an active human turn")
}

func TestPersistenceUnavailableDoesNotBlockGameplay(t *testing.T) {
	// The store path is a directory: loads and saves both fail.
	dir := t.TempDir()
	store := profile.NewStore(dir)
	s := New(log.New(io.Discard), quartz.NewReal(), rand.New(rand.NewSource(42)), store)

	assert.Equal(t, 1000, s.Profile().Rating, "defaults apply when the store is unreadable")

	snap := playMatch(t, s, game.HeadToHead)
	require.NotNil(t, snap.Result)
	assert.Equal(t, 1, s.Profile().Stats.GamesPlayed, "match completed in memory")
}

func TestRoundOutcomesExposedInSnapshot(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		s, _ := newTestSession(t, seed)
		snap, err := s.SelectMode(game.HeadToHead)
		require.NoError(t, err)
		if snap.Phase != game.HumanTurn {
			continue
		}

		snap, err = s.Stand()
		require.NoError(t, err)
		require.Equal(t, game.Resolved, snap.Phase)

		// Outcomes for human and AI opponent, none for the house.
		assert.Len(t, snap.Outcomes, 2)
		return
	}
	t.Fatal("no seed produced an active human turn")
}

func TestWaitForMatchTicksToCompletion(t *testing.T) {
	mock := quartz.NewMock(t)
	store := profile.NewStore(filepath.Join(t.TempDir(), "profile.json"))
	s := New(log.New(io.Discard), mock, rand.New(rand.NewSource(1)), store)

	// Default rating 1000 maps to a 10 second wait.
	require.Equal(t, 10*time.Second, s.QueueWait())

	trap := mock.Trap().TickerFunc("queue")
	defer trap.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ticks int
	done := make(chan error, 1)
	go func() {
		done <- s.WaitForMatch(ctx, func(elapsed, remaining time.Duration) {
			ticks++
		})
	}()

	call := trap.MustWait(ctx)
	call.Release()

	for i := 0; i < 10; i++ {
		mock.Advance(time.Second).MustWait(ctx)
	}

	require.NoError(t, <-done)
	assert.Equal(t, 10, ticks)
}

func TestWaitForMatchCancel(t *testing.T) {
	mock := quartz.NewMock(t)
	store := profile.NewStore(filepath.Join(t.TempDir(), "profile.json"))
	s := New(log.New(io.Discard), mock, rand.New(rand.NewSource(1)), store)

	trap := mock.Trap().TickerFunc("queue")
	defer trap.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.WaitForMatch(ctx, nil)
	}()

	call := trap.MustWait(context.Background())
	call.Release()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

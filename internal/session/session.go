// Package session exposes the action interface the driving UI talks to:
// mode selection, the human's turn actions, round advancement, and match
// abandonment. Every action returns a snapshot of the post-action state.
//
// The session is logically single-threaded and turn-driven; exactly one
// seat's resolution is ever active, so no locking is needed anywhere below.
package session

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/kwpid/singleplayer-blackjack/internal/game"
	"github.com/kwpid/singleplayer-blackjack/internal/profile"
	"github.com/kwpid/singleplayer-blackjack/internal/rating"
)

var (
	// ErrNoMatch is returned for actions that need a match in progress
	ErrNoMatch = errors.New("no match in progress")
	// ErrMatchInProgress is returned when selecting a mode mid-match
	ErrMatchInProgress = errors.New("match already in progress")
	// ErrMidRound is returned when abandoning with a round still in flight
	ErrMidRound = errors.New("cannot abandon mid-round")
)

// errQueueDone stops the queue ticker once the wait has elapsed
var errQueueDone = errors.New("queue complete")

// Session owns one player's gameplay state: the loaded profile, the current
// match, and the persistence collaborator.
type Session struct {
	logger *log.Logger
	clock  quartz.Clock
	rng    *rand.Rand
	store  *profile.Store

	profile    profile.Profile
	match      *game.Match
	lastResult *game.MatchResult
	lastDelta  int
}

// New creates a session, loading the persisted profile. A failed load
// degrades to the default profile with a warning; it never blocks gameplay.
func New(logger *log.Logger, clock quartz.Clock, rng *rand.Rand, store *profile.Store) *Session {
	p, err := store.Load()
	if err != nil {
		logger.Warn("profile unavailable, starting with defaults", "err", err)
	}
	return &Session{
		logger:  logger,
		clock:   clock,
		rng:     rng,
		store:   store,
		profile: p,
	}
}

// Profile returns the current in-memory profile
func (s *Session) Profile() profile.Profile {
	return s.profile
}

// QueueWait returns the matchmaking wait for the player's current rating
func (s *Session) QueueWait() time.Duration {
	return rating.QueueWait(s.profile.Rating)
}

// WaitForMatch blocks for the rating-derived queue duration, invoking onTick
// once per second. Display pacing only; cancel the context to leave the
// queue.
func (s *Session) WaitForMatch(ctx context.Context, onTick func(elapsed, remaining time.Duration)) error {
	total := s.QueueWait()
	var elapsed time.Duration

	waiter := s.clock.TickerFunc(ctx, time.Second, func() error {
		elapsed += time.Second
		if onTick != nil {
			onTick(elapsed, total-elapsed)
		}
		if elapsed >= total {
			return errQueueDone
		}
		return nil
	}, "queue")

	if err := waiter.Wait(); !errors.Is(err, errQueueDone) {
		return err
	}
	return nil
}

// SelectMode starts a match in the given mode and deals the first round
func (s *Session) SelectMode(mode game.Mode) (Snapshot, error) {
	if s.match != nil {
		return s.snapshot(), ErrMatchInProgress
	}

	s.match = game.NewMatch(s.rng, mode)
	s.lastResult = nil
	s.lastDelta = 0
	s.logger.Info("match started", "mode", mode, "rounds", s.match.MaxRounds)

	if err := s.deal(); err != nil {
		return s.snapshot(), err
	}
	return s.snapshot(), nil
}

// Hit draws one card for the human
func (s *Session) Hit() (Snapshot, error) {
	return s.humanAction("hit", func(r *game.Round) error { return r.Hit() })
}

// Stand ends the human's turn
func (s *Session) Stand() (Snapshot, error) {
	return s.humanAction("stand", func(r *game.Round) error { return r.Stand() })
}

// Double draws exactly one card and forces a stand; legal only on a
// two-card hand.
func (s *Session) Double() (Snapshot, error) {
	return s.humanAction("double", func(r *game.Round) error { return r.Double() })
}

// AdvanceRound finishes a resolved round and starts the next one, or
// finalizes the match after the last round. After a deck-exhaustion abandon
// it redeals the current round.
func (s *Session) AdvanceRound() (Snapshot, error) {
	if s.match == nil {
		return s.snapshot(), ErrNoMatch
	}

	if r := s.match.Round(); r != nil {
		if r.Phase() != game.Resolved {
			return s.snapshot(), game.ErrInvalidAction
		}
		if err := s.match.FinishRound(); err != nil {
			return s.snapshot(), err
		}
	}

	if s.match.IsOver() {
		s.finalize()
		return s.snapshot(), nil
	}

	if err := s.deal(); err != nil {
		return s.snapshot(), err
	}
	return s.snapshot(), nil
}

// AbandonMatch discards the current match. Legal only between rounds; no
// partial rating or statistics commit happens.
func (s *Session) AbandonMatch() (Snapshot, error) {
	if s.match == nil {
		return s.snapshot(), ErrNoMatch
	}
	if r := s.match.Round(); r != nil && r.Phase() != game.Resolved {
		return s.snapshot(), ErrMidRound
	}

	s.logger.Info("match abandoned", "mode", s.match.Mode, "round", s.match.CurrentRound)
	s.match = nil
	s.lastResult = nil
	s.lastDelta = 0
	return s.snapshot(), nil
}

// deal starts the next round; on deck exhaustion the round is discarded and
// the error reported, leaving the caller free to redeal or abandon.
func (s *Session) deal() error {
	r, err := s.match.StartRound()
	if err != nil {
		return err
	}

	s.logger.Debug("round dealt", "round", s.match.CurrentRound+1, "phase", r.Phase())

	// A natural blackjack short-circuits straight past every turn.
	if r.Phase() == game.Resolved {
		s.logRoundOutcomes(r)
	}
	return nil
}

func (s *Session) humanAction(name string, fn func(*game.Round) error) (Snapshot, error) {
	if s.match == nil {
		return s.snapshot(), ErrNoMatch
	}
	r := s.match.Round()
	if r == nil {
		return s.snapshot(), game.ErrInvalidAction
	}

	if err := fn(r); err != nil {
		if errors.Is(err, game.ErrInvalidAction) {
			s.logger.Debug("action rejected", "action", name, "phase", r.Phase())
			return s.snapshot(), err
		}
		// Deck exhaustion: fatal to this round only.
		s.logger.Error("round aborted", "action", name, "err", err)
		s.match.AbandonRound()
		return s.snapshot(), err
	}

	s.logger.Debug("human action", "action", name, "score", s.match.Participants[0].Score())

	if r.Phase() != game.HumanTurn && r.Phase() != game.Resolved {
		if err := r.RunToResolution(); err != nil {
			s.logger.Error("round aborted", "err", err)
			s.match.AbandonRound()
			return s.snapshot(), err
		}
	}
	if r.Phase() == game.Resolved {
		s.logRoundOutcomes(r)
	}
	return s.snapshot(), nil
}

func (s *Session) logRoundOutcomes(r *game.Round) {
	for _, o := range r.Outcomes() {
		s.logger.Debug("round outcome", "participant", o.ParticipantID,
			"outcome", o.Outcome, "score", o.FinalScore)
	}
}

// finalize computes the match result, folds it into the profile, and hands
// the updated record to the persistence collaborator.
func (s *Session) finalize() {
	result, err := s.match.Result()
	if err != nil {
		// Unreachable: finalize is only called once IsOver.
		s.logger.Error("result computation failed", "err", err)
		s.match = nil
		return
	}

	s.lastDelta = s.profile.RecordMatch(result)
	s.lastResult = &result
	s.match = nil

	s.logger.Info("match finished",
		"mode", result.Mode,
		"position", result.HumanPosition(),
		"drawn", result.Drawn,
		"delta", s.lastDelta,
		"rating", s.profile.Rating)

	if err := s.store.Save(s.profile); err != nil {
		s.logger.Warn("profile save failed, continuing in memory", "err", err)
	}
}

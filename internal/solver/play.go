// internal/solver/play.go
//
// Self-play: drives a Solver against a CodeMaker until the game ends.

package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

// CodeMaker answers guesses against a secret it keeps to itself.
// *game.Secret satisfies it.
type CodeMaker interface {
	Feedback(guess game.Code) (game.Feedback, error)
}

// Outcome summarises a finished self-play game.
type Outcome struct {
	Solved  bool
	Code    game.Code // the final guess; the secret when Solved
	Rounds  []Round
	Elapsed time.Duration
	Err     error
}

// Play drives s against maker until the game terminates or ctx is done.
// There is no turn limit; the loop is bounded by the candidate universe.
// The returned error is the failure reason (also in Outcome.Err) or the
// context error.
func Play(ctx context.Context, s *Solver, maker CodeMaker) (Outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Outcome{Rounds: s.Rounds(), Elapsed: s.Elapsed(), Err: err}, fmt.Errorf("play interrupted after %d rounds: %w", len(s.rounds), err)
		}
		guess := s.CurrentGuess()
		fb, err := maker.Feedback(guess)
		if err != nil {
			return Outcome{Rounds: s.Rounds(), Elapsed: s.Elapsed(), Err: err}, fmt.Errorf("feedback for %v: %w", guess, err)
		}
		action, err := s.SubmitFeedback(fb)
		switch action.Kind {
		case ActionSolved:
			return Outcome{Solved: true, Code: guess, Rounds: s.Rounds(), Elapsed: action.Elapsed}, nil
		case ActionFailed:
			return Outcome{Code: guess, Rounds: s.Rounds(), Elapsed: s.Elapsed(), Err: err}, err
		}
	}
}

// SolveSecret is the self-play shortcut: a fresh solver for the secret's
// length, played to the end. The secret must fit the alphabet.
func SolveSecret(ctx context.Context, alphabetSize int, secret game.Code, opts ...Option) (Outcome, error) {
	if err := game.NewAlphabet(alphabetSize).Validate(secret, len(secret)); err != nil {
		return Outcome{}, err
	}
	s, err := New(alphabetSize, len(secret), opts...)
	if err != nil {
		return Outcome{}, err
	}
	return Play(ctx, s, game.NewSecret(secret, s.Rule()))
}

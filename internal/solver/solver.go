// internal/solver/solver.go
//
// Code-breaker state machine for a single game.
// Responsibilities:
//   - Build the candidate universe and propose the fixed opening guess.
//   - Accept feedback for the current guess, eliminate inconsistent
//     candidates and select the next guess.
//   - Track state transitions: initializing → awaiting feedback →
//     eliminating → selecting → terminated (solved or failed).
//
// Notes:
//   - A Solver owns its candidate set for the lifetime of one game and is
//     not safe for concurrent use. Callers that share one across goroutines
//     (the HTTP session store) serialise access themselves.
//   - The opening is seeded but stays in the candidate set; every guess the
//     selector picks is consumed. The opening can therefore come back once,
//     and the game still ends within |universe|+1 rounds.

package solver

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
)

// State is the solver's position in its game.
type State int

const (
	StateInitializing State = iota
	StateAwaitingFeedback
	StateEliminating
	StateSelecting
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAwaitingFeedback:
		return "awaiting_feedback"
	case StateEliminating:
		return "eliminating"
	case StateSelecting:
		return "selecting"
	case StateTerminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ActionKind tells the caller what to do after submitting feedback.
type ActionKind string

const (
	ActionGuess  ActionKind = "guess"
	ActionSolved ActionKind = "solved"
	ActionFailed ActionKind = "failed"
)

// NextAction is the result of one round.
type NextAction struct {
	Kind    ActionKind
	Guess   game.Code     // ActionGuess: the next guess to score
	Rounds  int           // rounds played so far
	Elapsed time.Duration // ActionSolved: wall-clock time since New
	Err     error         // ActionFailed: why the game cannot continue
}

// Round records one guess and the feedback it received.
type Round struct {
	Number    int           `json:"round"`
	Guess     game.Code     `json:"guess"`
	Feedback  game.Feedback `json:"feedback"`
	Remaining int           `json:"remaining"` // candidates left after elimination
}

// Solver is the code-breaker for one game.
type Solver struct {
	alphabet game.Alphabet
	length   int
	rule     game.FeedbackRule
	log      zerolog.Logger
	now      func() time.Time
	onRound  func(Round)

	state      State
	candidates *game.CandidateSet
	guess      game.Code
	rounds     []Round
	started    time.Time
	finished   time.Time
	err        error
}

// Option customises a Solver.
type Option func(*Solver)

// WithRule sets the feedback rule used for elimination.
func WithRule(r game.FeedbackRule) Option {
	return func(s *Solver) {
		if r != nil {
			s.rule = r
		}
	}
}

// WithLogger sets the logger; rounds are logged at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Solver) { s.log = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Solver) { s.now = now }
}

// WithRoundHook is called after every completed round.
func WithRoundHook(fn func(Round)) Option {
	return func(s *Solver) { s.onRound = fn }
}

// New builds the candidate universe and the opening guess.
func New(alphabetSize, codeLength int, opts ...Option) (*Solver, error) {
	if codeLength <= 0 {
		return nil, fmt.Errorf("code length %d: %w", codeLength, game.ErrInvalidCodeLength)
	}
	if alphabetSize <= 0 {
		return nil, fmt.Errorf("alphabet size %d: %w", alphabetSize, game.ErrInvalidSymbol)
	}
	s := &Solver{
		alphabet: game.NewAlphabet(alphabetSize),
		length:   codeLength,
		rule:     game.DefaultRule(),
		log:      log.Logger,
		now:      time.Now,
		state:    StateInitializing,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.started = s.now()
	universe := game.Universe(s.alphabet, s.length)
	// the opening stays in the set; only selected guesses are removed
	s.guess = game.Opening(s.alphabet, s.length)
	s.candidates = universe
	s.state = StateAwaitingFeedback

	s.log.Debug().
		Str("rule", s.rule.Name()).
		Int("alphabet", alphabetSize).
		Int("length", codeLength).
		Int("universe", universe.Len()).
		Stringer("opening", s.guess).
		Msg("solver initialised")
	return s, nil
}

// CurrentGuess returns the guess awaiting feedback (a copy).
func (s *Solver) CurrentGuess() game.Code { return s.guess.Clone() }

// State reports where the solver is in its game.
func (s *Solver) State() State { return s.state }

// Remaining is the number of candidates still in play, excluding the
// current guess.
func (s *Solver) Remaining() int { return s.candidates.Len() }

// Rounds returns the rounds played so far.
func (s *Solver) Rounds() []Round {
	out := make([]Round, len(s.rounds))
	copy(out, s.rounds)
	return out
}

// Rule is the feedback rule this solver eliminates with.
func (s *Solver) Rule() game.FeedbackRule { return s.rule }

// CodeLength is L.
func (s *Solver) CodeLength() int { return s.length }

// AlphabetSize is C.
func (s *Solver) AlphabetSize() int { return s.alphabet.Size }

// Err is the failure that terminated the game, if any.
func (s *Solver) Err() error { return s.err }

// Elapsed is the wall-clock time from New to termination (or to now while
// the game is still running).
func (s *Solver) Elapsed() time.Duration {
	if s.state == StateTerminated {
		return s.finished.Sub(s.started)
	}
	return s.now().Sub(s.started)
}

// SubmitFeedback scores the current guess with fb and advances the game.
//
// Transitions:
//   - fb == (L,0) → terminated, ActionSolved.
//   - otherwise eliminate; an empty candidate set → terminated,
//     ActionFailed with ErrNoConsistentCandidates (also returned as error).
//   - otherwise select the next guess → ActionGuess.
//
// Calling it after the game has terminated wraps ErrEmptyCandidateSet.
func (s *Solver) SubmitFeedback(fb game.Feedback) (NextAction, error) {
	if s.state == StateTerminated {
		err := fmt.Errorf("solver already terminated: %w", game.ErrEmptyCandidateSet)
		return NextAction{Kind: ActionFailed, Rounds: len(s.rounds), Err: err}, err
	}

	round := Round{Number: len(s.rounds) + 1, Guess: s.guess.Clone(), Feedback: fb}

	if fb.IsSolved(s.length) {
		round.Remaining = s.candidates.Len()
		s.record(round)
		s.terminate(nil)
		s.log.Debug().Int("rounds", len(s.rounds)).Dur("elapsed", s.Elapsed()).Stringer("code", round.Guess).Msg("solved")
		return NextAction{Kind: ActionSolved, Rounds: len(s.rounds), Elapsed: s.Elapsed()}, nil
	}

	s.state = StateEliminating
	next, err := game.Eliminate(s.candidates, s.rule, s.guess, fb)
	if err != nil {
		return s.fail(round, err)
	}
	s.candidates = next

	s.state = StateSelecting
	guess, rest, err := game.SelectGuess(s.candidates)
	if err != nil {
		return s.fail(round, err)
	}
	round.Remaining = s.candidates.Len()
	s.candidates = rest
	s.guess = guess
	s.record(round)
	s.state = StateAwaitingFeedback

	s.log.Debug().
		Int("round", round.Number).
		Stringer("guess", round.Guess).
		Stringer("feedback", fb).
		Int("remaining", round.Remaining).
		Stringer("next", guess).
		Msg("round")
	return NextAction{Kind: ActionGuess, Guess: guess.Clone(), Rounds: len(s.rounds)}, nil
}

func (s *Solver) record(r Round) {
	s.rounds = append(s.rounds, r)
	if s.onRound != nil {
		s.onRound(r)
	}
}

func (s *Solver) fail(r Round, err error) (NextAction, error) {
	s.candidates = game.NewCandidateSet(nil)
	s.record(r)
	s.terminate(err)
	s.log.Warn().Err(err).Int("round", r.Number).Stringer("guess", r.Guess).Stringer("feedback", r.Feedback).Msg("solver failed")
	return NextAction{Kind: ActionFailed, Rounds: len(s.rounds), Err: err}, err
}

func (s *Solver) terminate(err error) {
	s.state = StateTerminated
	s.finished = s.now()
	s.err = err
}

// internal/game/errors.go
//
// Error sentinels shared by the engine, the solver and the HTTP layer.

package game

import "errors"

// Errors surfaced by the engine. All of them end the current game; callers
// decide whether to start a new one.
var (
	// ErrInvalidCodeLength: a guess or secret does not have exactly L symbols.
	ErrInvalidCodeLength = errors.New("invalid code length")
	// ErrInvalidSymbol: a symbol outside the configured alphabet.
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrEmptyCandidateSet: selection ran with nothing left to choose from.
	ErrEmptyCandidateSet = errors.New("empty candidate set")
	// ErrNoConsistentCandidates: elimination removed every candidate.
	ErrNoConsistentCandidates = errors.New("no consistent candidates")
)

// internal/game/feedback.go
//
// Feedback evaluation: the code-maker's answer to a guess.
// Responsibilities:
//   - Compute (blacks, whites) for a guess against a secret.
//   - Offer two interchangeable rules behind the FeedbackRule interface:
//       Simplified: a white for every non-black guess symbol that occurs
//                   anywhere in the secret (repeats are not capped).
//       Canonical:  the textbook two-pass rule, whites capped by the
//                   remaining symbol multiplicities on both sides.
//
// Notes:
//   - Simplified is the default and matches the historical solver output.
//     With repeated symbols it can report more whites than Canonical.
//   - Both rules agree on blacks, and blacks == L iff guess == secret.

package game

import (
	"fmt"
	"strings"
)

// FeedbackRule scores a guess against a secret.
type FeedbackRule interface {
	Name() string
	Evaluate(secret, guess Code) (Feedback, error)
}

const (
	RuleSimplified = "simplified"
	RuleCanonical  = "canonical"
)

// Simplified is the default rule.
type Simplified struct{}

// Canonical is the textbook Mastermind rule.
type Canonical struct{}

// DefaultRule returns the Simplified rule.
func DefaultRule() FeedbackRule { return Simplified{} }

// RuleByName maps a rule name (case-insensitive) to its implementation.
// An empty name selects the default rule.
func RuleByName(name string) (FeedbackRule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", RuleSimplified:
		return Simplified{}, nil
	case RuleCanonical:
		return Canonical{}, nil
	}
	return nil, fmt.Errorf("unknown feedback rule %q", name)
}

// Evaluate is shorthand for DefaultRule().Evaluate.
func Evaluate(secret, guess Code) (Feedback, error) {
	return Simplified{}.Evaluate(secret, guess)
}

func (Simplified) Name() string { return RuleSimplified }

// Evaluate walks the positions once:
//   - guess[i] == secret[i] → black.
//   - else guess[i] appears anywhere in secret → white.
func (Simplified) Evaluate(secret, guess Code) (Feedback, error) {
	if err := sameLength(secret, guess); err != nil {
		return Feedback{}, err
	}
	var fb Feedback
	for i := range guess {
		switch {
		case guess[i] == secret[i]:
			fb.Blacks++
		case contains(secret, guess[i]):
			fb.Whites++
		}
	}
	return fb, nil
}

func (Canonical) Name() string { return RuleCanonical }

// Evaluate implements the two-pass rule.
//
// Pass 1:
//   - Count exact matches as blacks.
//   - Tally the remaining (non-black) secret symbols.
//
// Pass 2:
//   - For each non-black guess symbol with a remaining tally, count a white
//     and decrement the tally.
func (Canonical) Evaluate(secret, guess Code) (Feedback, error) {
	if err := sameLength(secret, guess); err != nil {
		return Feedback{}, err
	}
	var fb Feedback
	counts := make(map[int]int, len(secret))
	for i := range guess {
		if guess[i] == secret[i] {
			fb.Blacks++
		} else {
			counts[secret[i]]++
		}
	}
	for i := range guess {
		if guess[i] == secret[i] {
			continue
		}
		if counts[guess[i]] > 0 {
			fb.Whites++
			counts[guess[i]]--
		}
	}
	return fb, nil
}

func sameLength(secret, guess Code) error {
	if len(secret) != len(guess) {
		return fmt.Errorf("secret has %d symbols, guess has %d: %w", len(secret), len(guess), ErrInvalidCodeLength)
	}
	return nil
}

func contains(c Code, s int) bool {
	for _, x := range c {
		if x == s {
			return true
		}
	}
	return false
}

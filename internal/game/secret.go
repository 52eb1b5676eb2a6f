// internal/game/secret.go
//
// Random secrets and the code-maker side of self-play.

package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomSecret draws a secret code uniformly at random with crypto/rand.
// Without repeats the symbols are drawn without replacement, which needs
// an alphabet at least as large as the code.
func RandomSecret(a Alphabet, length int, allowRepeats bool) (Code, error) {
	if length <= 0 {
		return nil, fmt.Errorf("secret of %d symbols: %w", length, ErrInvalidCodeLength)
	}
	if a.Size <= 0 || (!allowRepeats && a.Size < length) {
		return nil, fmt.Errorf("%d distinct symbols from an alphabet of %d: %w", length, a.Size, ErrInvalidSymbol)
	}
	pool := a.Symbols()
	out := make(Code, 0, length)
	for len(out) < length {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
		if err != nil {
			return nil, fmt.Errorf("draw secret: %w", err)
		}
		i := int(n.Int64())
		out = append(out, pool[i])
		if !allowRepeats {
			pool = append(pool[:i], pool[i+1:]...)
		}
	}
	return out, nil
}

// Secret is the code-maker role: it holds a secret and answers guesses
// using a feedback rule.
type Secret struct {
	code Code
	rule FeedbackRule
}

// NewSecret binds a code to a rule (the default rule when nil).
func NewSecret(code Code, rule FeedbackRule) *Secret {
	if rule == nil {
		rule = DefaultRule()
	}
	return &Secret{code: code.Clone(), rule: rule}
}

// Feedback answers one guess.
func (s *Secret) Feedback(guess Code) (Feedback, error) {
	return s.rule.Evaluate(s.code, guess)
}

// Code returns a copy of the secret, for reporting after the game.
func (s *Secret) Code() Code { return s.code.Clone() }

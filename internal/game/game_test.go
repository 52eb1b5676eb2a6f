package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var six = NewAlphabet(DefaultAlphabetSize)

func TestEvaluateExactness(t *testing.T) {
	for _, rule := range []FeedbackRule{Simplified{}, Canonical{}} {
		for _, g := range Universe(six, 4).Codes() {
			fb, err := rule.Evaluate(g, g)
			require.NoError(t, err)
			assert.Equal(t, Feedback{Blacks: 4}, fb, "%s %v", rule.Name(), g)
		}
	}
}

func TestEvaluateBlackSymmetry(t *testing.T) {
	codes := Universe(NewAlphabet(4), 3).Codes()
	for _, rule := range []FeedbackRule{Simplified{}, Canonical{}} {
		for _, s := range codes {
			for _, g := range codes {
				a, err := rule.Evaluate(s, g)
				require.NoError(t, err)
				b, err := rule.Evaluate(g, s)
				require.NoError(t, err)
				if a.Blacks != b.Blacks {
					t.Fatalf("%s: blacks(%v,%v)=%d blacks(%v,%v)=%d", rule.Name(), s, g, a.Blacks, g, s, b.Blacks)
				}
			}
		}
	}
}

func TestEvaluateSimplifiedVsCanonical(t *testing.T) {
	cases := []struct {
		secret, guess     Code
		simplified, canon Feedback
	}{
		{Code{3, 1, 4, 2}, Code{1, 1, 2, 2}, Feedback{2, 2}, Feedback{2, 0}},
		{Code{1, 1, 1, 1}, Code{2, 2, 2, 2}, Feedback{0, 0}, Feedback{0, 0}},
		{Code{1, 1, 1, 1}, Code{1, 1, 1, 1}, Feedback{4, 0}, Feedback{4, 0}},
		{Code{1, 2, 3, 4}, Code{4, 3, 2, 1}, Feedback{0, 4}, Feedback{0, 4}},
		{Code{1, 2, 3, 4}, Code{5, 5, 5, 5}, Feedback{0, 0}, Feedback{0, 0}},
		// repeated guess symbol: simplified credits every copy
		{Code{1, 2, 3, 4}, Code{2, 2, 2, 2}, Feedback{1, 3}, Feedback{1, 0}},
		{Code{1, 2, 3, 4}, Code{2, 1, 1, 6}, Feedback{0, 3}, Feedback{0, 2}},
	}
	for _, tc := range cases {
		got, err := Simplified{}.Evaluate(tc.secret, tc.guess)
		require.NoError(t, err)
		assert.Equal(t, tc.simplified, got, "simplified %v vs %v", tc.secret, tc.guess)

		got, err = Canonical{}.Evaluate(tc.secret, tc.guess)
		require.NoError(t, err)
		assert.Equal(t, tc.canon, got, "canonical %v vs %v", tc.secret, tc.guess)
	}
}

func TestEvaluateLengthMismatch(t *testing.T) {
	_, err := Evaluate(Code{1, 2, 3, 4}, Code{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidCodeLength)
	_, err = Canonical{}.Evaluate(Code{1}, Code{1, 2})
	assert.ErrorIs(t, err, ErrInvalidCodeLength)
}

func TestRuleByName(t *testing.T) {
	r, err := RuleByName("")
	require.NoError(t, err)
	assert.Equal(t, RuleSimplified, r.Name())

	r, err = RuleByName(" Canonical ")
	require.NoError(t, err)
	assert.Equal(t, RuleCanonical, r.Name())

	_, err = RuleByName("minimax")
	assert.Error(t, err)
}

func TestUniverse(t *testing.T) {
	u := Universe(six, 4)
	require.Equal(t, 1296, u.Len())
	codes := u.Codes()
	assert.Equal(t, Code{1, 1, 1, 1}, codes[0])
	assert.Equal(t, Code{1, 1, 1, 2}, codes[1])
	assert.Equal(t, Code{1, 1, 2, 1}, codes[6])
	assert.Equal(t, Code{6, 6, 6, 6}, codes[len(codes)-1])

	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		require.NoError(t, six.Validate(c, 4))
		seen[c.String()] = true
	}
	assert.Len(t, seen, 1296)

	assert.Equal(t, 0, Universe(six, 0).Len())
	assert.Equal(t, 8, Universe(NewAlphabet(2), 3).Len())
}

func TestEliminateKeepsConsistent(t *testing.T) {
	u := Universe(six, 4)
	guess := Code{1, 1, 2, 2}
	secret := Code{3, 1, 4, 2}
	observed, err := Evaluate(secret, guess)
	require.NoError(t, err)

	got, err := Eliminate(u, Simplified{}, guess, observed)
	require.NoError(t, err)
	assert.LessOrEqual(t, got.Len(), u.Len())
	assert.True(t, got.Contains(secret))
	// the guess itself survives through the perfect-match exception
	assert.True(t, got.Contains(guess))

	for _, c := range got.Codes() {
		fb, err := Evaluate(c, guess)
		require.NoError(t, err)
		if !c.Equal(guess) {
			assert.Equal(t, observed, fb)
		}
		assert.True(t, u.Contains(c))
	}
}

func TestEliminateIdempotent(t *testing.T) {
	u := Universe(six, 4)
	guess := Code{1, 2, 3, 4}
	fb := Feedback{Blacks: 1, Whites: 2}
	once, err := Eliminate(u, Canonical{}, guess, fb)
	require.NoError(t, err)
	twice, err := Eliminate(once, Canonical{}, guess, fb)
	require.NoError(t, err)
	assert.Equal(t, once.Codes(), twice.Codes())
}

func TestEliminateSecretRetention(t *testing.T) {
	guesses := []Code{{1, 1, 2, 2}, {3, 4, 5, 6}, {2, 6, 1, 3}}
	for _, rule := range []FeedbackRule{Simplified{}, Canonical{}} {
		for _, secret := range Universe(six, 4).Codes() {
			set := Universe(six, 4)
			for _, g := range guesses {
				fb, err := rule.Evaluate(secret, g)
				require.NoError(t, err)
				before := set.Len()
				set, err = Eliminate(set, rule, g, fb)
				require.NoError(t, err)
				require.LessOrEqual(t, set.Len(), before)
				require.True(t, set.Contains(secret), "%s lost secret %v after %v", rule.Name(), secret, g)
			}
		}
	}
}

func TestEliminateImpossibleFeedback(t *testing.T) {
	set := Universe(six, 4).Without(Code{1, 1, 2, 2})
	got, err := Eliminate(set, Simplified{}, Code{1, 1, 2, 2}, Feedback{Blacks: 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoConsistentCandidates))
	assert.Equal(t, 0, got.Len())
}

func TestSelectGuess(t *testing.T) {
	set := NewCandidateSet([]Code{{2, 2, 2, 2}, {1, 3, 1, 3}, {3, 1, 3, 1}, {1, 1, 1, 6}})
	guess, rest, err := SelectGuess(set)
	require.NoError(t, err)
	// three codes tie at 8; the first one wins
	assert.Equal(t, Code{2, 2, 2, 2}, guess)
	assert.Equal(t, 3, rest.Len())
	assert.False(t, rest.Contains(guess))
	assert.Equal(t, 4, set.Len(), "input set is not modified")

	guess, _, err = SelectGuess(NewCandidateSet([]Code{{3, 3, 3, 3}, {6, 1, 1, 1}, {1, 1, 1, 1}}))
	require.NoError(t, err)
	assert.Equal(t, Code{1, 1, 1, 1}, guess)
}

func TestSelectGuessEmpty(t *testing.T) {
	_, _, err := SelectGuess(NewCandidateSet(nil))
	assert.ErrorIs(t, err, ErrEmptyCandidateSet)
}

func TestOpening(t *testing.T) {
	assert.Equal(t, Code{1, 1, 2, 2}, Opening(six, 4))
	assert.Equal(t, Code{1, 1, 1, 2, 2}, Opening(six, 5))
	assert.Equal(t, Code{1, 1}, Opening(NewAlphabet(1), 2))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, six.Validate(Code{1, 6, 3, 3}, 4))
	assert.ErrorIs(t, six.Validate(Code{1, 6, 3}, 4), ErrInvalidCodeLength)
	assert.ErrorIs(t, six.Validate(Code{1, 7, 3, 3}, 4), ErrInvalidSymbol)
	assert.ErrorIs(t, six.Validate(Code{0, 1, 3, 3}, 4), ErrInvalidSymbol)
}

func TestParseCode(t *testing.T) {
	for _, in := range []string{"3142", "3 1 4 2", "3,1,4,2", "(3,1,4,2)", " 3, 1, 4, 2 "} {
		c, err := ParseCode(in)
		require.NoError(t, err, in)
		assert.Equal(t, Code{3, 1, 4, 2}, c, in)
	}
	_, err := ParseCode("3a42")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
	_, err = ParseCode("")
	assert.ErrorIs(t, err, ErrInvalidCodeLength)
	assert.Equal(t, "(3,1,4,2)", Code{3, 1, 4, 2}.String())
}

func TestRandomSecret(t *testing.T) {
	for i := 0; i < 50; i++ {
		s, err := RandomSecret(six, 4, false)
		require.NoError(t, err)
		require.NoError(t, six.Validate(s, 4))
		assert.False(t, s.HasRepeats(), "%v", s)
	}
	s, err := RandomSecret(NewAlphabet(2), 4, true)
	require.NoError(t, err)
	assert.NoError(t, NewAlphabet(2).Validate(s, 4))

	_, err = RandomSecret(NewAlphabet(3), 4, false)
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestSecretFeedback(t *testing.T) {
	sec := NewSecret(Code{1, 1, 1, 1}, nil)
	fb, err := sec.Feedback(Code{2, 2, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, Feedback{0, 0}, fb)
	fb, err = sec.Feedback(Code{1, 1, 1, 1})
	require.NoError(t, err)
	assert.True(t, fb.IsSolved(4))
}

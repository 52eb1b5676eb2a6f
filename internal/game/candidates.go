// internal/game/candidates.go
//
// Candidate universe and elimination.
//
// Enumeration order is fixed: nested counting from the leftmost (most
// significant) position to the rightmost, symbols ascending. For a 6-symbol
// alphabet and length 4 that is (1,1,1,1), (1,1,1,2), ..., (6,6,6,6).
// The guess selector breaks ties on this order, so it must not change.

package game

import (
	"fmt"
)

// CandidateSet is an ordered set of codes still consistent with the
// feedback seen so far. It belongs to a single game.
type CandidateSet struct {
	codes []Code
}

// NewCandidateSet wraps codes in enumeration order. The slice is copied.
func NewCandidateSet(codes []Code) *CandidateSet {
	out := make([]Code, len(codes))
	copy(out, codes)
	return &CandidateSet{codes: out}
}

// Universe builds every code of the given length over the alphabet,
// repetition allowed: exactly Size^length codes.
func Universe(a Alphabet, length int) *CandidateSet {
	if a.Size <= 0 || length <= 0 {
		return &CandidateSet{}
	}
	total := 1
	for i := 0; i < length; i++ {
		total *= a.Size
	}
	codes := make([]Code, 0, total)
	cur := make(Code, length)
	for i := range cur {
		cur[i] = 1
	}
	for {
		codes = append(codes, cur.Clone())
		// odometer increment, rightmost position fastest
		pos := length - 1
		for pos >= 0 && cur[pos] == a.Size {
			cur[pos] = 1
			pos--
		}
		if pos < 0 {
			break
		}
		cur[pos]++
	}
	return &CandidateSet{codes: codes}
}

// Len is the number of remaining candidates.
func (s *CandidateSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.codes)
}

// Codes returns a copy of the candidates in enumeration order.
func (s *CandidateSet) Codes() []Code {
	if s == nil {
		return nil
	}
	out := make([]Code, len(s.codes))
	copy(out, s.codes)
	return out
}

// Contains reports whether c is still a candidate.
func (s *CandidateSet) Contains(c Code) bool {
	return s.indexOf(c) >= 0
}

// Without returns a new set with c removed (if present).
func (s *CandidateSet) Without(c Code) *CandidateSet {
	i := s.indexOf(c)
	if i < 0 {
		return NewCandidateSet(s.Codes())
	}
	out := make([]Code, 0, len(s.codes)-1)
	out = append(out, s.codes[:i]...)
	out = append(out, s.codes[i+1:]...)
	return &CandidateSet{codes: out}
}

func (s *CandidateSet) indexOf(c Code) int {
	if s == nil {
		return -1
	}
	for i, x := range s.codes {
		if x.Equal(c) {
			return i
		}
	}
	return -1
}

// Eliminate keeps every candidate c for which rule.Evaluate(c, lastGuess)
// equals observed, treating c as the hypothetical secret. A candidate that
// is a perfect match for lastGuess is always kept, whatever observed says.
//
// The result is a subset of set in the same order, and applying the same
// (lastGuess, observed) again changes nothing. An empty result is reported
// as ErrNoConsistentCandidates alongside the empty set.
func Eliminate(set *CandidateSet, rule FeedbackRule, lastGuess Code, observed Feedback) (*CandidateSet, error) {
	if rule == nil {
		rule = DefaultRule()
	}
	perfect := Solved(len(lastGuess))
	kept := make([]Code, 0, set.Len())
	for _, c := range set.Codes() {
		fb, err := rule.Evaluate(c, lastGuess)
		if err != nil {
			return nil, fmt.Errorf("eliminate against %v: %w", lastGuess, err)
		}
		if fb == observed || fb == perfect {
			kept = append(kept, c)
		}
	}
	out := &CandidateSet{codes: kept}
	if len(kept) == 0 {
		return out, fmt.Errorf("guess %v with feedback %v: %w", lastGuess, observed, ErrNoConsistentCandidates)
	}
	return out, nil
}

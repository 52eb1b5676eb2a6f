// internal/game/selector.go
//
// Guess selection: lowest symbol sum, first in enumeration order on ties.

package game

import "fmt"

// SelectGuess picks the next guess: the candidate with the smallest symbol
// sum, the first one in enumeration order on ties. The chosen code is
// consumed, so the returned set no longer contains it.
//
// This is a cheap "smallest remaining code" heuristic, not a worst-case
// minimising search.
func SelectGuess(set *CandidateSet) (Code, *CandidateSet, error) {
	if set.Len() == 0 {
		return nil, set, fmt.Errorf("select guess: %w", ErrEmptyCandidateSet)
	}
	best := 0
	bestScore := set.codes[0].Score()
	for i := 1; i < len(set.codes); i++ {
		if sc := set.codes[i].Score(); sc < bestScore {
			best, bestScore = i, sc
		}
	}
	guess := set.codes[best].Clone()

	rest := make([]Code, 0, len(set.codes)-1)
	rest = append(rest, set.codes[:best]...)
	rest = append(rest, set.codes[best+1:]...)
	return guess, &CandidateSet{codes: rest}, nil
}

// Opening is the fixed first guess: the smallest symbol on the first half
// of the positions and the second smallest on the rest, so (1,1,2,2) for
// length 4. Odd lengths give the extra position to the first symbol; a
// one-symbol alphabet opens with all ones.
func Opening(a Alphabet, length int) Code {
	second := 2
	if a.Size < 2 {
		second = 1
	}
	out := make(Code, length)
	firstHalf := (length + 1) / 2
	for i := range out {
		if i < firstHalf {
			out[i] = 1
		} else {
			out[i] = second
		}
	}
	return out
}

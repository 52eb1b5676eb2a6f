// internal/game/types.go
//
// Core type definitions for the Mastermind engine.
// Defines:
//   - Code: an ordered sequence of symbols (the object being guessed).
//   - Alphabet: the fixed symbol range 1..Size a code is drawn from.
//   - Feedback: black/white peg counts for one guess against one secret.

package game

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultAlphabetSize = 6
	DefaultCodeLength   = 4
)

// Code is an ordered sequence of symbols. Symbols are small integers 1..C.
type Code []int

// String renders a code as "(3,1,4,2)".
func (c Code) String() string {
	parts := make([]string, len(c))
	for i, s := range c {
		parts[i] = strconv.Itoa(s)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Equal reports whether c and o hold the same symbols in the same order.
func (c Code) Equal(o Code) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of c.
func (c Code) Clone() Code {
	out := make(Code, len(c))
	copy(out, c)
	return out
}

// Score is the sum of the code's symbol values.
func (c Code) Score() int {
	sum := 0
	for _, s := range c {
		sum += s
	}
	return sum
}

// HasRepeats reports whether any symbol occurs more than once.
func (c Code) HasRepeats() bool {
	seen := make(map[int]struct{}, len(c))
	for _, s := range c {
		if _, ok := seen[s]; ok {
			return true
		}
		seen[s] = struct{}{}
	}
	return false
}

// ParseCode reads a code from text. Symbols may be separated by spaces,
// commas or nothing at all ("3142", "3 1 4 2", "3,1,4,2", "(3,1,4,2)").
// Only the syntax is checked here; use Alphabet.Validate for membership.
func ParseCode(s string) (Code, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) == 1 && len(fields[0]) > 1 {
		// compact form: one digit per symbol
		fields = strings.Split(fields[0], "")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("parse code %q: %w", s, ErrInvalidCodeLength)
	}
	out := make(Code, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("parse code %q: symbol %q: %w", s, f, ErrInvalidSymbol)
		}
		out = append(out, n)
	}
	return out, nil
}

// Alphabet is the symbol range 1..Size.
type Alphabet struct {
	Size int
}

// NewAlphabet returns the alphabet {1..size}.
func NewAlphabet(size int) Alphabet { return Alphabet{Size: size} }

// Symbols lists the alphabet in ascending order.
func (a Alphabet) Symbols() []int {
	out := make([]int, a.Size)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Contains reports whether s belongs to the alphabet.
func (a Alphabet) Contains(s int) bool { return s >= 1 && s <= a.Size }

// Validate checks that c has exactly length symbols, all drawn from a.
func (a Alphabet) Validate(c Code, length int) error {
	if len(c) != length {
		return fmt.Errorf("code %v has %d symbols, want %d: %w", c, len(c), length, ErrInvalidCodeLength)
	}
	for i, s := range c {
		if !a.Contains(s) {
			return fmt.Errorf("code %v position %d: symbol %d outside 1..%d: %w", c, i, s, a.Size, ErrInvalidSymbol)
		}
	}
	return nil
}

// Feedback is the peg count for one guess: Blacks for right symbol in the
// right position, Whites for a symbol present elsewhere.
type Feedback struct {
	Blacks int `json:"blacks"`
	Whites int `json:"whites"`
}

// Solved returns the feedback that ends a game of the given code length.
func Solved(length int) Feedback { return Feedback{Blacks: length} }

// IsSolved reports whether f is a full match for codes of the given length.
func (f Feedback) IsSolved(length int) bool { return f == Solved(length) }

func (f Feedback) String() string { return fmt.Sprintf("(%d,%d)", f.Blacks, f.Whites) }

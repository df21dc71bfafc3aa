package decode

import (
	"fmt"
	"math"
)

const (
	// Sentinel is the previous character assumed at the start of a plaintext.
	Sentinel byte = ' '

	// WordLength is the period, in characters, at which a window is checked against the dictionary.
	WordLength = 5

	// WordPenalty is subtracted from a candidate for each side whose window is not a dictionary word.
	WordPenalty = 5.0

	// ProbabilityFloor replaces zero or unseen bigram probabilities.
	ProbabilityFloor = 1e-12

	// DefaultBeamWidth is the number of candidates kept per position when none is configured.
	DefaultBeamWidth = 30
)

// FloorScore is the log-probability of an unseen transition.
var FloorScore = math.Log(ProbabilityFloor)

// Alphabet is an ordered set of plaintext symbols.
// Order matters: it fixes the order in which candidate expansions are generated.
type Alphabet struct {
	symbols []byte
	member  [256]bool
}

// DefaultAlphabet holds space, A-Z and a-z (53 symbols).
var DefaultAlphabet = mustAlphabet(" ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")

func mustAlphabet(symbols string) *Alphabet {
	a, err := NewAlphabet(symbols)
	if err != nil {
		panic(err)
	}
	return a
}

// NewAlphabet builds an alphabet from the bytes of symbols, keeping their order.
func NewAlphabet(symbols string) (*Alphabet, error) {
	if symbols == "" {
		return nil, fmt.Errorf("%w: empty alphabet", ErrInvalidOptions)
	}

	a := &Alphabet{symbols: make([]byte, 0, len(symbols))}
	for i := 0; i < len(symbols); i++ {
		c := symbols[i]
		if a.member[c] {
			return nil, fmt.Errorf("%w: duplicate alphabet symbol %q", ErrInvalidOptions, c)
		}
		a.member[c] = true
		a.symbols = append(a.symbols, c)
	}

	return a, nil
}

// Contains reports whether c is one of the alphabet's symbols.
func (a *Alphabet) Contains(c byte) bool {
	return a.member[c]
}

// Symbols returns a copy of the symbols in order.
func (a *Alphabet) Symbols() []byte {
	out := make([]byte, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Len returns the number of symbols.
func (a *Alphabet) Len() int {
	return len(a.symbols)
}

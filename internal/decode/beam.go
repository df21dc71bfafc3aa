package decode

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Options tunes the beam search.
type Options struct {
	// BeamWidth is the maximum number of candidates kept after each position.
	BeamWidth int

	// Alphabet restricts the characters of both plaintexts. Nil means DefaultAlphabet.
	Alphabet *Alphabet

	// WordLength is the period at which windows are checked against the dictionary.
	WordLength int

	// WordPenalty is subtracted per side whose window is not a dictionary word.
	WordPenalty float64

	// Workers is the number of goroutines expanding the beam. Values below 2 expand sequentially.
	// The result does not depend on it.
	Workers int

	// Progress, if set, is called after each position with the number of bytes consumed.
	Progress func(done, total int)
}

// DefaultOptions returns the standard scoring policy with a beam of DefaultBeamWidth.
func DefaultOptions() Options {
	return Options{
		BeamWidth:   DefaultBeamWidth,
		Alphabet:    DefaultAlphabet,
		WordLength:  WordLength,
		WordPenalty: WordPenalty,
		Workers:     1,
	}
}

// Result is the best reconstruction found.
type Result struct {
	Plaintext1 string
	Plaintext2 string
	Score      float64

	// Positions is the number of XOR bytes consumed. It is below the stream length
	// when no character pair fits some byte, or when the search was stopped.
	Positions int

	// Complete is false only when the context stopped the search.
	Complete bool
}

// Decoder recovers two plaintexts from the XOR of their ciphertexts.
// A Decoder holds no per-search state and may be shared between goroutines.
type Decoder struct {
	model Scorer
	dict  WordSet
	opts  Options
}

// NewDecoder validates opts and returns a decoder using model and dict as read-only oracles.
func NewDecoder(model Scorer, dict WordSet, opts Options) (*Decoder, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil bigram model", ErrInvalidOptions)
	}
	if dict == nil {
		return nil, fmt.Errorf("%w: nil dictionary", ErrInvalidOptions)
	}
	if opts.BeamWidth < 1 {
		return nil, fmt.Errorf("%w: beam width must be positive, got %d", ErrInvalidOptions, opts.BeamWidth)
	}
	if opts.WordLength < 1 {
		return nil, fmt.Errorf("%w: word length must be positive, got %d", ErrInvalidOptions, opts.WordLength)
	}
	if opts.WordPenalty < 0 {
		return nil, fmt.Errorf("%w: word penalty must not be negative, got %g", ErrInvalidOptions, opts.WordPenalty)
	}
	if opts.Alphabet == nil {
		opts.Alphabet = DefaultAlphabet
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return &Decoder{model: model, dict: dict, opts: opts}, nil
}

// Decode runs the beam search over xor and returns the highest scoring pair.
//
// The search itself never fails. If ctx is done before the stream is consumed,
// the best candidate so far is returned with Complete unset, together with the
// context error.
func (d *Decoder) Decode(ctx context.Context, xor []byte) (Result, error) {
	beam := []Candidate{{}}

	for i, x := range xor {
		if err := ctx.Err(); err != nil {
			return result(beam, i, false), fmt.Errorf("decode stopped at byte %d of %d: %w", i, len(xor), err)
		}

		next, err := d.Step(ctx, beam, x)
		if err != nil {
			return result(beam, i, false), fmt.Errorf("decode stopped at byte %d of %d: %w", i, len(xor), err)
		}

		// No character pair fits x: keep what we have.
		if len(next) == 0 {
			return result(beam, i, true), nil
		}
		beam = next

		if d.opts.Progress != nil {
			d.opts.Progress(i+1, len(xor))
		}
	}

	return result(beam, len(xor), true), nil
}

// result reports the first beam member; beams are kept sorted best first.
func result(beam []Candidate, positions int, complete bool) Result {
	best := beam[0]
	p1, p2 := best.Plaintexts()
	return Result{
		Plaintext1: p1,
		Plaintext2: p2,
		Score:      best.Score(),
		Positions:  positions,
		Complete:   complete,
	}
}

// Step expands every candidate of beam by one character pair matching x and
// returns the best BeamWidth expansions, best first. Among equal scores the
// expansion generated first wins: beam order, then alphabet order.
// An empty result means no pair fits x.
func (d *Decoder) Step(ctx context.Context, beam []Candidate, x byte) ([]Candidate, error) {
	var pool []Candidate

	if d.opts.Workers < 2 || len(beam) < 2 {
		w1, w2 := d.scratch()
		for _, c := range beam {
			pool = d.expand(c, x, pool, w1, w2)
		}
	} else {
		shards := make([][]Candidate, len(beam))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.opts.Workers)
		for i, c := range beam {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				w1, w2 := d.scratch()
				shards[i] = d.expand(c, x, nil, w1, w2)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		pool = slices.Concat(shards...)
	}

	return d.selectTop(pool), nil
}

func (d *Decoder) scratch() ([]byte, []byte) {
	return make([]byte, d.opts.WordLength), make([]byte, d.opts.WordLength)
}

// expand appends to out every extension of c whose pair XORs to x and stays in the alphabet.
func (d *Decoder) expand(c Candidate, x byte, out []Candidate, w1, w2 []byte) []Candidate {
	alphabet := d.opts.Alphabet
	prev1, prev2 := c.last()
	boundary := (c.Len()+1)%d.opts.WordLength == 0

	for _, c1 := range alphabet.symbols {
		c2 := c1 ^ x
		if !alphabet.Contains(c2) {
			continue
		}

		score := c.score + d.model.Score(prev1, c1) + d.model.Score(prev2, c2)
		next := c.extend(c1, c2, score)
		if boundary {
			next.score -= d.penalty(next, w1, w2)
		}
		out = append(out, next)
	}

	return out
}

// penalty charges WordPenalty for each side whose trailing window, trimmed and
// upper-cased, is not a dictionary word.
func (d *Decoder) penalty(c Candidate, w1, w2 []byte) float64 {
	c.window(w1, w2)

	p := 0.0
	if !d.dict.Contains(strings.ToUpper(strings.TrimSpace(string(w1)))) {
		p += d.opts.WordPenalty
	}
	if !d.dict.Contains(strings.ToUpper(strings.TrimSpace(string(w2)))) {
		p += d.opts.WordPenalty
	}
	return p
}

// selectTop stable-sorts pool by descending score and keeps BeamWidth candidates.
func (d *Decoder) selectTop(pool []Candidate) []Candidate {
	slices.SortStableFunc(pool, func(a, b Candidate) int {
		return cmp.Compare(b.score, a.score)
	})
	if len(pool) > d.opts.BeamWidth {
		pool = slices.Clip(pool[:d.opts.BeamWidth])
	}
	return pool
}

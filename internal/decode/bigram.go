package decode

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Scorer returns the log-probability of curr following prev.
type Scorer interface {
	Score(prev, curr byte) float64
}

// BigramModel is a character transition table of natural-log probabilities.
// It is immutable once loaded and safe for concurrent use.
type BigramModel struct {
	logp [256][256]float64
	rows int
}

// newBigramModel returns a model in which every transition scores FloorScore.
func newBigramModel() *BigramModel {
	m := &BigramModel{}
	for i := range m.logp {
		for j := range m.logp[i] {
			m.logp[i][j] = FloorScore
		}
	}
	return m
}

// Score returns the stored log-probability of the pair, or FloorScore if the pair was never loaded.
func (m *BigramModel) Score(prev, curr byte) float64 {
	return m.logp[prev][curr]
}

// Rows returns the number of previous-character rows read from the source.
func (m *BigramModel) Rows() int {
	return m.rows
}

// LoadBigramTable parses a comma-delimited count table.
//
// The first header cell is a corner and is ignored; the next header cell always
// stands for the space symbol. Each data row starts with the previous character
// (blank means space) followed by counts aligned to the header columns.
// Blank counts are zero. Rows are normalised independently.
func LoadBigramTable(r io.Reader) (*BigramModel, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", ErrSourceUnreadable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: header has no symbol columns", ErrSourceUnreadable)
	}

	columns := make([]byte, len(header)-1)
	columns[0] = ' '
	for i, cell := range header[2:] {
		if len(cell) != 1 {
			return nil, fmt.Errorf("%w: header column %d: want one character, got %q", ErrSourceUnreadable, i+2, cell)
		}
		columns[i+1] = cell[0]
	}

	m := newBigramModel()
	counts := make([]float64, 0, len(columns))

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
		}
		if len(row) == 0 {
			continue
		}

		line, _ := cr.FieldPos(0)

		first := byte(' ')
		switch len(row[0]) {
		case 0:
		case 1:
			first = row[0][0]
		default:
			return nil, fmt.Errorf("%w: line %d: want one character row key, got %q", ErrSourceUnreadable, line, row[0])
		}

		// Zip counts to the shorter of header and row.
		cells := row[1:]
		if len(cells) > len(columns) {
			cells = cells[:len(columns)]
		}

		counts = counts[:0]
		total := 0.0
		for i, cell := range cells {
			c, err := parseCount(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %w", ErrSourceUnreadable, line, i+2, err)
			}
			counts = append(counts, c)
			total += c
		}

		for i, c := range counts {
			prob := ProbabilityFloor
			if total > 0 {
				prob = c / total
			}
			m.logp[first][columns[i]] = math.Log(math.Max(prob, ProbabilityFloor))
		}
		m.rows++
	}

	return m, nil
}

func parseCount(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}

	c, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", cell)
	}
	if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return 0, fmt.Errorf("count %q out of range", cell)
	}

	return c, nil
}

// LoadBigramTableFile loads a bigram table from path. Paths ending in .gz are decompressed.
func LoadBigramTableFile(path string) (*BigramModel, error) {
	rc, err := openSource(path)
	if err != nil {
		return nil, sourceErr("bigram table", path, err)
	}
	defer rc.Close()

	m, err := LoadBigramTable(rc)
	if err != nil {
		return nil, &SourceError{Source: "bigram table", Path: path, Err: err}
	}

	return m, nil
}

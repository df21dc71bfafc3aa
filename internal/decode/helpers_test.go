package decode

import (
	"encoding/csv"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const corpus = `It was the best of times it was the worst of times it was the age of wisdom
it was the age of foolishness it was the epoch of belief it was the epoch of incredulity
it was the season of Light it was the season of Darkness it was the spring of hope
it was the winter of despair we had everything before us we had nothing before us
we were all going direct to Heaven we were all going direct the other way
Hello world the quick brown fox jumps over the lazy dog while the small cat sleeps`

// tableCSV counts the bigrams of text over the default alphabet and renders
// them in the bigram table format.
func tableCSV(t testing.TB, text string) string {
	t.Helper()

	symbols := DefaultAlphabet.Symbols()
	counts := make(map[[2]byte]int)
	prev := Sentinel
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' {
			c = ' '
		}
		if !DefaultAlphabet.Contains(c) {
			continue
		}
		counts[[2]byte{prev, c}]++
		prev = c
	}

	var b strings.Builder
	w := csv.NewWriter(&b)

	header := []string{"", "SPACE"}
	for _, s := range symbols[1:] {
		header = append(header, string(s))
	}
	require.NoError(t, w.Write(header))

	for _, p := range symbols {
		row := []string{string(p)}
		if p == ' ' {
			row[0] = ""
		}
		for _, c := range symbols {
			row = append(row, strconv.Itoa(counts[[2]byte{p, c}]))
		}
		require.NoError(t, w.Write(row))
	}

	w.Flush()
	require.NoError(t, w.Error())
	return b.String()
}

func trainedModel(t testing.TB) *BigramModel {
	t.Helper()

	m, err := LoadBigramTable(strings.NewReader(tableCSV(t, corpus)))
	require.NoError(t, err)
	return m
}

func corpusDictionary() *Dictionary {
	return NewDictionary(strings.Fields(corpus)...)
}

// xorOf XORs the common prefix of a and b.
func xorOf(a, b string) []byte {
	return XORStreamTruncate([]byte(a), []byte(b))
}

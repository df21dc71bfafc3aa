package decode

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WordSet answers exact membership queries for upper-case words.
type WordSet interface {
	Contains(word string) bool
}

// Dictionary is an immutable set of upper-case alphabetic words.
type Dictionary struct {
	words map[string]struct{}
}

// NewDictionary builds a dictionary from words, applying the same filtering as LoadDictionary.
func NewDictionary(words ...string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		d.add(w)
	}
	return d
}

func (d *Dictionary) add(token string) {
	if !isAlpha(token) {
		return
	}
	d.words[strings.ToUpper(token)] = struct{}{}
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

// Contains reports whether the upper-cased word is in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[strings.ToUpper(word)]
	return ok
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int {
	return len(d.words)
}

// LoadDictionary reads whitespace-delimited tokens from r.
// Tokens that are not purely alphabetic are dropped; the rest are upper-cased.
func LoadDictionary(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{words: make(map[string]struct{})}

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, scannerInitialBuffer)
	scanner.Buffer(buf, scannerMaxBuffer)
	scanner.Split(bufio.ScanWords)

	for scanner.Scan() {
		d.add(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}

	return d, nil
}

// LoadDictionaryFile loads a word list from path. Paths ending in .gz are decompressed.
func LoadDictionaryFile(path string) (*Dictionary, error) {
	rc, err := openSource(path)
	if err != nil {
		return nil, sourceErr("dictionary", path, err)
	}
	defer rc.Close()

	d, err := LoadDictionary(rc)
	if err != nil {
		return nil, &SourceError{Source: "dictionary", Path: path, Err: err}
	}

	return d, nil
}

package decode

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrSourceUnreadable is returned when a ciphertext, bigram table or dictionary
	// cannot be opened or parsed.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrLengthMismatch is returned when the two ciphertexts differ in length.
	ErrLengthMismatch = errors.New("ciphertext length mismatch")

	// ErrSinkUnwritable is returned when a recovered plaintext cannot be written.
	ErrSinkUnwritable = errors.New("sink unwritable")

	// ErrInvalidOptions is returned for unusable decoder settings.
	ErrInvalidOptions = errors.New("invalid options")
)

// SourceError names the input (or output) that failed and why.
type SourceError struct {
	Source string // "ciphertext", "bigram table", "dictionary", "plaintext"
	Path   string
	Err    error
}

func (e *SourceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Source, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func sourceErr(source, path string, err error) error {
	return &SourceError{Source: source, Path: path, Err: fmt.Errorf("%w: %w", ErrSourceUnreadable, err)}
}

// Error codes returned by Classify.
const (
	CodeSource  = "source"
	CodeLength  = "length"
	CodeSink    = "sink"
	CodeOptions = "options"
	CodeCancel  = "cancel"
	CodeUnknown = "unknown"
)

// Classify maps an error to a short code for logs and status mapping.
// Only sentinel errors are inspected, never message text.
func Classify(err error) string {
	switch {
	case err == nil:
		return CodeUnknown
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCancel
	case errors.Is(err, ErrLengthMismatch):
		return CodeLength
	case errors.Is(err, ErrSourceUnreadable):
		return CodeSource
	case errors.Is(err, ErrSinkUnwritable):
		return CodeSink
	case errors.Is(err, ErrInvalidOptions):
		return CodeOptions
	default:
		return CodeUnknown
	}
}

package decode

import (
	"fmt"
	"os"
	"path/filepath"
)

// WritePlaintexts writes each recovered plaintext to its own file, verbatim.
// Both texts are staged next to their targets and renamed into place, so a
// failure leaves neither output behind.
func WritePlaintexts(p1, p2, path1, path2 string) error {
	tmp1, err := stagePlaintext(p1, path1)
	if err != nil {
		return err
	}
	tmp2, err := stagePlaintext(p2, path2)
	if err != nil {
		os.Remove(tmp1)
		return err
	}

	if err := os.Rename(tmp1, path1); err != nil {
		os.Remove(tmp1)
		os.Remove(tmp2)
		return sinkErr(path1, err)
	}
	if err := os.Rename(tmp2, path2); err != nil {
		os.Remove(tmp2)
		os.Remove(path1)
		return sinkErr(path2, err)
	}
	return nil
}

// stagePlaintext writes text to a temporary file in the directory of path
// and returns the temporary file's name.
func stagePlaintext(text, path string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", sinkErr(path, err)
	}
	name := f.Name()

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(name)
		return "", sinkErr(path, err)
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(name)
		return "", sinkErr(path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", sinkErr(path, err)
	}
	return name, nil
}

func sinkErr(path string, err error) error {
	return &SourceError{Source: "plaintext", Path: path, Err: fmt.Errorf("%w: %w", ErrSinkUnwritable, err)}
}

package decode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const (
	// DefaultChunkSize is the length of the first ciphertext in a combined file.
	DefaultChunkSize = 1024

	// Scanner buffer sizes for reading word lists
	scannerInitialBuffer = 64 * 1024   // 64 KB
	scannerMaxBuffer     = 1024 * 1024 // 1 MB
)

// gzipFile closes both the decompressor and the underlying file.
type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	gerr := g.Reader.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return gerr
}

// openSource opens path for reading, decompressing it when the name ends in .gz.
func openSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}

	return &gzipFile{Reader: zr, f: f}, nil
}

func readSource(path string) ([]byte, error) {
	rc, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// LoadCiphertexts reads a combined file: the first chunk bytes are the first
// ciphertext, everything after is the second.
func LoadCiphertexts(path string, chunk int) ([]byte, []byte, error) {
	if chunk < 1 {
		return nil, nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidOptions, chunk)
	}

	data, err := readSource(path)
	if err != nil {
		return nil, nil, sourceErr("ciphertext", path, err)
	}

	if len(data) <= chunk {
		return nil, nil, &SourceError{
			Source: "ciphertext",
			Path:   path,
			Err:    fmt.Errorf("%w: file holds %d bytes, need more than the %d byte first chunk", ErrLengthMismatch, len(data), chunk),
		}
	}

	return data[:chunk], data[chunk:], nil
}

// LoadCiphertextPair reads the two ciphertexts from separate files.
func LoadCiphertextPair(path1, path2 string) ([]byte, []byte, error) {
	c1, err := readSource(path1)
	if err != nil {
		return nil, nil, sourceErr("ciphertext", path1, err)
	}

	c2, err := readSource(path2)
	if err != nil {
		return nil, nil, sourceErr("ciphertext", path2, err)
	}

	return c1, c2, nil
}

package decode

import "fmt"

// XORStream returns a[i]^b[i] for every position.
// Buffers of different length are rejected with ErrLengthMismatch.
func XORStream(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d != %d bytes", ErrLengthMismatch, len(a), len(b))
	}
	return XORStreamTruncate(a, b), nil
}

// XORStreamTruncate XORs the common prefix of a and b, ignoring the longer buffer's tail.
func XORStreamTruncate(a, b []byte) []byte {
	n := min(len(a), len(b))
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] ^ b[i]
	}
	return out
}

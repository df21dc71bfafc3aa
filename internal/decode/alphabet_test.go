package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAlphabet(t *testing.T) {
	assert.Equal(t, 53, DefaultAlphabet.Len())
	assert.Equal(t, byte(' '), DefaultAlphabet.Symbols()[0])

	for c := 0; c < 256; c++ {
		want := c == ' ' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
		assert.Equal(t, want, DefaultAlphabet.Contains(byte(c)), "symbol %q", rune(c))
	}
}

func TestNewAlphabet(t *testing.T) {
	tests := []struct {
		name    string
		symbols string
		wantErr bool
	}{
		{name: "two letters", symbols: "AB"},
		{name: "keeps order", symbols: "zA "},
		{name: "empty", symbols: "", wantErr: true},
		{name: "duplicate", symbols: "ABA", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAlphabet(tt.symbols)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidOptions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []byte(tt.symbols), a.Symbols())
		})
	}
}

func TestAlphabet_SymbolsIsCopy(t *testing.T) {
	a, err := NewAlphabet("AB")
	require.NoError(t, err)

	s := a.Symbols()
	s[0] = 'Z'
	assert.Equal(t, []byte("AB"), a.Symbols())
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"two-time-pad/internal/decode"
	"two-time-pad/internal/logger"
	"two-time-pad/internal/store"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{
			name:     "zero duration",
			duration: 0,
			want:     "0s",
		},
		{
			name:     "one second",
			duration: 1 * time.Second,
			want:     "1s",
		},
		{
			name:     "29 minutes 59 seconds",
			duration: 29*time.Minute + 59*time.Second,
			want:     "29m59s",
		},
		{
			name:     "159 minutes 59 seconds",
			duration: 159*time.Minute + 59*time.Second,
			want:     "159m59s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatElapsed(tt.duration)
			assert.Equal(t, tt.want, got, "formatElapsed should return expected format for %v", tt.duration)
		})
	}
}

const testTable = `x,sp,A,B,C
,1,6,2,1
A,1,1,6,2
B,2,1,1,6
C,6,2,1,1
`

func writeFixtures(t *testing.T, ciphertext []byte) options {
	t.Helper()

	dir := t.TempDir()
	opts := options{
		input:   filepath.Join(dir, "source1.txt"),
		chunk:   5,
		table:   filepath.Join(dir, "ftable2.csv"),
		words:   filepath.Join(dir, "words"),
		beam:    20,
		workers: 2,
		out1:    filepath.Join(dir, "plain1.txt"),
		out2:    filepath.Join(dir, "plain2.txt"),
	}

	require.NoError(t, os.WriteFile(opts.input, ciphertext, 0644))
	require.NoError(t, os.WriteFile(opts.table, []byte(testTable), 0644))
	require.NoError(t, os.WriteFile(opts.words, []byte("ABCAB\ncabba\n"), 0644))

	return opts
}

func encrypt(key []byte, plain string) []byte {
	out := make([]byte, len(plain))
	for i := range out {
		out[i] = plain[i] ^ key[i]
	}
	return out
}

func TestRun(t *testing.T) {
	key := []byte{0x5a, 0x13, 0xc4, 0x7e, 0x01}
	ciphertext := append(encrypt(key, "ABCAB"), encrypt(key, "CABBA")...)
	opts := writeFixtures(t, ciphertext)
	opts.dbPath = filepath.Join(filepath.Dir(opts.input), "runs.db")

	var messages []string
	res, err := run(context.Background(), opts, func(msg string) { messages = append(messages, msg) }, logger.NewNop())
	require.NoError(t, err)

	assert.True(t, res.Complete)
	assert.Equal(t, 5, res.Positions)
	assert.NotEmpty(t, messages)

	p1, err := os.ReadFile(opts.out1)
	require.NoError(t, err)
	p2, err := os.ReadFile(opts.out2)
	require.NoError(t, err)

	assert.Equal(t, res.Plaintext1, string(p1))
	assert.Equal(t, res.Plaintext2, string(p2))
	for i := range p1 {
		assert.Equal(t, ciphertext[i]^ciphertext[i+5], p1[i]^p2[i])
	}

	db, err := store.InitDB(opts.dbPath)
	require.NoError(t, err)
	defer db.Close()
	runs, err := store.ListRuns(db, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.Plaintext1, runs[0].Plaintext1)
}

func TestRun_SeparateInputs(t *testing.T) {
	key := []byte{0x11, 0x22, 0x33}
	opts := writeFixtures(t, encrypt(key, "ABC"))
	opts.input2 = filepath.Join(filepath.Dir(opts.input), "source2.txt")
	require.NoError(t, os.WriteFile(opts.input2, encrypt(key, "CBA"), 0644))

	res, err := run(context.Background(), opts, func(string) {}, logger.NewNop())
	require.NoError(t, err)
	assert.Len(t, res.Plaintext1, 3)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*options)
		wantCode string
	}{
		{
			name:     "missing ciphertext",
			modify:   func(o *options) { o.input += ".missing" },
			wantCode: decode.CodeSource,
		},
		{
			name:     "missing table",
			modify:   func(o *options) { o.table += ".missing" },
			wantCode: decode.CodeSource,
		},
		{
			name:     "missing dictionary",
			modify:   func(o *options) { o.words += ".missing" },
			wantCode: decode.CodeSource,
		},
		{
			name:     "uneven split",
			modify:   func(o *options) { o.chunk = 4 },
			wantCode: decode.CodeLength,
		},
		{
			name:     "zero beam",
			modify:   func(o *options) { o.beam = 0 },
			wantCode: decode.CodeOptions,
		},
		{
			name:     "unwritable output",
			modify:   func(o *options) { o.out2 = "/nonexistent/directory/plain2.txt" },
			wantCode: decode.CodeSink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := []byte{1, 2, 3, 4, 5}
			opts := writeFixtures(t, append(encrypt(key, "ABCAB"), encrypt(key, "CABBA")...))
			tt.modify(&opts)

			_, err := run(context.Background(), opts, func(string) {}, logger.NewNop())
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, decode.Classify(err))

			_, statErr := os.Stat(opts.out1)
			assert.True(t, os.IsNotExist(statErr), "no output may be written on failure")
		})
	}
}

func TestRun_Truncate(t *testing.T) {
	key := []byte{9, 8, 7, 6, 5, 4}
	opts := writeFixtures(t, append(encrypt(key, "ABCAB"), encrypt(key, "CABBAC")...))
	opts.truncate = true

	res, err := run(context.Background(), opts, func(string) {}, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 5, res.Positions)
}

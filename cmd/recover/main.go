package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"two-time-pad/internal/config"
	"two-time-pad/internal/decode"
	"two-time-pad/internal/logger"
	"two-time-pad/internal/store"
)

// Report decoder progress every this many XOR bytes
const progressReportInterval = 128

type options struct {
	input    string
	input2   string
	chunk    int
	table    string
	words    string
	beam     int
	workers  int
	timeout  time.Duration
	truncate bool
	out1     string
	out2     string
	dbPath   string
}

func main() {
	cfg := config.Load()

	// Define command-line flags
	var opts options
	flag.StringVar(&opts.input, "input", "", "Ciphertext file; holds both ciphertexts unless -input2 is set (required)")
	flag.StringVar(&opts.input2, "input2", "", "Second ciphertext file; -input then holds only the first")
	flag.IntVar(&opts.chunk, "chunk", cfg.Inputs.ChunkSize, "Length of the first ciphertext in a combined -input file")
	flag.StringVar(&opts.table, "table", cfg.Inputs.BigramTable, "Bigram count table (CSV, optionally .gz)")
	flag.StringVar(&opts.words, "words", cfg.Inputs.WordsPath, "Word list used to score 5 character windows")
	flag.IntVar(&opts.beam, "beam", cfg.Decode.BeamWidth, "Beam width: candidates kept per position")
	flag.IntVar(&opts.workers, "workers", cfg.Decode.Workers, "Goroutines expanding the beam")
	flag.DurationVar(&opts.timeout, "timeout", cfg.Decode.Timeout, "Stop decoding after this long (0 for no limit)")
	flag.BoolVar(&opts.truncate, "truncate", false, "Decode the common prefix of ciphertexts of different length instead of failing")
	flag.StringVar(&opts.out1, "out1", "plain1.txt", "Output file for the first plaintext")
	flag.StringVar(&opts.out2, "out2", "plain2.txt", "Output file for the second plaintext")
	flag.StringVar(&opts.dbPath, "db", "", "Record the run in this SQLite database (optional)")
	flag.Parse()

	// Validate input
	if opts.input == "" {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: --input flag is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	log := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer log.Sync()

	fmt.Printf("Two-Time Pad Recovery Tool\n")
	fmt.Printf("==========================\n\n")
	fmt.Printf("Input: %s\n", opts.input)
	if opts.input2 != "" {
		fmt.Printf("Input 2: %s\n", opts.input2)
	}
	fmt.Printf("Beam width: %d\n", opts.beam)
	fmt.Printf("Output files: %s, %s\n", opts.out1, opts.out2)
	fmt.Println()

	// Track start time for elapsed time reporting
	programStart := time.Now()

	// Progress callback that shows elapsed time
	progressCallback := func(msg string) {
		elapsed := time.Since(programStart)
		fmt.Printf("[%s] %s\n", formatElapsed(elapsed), msg)
	}

	res, err := run(context.Background(), opts, progressCallback, log)
	if err != nil {
		log.Error("cli", "recovery failed", map[string]interface{}{"error": err, "code": decode.Classify(err)})
		color.New(color.FgRed).Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}

	// Summary
	color.New(color.FgGreen, color.Bold).Printf("\n✓ Success!\n")
	fmt.Printf("  Bytes decoded: %d\n", res.Positions)
	fmt.Printf("  Score: %.3f\n", res.Score)
	fmt.Printf("  Processing time: %s\n", time.Since(programStart).Round(time.Millisecond))
	fmt.Printf("  Output files: %s, %s\n", opts.out1, opts.out2)
	fmt.Println()
}

// run loads every input, decodes, and writes both plaintexts. Nothing is
// written unless every input loaded and the search finished.
func run(ctx context.Context, opts options, progress func(string), log logger.ILogger) (decode.Result, error) {
	var (
		c1, c2 []byte
		err    error
	)
	progress("Loading ciphertexts...")
	if opts.input2 != "" {
		c1, c2, err = decode.LoadCiphertextPair(opts.input, opts.input2)
	} else {
		c1, c2, err = decode.LoadCiphertexts(opts.input, opts.chunk)
	}
	if err != nil {
		return decode.Result{}, err
	}

	var xor []byte
	if opts.truncate {
		xor = decode.XORStreamTruncate(c1, c2)
	} else if xor, err = decode.XORStream(c1, c2); err != nil {
		return decode.Result{}, err
	}

	progress("Loading bigram table...")
	model, err := decode.LoadBigramTableFile(opts.table)
	if err != nil {
		return decode.Result{}, err
	}

	progress("Loading dictionary...")
	dict, err := decode.LoadDictionaryFile(opts.words)
	if err != nil {
		return decode.Result{}, err
	}
	log.Info("cli", "inputs loaded", map[string]interface{}{
		"xor_bytes":  len(xor),
		"table_rows": model.Rows(),
		"words":      dict.Len(),
	})

	decodeOpts := decode.DefaultOptions()
	decodeOpts.BeamWidth = opts.beam
	decodeOpts.Workers = opts.workers
	decodeOpts.Progress = func(done, total int) {
		if done%progressReportInterval == 0 || done == total {
			progress(fmt.Sprintf("  Decoded %d/%d bytes", done, total))
		}
	}

	dec, err := decode.NewDecoder(model, dict, decodeOpts)
	if err != nil {
		return decode.Result{}, err
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	progress(fmt.Sprintf("Decoding %d bytes with beam width %d...", len(xor), opts.beam))
	res, err := dec.Decode(ctx, xor)
	if err != nil {
		return res, err
	}
	if res.Positions < len(xor) {
		log.Warn("cli", "no plaintext pair fits the stream past this position", map[string]interface{}{
			"positions": res.Positions,
			"length":    len(xor),
		})
		progress(color.YellowString("  Search ended early after %d/%d bytes", res.Positions, len(xor)))
	}

	progress("Writing output files...")
	if err := decode.WritePlaintexts(res.Plaintext1, res.Plaintext2, opts.out1, opts.out2); err != nil {
		return res, err
	}

	if opts.dbPath != "" {
		if err := recordRun(opts.dbPath, opts.beam, xor, res); err != nil {
			return res, err
		}
		progress(fmt.Sprintf("Run recorded in %s", opts.dbPath))
	}

	log.Info("cli", "recovery finished", map[string]interface{}{
		"positions":  res.Positions,
		"score":      res.Score,
		"beam_width": opts.beam,
	})

	return res, nil
}

func recordRun(dbPath string, width int, xor []byte, res decode.Result) error {
	db, err := store.InitDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.CreateSchema(db); err != nil {
		return err
	}

	return store.SaveRun(db, &store.Run{
		BeamWidth:  width,
		XOR:        xor,
		Plaintext1: res.Plaintext1,
		Plaintext2: res.Plaintext2,
		Score:      res.Score,
		Positions:  res.Positions,
		Complete:   res.Complete,
	})
}

// formatElapsed formats a duration into a human-readable elapsed time string
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes > 0 {
		return fmt.Sprintf("%dm%02ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

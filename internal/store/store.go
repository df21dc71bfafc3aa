package store

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const (
	dropTables = `
		DROP TABLE IF EXISTS runs;
	`

	createTables = `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			beam_width INTEGER NOT NULL,
			xor_hex TEXT NOT NULL,
			plaintext1 TEXT NOT NULL,
			plaintext2 TEXT NOT NULL,
			score REAL NOT NULL,
			positions INTEGER NOT NULL,
			complete INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at);
	`
)

// Run is one stored decode result.
type Run struct {
	ID         uuid.UUID `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	BeamWidth  int       `json:"beamWidth"`
	XOR        []byte    `json:"-"`
	Plaintext1 string    `json:"plaintext1"`
	Plaintext2 string    `json:"plaintext2"`
	Score      float64   `json:"score"`
	Positions  int       `json:"positions"`
	Complete   bool      `json:"complete"`
}

// InitDB initializes and returns a SQLite database connection
func InitDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// CreateSchema creates the runs table if it does not exist.
func CreateSchema(db *sql.DB) error {
	if _, err := db.Exec(createTables); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// ResetSchema drops and recreates the runs table.
func ResetSchema(db *sql.DB) error {
	if _, err := db.Exec(dropTables); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return CreateSchema(db)
}

// SaveRun stores run, assigning an ID and creation time when they are unset.
func SaveRun(db *sql.DB, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO runs (id, created_at, beam_width, xor_hex, plaintext1, plaintext2, score, positions, complete)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.Exec(query,
		run.ID.String(),
		run.CreatedAt,
		run.BeamWidth,
		hex.EncodeToString(run.XOR),
		run.Plaintext1,
		run.Plaintext2,
		run.Score,
		run.Positions,
		run.Complete,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run    Run
		id     string
		xorHex string
	)
	if err := s.Scan(&id, &run.CreatedAt, &run.BeamWidth, &xorHex, &run.Plaintext1, &run.Plaintext2, &run.Score, &run.Positions, &run.Complete); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	run.ID = parsed

	run.XOR, err = hex.DecodeString(xorHex)
	if err != nil {
		return nil, fmt.Errorf("invalid xor stream for run %s: %w", id, err)
	}

	return &run, nil
}

// GetRun fetches a single run by its ID. It returns nil, nil if no run matches.
func GetRun(db *sql.DB, id uuid.UUID) (*Run, error) {
	query := `SELECT id, created_at, beam_width, xor_hex, plaintext1, plaintext2, score, positions, complete
		FROM runs WHERE id = ?`

	run, err := scanRun(db.QueryRow(query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Run not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	return run, nil
}

// ListRuns fetches the most recent runs, newest first.
func ListRuns(db *sql.DB, limit int) ([]Run, error) {
	query := `SELECT id, created_at, beam_width, xor_hex, plaintext1, plaintext2, score, positions, complete
		FROM runs ORDER BY created_at DESC, id LIMIT ?`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

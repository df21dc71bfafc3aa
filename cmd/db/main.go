package main

import (
	"flag"
	"fmt"
	"log"

	"two-time-pad/internal/config"
	"two-time-pad/internal/store"
)

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.DB.Path, "SQLite database file")
	reset := flag.Bool("reset", false, "Drop existing run history before creating tables")
	flag.Parse()

	log.Printf("Setting up database at: %s\n", *dbPath)

	db, err := store.InitDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if *reset {
		log.Println("Dropping existing tables...")
		if err := store.ResetSchema(db); err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	} else {
		log.Println("Creating tables...")
		if err := store.CreateSchema(db); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
	}

	runs, err := store.ListRuns(db, 1)
	if err != nil {
		log.Fatalf("Failed to read runs: %v", err)
	}

	log.Println("Database setup completed successfully!")
	if len(runs) > 0 {
		fmt.Printf("\nMost recent run: %s (%s)\n", runs[0].ID, runs[0].CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

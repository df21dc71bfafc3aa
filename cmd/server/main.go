package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"two-time-pad/internal/api"
	"two-time-pad/internal/config"
	"two-time-pad/internal/decode"
	"two-time-pad/internal/logger"
	"two-time-pad/internal/store"

	"github.com/go-chi/chi/v5"
)

func main() {
	cfg := config.Load()

	tablePath := flag.String("table", cfg.Inputs.BigramTable, "Path to the bigram count table")
	wordsPath := flag.String("words", cfg.Inputs.WordsPath, "Path to the word list")
	history := flag.Bool("history", true, "Record decode runs in the SQLite database at DB_PATH")
	flag.Parse()

	zlog := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer zlog.Sync()

	// Load the shared, read-only scoring oracles
	model, err := decode.LoadBigramTableFile(*tablePath)
	if err != nil {
		log.Fatalf("Failed to load bigram table: %v", err)
	}
	dict, err := decode.LoadDictionaryFile(*wordsPath)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}
	zlog.Info("server", "scoring data loaded", map[string]interface{}{
		"table_rows": model.Rows(),
		"words":      dict.Len(),
	})

	var db *sql.DB
	if *history {
		zlog.Info("server", "connecting to database", map[string]interface{}{"path": cfg.DB.Path})
		db, err = store.InitDB(cfg.DB.Path)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		if err := store.CreateSchema(db); err != nil {
			log.Fatalf("Failed to create schema: %v", err)
		}
	}

	server := api.NewServer(model, dict, db, api.Options{
		BeamWidth: cfg.Decode.BeamWidth,
		Workers:   cfg.Decode.Workers,
		Timeout:   cfg.Decode.ServerTimeout,
		CacheTTL:  cfg.App.CacheTTL,
		MaxBody:   int64(cfg.Decode.MaxBodyBytes),
	}, zlog)

	mux := chi.NewMux()
	h := api.HandlerFromMux(server, mux)

	s := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: h,
	}

	fmt.Printf("Starting server on :%s\n", cfg.App.Port)
	if err := s.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Decode DecodeConfig
	Inputs InputConfig
	DB     DatabaseConfig
}

type AppConfig struct {
	Port        string
	Environment string
	LogFilePath string
	CacheTTL    time.Duration
}

type DecodeConfig struct {
	BeamWidth int
	Workers   int
	Timeout   time.Duration // CLI budget, 0 disables the limit

	ServerTimeout time.Duration // per HTTP request budget, 0 disables the limit
	MaxBodyBytes  int
}

type InputConfig struct {
	BigramTable string
	WordsPath   string
	ChunkSize   int
}

type DatabaseConfig struct {
	Path string
}

// IsProduction reports whether GO_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "8080"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "recover.log"),
			CacheTTL:    getEnvAsDuration("CACHE_TTL", 10*time.Minute),
		},
		Decode: DecodeConfig{
			BeamWidth: getEnvAsInt("BEAM_WIDTH", 30),
			Workers:   getEnvAsInt("DECODE_WORKERS", 1),
			Timeout:   getEnvAsDuration("DECODE_TIMEOUT", 0),

			ServerTimeout: getEnvAsDuration("SERVER_DECODE_TIMEOUT", 30*time.Second),
			MaxBodyBytes:  getEnvAsInt("MAX_BODY_BYTES", 1<<20),
		},
		Inputs: InputConfig{
			BigramTable: getEnv("BIGRAM_TABLE", "ftable2.csv"),
			WordsPath:   getEnv("WORDS_PATH", "/usr/share/dict/words"),
			ChunkSize:   getEnvAsInt("CHUNK_SIZE", 1024),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./runs.db"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

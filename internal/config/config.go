package config

import (
	"os"
	"strconv"
)

// Config is the process configuration, sourced from the environment.
// Defaults are development values and unsuitable for production; in
// particular the fallback session secret must be overridden.
type Config struct {
	Port          string
	DatabaseDSN   string
	SessionSecret string
	Env           string
	Debug         bool
	Migrations    bool
	SeedDB        bool
	// ImportDuplicateMode selects what a CSV row with an already known
	// license number does: "upsert" updates the archer, "reject" records
	// a row error.
	ImportDuplicateMode string
	AdminPassword       string

	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

// Load reads configuration from environment variables with defaults.
// Precedence: explicit env var > .env file (loaded by the caller) > default.
func Load() Config {
	return Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseDSN:         getEnv("DATABASE_DSN", "file:aim.db"),
		SessionSecret:       getEnv("SESSION_SECRET", "devsessionsecret"),
		Env:                 getEnv("APP_ENV", "development"),
		Debug:               parseBool("DEBUG", false),
		Migrations:          parseBool("MIGRATIONS", false),
		SeedDB:              parseBool("DB_SEED", true),
		ImportDuplicateMode: getEnv("IMPORT_DUPLICATE_MODE", "upsert"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		ReadTimeout:         parseInt("READ_TIMEOUT", 15),
		WriteTimeout:        parseInt("WRITE_TIMEOUT", 30),
		IdleTimeout:         parseInt("IDLE_TIMEOUT", 60),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func parseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

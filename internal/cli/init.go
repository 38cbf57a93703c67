// Package cli provides common initialization utilities shared by
// cmd/tally and cmd/tally-init.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"tally/internal/catalog"
	"tally/internal/config"
	"tally/internal/log"
	"tally/internal/storage"
)

// SetupLogger initializes structured logging with default settings and
// installs it as the process default. Output goes to stderr: in stdio
// mode stdout carries the protocol stream.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// ConfigureLogger rebuilds the logger from validated configuration and
// installs it as the process default.
func ConfigureLogger(cfg *config.Config) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Writer:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore opens the SQLite store at the given path, running any pending
// migrations. Exits the process on failure.
func OpenStore(logger *log.Logger, dbPath string) *storage.SQLiteStore {
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Error("Failed to open SQLite store", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return store
}

// LoadCatalog loads the category catalog from path, falling back to the
// built-in defaults when path is empty. Exits the process on failure.
func LoadCatalog(logger *log.Logger, path string) *catalog.Catalog {
	cat, err := catalog.Load(path)
	if err != nil {
		logger.Error("Failed to load category catalog", "error", err, "path", path)
		os.Exit(1)
	}
	return cat
}

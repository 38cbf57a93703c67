package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Transport selects how the tool server talks to its client.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	// Database
	SQLiteDBPath string

	// Category catalog; empty means the embedded defaults
	CategoriesPath string

	// Tool server
	Transport string
	HTTPAddr  string

	// Logging
	LogLevel  string
	LogFormat string

	// Summary cache
	SummaryCacheSize     int
	SummaryCacheTTL      time.Duration
	CacheCleanupInterval time.Duration
}

func Load() *Config {
	return &Config{
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/tally.db"),
		CategoriesPath: getEnv("CATEGORIES_PATH", ""),

		Transport: getEnv("MCP_TRANSPORT", TransportStdio),
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		SummaryCacheSize:     getEnvInt("SUMMARY_CACHE_SIZE", 128),
		SummaryCacheTTL:      getEnvDuration("SUMMARY_CACHE_TTL", 5*time.Minute),
		CacheCleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", 10*time.Minute),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.Transport != TransportStdio && c.Transport != TransportHTTP {
		errors = append(errors, fmt.Sprintf("invalid transport '%s': must be one of [stdio http]", c.Transport))
	}

	if c.Transport == TransportHTTP {
		if msg := validateAddr(c.HTTPAddr); msg != "" {
			errors = append(errors, msg)
		}
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.CategoriesPath != "" {
		if _, err := os.Stat(c.CategoriesPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("categories file does not exist: %s", c.CategoriesPath))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of [text json]", c.LogFormat))
	}

	if c.SummaryCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid summary cache size %d: must be at least 1", c.SummaryCacheSize))
	} else if c.SummaryCacheSize > 100000 {
		errors = append(errors, fmt.Sprintf("invalid summary cache size %d: must be at most 100000", c.SummaryCacheSize))
	}

	if c.SummaryCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid summary cache TTL %v: must be at least 1 second", c.SummaryCacheTTL))
	} else if c.SummaryCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid summary cache TTL %v: must be at most 24 hours", c.SummaryCacheTTL))
	}

	if c.CacheCleanupInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache cleanup interval %v: must be at least 1 second", c.CacheCleanupInterval))
	} else if c.CacheCleanupInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache cleanup interval %v: must be at most 24 hours", c.CacheCleanupInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func validateAddr(addr string) string {
	if addr == "" {
		return "HTTP address cannot be empty when using http transport"
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Sprintf("invalid HTTP address '%s': %v", addr, err)
	}
	if p, err := strconv.Atoi(port); err != nil {
		return fmt.Sprintf("invalid HTTP port '%s': must be a number", port)
	} else if p < 1 || p > 65535 {
		return fmt.Sprintf("invalid HTTP port %d: must be between 1 and 65535", p)
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

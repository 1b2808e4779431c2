package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	applog "invoicestats/internal/log"
)

type Config struct {
	// HTTP Server
	Port              string
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
	CORSAllowedOrigin string
	RateLimitPerMin   int

	// Database
	InvoiceDBPath string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "5000"),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 7*time.Second),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		InvoiceDBPath: getEnv("INVOICE_DB_PATH", "./data/invoice_app.db"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.InvoiceDBPath == "" {
		errors = append(errors, "invoice database path cannot be empty")
	} else {
		dir := filepath.Dir(c.InvoiceDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create invoice database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.RateLimitPerMin < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be 0 (disabled) or positive", c.RateLimitPerMin))
	}

	if c.RequestTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be at least 100ms", c.RequestTimeout))
	} else if c.RequestTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be at most 5 minutes", c.RequestTimeout))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	if strings.TrimSpace(c.CORSAllowedOrigin) == "" {
		errors = append(errors, "CORS allowed origin cannot be empty (use '*' to allow any)")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
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

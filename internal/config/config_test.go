package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:              "5000",
		RequestTimeout:    7 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		CORSAllowedOrigin: "*",
		RateLimitPerMin:   120,
		InvoiceDBPath:     "./invoice_app.db",
		LogLevel:          "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "rate limit disabled",
			mutate:  func(c *Config) { c.RateLimitPerMin = 0 },
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "trace" },
			wantErr:     true,
			errorString: "invalid log level 'trace'",
		},
		{
			name:        "empty database path",
			mutate:      func(c *Config) { c.InvoiceDBPath = "" },
			wantErr:     true,
			errorString: "invoice database path cannot be empty",
		},
		{
			name:        "negative rate limit",
			mutate:      func(c *Config) { c.RateLimitPerMin = -1 },
			wantErr:     true,
			errorString: "invalid rate limit -1",
		},
		{
			name:        "request timeout too short",
			mutate:      func(c *Config) { c.RequestTimeout = 10 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid request timeout 10ms: must be at least 100ms",
		},
		{
			name:        "request timeout too long",
			mutate:      func(c *Config) { c.RequestTimeout = time.Hour },
			wantErr:     true,
			errorString: "invalid request timeout 1h0m0s: must be at most 5 minutes",
		},
		{
			name:        "shutdown timeout too short",
			mutate:      func(c *Config) { c.ShutdownTimeout = 0 },
			wantErr:     true,
			errorString: "invalid shutdown timeout 0s",
		},
		{
			name:        "empty CORS origin",
			mutate:      func(c *Config) { c.CORSAllowedOrigin = " " },
			wantErr:     true,
			errorString: "CORS allowed origin cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "configuration validation failed:") {
		t.Errorf("unexpected prefix: %q", msg)
	}
	if strings.Count(msg, "\n- ") != 2 {
		t.Errorf("expected two listed problems, got %q", msg)
	}
}

func TestConfig_ValidateCreatesDatabaseDir(t *testing.T) {
	cfg := validConfig()
	cfg.InvoiceDBPath = filepath.Join(t.TempDir(), "nested", "data", "invoice_app.db")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{"PORT", "INVOICE_DB_PATH", "LOG_LEVEL", "CORS_ALLOWED_ORIGIN",
		"RATE_LIMIT_PER_MINUTE", "REQUEST_TIMEOUT", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "5000" {
			t.Errorf("Load() Port = %v, want 5000", cfg.Port)
		}
		if cfg.InvoiceDBPath != "./data/invoice_app.db" {
			t.Errorf("Load() InvoiceDBPath = %v, want ./data/invoice_app.db", cfg.InvoiceDBPath)
		}
		if cfg.CORSAllowedOrigin != "*" {
			t.Errorf("Load() CORSAllowedOrigin = %v, want *", cfg.CORSAllowedOrigin)
		}
		if cfg.RateLimitPerMin != 120 {
			t.Errorf("Load() RateLimitPerMin = %v, want 120", cfg.RateLimitPerMin)
		}
		if cfg.RequestTimeout != 7*time.Second {
			t.Errorf("Load() RequestTimeout = %v, want 7s", cfg.RequestTimeout)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
		}
		if cfg.Addr() != ":5000" {
			t.Errorf("Addr() = %v, want :5000", cfg.Addr())
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("INVOICE_DB_PATH", "/tmp/invoices.db")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
		t.Setenv("REQUEST_TIMEOUT", "2s")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.InvoiceDBPath != "/tmp/invoices.db" {
			t.Errorf("Load() InvoiceDBPath = %v", cfg.InvoiceDBPath)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
		if cfg.RateLimitPerMin != 0 {
			t.Errorf("Load() RateLimitPerMin = %v, want 0", cfg.RateLimitPerMin)
		}
		if cfg.RequestTimeout != 2*time.Second {
			t.Errorf("Load() RequestTimeout = %v, want 2s", cfg.RequestTimeout)
		}
	})

	t.Run("invalid numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")

		cfg := Load()

		if cfg.RateLimitPerMin != 120 {
			t.Errorf("Load() RateLimitPerMin = %v, want 120", cfg.RateLimitPerMin)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
		}
	})
}

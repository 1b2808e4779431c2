// Package cors answers browser preflight requests and tags responses with
// the cross-origin headers dashboards need to read the API.
package cors

import (
	"net/http"
	"strings"
)

// Config holds CORS header values.
type Config struct {
	AllowedOrigin  string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAgeSeconds  string
}

// DefaultConfig allows any origin to read.
func DefaultConfig() Config {
	return Config{
		AllowedOrigin:  "*",
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		MaxAgeSeconds:  "86400",
	}
}

// Middleware sets the CORS headers on every response. OPTIONS requests are
// answered with 204 and never reach next.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	origin := cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
			if methods != "" {
				h.Set("Access-Control-Allow-Methods", methods)
			}
			if headers != "" {
				h.Set("Access-Control-Allow-Headers", headers)
			}

			if r.Method == http.MethodOptions {
				if cfg.MaxAgeSeconds != "" {
					h.Set("Access-Control-Max-Age", cfg.MaxAgeSeconds)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

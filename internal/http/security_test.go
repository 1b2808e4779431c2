package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct public peer", "203.0.113.7:5555", nil, "203.0.113.7"},
		{"public peer cannot spoof", "203.0.113.7:5555", map[string]string{"X-Forwarded-For": "1.1.1.1"}, "203.0.113.7"},
		{"trusted proxy forwards", "10.0.0.2:5555", map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.9"}, "198.51.100.4"},
		{"trusted proxy real ip", "127.0.0.1:5555", map[string]string{"X-Real-IP": "198.51.100.5"}, "198.51.100.5"},
		{"trusted proxy bad header", "192.168.1.1:5555", map[string]string{"X-Forwarded-For": "garbage"}, "192.168.1.1"},
		{"no port", "198.51.100.9", nil, "198.51.100.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := extractClientIP(req); got != tt.want {
				t.Errorf("extractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

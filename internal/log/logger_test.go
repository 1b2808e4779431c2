package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerComponentAppearsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentApp, Output: &buf})

	logger.With(FieldRequestID, "req_1").WithComponent(ComponentStats).Info("hello")

	line := buf.String()
	if strings.Count(line, "component=") != 1 {
		t.Fatalf("expected one component field, got %q", line)
	}
	if !strings.Contains(line, "component=stats") || !strings.Contains(line, "request_id=req_1") {
		t.Fatalf("missing fields in %q", line)
	}
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info line should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn line missing: %q", buf.String())
	}
}

func TestMiddlewareCarriesLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})

	var got *Logger
	h := Middleware(logger.WithComponent(ComponentHTTP))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got == nil {
		t.Fatal("logger missing from context")
	}
	got.Info("inside handler")
	if !strings.Contains(buf.String(), "component=http") {
		t.Fatalf("expected http component, got %q", buf.String())
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	l := FromContext(context.Background())
	if l == nil {
		t.Fatal("nil fallback logger")
	}
	l.Info("fallback")
	if !strings.Contains(buf.String(), "component=app") {
		t.Fatalf("expected app component, got %q", buf.String())
	}
}

func TestStructuredLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Level: slog.LevelDebug, Output: &buf}))
	req := httptest.NewRequest(http.MethodGet, "/api/stats/overview", nil)

	sl.LogHTTPEnd(context.Background(), req, "req_1", http.StatusNotFound, 3, "10.0.0.1")
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("404 should log at warn: %q", buf.String())
	}

	buf.Reset()
	sl.LogHTTPEnd(context.Background(), req, "req_1", http.StatusInternalServerError, 3, "10.0.0.1")
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("500 should log at error: %q", buf.String())
	}

	buf.Reset()
	sl.LogError(context.Background(), "read failed", errors.New("boom"), OpRead, NewFields().WithInvoice(7))
	if !strings.Contains(buf.String(), "invoice_id=7") || !strings.Contains(buf.String(), "error=boom") {
		t.Errorf("missing fields: %q", buf.String())
	}
}

func TestFieldsToSliceIsSortedByKey(t *testing.T) {
	fields := NewFields().
		WithHTTPRequest(http.MethodGet, "/api/invoices/7", "", "curl/8.0", "").
		WithHTTPResponse(http.StatusOK, 4, true).
		WithRequestID("req_1").
		WithClientIP("10.0.0.1").
		WithInvoice(7)

	for i := 0; i < 20; i++ {
		slice := fields.ToSlice()
		if len(slice) != len(fields)*2 {
			t.Fatalf("expected %d entries, got %d", len(fields)*2, len(slice))
		}
		for j := 2; j < len(slice); j += 2 {
			if slice[j-2].(string) >= slice[j].(string) {
				t.Fatalf("keys out of order at %d: %v", j, slice)
			}
		}
	}
}

func TestStructuredLoggerStableFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Level: slog.LevelInfo, Component: ComponentTrace, Output: &buf}))
	req := httptest.NewRequest(http.MethodGet, "/api/stats/overview", nil)

	var first string
	for i := 0; i < 10; i++ {
		buf.Reset()
		sl.LogHTTPEnd(context.Background(), req, "req_1", http.StatusOK, 2, "10.0.0.1")
		line := buf.String()
		line = line[strings.Index(line, "component="):]
		if i == 0 {
			first = line
			continue
		}
		if line != first {
			t.Fatalf("field order changed:\n%s\n%s", first, line)
		}
	}
	if !strings.Contains(first, "client_ip=10.0.0.1 duration_ms=2 method=GET") {
		t.Fatalf("fields not in key order: %q", first)
	}
}

func TestLogFieldsEntityIDs(t *testing.T) {
	fields := NewFields().WithClient(3).WithCompany(4).WithInvoice(5)
	if fields[FieldClientID] != int64(3) || fields[FieldCompanyID] != int64(4) || fields[FieldInvoiceID] != int64(5) {
		t.Fatalf("unexpected fields %v", fields)
	}
}

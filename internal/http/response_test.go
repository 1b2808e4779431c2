package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONResponseBuilder(t *testing.T) {
	rr := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Test", "1").
		JSON(map[string]int{"a": 1}).
		Write(rr)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d", rr.Code)
	}
	if rr.Header().Get("X-Test") != "1" || rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("headers %v", rr.Header())
	}
	if rr.Body.String() != `{"a":1}` {
		t.Fatalf("body %q", rr.Body.String())
	}
}

func TestJSONResponseBuilderEncodingFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	NewJSONResponse().JSON(map[string]any{"bad": make(chan int)}).Write(rr)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestErrorHelpers(t *testing.T) {
	rr := httptest.NewRecorder()
	InternalServerError("Error fetching stats: ", errors.New("boom")).Write(rr)
	if rr.Code != http.StatusInternalServerError || rr.Body.String() != `{"error":"Error fetching stats: boom"}` {
		t.Fatalf("got %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	NotFoundError().Write(rr)
	if rr.Code != http.StatusNotFound || rr.Body.String() != `{"error":"not found"}` {
		t.Fatalf("got %d %q", rr.Code, rr.Body.String())
	}
}

package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestKeyedLimiterBurstPerKey(t *testing.T) {
	l := New(rate.Every(time.Hour), 2)
	defer l.Stop()

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("Expected the first two events to be allowed")
	}
	if l.Allow("a") {
		t.Error("Expected third event for the same key to be rejected")
	}
	if !l.Allow("b") {
		t.Error("Expected a different key to have its own bucket")
	}
	if l.Len() != 2 {
		t.Errorf("Expected 2 tracked keys, got %d", l.Len())
	}
}

func TestKeyedLimiterSweepRemovesIdleKeys(t *testing.T) {
	l := New(rate.Limit(10), 1)
	defer l.Stop()

	l.Allow("idle")

	removed, remaining := l.sweep(time.Now().Add(time.Second))
	if removed != 1 || remaining != 0 {
		t.Errorf("Expected 1 removed / 0 remaining, got %d / %d", removed, remaining)
	}
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	l := New(rate.Every(time.Hour), 1)
	defer l.Stop()

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(first, req)
	if first.Code != http.StatusNoContent {
		t.Fatalf("Expected first request to pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", second.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:555"
	if got := ClientIP(req); got != "192.168.1.9" {
		t.Errorf("Expected 192.168.1.9, got %s", got)
	}

	req.RemoteAddr = ""
	if got := ClientIP(req); got != "unknown_ip" {
		t.Errorf("Expected unknown_ip, got %s", got)
	}
}

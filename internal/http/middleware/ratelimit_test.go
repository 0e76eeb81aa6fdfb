package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRateLimiterAllowsBurstThenDenies(t *testing.T) {
	rl := NewRateLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("expected request %d within burst to be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatalf("expected request beyond burst to be denied")
	}
}

func TestRateLimiterTracksIPsIndependently(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	if !rl.Allow("10.0.0.1") {
		t.Fatalf("expected first ip to be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatalf("expected first ip to be exhausted")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatalf("expected second ip to have its own bucket")
	}
}

func TestRateLimitMiddlewareThrottlesIntake(t *testing.T) {
	hits := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusCreated)
	})

	mw := RateLimit(1, 2)
	wrapped := mw(handler)

	var rec *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/lead/", nil)
		req.Header.Set("X-Real-Ip", "203.0.113.9")
		rec = httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
	}

	if hits != 2 {
		t.Fatalf("expected 2 requests through, got %d", hits)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "throttled") {
		t.Fatalf("expected throttle detail payload, got %q", rec.Body.String())
	}
}

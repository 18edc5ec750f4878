package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_BurstThenRefill(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2)
	rl.now = func() time.Time { return now }

	if !rl.Allow("k") || !rl.Allow("k") {
		t.Fatalf("burst of 2 should be allowed")
	}
	if rl.Allow("k") {
		t.Fatalf("third call should be limited")
	}
	if !rl.Allow("other") {
		t.Fatalf("keys must not share a bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("k") {
		t.Fatalf("bucket should refill after one second")
	}
}

func TestRateLimiter_ForgetsIdleKeys(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("idle")
	now = now.Add(limiterMaxAge + time.Minute)
	rl.Allow("fresh")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.store["idle"]; ok {
		t.Fatalf("idle key should have been evicted")
	}
}

func TestIPRateLimit(t *testing.T) {
	e := echo.New()
	mw := IPRateLimit(NewRateLimiter(0.001, 1))
	next := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	call := func(ip string) error {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/auth/login")
		return next(c)
	}

	if err := call("10.0.0.1"); err != nil {
		t.Fatalf("first call rejected: %v", err)
	}
	err := call("10.0.0.1")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
	if err := call("10.0.0.2"); err != nil {
		t.Fatalf("another IP should not be limited: %v", err)
	}
}

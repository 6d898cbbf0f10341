package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, perMinute int) (*Limiter, *time.Time) {
	t.Helper()
	rl := NewLimiter(Config{RequestsPerMinute: perMinute})
	t.Cleanup(rl.Stop)
	clock := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }
	return rl, &clock
}

func TestAllow(t *testing.T) {
	rl, clock := newTestLimiter(t, 2)

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Fatal("third request in the window should be refused")
	}
	if !rl.Allow("b") {
		t.Fatal("clients are limited independently")
	}
	if rl.Rejected() != 1 {
		t.Fatalf("rejected = %d, want 1", rl.Rejected())
	}

	*clock = clock.Add(time.Minute)
	if !rl.Allow("a") {
		t.Fatal("a new window should reset the count")
	}
}

func TestCleanupStaleEntries(t *testing.T) {
	rl, clock := newTestLimiter(t, 5)
	rl.Allow("old")
	*clock = clock.Add(11 * time.Minute)
	rl.Allow("new")

	rl.cleanupStaleEntries()

	if rl.ActiveClients() != 1 {
		t.Fatalf("active clients = %d, want 1", rl.ActiveClients())
	}
}

func TestMiddlewareOnlyLimitsMutations(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	handler := rl.Middleware(func(*http.Request) string { return "10.0.0.1" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	do := func(method string) int {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, "/api/expenses", nil))
		return rec.Code
	}

	if code := do(http.MethodPost); code != http.StatusNoContent {
		t.Fatalf("first POST = %d", code)
	}
	if code := do(http.MethodDelete); code != http.StatusTooManyRequests {
		t.Fatalf("second mutation = %d, want 429", code)
	}
	for i := 0; i < 3; i++ {
		if code := do(http.MethodGet); code != http.StatusNoContent {
			t.Fatalf("GET should never be limited, got %d", code)
		}
	}
}

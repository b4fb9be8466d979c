package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	t.Run("allows up to the limit", func(t *testing.T) {
		rl := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			allowed, remaining, _ := rl.Allow("rate:1.2.3.4")
			if !allowed {
				t.Fatalf("request %d: expected allowed", i+1)
			}
			if remaining != 3-i-1 {
				t.Fatalf("request %d: expected remaining %d, got %d", i+1, 3-i-1, remaining)
			}
		}

		allowed, remaining, _ := rl.Allow("rate:1.2.3.4")
		if allowed {
			t.Fatal("expected fourth request to be denied")
		}
		if remaining != 0 {
			t.Fatalf("expected zero remaining, got %d", remaining)
		}
	})

	t.Run("clients are independent", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)

		if allowed, _, _ := rl.Allow("rate:1.1.1.1"); !allowed {
			t.Fatal("first client must be allowed")
		}
		if allowed, _, _ := rl.Allow("rate:2.2.2.2"); !allowed {
			t.Fatal("second client must not share the first client's window")
		}
		if allowed, _, _ := rl.Allow("rate:1.1.1.1"); allowed {
			t.Fatal("first client must be exhausted")
		}
	})

	t.Run("window expiry resets the count", func(t *testing.T) {
		rl := NewRateLimiter(1, 20*time.Millisecond)

		rl.Allow("rate:1.2.3.4")
		if allowed, _, _ := rl.Allow("rate:1.2.3.4"); allowed {
			t.Fatal("expected denial inside the window")
		}

		time.Sleep(30 * time.Millisecond)
		if allowed, _, _ := rl.Allow("rate:1.2.3.4"); !allowed {
			t.Fatal("expected a fresh window after expiry")
		}
	})
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(10, time.Millisecond)

	rl.Allow("rate:1.1.1.1")
	rl.Allow("rate:2.2.2.2")

	// age the windows past the grace period and force a cleanup pass
	rl.mu.Lock()
	for _, w := range rl.counters {
		w.resetAt = time.Now().Add(-expiredWindowGrace - time.Minute)
		w.lastSeen = time.Now().Add(-staleEntryTTL - time.Minute)
	}
	rl.lastCleanup = time.Now().Add(-cleanupInterval - time.Minute)
	rl.mu.Unlock()

	rl.Allow("rate:3.3.3.3")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.counters) != 1 {
		t.Fatalf("expected stale entries swept, got %d entries", len(rl.counters))
	}
	if _, ok := rl.counters["rate:3.3.3.3"]; !ok {
		t.Fatal("the live entry must survive the sweep")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	handler := RateLimitMiddleware(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/generate-api-key", nil)
		req.RemoteAddr = "10.0.0.5:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	if got := first.Header().Get("X-RateLimit-Limit"); got != "2" {
		t.Fatalf("expected limit header 2, got %q", got)
	}
	if got := first.Header().Get("X-RateLimit-Remaining"); got != "1" {
		t.Fatalf("expected remaining header 1, got %q", got)
	}
	if first.Header().Get("X-RateLimit-Reset") == "" {
		t.Fatal("expected reset header")
	}

	send()
	third := send()
	if third.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", third.Code)
	}
	body := decodeEnvelope(t, third)
	if body["success"] != false {
		t.Fatalf("expected success=false envelope, got %#v", body)
	}
}

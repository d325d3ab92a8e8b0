package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/quillpad/quillpad/internal/cache"
)

// fakeLimiter allows the first `allow` calls per IP.
type fakeLimiter struct {
	mu    sync.Mutex
	allow int
	err   error
	calls map[string]int
}

func (f *fakeLimiter) CheckWriteRateLimit(ctx context.Context, ip string, rps, burst int) (*cache.RateLimitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[ip]++

	allowed := f.calls[ip] <= f.allow
	remaining := int64(f.allow - f.calls[ip])
	if remaining < 0 {
		remaining = 0
	}
	return &cache.RateLimitResult{
		Allowed:    allowed,
		Limit:      burst,
		Remaining:  remaining,
		RetryAfter: 1500 * time.Millisecond,
	}, nil
}

func newRateLimited(limiter WriteLimiter, enabled bool) http.Handler {
	cfg := RateLimitConfig{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Limiter: limiter,
		Enabled: enabled,
		RPS:     1,
		Burst:   2,
	}
	return RateLimitWrites(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
}

func send(h http.Handler, method, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitWrites_DeniesAfterBurst(t *testing.T) {
	t.Parallel()

	limiter := &fakeLimiter{allow: 2}
	h := newRateLimited(limiter, true)

	for i := 0; i < 2; i++ {
		if rec := send(h, http.MethodPost, "/api/user", "203.0.113.9:5555"); rec.Code != http.StatusCreated {
			t.Fatalf("request %d: status = %d, want 201", i, rec.Code)
		}
	}

	rec := send(h, http.MethodPost, "/api/user", "203.0.113.9:6666")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}

	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != "RATE_LIMITED" {
		t.Errorf("code = %q, want RATE_LIMITED", body.Code)
	}

	if limiter.calls["203.0.113.9"] != 3 {
		t.Errorf("port should be stripped from the bucket key, calls = %v", limiter.calls)
	}
}

func TestRateLimitWrites_PageResponse(t *testing.T) {
	t.Parallel()

	h := newRateLimited(&fakeLimiter{allow: 0}, true)

	rec := send(h, http.MethodPost, "/add_user", "198.51.100.4:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q, want plain text for pages", ct)
	}
}

func TestRateLimitWrites_PassThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		limiter WriteLimiter
		enabled bool
		method  string
	}{
		{"safe method", &fakeLimiter{allow: 0}, true, http.MethodGet},
		{"disabled", &fakeLimiter{allow: 0}, false, http.MethodPost},
		{"no limiter", nil, true, http.MethodPost},
		{"limiter error fails open", &fakeLimiter{err: errors.New("redis down")}, true, http.MethodPost},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newRateLimited(tt.limiter, tt.enabled)
			if rec := send(h, tt.method, "/api/article", "192.0.2.1:80"); rec.Code != http.StatusCreated {
				t.Errorf("status = %d, want 201", rec.Code)
			}
		})
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 1},
		{200 * time.Millisecond, 1},
		{time.Second, 1},
		{1001 * time.Millisecond, 2},
		{5 * time.Second, 5},
	}

	for _, tt := range tests {

		tt := tt
		if got := retryAfterSeconds(tt.in); got != tt.want {
			t.Errorf("retryAfterSeconds(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

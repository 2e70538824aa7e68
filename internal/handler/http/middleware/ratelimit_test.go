package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartvision/pkg/config"
)

// fakeClock は手動で進める時計
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(cfg config.RateLimitConfig) (*IPRateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewIPRateLimiter(cfg, nil)
	rl.now = clock.Now
	return rl, clock
}

func testRateConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:    true,
		Rate:       1,
		Burst:      3,
		IdleTTL:    time.Minute,
		MaxClients: 100,
	}
}

func TestIPRateLimiter_Allow_BurstThenRefill(t *testing.T) {
	rl, clock := newTestLimiter(testRateConfig())

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("1.1.1.1")
		require.True(t, ok, "request %d within burst", i)
	}

	ok, retry := rl.Allow("1.1.1.1")
	assert.False(t, ok)
	assert.InDelta(t, time.Second, retry, float64(10*time.Millisecond))

	// 拒否されたリクエストはトークンを消費しない
	clock.Advance(time.Second)
	ok, _ = rl.Allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = rl.Allow("1.1.1.1")
	assert.False(t, ok)
}

func TestIPRateLimiter_Allow_PerClient(t *testing.T) {
	rl, _ := newTestLimiter(testRateConfig())

	for i := 0; i < 3; i++ {
		rl.Allow("1.1.1.1")
	}
	ok, _ := rl.Allow("1.1.1.1")
	assert.False(t, ok)

	ok, _ = rl.Allow("2.2.2.2")
	assert.True(t, ok, "other clients keep their own bucket")
	assert.Equal(t, 2, rl.Clients())
}

func TestIPRateLimiter_Cleanup(t *testing.T) {
	rl, clock := newTestLimiter(testRateConfig())

	rl.Allow("1.1.1.1")
	clock.Advance(45 * time.Second)
	rl.Allow("2.2.2.2")
	clock.Advance(30 * time.Second)

	removed := rl.Cleanup()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, rl.Clients())
}

func TestIPRateLimiter_EvictsOldestAtCapacity(t *testing.T) {
	cfg := testRateConfig()
	cfg.MaxClients = 2
	rl, clock := newTestLimiter(cfg)

	rl.Allow("1.1.1.1")
	clock.Advance(time.Second)
	rl.Allow("2.2.2.2")
	clock.Advance(time.Second)
	rl.Allow("3.3.3.3")

	assert.Equal(t, 2, rl.Clients())
	rl.mu.Lock()
	_, oldest := rl.clients["1.1.1.1"]
	rl.mu.Unlock()
	assert.False(t, oldest, "least recently seen client is evicted")
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	cfg := testRateConfig()
	cfg.Burst = 2
	rl, _ := newTestLimiter(cfg)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	before := testutil.ToFloat64(rateLimitRejections.WithLabelValues("/api/pdf/summarize"))

	codes := make([]int, 3)
	var last *httptest.ResponseRecorder
	for i := range codes {
		req := httptest.NewRequest(http.MethodPost, "/api/pdf/summarize", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes[i] = rec.Code
		last = rec
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "1", last.Header().Get("Retry-After"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(last.Body).Decode(&body))
	assert.Equal(t, "rate limit exceeded", body["error"])
	assert.Equal(t, before+1, testutil.ToFloat64(rateLimitRejections.WithLabelValues("/api/pdf/summarize")))
}

func TestIPRateLimiter_Middleware_Disabled(t *testing.T) {
	cfg := testRateConfig()
	cfg.Enabled = false
	cfg.Burst = 1
	rl, _ := newTestLimiter(cfg)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/pdf/summarize", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Zero(t, rl.Clients())
}

func TestIPRateLimiter_RunCleanup_StopsOnCancel(t *testing.T) {
	rl := NewIPRateLimiter(testRateConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		rl.RunCleanup(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not stop after cancel")
	}
}

func BenchmarkIPRateLimiter_Allow(b *testing.B) {
	cfg := testRateConfig()
	cfg.Rate = 1e9
	cfg.Burst = 1e6
	rl := NewIPRateLimiter(cfg, nil)
	ips := make([]string, 64)
	for i := range ips {
		ips[i] = fmt.Sprintf("10.0.0.%d", i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rl.Allow(ips[i%len(ips)])
	}
}

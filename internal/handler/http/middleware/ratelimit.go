package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"smartvision/internal/handler/http/pathutil"
	"smartvision/internal/handler/http/respond"
	"smartvision/pkg/config"
)

var rateLimitRejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_rate_limit_rejections_total",
		Help: "Requests rejected by the per-client rate limiter",
	},
	[]string{"path"},
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
// Clients idle longer than IdleTTL are evicted by Cleanup, and the least
// recently seen client is evicted when MaxClients is reached.
type IPRateLimiter struct {
	cfg         config.RateLimitConfig
	ipExtractor IPExtractor
	now         func() time.Time

	mu      sync.Mutex
	clients map[string]*client
}

// NewIPRateLimiter creates a limiter. A nil extractor uses RemoteAddr.
func NewIPRateLimiter(cfg config.RateLimitConfig, ipExtractor IPExtractor) *IPRateLimiter {
	if ipExtractor == nil {
		ipExtractor = &RemoteAddrExtractor{}
	}
	return &IPRateLimiter{
		cfg:         cfg,
		ipExtractor: ipExtractor,
		now:         time.Now,
		clients:     make(map[string]*client),
	}
}

// Allow takes a token for ip. It returns false and the time until the next
// token when the bucket is empty.
func (rl *IPRateLimiter) Allow(ip string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	c, ok := rl.clients[ip]
	if !ok {
		if len(rl.clients) >= rl.cfg.MaxClients {
			rl.evictOldestLocked()
		}
		c = &client{limiter: rate.NewLimiter(rate.Limit(rl.cfg.Rate), rl.cfg.Burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	rl.mu.Unlock()

	r := c.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *IPRateLimiter) evictOldestLocked() {
	var oldestIP string
	var oldest time.Time
	for ip, c := range rl.clients {
		if oldestIP == "" || c.lastSeen.Before(oldest) {
			oldestIP, oldest = ip, c.lastSeen
		}
	}
	delete(rl.clients, oldestIP)
}

// Cleanup removes clients idle for longer than IdleTTL and returns how many it removed.
func (rl *IPRateLimiter) Cleanup() int {
	cutoff := rl.now().Add(-rl.cfg.IdleTTL)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
			removed++
		}
	}
	return removed
}

// Clients returns the number of tracked clients.
func (rl *IPRateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// RunCleanup calls Cleanup every interval until ctx is cancelled.
func (rl *IPRateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("rate limit cleanup stopped")
			return
		case <-ticker.C:
			if n := rl.Cleanup(); n > 0 {
				slog.Debug("rate limit cleanup completed",
					slog.Int("removed", n),
					slog.Int("active_clients", rl.Clients()))
			}
		}
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
// A disabled limiter passes every request through.
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.ipExtractor.ExtractIP(r)
		if err != nil {
			slog.Warn("rate limiter: IP extraction failed, using RemoteAddr",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr))
			ip = r.RemoteAddr
		}

		ok, retryAfter := rl.Allow(ip)
		if !ok {
			path := pathutil.NormalizePath(r.URL.Path)
			rateLimitRejections.WithLabelValues(path).Inc()
			slog.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", path),
				slog.Float64("rate", rl.cfg.Rate),
				slog.Int("burst", rl.cfg.Burst))

			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			respond.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

package config

import (
	"log/slog"
	"time"
)

// RateLimitConfig configures the per-client token bucket in front of the
// summarize endpoints.
type RateLimitConfig struct {
	Enabled bool
	// Rate is the sustained number of requests per second allowed per client IP.
	Rate float64
	// Burst is the bucket size.
	Burst int
	// IdleTTL is how long an unused client bucket is kept before it is evicted.
	IdleTTL time.Duration
	// MaxClients bounds the number of tracked client buckets.
	MaxClients int
}

// DefaultRateLimitConfig returns the limits applied when nothing is configured.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:    true,
		Rate:       2,
		Burst:      10,
		IdleTTL:    10 * time.Minute,
		MaxClients: 10000,
	}
}

// LoadRateLimitConfig reads the summarize rate limit from the environment.
// Invalid values are replaced by defaults with a warning.
//
// Environment variables:
//   - SUMMARIZE_RATE_LIMIT_ENABLED (default: true)
//   - SUMMARIZE_RATE_LIMIT: requests per second per IP (default: 2)
//   - SUMMARIZE_RATE_BURST (default: 10)
//   - SUMMARIZE_RATE_IDLE_TTL (default: 10m)
//   - SUMMARIZE_RATE_MAX_CLIENTS (default: 10000)
func LoadRateLimitConfig() RateLimitConfig {
	def := DefaultRateLimitConfig()
	cfg := RateLimitConfig{
		Enabled:    GetEnvBool("SUMMARIZE_RATE_LIMIT_ENABLED", def.Enabled),
		Rate:       GetEnvFloat("SUMMARIZE_RATE_LIMIT", def.Rate),
		Burst:      GetEnvInt("SUMMARIZE_RATE_BURST", def.Burst),
		IdleTTL:    GetEnvDuration("SUMMARIZE_RATE_IDLE_TTL", def.IdleTTL),
		MaxClients: GetEnvInt("SUMMARIZE_RATE_MAX_CLIENTS", def.MaxClients),
	}

	if cfg.Rate <= 0 {
		slog.Warn("invalid SUMMARIZE_RATE_LIMIT, using default",
			slog.Float64("value", cfg.Rate),
			slog.Float64("default", def.Rate))
		cfg.Rate = def.Rate
	}
	if cfg.Burst < 1 {
		slog.Warn("invalid SUMMARIZE_RATE_BURST, using default",
			slog.Int("value", cfg.Burst),
			slog.Int("default", def.Burst))
		cfg.Burst = def.Burst
	}
	if err := ValidatePositiveDuration(cfg.IdleTTL); err != nil {
		slog.Warn("invalid SUMMARIZE_RATE_IDLE_TTL, using default",
			slog.String("value", cfg.IdleTTL.String()),
			slog.String("default", def.IdleTTL.String()))
		cfg.IdleTTL = def.IdleTTL
	}
	if cfg.MaxClients < 1 {
		slog.Warn("invalid SUMMARIZE_RATE_MAX_CLIENTS, using default",
			slog.Int("value", cfg.MaxClients),
			slog.Int("default", def.MaxClients))
		cfg.MaxClients = def.MaxClients
	}
	return cfg
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadResult is the outcome of loading one validated setting.
type LoadResult[T any] struct {
	Value T
	// FallbackApplied is set when the environment value was unusable and the
	// default was used instead.
	FallbackApplied bool
	Warning         string
}

// LoadWithFallback reads key, parses and validates it, and falls back to def on any
// failure. It never fails: an unset key yields def without a warning.
func LoadWithFallback[T any](key string, def T, parse func(string) (T, error), validate func(T) error) LoadResult[T] {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return LoadResult[T]{Value: def}
	}
	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		return LoadResult[T]{
			Value:           def,
			FallbackApplied: true,
			Warning:         fmt.Sprintf("%s=%q is invalid (%v), using default %v", key, raw, err, def),
		}
	}
	return LoadResult[T]{Value: v}
}

// ParseString is the identity parser for LoadWithFallback.
func ParseString(s string) (string, error) { return s, nil }

// ParseInt parses a base-10 int for LoadWithFallback.
func ParseInt(s string) (int, error) { return strconv.Atoi(s) }

// ParseDuration parses a Go duration for LoadWithFallback.
func ParseDuration(s string) (time.Duration, error) { return time.ParseDuration(s) }

// ParseBool parses a boolean for LoadWithFallback.
func ParseBool(s string) (bool, error) { return strconv.ParseBool(s) }

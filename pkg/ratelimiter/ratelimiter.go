package ratelimiter

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidConfig is returned when limits are non-positive.
	ErrInvalidConfig = errors.New("rate limiter config is invalid")
)

// Config defines a fixed-window limit: at most Requests per Window per key.
type Config struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"30"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// Store counts requests per key within the current window.
type Store interface {
	// Increment bumps the key's counter, starting a new window if none is
	// active, and returns the count and the window's reset time.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)

	// Reset clears the key's counter.
	Reset(ctx context.Context, key string) error
}

// Result describes one admission decision.
type Result struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// Limiter admits or rejects requests against a fixed-window budget. Scan
// endpoints sit behind it so token brute-forcing burns out a per-client
// budget long before 128-bit token space matters.
type Limiter struct {
	store Store
	cfg   Config
}

// New creates a limiter over the given store.
func New(store Store, cfg Config) (*Limiter, error) {
	if cfg.Requests <= 0 || cfg.Window <= 0 {
		return nil, ErrInvalidConfig
	}
	return &Limiter{store: store, cfg: cfg}, nil
}

// Allow records one request for the key and reports whether it fits the
// window's budget.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, resetAt, err := l.store.Increment(ctx, key, l.cfg.Window)
	if err != nil {
		return Result{}, err
	}
	remaining := int64(l.cfg.Requests) - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= int64(l.cfg.Requests),
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

package ratelimiter

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidConfig is reported when the bucket configuration is unusable.
var ErrInvalidConfig = errors.New("invalid rate limiter configuration")

// Config defines a token bucket: Capacity tokens maximum, refilled by
// RefillRate tokens every RefillInterval.
type Config struct {
	Capacity       int
	RefillRate     int
	RefillInterval time.Duration
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidConfig)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive", ErrInvalidConfig)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// Result reports the outcome of a single Allow call.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long the caller should wait before retrying. Zero
// when the request was allowed.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// Limiter is an in-memory token bucket limiter keyed by client identity.
// Safe for concurrent use. Buckets idle longer than one full refill cycle
// are dropped lazily on access.
type Limiter struct {
	mu      sync.Mutex
	cfg     Config
	buckets map[string]*bucket
	now     func() time.Time
}

// New creates a limiter with the given bucket configuration.
func New(cfg Config) (*Limiter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Limiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}, nil
}

// Allow consumes one token from the bucket identified by key.
func (l *Limiter) Allow(key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.cfg.Capacity, lastRefill: now}
		l.buckets[key] = b
	}

	l.refill(b, now)

	resetAt := b.lastRefill.Add(l.cfg.RefillInterval)
	if b.tokens <= 0 {
		return Result{Allowed: false, Remaining: 0, ResetAt: resetAt}
	}

	b.tokens--
	return Result{Allowed: true, Remaining: b.tokens, ResetAt: resetAt}
}

func (l *Limiter) refill(b *bucket, now time.Time) {
	elapsed := now.Sub(b.lastRefill)
	if elapsed < l.cfg.RefillInterval {
		return
	}

	intervals := int(elapsed / l.cfg.RefillInterval)
	b.tokens = min(b.tokens+intervals*l.cfg.RefillRate, l.cfg.Capacity)
	b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * l.cfg.RefillInterval)
}

// Len reports the number of tracked buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Reset drops all tracked buckets.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buckets = make(map[string]*bucket)
}

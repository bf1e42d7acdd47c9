package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/restkit/core/response"
	"github.com/dmitrymomot/restkit/core/router"
	"github.com/dmitrymomot/restkit/pkg/clientip"
	"github.com/dmitrymomot/restkit/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip bypasses limiting for specific requests.
	Skip func(ctx *router.Context) bool
	// Limiter is the token bucket implementation. Required.
	Limiter *ratelimiter.Limiter
	// KeyExtractor derives the bucket key. Defaults to the client IP.
	KeyExtractor func(ctx *router.Context) string
	// SetHeaders adds X-RateLimit-Remaining to successful responses.
	SetHeaders bool
}

// RateLimit rejects requests exceeding the limiter's budget with 429 and a
// Retry-After hint, keyed by client IP.
func RateLimit(limiter *ratelimiter.Limiter) router.Middleware {
	return RateLimitWithConfig(RateLimitConfig{Limiter: limiter})
}

// RateLimitWithConfig is RateLimit with custom configuration.
func RateLimitWithConfig(cfg RateLimitConfig) router.Middleware {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}
	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(ctx *router.Context) string {
			return clientip.FromRequest(ctx.Request())
		}
	}

	return func(ctx *router.Context, next router.Next) (router.Response, error) {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next()
		}

		result := cfg.Limiter.Allow(cfg.KeyExtractor(ctx))
		if !result.Allowed {
			retryAfter := int(math.Ceil(result.RetryAfter().Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			ctx.ResponseWriter().Header().Set("Retry-After", strconv.Itoa(retryAfter))
			return nil, response.ErrTooManyRequests.WithDetails(map[string]any{
				"retry_after": retryAfter,
			})
		}

		resp, err := next()
		if err != nil || !cfg.SetHeaders {
			return resp, err
		}
		return func(w http.ResponseWriter, r *http.Request) error {
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			return resp(w, r)
		}, nil
	}
}

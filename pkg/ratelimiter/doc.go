// Package ratelimiter implements an in-memory token bucket limiter keyed by
// client identity.
//
//	limiter, err := ratelimiter.New(ratelimiter.Config{
//		Capacity:       100,
//		RefillRate:     100,
//		RefillInterval: time.Minute,
//	})
//
//	result := limiter.Allow(clientIP)
//	if !result.Allowed {
//		// reject with result.RetryAfter()
//	}
package ratelimiter

// Package ratelimit provides client-side rate limiting for the imgchest API.
//
// The API budget is a fixed number of requests per minute, so the limiter
// uses a fixed window: the first request opens the window, requests inside
// the window spend from the budget, and the full budget is restored once a
// whole window has elapsed. Budget is never restored gradually, which means
// a burst that fits the budget always proceeds without blocking.
//
// Interface:
//
// Rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Acquire(ctx) error - Block until a request is allowed or ctx is done
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// 60 requests per minute
//	limiter := ratelimit.NewTokenBucket(60, time.Minute)
//
//	if err := limiter.Acquire(ctx); err != nil {
//	    return err // context cancelled while waiting
//	}
//	// Proceed with request
package ratelimit

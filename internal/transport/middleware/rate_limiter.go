// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRetryAfter         = "Retry-After"
)

type rateLimitDecision struct {
	Allowed           bool
	LimitPerMinute    int
	Remaining         int
	RetryAfterSeconds int
}

type tokenBucket struct {
	capacity        float64
	tokens          float64
	refillPerSecond float64
	lastRefill      time.Time
}

// inMemoryRateLimiter keeps one token bucket per client key.
type inMemoryRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
}

func newInMemoryRateLimiter() *inMemoryRateLimiter {
	return &inMemoryRateLimiter{
		buckets: make(map[string]*tokenBucket, 32),
	}
}

func (l *inMemoryRateLimiter) Allow(clientKey string, limitPerMinute int, now time.Time) rateLimitDecision {
	if limitPerMinute <= 0 {
		limitPerMinute = 1
	}

	capacity := float64(limitPerMinute)
	refillPerSecond := capacity / 60.0

	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[clientKey]
	if !ok || bucket.capacity != capacity {
		bucket = &tokenBucket{
			capacity:        capacity,
			tokens:          capacity,
			refillPerSecond: refillPerSecond,
			lastRefill:      now,
		}
		l.buckets[clientKey] = bucket
	}

	elapsedSeconds := now.Sub(bucket.lastRefill).Seconds()
	if elapsedSeconds > 0 {
		bucket.tokens += elapsedSeconds * bucket.refillPerSecond
		if bucket.tokens > bucket.capacity {
			bucket.tokens = bucket.capacity
		}
		bucket.lastRefill = now
	}

	decision := rateLimitDecision{
		Allowed:        false,
		LimitPerMinute: limitPerMinute,
		Remaining:      int(math.Floor(bucket.tokens)),
	}

	if bucket.tokens >= 1 {
		bucket.tokens -= 1
		decision.Allowed = true
		decision.Remaining = int(math.Floor(bucket.tokens))
		return decision
	}

	missingTokens := 1 - bucket.tokens
	waitSeconds := int(math.Ceil(missingTokens / bucket.refillPerSecond))
	if waitSeconds < 1 {
		waitSeconds = 1
	}
	decision.RetryAfterSeconds = waitSeconds
	return decision
}

// RequestRateLimit limits requests per client address on the routes it
// wraps, announcing the budget via X-RateLimit headers.
func RequestRateLimit(limitPerMinute int, logger *slog.Logger) func(http.Handler) http.Handler {
	return requestRateLimitWithLimiter(limitPerMinute, newInMemoryRateLimiter(), logger)
}

func requestRateLimitWithLimiter(
	limitPerMinute int,
	limiter *inMemoryRateLimiter,
	logger *slog.Logger,
) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := limiter.Allow(clientKey(r), limitPerMinute, time.Now())
			w.Header().Set(headerRateLimitLimit, strconv.Itoa(decision.LimitPerMinute))
			w.Header().Set(headerRateLimitRemaining, strconv.Itoa(decision.Remaining))
			if !decision.Allowed {
				logger.Warn("request rate limited",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				w.Header().Set(headerRetryAfter, strconv.Itoa(decision.RetryAfterSeconds))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey buckets requests by remote host, ignoring the port so one
// client does not get a fresh budget per connection.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"zapway/pkg/logger"
)

func rateLimitKey(r *http.Request) string {
	ip := ClientIP(r)
	if userID, _ := r.Context().Value(ctxUserIDKey).(uuid.UUID); userID != uuid.Nil {
		return fmt.Sprintf("ratelimit:%s:%s", ip, userID.String())
	}
	return fmt.Sprintf("ratelimit:%s", ip)
}

func rejectRateLimited(w http.ResponseWriter, limit int) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", "0")
	jsonError(w, http.StatusTooManyRequests, "Rate limit exceeded")
}

// RateLimiter applies a fixed-window rate limit backed by Redis. When Redis
// is unreachable it degrades to the in-process limiter.
type RateLimiter struct {
	cache    *redis.Client
	limit    int
	window   time.Duration
	fallback *LocalRateLimiter
	logger   logger.Logger
}

// NewRateLimiter constructs a RateLimiter with the given limit and window.
func NewRateLimiter(cache *redis.Client, limit int, window time.Duration, log logger.Logger) *RateLimiter {
	return &RateLimiter{
		cache:    cache,
		limit:    limit,
		window:   window,
		fallback: NewLocalRateLimiter(limit, window),
		logger:   log,
	}
}

// Limit enforces the rate limit, keyed by client IP and, when available, user ID.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rateLimitKey(r)

		count, err := rl.cache.Incr(r.Context(), key).Result()
		if err == nil && count == 1 {
			err = rl.cache.Expire(r.Context(), key, rl.window).Err()
		}
		if err != nil {
			rl.logger.Warn("Rate limiter falling back to local buckets", map[string]interface{}{
				"error": err.Error(),
			})
			if !rl.fallback.Allow(key) {
				rejectRateLimited(w, rl.limit)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if count > int64(rl.limit) {
			rejectRateLimited(w, rl.limit)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rl.limit-int(count)))

		next.ServeHTTP(w, r)
	})
}

// LocalRateLimiter keeps a token bucket per key in memory.
type LocalRateLimiter struct {
	limit   int
	every   rate.Limit
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewLocalRateLimiter allows limit requests per window with bursts up to limit.
func NewLocalRateLimiter(limit int, window time.Duration) *LocalRateLimiter {
	return &LocalRateLimiter{
		limit:   limit,
		every:   rate.Every(window / time.Duration(limit)),
		buckets: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether key may make another request now.
func (l *LocalRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.every, l.limit)
		l.buckets[key] = b
	}
	l.mu.Unlock()
	return b.Allow()
}

// Limit enforces the in-process limit.
func (l *LocalRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(rateLimitKey(r)) {
			rejectRateLimited(w, l.limit)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
)

// Limiter decides whether another request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// RedisLimiter is a fixed-window counter shared by every instance.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter creates a Redis-backed limiter
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit:auth",
	}
}

// Allow increments the window counter. The expiry is set only when the key
// has none yet so the window does not slide.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, fmt.Errorf("redis error: %w", err)
	}

	retry := ttl.Val()
	if retry < 0 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return true, 0, fmt.Errorf("redis error: %w", err)
		}
		retry = l.window
	}

	if incr.Val() <= int64(l.limit) {
		return true, 0, nil
	}
	return false, retry, nil
}

// MemoryLimiter is the per-process fallback when Redis is not configured.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	items map[string]*rateEntry
}

type rateEntry struct {
	count int
	reset time.Time
}

// NewMemoryLimiter creates an in-process limiter
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		items:  make(map[string]*rateEntry),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.items[key]
	if !ok || !now.Before(entry.reset) {
		entry = &rateEntry{reset: now.Add(l.window)}
		l.items[key] = entry
	}
	entry.count++

	if entry.count > l.limit {
		return false, entry.reset.Sub(now), nil
	}
	return true, 0, nil
}

// RateLimit rejects clients, keyed by IP, that exceed the limiter's budget.
// Limiter failures let the request through.
func RateLimit(limiter Limiter, log logrus.FieldLogger, onReject func()) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.WithError(err).Warn("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		if !allowed {
			if onReject != nil {
				onReject()
			}
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			apierrors.TooManyRequests(c, "")
			return
		}

		c.Next()
	}
}

package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shayarihub/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen falls back to an in-process limiter if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// RateLimitConfig describes one limited resource.
type RateLimitConfig struct {
	// Name keys the counters; defaults to the request path.
	Name   string
	Limit  int
	Window time.Duration
	Policy FailPolicy
}

// CheckRateLimit increments the fixed-window counter for resource/id.
// Returns true if the request is allowed.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		observability.RedisErrors.WithLabelValues("rate_limit").Inc()
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// localLimiter is the per-process token bucket used without Redis.
type localLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	buckets  map[string]*localBucket
	maxItems int
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLocalLimiter(limit int, window time.Duration) *localLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &localLimiter{
		limit:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		buckets:  make(map[string]*localBucket),
		maxItems: 10000,
	}
}

func (l *localLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= l.maxItems {
			l.evictIdle(now)
		}
		b = &localBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (l *localLimiter) evictIdle(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > time.Minute {
			delete(l.buckets, k)
		}
	}
}

// RateLimit returns a Fiber middleware enforcing cfg.Limit requests per
// cfg.Window. It keys by authenticated userID when present, else by IP.
func RateLimit(rdb *redis.Client, cfg RateLimitConfig) fiber.Handler {
	local := newLocalLimiter(cfg.Limit, cfg.Window)

	return func(c *fiber.Ctx) error {
		var id string
		if uid := c.Locals("userID"); uid != nil {
			id = fmt.Sprintf("user:%v", uid)
		} else {
			id = "ip:" + c.IP()
		}

		resource := cfg.Name
		if resource == "" {
			resource = c.Path()
		}

		var allowed bool
		if rdb == nil {
			allowed = local.allow(resource + "|" + id)
		} else {
			var err error
			allowed, err = CheckRateLimit(c.UserContext(), rdb, resource, id, cfg.Limit, cfg.Window)
			if err != nil {
				if cfg.Policy == FailClosed {
					Logger.WarnContext(c.UserContext(), "rate limit store unavailable",
						"resource", resource, "error", err.Error())
					return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
						"error": "rate limit unavailable",
					})
				}
				allowed = local.allow(resource + "|" + id)
			}
		}

		if !allowed {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(cfg.Window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}

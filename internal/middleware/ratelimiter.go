package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/EgehanKilicarslan/tripsync/internal/metrics"
)

// maxLocalKeys bounds the in-process limiter table before it is reset
const maxLocalKeys = 10000

// Limiter decides whether one more request under key is allowed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Window() time.Duration
}

type redisLimiter struct {
	client *redis.Client
	scope  string
	limit  int64
	window time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewRedisLimiter creates a fixed-window limiter backed by Redis counters
func NewRedisLimiter(client *redis.Client, scope string, limit int64, window time.Duration, logger *slog.Logger) Limiter {
	return &redisLimiter{
		client: client,
		scope:  scope,
		limit:  limit,
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

// windowKey generates the Redis key for the current window
// Format: rate:{scope}:{key}:{windowIndex}
func (l *redisLimiter) windowKey(key string) string {
	index := l.now().UnixNano() / int64(l.window)
	return fmt.Sprintf("rate:%s:%s:%d", l.scope, key, index)
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := l.windowKey(key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Error("❌ [RateLimiter] Failed to increment window count", "scope", l.scope, "error", err)
		return true, err
	}

	return incr.Val() <= l.limit, nil
}

func (l *redisLimiter) Window() time.Duration {
	return l.window
}

// LocalLimiter is an in-process token bucket per key, used when Redis is unavailable
type LocalLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	window   time.Duration
}

// NewLocalLimiter allows limit requests per window for each key
func NewLocalLimiter(limit int64, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(window / time.Duration(limit)),
		burst:    int(limit),
		window:   window,
	}
}

func (l *LocalLimiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.limiters[key]
	if !exists {
		if len(l.limiters) >= maxLocalKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.getLimiter(key).Allow(), nil
}

func (l *LocalLimiter) Window() time.Duration {
	return l.window
}

// KeyFunc extracts the throttling key from a request
type KeyFunc func(c *gin.Context) string

// ByClientIP throttles per client address
func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// ByUser throttles per authenticated user, falling back to the client address
func ByUser(c *gin.Context) string {
	if claims, ok := CurrentClaims(c); ok {
		return "user:" + claims.UserID.String()
	}
	return ByClientIP(c)
}

// RateLimit rejects requests over the limiter's budget with 429
func RateLimit(scope string, limiter Limiter, keyFn KeyFunc, m *metrics.Metrics, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// Counting failed; let the request through
			logger.Warn("⚠️ [RateLimiter] Limiter unavailable, allowing request", "scope", scope, "error", err)
		}
		if !allowed {
			logger.Warn("🚫 [RateLimiter] Rate limit exceeded",
				"scope", scope,
				"key", key,
				"path", c.Request.URL.Path,
			)
			m.RecordRateLimited(scope)
			c.Header("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later"})
			return
		}

		c.Next()
	}
}

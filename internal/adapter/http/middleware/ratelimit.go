package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"todohub/pkg/auth"
	"todohub/pkg/config"
	"todohub/pkg/metrics"
)

// RateLimiter applies fixed-window limits per endpoint. Authenticated routes
// key by user id, public ones by client IP.
type RateLimiter struct {
	cache    *cache.Cache
	configs  map[string]config.RateLimitConfig
	fallback config.RateLimitConfig
	logger   zerolog.Logger
	metrics  *metrics.AppMetrics
	mutex    sync.Mutex
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(cfg *config.AppConfig, logger zerolog.Logger, m *metrics.AppMetrics) *RateLimiter {
	return &RateLimiter{
		cache:    cache.New(5*time.Minute, 10*time.Minute),
		configs:  cfg.RateLimits,
		fallback: cfg.RateLimitDefault,
		logger:   logger.With().Str("component", "rate_limiter").Logger(),
		metrics:  m,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		cfg, ok := rl.configs[c.Request.Method+" "+path]

		if !ok {
			cfg, ok = rl.configs[path]
			if !ok {
				cfg = rl.fallback
			}
		}

		key, keyType := rl.clientKey(c, path)

		allowed, remaining, resetTime := rl.check(key, cfg)

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(path, keyType)
			}

			rl.logger.Warn().
				Str("key", key).
				Str("path", path).
				Int("limit", cfg.Requests).
				Dur("window", cfg.Window).
				Msg("rate limit exceeded")

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", cfg.Requests, cfg.Window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) check(key string, cfg config.RateLimitConfig) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if cached, found := rl.cache.Get(key); found {
		entry := cached.(rateLimitEntry)

		if now.After(entry.ResetTime) {
			resetTime := now.Add(cfg.Window)
			rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, cfg.Window)
			return true, cfg.Requests - 1, resetTime
		}

		if entry.Count >= cfg.Requests {
			return false, 0, entry.ResetTime
		}

		entry.Count++
		rl.cache.Set(key, entry, cache.DefaultExpiration)

		return true, cfg.Requests - entry.Count, entry.ResetTime
	}

	resetTime := now.Add(cfg.Window)
	rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, cfg.Window)

	return true, cfg.Requests - 1, resetTime
}

func (rl *RateLimiter) clientKey(c *gin.Context, path string) (string, string) {
	if userID := auth.CurrentUserID(c); userID != 0 {
		return fmt.Sprintf("rate_limit:%s:user_%d", path, userID), "user"
	}

	return fmt.Sprintf("rate_limit:%s:%s", path, c.ClientIP()), "ip"
}

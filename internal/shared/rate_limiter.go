package shared

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"todoapi/pkg/config"
)

// RateLimitEndpointConfig configures one endpoint's window.
type RateLimitEndpointConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

// RateLimiter keeps fixed-window counters in an in-process cache. Auth
// endpoints are keyed by client IP; todo endpoints by the authenticated user
// id when one is on the context, falling back to client IP otherwise.
type RateLimiter struct {
	cache   *cache.Cache
	configs map[string]RateLimitEndpointConfig
	logger  *config.AppLogger
	metrics *AppMetrics
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(logger *config.AppLogger, metrics *AppMetrics) *RateLimiter {
	configs := map[string]RateLimitEndpointConfig{
		"POST /api/v1/auth/register": {Requests: 5, Window: time.Minute, KeyFunc: clientIPKey},
		"POST /api/v1/auth/login":    {Requests: 10, Window: time.Minute, KeyFunc: clientIPKey},
		"GET /api/v1/todos":          {Requests: 100, Window: time.Minute, KeyFunc: userIDKey},
		"POST /api/v1/todos":         {Requests: 20, Window: time.Minute, KeyFunc: userIDKey},
		"default":                    {Requests: 60, Window: time.Minute, KeyFunc: clientIPKey},
	}

	return &RateLimiter{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		configs: configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path

		cfg, ok := rl.configs[methodPath]

		if !ok {
			cfg = rl.configs["default"]
		}

		key := methodPath + "|" + cfg.KeyFunc(c)
		keyType := "ip"

		if c.GetInt("x-user-id") != 0 {
			keyType = "user"
		}

		now := time.Now()
		entry := rateLimitEntry{Count: 0, ResetTime: now.Add(cfg.Window)}

		if cached, found := rl.cache.Get(key); found {
			entry = cached.(rateLimitEntry)

			if now.After(entry.ResetTime) {
				entry = rateLimitEntry{Count: 0, ResetTime: now.Add(cfg.Window)}
			}
		}

		entry.Count++
		rl.cache.Set(key, entry, time.Until(entry.ResetTime))

		if entry.Count > cfg.Requests {
			rl.metrics.RecordRateLimitHit(path, keyType)

			rl.logger.InfoCtx(c.Request.Context(), "Rate limit exceeded",
				zap.String("path", path),
				zap.String("key_type", keyType),
			)

			c.Header("Retry-After", strconv.Itoa(int(time.Until(entry.ResetTime).Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"code": "RATE_LIMITED"},
			})
			return
		}

		rl.metrics.RecordRateLimitAllowed(path, keyType)
		c.Next()
	}
}

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

func userIDKey(c *gin.Context) string {
	if userID := c.GetInt("x-user-id"); userID != 0 {
		return "user:" + strconv.Itoa(userID)
	}

	return clientIPKey(c)
}

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"arcadehub/internal/logger"
	"arcadehub/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// лимитер с фиксированным окном: redis при наличии, иначе - локальная
// память (достаточно для одного инстанса)
var (
	redisClient *redis.Client

	memMu      sync.Mutex
	memWindows = map[string]*memWindow{}
)

type memWindow struct {
	count   int
	resetAt time.Time
}

// InitRedisRateLimiter подключает redis-бэкенд лимитера. Пустой адрес или
// недоступный redis - не фатально, остаёмся на локальной памяти.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		logger.Warn("rate limiter: REDIS_ADDR не задан, используется локальная память")
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("rate limiter: redis недоступен, используется локальная память", "error", err)
		return
	}
	redisClient = client
	logger.Info("rate limiter: redis подключен", "addr", addr)
}

// allow инкрементирует счётчик окна и сравнивает с лимитом
func allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if redisClient != nil {
		pipe := redisClient.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			// при сбое redis запрос пропускается, лимитер не должен ронять API
			logger.Warn("rate limiter: ошибка redis", "error", err)
			return true
		}
		return incr.Val() <= int64(limit)
	}

	memMu.Lock()
	defer memMu.Unlock()
	now := time.Now()
	w, ok := memWindows[key]
	if !ok || now.After(w.resetAt) {
		memWindows[key] = &memWindow{count: 1, resetAt: now.Add(window)}
		return true
	}
	w.count++
	return w.count <= limit
}

// RateLimit ограничивает частоту запросов на пользователя (или на IP
// до аутентификации)
func RateLimit(name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id, ok := c.Get(UserIDKey); ok {
			key = fmt.Sprintf("u%d", id)
		}
		key = fmt.Sprintf("rl:%s:%s", name, key)

		if !allow(c.Request.Context(), key, limit, window) {
			metrics.RateLimitDrops.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "слишком много запросов"})
			return
		}
		c.Next()
	}
}

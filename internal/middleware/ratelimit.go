package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"symptom-checker-server/internal/config"
	"symptom-checker-server/internal/utils"
)

// RateLimit returns a token-bucket limiter backed by Redis. It is meant to
// sit in front of AuthMiddleware so unauthenticated traffic is throttled
// too. When the limiter is disabled or Redis is unavailable the middleware
// passes everything through; a Redis error at request time also fails open.
func RateLimit(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.RateLimit.Enabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limits := cfg.RateLimit

	limiterScript := redis.NewScript(`
        local key = KEYS[1]
        local now_ms = tonumber(ARGV[1])
        local capacity = tonumber(ARGV[2])
        local refill_tokens = tonumber(ARGV[3])
        local interval_ms = tonumber(ARGV[4])
        local ttl_seconds = tonumber(ARGV[5])

        local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
        local tokens = tonumber(state[1])
        local last_refill = tonumber(state[2])

        if tokens == nil or last_refill == nil then
            tokens = capacity
            last_refill = now_ms
        end

        if interval_ms > 0 and refill_tokens > 0 then
            local elapsed = math.max(0, now_ms - last_refill)
            local intervals = math.floor(elapsed / interval_ms)
            if intervals > 0 then
                tokens = math.min(capacity, tokens + (intervals * refill_tokens))
                last_refill = last_refill + (intervals * interval_ms)
            end
        end

        local allowed = 0
        local retry_after_ms = 0
        if tokens > 0 then
            allowed = 1
            tokens = tokens - 1
        else
            local until_next = interval_ms - (now_ms - last_refill)
            if until_next < 0 then until_next = 0 end
            retry_after_ms = until_next
        end

        redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
        redis.call('EXPIRE', key, ttl_seconds)

        return { allowed, tokens, retry_after_ms }
    `)

	return func(c *gin.Context) {
		key := buildRateKey(limits.Prefix, cfg.JWTSecret, c)
		now := time.Now()

		args := []interface{}{
			now.UnixMilli(),
			limits.Capacity,
			limits.RefillTokens,
			limits.RefillInterval.Milliseconds(),
			int64(limits.TTL / time.Second),
		}

		vals, err := limiterScript.Run(c.Request.Context(), rdb, []string{key}, args...).Result()
		if err != nil {
			c.Next()
			return
		}

		arr, ok := vals.([]interface{})
		if !ok || len(arr) != 3 {
			c.Next()
			return
		}

		allowed := asInt64(arr[0]) == 1
		remaining := asInt64(arr[1])
		retryMs := asInt64(arr[2])

		c.Header("X-RateLimit-Limit", strconv.Itoa(limits.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			secs := int(math.Ceil(float64(retryMs) / 1000.0))
			if secs < 0 {
				secs = 0
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			utils.Error(c, http.StatusTooManyRequests, utils.CodeRateLimited, "Too many requests. Please slow down and try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// buildRateKey keys the bucket per user when the request carries a valid
// bearer token, per client IP otherwise. Unauthenticated traffic shares the
// IP bucket.
func buildRateKey(prefix, jwtSecret string, c *gin.Context) string {
	if uid, ok := GetUserIDFromContext(c); ok && uid != "" {
		return prefix + ":user:" + uid
	}
	// The limiter runs ahead of AuthMiddleware, so the token has to be
	// inspected here for authenticated traffic to get its own bucket.
	if uid := bearerUserID(c, jwtSecret); uid != "" {
		return prefix + ":user:" + uid
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return prefix + ":ip:" + ip
}

func bearerUserID(c *gin.Context, jwtSecret string) string {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	claims, err := utils.ValidateToken(parts[1], jwtSecret)
	if err != nil {
		return ""
	}
	return claims.UserID
}

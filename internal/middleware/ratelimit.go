package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"mesaYaBooking/internal/config"
)

// rateScript implements a token bucket in Redis so the limit holds across
// replicas.  KEYS[1] is the bucket; ARGV: now (unix ms), capacity, refill
// interval (ms), ttl (s).  One token refills per interval.  Returns
// {allowed, remaining}.
var rateScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_s = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'refilled_ms')
	local tokens = tonumber(state[1])
	local refilled = tonumber(state[2])
	if tokens == nil or refilled == nil then
		tokens = capacity
		refilled = now_ms
	end

	local gained = math.floor((now_ms - refilled) / interval_ms)
	if gained > 0 then
		tokens = math.min(capacity, tokens + gained)
		refilled = refilled + gained * interval_ms
	end

	local allowed = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	end

	redis.call('HMSET', key, 'tokens', tokens, 'refilled_ms', refilled)
	redis.call('EXPIRE', key, ttl_s)
	return { allowed, tokens }
`)

// RateLimit returns a distributed token-bucket limiter keyed by client IP
// and route.  Booking writes are its main target: a burst of submissions
// from one client degrades to 429 instead of hammering the admission path.
// With a nil Redis client or a Redis failure the limiter fails open.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "rl:" + c.RealIP() + ":" + c.Path()
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			vals, err := rateScript.Run(c.Request().Context(), rdb, []string{key}, args...).Int64Slice()
			if err != nil || len(vals) != 2 {
				return next(c) // fail open on cache trouble
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))
			if vals[0] != 1 {
				retry := int(cfg.RefillInterval / time.Second)
				if retry < 1 {
					retry = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"retry_after": retry,
				})
			}
			return next(c)
		}
	}
}

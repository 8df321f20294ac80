package middleware

import (
    "fmt"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "shop-backend/internal/config"
)

// LoginRateLimit returns a fixed-window limiter keyed on client IP and
// route, intended for the login endpoints.  The counter lives in Redis so
// the limit holds across replicas.  When the limiter is disabled, Redis
// is unavailable at startup, or a Redis call fails mid-flight, requests
// pass through rather than being rejected.
func LoginRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            window := time.Now().Unix() / int64(cfg.Window/time.Second)
            key := fmt.Sprintf("%s:%s:%s:%d", cfg.Prefix, c.Path(), c.RealIP(), window)

            ctx := c.Request().Context()
            n, err := rdb.Incr(ctx, key).Result()
            if err != nil {
                return next(c)
            }
            if n == 1 {
                _ = rdb.Expire(ctx, key, cfg.Window).Err()
            }
            if n > int64(cfg.Limit) {
                retry := int64(cfg.Window/time.Second) - time.Now().Unix()%int64(cfg.Window/time.Second)
                c.Response().Header().Set("Retry-After", strconv.FormatInt(retry, 10))
                return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many attempts"})
            }
            return next(c)
        }
    }
}

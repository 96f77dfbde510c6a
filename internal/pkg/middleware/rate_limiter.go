package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/bahikhata/internal/pkg/circuitbreaker"
	"github.com/piresc/bahikhata/internal/pkg/constants"
	"github.com/piresc/bahikhata/internal/pkg/database"
	"github.com/piresc/bahikhata/internal/pkg/logger"
	"github.com/piresc/bahikhata/internal/pkg/requestcontext"
	"github.com/piresc/bahikhata/internal/utils"
)

// RateLimiterConfig contains configuration for the rate limiter
type RateLimiterConfig struct {
	RedisClient *database.RedisClient
	Key         string        // Key prefix for Redis
	Limit       int           // Maximum number of requests
	Period      time.Duration // Time period for the limit
	// Breaker skips Redis while it keeps failing. Optional.
	Breaker *circuitbreaker.CircuitBreaker
}

// RateLimiterMiddleware creates a fixed window rate limiter backed by Redis.
// Requests are counted per route and per user, or per client IP when anonymous.
// Redis failures let the request through.
func RateLimiterMiddleware(config RateLimiterConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			identifier := c.RealIP()
			if userID := requestcontext.GetUserID(ctx); userID != "" {
				identifier = userID
			}

			key := fmt.Sprintf(constants.KeyRateLimit, config.Key, c.Path(), identifier)

			count, err := incr(ctx, config, key)
			if err != nil {
				logger.WarnCtx(ctx, "Rate limiter unavailable", logger.ErrorField(err))
				return next(c)
			}

			remaining := config.Limit - int(count)
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if int(count) > config.Limit {
				ttl, err := config.RedisClient.Client.TTL(ctx, key).Result()
				if err == nil && ttl > 0 {
					c.Response().Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
					c.Response().Header().Set("Retry-After", strconv.FormatInt(int64(ttl.Seconds()), 10))
				}
				return utils.TooManyRequestsResponse(c, "Too many requests, please try again later")
			}

			return next(c)
		}
	}
}

// IPRateLimiter creates a rate limiter for unauthenticated routes such as login and signup
func IPRateLimiter(limit int, period time.Duration, redisClient *database.RedisClient) echo.MiddlewareFunc {
	return RateLimiterMiddleware(RateLimiterConfig{
		RedisClient: redisClient,
		Key:         constants.KeyRateLimitPrefix,
		Limit:       limit,
		Period:      period,
		Breaker:     circuitbreaker.New(circuitbreaker.DefaultConfig("rate-limiter-redis")),
	})
}

func incr(ctx context.Context, config RateLimiterConfig, key string) (int64, error) {
	if config.Breaker == nil {
		return config.RedisClient.IncrWithExpiry(ctx, key, config.Period)
	}
	var count int64
	err := config.Breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		count, err = config.RedisClient.IncrWithExpiry(ctx, key, config.Period)
		return err
	})
	return count, err
}

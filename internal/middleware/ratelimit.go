package middleware

import (
	"fmt"      // Error wrapping
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/redis/go-redis/v9"                            // Redis client
	"github.com/sirupsen/logrus"                              // Logging library
	limiter "github.com/ulule/limiter/v3"                     // Rate limiter
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin" // Gin adapter
	"github.com/ulule/limiter/v3/drivers/store/memory"        // In-process store
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"  // Shared Redis store
)

// NewLimiterStore returns a Redis backed store when rdb is set, else an in-process one
func NewLimiterStore(rdb *redis.Client, prefix string) (limiter.Store, error) {
	if rdb == nil {
		return memory.NewStore(), nil
	}
	store, err := sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix:   prefix, // Key prefix in Redis
		MaxRetry: 3,      // Retries on optimistic lock conflicts
	})
	if err != nil {
		return nil, fmt.Errorf("limiter store: %w", err)
	}
	return store, nil
}

// RateLimitMiddleware limits requests per client IP to rate, e.g. "120-M"
func RateLimitMiddleware(store limiter.Store, rate string) (gin.HandlerFunc, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", rate, err)
	}
	return mgin.NewMiddleware(limiter.New(store, r),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests, please try again later"})
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// Limiter backend is down, let the request through
			logrus.WithField("error", err.Error()).Warn("Rate limiter unavailable")
			c.Next()
		}),
	), nil
}

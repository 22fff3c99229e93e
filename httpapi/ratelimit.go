package httpapi

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

const rateLimitPrefix = "booking_rate_limit"

// NewMemoryRateLimiter keeps the counters in process memory.
func NewMemoryRateLimiter(rate limiter.Rate) *limiter.Limiter {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitPrefix})

	return limiter.New(store, rate)
}

// NewRedisRateLimiter shares the counters between instances through Redis.
// The returned client must be closed by the caller.
func NewRedisRateLimiter(ctx context.Context, redisURL string, rate limiter.Rate) (*limiter.Limiter, *redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, err
	}

	client := redis.NewClient(opts)
	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		_ = client.Close()
		return nil, nil, pingErr
	}

	store, storeErr := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   rateLimitPrefix,
		MaxRetry: 3,
	})
	if storeErr != nil {
		_ = client.Close()
		return nil, nil, storeErr
	}

	return limiter.New(store, rate), client, nil
}

func rateLimitMiddleware(lim *limiter.Limiter) gin.HandlerFunc {
	return ginmiddleware.NewMiddleware(lim, ginmiddleware.WithKeyGetter(rateLimitKey))
}

func rateLimitKey(c *gin.Context) string {
	if user := strings.TrimSpace(c.GetHeader(UserIDHeader)); user != "" {
		return "user:" + user
	}

	return "ip:" + c.ClientIP()
}

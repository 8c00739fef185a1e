package bootstrap

import (
	"log"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/config"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// rateLimitMiddlewares holds rate limiting middlewares for different endpoints
type rateLimitMiddlewares struct {
	submit gin.HandlerFunc
	query  gin.HandlerFunc
}

// setupRateLimiting configures rate limiting middlewares based on configuration.
// Accepts an optional go-redis client
func setupRateLimiting(cfg *config.Config, redisClient *redis.Client) rateLimitMiddlewares {
	// Return no-op middlewares when rate limiting is disabled
	noOpMiddleware := func(c *gin.Context) { c.Next() }
	disabledLimiters := rateLimitMiddlewares{
		submit: noOpMiddleware,
		query:  noOpMiddleware,
	}

	switch {
	case !cfg.EnableRateLimit:
		return disabledLimiters
	default:
		return createRateLimiters(cfg, redisClient)
	}
}

// createRateLimiters creates rate limiting middlewares for all endpoints.
// Accepts an optional shared go-redis client
func createRateLimiters(cfg *config.Config, redisClient *redis.Client) rateLimitMiddlewares {
	log.Printf("Rate limiting enabled (store: %s)", cfg.RateLimitStore)

	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)
	if storeType == middleware.RateLimitStoreRedis {
		log.Printf("Using shared Redis client for rate limiting")
	} else {
		log.Printf("In-memory rate limiting configured (single instance only)")
	}

	createLimiter := func(requestsPerMinute int, endpoint string) gin.HandlerFunc {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			StoreType:         storeType,
			RedisClient:       redisClient,
			CleanupInterval:   cfg.RateLimitCleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to create rate limiter for %s: %v", endpoint, err)
		}
		return limiter
	}

	return rateLimitMiddlewares{
		submit: createLimiter(cfg.SubmitRateLimit, "/api/v1/submissions"),
		query:  createLimiter(cfg.QueryRateLimit, "/api/v1"),
	}
}

package bootstrap

import (
	"log"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/config"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/metrics"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	h handlerSet,
	prometheusMetrics core.Recorder,
	rateLimitRedisClient *redis.Client,
) *gin.Engine {
	setupGinMode(cfg)
	r := gin.New()

	// Setup middleware (metrics must be first to time every route)
	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(gin.Logger(), gin.Recovery())

	// Health check endpoint
	r.GET("/health", h.health.Health)

	// Setup metrics endpoint
	setupMetricsEndpoint(r, cfg)

	// Setup rate limiting
	rateLimiters := setupRateLimiting(cfg, rateLimitRedisClient)

	// API routes (require bearer JWT when API_SECRET is set)
	api := r.Group("/api/v1")
	api.Use(middleware.RequireAPIAuth(cfg.APISecret))
	{
		api.POST("/submissions", rateLimiters.submit, h.submission.Submit)
		api.GET("/submissions", rateLimiters.query, h.submission.List)
		api.GET("/submissions/:id", rateLimiters.query, h.submission.Get)
		api.GET("/stats", rateLimiters.query, h.stats.Stats)
	}

	logServerStartup(cfg)

	return r
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	log.Printf("Gin mode: %s", ginModeLogMessage[cfg.IsProduction])
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	log.Printf("LHDN e-Invoice gateway starting on %s", cfg.ServerAddr)
	if cfg.APISecret == "" {
		log.Printf("Warning: API authentication disabled (API_SECRET not set)")
	}
	if cfg.PollEnabled {
		log.Printf("Status polling enabled (interval: %s, batch: %d)", cfg.PollInterval, cfg.PollBatch)
	}
}

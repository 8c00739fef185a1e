package bootstrap

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/config"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/metrics"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/models"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/services"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"
)

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, srv *http.Server) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})
}

// addRedisClientShutdownJob adds Redis client shutdown handler
func addRedisClientShutdownJob(m *graceful.Manager, redisClient *redis.Client) {
	if redisClient == nil {
		return
	}

	m.AddShutdownJob(func() error {
		log.Println("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
			return err
		}
		log.Println("Redis connection closed")
		return nil
	})
}

// addStatusPollJob adds the periodic submission status polling job
func addStatusPollJob(m *graceful.Manager, cfg *config.Config, poller *services.StatusPoller) {
	if !cfg.PollEnabled {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(cfg.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if advanced, err := poller.PollOnce(ctx); err != nil {
					pollErrorLogger.logIfNeeded("status_poll", err)
				} else if advanced > 0 {
					log.Printf("Status poll advanced %d submissions", advanced)
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addMetricsGaugeUpdateJob adds periodic metrics gauge update job
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	statsWrapper *metrics.StatsCacheWrapper,
	prometheusMetrics core.Recorder,
) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(cfg.MetricsGaugeUpdateInterval)
		defer ticker.Stop()

		// Update immediately on startup
		updateGaugeMetrics(ctx, statsWrapper, prometheusMetrics, cfg.MetricsGaugeUpdateInterval)

		for {
			select {
			case <-ticker.C:
				updateGaugeMetrics(
					ctx,
					statsWrapper,
					prometheusMetrics,
					cfg.MetricsGaugeUpdateInterval,
				)
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addCacheCleanupJob adds cache cleanup on shutdown
func addCacheCleanupJob(m *graceful.Manager, statsCacheCloser func() error) {
	if statsCacheCloser == nil {
		return
	}

	m.AddShutdownJob(func() error {
		if err := statsCacheCloser(); err != nil {
			log.Printf("Error closing stats cache: %v", err)
		} else {
			log.Println("Stats cache closed")
		}
		return nil
	})
}

// errorLogger handles rate-limited error logging
type errorLogger struct {
	lastErrorTimes  map[string]time.Time
	rateLimitWindow time.Duration
}

// newErrorLogger creates a new error logger with rate limiting
func newErrorLogger() *errorLogger {
	return &errorLogger{
		lastErrorTimes:  make(map[string]time.Time),
		rateLimitWindow: 5 * time.Minute, // Log at most once per 5 minutes per operation
	}
}

// logIfNeeded logs an error only if rate limit allows
func (e *errorLogger) logIfNeeded(operation string, err error) {
	now := time.Now()
	lastTime, exists := e.lastErrorTimes[operation]

	if !exists || now.Sub(lastTime) >= e.rateLimitWindow {
		log.Printf("Background job failed for %s: %v (further errors will be suppressed for %v)",
			operation, err, e.rateLimitWindow)
		e.lastErrorTimes[operation] = now
	}
}

var (
	gaugeErrorLogger = newErrorLogger()
	pollErrorLogger  = newErrorLogger()
)

// updateGaugeMetrics refreshes the per-status submission gauges through the
// cache-backed stats store. The cache TTL matches the update interval so
// repeated updates within one window hit the cache.
func updateGaugeMetrics(
	ctx context.Context,
	statsWrapper *metrics.StatsCacheWrapper,
	m core.Recorder,
	cacheTTL time.Duration,
) {
	for _, status := range models.AllStatuses {
		count, err := statsWrapper.GetSubmissionsCount(ctx, status, cacheTTL)
		if err != nil {
			m.RecordDatabaseQueryError("count_submissions_" + string(status))
			gaugeErrorLogger.logIfNeeded("count_submissions_"+string(status), err)
			continue
		}
		m.SetSubmissionsCount(string(status), int(count))
	}
}

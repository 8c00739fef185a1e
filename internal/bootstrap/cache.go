package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/cache"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/config"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/metrics"
)

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) core.Recorder {
	prometheusMetrics := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}
	return prometheusMetrics
}

// initializeStatsCache initializes the submission stats cache based on
// configuration. The cache backs both the dashboard stats endpoint and the
// gauge update job.
func initializeStatsCache(cfg *config.Config) (core.Cache[int64], func() error, error) {
	switch cfg.StatsCacheType {
	case config.StatsCacheTypeRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		statsCache, err := cache.NewRueidisCache[int64](
			ctx,
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			"einvoice:stats:",
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis stats cache: %w", err)
		}
		log.Printf("Stats cache: redis (addr=%s, db=%d)", cfg.RedisAddr, cfg.RedisDB)
		return statsCache, statsCache.Close, nil

	default: // memory
		statsCache := cache.NewMemoryCache[int64]()
		log.Println("Stats cache: memory (single instance only)")
		return statsCache, statsCache.Close, nil
	}
}

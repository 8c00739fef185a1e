package bootstrap

import (
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/config"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/handlers"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/metrics"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/services"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/store"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	submission *handlers.SubmissionHandler
	stats      *handlers.StatsHandler
	health     *handlers.HealthHandler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	cfg *config.Config,
	db *store.Store,
	submissionService *services.SubmissionService,
	tracker *services.Tracker,
	statsWrapper *metrics.StatsCacheWrapper,
) handlerSet {
	return handlerSet{
		submission: handlers.NewSubmissionHandler(submissionService, tracker),
		stats:      handlers.NewStatsHandler(statsWrapper, cfg.MetricsGaugeUpdateInterval),
		health:     handlers.NewHealthHandler(db),
	}
}

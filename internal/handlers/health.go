package handlers

import (
	"net/http"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/metrics"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/version"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports backend connectivity.
type HealthChecker interface {
	Health() error
}

// HealthHandler serves liveness and readiness information.
type HealthHandler struct {
	store HealthChecker
}

func NewHealthHandler(store HealthChecker) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.store.Health(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"version": version.Version,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
	})
}

// StatsHandler serves cached submission counts for the portal dashboard.
type StatsHandler struct {
	stats *metrics.StatsCacheWrapper
	ttl   time.Duration
}

func NewStatsHandler(stats *metrics.StatsCacheWrapper, ttl time.Duration) *StatsHandler {
	return &StatsHandler{stats: stats, ttl: ttl}
}

// Stats handles GET /api/v1/stats.
func (h *StatsHandler) Stats(c *gin.Context) {
	counts, err := h.stats.GetStatusCounts(c.Request.Context(), h.ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make(map[string]int64, len(counts))
	for status, count := range counts {
		out[string(status)] = count
	}
	c.JSON(http.StatusOK, gin.H{"submissions": out})
}

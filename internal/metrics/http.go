package metrics

import (
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"

	"github.com/gin-gonic/gin"
)

// HTTPMetricsMiddleware records request count, duration, and in-flight gauge
// for every route. Uses the route template (c.FullPath) rather than the raw
// URL to keep label cardinality bounded.
func HTTPMetricsMiddleware(recorder core.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		recorder.IncHTTPInFlight()
		defer recorder.DecHTTPInFlight()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		recorder.RecordHTTPRequest(
			c.Request.Method,
			path,
			StatusLabel(c.Writer.Status()),
			time.Since(start),
		)
	}
}

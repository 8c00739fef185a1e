package metrics

import (
	"context"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/models"
)

// StatsCacheWrapper serves submission counts through a cache-aside layer so
// dashboard reads and gauge updates do not hammer the database. The cache TTL
// should match the gauge update interval.
type StatsCacheWrapper struct {
	store core.StatsStore
	cache core.Cache[int64]
}

func NewStatsCacheWrapper(store core.StatsStore, cache core.Cache[int64]) *StatsCacheWrapper {
	return &StatsCacheWrapper{store: store, cache: cache}
}

// GetSubmissionsCount returns the number of submissions in the given status,
// served from cache when fresh.
func (w *StatsCacheWrapper) GetSubmissionsCount(
	ctx context.Context,
	status models.Status,
	ttl time.Duration,
) (int64, error) {
	key := "submissions:" + string(status)
	return w.cache.GetWithFetch(ctx, key, ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return w.store.CountSubmissionsByStatus(string(status))
		})
}

// GetStatusCounts returns counts for every known status.
func (w *StatsCacheWrapper) GetStatusCounts(
	ctx context.Context,
	ttl time.Duration,
) (map[models.Status]int64, error) {
	counts := make(map[models.Status]int64, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		count, err := w.GetSubmissionsCount(ctx, status, ttl)
		if err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, nil
}

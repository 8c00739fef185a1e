package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/cache"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatsStore struct {
	counts map[string]int64
	err    error
	calls  int
}

func (f *fakeStatsStore) CountSubmissionsByStatus(status string) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[status], nil
}

func TestStatsCacheWrapper_FetchesThroughCache(t *testing.T) {
	store := &fakeStatsStore{counts: map[string]int64{"Pending": 7}}
	wrapper := NewStatsCacheWrapper(store, cache.NewMemoryCache[int64]())
	ctx := context.Background()

	count, err := wrapper.GetSubmissionsCount(ctx, models.StatusPending, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.Equal(t, 1, store.calls)

	// Second read within the TTL is served from cache
	count, err = wrapper.GetSubmissionsCount(ctx, models.StatusPending, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.Equal(t, 1, store.calls)
}

func TestStatsCacheWrapper_ExpiredEntryRefetches(t *testing.T) {
	store := &fakeStatsStore{counts: map[string]int64{"Pending": 7}}
	wrapper := NewStatsCacheWrapper(store, cache.NewMemoryCache[int64]())
	ctx := context.Background()

	_, err := wrapper.GetSubmissionsCount(ctx, models.StatusPending, 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	store.counts["Pending"] = 9

	count, err := wrapper.GetSubmissionsCount(ctx, models.StatusPending, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(9), count)
	assert.Equal(t, 2, store.calls)
}

func TestStatsCacheWrapper_StoreErrorPropagates(t *testing.T) {
	store := &fakeStatsStore{err: errors.New("db down")}
	wrapper := NewStatsCacheWrapper(store, cache.NewMemoryCache[int64]())

	_, err := wrapper.GetSubmissionsCount(context.Background(), models.StatusPending, time.Minute)
	assert.Error(t, err)
}

func TestStatsCacheWrapper_GetStatusCounts(t *testing.T) {
	store := &fakeStatsStore{counts: map[string]int64{
		"Pending":   3,
		"Submitted": 2,
		"Valid":     11,
	}}
	wrapper := NewStatsCacheWrapper(store, cache.NewMemoryCache[int64]())

	counts, err := wrapper.GetStatusCounts(context.Background(), time.Minute)
	require.NoError(t, err)

	assert.Len(t, counts, len(models.AllStatuses))
	assert.Equal(t, int64(3), counts[models.StatusPending])
	assert.Equal(t, int64(11), counts[models.StatusValid])
	assert.Equal(t, int64(0), counts[models.StatusCancelled])
	assert.Equal(t, len(models.AllStatuses), store.calls)
}

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryCache_GetSet(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	// Test Set and Get
	err := cache.Set(ctx, "test-key", 42, time.Minute)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := cache.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if value != 42 {
		t.Errorf("Expected value 42, got %d", value)
	}
}

func TestMemoryCache_GetMiss(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	_, err := cache.Get(ctx, "non-existent")
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	// Set with very short TTL
	err := cache.Set(ctx, "expire-key", 100, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Should be available immediately
	value, err := cache.Get(ctx, "expire-key")
	if err != nil {
		t.Fatalf("Get failed before expiration: %v", err)
	}
	if value != 100 {
		t.Errorf("Expected value 100, got %d", value)
	}

	// Wait for expiration
	time.Sleep(100 * time.Millisecond)

	// Should be expired now
	_, err = cache.Get(ctx, "expire-key")
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after expiration, got %v", err)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	if err := cache.Set(ctx, "del-key", "value", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := cache.Delete(ctx, "del-key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err := cache.Get(ctx, "del-key")
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestMemoryCache_GetWithFetch(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	var fetchCount atomic.Int64
	fetch := func(ctx context.Context, key string) (int64, error) {
		fetchCount.Add(1)
		return 7, nil
	}

	// First call fetches
	value, err := cache.GetWithFetch(ctx, "fetch-key", time.Minute, fetch)
	if err != nil {
		t.Fatalf("GetWithFetch failed: %v", err)
	}
	if value != 7 {
		t.Errorf("Expected value 7, got %d", value)
	}

	// Second call hits the cache
	value, err = cache.GetWithFetch(ctx, "fetch-key", time.Minute, fetch)
	if err != nil {
		t.Fatalf("GetWithFetch failed on cached read: %v", err)
	}
	if value != 7 {
		t.Errorf("Expected value 7, got %d", value)
	}

	if got := fetchCount.Load(); got != 1 {
		t.Errorf("Expected 1 fetch, got %d", got)
	}
}

func TestMemoryCache_GetWithFetchError(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	fetchErr := errors.New("backend down")
	_, err := cache.GetWithFetch(ctx, "err-key", time.Minute,
		func(ctx context.Context, key string) (int64, error) {
			return 0, fetchErr
		})
	if !errors.Is(err, fetchErr) {
		t.Errorf("Expected fetch error to propagate, got %v", err)
	}

	// Errors are not cached
	_, err = cache.Get(ctx, "err-key")
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			_ = cache.Set(ctx, "shared", n, time.Minute)
			_, _ = cache.Get(ctx, "shared")
		}(int64(i))
	}
	wg.Wait()

	if _, err := cache.Get(ctx, "shared"); err != nil {
		t.Errorf("Get after concurrent writes failed: %v", err)
	}
}

func TestMemoryCache_Health(t *testing.T) {
	cache := NewMemoryCache[int64]()

	if err := cache.Health(context.Background()); err != nil {
		t.Errorf("Health failed: %v", err)
	}
}

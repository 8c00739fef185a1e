package cache

import "errors"

var (
	// ErrCacheMiss indicates the requested key is absent or expired
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrCacheUnavailable indicates the cache backend could not be reached
	ErrCacheUnavailable = errors.New("cache: backend unavailable")

	// ErrInvalidValue indicates the cached value could not be decoded
	ErrInvalidValue = errors.New("cache: invalid value")
)

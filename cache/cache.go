// Package cache provides response caches for the translation client. Values
// are framed batchexecute payloads keyed by gtrans.CacheKey.
package cache

import "context"

// TranslationCache is the interface for response caching. It matches
// gtrans.ResponseCache so any implementation can be passed to
// gtrans.WithCache.
type TranslationCache interface {
	// Get retrieves a cached payload. Returns empty string and false if not found or expired.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a payload in the cache.
	Set(ctx context.Context, key string, value string) error
}

package database

import (
	"context"
	"time"
)

// ListingCache memoizes rendered listing pages. Every method is best-effort:
// backend failures are logged and reported as a miss or a false ok, never as
// an error, so a broken cache only costs a recomputation.
type ListingCache interface {
	// Get decodes the value stored under key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) bool
	// Set stores value under key. A ttl of zero uses the cache default.
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
	// InvalidatePrefix removes every key starting with prefix.
	InvalidatePrefix(ctx context.Context, prefix string) bool
	Close() error
}

package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error)
	ReleaseRideLock(ctx context.Context, rideID string) error
}

// CacheStoreInterface defines the interface for read-model caching.
type CacheStoreInterface interface {
	GetActiveRides(ctx context.Context) ([]CachedRideSummary, error)
	SetActiveRides(ctx context.Context, rides []CachedRideSummary) error
	InvalidateActiveRides(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)

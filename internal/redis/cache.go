package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles read-model caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	// ActiveRidesCacheTTL is short because availability moves with every
	// booking mutation; the cache is also invalidated explicitly.
	ActiveRidesCacheTTL = 10 * time.Second
)

const activeRidesCacheKey = "cache:rides:active"

// CachedRideSummary is the cached projection of an active ride with its
// live seat ledger.
type CachedRideSummary struct {
	ID             string  `json:"id"`
	OwnerID        string  `json:"owner_id"`
	OwnerName      string  `json:"owner_name"`
	Source         string  `json:"source"`
	Destination    string  `json:"destination"`
	DepartureAt    string  `json:"departure_at"`
	TotalSeats     int     `json:"total_seats"`
	PricePerKm     float64 `json:"price_per_km"`
	DistanceKm     float64 `json:"distance_km"`
	ConfirmedSeats int     `json:"confirmed_seats"`
	PendingSeats   int     `json:"pending_seats"`
	AvailableSeats int     `json:"available_seats"`
}

// GetActiveRides retrieves the cached active-ride listing.
// Returns nil on cache miss.
func (s *CacheStore) GetActiveRides(ctx context.Context) ([]CachedRideSummary, error) {
	data, err := s.client.Get(ctx, activeRidesCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var rides []CachedRideSummary
	if err := json.Unmarshal(data, &rides); err != nil {
		return nil, err
	}
	return rides, nil
}

// SetActiveRides stores the active-ride listing.
func (s *CacheStore) SetActiveRides(ctx context.Context, rides []CachedRideSummary) error {
	data, err := json.Marshal(rides)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, activeRidesCacheKey, data, ActiveRidesCacheTTL).Err()
}

// InvalidateActiveRides drops the active-ride listing after a mutation.
func (s *CacheStore) InvalidateActiveRides(ctx context.Context) error {
	return s.client.Del(ctx, activeRidesCacheKey).Err()
}

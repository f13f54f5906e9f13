package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/arena-tracker/internal/models"
)

// noListingsSentinel marks a cached "no active listings" answer so that it
// is distinguishable from a cache miss.
const noListingsSentinel = "none"

// FloorPriceCache caches per-card-type floor prices for the polling
// interval. Prices are advisory; staleness up to the TTL is acceptable.
type FloorPriceCache struct {
	cache *RedisCache
	ttl   time.Duration
}

// NewFloorPriceCache creates a floor price cache with the given TTL.
func NewFloorPriceCache(cache *RedisCache, ttl time.Duration) *FloorPriceCache {
	return &FloorPriceCache{cache: cache, ttl: ttl}
}

func floorPriceKey(cardType string) string {
	return "floor:" + cardType
}

// Get returns the cached floor price for a card type. price is nil for a
// cached "no listings" answer; found is false on a miss.
func (c *FloorPriceCache) Get(ctx context.Context, cardType string) (price *big.Int, found bool, err error) {
	raw, ok, err := c.cache.Get(ctx, floorPriceKey(cardType))
	if err != nil {
		return nil, false, fmt.Errorf("floor price cache get: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	if raw == noListingsSentinel {
		return nil, true, nil
	}

	value, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		// Treat a corrupt entry as a miss so the resolver refetches.
		return nil, false, nil
	}
	return value, true, nil
}

// Set stores the floor price for a card type. A nil price caches the
// "no listings" answer.
func (c *FloorPriceCache) Set(ctx context.Context, cardType string, price *big.Int) error {
	raw := noListingsSentinel
	if price != nil {
		raw = price.String()
	}
	if err := c.cache.Set(ctx, floorPriceKey(cardType), raw, c.ttl); err != nil {
		return fmt.Errorf("floor price cache set: %w", err)
	}
	return nil
}

// LeaderboardCache caches the ledger's top-entrants list per tournament.
type LeaderboardCache struct {
	cache *RedisCache
	ttl   time.Duration
}

// NewLeaderboardCache creates a leaderboard cache with the given TTL.
func NewLeaderboardCache(cache *RedisCache, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{cache: cache, ttl: ttl}
}

func leaderboardKey(tournamentID uint64) string {
	return fmt.Sprintf("leaderboard:%d", tournamentID)
}

// Get returns the cached leaderboard for a tournament, or found=false on a
// miss.
func (c *LeaderboardCache) Get(ctx context.Context, tournamentID uint64) ([]models.LeaderboardEntry, bool, error) {
	raw, ok, err := c.cache.Get(ctx, leaderboardKey(tournamentID))
	if err != nil {
		return nil, false, fmt.Errorf("leaderboard cache get: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false, nil
	}
	return entries, true, nil
}

// Set stores the leaderboard for a tournament.
func (c *LeaderboardCache) Set(ctx context.Context, tournamentID uint64, entries []models.LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("leaderboard cache marshal: %w", err)
	}
	if err := c.cache.Set(ctx, leaderboardKey(tournamentID), string(raw), c.ttl); err != nil {
		return fmt.Errorf("leaderboard cache set: %w", err)
	}
	return nil
}

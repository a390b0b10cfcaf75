package waitlist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akeren/innr-waitlist/internal/log"
	"github.com/akeren/innr-waitlist/pkg/circuitbreaker"
	"github.com/google/uuid"
)

const leaderboardGenerationKey = "leaderboard:generation"

// Cache is the subset of the application cache used for leaderboard reads.
type Cache interface {
	// Get returns ("", nil) when a key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Set uses ttl=0 for no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// LeaderboardCache stores leaderboard pages exactly as the store ordered them.
// Every signup bumps a generation key, which orphans the pages cached before it.
// Reads and writes go through a circuit breaker so an unreachable cache is skipped
// instead of slowing every leaderboard request. A nil *LeaderboardCache is valid and caches nothing.
type LeaderboardCache struct {
	cache   Cache
	ttl     time.Duration
	logger  *log.Logger
	breaker *circuitbreaker.Breaker
}

// NewLeaderboardCache returns nil when no cache is configured or ttl is not positive.
func NewLeaderboardCache(cache Cache, ttl time.Duration, logger *log.Logger) *LeaderboardCache {
	if cache == nil || ttl <= 0 {
		return nil
	}
	if logger == nil {
		logger = log.NewLoggerWithJSONOutput()
	}

	breaker := circuitbreaker.New(circuitbreaker.Settings{
		MaxFailures: 3,
		Cooldown:    30 * time.Second,
		OnTransition: func(from, to circuitbreaker.State) {
			logger.Warn("Leaderboard cache circuit changed state", "from", string(from), "to", string(to))
		},
	})

	return &LeaderboardCache{cache: cache, ttl: ttl, logger: logger, breaker: breaker}
}

// LeaderboardPage addresses one cached page under the generation current when it was read.
// The zero value addresses nothing.
type LeaderboardPage struct {
	key string
}

// Get returns the cached page and its address. A miss still returns the address so the
// caller can fill it with Set; if a signup bumps the generation in between, the write lands
// on an orphaned key instead of the new generation.
func (lc *LeaderboardCache) Get(ctx context.Context, limit int) ([]SchoolStatResponse, LeaderboardPage, bool) {
	if lc == nil {
		return nil, LeaderboardPage{}, false
	}

	var (
		page LeaderboardPage
		raw  string
	)
	err := lc.breaker.Do(func() error {
		key, err := lc.pageKey(ctx, limit)
		if err != nil {
			return err
		}
		page.key = key
		raw, err = lc.cache.Get(ctx, key)
		return err
	})
	if err != nil {
		lc.logger.Warn("Leaderboard cache read failed", "limit", limit, "error", err)
		return nil, LeaderboardPage{}, false
	}
	if raw == "" {
		return nil, page, false
	}

	var schools []SchoolStatResponse
	if err := json.Unmarshal([]byte(raw), &schools); err != nil {
		lc.logger.Warn("Discarding malformed leaderboard cache entry", "limit", limit, "error", err)
		return nil, page, false
	}

	return schools, page, true
}

// Set stores schools at the page returned by Get. The zero page is skipped.
func (lc *LeaderboardCache) Set(ctx context.Context, page LeaderboardPage, schools []SchoolStatResponse) {
	if lc == nil || page.key == "" {
		return
	}

	payload, err := json.Marshal(schools)
	if err != nil {
		lc.logger.Warn("Failed to encode leaderboard for cache", "error", err)
		return
	}

	err = lc.breaker.Do(func() error {
		return lc.cache.Set(ctx, page.key, string(payload), lc.ttl)
	})
	if err != nil {
		lc.logger.Warn("Leaderboard cache write failed", "key", page.key, "error", err)
	}
}

// Invalidate bypasses the breaker: a skipped invalidation could leave stale pages behind once the cache recovers.
func (lc *LeaderboardCache) Invalidate(ctx context.Context) {
	if lc == nil {
		return
	}

	if err := lc.cache.Set(ctx, leaderboardGenerationKey, uuid.New().String(), 0); err != nil {
		lc.logger.Warn("Leaderboard cache invalidation failed", "error", err)
	}
}

func (lc *LeaderboardCache) pageKey(ctx context.Context, limit int) (string, error) {
	generation, err := lc.cache.Get(ctx, leaderboardGenerationKey)
	if err != nil {
		return "", err
	}
	if generation == "" {
		generation = "0"
	}
	return fmt.Sprintf("leaderboard:%s:top:%d", generation, limit), nil
}

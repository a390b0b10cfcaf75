package config

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/innr-waitlist/internal/log"
	pkgredis "github.com/akeren/innr-waitlist/pkg/redis"
	"github.com/akeren/innr-waitlist/pkg/utils"
)

var ErrCacheNotConfigured = errors.New("cache host is not configured")

// Cache is the optional key/value store behind the leaderboard cache and the health check.
type Cache interface {
	// Get returns ("", nil) when a key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Set uses ttl=0 for no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// CacheConfig is read from REDIS_HOST, REDIS_PORT, REDIS_PASSWORD and REDIS_DB.
type CacheConfig struct {
	pkgredis.Config
}

func NewCacheConfig() *CacheConfig {
	return &CacheConfig{Config: pkgredis.Config{
		Host:     utils.GetEnvTrimmed("REDIS_HOST"),
		Port:     utils.GetEnvTrimmedOrDefault("REDIS_PORT", "6379"),
		Password: sanitizeEnv(utils.GetEnvTrimmed("REDIS_PASSWORD")),
		DB:       utils.GetEnvInt("REDIS_DB", 0),
	}}
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.Host != ""
}

func (cc *CacheConfig) NewCache(logger *log.Logger) (Cache, error) {
	if !cc.IsConfigured() {
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&cc.Config)
	if err != nil {
		return nil, err
	}

	logger.Info("Cache (Redis) connected", "addr", cc.Addr(), "db", cc.DB)
	return cache, nil
}

// NewCacheOrNil returns nil when Redis is not configured or unreachable. The
// service then runs without the leaderboard cache.
func (cc *CacheConfig) NewCacheOrNil(logger *log.Logger) Cache {
	if !cc.IsConfigured() {
		logger.Info("Cache (Redis) not configured; leaderboard reads go to the store")
		return nil
	}

	cache, err := cc.NewCache(logger)
	if err != nil {
		logger.Error("Cache (Redis) unavailable; leaderboard reads go to the store", "addr", cc.Addr(), "error", err)
		return nil
	}
	return cache
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}

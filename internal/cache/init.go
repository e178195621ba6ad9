package cache

import (
	"github.com/shariahscreen/shariahscreen/internal/config"
	"github.com/shariahscreen/shariahscreen/internal/logger"
	redisClient "github.com/shariahscreen/shariahscreen/internal/redis"
)

// CacheType represents the type of cache to use
type CacheType string

const (
	// CacheTypeInMemory represents an in-memory cache
	CacheTypeInMemory CacheType = "inmemory"

	// CacheTypeRedis represents a Redis-backed cache
	CacheTypeRedis CacheType = "redis"
)

// Initialize initializes the cache system based on the specified type
func Initialize(cfg *config.Configuration, log *logger.Logger, client *redisClient.Client) Cache {
	log.Infow("Initializing cache system", "type", cfg.Cache.Type)

	var c Cache

	switch CacheType(cfg.Cache.Type) {
	case CacheTypeRedis:
		InitializeRedisCache(client, log, cfg)
		c = GetRedisCache()
	case CacheTypeInMemory:
		fallthrough
	default:
		InitializeInMemoryCache()
		c = GetInMemoryCache()
	}

	log.Infow("Cache system initialized", "type", cfg.Cache.Type)
	return c
}

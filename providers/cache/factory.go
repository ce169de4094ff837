package cache

import (
	"time"

	"cityweather.app/config"
	"cityweather.app/errors"
)

// NewFromConfig builds the configured forecast cache. A "none" type returns
// nil; callers skip the caching layer entirely in that case.
func NewFromConfig(cfg *config.CacheConfig) (ForecastCacheInterface, error) {
	switch cfg.Type {
	case "none":
		return nil, nil
	case "memory":
		return NewForecastCache(NewMemoryCache()), nil
	case "redis":
		redisCache, err := NewRedisCache(&RedisCacheConfig{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  time.Duration(cfg.RedisDialTimeout) * time.Second,
			ReadTimeout:  time.Duration(cfg.RedisReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.RedisWriteTimeout) * time.Second,
		})
		if err != nil {
			return nil, errors.NewConfigurationError("failed to connect to redis cache", err)
		}
		return redisCache, nil
	default:
		return nil, errors.NewConfigurationError("unsupported cache type: "+cfg.Type, nil)
	}
}

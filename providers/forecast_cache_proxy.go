package providers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"cityweather.app/metrics"
	"cityweather.app/models"
	"cityweather.app/providers/cache"
)

// ForecastCacheProxy caches raw forecast payloads in front of a fetcher.
// The underlying client stays cache-free; the caching concern is layered on
// by the application wiring.
type ForecastCacheProxy struct {
	realFetcher ForecastFetcher
	cache       cache.ForecastCacheInterface
	cacheTTL    time.Duration
	metrics     *metrics.CacheMetrics
}

func NewForecastCacheProxy(realFetcher ForecastFetcher, forecastCache cache.ForecastCacheInterface, cacheTTL time.Duration, cacheMetrics *metrics.CacheMetrics) ForecastFetcher {
	return &ForecastCacheProxy{
		realFetcher: realFetcher,
		cache:       forecastCache,
		cacheTTL:    cacheTTL,
		metrics:     cacheMetrics,
	}
}

func (p *ForecastCacheProxy) FetchForecast(ctx context.Context, latitude, longitude float64) (*models.ForecastResponse, error) {
	cacheKey := p.generateCacheKey(latitude, longitude)
	start := time.Now()

	if cachedResponse, found := p.cache.Get(cacheKey); found {
		slog.Info("forecast cache hit", "key", cacheKey)
		if p.metrics != nil {
			p.metrics.RecordHit()
			p.metrics.RecordLatency("get", time.Since(start))
		}
		return cachedResponse, nil
	}

	slog.Info("forecast cache miss", "key", cacheKey)
	if p.metrics != nil {
		p.metrics.RecordMiss()
	}

	response, err := p.realFetcher.FetchForecast(ctx, latitude, longitude)
	if err != nil {
		return nil, err
	}

	p.cache.Set(cacheKey, response, p.cacheTTL)

	return response, nil
}

func (p *ForecastCacheProxy) generateCacheKey(latitude, longitude float64) string {
	return fmt.Sprintf("forecast:%s_%s",
		strconv.FormatFloat(latitude, 'f', -1, 64),
		strconv.FormatFloat(longitude, 'f', -1, 64))
}

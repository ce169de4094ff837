package cache

import (
	"context"
	"testing"
	"time"

	"cityweather.app/config"
	"cityweather.app/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() *models.ForecastResponse {
	temp := 11.5
	code := 3
	return &models.ForecastResponse{
		UTCOffsetSeconds: 0,
		Current: &models.ForecastCurrent{
			Time:        "2024-03-10T14:00",
			Temperature: &temp,
			WeatherCode: &code,
		},
		Hourly: &models.ForecastHourly{
			Time:        []string{"2024-03-10T00:00"},
			Temperature: []float64{8.1},
			WeatherCode: []int{2},
			Humidity:    []int{80},
		},
	}
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	cache.Set(ctx, "key", []byte("value"), time.Minute)

	data, found := cache.Get(ctx, "key")
	assert.True(t, found)
	assert.Equal(t, []byte("value"), data)
}

func TestMemoryCache_GetMissing(t *testing.T) {
	cache := NewMemoryCache()

	_, found := cache.Get(context.Background(), "absent")
	assert.False(t, found)
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	cache.Set(ctx, "key", []byte("value"), 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, found := cache.Get(ctx, "key")
	assert.False(t, found)
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	cache.Set(ctx, "a", []byte("1"), time.Minute)
	cache.Set(ctx, "b", []byte("2"), time.Minute)

	cache.Delete(ctx, "a")
	_, found := cache.Get(ctx, "a")
	assert.False(t, found)

	cache.Clear(ctx)
	_, found = cache.Get(ctx, "b")
	assert.False(t, found)
}

func TestForecastCache_RoundTrip(t *testing.T) {
	cache := NewForecastCache(NewMemoryCache())

	cache.Set("forecast:51.50853_-0.12574", samplePayload(), time.Minute)

	payload, found := cache.Get("forecast:51.50853_-0.12574")
	require.True(t, found)
	require.NotNil(t, payload.Current)
	assert.Equal(t, 11.5, *payload.Current.Temperature)
	assert.Equal(t, 3, *payload.Current.WeatherCode)
	require.NotNil(t, payload.Hourly)
	assert.Equal(t, []int{80}, payload.Hourly.Humidity)
}

func TestForecastCache_NilValueIgnored(t *testing.T) {
	cache := NewForecastCache(NewMemoryCache())

	cache.Set("key", nil, time.Minute)

	_, found := cache.Get("key")
	assert.False(t, found)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	server := miniredis.RunT(t)

	cache, err := NewRedisCache(&RedisCacheConfig{
		Addr:         server.Addr(),
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	require.NoError(t, err)

	cache.Set("forecast:48.85341_2.3488", samplePayload(), time.Minute)

	payload, found := cache.Get("forecast:48.85341_2.3488")
	require.True(t, found)
	require.NotNil(t, payload.Current)
	assert.Equal(t, 11.5, *payload.Current.Temperature)
}

func TestRedisCache_ExpiredKeyMisses(t *testing.T) {
	server := miniredis.RunT(t)

	cache, err := NewRedisCache(&RedisCacheConfig{
		Addr:         server.Addr(),
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	require.NoError(t, err)

	cache.Set("key", samplePayload(), 50*time.Millisecond)
	server.FastForward(time.Second)

	_, found := cache.Get("key")
	assert.False(t, found)
}

func TestRedisCache_ConnectionFailure(t *testing.T) {
	_, err := NewRedisCache(&RedisCacheConfig{
		Addr:        "localhost:1",
		DialTimeout: 100 * time.Millisecond,
	})
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	t.Run("None", func(t *testing.T) {
		cache, err := NewFromConfig(&config.CacheConfig{Type: "none", TTLMinutes: 10})
		assert.NoError(t, err)
		assert.Nil(t, cache)
	})

	t.Run("Memory", func(t *testing.T) {
		cache, err := NewFromConfig(&config.CacheConfig{Type: "memory", TTLMinutes: 10})
		assert.NoError(t, err)
		assert.NotNil(t, cache)
	})

	t.Run("Redis", func(t *testing.T) {
		server := miniredis.RunT(t)
		cache, err := NewFromConfig(&config.CacheConfig{
			Type:       "redis",
			TTLMinutes: 10,
			RedisAddr:  server.Addr(),
		})
		assert.NoError(t, err)
		assert.NotNil(t, cache)
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := NewFromConfig(&config.CacheConfig{Type: "memcached", TTLMinutes: 10})
		assert.Error(t, err)
	})
}

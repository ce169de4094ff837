package providers

import (
	"context"

	"cityweather.app/errors"
	"cityweather.app/models"
	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a WeatherProvider with a token-bucket limiter so
// the free Open-Meteo tier is not exhausted by rapid interactive use.
type RateLimitedProvider struct {
	provider WeatherProvider
	limiter  *rate.Limiter
}

// NewRateLimitedProvider creates a rate limited weather provider.
// rps may be fractional for less than one request per second.
func NewRateLimitedProvider(provider WeatherProvider, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedProvider) SearchCities(ctx context.Context, query string) ([]models.City, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, errors.NewNetworkError("rate limit wait canceled", err)
	}
	return r.provider.SearchCities(ctx, query)
}

func (r *RateLimitedProvider) FetchForecast(ctx context.Context, latitude, longitude float64) (*models.ForecastResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, errors.NewNetworkError("rate limit wait canceled", err)
	}
	return r.provider.FetchForecast(ctx, latitude, longitude)
}

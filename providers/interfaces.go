package providers

import (
	"context"

	"cityweather.app/models"
)

// CitySearcher resolves a free-text query into city candidates.
type CitySearcher interface {
	SearchCities(ctx context.Context, query string) ([]models.City, error)
}

// ForecastFetcher retrieves the raw forecast payload for a coordinate pair.
type ForecastFetcher interface {
	FetchForecast(ctx context.Context, latitude, longitude float64) (*models.ForecastResponse, error)
}

// WeatherProvider combines both read-only queries against the external service.
type WeatherProvider interface {
	CitySearcher
	ForecastFetcher
}

type composedProvider struct {
	CitySearcher
	ForecastFetcher
}

// Compose pairs a searcher with a (possibly decorated) fetcher into one
// WeatherProvider. Decorators like the forecast cache proxy only wrap the
// fetch side, so the two halves are recombined here.
func Compose(searcher CitySearcher, fetcher ForecastFetcher) WeatherProvider {
	return &composedProvider{CitySearcher: searcher, ForecastFetcher: fetcher}
}

package providers

import (
	"context"
	"log/slog"
	"time"

	"cityweather.app/models"
)

// LoggingProvider wraps a WeatherProvider and logs each call with its
// duration and outcome.
type LoggingProvider struct {
	wrappedProvider WeatherProvider
	providerName    string
}

func NewLoggingProvider(provider WeatherProvider, providerName string) WeatherProvider {
	return &LoggingProvider{
		wrappedProvider: provider,
		providerName:    providerName,
	}
}

func (d *LoggingProvider) SearchCities(ctx context.Context, query string) ([]models.City, error) {
	startTime := time.Now()

	cities, err := d.wrappedProvider.SearchCities(ctx, query)
	duration := time.Since(startTime)

	if err != nil {
		slog.Error("City search failed", "provider", d.providerName, "query", query, "duration", duration, "error", err)
		return nil, err
	}

	slog.Debug("City search completed", "provider", d.providerName, "query", query, "results", len(cities), "duration", duration)
	return cities, nil
}

func (d *LoggingProvider) FetchForecast(ctx context.Context, latitude, longitude float64) (*models.ForecastResponse, error) {
	startTime := time.Now()

	response, err := d.wrappedProvider.FetchForecast(ctx, latitude, longitude)
	duration := time.Since(startTime)

	if err != nil {
		slog.Error("Forecast fetch failed", "provider", d.providerName, "lat", latitude, "lon", longitude, "duration", duration, "error", err)
		return nil, err
	}

	slog.Debug("Forecast fetch completed", "provider", d.providerName, "lat", latitude, "lon", longitude, "duration", duration)
	return response, nil
}

package service

import (
	"context"
	"log/slog"
	"sync"

	"cityweather.app/errors"
	"cityweather.app/mapper"
	"cityweather.app/models"
	"cityweather.app/providers"
)

// DetailController orchestrates loading the full forecast for one city and
// writing the resulting snapshot back into the history store.
type DetailController struct {
	fetcher providers.ForecastFetcher
	history CityHistoryInterface

	mu      sync.Mutex
	city    models.City
	weather *models.CityWeather
	loading bool
	errMsg  string
}

// NewDetailController creates a controller for the given city.
func NewDetailController(city models.City, fetcher providers.ForecastFetcher, history CityHistoryInterface) *DetailController {
	return &DetailController{
		fetcher: fetcher,
		history: history,
		city:    city,
	}
}

// LoadWeather fetches and maps the city's forecast. A call while a previous
// load is still in flight is a no-op. On failure the prior weather state is
// left untouched and only the error message changes.
func (c *DetailController) LoadWeather(ctx context.Context) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.errMsg = ""
	city := c.city
	c.mu.Unlock()

	payload, err := c.fetcher.FetchForecast(ctx, city.Latitude, city.Longitude)
	if err != nil {
		c.mu.Lock()
		c.errMsg = errors.UserMessage(err)
		c.loading = false
		c.mu.Unlock()
		return
	}

	weather := mapper.Map(city, payload)

	temp := weather.Current.Temperature
	code := weather.Current.WeatherCode
	city.LastKnownTemp = &temp
	city.LastKnownWeatherCode = &code

	c.mu.Lock()
	c.weather = &weather
	c.city = city
	c.loading = false
	c.mu.Unlock()

	// History writes are best-effort; losing one must never interrupt the
	// primary flow of showing weather.
	if err := c.history.Save(city); err != nil {
		slog.Warn("Failed to save weather snapshot to history", "city", city.Name, "error", err)
	}
}

// City returns the city this controller serves, including any last-known
// weather fields picked up by successful loads.
func (c *DetailController) City() models.City {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.city
}

// Weather returns the most recently loaded aggregate, or nil.
func (c *DetailController) Weather() *models.CityWeather {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weather
}

// IsLoading reports whether a load is currently in flight.
func (c *DetailController) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ErrorMessage returns the user-facing message from the last failed load.
func (c *DetailController) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

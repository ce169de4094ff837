// Package providers implements clients and decorators for the external
// weather service.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"cityweather.app/config"
	"cityweather.app/errors"
	"cityweather.app/models"
)

const unknownCountry = "Unknown"

// OpenMeteoProvider queries the Open-Meteo geocoding and forecast endpoints.
// It performs a single attempt per call; retry policy belongs to the caller.
type OpenMeteoProvider struct {
	geocodingBaseURL string
	forecastBaseURL  string
	forecastDays     int
	searchCount      int
	client           *http.Client
}

// NewOpenMeteoProvider creates a new Open-Meteo provider
func NewOpenMeteoProvider(config *config.ProviderConfig) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		geocodingBaseURL: config.GeocodingBaseURL,
		forecastBaseURL:  config.ForecastBaseURL,
		forecastDays:     config.ForecastDays,
		searchCount:      config.SearchCount,
		client:           &http.Client{Timeout: config.Timeout()},
	}
}

// SearchCities resolves a free-text query into up to searchCount city
// candidates, in provider order. A candidate without a country designation
// defaults to "Unknown".
func (p *OpenMeteoProvider) SearchCities(ctx context.Context, query string) ([]models.City, error) {
	if query == "" {
		return nil, errors.NewValidationError("query cannot be empty")
	}

	params := url.Values{}
	params.Set("name", query)
	params.Set("count", strconv.Itoa(p.searchCount))
	params.Set("language", "en")
	params.Set("format", "json")

	var response models.GeocodingResponse
	if err := p.get(ctx, p.geocodingBaseURL, params, &response); err != nil {
		return nil, err
	}

	cities := make([]models.City, 0, len(response.Results))
	for _, result := range response.Results {
		country := unknownCountry
		if result.Country != nil && *result.Country != "" {
			country = *result.Country
		}
		timezone := ""
		if result.Timezone != nil {
			timezone = *result.Timezone
		}
		cities = append(cities, models.City{
			ID:        result.ID,
			Name:      result.Name,
			Country:   country,
			Latitude:  result.Latitude,
			Longitude: result.Longitude,
			Timezone:  timezone,
		})
	}
	return cities, nil
}

// FetchForecast retrieves the raw 7-day forecast payload for a coordinate
// pair, with the provider resolving the timezone itself.
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, latitude, longitude float64) (*models.ForecastResponse, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("current", "temperature_2m,weather_code,is_day,wind_speed_10m,relative_humidity_2m,apparent_temperature")
	params.Set("hourly", "temperature_2m,weather_code,relative_humidity_2m,visibility")
	params.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,sunrise,sunset,uv_index_max")
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(p.forecastDays))

	var response models.ForecastResponse
	if err := p.get(ctx, p.forecastBaseURL, params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// get issues one GET request and decodes the JSON body into target,
// surfacing the four provider error kinds untouched.
func (p *OpenMeteoProvider) get(ctx context.Context, baseURL string, params url.Values, target interface{}) error {
	requestURL, err := buildURL(baseURL, params)
	if err != nil {
		return errors.NewInvalidRequestError(fmt.Sprintf("invalid provider URL %q", baseURL), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return errors.NewInvalidRequestError("failed to build provider request", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.NewNetworkError("failed to reach weather provider", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewServerError(fmt.Sprintf("weather provider returned status code %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		slog.Error("Failed to decode provider response", "url", baseURL, "error", err)
		return errors.NewDecodingError("failed to decode provider response", err)
	}
	return nil
}

func buildURL(baseURL string, params url.Values) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

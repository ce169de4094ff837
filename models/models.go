// Package models defines data structures used throughout the application
package models

import (
	"strconv"
	"time"
)

// City represents a geocoded location a user can look up weather for.
// The two "last known" fields are the only mutable part; they are refreshed
// after each successful forecast load.
type City struct {
	ID                   int      `json:"id"`
	Name                 string   `json:"name" binding:"required"`
	Country              string   `json:"country"`
	Latitude             float64  `json:"latitude" binding:"min=-90,max=90"`
	Longitude            float64  `json:"longitude" binding:"min=-180,max=180"`
	Timezone             string   `json:"timezone,omitempty"`
	LastKnownTemp        *float64 `json:"last_known_temp,omitempty"`
	LastKnownWeatherCode *int     `json:"last_known_weather_code,omitempty"`
}

// CompositeKey derives the stable identity for a city from its coordinates.
// Provider IDs may be absent or reused, coordinates are not.
func (c City) CompositeKey() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "_" +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// CurrentWeather is the normalized current-conditions snapshot.
type CurrentWeather struct {
	Temperature         float64   `json:"temperature"`
	ApparentTemperature float64   `json:"apparent_temperature"`
	WeatherCode         int       `json:"weather_code"`
	IsDay               bool      `json:"is_day"`
	WindSpeed           float64   `json:"wind_speed"`
	Humidity            int       `json:"humidity"`
	Time                time.Time `json:"time"`
	UVIndex             float64   `json:"uv_index"`
	Visibility          float64   `json:"visibility"`
}

// HourlyWeather is one point of the hourly forecast series.
type HourlyWeather struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	WeatherCode int       `json:"weather_code"`
	Humidity    int       `json:"humidity"`
}

// DailyWeather is one day of the daily forecast series. Date carries
// day granularity only, localized to the city's zone.
type DailyWeather struct {
	Date        time.Time  `json:"date"`
	WeatherCode int        `json:"weather_code"`
	MaxTemp     float64    `json:"max_temp"`
	MinTemp     float64    `json:"min_temp"`
	Sunrise     *time.Time `json:"sunrise,omitempty"`
	Sunset      *time.Time `json:"sunset,omitempty"`
	UVIndexMax  float64    `json:"uv_index_max"`
}

// CityWeather is the aggregate produced by one forecast fetch. It is
// constructed fresh per fetch and never mutated in place.
type CityWeather struct {
	City    City            `json:"city"`
	Current CurrentWeather  `json:"current"`
	Hourly  []HourlyWeather `json:"hourly"`
	Daily   []DailyWeather  `json:"daily"`
}

// SavedCity is the persisted history record, one per composite key.
type SavedCity struct {
	CompositeKey         string    `json:"composite_key" gorm:"primaryKey"`
	CityID               int       `json:"city_id"`
	Name                 string    `json:"name" gorm:"not null"`
	Country              string    `json:"country"`
	Latitude             float64   `json:"latitude"`
	Longitude            float64   `json:"longitude"`
	Timezone             string    `json:"timezone"`
	LastUsedDate         time.Time `json:"last_used_date" gorm:"index"`
	LastKnownTemp        *float64  `json:"last_known_temp"`
	LastKnownWeatherCode *int      `json:"last_known_weather_code"`
}

// NewSavedCity seeds a history record from a city, stamped with now.
func NewSavedCity(city City, now time.Time) SavedCity {
	return SavedCity{
		CompositeKey:         city.CompositeKey(),
		CityID:               city.ID,
		Name:                 city.Name,
		Country:              city.Country,
		Latitude:             city.Latitude,
		Longitude:            city.Longitude,
		Timezone:             city.Timezone,
		LastUsedDate:         now,
		LastKnownTemp:        city.LastKnownTemp,
		LastKnownWeatherCode: city.LastKnownWeatherCode,
	}
}

// ToCity converts a persisted record back to the domain type.
func (s SavedCity) ToCity() City {
	return City{
		ID:                   s.CityID,
		Name:                 s.Name,
		Country:              s.Country,
		Latitude:             s.Latitude,
		Longitude:            s.Longitude,
		Timezone:             s.Timezone,
		LastKnownTemp:        s.LastKnownTemp,
		LastKnownWeatherCode: s.LastKnownWeatherCode,
	}
}

// GeocodingResponse matches the Open-Meteo geocoding search payload.
type GeocodingResponse struct {
	Results []GeoLocation `json:"results"`
}

// GeoLocation is one geocoding candidate as the provider returns it.
type GeoLocation struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Country   *string `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  *string `json:"timezone"`
}

// ForecastResponse matches the Open-Meteo forecast payload. Every section is
// optional; the mapper absorbs whatever is missing.
type ForecastResponse struct {
	UTCOffsetSeconds int              `json:"utc_offset_seconds"`
	Current          *ForecastCurrent `json:"current"`
	Hourly           *ForecastHourly  `json:"hourly"`
	Daily            *ForecastDaily   `json:"daily"`
}

// ForecastCurrent is the raw current-conditions block. Sub-fields are
// pointers so each one can default independently.
type ForecastCurrent struct {
	Time                string   `json:"time"`
	Temperature         *float64 `json:"temperature_2m"`
	WeatherCode         *int     `json:"weather_code"`
	IsDay               *int     `json:"is_day"`
	WindSpeed           *float64 `json:"wind_speed_10m"`
	Humidity            *int     `json:"relative_humidity_2m"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
}

// ForecastHourly holds the hourly parallel arrays.
type ForecastHourly struct {
	Time        []string  `json:"time"`
	Temperature []float64 `json:"temperature_2m"`
	WeatherCode []int     `json:"weather_code"`
	Humidity    []int     `json:"relative_humidity_2m"`
	Visibility  []float64 `json:"visibility"`
}

// ForecastDaily holds the daily parallel arrays.
type ForecastDaily struct {
	Time        []string  `json:"time"`
	WeatherCode []int     `json:"weather_code"`
	TempMax     []float64 `json:"temperature_2m_max"`
	TempMin     []float64 `json:"temperature_2m_min"`
	Sunrise     []string  `json:"sunrise"`
	Sunset      []string  `json:"sunset"`
	UVIndexMax  []float64 `json:"uv_index_max"`
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

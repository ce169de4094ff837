// Package mapper converts raw Open-Meteo forecast payloads into the
// normalized CityWeather aggregate, localized to the target city's timezone.
package mapper

import (
	"time"

	"cityweather.app/models"
)

// The provider uses two distinct string formats: hour-precision local
// timestamps without a zone suffix, and day-only dates for the daily series.
// Interpreting a daily date with the timestamp layout in the wrong zone is
// the classic off-by-one-day bug, so the two layouts are kept separate.
const (
	timestampLayout = "2006-01-02T15:04"
	dateLayout      = "2006-01-02"
)

const (
	maxHourlyEntries  = 25
	defaultVisibility = 10000.0
)

// Map builds a CityWeather aggregate from a raw forecast payload. It never
// fails: missing sections and fields collapse to documented defaults.
func Map(city models.City, payload *models.ForecastResponse) models.CityWeather {
	if payload == nil {
		payload = &models.ForecastResponse{}
	}
	loc := cityLocation(city)

	return models.CityWeather{
		City:    city,
		Current: mapCurrent(payload, loc),
		Hourly:  mapHourly(payload.Hourly, loc),
		Daily:   mapDaily(payload.Daily, loc),
	}
}

// cityLocation resolves the zone all payload timestamps are interpreted in.
// An absent timezone name means UTC; an unrecognized one falls back to the
// runtime's local zone.
func cityLocation(city models.City) *time.Location {
	name := city.Timezone
	if name == "" {
		name = "UTC"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// parseStamp interprets an hour-precision timestamp in loc. An empty or
// malformed value yields the current instant rather than an error; the
// presentation layer treats these fields as non-fatal.
func parseStamp(value string, loc *time.Location) time.Time {
	t, err := time.ParseInLocation(timestampLayout, value, loc)
	if err != nil {
		return time.Now()
	}
	return t
}

// parseDate interprets a day-only date in loc.
func parseDate(value string, loc *time.Location) time.Time {
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Now()
	}
	return t
}

func mapCurrent(payload *models.ForecastResponse, loc *time.Location) models.CurrentWeather {
	// UV index and visibility are not part of the current block natively;
	// they are synthesized from the first daily and hourly entries.
	uvIndex := 0.0
	if payload.Daily != nil && len(payload.Daily.UVIndexMax) > 0 {
		uvIndex = payload.Daily.UVIndexMax[0]
	}
	visibility := defaultVisibility
	if payload.Hourly != nil && len(payload.Hourly.Visibility) > 0 {
		visibility = payload.Hourly.Visibility[0]
	}

	current := models.CurrentWeather{
		Time:       time.Now(),
		UVIndex:    uvIndex,
		Visibility: visibility,
	}

	c := payload.Current
	if c == nil {
		return current
	}

	current.Time = parseStamp(c.Time, loc)
	current.Temperature = floatValue(c.Temperature)
	current.ApparentTemperature = floatValue(c.ApparentTemperature)
	current.WeatherCode = intValue(c.WeatherCode)
	current.IsDay = intValue(c.IsDay) == 1
	current.WindSpeed = floatValue(c.WindSpeed)
	current.Humidity = intValue(c.Humidity)
	return current
}

func mapHourly(hourly *models.ForecastHourly, loc *time.Location) []models.HourlyWeather {
	if hourly == nil {
		return nil
	}

	count := len(hourly.Time)
	if count > maxHourlyEntries {
		count = maxHourlyEntries
	}

	entries := make([]models.HourlyWeather, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, models.HourlyWeather{
			Time:        parseStamp(hourly.Time[i], loc),
			Temperature: floatAt(hourly.Temperature, i),
			WeatherCode: intAt(hourly.WeatherCode, i),
			Humidity:    intAt(hourly.Humidity, i),
		})
	}
	return entries
}

func mapDaily(daily *models.ForecastDaily, loc *time.Location) []models.DailyWeather {
	if daily == nil {
		return nil
	}

	entries := make([]models.DailyWeather, 0, len(daily.Time))
	for i := range daily.Time {
		sunrise := parseStamp(stringAt(daily.Sunrise, i), loc)
		sunset := parseStamp(stringAt(daily.Sunset, i), loc)
		entries = append(entries, models.DailyWeather{
			Date:        parseDate(daily.Time[i], loc),
			WeatherCode: intAt(daily.WeatherCode, i),
			MaxTemp:     floatAt(daily.TempMax, i),
			MinTemp:     floatAt(daily.TempMin, i),
			Sunrise:     &sunrise,
			Sunset:      &sunset,
			UVIndexMax:  floatAt(daily.UVIndexMax, i),
		})
	}
	return entries
}

// Index helpers guard against parallel arrays of uneven length; a short
// array defaults the value instead of panicking.

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floatAt(values []float64, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return values[i]
}

func intAt(values []int, i int) int {
	if i >= len(values) {
		return 0
	}
	return values[i]
}

func stringAt(values []string, i int) string {
	if i >= len(values) {
		return ""
	}
	return values[i]
}

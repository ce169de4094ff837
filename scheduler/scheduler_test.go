package scheduler

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"cityweather.app/config"
	apperrors "cityweather.app/errors"
	"cityweather.app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu       sync.Mutex
	payloads map[string]*models.ForecastResponse
	failFor  map[string]error
	calls    int
}

func key(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "_" + strconv.FormatFloat(lon, 'f', -1, 64)
}

func (f *fakeFetcher) FetchForecast(_ context.Context, lat, lon float64) (*models.ForecastResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	k := key(lat, lon)
	if err, ok := f.failFor[k]; ok {
		return nil, err
	}
	return f.payloads[k], nil
}

type fakeHistory struct {
	mu      sync.Mutex
	recent  []models.City
	saved   []models.City
	loadErr error
}

func (f *fakeHistory) LoadRecent() ([]models.City, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]models.City(nil), f.recent...), nil
}

func (f *fakeHistory) Save(city models.City) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, city)
	return nil
}

func payloadWithTemp(temp float64, code int) *models.ForecastResponse {
	return &models.ForecastResponse{
		Current: &models.ForecastCurrent{
			Time:        "2024-03-10T14:00",
			Temperature: &temp,
			WeatherCode: &code,
		},
	}
}

func TestRefreshSnapshots_UpdatesEveryCity(t *testing.T) {
	fetcher := &fakeFetcher{payloads: map[string]*models.ForecastResponse{
		"51.5_-0.12": payloadWithTemp(11.5, 3),
		"48.85_2.35": payloadWithTemp(14.0, 0),
	}}
	history := &fakeHistory{recent: []models.City{
		{Name: "London", Latitude: 51.5, Longitude: -0.12},
		{Name: "Paris", Latitude: 48.85, Longitude: 2.35},
	}}
	cfg := &config.SchedulerConfig{Enabled: true, RefreshIntervalMinutes: 30}

	NewScheduler(cfg, fetcher, history).RefreshSnapshots()

	require.Len(t, history.saved, 2)
	require.NotNil(t, history.saved[0].LastKnownTemp)
	assert.Equal(t, 11.5, *history.saved[0].LastKnownTemp)
	assert.Equal(t, 3, *history.saved[0].LastKnownWeatherCode)
	assert.Equal(t, 14.0, *history.saved[1].LastKnownTemp)
}

func TestRefreshSnapshots_SkipsFailedCity(t *testing.T) {
	fetcher := &fakeFetcher{
		payloads: map[string]*models.ForecastResponse{
			"48.85_2.35": payloadWithTemp(14.0, 0),
		},
		failFor: map[string]error{
			"51.5_-0.12": apperrors.NewNetworkError("failed to reach weather provider", nil),
		},
	}
	history := &fakeHistory{recent: []models.City{
		{Name: "London", Latitude: 51.5, Longitude: -0.12},
		{Name: "Paris", Latitude: 48.85, Longitude: 2.35},
	}}
	cfg := &config.SchedulerConfig{Enabled: true, RefreshIntervalMinutes: 30}

	NewScheduler(cfg, fetcher, history).RefreshSnapshots()

	require.Len(t, history.saved, 1)
	assert.Equal(t, "Paris", history.saved[0].Name)
	assert.Equal(t, 2, fetcher.calls)
}

func TestRefreshSnapshots_LoadFailureIsNonFatal(t *testing.T) {
	fetcher := &fakeFetcher{}
	history := &fakeHistory{loadErr: apperrors.NewDatabaseError("load failed", nil)}
	cfg := &config.SchedulerConfig{Enabled: true, RefreshIntervalMinutes: 30}

	NewScheduler(cfg, fetcher, history).RefreshSnapshots()

	assert.Zero(t, fetcher.calls)
	assert.Empty(t, history.saved)
}

func TestStart_DisabledDoesNothing(t *testing.T) {
	fetcher := &fakeFetcher{}
	history := &fakeHistory{recent: []models.City{{Name: "London", Latitude: 51.5}}}
	cfg := &config.SchedulerConfig{Enabled: false, RefreshIntervalMinutes: 30}

	s := NewScheduler(cfg, fetcher, history)
	s.Start()
	s.Stop()

	assert.Zero(t, fetcher.calls)
}

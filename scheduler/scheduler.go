// Package scheduler implements background refresh of cached weather snapshots
package scheduler

import (
	"context"
	"log"
	"time"

	"cityweather.app/config"
	"cityweather.app/mapper"
	"cityweather.app/providers"
	"cityweather.app/service"
)

// Scheduler periodically refreshes the last-known weather snapshot of every
// city in the history so offline display stays reasonably fresh.
type Scheduler struct {
	config  *config.SchedulerConfig
	fetcher providers.ForecastFetcher
	history service.CityHistoryInterface
	stopCh  chan struct{}
}

// NewScheduler creates and configures a new snapshot refresher
func NewScheduler(config *config.SchedulerConfig, fetcher providers.ForecastFetcher, history service.CityHistoryInterface) *Scheduler {
	return &Scheduler{
		config:  config,
		fetcher: fetcher,
		history: history,
		stopCh:  make(chan struct{}),
	}
}

// Start begins the scheduler's operations
func (s *Scheduler) Start() {
	if !s.config.Enabled {
		log.Println("[DEBUG] Snapshot refresher disabled")
		return
	}

	interval := time.Duration(s.config.RefreshIntervalMinutes) * time.Minute
	go s.scheduleInterval(interval, s.RefreshSnapshots)
}

// Stop terminates the scheduler
func (s *Scheduler) Stop() {
	close(s.stopCh)
}

func (s *Scheduler) scheduleInterval(interval time.Duration, task func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			task()
		case <-s.stopCh:
			return
		}
	}
}

// RefreshSnapshots reloads the history and refreshes each city's last-known
// weather fields. Individual failures are logged and skipped; one bad city
// must not block the rest.
func (s *Scheduler) RefreshSnapshots() {
	cities, err := s.history.LoadRecent()
	if err != nil {
		log.Printf("[ERROR] Snapshot refresh: failed to load recent cities: %v\n", err)
		return
	}

	log.Printf("[DEBUG] Refreshing snapshots for %d cities\n", len(cities))

	for _, city := range cities {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		payload, err := s.fetcher.FetchForecast(ctx, city.Latitude, city.Longitude)
		cancel()
		if err != nil {
			log.Printf("[ERROR] Snapshot refresh failed for %s: %v\n", city.Name, err)
			continue
		}

		weather := mapper.Map(city, payload)
		temp := weather.Current.Temperature
		code := weather.Current.WeatherCode
		city.LastKnownTemp = &temp
		city.LastKnownWeatherCode = &code

		if err := s.history.Save(city); err != nil {
			log.Printf("[ERROR] Snapshot save failed for %s: %v\n", city.Name, err)
		}
	}
}

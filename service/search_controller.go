package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cityweather.app/errors"
	"cityweather.app/models"
	"cityweather.app/providers"
)

// SearchState is a consistent snapshot of the controller's derived state.
type SearchState struct {
	Query        string
	Results      []models.City
	RecentCities []models.City
	IsLoading    bool
	ErrorMessage string
}

// SearchController owns the live query string, debounces it, and cancels
// superseded in-flight searches. Every query change bumps a generation
// counter and cancels the previous debounce/search; an async result is only
// committed if its generation is still current, so a slow stale search can
// never overwrite state for a newer query.
type SearchController struct {
	searcher providers.CitySearcher
	history  CityHistoryInterface
	debounce time.Duration

	mu         sync.Mutex
	query      string
	generation uint64
	cancel     context.CancelFunc
	results    []models.City
	recent     []models.City
	loading    bool
	errMsg     string
}

// NewSearchController creates a controller over the given searcher and
// history store.
func NewSearchController(searcher providers.CitySearcher, history CityHistoryInterface, debounce time.Duration) *SearchController {
	return &SearchController{
		searcher: searcher,
		history:  history,
		debounce: debounce,
	}
}

// SetQuery replaces the live query. Any pending debounce timer and in-flight
// search are cancelled first. An empty query clears results immediately and
// issues no request.
func (c *SearchController) SetQuery(query string) {
	c.mu.Lock()

	c.query = query
	c.generation++
	generation := c.generation

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if query == "" {
		c.results = nil
		c.errMsg = ""
		c.loading = false
		c.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	go c.debounceAndSearch(ctx, generation, query)
}

// debounceAndSearch waits out the debounce interval and then performs the
// search, unless the context was cancelled by a newer query in the meantime.
func (c *SearchController) debounceAndSearch(ctx context.Context, generation uint64, query string) {
	timer := time.NewTimer(c.debounce)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	results, err := c.searcher.SearchCities(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer query owns the state now; drop this result on the floor.
	if generation != c.generation {
		return
	}

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.errMsg = errors.UserMessage(err)
	} else {
		c.results = results
	}
	c.loading = false
}

// SelectCity persists the chosen city and refreshes the recent-cities view.
// History writes are best-effort; a failed save never interrupts selection.
func (c *SearchController) SelectCity(city models.City) {
	if err := c.history.Save(city); err != nil {
		slog.Warn("Failed to save city to history", "city", city.Name, "error", err)
	}
	c.LoadHistory()
}

// LoadHistory refreshes the recent-cities list from the store.
func (c *SearchController) LoadHistory() {
	recent, err := c.history.LoadRecent()
	if err != nil {
		slog.Warn("Failed to load recent cities", "error", err)
		return
	}

	c.mu.Lock()
	c.recent = recent
	c.mu.Unlock()
}

// State returns a snapshot of the controller state.
func (c *SearchController) State() SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return SearchState{
		Query:        c.query,
		Results:      append([]models.City(nil), c.results...),
		RecentCities: append([]models.City(nil), c.recent...),
		IsLoading:    c.loading,
		ErrorMessage: c.errMsg,
	}
}

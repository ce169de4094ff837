package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "cityweather.app/errors"
	"cityweather.app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 20 * time.Millisecond

// fakeSearcher records every query it is asked for and can block until
// released to simulate a slow provider.
type fakeSearcher struct {
	mu       sync.Mutex
	queries  []string
	calls    int32
	failWith error
	blockCh  chan struct{}
}

func (f *fakeSearcher) SearchCities(ctx context.Context, query string) ([]models.City, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.queries = append(f.queries, query)
	blockCh := f.blockCh
	f.mu.Unlock()

	if blockCh != nil {
		select {
		case <-blockCh:
		case <-ctx.Done():
			return nil, apperrors.NewNetworkError("request canceled", ctx.Err())
		}
	}

	if f.failWith != nil {
		return nil, f.failWith
	}
	return []models.City{{ID: 1, Name: query, Country: "Unknown", Latitude: 1, Longitude: 2}}, nil
}

func (f *fakeSearcher) callCount() int32 {
	return atomic.LoadInt32(&f.calls)
}

func (f *fakeSearcher) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

type fakeHistory struct {
	mu      sync.Mutex
	saved   []models.City
	recent  []models.City
	loadErr error
	saveErr error
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
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, city)
	f.recent = append([]models.City{city}, f.recent...)
	return nil
}

func (f *fakeHistory) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func TestSearchController_EmptyQueryIssuesNoRequest(t *testing.T) {
	searcher := &fakeSearcher{}
	controller := NewSearchController(searcher, &fakeHistory{}, testDebounce)

	controller.SetQuery("")
	time.Sleep(3 * testDebounce)

	state := controller.State()
	assert.Empty(t, state.Results)
	assert.False(t, state.IsLoading)
	assert.Equal(t, int32(0), searcher.callCount())
}

func TestSearchController_ClearingQueryClearsResultsImmediately(t *testing.T) {
	searcher := &fakeSearcher{}
	controller := NewSearchController(searcher, &fakeHistory{}, testDebounce)

	controller.SetQuery("London")
	require.Eventually(t, func() bool {
		return len(controller.State().Results) == 1
	}, time.Second, 5*time.Millisecond)

	controller.SetQuery("")

	state := controller.State()
	assert.Empty(t, state.Results)
	assert.Equal(t, int32(1), searcher.callCount())
}

// Rapid edits within the debounce window issue exactly one request, for the
// final query value.
func TestSearchController_DebouncesRapidEdits(t *testing.T) {
	searcher := &fakeSearcher{}
	controller := NewSearchController(searcher, &fakeHistory{}, testDebounce)

	controller.SetQuery("L")
	controller.SetQuery("Lo")
	controller.SetQuery("Lon")

	require.Eventually(t, func() bool {
		return len(controller.State().Results) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, int32(1), searcher.callCount())
	assert.Equal(t, "Lon", searcher.lastQuery())
	assert.Equal(t, "Lon", controller.State().Results[0].Name)
}

// A superseded slow search must never overwrite state for a newer query,
// even if it eventually completes.
func TestSearchController_StaleResultNeverCommits(t *testing.T) {
	blockCh := make(chan struct{})
	searcher := &fakeSearcher{blockCh: blockCh}
	controller := NewSearchController(searcher, &fakeHistory{}, testDebounce)

	controller.SetQuery("Berlin")
	require.Eventually(t, func() bool {
		return searcher.callCount() == 1
	}, time.Second, 5*time.Millisecond)

	// Supersede while the first request is still in flight, then let
	// everything finish.
	controller.SetQuery("Paris")
	close(blockCh)

	require.Eventually(t, func() bool {
		state := controller.State()
		return len(state.Results) == 1 && state.Results[0].Name == "Paris"
	}, time.Second, 5*time.Millisecond)

	// Give the stale goroutine a chance to (incorrectly) commit.
	time.Sleep(3 * testDebounce)
	assert.Equal(t, "Paris", controller.State().Results[0].Name)
}

func TestSearchController_SearchErrorSetsMessage(t *testing.T) {
	searcher := &fakeSearcher{failWith: apperrors.NewServerError("weather provider returned status code 500")}
	controller := NewSearchController(searcher, &fakeHistory{}, testDebounce)

	controller.SetQuery("London")

	require.Eventually(t, func() bool {
		return controller.State().ErrorMessage != ""
	}, time.Second, 5*time.Millisecond)

	state := controller.State()
	assert.Contains(t, state.ErrorMessage, "Server:")
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Results)
}

func TestSearchController_SelectCityPersistsAndRefreshesHistory(t *testing.T) {
	history := &fakeHistory{}
	controller := NewSearchController(&fakeSearcher{}, history, testDebounce)

	city := models.City{ID: 1, Name: "London", Country: "United Kingdom", Latitude: 51.5, Longitude: -0.12}
	controller.SelectCity(city)

	assert.Equal(t, 1, history.savedCount())
	state := controller.State()
	require.Len(t, state.RecentCities, 1)
	assert.Equal(t, "London", state.RecentCities[0].Name)
}

func TestSearchController_SelectCitySurvivesSaveFailure(t *testing.T) {
	history := &fakeHistory{saveErr: apperrors.NewDatabaseError("disk full", nil)}
	controller := NewSearchController(&fakeSearcher{}, history, testDebounce)

	assert.NotPanics(t, func() {
		controller.SelectCity(models.City{Name: "London", Latitude: 51.5, Longitude: -0.12})
	})
}

func TestSearchController_LoadHistoryKeepsStateOnError(t *testing.T) {
	history := &fakeHistory{recent: []models.City{{Name: "Paris"}}}
	controller := NewSearchController(&fakeSearcher{}, history, testDebounce)
	controller.LoadHistory()

	history.mu.Lock()
	history.loadErr = apperrors.NewDatabaseError("gone", nil)
	history.mu.Unlock()
	controller.LoadHistory()

	state := controller.State()
	require.Len(t, state.RecentCities, 1)
	assert.Equal(t, "Paris", state.RecentCities[0].Name)
}

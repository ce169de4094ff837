package app

import (
	"fmt"
	"log/slog"

	"cityweather.app/api"
	"cityweather.app/config"
	"cityweather.app/database"
	"cityweather.app/metrics"
	"cityweather.app/pkg/logger"
	"cityweather.app/providers"
	"cityweather.app/providers/cache"
	"cityweather.app/repository"
	"cityweather.app/scheduler"
	"cityweather.app/service"
	"gorm.io/gorm"
)

// Application represents the main application with all its dependencies
type Application struct {
	config    *config.Config
	db        *gorm.DB
	server    *api.Server
	scheduler *scheduler.Scheduler
	search    *service.SearchController
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	app := &Application{}

	if err := app.loadConfiguration(); err != nil {
		return nil, err
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, err
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) loadConfiguration() error {
	slog.Info("Loading configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("load application configuration: %w", err)
	}

	app.config = cfg

	logger.NewWithLevel(logger.ParseLevel(cfg.Server.LogLevel)).Install()

	slog.Info("Configuration loaded successfully")
	return nil
}

func (app *Application) initializeDatabase() error {
	slog.Info("Initializing database...")

	db, err := database.InitDB(app.config.Database)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return fmt.Errorf("initialize database connection: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		return fmt.Errorf("run database migrations: %w", err)
	}

	app.db = db
	slog.Info("Database initialized successfully")
	return nil
}

func (app *Application) initializeServices() error {
	slog.Info("Initializing services...")

	provider, err := app.createProvider()
	if err != nil {
		return fmt.Errorf("create weather provider: %w", err)
	}

	cityRepo := repository.NewCityRepository(app.db)

	app.server = api.NewServer(app.config, provider, cityRepo)
	app.scheduler = scheduler.NewScheduler(&app.config.Scheduler, provider, cityRepo)
	app.search = service.NewSearchController(provider, cityRepo, app.config.Search.Debounce())

	slog.Info("Services initialized successfully")
	return nil
}

// createProvider builds the decorated provider stack: the bare Open-Meteo
// client wrapped with rate limiting, logging, and forecast payload caching.
func (app *Application) createProvider() (providers.WeatherProvider, error) {
	slog.Debug("Creating weather provider...")

	var provider providers.WeatherProvider = providers.NewOpenMeteoProvider(&app.config.Provider)

	if app.config.Provider.RateLimitRPS > 0 {
		provider = providers.NewRateLimitedProvider(
			provider,
			app.config.Provider.RateLimitRPS,
			app.config.Provider.RateLimitBurst,
		)
	}

	provider = providers.NewLoggingProvider(provider, "openmeteo")

	forecastCache, err := cache.NewFromConfig(&app.config.Cache)
	if err != nil {
		return nil, err
	}
	if forecastCache != nil {
		cacheMetrics := metrics.NewCacheMetrics(app.config.Cache.Type)
		fetcher := providers.NewForecastCacheProxy(provider, forecastCache, app.config.Cache.TTL(), cacheMetrics)
		provider = providers.Compose(provider, fetcher)
	}

	return provider, nil
}

// Start starts the application
func (app *Application) Start() error {
	slog.Info("Starting application...")

	slog.Info("Starting snapshot refresher...")
	app.scheduler.Start()

	slog.Info("Starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	slog.Info("Shutting down application...")

	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.db != nil {
		if err := database.CloseDB(app.db); err != nil {
			slog.Warn("Error closing database", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (app *Application) Config() *config.Config {
	return app.config
}

// SearchController returns the debounced city search controller for an
// embedding presentation layer.
func (app *Application) SearchController() *service.SearchController {
	return app.search
}

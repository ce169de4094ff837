package config

import (
	"fmt"
	"strings"
	"time"

	"cityweather.app/errors"
	"github.com/kelseyhightower/envconfig"
)

// Config represents the application configuration structure
type Config struct {
	Server    ServerConfig    `split_words:"true"`
	Database  DatabaseConfig  `split_words:"true"`
	Provider  ProviderConfig  `split_words:"true"`
	Cache     CacheConfig     `split_words:"true"`
	Search    SearchConfig    `split_words:"true"`
	Scheduler SchedulerConfig `split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port     int    `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// DatabaseConfig contains settings for the city history store. SQLite is the
// default since the store is a local single-client cache; Postgres is
// available for shared deployments.
type DatabaseConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
	Path     string `envconfig:"DB_PATH" default:"cityweather.db"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"cityweather"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

// GetDSN returns a formatted Postgres connection string
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// ProviderConfig contains settings for the Open-Meteo endpoints
type ProviderConfig struct {
	GeocodingBaseURL string  `envconfig:"GEOCODING_BASE_URL" default:"https://geocoding-api.open-meteo.com/v1/search"`
	ForecastBaseURL  string  `envconfig:"FORECAST_BASE_URL" default:"https://api.open-meteo.com/v1/forecast"`
	TimeoutSeconds   int     `envconfig:"PROVIDER_TIMEOUT_SECONDS" default:"10"`
	ForecastDays     int     `envconfig:"FORECAST_DAYS" default:"7"`
	SearchCount      int     `envconfig:"SEARCH_RESULT_COUNT" default:"10"`
	RateLimitRPS     float64 `envconfig:"PROVIDER_RATE_LIMIT_RPS" default:"0"`
	RateLimitBurst   int     `envconfig:"PROVIDER_RATE_LIMIT_BURST" default:"1"`
}

// Timeout returns the provider HTTP client timeout
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// CacheConfig contains settings for the forecast payload cache
type CacheConfig struct {
	Type              string `envconfig:"CACHE_TYPE" default:"memory"`
	TTLMinutes        int    `envconfig:"CACHE_TTL_MINUTES" default:"10"`
	RedisAddr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword     string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB           int    `envconfig:"REDIS_DB" default:"0"`
	RedisDialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT_SECONDS" default:"5"`
	RedisReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT_SECONDS" default:"3"`
	RedisWriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT_SECONDS" default:"3"`
}

// TTL returns the cache entry lifetime
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// SearchConfig contains settings for the interactive search controller
type SearchConfig struct {
	DebounceMillis int `envconfig:"SEARCH_DEBOUNCE_MS" default:"500"`
}

// Debounce returns the search debounce interval
func (s SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

// SchedulerConfig contains settings for the background snapshot refresher
type SchedulerConfig struct {
	Enabled                bool `envconfig:"REFRESH_ENABLED" default:"true"`
	RefreshIntervalMinutes int  `envconfig:"REFRESH_INTERVAL" default:"30"`
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Provider.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if err := c.Scheduler.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewConfigurationError("LOG_LEVEL must be one of: debug, info, warn, error", nil)
	}
	return nil
}

// Validate checks database configuration
func (d *DatabaseConfig) Validate() error {
	switch d.Driver {
	case "sqlite":
		if d.Path == "" {
			return errors.NewConfigurationError("DB_PATH cannot be empty for the sqlite driver", nil)
		}
	case "postgres":
		if d.Host == "" {
			return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
		}
		if d.Port < 1 || d.Port > 65535 {
			return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
		}
		if d.User == "" {
			return errors.NewConfigurationError("DB_USER cannot be empty", nil)
		}
		if d.Name == "" {
			return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
		}
		if err := d.validateSSLMode(); err != nil {
			return err
		}
	default:
		return errors.NewConfigurationError("DB_DRIVER must be one of: sqlite, postgres", nil)
	}
	return nil
}

func (d *DatabaseConfig) validateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

// Validate checks provider configuration
func (p *ProviderConfig) Validate() error {
	if err := validateBaseURL("GEOCODING_BASE_URL", p.GeocodingBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("FORECAST_BASE_URL", p.ForecastBaseURL); err != nil {
		return err
	}
	if p.TimeoutSeconds < 1 {
		return errors.NewConfigurationError("PROVIDER_TIMEOUT_SECONDS must be at least 1", nil)
	}
	if p.ForecastDays < 1 || p.ForecastDays > 16 {
		return errors.NewConfigurationError("FORECAST_DAYS must be between 1 and 16", nil)
	}
	if p.SearchCount < 1 || p.SearchCount > 100 {
		return errors.NewConfigurationError("SEARCH_RESULT_COUNT must be between 1 and 100", nil)
	}
	if p.RateLimitRPS < 0 {
		return errors.NewConfigurationError("PROVIDER_RATE_LIMIT_RPS cannot be negative", nil)
	}
	if p.RateLimitBurst < 1 {
		return errors.NewConfigurationError("PROVIDER_RATE_LIMIT_BURST must be at least 1", nil)
	}
	return nil
}

func validateBaseURL(name, value string) error {
	if value == "" {
		return errors.NewConfigurationError(name+" cannot be empty", nil)
	}
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return errors.NewConfigurationError(name+" must start with http:// or https://", nil)
	}
	return nil
}

// Validate checks cache configuration
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "none", "memory":
	case "redis":
		if c.RedisAddr == "" {
			return errors.NewConfigurationError("REDIS_ADDR cannot be empty", nil)
		}
	default:
		return errors.NewConfigurationError("CACHE_TYPE must be one of: none, memory, redis", nil)
	}
	if c.TTLMinutes < 1 {
		return errors.NewConfigurationError("CACHE_TTL_MINUTES must be at least 1", nil)
	}
	return nil
}

// Validate checks search configuration
func (s *SearchConfig) Validate() error {
	if s.DebounceMillis < 1 {
		return errors.NewConfigurationError("SEARCH_DEBOUNCE_MS must be at least 1", nil)
	}
	return nil
}

// Validate checks scheduler configuration
func (s *SchedulerConfig) Validate() error {
	if s.RefreshIntervalMinutes < 1 {
		return errors.NewConfigurationError("REFRESH_INTERVAL must be at least 1 minute", nil)
	}
	if s.RefreshIntervalMinutes > 1440 {
		return errors.NewConfigurationError("REFRESH_INTERVAL cannot exceed 1440 minutes (24 hours)", nil)
	}
	return nil
}

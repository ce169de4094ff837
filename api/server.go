package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"cityweather.app/config"
	weathererr "cityweather.app/errors"
	"cityweather.app/mapper"
	"cityweather.app/models"
	"cityweather.app/providers"
	"cityweather.app/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server and API handler
type Server struct {
	router   *gin.Engine
	config   *config.Config
	provider providers.WeatherProvider
	history  service.CityHistoryInterface
}

// NewServer creates and configures a new HTTP server
func NewServer(
	config *config.Config,
	provider providers.WeatherProvider,
	history service.CityHistoryInterface,
) *Server {
	router := gin.Default()
	router.Use(requestIDMiddleware())

	server := &Server{
		router:   router,
		config:   config,
		provider: provider,
		history:  history,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/cities/search", s.searchCities)
		api.GET("/cities/recent", s.recentCities)
		api.POST("/cities/select", s.selectCity)
		api.POST("/weather", s.getWeather)
	}

	s.router.GET("/health", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// requestIDMiddleware tags every request with an id for log correlation
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

func (s *Server) searchCities(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		s.handleError(c, weathererr.NewValidationError("q parameter is required"))
		return
	}

	slog.Debug("Searching cities", "query", query)
	cities, err := s.provider.SearchCities(c.Request.Context(), query)
	if err != nil {
		slog.Error("City search error", "error", err, "query", query)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": cities})
}

func (s *Server) recentCities(c *gin.Context) {
	cities, err := s.history.LoadRecent()
	if err != nil {
		slog.Error("Recent cities error", "error", err)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

func (s *Server) selectCity(c *gin.Context) {
	var city models.City
	if err := c.ShouldBindJSON(&city); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, weathererr.NewValidationError("invalid request format"))
		return
	}

	if err := s.history.Save(city); err != nil {
		slog.Error("City save error", "error", err, "city", city.Name)
		s.handleError(c, err)
		return
	}

	cities, err := s.history.LoadRecent()
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

// getWeather loads and maps the forecast for a city supplied in the request
// body, then persists the last-known snapshot. History write failures are
// logged and ignored.
func (s *Server) getWeather(c *gin.Context) {
	var city models.City
	if err := c.ShouldBindJSON(&city); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, weathererr.NewValidationError("invalid request format"))
		return
	}

	slog.Debug("Getting weather", "city", city.Name, "lat", city.Latitude, "lon", city.Longitude)
	payload, err := s.provider.FetchForecast(c.Request.Context(), city.Latitude, city.Longitude)
	if err != nil {
		slog.Error("Forecast fetch error", "error", err, "city", city.Name)
		s.handleError(c, err)
		return
	}

	weather := mapper.Map(city, payload)

	temp := weather.Current.Temperature
	code := weather.Current.WeatherCode
	city.LastKnownTemp = &temp
	city.LastKnownWeatherCode = &code
	if err := s.history.Save(city); err != nil {
		slog.Warn("Failed to save weather snapshot", "city", city.Name, "error", err)
	}

	c.JSON(http.StatusOK, weather)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleError maps an application error onto an HTTP status and body
func (s *Server) handleError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	if appErr, ok := err.(*weathererr.AppError); ok {
		switch appErr.Type {
		case weathererr.ValidationError, weathererr.InvalidRequestError:
			status = http.StatusBadRequest
		case weathererr.NetworkError, weathererr.ServerError:
			status = http.StatusBadGateway
		case weathererr.DecodingError:
			status = http.StatusBadGateway
		case weathererr.DatabaseError:
			status = http.StatusInternalServerError
		}
	}

	c.JSON(status, models.ErrorResponse{Error: weathererr.UserMessage(err)})
}

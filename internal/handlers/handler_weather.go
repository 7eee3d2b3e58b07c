package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skyrates/skyrates_backend/internal/apperrors"
	portssvc "github.com/skyrates/skyrates_backend/internal/core/ports/services"
	"github.com/skyrates/skyrates_backend/internal/metrics"
	"github.com/skyrates/skyrates_backend/internal/middleware"
)

// weatherHandler handles HTTP requests for weather data.
type weatherHandler struct {
	weatherService portssvc.WeatherSvcFacade
	metrics        *metrics.Metrics
}

// newWeatherHandler creates a new weatherHandler.
func newWeatherHandler(ws portssvc.WeatherSvcFacade, m *metrics.Metrics) *weatherHandler {
	return &weatherHandler{
		weatherService: ws,
		metrics:        m,
	}
}

// registerWeatherRoutes registers the weather proxy routes.
func registerWeatherRoutes(rg *gin.RouterGroup, weatherService portssvc.WeatherSvcFacade, m *metrics.Metrics) {
	h := newWeatherHandler(weatherService, m)

	weather := rg.Group("/weather")
	{
		weather.GET("", h.getWeather)
		weather.GET("/cities", h.searchCities)
	}
}

// getWeather godoc
// @Summary Get current weather and forecast
// @Description Returns the current observation and daily forecast for the given coordinates.
// @Tags weather
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Success 200 {object} domain.WeatherReport
// @Failure 400 {object} map[string]string "Invalid coordinates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Weather provider unavailable"
// @Security BearerAuth
// @Router /weather [get]
func (h *weatherHandler) getWeather(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	h.metrics.WeatherRequestsTotal.Inc()

	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameters lat and lon are required"})
		return
	}

	report, err := h.weatherService.GetWeather(c.Request.Context(), lat, lon)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrUpstream):
			logger.Error("Weather provider request failed", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Weather provider is unavailable"})
		default:
			logger.Error("Failed to get weather", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve weather"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// searchCities godoc
// @Summary Search cities
// @Description Returns autocomplete suggestions for a city name query. Queries shorter than two characters return an empty list.
// @Tags weather
// @Produce json
// @Param q query string true "City name query"
// @Success 200 {array} domain.CitySuggestion
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Weather provider unavailable"
// @Security BearerAuth
// @Router /weather/cities [get]
func (h *weatherHandler) searchCities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	suggestions, err := h.weatherService.SearchCities(c.Request.Context(), c.Query("q"))
	if err != nil {
		if errors.Is(err, apperrors.ErrUpstream) {
			logger.Error("City search request failed", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Weather provider is unavailable"})
			return
		}
		logger.Error("Failed to search cities", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search cities"})
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

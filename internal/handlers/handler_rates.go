package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyrates/skyrates_backend/internal/apperrors"
	portssvc "github.com/skyrates/skyrates_backend/internal/core/ports/services"
	"github.com/skyrates/skyrates_backend/internal/dto"
	"github.com/skyrates/skyrates_backend/internal/metrics"
	"github.com/skyrates/skyrates_backend/internal/middleware"
)

// ratesHandler handles HTTP requests for exchange rates and conversion.
type ratesHandler struct {
	ratesService portssvc.RatesSvcFacade
	metrics      *metrics.Metrics
}

// newRatesHandler creates a new ratesHandler.
func newRatesHandler(rs portssvc.RatesSvcFacade, m *metrics.Metrics) *ratesHandler {
	return &ratesHandler{
		ratesService: rs,
		metrics:      m,
	}
}

// registerRatesRoutes registers the premium-gated exchange rate routes.
func registerRatesRoutes(rg *gin.RouterGroup, ratesService portssvc.RatesSvcFacade, userService portssvc.UserSvcFacade, m *metrics.Metrics) {
	h := newRatesHandler(ratesService, m)

	rates := rg.Group("/rates", middleware.RequirePremium(userService))
	{
		rates.GET("", h.getRates)
		rates.POST("/convert", h.convert)
	}
}

// getRates godoc
// @Summary Get the daily exchange rate table
// @Description Returns the selected set of official exchange rates against the base currency. An optional date selects a historical table; an invalid or missing date returns the latest one.
// @Tags rates
// @Produce json
// @Param date query string false "Table date (YYYY-MM-DD)"
// @Success 200 {object} dto.RatesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Premium subscription required"
// @Failure 502 {object} map[string]string "Rate provider unavailable"
// @Security BearerAuth
// @Router /rates [get]
func (h *ratesHandler) getRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	h.metrics.RateRequestsTotal.Inc()

	rateSet, err := h.ratesService.GetRates(c.Request.Context(), c.Query("date"))
	if err != nil {
		if errors.Is(err, apperrors.ErrUpstream) {
			logger.Error("Rate provider request failed", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Exchange rate provider is unavailable"})
			return
		}
		logger.Error("Failed to get rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exchange rates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRatesResponse(rateSet))
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts an amount using the official rates for the requested date. A conversion involving a currency with no published quote returns a null result.
// @Tags rates
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertRatesRequest true "Conversion request"
// @Success 200 {object} dto.ConvertRatesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Premium subscription required"
// @Failure 502 {object} map[string]string "Rate provider unavailable"
// @Security BearerAuth
// @Router /rates/convert [post]
func (h *ratesHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	h.metrics.ConversionRequestsTotal.Inc()

	var req dto.ConvertRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.ratesService.Convert(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrUpstream):
			logger.Error("Rate provider request failed", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Exchange rate provider is unavailable"})
		default:
			logger.Error("Failed to convert amount", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert amount"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

package services

import (
	"context"

	"github.com/skyrates/skyrates_backend/internal/core/domain"
)

// WeatherSvcFacade exposes the weather proxy operations.
type WeatherSvcFacade interface {
	// GetWeather returns the current observation plus daily forecast for a location.
	GetWeather(ctx context.Context, lat, lon float64) (*domain.WeatherReport, error)

	// SearchCities returns autocomplete suggestions for a location query.
	SearchCities(ctx context.Context, query string) ([]domain.CitySuggestion, error)
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/skyrates/skyrates_backend/internal/apperrors"
	"github.com/skyrates/skyrates_backend/internal/core/domain"
	portssvc "github.com/skyrates/skyrates_backend/internal/core/ports/services"
	"github.com/skyrates/skyrates_backend/internal/core/ports/sources"
)

const (
	forecastDays       = 5
	citySearchMinQuery = 2
	citySearchLimit    = 8
)

// WeatherService proxies the weather provider, validating coordinates and
// normalizing search queries. It holds no state.
type WeatherService struct {
	provider sources.WeatherProvider
}

// NewWeatherService creates a new WeatherService.
func NewWeatherService(provider sources.WeatherProvider) *WeatherService {
	return &WeatherService{provider: provider}
}

var _ portssvc.WeatherSvcFacade = (*WeatherService)(nil)

// GetWeather returns the current observation plus daily forecast for a location.
func (s *WeatherService) GetWeather(ctx context.Context, lat, lon float64) (*domain.WeatherReport, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", apperrors.ErrValidation)
	}

	report, err := s.provider.FetchWeather(ctx, lat, lon, forecastDays)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather in service: %w", err)
	}
	return report, nil
}

// SearchCities returns autocomplete suggestions for a location query. Queries
// shorter than two characters return an empty list without hitting the provider.
func (s *WeatherService) SearchCities(ctx context.Context, query string) ([]domain.CitySuggestion, error) {
	query = strings.TrimSpace(query)
	if len(query) < citySearchMinQuery {
		return []domain.CitySuggestion{}, nil
	}

	suggestions, err := s.provider.SearchCities(ctx, query, citySearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search cities in service: %w", err)
	}
	if suggestions == nil {
		suggestions = []domain.CitySuggestion{}
	}
	return suggestions, nil
}

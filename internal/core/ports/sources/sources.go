// Package sources declares the driven ports for the external data providers
// the dashboard proxies: the national-bank rate publisher and the weather API.
package sources

import (
	"context"
	"time"

	"github.com/skyrates/skyrates_backend/internal/core/domain"
)

// RateSource fetches the daily quoted-rate table from the rate publisher.
// A nil date requests the latest published table. The call is atomic: either
// the full quote list is returned or an error wrapping apperrors.ErrUpstream.
// No retries and no caching happen at this layer.
type RateSource interface {
	FetchRates(ctx context.Context, date *time.Time) ([]domain.Quote, error)
}

// WeatherProvider fetches current conditions, forecast and city suggestions.
type WeatherProvider interface {
	FetchWeather(ctx context.Context, lat, lon float64, days int) (*domain.WeatherReport, error)
	SearchCities(ctx context.Context, query string, limit int) ([]domain.CitySuggestion, error)
}

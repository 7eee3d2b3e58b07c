// Package weatherapi is the HTTP adapter for the weather data provider,
// covering current conditions, the daily forecast and location search.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skyrates/skyrates_backend/internal/apperrors"
	"github.com/skyrates/skyrates_backend/internal/core/domain"
	"github.com/skyrates/skyrates_backend/internal/core/ports/sources"
)

const forecastDateLayout = "2006-01-02"

// Client fetches weather data from the provider's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client for the given API base URL and key.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ sources.WeatherProvider = (*Client)(nil)

type apiCondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type forecastResponse struct {
	Location struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	} `json:"location"`
	Current struct {
		TempC            float64      `json:"temp_c"`
		FeelsLikeC       float64      `json:"feelslike_c"`
		Humidity         int          `json:"humidity"`
		PressureMb       float64      `json:"pressure_mb"`
		WindKph          float64      `json:"wind_kph"`
		WindDegree       int          `json:"wind_degree"`
		Condition        apiCondition `json:"condition"`
		LastUpdatedEpoch int64        `json:"last_updated_epoch"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC    float64      `json:"maxtemp_c"`
				MinTempC    float64      `json:"mintemp_c"`
				Condition   apiCondition `json:"condition"`
				MaxWindKph  float64      `json:"maxwind_kph"`
				AvgHumidity float64      `json:"avghumidity"`
			} `json:"day"`
			Astro struct {
				Sunrise string `json:"sunrise"`
				Sunset  string `json:"sunset"`
			} `json:"astro"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// FetchWeather returns the current observation and daily forecast for the
// given coordinates.
func (c *Client) FetchWeather(ctx context.Context, lat, lon float64, days int) (*domain.WeatherReport, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: weather API key is not configured", apperrors.ErrUpstream)
	}

	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("q", fmt.Sprintf("%f,%f", lat, lon))
	query.Set("days", fmt.Sprintf("%d", days))

	var payload forecastResponse
	if err := c.get(ctx, "/forecast.json", query, &payload); err != nil {
		return nil, err
	}

	report := &domain.WeatherReport{
		Current: domain.CurrentWeather{
			City:       payload.Location.Name,
			Country:    payload.Location.Country,
			Latitude:   payload.Location.Lat,
			Longitude:  payload.Location.Lon,
			TempC:      payload.Current.TempC,
			FeelsLikeC: payload.Current.FeelsLikeC,
			Humidity:   payload.Current.Humidity,
			PressureMb: payload.Current.PressureMb,
			WindMps:    payload.Current.WindKph / 3.6,
			WindDeg:    payload.Current.WindDegree,
			Condition:  toCondition(payload.Current.Condition),
			ObservedAt: time.Unix(payload.Current.LastUpdatedEpoch, 0).UTC(),
		},
	}
	for _, fd := range payload.Forecast.ForecastDay {
		date, err := time.Parse(forecastDateLayout, fd.Date)
		if err != nil {
			continue
		}
		report.Forecast = append(report.Forecast, domain.ForecastDay{
			Date:        date,
			MaxTempC:    fd.Day.MaxTempC,
			MinTempC:    fd.Day.MinTempC,
			MaxWindKph:  fd.Day.MaxWindKph,
			AvgHumidity: fd.Day.AvgHumidity,
			Condition:   toCondition(fd.Day.Condition),
			Sunrise:     fd.Astro.Sunrise,
			Sunset:      fd.Astro.Sunset,
		})
	}
	return report, nil
}

type searchRow struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// SearchCities returns up to limit location suggestions for the query.
func (c *Client) SearchCities(ctx context.Context, queryText string, limit int) ([]domain.CitySuggestion, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: weather API key is not configured", apperrors.ErrUpstream)
	}

	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("q", queryText)

	var rows []searchRow
	if err := c.get(ctx, "/search.json", query, &rows); err != nil {
		return nil, err
	}

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	suggestions := make([]domain.CitySuggestion, len(rows))
	for i, row := range rows {
		suggestions[i] = domain.CitySuggestion{
			ID:        row.ID,
			Name:      row.Name,
			Region:    row.Region,
			Country:   row.Country,
			Latitude:  row.Lat,
			Longitude: row.Lon,
		}
	}
	return suggestions, nil
}

// get performs one GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: weather request failed: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var payload apiError
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Error.Message != "" {
			return fmt.Errorf("%w: weather endpoint returned status %d: %s",
				apperrors.ErrUpstream, resp.StatusCode, payload.Error.Message)
		}
		return fmt.Errorf("%w: weather endpoint returned status %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode weather response: %v", apperrors.ErrUpstream, err)
	}
	return nil
}

// toCondition normalizes a provider condition, forcing https icon URLs the
// way the provider's protocol-relative links require.
func toCondition(cond apiCondition) domain.WeatherCondition {
	icon := cond.Icon
	if strings.HasPrefix(icon, "//") {
		icon = "https:" + icon
	}
	return domain.WeatherCondition{
		Code:        cond.Code,
		Description: cond.Text,
		Icon:        icon,
	}
}

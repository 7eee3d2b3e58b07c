package weatherapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skyrates/skyrates_backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleForecastBody = `{
	"location": {"name": "Minsk", "country": "Belarus", "lat": 53.9, "lon": 27.57},
	"current": {
		"temp_c": 4.5, "feelslike_c": 1.2, "humidity": 81, "pressure_mb": 1012,
		"wind_kph": 18, "wind_degree": 250,
		"condition": {"text": "Overcast", "icon": "//cdn.weatherapi.com/weather/64x64/day/122.png", "code": 1009},
		"last_updated_epoch": 1710500400
	},
	"forecast": {"forecastday": [
		{
			"date": "2024-03-15",
			"day": {
				"maxtemp_c": 6.1, "mintemp_c": -1.3, "maxwind_kph": 25, "avghumidity": 77,
				"condition": {"text": "Partly cloudy", "icon": "//cdn.weatherapi.com/weather/64x64/day/116.png", "code": 1003}
			},
			"astro": {"sunrise": "07:04 AM", "sunset": "06:48 PM"}
		}
	]}
}`

func TestFetchWeather_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "5", r.URL.Query().Get("days"))
		assert.Contains(t, r.URL.Query().Get("q"), "53.9")

		w.Write([]byte(sampleForecastBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second)
	report, err := client.FetchWeather(context.Background(), 53.9, 27.57, 5)

	require.NoError(t, err)
	assert.Equal(t, "Minsk", report.Current.City)
	assert.Equal(t, 4.5, report.Current.TempC)
	assert.InDelta(t, 5.0, report.Current.WindMps, 0.01)
	assert.Equal(t, "https://cdn.weatherapi.com/weather/64x64/day/122.png", report.Current.Condition.Icon)
	assert.Equal(t, time.Unix(1710500400, 0).UTC(), report.Current.ObservedAt)

	require.Len(t, report.Forecast, 1)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), report.Forecast[0].Date)
	assert.Equal(t, 6.1, report.Forecast[0].MaxTempC)
	assert.Equal(t, "07:04 AM", report.Forecast[0].Sunrise)
}

func TestFetchWeather_UpstreamErrorMessageSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 1006, "message": "No matching location found."}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second)
	report, err := client.FetchWeather(context.Background(), 0, 0, 5)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Contains(t, err.Error(), "No matching location found.")
}

func TestFetchWeather_MissingAPIKey(t *testing.T) {
	client := NewClient("http://unused", "", time.Second)
	_, err := client.FetchWeather(context.Background(), 53.9, 27.57, 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestSearchCities_LimitsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "min", r.URL.Query().Get("q"))
		w.Write([]byte(`[
			{"id": 1, "name": "Minsk", "region": "Minsk", "country": "Belarus", "lat": 53.9, "lon": 27.57},
			{"id": 2, "name": "Minneapolis", "region": "Minnesota", "country": "USA", "lat": 44.98, "lon": -93.26},
			{"id": 3, "name": "Mina", "region": "", "country": "Saudi Arabia", "lat": 21.41, "lon": 39.89}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second)
	suggestions, err := client.SearchCities(context.Background(), "min", 2)

	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Minsk", suggestions[0].Name)
	assert.Equal(t, "Minneapolis", suggestions[1].Name)
}

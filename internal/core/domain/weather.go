package domain

import "time"

// WeatherCondition describes the sky state reported by the weather provider.
type WeatherCondition struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentWeather is the current observation for one location.
type CurrentWeather struct {
	City       string           `json:"city"`
	Country    string           `json:"country"`
	Latitude   float64          `json:"lat"`
	Longitude  float64          `json:"lon"`
	TempC      float64          `json:"tempC"`
	FeelsLikeC float64          `json:"feelsLikeC"`
	Humidity   int              `json:"humidity"`
	PressureMb float64          `json:"pressureMb"`
	WindMps    float64          `json:"windMps"`
	WindDeg    int              `json:"windDeg"`
	Condition  WeatherCondition `json:"condition"`
	ObservedAt time.Time        `json:"observedAt"`
}

// ForecastDay is a single day of the daily forecast.
type ForecastDay struct {
	Date        time.Time        `json:"date"`
	MaxTempC    float64          `json:"maxTempC"`
	MinTempC    float64          `json:"minTempC"`
	MaxWindKph  float64          `json:"maxWindKph"`
	AvgHumidity float64          `json:"avgHumidity"`
	Condition   WeatherCondition `json:"condition"`
	Sunrise     string           `json:"sunrise"`
	Sunset      string           `json:"sunset"`
}

// WeatherReport bundles the current observation with the daily forecast.
type WeatherReport struct {
	Current  CurrentWeather `json:"current"`
	Forecast []ForecastDay  `json:"forecast"`
}

// CitySuggestion is one autocomplete hit from the provider's location search.
type CitySuggestion struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

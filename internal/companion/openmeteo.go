package companion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

const openMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider reads current conditions from Open-Meteo. No API key is needed.
type OpenMeteoProvider struct {
	baseURL string
	httpCfg HTTPClientConfig
	breaker *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates a provider. An empty baseURL selects the public API.
func NewOpenMeteoProvider(httpCfg HTTPClientConfig, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = openMeteoURL
	}
	return &OpenMeteoProvider{
		baseURL: baseURL,
		httpCfg: httpCfg,
		breaker: newBreaker("openmeteo"),
	}
}

// Name returns "openmeteo".
func (provider *OpenMeteoProvider) Name() string {
	return "openmeteo"
}

// Fetch returns the current temperature in Fahrenheit and a short conditions label.
func (provider *OpenMeteoProvider) Fetch(ctx context.Context, location Location) (Reading, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", location.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", location.Longitude))
		values.Set("current_weather", "true")
		values.Set("temperature_unit", "fahrenheit")
		return http.NewRequestWithContext(ctx, http.MethodGet, provider.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := doRequest(ctx, provider.httpCfg, provider.breaker, buildRequest)
	if err != nil {
		return Reading{}, fmt.Errorf("openmeteo %s: %w", location, err)
	}
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			WeatherCode int     `json:"weathercode"`
			Time        string  `json:"time"`
		} `json:"current_weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Reading{}, fmt.Errorf("decode openmeteo response: %w", err)
	}

	return Reading{
		Provider:     provider.Name(),
		Timestamp:    parseOpenMeteoTime(payload.CurrentWeather.Time),
		TemperatureF: payload.CurrentWeather.Temperature,
		Conditions:   conditionsLabel(payload.CurrentWeather.WeatherCode),
	}, nil
}

// Open-Meteo reports times as local ISO-8601 without seconds or zone unless asked otherwise.
func parseOpenMeteoTime(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC()
		}
	}
	return time.Now().UTC()
}

// conditionsLabel maps a WMO weather code onto the label shown on the watch.
func conditionsLabel(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code >= 1 && code <= 3:
		return "Cloudy"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		return "Rain"
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return "Snow"
	case code >= 95 && code <= 99:
		return "Storm"
	default:
		return "Unknown"
	}
}

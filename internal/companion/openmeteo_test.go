package companion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHTTPConfig(client *http.Client) HTTPClientConfig {
	return HTTPClientConfig{
		Client: client,
		Backoff: BackoffConfig{
			MaxRetries:      2,
			InitialInterval: time.Millisecond,
			MaxInterval:     2 * time.Millisecond,
		},
	}
}

func TestOpenMeteoFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fahrenheit", r.URL.Query().Get("temperature_unit"))
		assert.Equal(t, "true", r.URL.Query().Get("current_weather"))
		assert.Equal(t, "40.712800", r.URL.Query().Get("latitude"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current_weather":{"temperature":71.6,"weathercode":3,"time":"2024-03-14T09:45"}}`))
	}))
	defer server.Close()

	provider := NewOpenMeteoProvider(testHTTPConfig(server.Client()), server.URL)
	reading, err := provider.Fetch(context.Background(), Location{Latitude: 40.7128, Longitude: -74.006})
	require.NoError(t, err)

	assert.Equal(t, "openmeteo", reading.Provider)
	assert.InDelta(t, 71.6, reading.TemperatureF, 0.001)
	assert.Equal(t, "Cloudy", reading.Conditions)
	assert.Equal(t, time.Date(2024, time.March, 14, 9, 45, 0, 0, time.UTC), reading.Timestamp)
}

func TestOpenMeteoRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"current_weather":{"temperature":50,"weathercode":61,"time":"2024-03-14T10:00"}}`))
	}))
	defer server.Close()

	provider := NewOpenMeteoProvider(testHTTPConfig(server.Client()), server.URL)
	reading, err := provider.Fetch(context.Background(), Location{})
	require.NoError(t, err)
	assert.Equal(t, "Rain", reading.Conditions)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenMeteoGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewOpenMeteoProvider(testHTTPConfig(server.Client()), server.URL)
	_, err := provider.Fetch(context.Background(), Location{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errRateLimited)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenMeteoClientErrorIsNotRetriedForever(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	provider := NewOpenMeteoProvider(testHTTPConfig(server.Client()), server.URL)
	_, err := provider.Fetch(context.Background(), Location{})
	assert.ErrorIs(t, err, errUnexpected)
}

func TestDoRequestWithoutClient(t *testing.T) {
	_, err := doRequest(context.Background(), HTTPClientConfig{}, newBreaker("test"), nil)
	assert.ErrorIs(t, err, errNoHTTPClient)
}

func TestConditionsLabel(t *testing.T) {
	cases := map[int]string{
		0:  "Clear",
		2:  "Cloudy",
		45: "Fog",
		53: "Drizzle",
		81: "Rain",
		75: "Snow",
		95: "Storm",
		42: "Unknown",
	}
	for code, want := range cases {
		assert.Equal(t, want, conditionsLabel(code), "code %d", code)
	}
}

func TestStaticProvider(t *testing.T) {
	provider := StaticProvider{Reading: Reading{TemperatureF: 72, Conditions: "Clear"}}
	reading, err := provider.Fetch(context.Background(), Location{})
	require.NoError(t, err)
	assert.Equal(t, "static", reading.Provider)
	assert.False(t, reading.Timestamp.IsZero())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = provider.Fetch(ctx, Location{})
	assert.ErrorIs(t, err, context.Canceled)
}

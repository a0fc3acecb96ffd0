package companion

import (
	"context"
	"fmt"
	"time"
)

// Location is where the companion looks up the weather.
type Location struct {
	Latitude  float64
	Longitude float64
}

// String returns "lat,lon" with four decimals.
func (location Location) String() string {
	return fmt.Sprintf("%.4f,%.4f", location.Latitude, location.Longitude)
}

// Reading is the current weather at a location.
type Reading struct {
	Provider     string
	Timestamp    time.Time
	TemperatureF float64
	Conditions   string
}

// Provider abstracts a weather data source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, location Location) (Reading, error)
}

// StaticProvider always returns the same reading. It backs offline mode.
type StaticProvider struct {
	Reading Reading
}

// Name returns "static".
func (provider StaticProvider) Name() string {
	return "static"
}

// Fetch returns the configured reading stamped with the current time.
func (provider StaticProvider) Fetch(ctx context.Context, _ Location) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	reading := provider.Reading
	reading.Provider = provider.Name()
	reading.Timestamp = time.Now().UTC()
	return reading, nil
}

package preferences

import (
	"watchface/internal/companion"
	"watchface/internal/core/model"
)

// Weather sources selectable in settings.
const (
	ProviderOpenMeteo = "open-meteo"
	ProviderStatic    = "static"
	ProviderBridge    = "bridge"
)

// Settings defines editable user preferences.
type Settings struct {
	Clock24h     bool
	Latitude     float64
	Longitude    float64
	PollMinutes  int
	DateRollover model.DateRollover
	Provider     string
	BridgeAddr   string
	StartAtLogin bool
	// RequestOnStart asks for weather once at startup instead of waiting
	// for the first poll minute.
	RequestOnStart bool
}

// DefaultSettings returns default settings for the watch face.
func DefaultSettings() Settings {
	return Settings{
		Clock24h:     false,
		Latitude:     40.7128,
		Longitude:    -74.0060,
		PollMinutes:  model.DefaultPollMinutes,
		DateRollover: model.RolloverMidnight,
		Provider:     ProviderOpenMeteo,
		BridgeAddr:   "127.0.0.1:8787",
	}
}

// Normalized replaces invalid values with defaults.
func (settings Settings) Normalized() Settings {
	defaults := DefaultSettings()
	face := settings.FaceConfig()
	settings.PollMinutes = face.PollMinutes
	settings.DateRollover = face.Rollover

	if settings.Latitude < -90 || settings.Latitude > 90 || settings.Longitude < -180 || settings.Longitude > 180 {
		settings.Latitude = defaults.Latitude
		settings.Longitude = defaults.Longitude
	}
	switch settings.Provider {
	case ProviderOpenMeteo, ProviderStatic, ProviderBridge:
	default:
		settings.Provider = defaults.Provider
	}
	if settings.BridgeAddr == "" {
		settings.BridgeAddr = defaults.BridgeAddr
	}
	return settings
}

// FaceConfig converts settings to the refresh policy config.
func (settings Settings) FaceConfig() model.FaceConfig {
	return model.FaceConfig{
		PollMinutes: settings.PollMinutes,
		Rollover:    settings.DateRollover,
	}.Normalized()
}

// Location converts settings to the companion lookup location.
func (settings Settings) Location() companion.Location {
	return companion.Location{
		Latitude:  settings.Latitude,
		Longitude: settings.Longitude,
	}
}

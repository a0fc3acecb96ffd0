// Package config layers .env files and WATCHFACE_* environment variables on
// top of the saved settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"watchface/internal/core/model"
	"watchface/internal/ui/preferences"
)

// Environment variables read by Apply.
const (
	EnvLatitude     = "WATCHFACE_LATITUDE"
	EnvLongitude    = "WATCHFACE_LONGITUDE"
	EnvClock24h     = "WATCHFACE_CLOCK_24H"
	EnvPollMinutes  = "WATCHFACE_POLL_MINUTES"
	EnvDateRollover = "WATCHFACE_DATE_ROLLOVER"
	EnvProvider     = "WATCHFACE_PROVIDER"
	EnvBridgeAddr   = "WATCHFACE_BRIDGE_ADDR"
	// EnvRequestOnStart asks for weather right after startup.
	EnvRequestOnStart = "WATCHFACE_REQUEST_ON_START"
)

// LoadDotEnv loads the given .env files, or ./.env when none are named.
// Missing files are not an error. Variables already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Apply overrides settings with any WATCHFACE_* variables that are set.
// Invalid values are reported together and leave the setting unchanged.
func Apply(settings preferences.Settings) (preferences.Settings, error) {
	var errs []error

	if value, ok := lookup(EnvLatitude); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", EnvLatitude, err))
		} else {
			settings.Latitude = parsed
		}
	}
	if value, ok := lookup(EnvLongitude); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", EnvLongitude, err))
		} else {
			settings.Longitude = parsed
		}
	}
	if value, ok := lookup(EnvClock24h); ok {
		if parsed, err := strconv.ParseBool(value); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", EnvClock24h, err))
		} else {
			settings.Clock24h = parsed
		}
	}
	if value, ok := lookup(EnvPollMinutes); ok {
		if parsed, err := strconv.Atoi(value); err != nil || !model.ValidPollMinutes(parsed) {
			errs = append(errs, fmt.Errorf("invalid %s: %q is not a minute count that divides 60", EnvPollMinutes, value))
		} else {
			settings.PollMinutes = parsed
		}
	}
	if value, ok := lookup(EnvDateRollover); ok {
		switch rollover := model.DateRollover(strings.ToLower(value)); rollover {
		case model.RolloverMidnight, model.RolloverDayChange:
			settings.DateRollover = rollover
		default:
			errs = append(errs, fmt.Errorf("invalid %s: %q", EnvDateRollover, value))
		}
	}
	if value, ok := lookup(EnvProvider); ok {
		switch provider := strings.ToLower(value); provider {
		case preferences.ProviderOpenMeteo, preferences.ProviderStatic, preferences.ProviderBridge:
			settings.Provider = provider
		default:
			errs = append(errs, fmt.Errorf("invalid %s: %q", EnvProvider, value))
		}
	}
	if value, ok := lookup(EnvBridgeAddr); ok {
		settings.BridgeAddr = value
	}
	if value, ok := lookup(EnvRequestOnStart); ok {
		if parsed, err := strconv.ParseBool(value); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", EnvRequestOnStart, err))
		} else {
			settings.RequestOnStart = parsed
		}
	}

	return settings.Normalized(), errors.Join(errs...)
}

func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"watchface/internal/core/model"
	"watchface/internal/platform"
	"watchface/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	Clock24h       bool     `yaml:"clock_24h"`
	Latitude       *float64 `yaml:"latitude,omitempty"`
	Longitude      *float64 `yaml:"longitude,omitempty"`
	PollMinutes    int      `yaml:"poll_minutes"`
	DateRollover   string   `yaml:"date_rollover"`
	Provider       string   `yaml:"provider"`
	BridgeAddr     string   `yaml:"bridge_addr"`
	StartAtLogin   bool     `yaml:"start_at_login"`
	RequestOnStart bool     `yaml:"request_on_start"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return loadSettingsFile(configPath)
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return saveSettingsFile(configPath, settings)
}

// SettingsPath returns where settings for appName are stored.
func SettingsPath(appName string) (string, error) {
	configDir, err := platform.NewService().GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func loadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings.Normalized(), nil
}

func saveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		Clock24h:       settings.Clock24h,
		Latitude:       &settings.Latitude,
		Longitude:      &settings.Longitude,
		PollMinutes:    settings.PollMinutes,
		DateRollover:   string(settings.DateRollover),
		Provider:       settings.Provider,
		BridgeAddr:     settings.BridgeAddr,
		StartAtLogin:   settings.StartAtLogin,
		RequestOnStart: settings.RequestOnStart,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.Latitude != nil {
		settings.Latitude = *fileData.Latitude
	}
	if fileData.Longitude != nil {
		settings.Longitude = *fileData.Longitude
	}
	if fileData.PollMinutes > 0 {
		settings.PollMinutes = fileData.PollMinutes
	}
	if fileData.DateRollover != "" {
		settings.DateRollover = model.DateRollover(fileData.DateRollover)
	}
	if fileData.Provider != "" {
		settings.Provider = fileData.Provider
	}
	if fileData.BridgeAddr != "" {
		settings.BridgeAddr = fileData.BridgeAddr
	}

	settings.Clock24h = fileData.Clock24h
	settings.StartAtLogin = fileData.StartAtLogin
	settings.RequestOnStart = fileData.RequestOnStart
}

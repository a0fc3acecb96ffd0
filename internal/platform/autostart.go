package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrAutostartUnsupported is returned where launching at login is not implemented.
var ErrAutostartUnsupported = errors.New("autostart unsupported on this platform")

// LaunchEntry describes how the watch face is started at login.
type LaunchEntry struct {
	Name string
	Exec string
	Args []string
}

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(entry LaunchEntry) error
	DisableAutostart(name string) error
}

type platformService struct {
	configDir string
}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	if service.configDir != "" {
		return service.configDir, nil
	}

	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// SetAutostart registers or removes the running executable as a login item.
func SetAutostart(service Service, name string, enabled bool, args ...string) error {
	if !enabled {
		return service.DisableAutostart(name)
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("enable autostart: resolve executable: %w", err)
	}
	return service.EnableAutostart(LaunchEntry{Name: name, Exec: execPath, Args: args})
}

func (entry LaunchEntry) validate(action string) error {
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("%s autostart: app name is empty", action)
	}
	if entry.Exec == "" {
		return fmt.Errorf("%s autostart: exec path is empty", action)
	}
	return nil
}

func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "watchface"
	}
	return strings.ReplaceAll(name, " ", "-")
}

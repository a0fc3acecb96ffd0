//go:build !linux && !darwin && !windows

package platform

import "path/filepath"

func (service *platformService) EnableAutostart(LaunchEntry) error {
	return ErrAutostartUnsupported
}

func (service *platformService) DisableAutostart(string) error {
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

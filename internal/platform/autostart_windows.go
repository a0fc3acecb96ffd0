//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(entry LaunchEntry) error {
	if err := entry.validate("enable"); err != nil {
		return err
	}

	return runReg("enable", "add", registryRunKey, "/v", entry.Name, "/t", "REG_SZ", "/d", commandLine(entry), "/f")
}

func (service *platformService) DisableAutostart(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	return runReg("disable", "delete", registryRunKey, "/v", name, "/f")
}

func runReg(action string, args ...string) error {
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s autostart: reg %s failed: %w: %s", action, args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func commandLine(entry LaunchEntry) string {
	line := fmt.Sprintf(`"%s"`, strings.Trim(entry.Exec, `"`))
	for _, arg := range entry.Args {
		line += " " + arg
	}
	return line
}

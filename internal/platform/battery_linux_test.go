//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchface/internal/core/model"
	"watchface/internal/core/power"
)

func writeSupply(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for file, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content+"\n"), 0o644))
	}
}

func TestSysfsBatteryCharging(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "AC", map[string]string{"type": "Mains", "online": "1"})
	writeSupply(t, root, "BAT0", map[string]string{"type": "Battery", "capacity": "80", "status": "Charging"})

	charge, err := (&sysfsBattery{root: root}).ChargeState()
	require.NoError(t, err)
	assert.Equal(t, model.ChargeState{Percent: 80, Charging: true}, charge)
}

func TestSysfsBatteryDischarging(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT1", map[string]string{"type": "Battery", "capacity": "47", "status": "Discharging"})

	charge, err := (&sysfsBattery{root: root}).ChargeState()
	require.NoError(t, err)
	assert.Equal(t, model.ChargeState{Percent: 47}, charge)
}

func TestSysfsNoBattery(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "AC", map[string]string{"type": "Mains"})

	_, err := (&sysfsBattery{root: root}).ChargeState()
	assert.ErrorIs(t, err, power.ErrUnsupported)
}

func TestSysfsMissingRoot(t *testing.T) {
	_, err := (&sysfsBattery{root: filepath.Join(t.TempDir(), "absent")}).ChargeState()
	assert.ErrorIs(t, err, power.ErrUnsupported)
}

func TestSysfsBadCapacity(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT0", map[string]string{"type": "Battery", "capacity": "n/a", "status": "Full"})

	_, err := (&sysfsBattery{root: root}).ChargeState()
	require.Error(t, err)
	assert.NotErrorIs(t, err, power.ErrUnsupported)
}

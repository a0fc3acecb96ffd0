//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"watchface/internal/core/model"
	"watchface/internal/core/power"
)

const powerSupplyRoot = "/sys/class/power_supply"

type sysfsBattery struct {
	root string
}

func newBatteryProvider() power.Provider {
	return &sysfsBattery{root: powerSupplyRoot}
}

func (battery *sysfsBattery) ChargeState() (model.ChargeState, error) {
	dir, err := battery.findBattery()
	if err != nil {
		return model.ChargeState{}, err
	}

	capacity, err := readSysfs(filepath.Join(dir, "capacity"))
	if err != nil {
		return model.ChargeState{}, err
	}
	percent, err := strconv.Atoi(capacity)
	if err != nil {
		return model.ChargeState{}, fmt.Errorf("parse battery capacity %q: %w", capacity, err)
	}

	status, err := readSysfs(filepath.Join(dir, "status"))
	if err != nil {
		return model.ChargeState{}, err
	}

	return model.ChargeState{
		Percent:  percent,
		Charging: strings.EqualFold(status, "Charging"),
	}, nil
}

func (battery *sysfsBattery) findBattery() (string, error) {
	entries, err := os.ReadDir(battery.root)
	if err != nil {
		if os.IsNotExist(err) {
			return "", power.ErrUnsupported
		}
		return "", fmt.Errorf("list power supplies: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		dir := filepath.Join(battery.root, name)
		supplyType, err := readSysfs(filepath.Join(dir, "type"))
		if err != nil {
			continue
		}
		if strings.EqualFold(supplyType, "Battery") {
			return dir, nil
		}
	}
	return "", power.ErrUnsupported
}

func readSysfs(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

//go:build !linux

package platform

import (
	"watchface/internal/core/model"
	"watchface/internal/core/power"
)

type unsupportedBattery struct{}

func newBatteryProvider() power.Provider {
	return unsupportedBattery{}
}

func (unsupportedBattery) ChargeState() (model.ChargeState, error) {
	return model.ChargeState{}, power.ErrUnsupported
}

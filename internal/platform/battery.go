package platform

import "watchface/internal/core/power"

// NewBatteryProvider returns a platform-specific battery provider.
func NewBatteryProvider() power.Provider {
	return newBatteryProvider()
}

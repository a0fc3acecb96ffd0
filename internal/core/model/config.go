package model

// DateRollover selects when the displayed date is recomputed.
type DateRollover string

const (
	// RolloverMidnight recomputes only on the first tick and on the exact 00:00:00 tick.
	RolloverMidnight DateRollover = "midnight"
	// RolloverDayChange also recomputes whenever the calendar day differs from the last one formatted.
	RolloverDayChange DateRollover = "day-change"
)

// DefaultPollMinutes is the weather poll period in minutes.
const DefaultPollMinutes = 30

// ValidPollMinutes reports whether minutes gives evenly spaced polls within
// every hour, that is whether it divides 60.
func ValidPollMinutes(minutes int) bool {
	return minutes > 0 && minutes <= 60 && 60%minutes == 0
}

// FaceConfig contains runtime settings for the refresh policy.
type FaceConfig struct {
	// PollMinutes requests weather on ticks where minute%PollMinutes == 0.
	// It must divide 60.
	PollMinutes int
	Rollover    DateRollover
}

// Normalized returns config with out-of-range values replaced by defaults.
func (config FaceConfig) Normalized() FaceConfig {
	if !ValidPollMinutes(config.PollMinutes) {
		config.PollMinutes = DefaultPollMinutes
	}
	if config.Rollover != RolloverDayChange {
		config.Rollover = RolloverMidnight
	}
	return config
}

// ChargeState is a battery reading.
type ChargeState struct {
	Percent  int
	Charging bool
}

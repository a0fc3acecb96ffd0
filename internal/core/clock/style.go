package clock

import "sync/atomic"

// Style holds the 24-hour preference. It is read on every tick, so a change
// shows on the next minute.
type Style struct {
	use24Hour atomic.Bool
}

// NewStyle returns a Style with the given initial preference.
func NewStyle(use24Hour bool) *Style {
	style := &Style{}
	style.use24Hour.Store(use24Hour)
	return style
}

// Is24Hour reports whether times are shown as HH:MM on a 24-hour clock.
func (style *Style) Is24Hour() bool {
	return style.use24Hour.Load()
}

// Set24Hour updates the preference.
func (style *Style) Set24Hour(enabled bool) {
	style.use24Hour.Store(enabled)
}

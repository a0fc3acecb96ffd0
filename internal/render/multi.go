package render

import (
	"errors"

	"watchface/internal/core/face"
)

// Multi forwards every region update to several displays.
type Multi []face.Display

// SetTime sends the time text to every display.
func (multi Multi) SetTime(text string) {
	for _, display := range multi {
		display.SetTime(text)
	}
}

// SetDate sends the date text to every display.
func (multi Multi) SetDate(text string) {
	for _, display := range multi {
		display.SetDate(text)
	}
}

// SetWeather sends the weather text to every display.
func (multi Multi) SetWeather(text string) {
	for _, display := range multi {
		display.SetWeather(text)
	}
}

// SetBattery sends the battery text to every display.
func (multi Multi) SetBattery(text string) {
	for _, display := range multi {
		display.SetBattery(text)
	}
}

// Flush flushes each display that batches updates.
func (multi Multi) Flush() error {
	var errs []error
	for _, display := range multi {
		if flusher, ok := display.(face.Flusher); ok {
			if err := flusher.Flush(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

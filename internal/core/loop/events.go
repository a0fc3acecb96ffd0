package loop

import "time"

// Kind identifies the handler an Event is dispatched to.
type Kind string

const (
	KindTick           Kind = "tick"
	KindBattery        Kind = "battery"
	KindInboxReceived  Kind = "inbox_received"
	KindInboxDropped   Kind = "inbox_dropped"
	KindOutboxSent     Kind = "outbox_sent"
	KindOutboxFailed   Kind = "outbox_failed"
	KindWeatherRequest Kind = "weather_request"
	KindConfigChanged  Kind = "config_changed"
)

// Event is a unit of work delivered to the loop by a producer.
type Event struct {
	Kind    Kind
	At      time.Time
	Payload any
}

// Handler processes a single event. Handlers run to completion on the loop goroutine.
type Handler func(Event)

// Poster accepts events without blocking.
type Poster interface {
	Post(event Event) bool
}

// PosterFunc adapts a function to Poster.
type PosterFunc func(Event) bool

// Post calls fn(event).
func (fn PosterFunc) Post(event Event) bool {
	return fn(event)
}

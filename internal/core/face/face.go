// Package face holds the watch face state and the policy that refreshes it.
//
// Face is driven entirely by the event loop: ticks, inbound messages,
// battery changes and messaging notifications all arrive as loop events and
// run to completion one at a time, so Face needs no locking.
package face

import (
	"fmt"
	"log"
	"time"

	"watchface/internal/appmsg"
	"watchface/internal/core/model"
	"watchface/internal/core/textbuf"
)

// Message keys shared with the companion.
const (
	KeyRequest     appmsg.Key = 0
	KeyTemperature appmsg.Key = 0
	KeyConditions  appmsg.Key = 1
)

// Buffer capacities of the display regions, terminator included.
const (
	TimeSize        = 6
	DateSize        = 32
	TemperatureSize = 8
	ConditionsSize  = 32
	WeatherSize     = 32
	BatterySize     = 16
)

// LoadingText is shown in the weather region until the first reply arrives.
const LoadingText = "Loading..."

const (
	layout24Hour = "15:04"
	layout12Hour = "03:04"
	dateLayout   = "Monday\n01/02/06"
)

// Display is the rendering surface. Each call replaces the text of one region.
type Display interface {
	SetTime(text string)
	SetDate(text string)
	SetWeather(text string)
	SetBattery(text string)
}

// Flusher is implemented by displays that batch region updates.
type Flusher interface {
	Flush() error
}

// Outbox sends messages to the companion.
type Outbox interface {
	Send(dict appmsg.Dict) error
}

// ClockStyle reports the host's time format preference.
type ClockStyle interface {
	Is24Hour() bool
}

// State is everything the face shows.
type State struct {
	Date        textbuf.Buffer
	Time        textbuf.Buffer
	Temperature textbuf.Buffer
	Conditions  textbuf.Buffer
	Weather     textbuf.Buffer
	Battery     textbuf.Buffer

	dateDay int
}

// NewState returns empty buffers sized for each region, with the weather
// region showing LoadingText.
func NewState() State {
	state := State{
		Date:        textbuf.New(DateSize),
		Time:        textbuf.New(TimeSize),
		Temperature: textbuf.New(TemperatureSize),
		Conditions:  textbuf.New(ConditionsSize),
		Weather:     textbuf.New(WeatherSize),
		Battery:     textbuf.New(BatterySize),
	}
	state.Weather.Set(LoadingText)
	return state
}

// Options wires a Face to its collaborators.
type Options struct {
	Config  model.FaceConfig
	Display Display
	Outbox  Outbox
	Style   ClockStyle
	Logger  *log.Logger
}

// Face applies the refresh policy to State and pushes the result to a Display.
type Face struct {
	config  model.FaceConfig
	state   State
	display Display
	outbox  Outbox
	style   ClockStyle
	logger  *log.Logger
	started bool
}

// New creates a Face with fresh state.
func New(options Options) *Face {
	logger := options.Logger
	if logger == nil {
		logger = log.Default()
	}
	display := options.Display
	if display == nil {
		display = nopDisplay{}
	}
	return &Face{
		config:  options.Config.Normalized(),
		state:   NewState(),
		display: display,
		outbox:  options.Outbox,
		style:   options.Style,
		logger:  logger,
	}
}

// Start shows the weather placeholder and runs the first refresh at now.
func (face *Face) Start(now time.Time) {
	face.started = true
	face.display.SetWeather(face.state.Weather.String())
	face.Tick(now)
}

// Tick refreshes the date when needed, always refreshes the time, requests
// weather on poll minutes and pushes time and date to the display.
func (face *Face) Tick(now time.Time) {
	if face.dateDue(now) {
		face.state.Date.Set(now.Format(dateLayout))
		face.state.dateDay = dayKey(now)
	}

	layout := layout12Hour
	if face.style != nil && face.style.Is24Hour() {
		layout = layout24Hour
	}
	face.state.Time.Set(now.Format(layout))

	if now.Minute()%face.config.PollMinutes == 0 {
		_ = face.RequestWeather()
	}

	face.display.SetTime(face.state.Time.String())
	face.display.SetDate(face.state.Date.String())
	face.flush()
}

func (face *Face) dateDue(now time.Time) bool {
	if face.state.Date.Empty() {
		return true
	}
	if now.Hour() == 0 && now.Minute() == 0 && now.Second() == 0 {
		return true
	}
	return face.config.Rollover == model.RolloverDayChange && dayKey(now) != face.state.dateDay
}

func dayKey(now time.Time) int {
	return now.Year()*1000 + now.YearDay()
}

// RequestWeather sends a single refresh request to the companion.
func (face *Face) RequestWeather() error {
	if face.outbox == nil {
		return nil
	}
	var dict appmsg.Dict
	dict.WriteUint8(KeyRequest, 0)
	if err := face.outbox.Send(dict); err != nil {
		face.logger.Printf("outbox: send failed: %v", err)
		return fmt.Errorf("request weather: %w", err)
	}
	return nil
}

// Receive applies an inbound message. Recognized keys overwrite their
// buffer; the weather line is reassembled from both buffers afterwards.
func (face *Face) Receive(dict appmsg.Dict) {
	for _, tuple := range dict.Tuples() {
		switch tuple.Key {
		case KeyTemperature:
			face.state.Temperature.Setf("%dF", tuple.Value.Int())
		case KeyConditions:
			face.state.Conditions.Set(tuple.Value.Text())
		default:
			face.logger.Printf("inbox: key %d not recognized", tuple.Key)
		}
	}

	face.state.Weather.Setf("%s, %s", face.state.Temperature.String(), face.state.Conditions.String())
	face.display.SetWeather(face.state.Weather.String())
	face.flush()
}

// Battery formats charge and pushes it to the display.
func (face *Face) Battery(charge model.ChargeState) {
	if charge.Charging {
		face.state.Battery.Setf("%d%% charged", charge.Percent)
	} else {
		face.state.Battery.Setf("%d%%", charge.Percent)
	}
	face.display.SetBattery(face.state.Battery.String())
	face.flush()
}

// Dropped logs an inbound message the channel could not deliver.
func (face *Face) Dropped(reason appmsg.Result) {
	face.logger.Printf("inbox: message dropped: %s", reason)
}

// SendFailed logs an outbound message the companion did not receive.
func (face *Face) SendFailed(failure appmsg.Failure) {
	face.logger.Printf("outbox: send failed: %s", failure.Reason)
}

// Sent logs a delivered outbound message.
func (face *Face) Sent(dict appmsg.Dict) {
	face.logger.Printf("outbox: send success (%d tuples)", dict.Len())
}

// Configure replaces the runtime config. It takes effect on the next tick.
func (face *Face) Configure(config model.FaceConfig) {
	face.config = config.Normalized()
}

// Config returns the active config.
func (face *Face) Config() model.FaceConfig {
	return face.config
}

// State returns a copy of the current state.
func (face *Face) State() State {
	return face.state
}

func (face *Face) flush() {
	flusher, ok := face.display.(Flusher)
	if !ok {
		return
	}
	if err := flusher.Flush(); err != nil {
		face.logger.Printf("display: flush failed: %v", err)
	}
}

type nopDisplay struct{}

func (nopDisplay) SetTime(string)    {}
func (nopDisplay) SetDate(string)    {}
func (nopDisplay) SetWeather(string) {}
func (nopDisplay) SetBattery(string) {}

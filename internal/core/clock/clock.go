// Package clock delivers minute ticks to the event loop.
package clock

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"watchface/internal/core/loop"
)

// minuteSpec fires at second zero of every minute.
const minuteSpec = "* * * * *"

// Config contains runtime options for Clock.
type Config struct {
	Location *time.Location
	// Now overrides the wall clock, mainly for tests.
	Now func() time.Time
}

// Clock posts a tick event at the top of every minute.
type Clock struct {
	mu        sync.Mutex
	config    Config
	poster    loop.Poster
	scheduler *gocron.Scheduler
	running   bool
	missed    int
}

// New creates a Clock that posts to poster.
func New(config Config, poster loop.Poster) *Clock {
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Clock{config: config, poster: poster}
}

// Now returns the current time in the clock's location.
func (clock *Clock) Now() time.Time {
	return clock.config.Now().In(clock.config.Location)
}

// Start schedules minute ticks and posts one tick for the current time.
func (clock *Clock) Start() error {
	clock.mu.Lock()
	if clock.running {
		clock.mu.Unlock()
		return nil
	}
	scheduler := gocron.NewScheduler(clock.config.Location)
	if _, err := scheduler.Cron(minuteSpec).Do(clock.fire); err != nil {
		clock.mu.Unlock()
		return fmt.Errorf("schedule minute tick: %w", err)
	}
	scheduler.StartAsync()
	clock.scheduler = scheduler
	clock.running = true
	clock.mu.Unlock()

	clock.post(clock.Now())
	return nil
}

// Stop cancels future ticks.
func (clock *Clock) Stop() {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	if !clock.running {
		return
	}
	clock.scheduler.Stop()
	clock.scheduler = nil
	clock.running = false
}

// Missed reports how many ticks the loop rejected.
func (clock *Clock) Missed() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.missed
}

func (clock *Clock) fire() {
	clock.post(TruncateMinute(clock.Now()))
}

func (clock *Clock) post(now time.Time) {
	if clock.poster.Post(loop.Event{Kind: loop.KindTick, At: now, Payload: now}) {
		return
	}
	clock.mu.Lock()
	clock.missed++
	clock.mu.Unlock()
	log.Printf("clock: tick at %s dropped, loop busy", now.Format("15:04:05"))
}

// TruncateMinute drops seconds and below, keeping the wall-clock fields in t's location.
func TruncateMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

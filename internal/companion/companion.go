// Package companion is the phone side of the message pipe: it answers weather
// requests from the watch with the current temperature and conditions.
package companion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"watchface/internal/appmsg"
	"watchface/internal/core/loop"
)

// Keys understood by the companion.
const (
	KeyRequest     appmsg.Key = 0
	KeyTemperature appmsg.Key = 0
	KeyConditions  appmsg.Key = 1
)

// Config contains runtime options for Companion.
type Config struct {
	Location     Location
	FetchTimeout time.Duration
}

// Companion owns the companion endpoint and runs its own event loop.
type Companion struct {
	mu       sync.Mutex
	endpoint *appmsg.Endpoint
	provider Provider
	config   Config
	loop     *loop.Loop
	logger   *log.Logger
	runCtx   context.Context
}

// New creates a Companion answering on endpoint with readings from provider.
func New(endpoint *appmsg.Endpoint, provider Provider, config Config, logger *log.Logger) *Companion {
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	companion := &Companion{
		endpoint: endpoint,
		provider: provider,
		config:   config,
		loop:     loop.New(8),
		logger:   logger,
		runCtx:   context.Background(),
	}
	companion.loop.Handle(loop.KindInboxReceived, func(event loop.Event) {
		dict, ok := event.Payload.(appmsg.Dict)
		if !ok {
			return
		}
		if err := companion.Respond(companion.context(), dict); err != nil {
			companion.logger.Printf("companion: %v", err)
		}
	})
	companion.loop.Handle(loop.KindInboxDropped, func(event loop.Event) {
		companion.logger.Printf("companion: message dropped: %v", event.Payload)
	})
	companion.loop.Handle(loop.KindOutboxFailed, func(event loop.Event) {
		failure, _ := event.Payload.(appmsg.Failure)
		companion.logger.Printf("companion: reply failed: %s", failure.Reason)
	})
	return companion
}

// Open connects the endpoint. Requests that arrive before Run are queued
// and answered once Run starts.
func (companion *Companion) Open() error {
	if err := companion.endpoint.Open(companion.loop); err != nil {
		return fmt.Errorf("companion: %w", err)
	}
	return nil
}

// Run serves requests until ctx is cancelled, opening the endpoint first if
// Open was not called.
func (companion *Companion) Run(ctx context.Context) error {
	companion.mu.Lock()
	companion.runCtx = ctx
	companion.mu.Unlock()

	if !companion.endpoint.IsOpen() {
		if err := companion.Open(); err != nil {
			return err
		}
	}
	defer companion.endpoint.Close()

	err := companion.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// SetLocation changes where subsequent requests look up the weather.
func (companion *Companion) SetLocation(location Location) {
	companion.mu.Lock()
	defer companion.mu.Unlock()
	companion.config.Location = location
}

// Respond answers dict if it is a weather request. Other messages are ignored.
func (companion *Companion) Respond(ctx context.Context, dict appmsg.Dict) error {
	if _, ok := dict.Find(KeyRequest); !ok {
		return nil
	}

	companion.mu.Lock()
	location := companion.config.Location
	timeout := companion.config.FetchTimeout
	companion.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reading, err := companion.provider.Fetch(fetchCtx, location)
	if err != nil {
		return fmt.Errorf("fetch weather from %s: %w", companion.provider.Name(), err)
	}

	if err := companion.endpoint.Send(Reply(reading)); err != nil {
		return fmt.Errorf("send weather reply: %w", err)
	}
	companion.logger.Printf("companion: sent %.0fF %s from %s", reading.TemperatureF, reading.Conditions, reading.Provider)
	return nil
}

// Reply encodes reading as the message the watch expects.
func Reply(reading Reading) appmsg.Dict {
	var dict appmsg.Dict
	dict.WriteInt32(KeyTemperature, int32(math.Round(reading.TemperatureF)))
	dict.WriteCString(KeyConditions, reading.Conditions)
	return dict
}

func (companion *Companion) context() context.Context {
	companion.mu.Lock()
	defer companion.mu.Unlock()
	return companion.runCtx
}

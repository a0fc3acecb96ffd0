// Package power watches the battery and reports changes to the event loop.
package power

import (
	"errors"
	"log"
	"sync"
	"time"

	"watchface/internal/core/loop"
	"watchface/internal/core/model"
)

// ErrUnsupported indicates the host exposes no battery.
var ErrUnsupported = errors.New("battery state unsupported")

// Provider reads the current charge state.
type Provider interface {
	ChargeState() (model.ChargeState, error)
}

// Config contains runtime options for Monitor.
type Config struct {
	PollInterval time.Duration
}

// Monitor polls a Provider and posts a battery event whenever the reading changes.
type Monitor struct {
	mu       sync.Mutex
	provider Provider
	poster   loop.Poster
	config   Config
	last     model.ChargeState
	hasLast  bool
	stopCh   chan struct{}
	running  bool
}

// NewMonitor creates a Monitor.
func NewMonitor(provider Provider, config Config, poster loop.Poster) *Monitor {
	if config.PollInterval <= 0 {
		config.PollInterval = 30 * time.Second
	}
	return &Monitor{
		provider: provider,
		poster:   poster,
		config:   config,
	}
}

// Peek reads the provider synchronously and remembers the reading, so the
// next poll only posts if the state moved on from it.
func (monitor *Monitor) Peek() (model.ChargeState, error) {
	charge, err := monitor.provider.ChargeState()
	if err != nil {
		return model.ChargeState{}, err
	}
	charge = clampPercent(charge)
	monitor.mu.Lock()
	monitor.last = charge
	monitor.hasLast = true
	monitor.mu.Unlock()
	return charge, nil
}

// Start launches the polling loop.
func (monitor *Monitor) Start() {
	monitor.mu.Lock()
	defer monitor.mu.Unlock()
	if monitor.running {
		return
	}
	monitor.running = true
	monitor.stopCh = make(chan struct{})
	go monitor.run(monitor.stopCh)
}

// Stop terminates the polling loop.
func (monitor *Monitor) Stop() {
	monitor.mu.Lock()
	defer monitor.mu.Unlock()
	if !monitor.running {
		return
	}
	close(monitor.stopCh)
	monitor.running = false
}

func (monitor *Monitor) run(stopCh chan struct{}) {
	ticker := time.NewTicker(monitor.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !monitor.poll() {
				return
			}
		}
	}
}

// poll reads the provider once. It returns false when polling should stop.
func (monitor *Monitor) poll() bool {
	charge, err := monitor.provider.ChargeState()
	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			log.Printf("battery: %v, polling stopped", err)
			return false
		}
		log.Printf("battery: %v", err)
		return true
	}
	charge = clampPercent(charge)

	monitor.mu.Lock()
	changed := !monitor.hasLast || charge != monitor.last
	monitor.last = charge
	monitor.hasLast = true
	monitor.mu.Unlock()

	if changed {
		monitor.poster.Post(loop.Event{Kind: loop.KindBattery, At: time.Now(), Payload: charge})
	}
	return true
}

func clampPercent(charge model.ChargeState) model.ChargeState {
	if charge.Percent < 0 {
		charge.Percent = 0
	}
	if charge.Percent > 100 {
		charge.Percent = 100
	}
	return charge
}

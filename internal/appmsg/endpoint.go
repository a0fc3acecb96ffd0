package appmsg

import (
	"errors"
	"sync"
	"time"

	"watchface/internal/core/loop"
)

const (
	// DefaultInboxSize is the largest inbound message the watch accepts.
	DefaultInboxSize = 2026
	// DefaultOutboxSize is the largest outbound message the watch can send.
	DefaultOutboxSize = 656
)

// Config sizes the inbox and outbox of each endpoint.
type Config struct {
	InboxSize  int
	OutboxSize int
}

// DefaultConfig returns the platform maximum sizes.
func DefaultConfig() Config {
	return Config{InboxSize: DefaultInboxSize, OutboxSize: DefaultOutboxSize}
}

// Endpoint is one side of a message pipe. Notifications about received,
// dropped, sent and failed messages are posted to the poster given to Open.
type Endpoint struct {
	mu     sync.Mutex
	name   string
	config Config
	poster loop.Poster
	peer   *Endpoint
}

// NewPipe returns two connected endpoints.
func NewPipe(config Config) (watch *Endpoint, companion *Endpoint) {
	if config.InboxSize <= 0 {
		config.InboxSize = DefaultInboxSize
	}
	if config.OutboxSize <= 0 {
		config.OutboxSize = DefaultOutboxSize
	}
	watch = &Endpoint{name: "watch", config: config}
	companion = &Endpoint{name: "companion", config: config}
	watch.peer = companion
	companion.peer = watch
	return watch, companion
}

// Name returns "watch" or "companion".
func (endpoint *Endpoint) Name() string {
	return endpoint.name
}

// Open starts delivering notifications to poster.
func (endpoint *Endpoint) Open(poster loop.Poster) error {
	if poster == nil {
		return errors.New("open app message: nil poster")
	}
	endpoint.mu.Lock()
	endpoint.poster = poster
	endpoint.mu.Unlock()
	return nil
}

// Close stops notifications. Messages sent to a closed endpoint fail with ResultNotConnected.
func (endpoint *Endpoint) Close() {
	endpoint.mu.Lock()
	endpoint.poster = nil
	endpoint.mu.Unlock()
}

// IsOpen reports whether Open has been called without a later Close.
func (endpoint *Endpoint) IsOpen() bool {
	return endpoint.currentPoster() != nil
}

// Send hands dict to the peer. A nil error means the send was attempted;
// the outcome arrives later as outbox_sent or outbox_failed.
func (endpoint *Endpoint) Send(dict Dict) error {
	poster := endpoint.currentPoster()
	if poster == nil {
		return ErrNotOpen
	}
	if dict.Len() == 0 {
		return ErrEmpty
	}

	now := time.Now()
	sent := NewDict(dict.tuples...)
	if reason := endpoint.deliver(sent, now); reason != ResultOK {
		poster.Post(loop.Event{
			Kind:    loop.KindOutboxFailed,
			At:      now,
			Payload: Failure{Dict: sent, Reason: reason},
		})
		return nil
	}
	poster.Post(loop.Event{
		Kind:    loop.KindOutboxSent,
		At:      now,
		Payload: sent,
	})
	return nil
}

func (endpoint *Endpoint) deliver(dict Dict, now time.Time) Result {
	size := dict.Size()
	if size > endpoint.config.OutboxSize {
		return ResultBufferOverflow
	}

	peerPoster := endpoint.peer.currentPoster()
	if peerPoster == nil {
		return ResultNotConnected
	}
	if size > endpoint.peer.config.InboxSize {
		peerPoster.Post(loop.Event{Kind: loop.KindInboxDropped, At: now, Payload: ResultBufferOverflow})
		return ResultBufferOverflow
	}

	received := NewDict(dict.tuples...)
	if !peerPoster.Post(loop.Event{Kind: loop.KindInboxReceived, At: now, Payload: received}) {
		peerPoster.Post(loop.Event{Kind: loop.KindInboxDropped, At: now, Payload: ResultBusy})
		return ResultBusy
	}
	return ResultOK
}

func (endpoint *Endpoint) currentPoster() loop.Poster {
	endpoint.mu.Lock()
	defer endpoint.mu.Unlock()
	return endpoint.poster
}

package loop

import (
	"context"
	"sync"
	"time"
)

const defaultQueueSize = 32

// Loop dispatches events one at a time to the handler registered for their kind.
type Loop struct {
	mu       sync.Mutex
	handlers map[Kind]Handler
	queue    chan Event
	dropped  int
}

// New creates a loop with a bounded queue.
func New(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Loop{
		handlers: make(map[Kind]Handler),
		queue:    make(chan Event, queueSize),
	}
}

// Handle registers handler for kind, replacing any previous one.
func (loop *Loop) Handle(kind Kind, handler Handler) {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	if handler == nil {
		delete(loop.handlers, kind)
		return
	}
	loop.handlers[kind] = handler
}

// Post enqueues event. It returns false when the queue is full.
func (loop *Loop) Post(event Event) bool {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	select {
	case loop.queue <- event:
		return true
	default:
		loop.mu.Lock()
		loop.dropped++
		loop.mu.Unlock()
		return false
	}
}

// Dropped reports how many events were rejected because the queue was full.
func (loop *Loop) Dropped() int {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	return loop.dropped
}

// Run dispatches queued events until ctx is cancelled.
func (loop *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-loop.queue:
			loop.dispatch(event)
		}
	}
}

// Drain dispatches every event already queued and returns the number handled.
func (loop *Loop) Drain() int {
	handled := 0
	for {
		select {
		case event := <-loop.queue:
			loop.dispatch(event)
			handled++
		default:
			return handled
		}
	}
}

func (loop *Loop) dispatch(event Event) {
	loop.mu.Lock()
	handler := loop.handlers[event.Kind]
	loop.mu.Unlock()
	if handler != nil {
		handler(event)
	}
}

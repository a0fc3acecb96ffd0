// Package bridge exposes the companion end of the message pipe over HTTP so
// an external process can answer the watch instead of the built-in companion.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"watchface/internal/appmsg"
	"watchface/internal/core/loop"
)

// MaxPending is how many undelivered watch messages are kept for GET /outbox.
const MaxPending = 16

// Bridge owns the companion endpoint while it runs.
type Bridge struct {
	endpoint *appmsg.Endpoint
	loop     *loop.Loop
	app      *fiber.App
	logger   *log.Logger

	mu      sync.Mutex
	pending []appmsg.Dict
	dropped int

	// sendMu serialises Send so the synchronous outcome can be read back.
	sendMu sync.Mutex
	result *appmsg.Result
}

// New creates a bridge for the companion endpoint.
func New(endpoint *appmsg.Endpoint, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.Default()
	}
	bridge := &Bridge{
		endpoint: endpoint,
		loop:     loop.New(MaxPending),
		logger:   logger,
	}

	bridge.loop.Handle(loop.KindInboxReceived, func(event loop.Event) {
		if dict, ok := event.Payload.(appmsg.Dict); ok {
			bridge.enqueue(dict)
		}
	})
	bridge.loop.Handle(loop.KindInboxDropped, func(event loop.Event) {
		bridge.logger.Printf("bridge: message dropped: %v", event.Payload)
	})
	bridge.loop.Handle(loop.KindOutboxFailed, func(event loop.Event) {
		failure, _ := event.Payload.(appmsg.Failure)
		bridge.logger.Printf("bridge: send failed: %s", failure.Reason)
	})

	bridge.app = fiber.New(fiber.Config{
		AppName:               "watchface-bridge",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})
	bridge.app.Use(recover.New())
	bridge.routes()
	return bridge
}

// App returns the HTTP handler.
func (bridge *Bridge) App() *fiber.App {
	return bridge.app
}

// Post receives endpoint notifications. Send outcomes are captured for the
// request that caused them before being queued.
func (bridge *Bridge) Post(event loop.Event) bool {
	switch event.Kind {
	case loop.KindOutboxSent:
		bridge.setResult(appmsg.ResultOK)
	case loop.KindOutboxFailed:
		failure, _ := event.Payload.(appmsg.Failure)
		bridge.setResult(failure.Reason)
	}
	return bridge.loop.Post(event)
}

// Open connects the endpoint. Watch messages that arrive before Serve are
// queued for the outbox.
func (bridge *Bridge) Open() error {
	if err := bridge.endpoint.Open(bridge); err != nil {
		return fmt.Errorf("bridge: %w", err)
	}
	return nil
}

// Serve dispatches endpoint notifications until ctx is done, opening the
// endpoint first if Open was not called.
func (bridge *Bridge) Serve(ctx context.Context) error {
	if !bridge.endpoint.IsOpen() {
		if err := bridge.Open(); err != nil {
			return err
		}
	}
	defer bridge.endpoint.Close()

	err := bridge.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Run serves HTTP on addr and the endpoint until ctx is done.
func (bridge *Bridge) Run(ctx context.Context, addr string) error {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- bridge.app.Listen(addr)
	}()

	serveErr := bridge.Serve(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := bridge.app.ShutdownWithContext(shutdownCtx); err != nil {
		bridge.logger.Printf("bridge: shutdown: %v", err)
	}

	select {
	case err := <-listenErr:
		if err != nil && serveErr == nil {
			return fmt.Errorf("bridge: listen %s: %w", addr, err)
		}
	default:
	}
	return serveErr
}

// Pending returns the number of watch messages waiting to be drained.
func (bridge *Bridge) Pending() int {
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	return len(bridge.pending)
}

// Drain removes and returns every waiting watch message, oldest first.
func (bridge *Bridge) Drain() []appmsg.Dict {
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	drained := bridge.pending
	bridge.pending = nil
	return drained
}

// Send delivers dict to the watch and reports the outcome.
func (bridge *Bridge) Send(dict appmsg.Dict) (appmsg.Result, error) {
	bridge.sendMu.Lock()
	defer bridge.sendMu.Unlock()

	bridge.result = nil
	if err := bridge.endpoint.Send(dict); err != nil {
		return "", err
	}
	if bridge.result == nil {
		return "", errors.New("bridge: send outcome not reported")
	}
	return *bridge.result, nil
}

func (bridge *Bridge) setResult(result appmsg.Result) {
	bridge.result = &result
}

func (bridge *Bridge) enqueue(dict appmsg.Dict) {
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	bridge.pending = append(bridge.pending, dict)
	if len(bridge.pending) > MaxPending {
		bridge.pending = bridge.pending[len(bridge.pending)-MaxPending:]
		bridge.dropped++
		bridge.logger.Printf("bridge: outbox full, oldest message dropped (%d total)", bridge.dropped)
	}
}

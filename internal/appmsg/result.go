package appmsg

import "errors"

var (
	// ErrNotOpen is returned by Send before Open or after Close.
	ErrNotOpen = errors.New("app message not open")
	// ErrEmpty is returned when sending a dict without tuples.
	ErrEmpty = errors.New("app message empty")
)

// Result is the asynchronous outcome attached to dropped and failed notifications.
type Result string

const (
	ResultOK             Result = "ok"
	ResultNotConnected   Result = "not_connected"
	ResultBusy           Result = "busy"
	ResultBufferOverflow Result = "buffer_overflow"
)

// Failure is the payload of an outbox_failed event.
type Failure struct {
	Dict   Dict
	Reason Result
}

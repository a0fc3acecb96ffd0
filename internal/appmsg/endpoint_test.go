package appmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchface/internal/core/loop"
)

type recorder struct {
	events []loop.Event
	accept bool
}

func (rec *recorder) Post(event loop.Event) bool {
	if !rec.accept && event.Kind == loop.KindInboxReceived {
		rec.events = append(rec.events, loop.Event{Kind: "rejected"})
		return false
	}
	rec.events = append(rec.events, event)
	return true
}

func (rec *recorder) kinds() []loop.Kind {
	kinds := make([]loop.Kind, 0, len(rec.events))
	for _, event := range rec.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

func openPipe(t *testing.T, config Config) (*Endpoint, *recorder, *Endpoint, *recorder) {
	t.Helper()
	watch, companion := NewPipe(config)
	watchRec := &recorder{accept: true}
	companionRec := &recorder{accept: true}
	require.NoError(t, watch.Open(watchRec))
	require.NoError(t, companion.Open(companionRec))
	return watch, watchRec, companion, companionRec
}

func TestSendDelivers(t *testing.T) {
	watch, watchRec, _, companionRec := openPipe(t, DefaultConfig())

	var dict Dict
	dict.WriteUint8(0, 0)
	require.NoError(t, watch.Send(dict))

	require.Equal(t, []loop.Kind{loop.KindInboxReceived}, companionRec.kinds())
	received := companionRec.events[0].Payload.(Dict)
	tuple, ok := received.Find(0)
	require.True(t, ok)
	assert.Equal(t, TypeUint8, tuple.Value.Type())
	assert.Equal(t, int32(0), tuple.Value.Int())

	assert.Equal(t, []loop.Kind{loop.KindOutboxSent}, watchRec.kinds())
}

func TestSendBeforeOpen(t *testing.T) {
	watch, _ := NewPipe(DefaultConfig())
	var dict Dict
	dict.WriteUint8(0, 0)
	assert.ErrorIs(t, watch.Send(dict), ErrNotOpen)
}

func TestSendEmpty(t *testing.T) {
	watch, _, _, _ := openPipe(t, DefaultConfig())
	assert.ErrorIs(t, watch.Send(Dict{}), ErrEmpty)
}

func TestSendToClosedPeer(t *testing.T) {
	watch, watchRec, companion, companionRec := openPipe(t, DefaultConfig())
	companion.Close()

	var dict Dict
	dict.WriteUint8(0, 0)
	require.NoError(t, watch.Send(dict))

	assert.Empty(t, companionRec.events)
	require.Equal(t, []loop.Kind{loop.KindOutboxFailed}, watchRec.kinds())
	failure := watchRec.events[0].Payload.(Failure)
	assert.Equal(t, ResultNotConnected, failure.Reason)
}

func TestSendOverflow(t *testing.T) {
	watch, watchRec, _, companionRec := openPipe(t, Config{InboxSize: 64, OutboxSize: 16})

	var dict Dict
	dict.WriteCString(1, "a conditions label that is far too long")
	require.NoError(t, watch.Send(dict))

	assert.Empty(t, companionRec.events)
	failure := watchRec.events[0].Payload.(Failure)
	assert.Equal(t, ResultBufferOverflow, failure.Reason)
}

func TestPeerInboxOverflowIsDropped(t *testing.T) {
	watch, companion := NewPipe(Config{InboxSize: 16, OutboxSize: 64})
	watchRec := &recorder{accept: true}
	companionRec := &recorder{accept: true}
	require.NoError(t, watch.Open(watchRec))
	require.NoError(t, companion.Open(companionRec))

	var dict Dict
	dict.WriteCString(1, "Thunderstorm with hail")
	require.NoError(t, companion.Send(dict))

	assert.Equal(t, []loop.Kind{loop.KindInboxDropped}, watchRec.kinds())
	assert.Equal(t, ResultBufferOverflow, watchRec.events[0].Payload)
	assert.Equal(t, ResultBufferOverflow, companionRec.events[0].Payload.(Failure).Reason)
}

func TestBusyPeerDropsAndFails(t *testing.T) {
	watch, watchRec, _, companionRec := openPipe(t, DefaultConfig())
	companionRec.accept = false

	var dict Dict
	dict.WriteUint8(0, 0)
	require.NoError(t, watch.Send(dict))

	assert.Equal(t, []loop.Kind{"rejected", loop.KindInboxDropped}, companionRec.kinds())
	assert.Equal(t, ResultBusy, watchRec.events[0].Payload.(Failure).Reason)
}

func TestOpenNilPoster(t *testing.T) {
	watch, _ := NewPipe(DefaultConfig())
	assert.Error(t, watch.Open(nil))
	assert.False(t, watch.IsOpen())
}

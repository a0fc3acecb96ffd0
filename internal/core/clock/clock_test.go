package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchface/internal/core/loop"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStartPostsCurrentTime(t *testing.T) {
	l := loop.New(4)
	now := time.Date(2024, time.March, 14, 9, 41, 27, 0, time.UTC)
	clock := New(Config{Location: time.UTC, Now: fixedNow(now)}, l)

	require.NoError(t, clock.Start())
	defer clock.Stop()

	var got time.Time
	l.Handle(loop.KindTick, func(event loop.Event) { got = event.Payload.(time.Time) })
	l.Drain()
	assert.Equal(t, now, got)
}

func TestStartTwiceIsNoop(t *testing.T) {
	l := loop.New(4)
	now := time.Date(2024, time.March, 14, 9, 41, 27, 0, time.UTC)
	clock := New(Config{Location: time.UTC, Now: fixedNow(now)}, l)
	require.NoError(t, clock.Start())
	require.NoError(t, clock.Start())
	clock.Stop()
	clock.Stop()

	startup := 0
	l.Handle(loop.KindTick, func(event loop.Event) {
		if event.Payload.(time.Time).Equal(now) {
			startup++
		}
	})
	l.Drain()
	assert.Equal(t, 1, startup)
}

func TestFireTruncatesToMinute(t *testing.T) {
	l := loop.New(4)
	now := time.Date(2024, time.March, 15, 0, 0, 0, 4_000_000, time.UTC)
	clock := New(Config{Location: time.UTC, Now: fixedNow(now)}, l)

	clock.fire()

	var got time.Time
	l.Handle(loop.KindTick, func(event loop.Event) { got = event.Payload.(time.Time) })
	l.Drain()
	assert.Equal(t, 0, got.Second())
	assert.Equal(t, 0, got.Nanosecond())
	assert.Equal(t, 0, got.Hour())
}

func TestFireCountsMissedTicks(t *testing.T) {
	l := loop.New(1)
	clock := New(Config{Location: time.UTC}, l)
	clock.fire()
	clock.fire()
	assert.Equal(t, 1, clock.Missed())
}

func TestNowUsesLocation(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*60*60)
	now := time.Date(2024, time.March, 14, 20, 0, 0, 0, time.UTC)
	clock := New(Config{Location: zone, Now: fixedNow(now)}, loop.New(1))
	assert.Equal(t, 1, clock.Now().Hour())
}

func TestTruncateMinuteKeepsLocation(t *testing.T) {
	zone := time.FixedZone("UTC+5:30", 5*60*60+30*60)
	in := time.Date(2024, time.March, 14, 23, 59, 59, 999, zone)
	out := TruncateMinute(in)
	assert.Equal(t, 59, out.Minute())
	assert.Equal(t, 0, out.Second())
	assert.Equal(t, zone, out.Location())
}

func TestStyle(t *testing.T) {
	style := NewStyle(false)
	assert.False(t, style.Is24Hour())
	style.Set24Hour(true)
	assert.True(t, style.Is24Hour())
}

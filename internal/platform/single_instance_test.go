package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleInstance(t *testing.T) {
	name := "watchface-test-" + t.Name()
	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	defer guard.Release()

	_, err = AcquireSingleInstance(name)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, guard.Release())
	again, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	assert.NoError(t, again.Release())
}

func TestPortFromNameInRange(t *testing.T) {
	port := portFromName("watchface")
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
	assert.Equal(t, port, portFromName("watchface"))
}

func TestActivateRunning(t *testing.T) {
	name := "watchface-test-" + t.Name()
	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)

	activated := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		guard.Serve(func() { activated <- struct{}{} })
		close(done)
	}()

	require.NoError(t, ActivateRunning(name))
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("activation not delivered")
	}

	require.NoError(t, guard.Release())
	<-done
}

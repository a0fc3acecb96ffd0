package textbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetFits(t *testing.T) {
	buffer := New(8)
	assert.True(t, buffer.Set("72F"))
	assert.Equal(t, "72F", buffer.String())
	assert.False(t, buffer.Truncated())
}

func TestSetKeepsRoomForTerminator(t *testing.T) {
	buffer := New(6)
	assert.True(t, buffer.Set("12:34"))
	assert.Equal(t, "12:34", buffer.String())

	assert.False(t, buffer.Set("123456"))
	assert.Equal(t, "12345", buffer.String())
	assert.True(t, buffer.Truncated())
}

func TestSetCutsOnRuneBoundary(t *testing.T) {
	buffer := New(4)
	// "aé" is 3 bytes, "aéé" is 5.
	assert.False(t, buffer.Set("aéé"))
	assert.Equal(t, "aé", buffer.String())
}

func TestSetClearsTruncationFlag(t *testing.T) {
	buffer := New(4)
	buffer.Set("toolong")
	assert.True(t, buffer.Truncated())
	buffer.Set("ok")
	assert.False(t, buffer.Truncated())
}

func TestSetf(t *testing.T) {
	buffer := New(8)
	assert.True(t, buffer.Setf("%dF", -12))
	assert.Equal(t, "-12F", buffer.String())

	assert.False(t, buffer.Setf("%dF", 123456789))
	assert.Equal(t, "1234567", buffer.String())
}

func TestZeroValue(t *testing.T) {
	var buffer Buffer
	assert.False(t, buffer.Set("x"))
	assert.True(t, buffer.Empty())
	assert.Equal(t, 0, buffer.Size())
}

func TestReset(t *testing.T) {
	buffer := New(8)
	buffer.Set("Rainy")
	buffer.Reset()
	assert.True(t, buffer.Empty())
}

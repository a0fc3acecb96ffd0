package appmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDictSize(t *testing.T) {
	var dict Dict
	assert.Equal(t, 1, dict.Size())

	dict.WriteUint8(0, 0)
	assert.Equal(t, 1+7+1, dict.Size())

	dict.WriteInt32(0, 72)
	dict.WriteCString(1, "Cloudy")
	assert.Equal(t, 1+(7+1)+(7+4)+(7+7), dict.Size())
}

func TestDictKeepsWriteOrder(t *testing.T) {
	dict := NewDict(
		Tuple{Key: 1, Value: CString("Rainy")},
		Tuple{Key: 0, Value: Int32(65)},
	)
	tuples := dict.Tuples()
	assert.Equal(t, Key(1), tuples[0].Key)
	assert.Equal(t, Key(0), tuples[1].Key)
}

func TestValueText(t *testing.T) {
	assert.Equal(t, "-4", Int32(-4).Text())
	assert.Equal(t, "Clear", CString("Clear").Text())
	assert.Equal(t, int32(0), CString("Clear").Int())
}

func TestDictFindMissing(t *testing.T) {
	_, ok := Dict{}.Find(3)
	assert.False(t, ok)
}

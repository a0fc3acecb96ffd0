// Package appmsg carries key→value messages between the watch and its
// companion. Messages are small ordered dictionaries; each endpoint has an
// Inbox for messages it receives and an Outbox for messages it sends.
package appmsg

import "fmt"

// Key identifies a tuple within a message.
type Key uint32

// Type is the wire type of a tuple value.
type Type uint8

const (
	TypeUint8 Type = iota + 1
	TypeInt32
	TypeCString
)

// Value is a single typed tuple value.
type Value struct {
	typ  Type
	num  int64
	text string
}

// Uint8 returns a one-byte unsigned value.
func Uint8(value uint8) Value { return Value{typ: TypeUint8, num: int64(value)} }

// Int32 returns a four-byte signed value.
func Int32(value int32) Value { return Value{typ: TypeInt32, num: int64(value)} }

// CString returns a NUL-terminated text value.
func CString(value string) Value { return Value{typ: TypeCString, text: value} }

// Type returns the wire type.
func (value Value) Type() Type { return value.typ }

// Int returns the numeric value. Text values report 0.
func (value Value) Int() int32 { return int32(value.num) }

// Text returns the text value. Numeric values are formatted in decimal.
func (value Value) Text() string {
	if value.typ == TypeCString {
		return value.text
	}
	return fmt.Sprintf("%d", value.num)
}

// Len returns the encoded payload length in bytes.
func (value Value) Len() int {
	switch value.typ {
	case TypeUint8:
		return 1
	case TypeInt32:
		return 4
	case TypeCString:
		return len(value.text) + 1
	default:
		return 0
	}
}

// Tuple is one key/value pair.
type Tuple struct {
	Key   Key
	Value Value
}

// tupleHeaderSize is key (4) + type (1) + length (2).
const tupleHeaderSize = 7

// Dict is an ordered message. Writing a key that is already present appends
// a second tuple; readers see both in order.
type Dict struct {
	tuples []Tuple
}

// NewDict returns a dict holding tuples.
func NewDict(tuples ...Tuple) Dict {
	return Dict{tuples: append([]Tuple(nil), tuples...)}
}

// Write appends a tuple.
func (dict *Dict) Write(key Key, value Value) {
	dict.tuples = append(dict.tuples, Tuple{Key: key, Value: value})
}

// WriteUint8 appends a uint8 tuple.
func (dict *Dict) WriteUint8(key Key, value uint8) { dict.Write(key, Uint8(value)) }

// WriteInt32 appends an int32 tuple.
func (dict *Dict) WriteInt32(key Key, value int32) { dict.Write(key, Int32(value)) }

// WriteCString appends a text tuple.
func (dict *Dict) WriteCString(key Key, value string) { dict.Write(key, CString(value)) }

// Tuples returns a copy of the tuples in write order.
func (dict Dict) Tuples() []Tuple {
	return append([]Tuple(nil), dict.tuples...)
}

// Len returns the number of tuples.
func (dict Dict) Len() int { return len(dict.tuples) }

// Find returns the first tuple with key.
func (dict Dict) Find(key Key) (Tuple, bool) {
	for _, tuple := range dict.tuples {
		if tuple.Key == key {
			return tuple, true
		}
	}
	return Tuple{}, false
}

// Size returns the encoded size: one count byte plus a header and payload
// per tuple.
func (dict Dict) Size() int {
	size := 1
	for _, tuple := range dict.tuples {
		size += tupleHeaderSize + tuple.Value.Len()
	}
	return size
}

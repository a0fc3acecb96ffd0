// Package textbuf provides fixed-capacity display strings.
//
// A Buffer mirrors the fixed character arrays the display regions are sized
// for: it holds at most Size()-1 bytes, leaving room for the terminator the
// firmware reserves. Longer input is cut back to a rune boundary and the
// buffer remembers that it truncated.
package textbuf

import (
	"fmt"
	"unicode/utf8"
)

// Buffer is a bounded string. The zero value has no capacity and always
// holds the empty string.
type Buffer struct {
	size      int
	text      string
	truncated bool
}

// New returns an empty buffer of size bytes.
func New(size int) Buffer {
	if size < 0 {
		size = 0
	}
	return Buffer{size: size}
}

// Set stores text, truncating it to fit. It reports whether text fit as-is.
func (buffer *Buffer) Set(text string) bool {
	limit := buffer.size - 1
	if limit < 0 {
		limit = 0
	}
	if len(text) <= limit {
		buffer.text = text
		buffer.truncated = false
		return true
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	buffer.text = text[:cut]
	buffer.truncated = true
	return false
}

// Setf formats according to format and stores the result.
func (buffer *Buffer) Setf(format string, args ...any) bool {
	return buffer.Set(fmt.Sprintf(format, args...))
}

// Reset empties the buffer.
func (buffer *Buffer) Reset() {
	buffer.text = ""
	buffer.truncated = false
}

// String returns the stored text.
func (buffer Buffer) String() string {
	return buffer.text
}

// Empty reports whether no text is stored.
func (buffer Buffer) Empty() bool {
	return buffer.text == ""
}

// Truncated reports whether the last Set had to shorten its input.
func (buffer Buffer) Truncated() bool {
	return buffer.truncated
}

// Size returns the capacity in bytes, terminator included.
func (buffer Buffer) Size() int {
	return buffer.size
}

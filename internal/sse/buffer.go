package sse

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	// minCapacity is the smallest backing array a Buffer allocates.
	minCapacity = 1024

	// DefaultMaxSize bounds how large a Buffer may grow before Append fails.
	DefaultMaxSize = 16 << 20
)

// ErrBufferLimit is returned by Append when the buffer cannot grow enough to
// hold the pending bytes.
var ErrBufferLimit = errors.New("sse: stream buffer limit exceeded")

var (
	lfSeparator   = []byte("\n\n")
	crlfSeparator = []byte("\r\n\r\n")
)

// Buffer is a growable byte buffer that hands out complete SSE frames.
//
// The logical content is data[offset:]. Consumed bytes stay in place until
// Compact shifts the remainder to the front of the backing array.
type Buffer struct {
	data       []byte
	offset     int
	searchFrom int
	maxSize    int
	stopped    bool
}

// NewBuffer creates an empty buffer. A maxSize of zero or less selects
// DefaultMaxSize.
func NewBuffer(maxSize int) *Buffer {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Buffer{maxSize: maxSize}
}

// Append copies chunk to the end of the buffer. If the buffer would have to
// grow beyond its limit, Append releases its storage, enters the stopped state
// and returns an error wrapping ErrBufferLimit. That error is reported once:
// every later call on a stopped buffer discards its input and returns nil.
func (b *Buffer) Append(chunk []byte) error {
	if b.stopped || len(chunk) == 0 {
		return nil
	}

	needed := len(b.data) + len(chunk)
	if needed > cap(b.data) && b.offset > 0 {
		b.Compact()
		needed = len(b.data) + len(chunk)
	}
	if needed > cap(b.data) {
		if err := b.grow(needed); err != nil {
			b.Stop()
			return err
		}
	}

	b.data = append(b.data, chunk...)
	return nil
}

// grow reallocates the backing array, doubling from minCapacity until needed
// bytes fit.
func (b *Buffer) grow(needed int) error {
	if needed > b.maxSize {
		return fmt.Errorf("%w: %d bytes pending, limit is %d", ErrBufferLimit, needed, b.maxSize)
	}

	newCap := max(cap(b.data)*2, minCapacity)
	for newCap < needed {
		newCap *= 2
	}
	newCap = min(newCap, b.maxSize)

	grown := make([]byte, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown
	return nil
}

// TakeFrame returns the next complete frame, without its separator, and
// advances past it. It returns false when no complete frame is buffered or the
// buffer is stopped.
//
// The returned slice aliases the buffer and is only valid until the next call
// to Append, Compact or Reset.
func (b *Buffer) TakeFrame() ([]byte, bool) {
	if b.stopped {
		return nil, false
	}

	pending := b.data[b.offset:]
	idx, sepLen := findSeparator(pending, b.searchFrom)
	if idx < 0 {
		// A separator may straddle the boundary with the next chunk, so keep
		// the last three bytes in the next search window.
		b.searchFrom = max(0, len(pending)-len(crlfSeparator)+1)
		return nil, false
	}

	frame := pending[:idx]
	b.offset += idx + sepLen
	b.searchFrom = 0
	return frame, true
}

// findSeparator locates the earliest blank-line separator in p at or after
// from. It returns the separator's index and length, or -1.
func findSeparator(p []byte, from int) (int, int) {
	if from >= len(p) {
		return -1, 0
	}
	window := p[from:]

	lf := bytes.Index(window, lfSeparator)
	crlf := bytes.Index(window, crlfSeparator)

	switch {
	case lf < 0 && crlf < 0:
		return -1, 0
	case crlf < 0 || (lf >= 0 && lf < crlf):
		return from + lf, len(lfSeparator)
	default:
		return from + crlf, len(crlfSeparator)
	}
}

// Compact discards consumed bytes by shifting the unconsumed remainder to the
// start of the backing array.
func (b *Buffer) Compact() {
	if b.offset == 0 {
		return
	}
	n := copy(b.data, b.data[b.offset:])
	b.data = b.data[:n]
	b.offset = 0
}

// Pending returns the bytes that have not been consumed as frames.
func (b *Buffer) Pending() []byte {
	return b.data[b.offset:]
}

// Len reports the number of unconsumed bytes.
func (b *Buffer) Len() int {
	return len(b.data) - b.offset
}

// Cap reports the capacity of the backing array.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// Reset empties the buffer but keeps its storage. A stopped buffer stays
// stopped.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.offset = 0
	b.searchFrom = 0
}

// Stop releases the storage and puts the buffer in its terminal state.
func (b *Buffer) Stop() {
	b.stopped = true
	b.data = nil
	b.offset = 0
	b.searchFrom = 0
}

// Stopped reports whether the buffer discards all further input.
func (b *Buffer) Stopped() bool {
	return b.stopped
}

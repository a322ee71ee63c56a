package wire

import (
	"encoding/binary"
	"math"
)

// Writer appends big-endian encoded values to a growable byte buffer.
// All length prefixes are 32 bit signed integers.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer whose buffer starts with the given capacity
func NewWriter(capacity int) *Writer {
	if capacity < 0 {
		capacity = 0
	}
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Reset empties the buffer but keeps the allocated capacity
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// Bytes returns the written bytes. The slice aliases the internal buffer
// and is only valid until the next write or Reset.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far
func (w *Writer) Len() int {
	return len(w.buf)
}

// --------------------------------------------------------------------------
// Scalars
// --------------------------------------------------------------------------

func (w *Writer) WriteInt16(v int16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(v))
}

func (w *Writer) WriteInt32(v int32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(v))
}

func (w *Writer) WriteInt64(v int64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, uint64(v))
}

// WriteFloat32 writes the IEEE 754 bit pattern, so NaN payloads and
// negative zero survive unchanged
func (w *Writer) WriteFloat32(v float32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, math.Float32bits(v))
}

func (w *Writer) WriteFloat64(v float64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, math.Float64bits(v))
}

// --------------------------------------------------------------------------
// Length prefixed values
// --------------------------------------------------------------------------

// WriteByteArray writes the length followed by the raw bytes
func (w *Writer) WriteByteArray(v []byte) {
	w.WriteInt32(int32(len(v)))
	w.buf = append(w.buf, v...)
}

// WriteInt64Array writes the element count followed by each element
func (w *Writer) WriteInt64Array(v []int64) {
	w.WriteInt32(int32(len(v)))
	w.grow(8 * len(v))
	for _, e := range v {
		w.buf = binary.BigEndian.AppendUint64(w.buf, uint64(e))
	}
}

// WriteFloat64Array writes the element count followed by each element
func (w *Writer) WriteFloat64Array(v []float64) {
	w.WriteInt32(int32(len(v)))
	w.grow(8 * len(v))
	for _, e := range v {
		w.buf = binary.BigEndian.AppendUint64(w.buf, math.Float64bits(e))
	}
}

// WriteString writes the UTF-8 byte length followed by the bytes
func (w *Writer) WriteString(v string) {
	w.WriteInt32(int32(len(v)))
	w.buf = append(w.buf, v...)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// grow makes sure n more bytes fit without reallocation
func (w *Writer) grow(n int) {
	if cap(w.buf)-len(w.buf) >= n {
		return
	}
	next := make([]byte, len(w.buf), 2*cap(w.buf)+n)
	copy(next, w.buf)
	w.buf = next
}

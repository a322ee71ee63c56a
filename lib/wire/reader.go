package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrShortBuffer is returned when the input ends before a value is complete
	ErrShortBuffer = errors.New("data too short")
	// ErrNegativeLength is returned for a length prefix below zero
	ErrNegativeLength = errors.New("negative length prefix")
)

// Reader consumes big-endian encoded values written by Writer.
// Every read checks bounds first and never panics on short input.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a reader positioned at the start of data
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Pos returns the current read offset
func (r *Reader) Pos() int {
	return r.pos
}

// --------------------------------------------------------------------------
// Scalars
// --------------------------------------------------------------------------

func (r *Reader) ReadInt16() (int16, error) {
	b, err := r.take(2, "int16")
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

func (r *Reader) ReadInt32() (int32, error) {
	b, err := r.take(4, "int32")
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (r *Reader) ReadInt64() (int64, error) {
	b, err := r.take(8, "int64")
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (r *Reader) ReadFloat32() (float32, error) {
	b, err := r.take(4, "float32")
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

func (r *Reader) ReadFloat64() (float64, error) {
	b, err := r.take(8, "float64")
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// --------------------------------------------------------------------------
// Length prefixed values
// --------------------------------------------------------------------------

// ReadByteArray returns a copy of the next length prefixed byte array
func (r *Reader) ReadByteArray() ([]byte, error) {
	n, err := r.readLength("byte array", 1)
	if err != nil {
		return nil, err
	}
	b, _ := r.take(n, "byte array")
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (r *Reader) ReadInt64Array() ([]int64, error) {
	n, err := r.readLength("int64 array", 8)
	if err != nil {
		return nil, err
	}
	b, _ := r.take(8*n, "int64 array")
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(binary.BigEndian.Uint64(b[8*i:]))
	}
	return out, nil
}

func (r *Reader) ReadFloat64Array() ([]float64, error) {
	n, err := r.readLength("float64 array", 8)
	if err != nil {
		return nil, err
	}
	b, _ := r.take(8*n, "float64 array")
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.BigEndian.Uint64(b[8*i:]))
	}
	return out, nil
}

func (r *Reader) ReadString() (string, error) {
	n, err := r.readLength("string", 1)
	if err != nil {
		return "", err
	}
	b, _ := r.take(n, "string")
	return string(b), nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// take advances the reader by n bytes and returns them
func (r *Reader) take(n int, what string) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("%w for %s", ErrShortBuffer, what)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// readLength reads a length prefix and checks that length*elemSize bytes follow
func (r *Reader) readLength(what string, elemSize int) (int, error) {
	l, err := r.ReadInt32()
	if err != nil {
		return 0, fmt.Errorf("%w for %s length", ErrShortBuffer, what)
	}
	if l < 0 {
		return 0, fmt.Errorf("%w for %s: %d", ErrNegativeLength, what, l)
	}
	n := int(l)
	if n*elemSize > r.Remaining() {
		return 0, fmt.Errorf("%w for %s data", ErrShortBuffer, what)
	}
	return n, nil
}

// Package wire provides the low level byte layout shared by the hand written
// codecs: a Writer and a Reader for big-endian scalars, 32 bit length
// prefixed arrays and strings, plus the DataSerializable capability
// interfaces implemented by payload types.
//
// Layout:
//
//	int16, int32, int64      big-endian two's complement
//	float32, float64         big-endian IEEE 754 bit pattern
//	[]byte, string           int32 length, raw bytes
//	[]int64, []float64       int32 element count, elements
//
// Readers never panic on bad input. Short input yields an error wrapping
// ErrShortBuffer and a negative length prefix yields an error wrapping
// ErrNegativeLength, so callers can classify failures with errors.Is.
//
// Writers and Readers are not safe for concurrent use.
package wire

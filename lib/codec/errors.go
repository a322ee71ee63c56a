package codec

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/ValentinKolb/serbench/lib/payload"
	"github.com/ValentinKolb/serbench/lib/wire"
)

// EncodingErrorKind classifies an EncodingError
type EncodingErrorKind int

const (
	// TypeMismatch means the object passed to Encode is not handled by the codec
	TypeMismatch EncodingErrorKind = iota
)

func (k EncodingErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	default:
		return fmt.Sprintf("EncodingErrorKind(%d)", int(k))
	}
}

// EncodingError is returned by ICodec.Encode
type EncodingError struct {
	Kind EncodingErrorKind
	// Type is the Go type of the rejected object
	Type string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding failed (%s): unsupported type %s", e.Kind, e.Type)
}

// DecodingErrorKind classifies a DecodingError
type DecodingErrorKind int

const (
	// Truncated means the input ended before a complete object was read
	Truncated DecodingErrorKind = iota
	// UnknownType means a recorded type name has no registered constructor
	UnknownType
	// UnregisteredType means a recorded (factoryId, typeId) pair is not registered
	UnregisteredType
	// Malformed covers any other invalid input
	Malformed
)

func (k DecodingErrorKind) String() string {
	switch k {
	case Truncated:
		return "truncated"
	case UnknownType:
		return "unknown type"
	case UnregisteredType:
		return "unregistered type"
	case Malformed:
		return "malformed"
	default:
		return fmt.Sprintf("DecodingErrorKind(%d)", int(k))
	}
}

// DecodingError is returned by ICodec.Decode
type DecodingError struct {
	Kind   DecodingErrorKind
	Detail string
	Err    error
}

func (e *DecodingError) Error() string {
	msg := fmt.Sprintf("decoding failed (%s)", e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// IsEncodingError reports whether err contains an EncodingError of the given kind
func IsEncodingError(err error, kind EncodingErrorKind) bool {
	var encErr *EncodingError
	return errors.As(err, &encErr) && encErr.Kind == kind
}

// IsDecodingError reports whether err contains a DecodingError of the given kind
func IsDecodingError(err error, kind DecodingErrorKind) bool {
	var decErr *DecodingError
	return errors.As(err, &decErr) && decErr.Kind == kind
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func typeMismatch(obj any) *EncodingError {
	return &EncodingError{Kind: TypeMismatch, Type: fmt.Sprintf("%T", obj)}
}

// asSample returns obj as a non nil SampleObject or a TypeMismatch error
func asSample(obj any) (*payload.SampleObject, error) {
	o, ok := obj.(*payload.SampleObject)
	if !ok || o == nil {
		return nil, typeMismatch(obj)
	}
	return o, nil
}

// IsNil reports whether obj is nil or a typed nil pointer
func IsNil(obj any) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func truncated(detail string, err error) *DecodingError {
	return &DecodingError{Kind: Truncated, Detail: detail, Err: err}
}

func malformed(detail string, err error) *DecodingError {
	return &DecodingError{Kind: Malformed, Detail: detail, Err: err}
}

// fromWireError classifies an error returned by wire.Reader
func fromWireError(err error) *DecodingError {
	if errors.Is(err, wire.ErrShortBuffer) {
		return truncated("", err)
	}
	return malformed("", err)
}

// fromLibraryError classifies an error returned by a third party decoder.
// An unexpected end of input counts as truncation, anything else as malformed.
func fromLibraryError(lib string, err error) *DecodingError {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return truncated(lib, err)
	}
	return malformed(lib, err)
}

// checkMinSize rejects data shorter than the shortest valid encoding
func checkMinSize(data []byte, minSize int) error {
	if len(data) < minSize {
		return truncated(fmt.Sprintf("got %d bytes, shortest valid encoding is %d", len(data), minSize), nil)
	}
	return nil
}

// shortestEncoding returns the size of the smallest encoding enc produces
// for an empty SampleObject. Both nil and empty slices are tried since
// formats differ in which one is shorter.
func shortestEncoding(enc func(obj any) ([]byte, error)) int {
	candidates := []*payload.SampleObject{
		{},
		{ByteArr: []byte{}, LongArr: []int64{}, DblArr: []float64{}},
	}
	shortest := -1
	for _, obj := range candidates {
		data, err := enc(obj)
		if err != nil {
			continue
		}
		if shortest < 0 || len(data) < shortest {
			shortest = len(data)
		}
	}
	if shortest < 0 {
		return 0
	}
	return shortest
}

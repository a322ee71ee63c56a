package bench

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ValentinKolb/serbench/lib/codec"
)

var (
	// ErrRunnerUsed is returned when Run is called on a runner that already ran
	ErrRunnerUsed = errors.New("runner already used")
	// ErrNegativeIterations is returned for an iteration count below zero
	ErrNegativeIterations = errors.New("iteration count must not be negative")
)

// VerificationErrorKind classifies a VerificationError
type VerificationErrorKind int

const (
	// NullResult means the codec returned no object and no error
	NullResult VerificationErrorKind = iota
	// Mismatch means the decoded object differs from the encoded one
	Mismatch
)

func (k VerificationErrorKind) String() string {
	switch k {
	case NullResult:
		return "null result"
	case Mismatch:
		return "mismatch"
	default:
		return fmt.Sprintf("VerificationErrorKind(%d)", int(k))
	}
}

// VerificationError is reported when a round trip does not reproduce the
// original object
type VerificationError struct {
	Kind VerificationErrorKind
	// Fields lists the differing fields for Mismatch
	Fields []string
	// Detail describes a type level mismatch
	Detail string
}

func (e *VerificationError) Error() string {
	msg := fmt.Sprintf("verification failed (%s)", e.Kind)
	if len(e.Fields) > 0 {
		msg += ": fields " + strings.Join(e.Fields, ", ") + " differ"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// IsVerificationError reports whether err contains a VerificationError of the given kind
func IsVerificationError(err error, kind VerificationErrorKind) bool {
	var verErr *VerificationError
	return errors.As(err, &verErr) && verErr.Kind == kind
}

// RunError wraps the failure that aborted a benchmark run
type RunError struct {
	// Codec is the name of the codec under test
	Codec string
	// Iteration is the index of the failed round trip
	Iteration int32
	Err       error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("codec %s failed at iteration %d (%s): %v", e.Codec, e.Iteration, e.Kind(), e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Kind names the failure category, e.g. "decoding: truncated"
func (e *RunError) Kind() string {
	var (
		encErr *codec.EncodingError
		decErr *codec.DecodingError
		verErr *VerificationError
	)
	switch {
	case errors.As(e.Err, &encErr):
		return "encoding: " + encErr.Kind.String()
	case errors.As(e.Err, &decErr):
		return "decoding: " + decErr.Kind.String()
	case errors.As(e.Err, &verErr):
		return "verification: " + verErr.Kind.String()
	default:
		return "error"
	}
}

package bench

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/serbench/lib/codec"
	"github.com/ValentinKolb/serbench/lib/common"
	"github.com/ValentinKolb/serbench/lib/payload"
	"github.com/ValentinKolb/serbench/lib/util"
	"github.com/lni/dragonboat/v4/logger"
)

// State is the lifecycle state of a Runner
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// RunnerOption configures a Runner
type RunnerOption func(r *Runner)

// WithSizeHistogram records the encoded size of every round trip in h
func WithSizeHistogram(h *util.SizeHistogram) RunnerOption {
	return func(r *Runner) {
		r.sizes = h
	}
}

// Runner times one benchmark run of a codec. A runner is single use: after
// Run returns it is either completed or failed and cannot run again.
type Runner struct {
	name  string
	state State
	sizes *util.SizeHistogram
	log   logger.ILogger
}

// NewRunner creates an idle runner. The name is used in errors and logs.
func NewRunner(name string, opts ...RunnerOption) *Runner {
	r := &Runner{
		name:  name,
		state: StateIdle,
		log:   logger.GetLogger(common.LoggerBench),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current lifecycle state
func (r *Runner) State() State {
	return r.state
}

// Run performs n round trips of create, encode, decode and verify and
// returns the elapsed wall clock time of the whole loop. The first failure
// aborts the run and is returned as a *RunError.
func (r *Runner) Run(c codec.ICodec, f payload.IFactory, n int32) (time.Duration, error) {
	if r.state != StateIdle {
		return 0, fmt.Errorf("%s: %w (state %s)", r.name, ErrRunnerUsed, r.state)
	}
	if n < 0 {
		r.state = StateFailed
		return 0, fmt.Errorf("%s: %w: %d", r.name, ErrNegativeIterations, n)
	}

	r.state = StateRunning
	r.log.Debugf("running %s for %d iterations", r.name, n)

	start := time.Now()
	for i := int32(0); i < n; i++ {
		if err := r.roundTrip(c, f, i); err != nil {
			r.state = StateFailed
			runErr := &RunError{Codec: r.name, Iteration: i, Err: err}
			r.log.Errorf("%v", runErr)
			return 0, runErr
		}
	}
	elapsed := time.Since(start)

	r.state = StateCompleted
	r.log.Debugf("%s completed in %s", r.name, elapsed)
	return elapsed, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// roundTrip runs a single iteration
func (r *Runner) roundTrip(c codec.ICodec, f payload.IFactory, i int32) error {
	obj := f.Create(i)

	data, err := c.Encode(obj)
	if err != nil {
		return err
	}
	if r.sizes != nil {
		r.sizes.AddSample(len(data))
	}

	decoded, err := c.Decode(data)
	if err != nil {
		return err
	}
	return verify(obj, decoded)
}

// verify compares the original object with the decoded value
func verify(original *payload.SampleObject, decoded any) error {
	if codec.IsNil(decoded) {
		return &VerificationError{Kind: NullResult}
	}
	result, ok := decoded.(*payload.SampleObject)
	if !ok {
		return &VerificationError{Kind: Mismatch, Detail: fmt.Sprintf("decoded %T, expected %T", decoded, original)}
	}
	if diff := payload.Diff(original, result); len(diff) > 0 {
		return &VerificationError{Kind: Mismatch, Fields: diff}
	}
	return nil
}

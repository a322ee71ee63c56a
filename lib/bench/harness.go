package bench

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/ValentinKolb/serbench/lib/codec"
	"github.com/ValentinKolb/serbench/lib/common"
	"github.com/ValentinKolb/serbench/lib/payload"
	"github.com/ValentinKolb/serbench/lib/util"
	"github.com/lni/dragonboat/v4/logger"
)

// SweepResult is the outcome of one codec in one sweep
type SweepResult struct {
	Sweep      int           `json:"sweep"`
	Codec      string        `json:"codec"`
	Name       string        `json:"name"`
	Iterations int           `json:"iterations"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	// EncodedBytes is the sum of all encoded sizes of the sweep
	EncodedBytes int64 `json:"encoded_bytes"`
	// AvgSize is the mean encoded size of one object
	AvgSize int `json:"avg_size"`
	// MedianSize is estimated from the size histogram
	MedianSize int `json:"median_size"`
	MinSize    int `json:"min_size"`
	MaxSize    int `json:"max_size"`
}

// FactoryProvider returns the payload factory for a sweep
type FactoryProvider func(sweep int) payload.IFactory

// HarnessOption configures a Harness
type HarnessOption func(h *Harness)

// WithMetrics records every sweep in m
func WithMetrics(m *Metrics) HarnessOption {
	return func(h *Harness) {
		h.metrics = m
	}
}

// WithFactoryProvider replaces the default seeded math/rand factories
func WithFactoryProvider(p FactoryProvider) HarnessOption {
	return func(h *Harness) {
		h.factories = p
	}
}

// Harness drives the configured codecs through all sweeps and prints one
// line per codec and sweep
type Harness struct {
	cfg       common.BenchConfig
	codecs    []codec.Entry
	out       io.Writer
	metrics   *Metrics
	factories FactoryProvider
	sizes     *util.SizeHistogram
	log       logger.ILogger
}

// NewHarness validates cfg and resolves the codec selection. Result lines
// are written to out.
func NewHarness(cfg common.BenchConfig, out io.Writer, opts ...HarnessOption) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	codecs, err := codec.Select(cfg.Codecs)
	if err != nil {
		return nil, err
	}

	h := &Harness{
		cfg:    cfg,
		codecs: codecs,
		out:    out,
		sizes:  util.NewSizeHistogram(),
		log:    logger.GetLogger(common.LoggerBench),
	}
	h.factories = func(sweep int) payload.IFactory {
		if cfg.Seed == 0 {
			return payload.NewFactory(0)
		}
		return payload.NewFactory(cfg.Seed + int64(sweep))
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Codecs returns the resolved codec selection in run order
func (h *Harness) Codecs() []codec.Entry {
	return h.codecs
}

// Run executes all sweeps. It stops at the first failure and returns the
// results gathered so far together with the error. Cancelling ctx stops the
// run between codecs and during the pause between sweeps.
func (h *Harness) Run(ctx context.Context) ([]SweepResult, error) {
	results := make([]SweepResult, 0, h.cfg.Sweeps*len(h.codecs))
	opts := codec.Options{BufferSizeHint: h.cfg.BufferSizeHint}

	for sweep := 0; sweep < h.cfg.Sweeps; sweep++ {
		h.log.Infof("sweep %d of %d", sweep+1, h.cfg.Sweeps)

		for _, entry := range h.codecs {
			if err := ctx.Err(); err != nil {
				return results, err
			}

			res, err := h.runCodec(entry, opts, sweep)
			if err != nil {
				if h.metrics != nil {
					h.metrics.RecordFailure(entry.Key)
				}
				return results, err
			}

			fmt.Fprintf(h.out, "%s:: %d ms\n", entry.Name, res.Elapsed.Milliseconds())
			if h.metrics != nil {
				h.metrics.Record(res)
			}
			results = append(results, res)
		}
		fmt.Fprintln(h.out)

		if sweep < h.cfg.Sweeps-1 {
			if err := h.betweenSweeps(ctx); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// runCodec benchmarks one codec with a fresh codec, factory and runner
func (h *Harness) runCodec(entry codec.Entry, opts codec.Options, sweep int) (SweepResult, error) {
	h.sizes.Reset()
	runner := NewRunner(entry.Name, WithSizeHistogram(h.sizes))

	elapsed, err := runner.Run(entry.New(opts), h.factories(sweep), int32(h.cfg.Iterations))
	if err != nil {
		return SweepResult{}, err
	}

	minSize, maxSize := h.sizes.MinMax()
	res := SweepResult{
		Sweep:        sweep,
		Codec:        entry.Key,
		Name:         entry.Name,
		Iterations:   h.cfg.Iterations,
		Elapsed:      elapsed,
		EncodedBytes: h.sizes.TotalBytes(),
		AvgSize:      h.sizes.AverageSize(),
		MedianSize:   h.sizes.MedianEstimate(),
		MinSize:      minSize,
		MaxSize:      maxSize,
	}
	h.log.Debugf("%s: %d encoded sizes between %d and %d bytes", entry.Name, h.sizes.GetCount(), minSize, maxSize)
	return res, nil
}

// betweenSweeps settles the runtime before the next sweep
func (h *Harness) betweenSweeps(ctx context.Context) error {
	if h.cfg.GCBetweenSweeps {
		runtime.GC()
	}
	if h.cfg.Pause <= 0 {
		return nil
	}

	h.log.Debugf("pausing %s", h.cfg.Pause)
	timer := time.NewTimer(h.cfg.Pause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

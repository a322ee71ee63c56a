package bench

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/serbench/lib/codec"
	"github.com/ValentinKolb/serbench/lib/common"
	"github.com/ValentinKolb/serbench/lib/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a small configuration without pauses
func testConfig(codecs ...string) common.BenchConfig {
	cfg := common.DefaultBenchConfig()
	cfg.Iterations = 5
	cfg.Sweeps = 2
	cfg.Codecs = codecs
	cfg.Seed = 99
	cfg.Pause = 0
	cfg.GCBetweenSweeps = false
	return cfg
}

// nilFactory yields nil objects, which every codec rejects
type nilFactory struct{}

func (nilFactory) Create(int32) *payload.SampleObject { return nil }

func TestHarnessOutputFormat(t *testing.T) {
	var out bytes.Buffer
	metrics := NewMetrics()
	h, err := NewHarness(testConfig("raw", "gob"), &out, WithMetrics(metrics))
	require.NoError(t, err)

	results, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)

	lines := strings.Split(out.String(), "\n")
	// two sweeps of two codecs, each sweep followed by a blank line
	require.Len(t, lines, 7)
	line := regexp.MustCompile(`^(Raw Binary|GOB):: \d+ ms$`)
	for _, i := range []int{0, 1, 3, 4} {
		assert.Regexp(t, line, lines[i])
	}
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "", lines[5])
	assert.True(t, strings.HasPrefix(lines[0], "Raw Binary::"))
	assert.True(t, strings.HasPrefix(lines[1], "GOB::"))

	for _, res := range results {
		assert.Equal(t, 5, res.Iterations)
		assert.Greater(t, res.AvgSize, 0)
		// the size histogram is reset before each codec
		assert.Equal(t, int64(res.AvgSize), res.EncodedBytes/int64(res.Iterations))
		assert.LessOrEqual(t, res.MinSize, res.AvgSize)
		assert.GreaterOrEqual(t, res.MaxSize, res.AvgSize)
		assert.GreaterOrEqual(t, res.MedianSize, res.MinSize)
		assert.LessOrEqual(t, res.MedianSize, res.MaxSize)
	}
	assert.Equal(t, 0, results[0].Sweep)
	assert.Equal(t, 1, results[3].Sweep)

	var prom bytes.Buffer
	metrics.WritePrometheus(&prom)
	assert.Contains(t, prom.String(), `serbench_roundtrips_total{codec="raw"} 10`)
	assert.Contains(t, prom.String(), `serbench_roundtrips_total{codec="gob"} 10`)

	timer := metrics.SweepTimer("raw")
	require.NotNil(t, timer)
	assert.Equal(t, int64(2), timer.Count())
	assert.Nil(t, metrics.SweepTimer("json"))

	var dump bytes.Buffer
	metrics.WriteRegistry(&dump)
	assert.Contains(t, dump.String(), "codec.raw.sweep")
}

func TestHarnessStopsOnFirstFailure(t *testing.T) {
	var out bytes.Buffer
	metrics := NewMetrics()
	h, err := NewHarness(testConfig("raw", "gob"), &out,
		WithMetrics(metrics),
		WithFactoryProvider(func(int) payload.IFactory { return nilFactory{} }),
	)
	require.NoError(t, err)

	results, err := h.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, results)
	assert.Empty(t, out.String())
	assert.True(t, codec.IsEncodingError(err, codec.TypeMismatch))

	var runErr *RunError
	require.True(t, errors.As(err, &runErr))
	assert.Equal(t, "Raw Binary", runErr.Codec)
	assert.Equal(t, int32(0), runErr.Iteration)

	var prom bytes.Buffer
	metrics.WritePrometheus(&prom)
	assert.Contains(t, prom.String(), `serbench_failures_total{codec="raw"} 1`)
	assert.NotContains(t, prom.String(), `codec="gob"`)
}

func TestHarnessCancelled(t *testing.T) {
	h, err := NewHarness(testConfig("raw"), &bytes.Buffer{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHarnessPauseHonoursContext(t *testing.T) {
	cfg := testConfig("raw")
	cfg.Pause = time.Hour
	cfg.GCBetweenSweeps = true

	h, err := NewHarness(cfg, &bytes.Buffer{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	results, err := h.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, results, 1, "the first sweep completes before the pause")
}

func TestHarnessSeededFactories(t *testing.T) {
	var calls []int
	cfg := testConfig("raw")
	cfg.Sweeps = 3
	h, err := NewHarness(cfg, &bytes.Buffer{}, WithFactoryProvider(func(sweep int) payload.IFactory {
		calls = append(calls, sweep)
		return payload.NewFactory(int64(sweep + 1))
	}))
	require.NoError(t, err)

	_, err = h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, calls)
}

func TestNewHarnessRejectsInvalidInput(t *testing.T) {
	_, err := NewHarness(testConfig("yaml"), &bytes.Buffer{})
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Iterations = 0
	_, err = NewHarness(cfg, &bytes.Buffer{})
	assert.Error(t, err)

	h, err := NewHarness(testConfig(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Len(t, h.Codecs(), len(codec.Entries()))
}

package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	for input, want := range map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		" error ": logger.ERROR,
	} {
		got, err := ParseLogLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestLoggerFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() { SetLogOutput(nil) })

	l := CreateLogger("bench")
	l.SetLevel(logger.WARNING)
	l.Infof("hidden %d", 1)
	l.Warningf("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN  | bench      | shown 2")
}

func TestInitLoggersRejectsInvalidLevel(t *testing.T) {
	assert.Error(t, InitLoggers("loud"))
}

func TestInitLoggersRepeated(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() { SetLogOutput(nil) })

	require.NoError(t, InitLoggers("info"))
	assert.NotPanics(t, func() {
		assert.NoError(t, InitLoggers("error"))
	})

	l := logger.GetLogger(LoggerBench)
	l.Infof("hidden %d", 1)
	l.Errorf("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "ERROR | bench      | shown 2")
}

func TestBenchConfigValidate(t *testing.T) {
	cfg := DefaultBenchConfig()
	require.NoError(t, cfg.Validate())

	testCases := []struct {
		name   string
		mutate func(c *BenchConfig)
	}{
		{"zero iterations", func(c *BenchConfig) { c.Iterations = 0 }},
		{"too many iterations", func(c *BenchConfig) { c.Iterations = 1 << 40 }},
		{"zero sweeps", func(c *BenchConfig) { c.Sweeps = 0 }},
		{"negative buffer", func(c *BenchConfig) { c.BufferSizeHint = -1 }},
		{"negative pause", func(c *BenchConfig) { c.Pause = -1 }},
		{"bad log level", func(c *BenchConfig) { c.LogLevel = "loud" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultBenchConfig()
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestBenchConfigString(t *testing.T) {
	cfg := DefaultBenchConfig()
	cfg.Codecs = []string{"raw", "gob"}
	out := cfg.String()

	for _, section := range []string{"WORKLOAD", "CODECS", "BETWEEN SWEEPS", "OUTPUT", "LOGGING"} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "10000")
	assert.True(t, strings.Contains(out, "raw") && strings.Contains(out, "gob"))
	assert.Contains(t, out, "random")
}

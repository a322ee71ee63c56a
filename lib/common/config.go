package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Defaults of the benchmark configuration
const (
	DefaultIterations     = 10000
	DefaultSweeps         = 3
	DefaultBufferSizeHint = 64 * 1024
	DefaultPause          = time.Second
	DefaultLogLevel       = "info"
)

// --------------------------------------------------------------------------
// Benchmark configuration struct
// --------------------------------------------------------------------------

// BenchConfig holds all parameters of one benchmark invocation
type BenchConfig struct {
	// round trips per codec per sweep
	Iterations int
	// full passes over all codecs
	Sweeps int
	// initial capacity of codec buffers
	BufferSizeHint int
	// codec keys in run order, empty selects all
	Codecs []string
	// payload seed, 0 picks a time based seed
	Seed int64

	// between sweeps
	Pause           time.Duration
	GCBetweenSweeps bool

	// outputs
	CSVFile     string
	JSONOutput  bool
	MetricsFile string
	LogMetrics  bool

	// Logging configuration
	LogLevel string
}

// DefaultBenchConfig returns the configuration used when nothing is set
func DefaultBenchConfig() BenchConfig {
	return BenchConfig{
		Iterations:      DefaultIterations,
		Sweeps:          DefaultSweeps,
		BufferSizeHint:  DefaultBufferSizeHint,
		Pause:           DefaultPause,
		GCBetweenSweeps: true,
		LogLevel:        DefaultLogLevel,
	}
}

// Validate checks that all values are usable
func (c *BenchConfig) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if c.Iterations > int(^uint32(0)>>1) {
		return fmt.Errorf("iterations must fit in 32 bits, got %d", c.Iterations)
	}
	if c.Sweeps <= 0 {
		return fmt.Errorf("sweeps must be positive, got %d", c.Sweeps)
	}
	if c.BufferSizeHint < 0 {
		return fmt.Errorf("buffer size must not be negative, got %d", c.BufferSizeHint)
	}
	if c.Pause < 0 {
		return fmt.Errorf("pause must not be negative, got %s", c.Pause)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *BenchConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	orNone := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}

	// Workload
	addSection("Workload")
	addField("Iterations", strconv.Itoa(c.Iterations))
	addField("Sweeps", strconv.Itoa(c.Sweeps))
	addField("Buffer Size Hint", fmt.Sprintf("%d bytes", c.BufferSizeHint))
	if c.Seed == 0 {
		addField("Seed", "random")
	} else {
		addField("Seed", strconv.FormatInt(c.Seed, 10))
	}

	// Codecs
	addSection("Codecs")
	if len(c.Codecs) == 0 {
		addField("Selection", "all")
	} else {
		for i, key := range c.Codecs {
			addField(strconv.Itoa(i), key)
		}
	}

	// Between sweeps
	addSection("Between Sweeps")
	addField("Pause", c.Pause.String())
	addField("Garbage Collection", strconv.FormatBool(c.GCBetweenSweeps))

	// Outputs
	addSection("Output")
	addField("CSV File", orNone(c.CSVFile))
	addField("JSON", strconv.FormatBool(c.JSONOutput))
	addField("Metrics File", orNone(c.MetricsFile))
	addField("Log Metrics", strconv.FormatBool(c.LogMetrics))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

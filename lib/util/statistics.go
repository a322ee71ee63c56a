package util

import (
	"math"
	"sort"
	"time"
)

// ----------------------------------------------------------------------------
// Summary statistics
// ----------------------------------------------------------------------------

type Stats struct {
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	MinMaxRatio  float64 `json:"min_max_ratio"`
}

// NewStats computes the standard deviation, minimum, maximum and mean
// from an array of float64 values.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	// initialize min and max with the first value
	min := values[0]
	max := values[0]

	// calculate sum for mean
	var sum float64
	for _, v := range values {
		sum += v

		// update min and max while iterating
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	// calculate mean
	mean := sum / float64(len(values))

	// calculate sum of squared differences from mean
	var sumSquaredDiffs float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}

	// calculate standard deviation (population formula)
	stdDev := math.Sqrt(sumSquaredDiffs / float64(len(values)))

	// calculate min/max ratio
	var minMaxRatio float64 = 1.0
	if max > 0 {
		minMaxRatio = min / max
	}

	return Stats{
		StdDeviation: stdDev,
		Min:          min,
		Max:          max,
		Mean:         mean,
		MinMaxRatio:  minMaxRatio,
	}
}

// SweepStats summarizes the elapsed times of one codec over all sweeps
type SweepStats struct {
	Stats
	// Stability is 1 for identical sweeps and drops towards 0 as the
	// sweeps spread out
	Stability float64 `json:"stability"`
}

// NewSweepStats computes statistics over sweep durations in milliseconds
func NewSweepStats(durations []time.Duration) SweepStats {
	values := make([]float64, len(durations))
	for i, d := range durations {
		values[i] = float64(d) / float64(time.Millisecond)
	}
	stats := NewStats(values)

	// calculate coefficient of variation
	var cv float64
	if stats.Mean > 0 {
		cv = stats.StdDeviation / stats.Mean
	}

	// stability combines CV and min/max ratio
	// -> lower CV and higher min/max ratio indicate steadier sweeps
	stability := (1.0-math.Min(1.0, cv))*0.5 + stats.MinMaxRatio*0.5

	return SweepStats{
		Stats:     stats,
		Stability: stability,
	}
}

// ----------------------------------------------------------------------------
// SizeHistogram
// ----------------------------------------------------------------------------

// SizeHistogram tracks the distribution of encoded payload sizes in
// exponential buckets, so memory use stays constant no matter how many
// samples are added. A histogram belongs to one runner and is not safe for
// concurrent use.
type SizeHistogram struct {
	boundaries []int   // upper bucket bounds in bytes
	buckets    []int64 // samples per bucket, the last one is unbounded
	count      int64
	sum        int64
	min        int
	max        int
}

// NewSizeHistogram creates an empty histogram. The boundaries are finer
// around the tens of kilobytes a SampleObject encodes to.
func NewSizeHistogram() *SizeHistogram {
	boundaries := []int{
		64, 256, 1024, 4096,
		16384, 32768, 49152, 57344, 65536, // one binary payload
		81920, 98304, 131072, 262144, // text formats
		1048576, 4194304,
	}
	return &SizeHistogram{
		boundaries: boundaries,
		buckets:    make([]int64, len(boundaries)+1),
	}
}

// AddSample records one encoded size
func (h *SizeHistogram) AddSample(size int) {
	// first bucket whose bound is not below size, len(boundaries) if none
	h.buckets[sort.SearchInts(h.boundaries, size)]++

	if h.count == 0 || size < h.min {
		h.min = size
	}
	h.max = max(h.max, size)
	h.count++
	h.sum += int64(size)
}

// GetCount returns the number of samples
func (h *SizeHistogram) GetCount() int64 {
	return h.count
}

// AverageSize returns the mean sample, 0 without samples
func (h *SizeHistogram) AverageSize() int {
	if h.count == 0 {
		return 0
	}
	return int(h.sum / h.count)
}

// MinMax returns the smallest and largest sample, both 0 without samples
func (h *SizeHistogram) MinMax() (int, int) {
	return h.min, h.max
}

// TotalBytes returns the sum of all samples
func (h *SizeHistogram) TotalBytes() int64 {
	return h.sum
}

// GetPercentileEstimate estimates the given percentile (0-100) as the middle
// of the bucket it falls into, clamped to the observed minimum and maximum.
// It returns 0 without samples or for a percentile out of range.
func (h *SizeHistogram) GetPercentileEstimate(percentile int) int {
	if h.count == 0 || percentile < 0 || percentile > 100 {
		return 0
	}

	target := int64(math.Ceil(float64(h.count) * float64(percentile) / 100.0))
	var seen int64
	for i, n := range h.buckets {
		if seen += n; seen >= target {
			return min(max(h.bucketMidpoint(i), h.min), h.max)
		}
	}
	return h.max
}

// MedianEstimate estimates the median size
func (h *SizeHistogram) MedianEstimate() int {
	return h.GetPercentileEstimate(50)
}

// Reset drops all samples so the histogram can serve the next run
func (h *SizeHistogram) Reset() {
	h.count, h.sum, h.min, h.max = 0, 0, 0, 0
	clear(h.buckets)
}

// bucketMidpoint is the representative size of bucket i. The open last
// bucket is represented by twice the largest bound.
func (h *SizeHistogram) bucketMidpoint(i int) int {
	switch {
	case i == 0:
		return h.boundaries[0] / 2
	case i < len(h.boundaries):
		return (h.boundaries[i-1] + h.boundaries[i]) / 2
	default:
		return 2 * h.boundaries[len(h.boundaries)-1]
	}
}

package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/ValentinKolb/serbench/lib/util"
	"github.com/bytedance/sonic"
)

// CodecSummary condenses all sweeps of one codec
type CodecSummary struct {
	Codec    string          `json:"codec"`
	Name     string          `json:"name"`
	SweepsMs []int64         `json:"sweeps_ms"`
	Stats    util.SweepStats `json:"stats"`
	AvgSize  int             `json:"avg_size"`
	Median   int             `json:"median_size"`
	MinSize  int             `json:"min_size"`
	MaxSize  int             `json:"max_size"`
	OpsPerS  float64         `json:"ops_per_sec"`
	Relative float64         `json:"relative_to_fastest"`
	sweeps   []time.Duration
}

// Report summarizes a complete benchmark invocation
type Report struct {
	Iterations int            `json:"iterations"`
	Sweeps     int            `json:"sweeps"`
	Codecs     []CodecSummary `json:"codecs"`
}

// NewReport groups results by codec, keeping the order of first appearance
func NewReport(results []SweepResult) Report {
	var (
		order   []string
		byCodec = make(map[string]*CodecSummary)
		report  Report
	)

	for _, res := range results {
		s, ok := byCodec[res.Codec]
		if !ok {
			s = &CodecSummary{Codec: res.Codec, Name: res.Name}
			byCodec[res.Codec] = s
			order = append(order, res.Codec)
		}
		s.sweeps = append(s.sweeps, res.Elapsed)
		s.SweepsMs = append(s.SweepsMs, res.Elapsed.Milliseconds())
		// sizes are stable across sweeps, keep the latest
		s.AvgSize = res.AvgSize
		s.Median = res.MedianSize
		s.MinSize = res.MinSize
		s.MaxSize = res.MaxSize
		report.Iterations = res.Iterations
		report.Sweeps = max(report.Sweeps, res.Sweep+1)
	}

	fastest := math.MaxFloat64
	for _, key := range order {
		s := byCodec[key]
		s.Stats = util.NewSweepStats(s.sweeps)
		if s.Stats.Mean > 0 {
			s.OpsPerS = float64(report.Iterations) / (s.Stats.Mean / 1000)
			fastest = math.Min(fastest, s.Stats.Mean)
		}
	}

	for _, key := range order {
		s := byCodec[key]
		s.Relative = 1.0
		if fastest < math.MaxFloat64 && s.Stats.Mean > 0 {
			s.Relative = s.Stats.Mean / fastest
		}
		report.Codecs = append(report.Codecs, *s)
	}
	return report
}

// WriteTable prints one aligned line per codec
func (r Report) WriteTable(w io.Writer) {
	fmt.Fprintf(w, "%-20s%12s%12s%12s%10s%12s%12s%14s%10s\n",
		"Codec", "Mean", "Min", "Max", "StdDev", "Size", "Median", "Ops/sec", "Relative")
	for _, s := range r.Codecs {
		fmt.Fprintf(w, "%-20s%12s%12s%12s%10.2f%12s%12s%14.0f%9.2fx\n",
			s.Name,
			formatMs(s.Stats.Mean),
			formatMs(s.Stats.Min),
			formatMs(s.Stats.Max),
			s.Stats.StdDeviation,
			formatBytes(s.AvgSize),
			formatBytes(s.Median),
			s.OpsPerS,
			s.Relative,
		)
	}
}

// WriteJSON writes the report as indented JSON
func (r Report) WriteJSON(w io.Writer) error {
	data, err := sonic.ConfigStd.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteCSV writes one row per codec and sweep to the file at csvPath
func (r Report) WriteCSV(csvPath string) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := r.writeCSV(file); err != nil {
		return err
	}
	return file.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (r Report) writeCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	// Write header
	header := []string{
		"Codec", "Name", "Sweep", "Iterations", "ElapsedMs", "NsPerRoundTrip",
		"AvgSizeBytes", "MedianSizeBytes", "MinSizeBytes", "MaxSizeBytes", "MeanMs", "StdDevMs", "Stability", "Relative",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write sweep results
	for _, s := range r.Codecs {
		for i, elapsed := range s.sweeps {
			var nsPerOp int64
			if r.Iterations > 0 {
				nsPerOp = elapsed.Nanoseconds() / int64(r.Iterations)
			}
			row := []string{
				s.Codec,
				s.Name,
				strconv.Itoa(i),
				strconv.Itoa(r.Iterations),
				strconv.FormatInt(elapsed.Milliseconds(), 10),
				strconv.FormatInt(nsPerOp, 10),
				strconv.Itoa(s.AvgSize),
				strconv.Itoa(s.Median),
				strconv.Itoa(s.MinSize),
				strconv.Itoa(s.MaxSize),
				fmt.Sprintf("%.3f", s.Stats.Mean),
				fmt.Sprintf("%.3f", s.Stats.StdDeviation),
				fmt.Sprintf("%.3f", s.Stats.Stability),
				fmt.Sprintf("%.3f", s.Relative),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write row for codec %s: %w", s.Codec, err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMs(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.1fms", ms)
	}
	return fmt.Sprintf("%.2fs", ms/1000)
}

func formatBytes(b int) string {
	if b <= 0 {
		return "-"
	}

	units := []string{"B", "KB", "MB", "GB"}
	size := float64(b)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	return strconv.FormatFloat(size, 'f', 1, 64) + " " + units[unit]
}

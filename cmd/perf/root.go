package perf

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/serbench/cmd/util"
	"github.com/ValentinKolb/serbench/lib/bench"
	"github.com/ValentinKolb/serbench/lib/codec"
	"github.com/ValentinKolb/serbench/lib/common"
	"github.com/ValentinKolb/serbench/lib/payload"
	"github.com/spf13/cobra"
	"io"
	"math"
	"os"
	"strconv"
	"testing"
	"time"
)

var (
	perfCmdConfig = common.DefaultBenchConfig()
	PerfCmd       = &cobra.Command{
		Use:   "perf",
		Short: "Micro benchmark every codec with the Go benchmark runner",
		Long: `Measure a single round trip (create, encode, decode, verify) of every selected codec with testing.Benchmark.
Reports ns/op, allocations per op and the encoded size. Unlike run, the number of round trips is chosen by the benchmark runner.`,
		PreRunE:      processPerfConfig,
		RunE:         run,
		SilenceUsage: true,
	}
)

// perfResult is the benchmark outcome of one codec
type perfResult struct {
	entry   codec.Entry
	result  testing.BenchmarkResult
	encSize int
}

func init() {
	// add flags
	key := "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))

	util.SetupWorkloadFlags(PerfCmd)
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	conf, err := util.GetBenchConfig()
	if err != nil {
		return err
	}
	perfCmdConfig = conf

	return common.InitLoggers(perfCmdConfig.LogLevel)
}

func run(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	entries, err := codec.Select(perfCmdConfig.Codecs)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Micro benchmark of codec round trips")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "starting benchmarks...")

	opts := codec.Options{BufferSizeHint: perfCmdConfig.BufferSizeHint}
	results := make([]perfResult, 0, len(entries))

	for _, entry := range entries {
		res, err := benchmarkCodec(entry, opts, perfCmdConfig.Seed)
		if err != nil {
			return err
		}
		results = append(results, res)
		printResult(out, res)
	}

	if perfCmdConfig.CSVFile != "" {
		if err := writeResultsToCSV(perfCmdConfig.CSVFile, results); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nResults saved to %s\n", perfCmdConfig.CSVFile)
	}

	return nil
}

// benchmarkCodec runs testing.Benchmark for one codec. Every call of the
// benchmark function uses a fresh runner for b.N round trips.
func benchmarkCodec(entry codec.Entry, opts codec.Options, seed int64) (perfResult, error) {
	c := entry.New(opts)

	// encoded size of a representative payload
	sample, err := c.Encode(payload.NewFactory(seed).Create(0))
	if err != nil {
		return perfResult{}, fmt.Errorf("%s: %w", entry.Name, err)
	}

	var runErr error
	result := testing.Benchmark(func(b *testing.B) {
		if runErr != nil {
			return
		}
		f := payload.NewFactory(seed)
		runner := bench.NewRunner(entry.Name)

		b.ReportAllocs()
		b.ResetTimer()

		if _, err := runner.Run(c, f, int32(min(b.N, math.MaxInt32))); err != nil {
			runErr = err
		}
	})
	if runErr != nil {
		return perfResult{}, runErr
	}

	return perfResult{entry: entry, result: result, encSize: len(sample)}, nil
}

func printResult(w io.Writer, res perfResult) {
	if res.result.NsPerOp() == 0 {
		fmt.Fprintf(w, "%-20sskipped\n", res.entry.Name)
		return
	}

	nsPerOp := math.Max(float64(res.result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Fprintf(w, "%-20s%.0fns/op (%s/op)\t%.0f ops/sec\t%d allocs/op\t%d B/op\t%d B encoded\n",
		res.entry.Name, nsPerOp, time.Duration(nsPerOp), opsPerSec,
		res.result.AllocsPerOp(), res.result.AllocedBytesPerOp(), res.encSize)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []perfResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := writeCSV(file, results); err != nil {
		return err
	}
	return file.Close()
}

func writeCSV(w io.Writer, results []perfResult) error {
	writer := csv.NewWriter(w)

	// Write header
	header := []string{
		"Codec", "Name", "NsPerOp", "DurationPerOp", "OpsPerSec", "AllocsPerOp",
		"BytesPerOp", "EncodedBytes", "Skipped", "BufferSize", "Seed",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write test results
	for _, res := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if res.result.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(res.result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			res.entry.Key,
			res.entry.Name,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.FormatInt(res.result.AllocsPerOp(), 10),
			strconv.FormatInt(res.result.AllocedBytesPerOp(), 10),
			strconv.Itoa(res.encSize),
			skipped,
			strconv.Itoa(perfCmdConfig.BufferSizeHint),
			strconv.FormatInt(perfCmdConfig.Seed, 10),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for codec %s: %w", res.entry.Key, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

package run

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/serbench/cmd/util"
	"github.com/ValentinKolb/serbench/lib/bench"
	"github.com/ValentinKolb/serbench/lib/common"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

var (
	runCmdConfig = common.DefaultBenchConfig()
	RunCmd       = &cobra.Command{
		Use:   "run",
		Short: "Run the serialization benchmark",
		Long: `Run every selected codec for the configured number of round trips, once per sweep.
Each round trip creates a payload, encodes it, decodes it and compares the result with the original.
The configuration can be set via command line flags or environment variables. The format of the environment variables is SERBENCH_<flag> (e.g. SERBENCH_ITERATIONS=500)`,
		PreRunE:      processConfig,
		RunE:         run,
		SilenceUsage: true,
	}
)

func init() {
	// add flags
	key := "iterations"
	RunCmd.Flags().Int(key, common.DefaultIterations, util.WrapString("Number of round trips per codec and sweep"))

	key = "sweeps"
	RunCmd.Flags().Int(key, common.DefaultSweeps, util.WrapString("Number of full passes over all selected codecs"))

	key = "pause"
	RunCmd.Flags().Duration(key, common.DefaultPause, util.WrapString("Pause between two sweeps (e.g. 500ms, 2s). 0 disables the pause"))

	key = "gc"
	RunCmd.Flags().Bool(key, true, util.WrapString("Whether to run the garbage collector between two sweeps"))

	key = "csv"
	RunCmd.Flags().String(key, "", util.WrapString("Optional path to save the results of every codec and sweep as CSV"))

	key = "json"
	RunCmd.Flags().Bool(key, false, util.WrapString("Print the final report as JSON instead of a table"))

	key = "metrics-file"
	RunCmd.Flags().String(key, "", util.WrapString("Optional path to save the collected metrics in Prometheus text format"))

	key = "log-metrics"
	RunCmd.Flags().Bool(key, false, util.WrapString("Dump the per codec timers and counters to stderr after the run"))

	util.SetupWorkloadFlags(RunCmd)
}

// processConfig reads the configuration from the command line flags and environment variables
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	conf, err := util.GetBenchConfig()
	if err != nil {
		return err
	}
	runCmdConfig = conf

	return common.InitLoggers(runCmdConfig.LogLevel)
}

func run(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	log := logger.GetLogger(common.LoggerCmd)

	// Print configuration
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintln(out, runCmdConfig.String())
	fmt.Fprintln(out)

	// stop between codecs or during the pause on ctrl-c
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := bench.NewMetrics()
	harness, err := bench.NewHarness(runCmdConfig, out, bench.WithMetrics(metrics))
	if err != nil {
		return err
	}

	results, err := harness.Run(ctx)
	if err != nil {
		var runErr *bench.RunError
		if errors.As(err, &runErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "benchmark failed: codec %s, iteration %d, %s\n",
				runErr.Codec, runErr.Iteration, runErr.Kind())
		}
		return err
	}

	report := bench.NewReport(results)
	if runCmdConfig.JSONOutput {
		if err := report.WriteJSON(out); err != nil {
			return err
		}
	} else {
		report.WriteTable(out)
	}

	if runCmdConfig.CSVFile != "" {
		if err := report.WriteCSV(runCmdConfig.CSVFile); err != nil {
			return err
		}
		log.Infof("results saved to %s", runCmdConfig.CSVFile)
	}

	if runCmdConfig.MetricsFile != "" {
		if err := writeMetricsFile(runCmdConfig.MetricsFile, metrics); err != nil {
			return err
		}
		log.Infof("metrics saved to %s", runCmdConfig.MetricsFile)
	}

	if runCmdConfig.LogMetrics {
		metrics.WriteRegistry(cmd.ErrOrStderr())
	}

	return nil
}

// writeMetricsFile writes the Prometheus exposition of m to path
func writeMetricsFile(path string, m *bench.Metrics) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer file.Close()

	m.WritePrometheus(file)
	return file.Close()
}

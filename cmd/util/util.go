package util

import (
	"fmt"
	"github.com/ValentinKolb/serbench/lib/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables (e.g. SERBENCH_ITERATIONS)
	EnvPrefix = "serbench"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from .env files and environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// SetupWorkloadFlags adds the flags shared by all commands that run codecs
func SetupWorkloadFlags(cmd *cobra.Command) {
	key := "buffer-size"
	cmd.Flags().Int(key, common.DefaultBufferSizeHint, WrapString("Initial capacity in bytes of the buffers codecs may reuse between round trips"))

	key = "seed"
	cmd.Flags().Int64(key, 0, WrapString("Seed for the payload generator. 0 picks a time based seed, any other value makes payloads reproducible"))
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetBenchConfig reads the benchmark configuration from viper. Keys that are
// neither set by flag nor by environment keep their default value.
func GetBenchConfig() (common.BenchConfig, error) {
	conf := common.DefaultBenchConfig()

	if viper.IsSet("iterations") {
		conf.Iterations = viper.GetInt("iterations")
	}
	if viper.IsSet("sweeps") {
		conf.Sweeps = viper.GetInt("sweeps")
	}
	if viper.IsSet("buffer-size") {
		conf.BufferSizeHint = viper.GetInt("buffer-size")
	}
	if viper.IsSet("codecs") {
		conf.Codecs = ParseCodecList(viper.GetString("codecs"))
	}
	if viper.IsSet("seed") {
		conf.Seed = viper.GetInt64("seed")
	}
	if viper.IsSet("pause") {
		conf.Pause = viper.GetDuration("pause")
	}
	if viper.IsSet("gc") {
		conf.GCBetweenSweeps = viper.GetBool("gc")
	}
	conf.CSVFile = viper.GetString("csv")
	conf.JSONOutput = viper.GetBool("json")
	conf.MetricsFile = viper.GetString("metrics-file")
	conf.LogMetrics = viper.GetBool("log-metrics")
	if viper.IsSet("log-level") {
		conf.LogLevel = viper.GetString("log-level")
	}

	if err := conf.Validate(); err != nil {
		return conf, fmt.Errorf("invalid configuration: %w", err)
	}
	return conf, nil
}

// ParseCodecList splits a comma-separated list of codec keys, dropping
// empty entries
func ParseCodecList(list string) []string {
	keys := make([]string, 0)
	for _, key := range strings.Split(list, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

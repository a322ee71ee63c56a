package cmd

import (
	"fmt"
	"github.com/ValentinKolb/serbench/cmd/perf"
	"github.com/ValentinKolb/serbench/cmd/run"
	"github.com/ValentinKolb/serbench/cmd/util"
	"github.com/ValentinKolb/serbench/lib/codec"
	"github.com/ValentinKolb/serbench/lib/common"
	"github.com/spf13/cobra"
	"os"
	"strings"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "serbench",
		Short: "object serialization benchmark",
		Long: fmt.Sprintf(`serbench (v%s)

Measures how fast different serialization codecs round trip a large,
array heavy sample object and verifies that every decoded object equals
the original.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of serbench",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "serbench v%s\n", Version)
		},
	}
	codecsCmd = &cobra.Command{
		Use:   "codecs",
		Short: "List all available codecs",
		Run: func(cmd *cobra.Command, args []string) {
			for _, entry := range codec.Entries() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s%s\n", entry.Key, entry.Name)
			}
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(run.RunCmd)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(codecsCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "codecs"
	RootCmd.PersistentFlags().String(key, "", util.WrapString(fmt.Sprintf("Comma-separated list of codecs to run in this order, all if empty (%s)", strings.Join(codec.Keys(), ", "))))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, common.DefaultLogLevel, util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	version = "dev" // Will be set by build flags
)

var rootCmd = &cobra.Command{
	Use:   "pmiprobe",
	Short: "Probe and exercise the PMI/PMIx process bootstrap client",
	Long: `pmiprobe drives pkg/pmi/bootstrap against whatever launch environment it is
run under (PMI-1 wire protocol, a dlopen'd legacy or modern library, or
singleton) and reports which backend was selected and what it returns.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pmiprobe.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(kvsCmd)
	rootCmd.AddCommand(serveMetricsCmd)
}

// Commands are defined in separate files:
// - probeCmd in probe.go
// - kvsCmd in kvs.go
// - serveMetricsCmd in serve_metrics.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

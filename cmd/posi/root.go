package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "posi",
	Short: "Posi - pluggable rate limiting service",
	Long: `Posi is a rate limiting service with interchangeable algorithms.

It serves admission decisions over HTTP, providing:
  - Sliding window log, fixed window and token bucket limiters
  - Weighted permit acquisition (n permits per call)
  - Optional SQLite-backed permit history surviving restarts
  - Prometheus metrics for admission decisions`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Root of command-line argument parsing. Subcommands live in their own
// files and register themselves in init.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var cfgFile string

var mgr *manager

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "storctl",
	Short: "Storage account operations from the command line",
	Long: `storctl drives the table and file services of a storage account:
listing, creating, and deleting tables and shares, and reading
geo-replication statistics.

The connection string comes from --connection, the
STOROPS_CONNECTION_STRING environment variable, or a storctl config
file. A .env file in the working directory is loaded first.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree once and flushes telemetry afterwards,
// whether or not the command succeeded. Called by main.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if mgr != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		mgr.close(shutdownCtx)
		cancel()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "storctl:", err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the rootCmd literal: the closure calls
	// newManager, whose initConfig reads rootCmd's flags, and the compiler
	// rejects that self-reference as an initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		mgr, err = newManager(cfgFile)
		if err != nil {
			return fmt.Errorf("initializing storctl: %w", err)
		}
		return nil
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./storctl.yaml)")
	rootCmd.PersistentFlags().String("connection", "", "storage connection string (env STOROPS_CONNECTION_STRING)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().Duration("timeout", 0, "client-side limit for one operation including retries; 0 means none")
	rootCmd.PersistentFlags().String("location-mode", "", "replica routing: primary-only, secondary-only, primary-then-secondary, secondary-then-primary")
	rootCmd.PersistentFlags().String("trace-exporter", "none", "trace exporter: otlp, jaeger, stdout, none")
	rootCmd.PersistentFlags().String("metrics-exporter", "none", "metrics exporter: otlp, prometheus, stdout, none")
}
